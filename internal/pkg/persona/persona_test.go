package persona

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dinesh-Bingi/legacy-ai/app/models"
	"github.com/Dinesh-Bingi/legacy-ai/app/repository"
)

func TestBuildSystemPrompt(t *testing.T) {
	user := &models.User{Name: "Rajesh Kumar", PersonalityTraits: "gentle, funny, devoted to family"}
	memories := []models.Memory{
		{Question: "Where did you grow up?", Answer: "In a small village near Chennai.", Category: models.MemoryCategoryChildhood},
		{Question: "What was your proudest moment?", Answer: "Watching my daughter graduate.", Category: models.MemoryCategoryCareer},
	}

	prompt := BuildSystemPrompt(user, memories)
	assert.Contains(t, prompt, "You are Rajesh Kumar, speaking from beyond")
	assert.Contains(t, prompt, "Your personality: gentle, funny, devoted to family")
	assert.Contains(t, prompt, "Q: Where did you grow up?\nA: In a small village near Chennai.")
	assert.Contains(t, prompt, "Q: What was your proudest moment?")
	assert.Contains(t, prompt, "Respond in first person as if you are Rajesh Kumar")
}

func TestBuildSystemPrompt_DefaultPersonality(t *testing.T) {
	user := &models.User{Name: "Meena"}
	prompt := BuildSystemPrompt(user, nil)
	assert.Contains(t, prompt, "Your personality: warm, wise, and loving")
}

func TestBuildSystemPrompt_CapsMemories(t *testing.T) {
	user := &models.User{Name: "Meena"}
	var memories []models.Memory
	for i := 0; i < 25; i++ {
		memories = append(memories, models.Memory{
			Question: fmt.Sprintf("question %d", i),
			Answer:   fmt.Sprintf("answer %d", i),
		})
	}

	prompt := BuildSystemPrompt(user, memories)
	assert.Contains(t, prompt, "question 9")
	assert.NotContains(t, prompt, "question 10")
}

func TestChatCompletion(t *testing.T) {
	var gotAuth string
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"I remember it well."},"finish_reason":"stop"}]}`)
	}))
	defer srv.Close()

	c := NewOpenAIClient("sk-test")
	c.baseURL = srv.URL

	reply, err := c.ChatCompletion(context.Background(), "system prompt", "user prompt")
	require.NoError(t, err)
	assert.Equal(t, "I remember it well.", reply)
	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Contains(t, gotBody, `"model":"gpt-4"`)
	assert.Contains(t, gotBody, `"max_tokens":200`)
}

func TestChatCompletion_NoAPIKey(t *testing.T) {
	c := NewOpenAIClient("")
	_, err := c.ChatCompletion(context.Background(), "s", "u")
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestChatCompletion_ClientErrorNotRetried(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":{"message":"bad request"}}`)
	}))
	defer srv.Close()

	c := NewOpenAIClient("sk-test")
	c.baseURL = srv.URL

	_, err := c.ChatCompletion(context.Background(), "s", "u")
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

type stubUsers struct {
	repository.UserRepository
	user *models.User
}

func (s *stubUsers) GetByID(id uint) (*models.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, errors.New("record not found")
	}
	return s.user, nil
}

type stubMemories struct {
	repository.MemoryRepository
	memories []models.Memory
}

func (s *stubMemories) GetByUserID(userID uint) ([]models.Memory, error) {
	return s.memories, nil
}

type stubCompleter struct {
	gotSystem string
	gotUser   string
	reply     string
	err       error
}

func (s *stubCompleter) IsConfigured() bool { return true }

func (s *stubCompleter) ChatCompletion(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	s.gotSystem = systemPrompt
	s.gotUser = userPrompt
	return s.reply, s.err
}

func TestRespond(t *testing.T) {
	completer := &stubCompleter{reply: "My dear, I remember that summer fondly."}
	svc := NewService(
		&stubUsers{user: &models.User{ID: 7, Name: "Rajesh Kumar"}},
		&stubMemories{memories: []models.Memory{{Question: "q", Answer: "a"}}},
		completer,
	)

	reply, err := svc.Respond(context.Background(), 7, "Do you remember our trip?")
	require.NoError(t, err)
	assert.Equal(t, "My dear, I remember that summer fondly.", reply)
	assert.True(t, strings.Contains(completer.gotSystem, "Rajesh Kumar"))
	assert.Equal(t, "Do you remember our trip?", completer.gotUser)
}

func TestRespond_UnknownUser(t *testing.T) {
	svc := NewService(&stubUsers{}, &stubMemories{}, &stubCompleter{})
	_, err := svc.Respond(context.Background(), 99, "hello")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRespond_CompletionFailureDegrades(t *testing.T) {
	svc := NewService(
		&stubUsers{user: &models.User{ID: 7, Name: "Rajesh"}},
		&stubMemories{},
		&stubCompleter{err: errors.New("api down")},
	)

	reply, err := svc.Respond(context.Background(), 7, "hello")
	require.NoError(t, err)
	assert.Equal(t, unavailableResponse, reply)
}

func TestRespond_EmptyMessage(t *testing.T) {
	svc := NewService(&stubUsers{}, &stubMemories{}, &stubCompleter{})
	_, err := svc.Respond(context.Background(), 7, "   ")
	assert.Error(t, err)
}
