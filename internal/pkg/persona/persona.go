package persona

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2/log"

	"github.com/Dinesh-Bingi/legacy-ai/app/models"
	"github.com/Dinesh-Bingi/legacy-ai/app/repository"
)

const (
	// maxPromptMemories caps how many memories go into the system prompt.
	maxPromptMemories = 10

	defaultPersonality = "warm, wise, and loving"

	// emptyResponse is returned when the model produces no usable text.
	emptyResponse = "I'm here with you, always."
	// unavailableResponse is returned when response generation fails.
	unavailableResponse = "I'm having trouble responding right now, but know that I'm always here with you in spirit."
)

// ErrUserNotFound means the persona subject does not exist.
var ErrUserNotFound = errors.New("user not found")

// Completer produces a chat completion; *OpenAIClient satisfies it.
type Completer interface {
	IsConfigured() bool
	ChatCompletion(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Service answers visitor messages in the voice of a memorialized person,
// grounding replies in the person's recorded life-story memories.
type Service struct {
	users     repository.UserRepository
	memories  repository.MemoryRepository
	completer Completer
}

// NewService creates a persona service from injected dependencies.
func NewService(users repository.UserRepository, memories repository.MemoryRepository, completer Completer) *Service {
	return &Service{users: users, memories: memories, completer: completer}
}

// BuildSystemPrompt renders the first-person persona prompt for a subject
// from their profile and recorded memories.
func BuildSystemPrompt(user *models.User, memories []models.Memory) string {
	personality := strings.TrimSpace(user.PersonalityTraits)
	if personality == "" {
		personality = defaultPersonality
	}

	var context strings.Builder
	for i, memory := range memories {
		if i >= maxPromptMemories {
			break
		}
		if i > 0 {
			context.WriteString("\n\n")
		}
		fmt.Fprintf(&context, "Q: %s\nA: %s", memory.Question, memory.Answer)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are %s, speaking from beyond. You are having a conversation with a family member or friend who is visiting your digital memorial.\n\n", user.Name)
	fmt.Fprintf(&b, "Your personality: %s\n\n", personality)
	fmt.Fprintf(&b, "Your life memories and experiences:\n%s\n\n", context.String())
	b.WriteString("Instructions:\n")
	fmt.Fprintf(&b, "- Respond in first person as if you are %s\n", user.Name)
	b.WriteString("- Be warm, loving, and wise\n")
	b.WriteString("- Reference specific memories when relevant to the conversation\n")
	b.WriteString("- Keep responses conversational and heartfelt (2-3 sentences)\n")
	b.WriteString("- If you don't have relevant memories, speak generally about love, family, and life lessons\n")
	fmt.Fprintf(&b, "- Maintain the personality and speaking style that would be authentic to %s", user.Name)
	return b.String()
}

// Respond generates a reply to a visitor message in the subject's voice.
// Model failures degrade to a fixed comfort line rather than an error; a
// missing subject is still an error because the caller asked for a persona
// that does not exist.
func (s *Service) Respond(ctx context.Context, subjectUserID uint, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", errors.New("message is required")
	}

	user, err := s.users.GetByID(subjectUserID)
	if err != nil {
		return "", ErrUserNotFound
	}

	memories, err := s.memories.GetByUserID(subjectUserID)
	if err != nil {
		log.Errorf("[Persona] failed to load memories for user %d: %v", subjectUserID, err)
		memories = nil
	}

	systemPrompt := BuildSystemPrompt(user, memories)

	reply, err := s.completer.ChatCompletion(ctx, systemPrompt, message)
	if err != nil {
		log.Errorf("[Persona] completion failed for user %d: %v", subjectUserID, err)
		return unavailableResponse, nil
	}
	if strings.TrimSpace(reply) == "" {
		return emptyResponse, nil
	}
	return reply, nil
}
