package speech

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

func TestCloneVoice_Client(t *testing.T) {
	var gotKey, gotContentType string
	var gotForm map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("xi-api-key")
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotForm = r.MultipartForm.Value
		fmt.Fprint(w, `{"voice_id":"voice_abc123"}`)
	}))
	defer srv.Close()

	c := NewElevenLabsClient("xi-test")
	c.baseURL = srv.URL

	voiceID, err := c.CloneVoice(context.Background(), "Rajesh", []VoiceSample{
		{FileName: "sample1.mp3", Data: strings.NewReader("fake audio")},
	})
	require.NoError(t, err)
	assert.Equal(t, "voice_abc123", voiceID)
	assert.Equal(t, "xi-test", gotKey)
	assert.Contains(t, gotContentType, "multipart/form-data")
	assert.Equal(t, []string{"Rajesh"}, gotForm["name"])
}

func TestCloneVoice_NoSamples(t *testing.T) {
	c := NewElevenLabsClient("xi-test")
	_, err := c.CloneVoice(context.Background(), "Rajesh", nil)
	assert.Error(t, err)
}

func TestGenerateSpeech_Client(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/text-to-speech/voice_abc123", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), `"model_id":"eleven_multilingual_v2"`)
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("mp3 bytes"))
	}))
	defer srv.Close()

	c := NewElevenLabsClient("xi-test")
	c.baseURL = srv.URL

	audio, err := c.GenerateSpeech(context.Background(), "Hello, my dear", "voice_abc123")
	require.NoError(t, err)
	assert.Equal(t, []byte("mp3 bytes"), audio)
}

func TestGenerateSpeech_NotConfigured(t *testing.T) {
	c := NewElevenLabsClient("")
	_, err := c.GenerateSpeech(context.Background(), "hi", "v1")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

type stubAvatars struct {
	repository.AvatarRepository
	clone   *models.VoiceClone
	created *models.VoiceClone
}

func (s *stubAvatars) GetActiveVoiceClone(userID uint) (*models.VoiceClone, error) {
	if s.clone == nil {
		return nil, errors.New("record not found")
	}
	return s.clone, nil
}

func (s *stubAvatars) CreateVoiceClone(clone *models.VoiceClone) error {
	s.created = clone
	return nil
}

type stubSynth struct {
	voiceID string
	audio   []byte
	gotText string
}

func (s *stubSynth) IsConfigured() bool { return true }

func (s *stubSynth) CloneVoice(ctx context.Context, name string, samples []VoiceSample) (string, error) {
	return s.voiceID, nil
}

func (s *stubSynth) GenerateSpeech(ctx context.Context, text, voiceID string) ([]byte, error) {
	s.gotText = text
	return s.audio, nil
}

type stubUploader struct {
	gotKey         string
	gotContentType string
	gotData        []byte
}

func (s *stubUploader) UploadBytes(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	s.gotKey = key
	s.gotData = data
	s.gotContentType = contentType
	return "https://cdn.example.com/" + key, nil
}

func TestServiceGenerateSpeech(t *testing.T) {
	uploader := &stubUploader{}
	synth := &stubSynth{audio: []byte("mp3")}
	svc := NewService(&stubAvatars{clone: &models.VoiceClone{VoiceID: "voice_1"}}, synth, uploader)

	url, err := svc.GenerateSpeech(context.Background(), 7, "Hello")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "https://cdn.example.com/audio/7/speech-"))
	assert.Equal(t, "Hello", synth.gotText)
	assert.Equal(t, []byte("mp3"), uploader.gotData)
	assert.Equal(t, "audio/mpeg", uploader.gotContentType)
}

func TestServiceGenerateSpeech_NoClone(t *testing.T) {
	svc := NewService(&stubAvatars{}, &stubSynth{}, &stubUploader{})
	_, err := svc.GenerateSpeech(context.Background(), 7, "Hello")
	assert.ErrorIs(t, err, ErrNoVoiceClone)
}

func TestServiceCloneVoice(t *testing.T) {
	avatars := &stubAvatars{}
	svc := NewService(avatars, &stubSynth{voiceID: "voice_new"}, &stubUploader{})

	clone, err := svc.CloneVoice(context.Background(), 7, "Rajesh", []VoiceSample{
		{FileName: "a.mp3", Data: strings.NewReader("x")},
	})
	require.NoError(t, err)
	assert.Equal(t, "voice_new", clone.VoiceID)
	assert.True(t, clone.IsActive)
	require.NotNil(t, avatars.created)
	assert.Equal(t, uint(7), avatars.created.UserID)
}
