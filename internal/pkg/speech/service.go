package speech

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dinesh-Bingi/legacy-ai/app/models"
	"github.com/Dinesh-Bingi/legacy-ai/app/repository"
)

// ErrNoVoiceClone means the user has not cloned a voice yet.
var ErrNoVoiceClone = errors.New("no voice clone found for user")

// Synthesizer is the vendor surface the service needs; *ElevenLabsClient
// satisfies it.
type Synthesizer interface {
	IsConfigured() bool
	CloneVoice(ctx context.Context, name string, samples []VoiceSample) (string, error)
	GenerateSpeech(ctx context.Context, text, voiceID string) ([]byte, error)
}

// Uploader stores generated audio and returns a public URL.
type Uploader interface {
	UploadBytes(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// Service clones voices and synthesizes speech in a user's cloned voice,
// persisting clone records and uploading generated audio to object storage.
type Service struct {
	avatars     repository.AvatarRepository
	synthesizer Synthesizer
	uploader    Uploader
}

// NewService creates a speech service from injected dependencies.
func NewService(avatars repository.AvatarRepository, synthesizer Synthesizer, uploader Uploader) *Service {
	return &Service{avatars: avatars, synthesizer: synthesizer, uploader: uploader}
}

// CloneVoice uploads samples to the provider and stores the resulting voice
// as the user's active clone.
func (s *Service) CloneVoice(ctx context.Context, userID uint, name string, samples []VoiceSample) (*models.VoiceClone, error) {
	if !s.synthesizer.IsConfigured() {
		return nil, ErrNotConfigured
	}

	voiceID, err := s.synthesizer.CloneVoice(ctx, name, samples)
	if err != nil {
		return nil, fmt.Errorf("failed to clone voice: %w", err)
	}

	clone := &models.VoiceClone{
		UserID:   userID,
		VoiceID:  voiceID,
		Name:     name,
		IsActive: true,
	}
	if err := s.avatars.CreateVoiceClone(clone); err != nil {
		return nil, fmt.Errorf("failed to store voice clone: %w", err)
	}
	return clone, nil
}

// GenerateSpeech synthesizes text in the user's active cloned voice, uploads
// the MP3 and returns its public URL.
func (s *Service) GenerateSpeech(ctx context.Context, userID uint, text string) (string, error) {
	if !s.synthesizer.IsConfigured() {
		return "", ErrNotConfigured
	}

	clone, err := s.avatars.GetActiveVoiceClone(userID)
	if err != nil {
		return "", ErrNoVoiceClone
	}

	audio, err := s.synthesizer.GenerateSpeech(ctx, text, clone.VoiceID)
	if err != nil {
		return "", fmt.Errorf("failed to generate speech: %w", err)
	}

	key := fmt.Sprintf("audio/%d/speech-%d.mp3", userID, time.Now().UnixMilli())
	url, err := s.uploader.UploadBytes(ctx, key, audio, "audio/mpeg")
	if err != nil {
		return "", fmt.Errorf("failed to store audio: %w", err)
	}
	return url, nil
}
