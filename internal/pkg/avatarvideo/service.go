package avatarvideo

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2/log"

	"github.com/Dinesh-Bingi/legacy-ai/app/models"
	"github.com/Dinesh-Bingi/legacy-ai/app/repository"
)

var (
	// ErrNoAvatar means the user has no active avatar image.
	ErrNoAvatar = errors.New("no active avatar found for user")
	// ErrStillProcessing means the vendor has not finished the render yet.
	ErrStillProcessing = errors.New("video still processing")
)

// TalkAPI is the vendor surface the service needs; *DIDClient satisfies it.
type TalkAPI interface {
	IsConfigured() bool
	CreateTalk(ctx context.Context, imageURL, audioURL string) (string, error)
	GetTalk(ctx context.Context, talkID string) (*Talk, error)
}

// SpeechGenerator synthesizes text in the user's cloned voice and returns a
// public audio URL.
type SpeechGenerator interface {
	GenerateSpeech(ctx context.Context, userID uint, text string) (string, error)
}

// Enqueuer schedules the background poll for a pending render.
type Enqueuer interface {
	EnqueueVideoPoll(videoID uint, talkID string) error
}

// Service renders talking-avatar videos: it pairs the user's active avatar
// image with freshly synthesized speech, submits the render job and tracks
// it until the vendor reports a result.
type Service struct {
	avatars  repository.AvatarRepository
	videos   repository.VideoRepository
	speech   SpeechGenerator
	talks    TalkAPI
	enqueuer Enqueuer
}

// NewService creates an avatar video service from injected dependencies.
func NewService(avatars repository.AvatarRepository, videos repository.VideoRepository, speech SpeechGenerator, talks TalkAPI, enqueuer Enqueuer) *Service {
	return &Service{avatars: avatars, videos: videos, speech: speech, talks: talks, enqueuer: enqueuer}
}

// StartGeneration synthesizes the audio, submits the render and persists a
// processing record that the background poller will resolve.
func (s *Service) StartGeneration(ctx context.Context, userID uint, text string) (*models.VideoGeneration, error) {
	if !s.talks.IsConfigured() {
		return nil, ErrNotConfigured
	}

	avatar, err := s.avatars.GetActiveAvatar(userID)
	if err != nil {
		return nil, ErrNoAvatar
	}

	audioURL, err := s.speech.GenerateSpeech(ctx, userID, text)
	if err != nil {
		return nil, fmt.Errorf("failed to synthesize speech: %w", err)
	}

	talkID, err := s.talks.CreateTalk(ctx, avatar.ImageURL, audioURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create talking avatar: %w", err)
	}

	video := &models.VideoGeneration{
		UserID:    userID,
		TalkID:    talkID,
		Text:      text,
		AvatarURL: avatar.ImageURL,
		AudioURL:  audioURL,
		Status:    models.VideoStatusProcessing,
	}
	if err := s.videos.Create(video); err != nil {
		return nil, fmt.Errorf("failed to store video generation: %w", err)
	}

	if err := s.enqueuer.EnqueueVideoPoll(video.ID, talkID); err != nil {
		// The record survives; the status endpoint re-polls rows that are
		// still processing.
		log.Errorf("[AvatarVideo] failed to enqueue poll for video %d: %v", video.ID, err)
	}
	return video, nil
}

// Abandon finalizes a render that will never be polled again, so the record
// does not sit in processing forever.
func (s *Service) Abandon(videoID uint, reason string) error {
	return s.videos.MarkFailed(videoID, reason)
}

// Poll checks the vendor state of one pending render and finalizes the local
// record when the vendor is done. Returns ErrStillProcessing while the
// render is in flight so the caller can reschedule.
func (s *Service) Poll(ctx context.Context, videoID uint) error {
	video, err := s.videos.GetByID(videoID)
	if err != nil {
		return fmt.Errorf("video generation %d not found: %w", videoID, err)
	}
	if video.Status != models.VideoStatusProcessing {
		return nil
	}

	talk, err := s.talks.GetTalk(ctx, video.TalkID)
	if err != nil {
		return fmt.Errorf("failed to fetch talk %s: %w", video.TalkID, err)
	}

	switch talk.Status {
	case TalkStatusDone:
		if talk.ResultURL == "" {
			return s.videos.MarkFailed(video.ID, "render finished without a result url")
		}
		return s.videos.MarkCompleted(video.ID, talk.ResultURL)
	case TalkStatusError, TalkStatusRejected:
		msg := talk.Error.Description
		if msg == "" {
			msg = "render failed with status " + talk.Status
		}
		return s.videos.MarkFailed(video.ID, msg)
	default:
		return ErrStillProcessing
	}
}
