package jobqueue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/Dinesh-Bingi/legacy-ai/internal/pkg/avatarvideo"
)

// ErrRequeue signals that a job was rescheduled and must not be marked
// failed or completed.
var ErrRequeue = fmt.Errorf("requeue job")

const (
	videoPollInterval = 10 * time.Second
	maxVideoPolls     = 60 // about 10 minutes of polling
)

// VideoPoller resolves one pending render; *avatarvideo.Service satisfies it.
// Abandon finalizes a render that ran out of polls.
type VideoPoller interface {
	Poll(ctx context.Context, videoID uint) error
	Abandon(videoID uint, reason string) error
}

var (
	videoPoller   VideoPoller
	videoPollerMu sync.RWMutex
)

// SetVideoPoller registers the poller used by video poll jobs. Called once
// during application startup.
func SetVideoPoller(p VideoPoller) {
	videoPollerMu.Lock()
	defer videoPollerMu.Unlock()
	videoPoller = p
}

func getVideoPoller() VideoPoller {
	videoPollerMu.RLock()
	defer videoPollerMu.RUnlock()
	return videoPoller
}

// EnqueueVideoPoll schedules the background poll for a pending render.
// Satisfies avatarvideo.Enqueuer.
func (q *Queue) EnqueueVideoPoll(videoID uint, talkID string) error {
	payload := VideoPollJobPayload{
		VideoID: videoID,
		TalkID:  talkID,
	}
	_, err := q.EnqueueJob(JobTypeVideoPoll, payload.ToMap())
	return err
}

// processVideoPollJob checks one pending render and reschedules itself while
// the vendor is still working.
func (q *Queue) processVideoPollJob(ctx context.Context, job *Job) error {
	payload, perr := VideoPollJobPayloadFromMap(job.Payload)
	if perr != nil {
		return fmt.Errorf("failed to parse video poll payload: %w", perr)
	}

	poller := getVideoPoller()
	if poller == nil {
		return fmt.Errorf("no video poller registered")
	}

	err := poller.Poll(ctx, payload.VideoID)
	if err == nil {
		return nil
	}
	if errors.Is(err, avatarvideo.ErrStillProcessing) {
		if payload.Attempt >= maxVideoPolls {
			// Finalize the record too, otherwise it sits in processing
			// forever once the job is gone.
			if aerr := poller.Abandon(payload.VideoID, "timed out waiting for render"); aerr != nil {
				log.Errorf("[JobQueue] failed to mark video %d failed: %v", payload.VideoID, aerr)
			}
			return fmt.Errorf("video %d still processing after %d polls", payload.VideoID, payload.Attempt)
		}
		payload.Attempt++
		job.Payload = payload.ToMap()
		log.Debugf("[JobQueue] Video %d not ready, poll %d/%d", payload.VideoID, payload.Attempt, maxVideoPolls)
		q.requeueAfter(ctx, job, videoPollInterval)
		return ErrRequeue
	}
	return err
}
