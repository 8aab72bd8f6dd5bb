package jobqueue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobType(t *testing.T) {
	assert.Equal(t, "video_poll", string(JobTypeVideoPoll))
	assert.Equal(t, "send_mail", string(JobTypeSendMail))
}

func TestJobStatus(t *testing.T) {
	tests := []struct {
		name     string
		status   JobStatus
		expected string
	}{
		{"Pending", JobStatusPending, "pending"},
		{"Processing", JobStatusProcessing, "processing"},
		{"Completed", JobStatusCompleted, "completed"},
		{"Failed", JobStatusFailed, "failed"},
		{"Retrying", JobStatusRetrying, "retrying"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.status))
		})
	}
}

func TestVideoPollJobPayloadRoundTrip(t *testing.T) {
	payload := VideoPollJobPayload{VideoID: 11, TalkID: "tlk_1", Attempt: 4}

	parsed, err := VideoPollJobPayloadFromMap(payload.ToMap())
	require.NoError(t, err)
	assert.Equal(t, payload, *parsed)
}

func TestSendMailJobPayloadRoundTrip(t *testing.T) {
	payload := SendMailJobPayload{To: "asha@example.com", Subject: "Welcome", Body: "<p>hi</p>"}

	parsed, err := SendMailJobPayloadFromMap(payload.ToMap())
	require.NoError(t, err)
	assert.Equal(t, payload, *parsed)
}

func TestJobLifecycleTransitions(t *testing.T) {
	job := &Job{
		ID:         "j1",
		Type:       JobTypeVideoPoll,
		Status:     JobStatusPending,
		MaxRetries: DefaultMaxRetries,
	}

	job.MarkAsProcessing()
	assert.Equal(t, JobStatusProcessing, job.Status)
	require.NotNil(t, job.ProcessedAt)

	job.MarkAsFailed("boom")
	assert.Equal(t, JobStatusFailed, job.Status)
	assert.Equal(t, "boom", job.ErrorMsg)
	assert.Equal(t, 1, job.RetryCount)
	assert.True(t, job.IsRetryable())

	job.RetryCount = job.MaxRetries
	assert.False(t, job.IsRetryable())

	job.MarkAsCompleted()
	assert.Equal(t, JobStatusCompleted, job.Status)
	assert.Empty(t, job.ErrorMsg)
	require.NotNil(t, job.CompletedAt)
	assert.WithinDuration(t, time.Now(), *job.CompletedAt, time.Second)
}
