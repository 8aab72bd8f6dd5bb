package jobqueue

import (
	"context"
	"fmt"

	"github.com/Dinesh-Bingi/legacy-ai/internal/pkg/mail"
)

// EnqueueSendMailJob enqueues an outbound email so request handlers never
// block on SMTP.
func (q *Queue) EnqueueSendMailJob(to, subject, body string) (*Job, error) {
	payload := SendMailJobPayload{
		To:      to,
		Subject: subject,
		Body:    body,
	}
	return q.EnqueueJob(JobTypeSendMail, payload.ToMap())
}

// processSendMailJob delivers one queued email.
func (q *Queue) processSendMailJob(_ context.Context, job *Job) error {
	payload, perr := SendMailJobPayloadFromMap(job.Payload)
	if perr != nil {
		return fmt.Errorf("failed to parse send mail payload: %w", perr)
	}
	if payload.To == "" {
		return fmt.Errorf("send mail job without recipient")
	}
	return mail.SendMail(payload.To, payload.Subject, payload.Body)
}
