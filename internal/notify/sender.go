package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Fazalwahab12/shift-backend-sub002/internal/jobs"
	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

func marshalJob(eventType string, payload map[string]any, maxAttempts int) (*jobs.Job, error) {
	b, err := json.Marshal(envelope{EventType: eventType, Payload: payload})
	if err != nil {
		return nil, err
	}
	return &jobs.Job{Type: JobTypeDispatch, Payload: b, Priority: 100, MaxAttempts: maxAttempts}, nil
}

// Sender delivers queued notifications to the configured webhook.
type Sender struct {
	client     *resty.Client
	webhookURL string
}

func NewSender(webhookURL string, timeout time.Duration) *Sender {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Sender{client: resty.New().SetTimeout(timeout), webhookURL: webhookURL}
}

// Handler is the job-queue handler for notify.dispatch jobs. A non-2xx
// response is an error so the queue retries with backoff.
func (s *Sender) Handler(ctx context.Context, j *jobs.Job) error {
	if s.webhookURL == "" {
		// no sink configured; drop silently
		return nil
	}
	eventType := gjson.GetBytes(j.Payload, "event_type").String()
	if eventType == "" {
		return fmt.Errorf("notification job %d has no event_type", j.ID)
	}
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("X-Event-Type", eventType).
		SetBody(json.RawMessage(j.Payload)).
		Post(s.webhookURL)
	if err != nil {
		return fmt.Errorf("deliver notification: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("deliver notification: status %d", resp.StatusCode())
	}
	return nil
}
