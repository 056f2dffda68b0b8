// Package notify dispatches fire-and-forget workflow notifications. Delivery
// runs through the background job queue after the authoritative state write;
// failures here never surface to the transition that triggered them.
package notify

import (
	"context"
	"io"

	"log/slog"

	"github.com/Fazalwahab12/shift-backend-sub002/internal/jobs"
)

// JobTypeDispatch is the queue job type for webhook notification delivery.
const JobTypeDispatch = "notify.dispatch"

// Notifier is the engine-facing contract: no return value, errors are
// swallowed by the implementation.
type Notifier interface {
	Notify(ctx context.Context, eventType string, payload map[string]any)
}

// QueueNotifier enqueues notifications into the background job table.
type QueueNotifier struct {
	queue       *jobs.Repository
	maxAttempts int
	logger      *slog.Logger
}

func NewQueueNotifier(queue *jobs.Repository, maxAttempts int, logger *slog.Logger) *QueueNotifier {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &QueueNotifier{queue: queue, maxAttempts: maxAttempts, logger: logger}
}

type envelope struct {
	EventType string         `json:"event_type"`
	Payload   map[string]any `json:"payload"`
}

func (n *QueueNotifier) Notify(ctx context.Context, eventType string, payload map[string]any) {
	j, err := marshalJob(eventType, payload, n.maxAttempts)
	if err != nil {
		n.logger.Error("marshal notification", "event_type", eventType, "err", err)
		return
	}
	if _, err := n.queue.Enqueue(ctx, j); err != nil {
		n.logger.Error("enqueue notification", "event_type", eventType, "err", err)
	}
}

// Nop drops all notifications; used in tests.
type Nop struct{}

func (Nop) Notify(ctx context.Context, eventType string, payload map[string]any) {}
