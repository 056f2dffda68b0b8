// Package chat provisions the communication channel tied to an application.
// Provisioning happens at most once per application, on qualifying workflow
// transitions.
package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"log/slog"

	"github.com/Fazalwahab12/shift-backend-sub002/internal/jobs"
	"github.com/Fazalwahab12/shift-backend-sub002/pkg/models"
	"github.com/Fazalwahab12/shift-backend-sub002/pkg/repository"
	"github.com/tidwall/gjson"
)

// JobTypeMessage is the queue job type for system message delivery.
const JobTypeMessage = "chat.message"

type Provisioner struct {
	apps   repository.ApplicationRepo
	client Client
	queue  *jobs.Repository
	logger *slog.Logger
}

// NewProvisioner builds a Provisioner. queue may be nil, in which case system
// messages are sent inline instead of through the job queue.
func NewProvisioner(apps repository.ApplicationRepo, client Client, queue *jobs.Repository, logger *slog.Logger) *Provisioner {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Provisioner{apps: apps, client: client, queue: queue, logger: logger}
}

// Ensure creates the application's chat if it does not exist yet and returns
// its id. The conditional write in SetChatOnce makes this safe to call from
// every qualifying transition: only the first caller stores a chat id, and
// the external service is idempotent per (company, seeker, job) anyway.
func (p *Provisioner) Ensure(ctx context.Context, app *models.Application, title string) (string, error) {
	if app.ChatInitiated && app.ChatID != "" {
		return app.ChatID, nil
	}

	chatID, err := p.client.CreateChat(ctx, app.CompanyID, app.SeekerID, app.JobID, title)
	if err != nil {
		return "", err
	}

	set, err := p.apps.SetChatOnce(ctx, app.ID, chatID, time.Now().UTC().UnixMilli())
	if err != nil {
		return "", err
	}
	if !set {
		// another transition initiated the chat first; use the stored id
		stored, err := p.apps.GetApplicationByID(ctx, app.ID)
		if err != nil {
			return "", err
		}
		app.ChatID = stored.ChatID
		app.ChatInitiated = stored.ChatInitiated
		return stored.ChatID, nil
	}
	app.ChatID = chatID
	app.ChatInitiated = true
	return chatID, nil
}

// Announce posts a system message into the chat, best-effort. With a queue
// configured the message goes through the job table and gets retries;
// otherwise it is sent inline. Failures are logged, never propagated.
func (p *Provisioner) Announce(ctx context.Context, chatID, text string) {
	if chatID == "" {
		return
	}
	if p.queue == nil {
		if err := p.client.SendSystemMessage(ctx, chatID, text); err != nil {
			p.logger.Error("send system message", "chat_id", chatID, "err", err)
		}
		return
	}
	payload, err := json.Marshal(map[string]string{"chat_id": chatID, "text": text})
	if err != nil {
		p.logger.Error("marshal chat message", "chat_id", chatID, "err", err)
		return
	}
	j := &jobs.Job{Type: JobTypeMessage, Payload: payload, Priority: 100, MaxAttempts: 3}
	if _, err := p.queue.Enqueue(ctx, j); err != nil {
		p.logger.Error("enqueue chat message", "chat_id", chatID, "err", err)
	}
}

// MessageHandler is the job-queue handler for chat.message jobs.
func (p *Provisioner) MessageHandler(ctx context.Context, j *jobs.Job) error {
	chatID := gjson.GetBytes(j.Payload, "chat_id").String()
	text := gjson.GetBytes(j.Payload, "text").String()
	if chatID == "" {
		return fmt.Errorf("chat message job %d has no chat_id", j.ID)
	}
	return p.client.SendSystemMessage(ctx, chatID, text)
}
