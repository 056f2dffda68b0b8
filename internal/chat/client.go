package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client is the narrow contract with the external chat service. CreateChat is
// idempotent per (companyID, seekerID, jobID) on the service side.
type Client interface {
	CreateChat(ctx context.Context, companyID, seekerID, jobID, title string) (string, error)
	SendSystemMessage(ctx context.Context, chatID, text string) error
}

// HTTPClient talks to the chat service over HTTP.
type HTTPClient struct {
	client  *resty.Client
	baseURL string
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		client:  resty.New().SetTimeout(timeout),
		baseURL: baseURL,
	}
}

type createChatResponse struct {
	ChatID string `json:"chat_id"`
}

func (c *HTTPClient) CreateChat(ctx context.Context, companyID, seekerID, jobID, title string) (string, error) {
	var out createChatResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(map[string]string{
			"company_id": companyID,
			"seeker_id":  seekerID,
			"job_id":     jobID,
			"title":      title,
		}).
		SetResult(&out).
		Post(c.baseURL + "/chats")
	if err != nil {
		return "", fmt.Errorf("create chat: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("create chat: status %d", resp.StatusCode())
	}
	if out.ChatID == "" {
		return "", fmt.Errorf("create chat: empty chat id")
	}
	return out.ChatID, nil
}

func (c *HTTPClient) SendSystemMessage(ctx context.Context, chatID, text string) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(map[string]string{"text": text, "type": "system"}).
		Post(fmt.Sprintf("%s/chats/%s/messages", c.baseURL, chatID))
	if err != nil {
		return fmt.Errorf("send system message: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("send system message: status %d", resp.StatusCode())
	}
	return nil
}
