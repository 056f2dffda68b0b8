package chat_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Fazalwahab12/shift-backend-sub002/internal/chat"
	"github.com/Fazalwahab12/shift-backend-sub002/internal/jobs"
	"github.com/Fazalwahab12/shift-backend-sub002/pkg/models"
	"github.com/Fazalwahab12/shift-backend-sub002/pkg/repository/mock"
	"github.com/tidwall/gjson"
)

type fakeClient struct {
	mu       sync.Mutex
	created  int
	messages []string
}

func (f *fakeClient) CreateChat(ctx context.Context, companyID, seekerID, jobID, title string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created++
	return "chat-1", nil
}

func (f *fakeClient) SendSystemMessage(ctx context.Context, chatID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, text)
	return nil
}

func seedApp(t *testing.T, m *mock.Mocks) *models.Application {
	t.Helper()
	app := &models.Application{
		ID: "app-1", JobID: "job-1", SeekerID: "seeker-1", CompanyID: "company-1",
		Status: models.StatusApplied, Source: models.SourceApplied,
	}
	if err := m.Apps.CreateApplication(context.Background(), app); err != nil {
		t.Fatalf("CreateApplication: %v", err)
	}
	return app
}

func TestEnsureCreatesOnce(t *testing.T) {
	m := mock.NewMocks()
	client := &fakeClient{}
	p := chat.NewProvisioner(m.Apps, client, nil, nil)
	app := seedApp(t, m)
	ctx := context.Background()

	id, err := p.Ensure(ctx, app, "Job job-1")
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if id != "chat-1" || app.ChatID != "chat-1" || !app.ChatInitiated {
		t.Fatalf("first ensure: id=%s app=%+v", id, app)
	}

	id, err = p.Ensure(ctx, app, "Job job-1")
	if err != nil {
		t.Fatalf("Ensure again: %v", err)
	}
	if id != "chat-1" {
		t.Fatalf("second ensure id = %s", id)
	}
	if client.created != 1 {
		t.Fatalf("chats created = %d, want 1", client.created)
	}
}

func TestEnsureLostRace(t *testing.T) {
	m := mock.NewMocks()
	client := &fakeClient{}
	p := chat.NewProvisioner(m.Apps, client, nil, nil)
	app := seedApp(t, m)
	ctx := context.Background()

	// another transition provisioned the chat after our copy was read
	if _, err := m.Apps.SetChatOnce(ctx, app.ID, "chat-winner", time.Now().UnixMilli()); err != nil {
		t.Fatalf("SetChatOnce: %v", err)
	}

	id, err := p.Ensure(ctx, app, "Job job-1")
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if id != "chat-winner" || app.ChatID != "chat-winner" {
		t.Fatalf("loser must adopt the stored chat, got %s", id)
	}
}

func TestAnnounceInline(t *testing.T) {
	m := mock.NewMocks()
	client := &fakeClient{}
	p := chat.NewProvisioner(m.Apps, client, nil, nil)
	ctx := context.Background()

	p.Announce(ctx, "", "dropped")
	p.Announce(ctx, "chat-1", "welcome aboard")

	if len(client.messages) != 1 || client.messages[0] != "welcome aboard" {
		t.Fatalf("messages = %v", client.messages)
	}
}

func TestMessageHandler(t *testing.T) {
	m := mock.NewMocks()
	client := &fakeClient{}
	p := chat.NewProvisioner(m.Apps, client, nil, nil)
	ctx := context.Background()

	j := &jobs.Job{ID: 1, Type: chat.JobTypeMessage, Payload: []byte(`{"chat_id":"chat-1","text":"hi"}`)}
	if err := p.MessageHandler(ctx, j); err != nil {
		t.Fatalf("MessageHandler: %v", err)
	}
	if len(client.messages) != 1 || client.messages[0] != "hi" {
		t.Fatalf("messages = %v", client.messages)
	}

	bad := &jobs.Job{ID: 2, Type: chat.JobTypeMessage, Payload: []byte(`{"text":"orphan"}`)}
	if err := p.MessageHandler(ctx, bad); err == nil {
		t.Fatal("expected error for payload without chat_id")
	}
}

func TestHTTPClient(t *testing.T) {
	var gotCreate, gotMessage []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/chats":
			body := make([]byte, r.ContentLength)
			r.Body.Read(body)
			gotCreate = body
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"chat_id":"chat-7"}`))
		case "/chats/chat-7/messages":
			body := make([]byte, r.ContentLength)
			r.Body.Read(body)
			gotMessage = body
			w.WriteHeader(http.StatusCreated)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := chat.NewHTTPClient(srv.URL, time.Second)
	ctx := context.Background()

	id, err := c.CreateChat(ctx, "company-1", "seeker-1", "job-1", "Job job-1")
	if err != nil {
		t.Fatalf("CreateChat: %v", err)
	}
	if id != "chat-7" {
		t.Fatalf("chat id = %s", id)
	}
	if gjson.GetBytes(gotCreate, "company_id").String() != "company-1" || gjson.GetBytes(gotCreate, "title").String() != "Job job-1" {
		t.Fatalf("create body = %s", gotCreate)
	}

	if err := c.SendSystemMessage(ctx, "chat-7", "hello"); err != nil {
		t.Fatalf("SendSystemMessage: %v", err)
	}
	if gjson.GetBytes(gotMessage, "type").String() != "system" {
		t.Fatalf("message body = %s", gotMessage)
	}

	if err := c.SendSystemMessage(ctx, "missing", "hello"); err == nil {
		t.Fatal("expected error for 404 response")
	}
}
