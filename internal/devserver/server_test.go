package devserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	gormlogger "gorm.io/gorm/logger"

	"github.com/iyunix/go-chatfront/internal/domain"
	"github.com/iyunix/go-chatfront/internal/repository"
	"github.com/iyunix/go-chatfront/internal/services/api"
	"github.com/iyunix/go-chatfront/internal/services/conversation"
)

// fixedClock hands out increasing times starting at 2024-01-01 10:00 UTC.
type fixedClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fixedClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

// failingProvider always errors.
type failingProvider struct{}

func (failingProvider) Name() string { return "failing" }
func (failingProvider) Reply(ctx context.Context, model string, history []domain.Message) (string, error) {
	return "", errors.New("upstream unavailable")
}

func newTestServer(t *testing.T, opts Options) (*httptest.Server, *api.Client) {
	t.Helper()
	db, err := repository.OpenSQLite(":memory:", gormlogger.Silent)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	opts.Repo = repository.NewMessageRepository(db)
	if opts.Now == nil {
		clock := &fixedClock{t: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)}
		opts.Now = clock.now
	}
	s := New(opts)
	t.Cleanup(s.Close)

	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)

	client, err := api.NewClient(&api.Config{BaseURL: srv.URL + "/api"}, nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return srv, client
}

func TestSendMessage_EchoRoundTrip(t *testing.T) {
	_, client := newTestServer(t, Options{})
	ctx := context.Background()

	res, err := client.SendMessage(ctx, "  hello world  ", "echo")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if !res.Success || len(res.Messages) != 2 {
		t.Fatalf("Unexpected result %+v", res)
	}

	user, reply := res.Messages[0], res.Messages[1]
	if user.Role != domain.RoleUser || user.Text != "hello world" || user.Tokens != 2 {
		t.Errorf("Unexpected user message %+v", user)
	}
	if reply.Role != domain.RoleAssistant || reply.Text != "You said: hello world" || reply.Tokens != 4 {
		t.Errorf("Unexpected reply %+v", reply)
	}
	if user.ID == "" || user.ID == reply.ID {
		t.Errorf("Expected distinct ids, got %q and %q", user.ID, reply.ID)
	}
	if !reply.CreatedAt.After(user.CreatedAt) {
		t.Error("Expected the reply after the user message")
	}

	stats, err := client.GetStats(ctx)
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if stats.TotalMessages != 2 || stats.TotalTokens != 6 {
		t.Errorf("Expected 2 msgs / 6 tokens, got %+v", stats.Stats)
	}
}

func TestSendMessage_Validation(t *testing.T) {
	_, client := newTestServer(t, Options{})

	tests := []struct {
		name  string
		text  string
		model string
	}{
		{"empty text", "", "echo"},
		{"blank text", "   ", "echo"},
		{"unknown model", "hi", "nope"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := client.SendMessage(context.Background(), tc.text, tc.model)
			if err != nil {
				t.Fatalf("SendMessage: %v", err)
			}
			if res.Success || res.Error == "" || res.HTTPStatus != http.StatusBadRequest {
				t.Errorf("Expected 400 {success:false, error}, got %+v", res.Result)
			}
		})
	}
}

func TestSendMessage_DefaultModel(t *testing.T) {
	_, client := newTestServer(t, Options{Models: []domain.Model{{ID: "echo", Name: "Echo"}}})

	res, err := client.SendMessage(context.Background(), "hi", "")
	if err != nil || !res.Success {
		t.Fatalf("Expected success, got %+v, %v", res, err)
	}
	if res.Messages[1].Model != "echo" {
		t.Errorf("Expected the first model used, got %q", res.Messages[1].Model)
	}
}

func TestSendMessage_ProviderFailureStoresNothing(t *testing.T) {
	_, client := newTestServer(t, Options{
		Models:  []domain.Model{{ID: "gpt-x", Name: "GPT X"}, {ID: "echo", Name: "Echo"}},
		Primary: failingProvider{},
	})
	ctx := context.Background()

	res, err := client.SendMessage(ctx, "hi", "gpt-x")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if res.Success || res.HTTPStatus != http.StatusBadGateway {
		t.Errorf("Expected 502 failure, got %+v", res.Result)
	}

	list, _ := client.ListMessages(ctx)
	if len(list.Messages) != 0 {
		t.Errorf("Expected nothing stored, got %d messages", len(list.Messages))
	}

	// echo never goes through the primary provider
	res, _ = client.SendMessage(ctx, "hi", "echo")
	if !res.Success {
		t.Errorf("Expected echo to work without the primary provider, got %+v", res.Result)
	}
}

func TestClearAndModels(t *testing.T) {
	models := []domain.Model{{ID: "echo", Name: "Echo"}, {ID: "gpt-x", Name: "GPT X"}}
	_, client := newTestServer(t, Options{Models: models})
	ctx := context.Background()

	client.SendMessage(ctx, "one", "echo")
	clear, err := client.ClearMessages(ctx)
	if err != nil || !clear.Success {
		t.Fatalf("Expected clear success, got %+v, %v", clear, err)
	}
	list, _ := client.ListMessages(ctx)
	if !list.Success || len(list.Messages) != 0 {
		t.Errorf("Expected empty list, got %+v", list)
	}

	got, err := client.ListModels(ctx)
	if err != nil {
		t.Fatalf("ListModels: %v", err)
	}
	if len(got.Models) != 2 || got.Models[1] != models[1] {
		t.Errorf("Unexpected models %+v", got.Models)
	}
}

func TestSendRateLimit(t *testing.T) {
	_, client := newTestServer(t, Options{SendLimitPerMinute: 1})
	ctx := context.Background()

	if res, _ := client.SendMessage(ctx, "one", "echo"); !res.Success {
		t.Fatalf("Expected first send to succeed, got %+v", res.Result)
	}
	res, err := client.SendMessage(ctx, "two", "echo")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if res.Success || res.HTTPStatus != http.StatusTooManyRequests || res.Error == "" {
		t.Errorf("Expected 429 {success:false, error}, got %+v", res.Result)
	}
	// reads are not limited
	if list, _ := client.ListMessages(ctx); !list.Success {
		t.Error("Expected reads to stay available")
	}
}

func TestNotFoundIsJSON(t *testing.T) {
	srv, _ := newTestServer(t, Options{})

	resp, err := http.Get(srv.URL + "/api/nope")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	var body errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Expected JSON body: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound || body.Success {
		t.Errorf("Expected 404 {success:false}, got %d %+v", resp.StatusCode, body)
	}
}

func TestCORSPreflight(t *testing.T) {
	srv, _ := newTestServer(t, Options{AllowedOrigins: []string{"http://localhost:5173"}})

	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/api/messages", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("OPTIONS: %v", err)
	}
	resp.Body.Close()

	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Expected allowed origin echoed, got %q", got)
	}
}

// The conversation session driving the reference server end to end.
func TestSessionAgainstServer(t *testing.T) {
	_, client := newTestServer(t, Options{})
	ctx := context.Background()

	s := conversation.NewSession(client, nil)
	if err := s.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	s.SetDraft("hi")
	if err := s.Send(ctx); err != nil {
		t.Fatalf("Send: %v", err)
	}

	snap := s.Snapshot()
	if len(snap.Groups) != 1 || snap.Groups[0].Key != "2024-01-01" {
		t.Fatalf("Unexpected groups %+v", snap.Groups)
	}
	if got := snap.Groups[0].Messages; len(got) != 2 || got[0].Author() != "You" || !strings.HasPrefix(got[1].Text, "You said:") {
		t.Errorf("Unexpected bubbles %+v", got)
	}
	if snap.Stats.TotalMessages != 2 {
		t.Errorf("Expected stats refreshed, got %+v", snap.Stats)
	}
}

func TestCountTokens(t *testing.T) {
	tests := map[string]int{
		"":                  0,
		"   ":               0,
		"hi":                1,
		"hello   world\nok": 3,
	}
	for in, want := range tests {
		if got := CountTokens(in); got != want {
			t.Errorf("CountTokens(%q): expected %d, got %d", in, want, got)
		}
	}
}
