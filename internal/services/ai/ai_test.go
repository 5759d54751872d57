package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/iyunix/go-chatfront/internal/domain"
)

func history(texts ...string) []domain.Message {
	var out []domain.Message
	for i, t := range texts {
		role := domain.RoleUser
		if i%2 == 1 {
			role = domain.RoleAssistant
		}
		out = append(out, domain.Message{Role: role, Text: t})
	}
	return out
}

func TestEchoProvider(t *testing.T) {
	p := NewEchoProvider()

	got, err := p.Reply(context.Background(), "echo", history("hello", "hi", "how are you"))
	if err != nil {
		t.Fatalf("Reply: %v", err)
	}
	if got != "You said: how are you" {
		t.Errorf("Expected echo of last user message, got %q", got)
	}

	_, err = p.Reply(context.Background(), "echo", nil)
	var aiErr *AIError
	if !errors.As(err, &aiErr) || aiErr.Type != ErrTypeValidation {
		t.Errorf("Expected VALIDATION error, got %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err == nil {
		t.Error("Expected missing key to fail validation")
	}
	cfg.APIKey = "sk-test"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected valid config, got %v", err)
	}
}

func newOpenAITestServer(t *testing.T, reply string, seen *openai.ChatCompletionRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			http.NotFound(w, r)
			return
		}
		json.NewDecoder(r.Body).Decode(seen)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			ID:     "cmpl-1",
			Object: "chat.completion",
			Model:  seen.Model,
			Choices: []openai.ChatCompletionChoice{{
				Index:        0,
				Message:      openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: reply},
				FinishReason: openai.FinishReasonStop,
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAIProvider_Reply(t *testing.T) {
	var seen openai.ChatCompletionRequest
	srv := newOpenAITestServer(t, "pong", &seen)

	cfg := DefaultConfig()
	cfg.APIKey = "sk-test"
	cfg.BaseURL = srv.URL
	cfg.MaxHistory = 2
	cfg.Timeout = 5 * time.Second

	p, err := NewOpenAIProvider(cfg)
	if err != nil {
		t.Fatalf("NewOpenAIProvider: %v", err)
	}

	got, err := p.Reply(context.Background(), "gpt-x", history("one", "two", "three"))
	if err != nil {
		t.Fatalf("Reply: %v", err)
	}
	if got != "pong" {
		t.Errorf("Expected pong, got %q", got)
	}
	if seen.Model != "gpt-x" {
		t.Errorf("Expected model gpt-x, got %q", seen.Model)
	}
	if len(seen.Messages) != 2 {
		t.Fatalf("Expected history trimmed to 2, got %d", len(seen.Messages))
	}
	if seen.Messages[0].Role != openai.ChatMessageRoleAssistant || seen.Messages[1].Content != "three" {
		t.Errorf("Unexpected messages %+v", seen.Messages)
	}
}

func TestOpenAIProvider_EmptyReply(t *testing.T) {
	var seen openai.ChatCompletionRequest
	srv := newOpenAITestServer(t, "", &seen)

	cfg := DefaultConfig()
	cfg.APIKey = "sk-test"
	cfg.BaseURL = srv.URL
	p, err := NewOpenAIProvider(cfg)
	if err != nil {
		t.Fatalf("NewOpenAIProvider: %v", err)
	}

	_, err = p.Reply(context.Background(), "gpt-x", history("hi"))
	var aiErr *AIError
	if !errors.As(err, &aiErr) || aiErr.Type != ErrTypeProvider {
		t.Errorf("Expected PROVIDER error, got %v", err)
	}
}

func TestRetryWithBackoff(t *testing.T) {
	cfg := &RetryConfig{MaxAttempts: 3, Delay: time.Millisecond}

	t.Run("eventually succeeds", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(context.Background(), cfg, func(ctx context.Context) error {
			calls++
			if calls < 3 {
				return errors.New("transient")
			}
			return nil
		})
		if err != nil || calls != 3 {
			t.Errorf("Expected success on third call, got %v after %d", err, calls)
		}
	})

	t.Run("permanent error stops", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(context.Background(), cfg, func(ctx context.Context) error {
			calls++
			return &openai.APIError{HTTPStatusCode: http.StatusUnauthorized, Message: "bad key"}
		})
		if err == nil || calls != 1 {
			t.Errorf("Expected one attempt for a 401, got %d", calls)
		}
	})

	t.Run("gives up", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(context.Background(), cfg, func(ctx context.Context) error {
			calls++
			return &openai.APIError{HTTPStatusCode: http.StatusServiceUnavailable}
		})
		if err == nil || calls != 3 {
			t.Errorf("Expected 3 attempts, got %d", calls)
		}
	})
}

func TestOpenAIProvider_RetriesServerErrors(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":{"message":"overloaded","type":"server_error"}}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{{
				Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: "ok"},
			}},
		})
	}))
	t.Cleanup(srv.Close)

	cfg := DefaultConfig()
	cfg.APIKey = "sk-test"
	cfg.BaseURL = srv.URL
	cfg.Retry = &RetryConfig{MaxAttempts: 2, Delay: time.Millisecond}
	p, err := NewOpenAIProvider(cfg)
	if err != nil {
		t.Fatalf("NewOpenAIProvider: %v", err)
	}

	got, err := p.Reply(context.Background(), "gpt-x", history("hi"))
	if err != nil {
		t.Fatalf("Reply: %v", err)
	}
	if got != "ok" || attempts != 2 {
		t.Errorf("Expected ok after 2 attempts, got %q after %d", got, attempts)
	}
}
