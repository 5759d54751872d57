// File: internal/services/api/client.go
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/iyunix/go-chatfront/internal/services"
)

// Client talks to the chat REST API. It never retries and sets no timeout of
// its own; the caller's context bounds every call.
type Client struct {
	base   string
	http   *http.Client
	logger services.Logger
}

var _ Service = (*Client)(nil)

func NewClient(config *Config, logger services.Logger) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, &APIError{Type: ErrTypeConfig, Operation: "config", Message: err.Error()}
	}
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = &services.NoOpLogger{}
	}
	return &Client{
		base:   config.resolvedBase(),
		http:   httpClient,
		logger: logger,
	}, nil
}

// BaseURL is the resolved base every path is joined onto.
func (c *Client) BaseURL() string {
	return c.base
}

// URL joins a logical path onto the base with exactly one slash between them,
// so "messages" and "/messages" resolve identically.
func (c *Client) URL(path string) string {
	return c.base + "/" + strings.TrimLeft(path, "/")
}

func (c *Client) ListMessages(ctx context.Context) (*MessagesResult, error) {
	return safeFetch[MessagesResult](ctx, c, "list_messages", http.MethodGet, "/messages", nil)
}

// SendMessage posts the text and gets back the full updated history, not just
// the new message.
func (c *Client) SendMessage(ctx context.Context, text, model string) (*MessagesResult, error) {
	return safeFetch[MessagesResult](ctx, c, "send_message", http.MethodPost, "/messages",
		SendRequest{Text: text, Model: model})
}

func (c *Client) ClearMessages(ctx context.Context) (*Result, error) {
	return safeFetch[Result](ctx, c, "clear_messages", http.MethodPost, "/messages/clear", nil)
}

func (c *Client) ListModels(ctx context.Context) (*ModelsResult, error) {
	return safeFetch[ModelsResult](ctx, c, "list_models", http.MethodGet, "/models", nil)
}

func (c *Client) GetStats(ctx context.Context) (*StatsResult, error) {
	return safeFetch[StatsResult](ctx, c, "get_stats", http.MethodGet, "/messages/stats", nil)
}

type envelope interface {
	envelope() *Result
}

// safeFetch performs one request and normalizes the body. The body is read as
// text first; if it doesn't parse as JSON the caller gets
// {Success:false, Raw, Status} instead of an error. Only failures to build or
// deliver the request are returned as errors.
func safeFetch[T any, P interface {
	*T
	envelope
}](ctx context.Context, c *Client, op, method, path string, payload any) (*T, error) {
	url := c.URL(path)

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, &APIError{Type: ErrTypeRequest, Operation: op, Message: "invalid payload", Cause: err}
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, &APIError{Type: ErrTypeRequest, Operation: op, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Accept", "application/json")
	if method != http.MethodGet {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("API request failed", "op", op, "method", method, "url", url, "error", err)
		return nil, NewNetworkError(op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("API response read failed", "op", op, "url", url, "status", resp.StatusCode, "error", err)
		return nil, &APIError{Type: ErrTypeNetwork, Operation: op, Message: "failed to read response", Cause: err}
	}

	c.logger.Debug("API request",
		"op", op,
		"method", method,
		"url", url,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	out := new(T)
	if err := json.Unmarshal(raw, P(out)); err != nil {
		c.logger.Warn("API response is not JSON", "op", op, "status", resp.StatusCode, "error", err)
		out = new(T)
		*P(out).envelope() = Result{
			Success: false,
			Raw:     string(raw),
			Status:  resp.StatusCode,
		}
	}
	P(out).envelope().HTTPStatus = resp.StatusCode
	return out, nil
}
