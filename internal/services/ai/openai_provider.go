// File: internal/services/ai/openai_provider.go
package ai

import (
	"context"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"github.com/iyunix/go-chatfront/internal/domain"
)

// OpenAIProvider answers through any OpenAI-compatible chat completion API.
type OpenAIProvider struct {
	config *Config
	client *openai.Client
}

func NewOpenAIProvider(config *Config) (*OpenAIProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, NewConfigError(err.Error())
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	clientConfig.HTTPClient = &http.Client{Timeout: config.Timeout}

	return &OpenAIProvider{
		config: config,
		client: openai.NewClientWithConfig(clientConfig),
	}, nil
}

func (p *OpenAIProvider) Name() string { return "openai" }

func (p *OpenAIProvider) Reply(ctx context.Context, model string, history []domain.Message) (string, error) {
	if len(history) == 0 {
		return "", &AIError{Type: ErrTypeValidation, Operation: "reply", Model: model, Message: "empty history"}
	}

	req := openai.ChatCompletionRequest{
		Model:       model,
		Messages:    p.toChatMessages(history),
		Temperature: p.config.Temperature,
	}

	retry := p.config.Retry
	if retry == nil {
		retry = &RetryConfig{MaxAttempts: 1}
	}

	var resp openai.ChatCompletionResponse
	err := RetryWithBackoff(ctx, retry, func(ctx context.Context) error {
		var err error
		resp, err = p.client.CreateChatCompletion(ctx, req)
		return err
	})
	if err != nil {
		return "", NewProviderError("completion", model, "failed to create completion", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", NewProviderError("completion", model, "empty completion response", nil)
	}
	return resp.Choices[0].Message.Content, nil
}

// toChatMessages maps the most recent history onto chat roles.
func (p *OpenAIProvider) toChatMessages(history []domain.Message) []openai.ChatCompletionMessage {
	if n := p.config.MaxHistory; n > 0 && len(history) > n {
		history = history[len(history)-n:]
	}

	out := make([]openai.ChatCompletionMessage, 0, len(history))
	for _, m := range history {
		role := openai.ChatMessageRoleAssistant
		if m.IsUser() {
			role = openai.ChatMessageRoleUser
		}
		out = append(out, openai.ChatCompletionMessage{Role: role, Content: m.Text})
	}
	return out
}
