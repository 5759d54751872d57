package ai

import (
	"context"
	"fmt"

	"github.com/iyunix/go-chatfront/internal/domain"
)

// EchoProvider answers by repeating the last user message. It needs no
// credentials, so it is the default and the one tests use.
type EchoProvider struct{}

func NewEchoProvider() *EchoProvider {
	return &EchoProvider{}
}

func (p *EchoProvider) Name() string { return "echo" }

func (p *EchoProvider) Reply(ctx context.Context, model string, history []domain.Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].IsUser() {
			return fmt.Sprintf("You said: %s", history[i].Text), nil
		}
	}
	return "", &AIError{Type: ErrTypeValidation, Operation: "reply", Model: model, Message: "no user message to answer"}
}
