// File: internal/services/ai/interface.go
package ai

import (
	"context"

	"github.com/iyunix/go-chatfront/internal/domain"
)

// Provider produces the assistant's reply to a conversation. history is
// oldest first and ends with the user's new message.
type Provider interface {
	Reply(ctx context.Context, model string, history []domain.Message) (string, error)
	Name() string
}
