// File: internal/repository/interface.go
package repository

import (
	"context"

	"github.com/iyunix/go-chatfront/internal/domain"
)

// MessageRepository handles message data operations.
type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) error
	// CreateBatch stores all messages or none of them.
	CreateBatch(ctx context.Context, messages []*domain.Message) error
	// List returns every message, oldest first.
	List(ctx context.Context) ([]domain.Message, error)
	DeleteAll(ctx context.Context) (int64, error)
	Stats(ctx context.Context) (domain.Stats, error)
}
