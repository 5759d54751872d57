// File: internal/repository/message_repository.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/iyunix/go-chatfront/internal/domain"
)

var ErrInvalidMessage = errors.New("invalid message")

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *domain.Message) error {
	if err := validateMessage(message); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *messageRepository) CreateBatch(ctx context.Context, messages []*domain.Message) error {
	for _, m := range messages {
		if err := validateMessage(m); err != nil {
			return err
		}
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range messages {
			if err := tx.Create(m).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *messageRepository) List(ctx context.Context) ([]domain.Message, error) {
	messages := []domain.Message{}
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&messages).Error
	return messages, err
}

func (r *messageRepository) DeleteAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&domain.Message{})
	return res.RowsAffected, res.Error
}

func (r *messageRepository) Stats(ctx context.Context) (domain.Stats, error) {
	var row struct {
		Count int
		Total int
	}
	err := r.db.WithContext(ctx).
		Model(&domain.Message{}).
		Select("COUNT(*) AS count, COALESCE(SUM(tokens), 0) AS total").
		Scan(&row).Error
	if err != nil {
		return domain.Stats{}, err
	}
	return domain.Stats{TotalMessages: row.Count, TotalTokens: row.Total}, nil
}

func validateMessage(m *domain.Message) error {
	switch {
	case m == nil:
		return fmt.Errorf("%w: nil", ErrInvalidMessage)
	case m.ID == "":
		return fmt.Errorf("%w: missing id", ErrInvalidMessage)
	case m.Role != domain.RoleUser && m.Role != domain.RoleAssistant:
		return fmt.Errorf("%w: unknown role %q", ErrInvalidMessage, m.Role)
	case m.Tokens < 0:
		return fmt.Errorf("%w: negative token count", ErrInvalidMessage)
	}
	return nil
}
