package api

import "context"

// Service is the chat REST API as the conversation view consumes it.
type Service interface {
	ListMessages(ctx context.Context) (*MessagesResult, error)
	SendMessage(ctx context.Context, text, model string) (*MessagesResult, error)
	ClearMessages(ctx context.Context) (*Result, error)
	ListModels(ctx context.Context) (*ModelsResult, error)
	GetStats(ctx context.Context) (*StatsResult, error)
}
