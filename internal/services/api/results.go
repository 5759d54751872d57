package api

import "github.com/iyunix/go-chatfront/internal/domain"

// Result is the normalized envelope every call yields. When the body was not
// JSON, Success is false and Raw/Status carry what came back.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Raw     string `json:"raw,omitempty"`
	Status  int    `json:"status,omitempty"`

	// HTTPStatus is the response status code, set on every result.
	HTTPStatus int `json:"-"`
}

func (r *Result) envelope() *Result { return r }

type MessagesResult struct {
	Result
	Messages []domain.Message `json:"messages"`
}

type ModelsResult struct {
	Result
	Models []domain.Model `json:"models"`
}

type StatsResult struct {
	Result
	domain.Stats
}

// SendRequest is the POST /messages body.
type SendRequest struct {
	Text  string `json:"text"`
	Model string `json:"model"`
}
