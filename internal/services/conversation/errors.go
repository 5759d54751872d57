package conversation

import (
	"errors"
	"fmt"

	"github.com/iyunix/go-chatfront/internal/services/api"
)

var (
	ErrEmptyDraft    = errors.New("draft is empty")
	ErrSendInFlight  = errors.New("a message is already being sent")
	ErrNotConfirmed  = errors.New("clear history was not confirmed")
	ErrUnknownModel  = errors.New("unknown model")
	ErrRequestFailed = errors.New("request was not successful")
)

// requestFailed describes a response that arrived but carried success=false.
func requestFailed(op string, r *api.Result) error {
	detail := r.Error
	if detail == "" && r.Raw != "" {
		detail = truncate(r.Raw, 120)
	}
	if detail == "" {
		return fmt.Errorf("%w: %s (status %d)", ErrRequestFailed, op, r.HTTPStatus)
	}
	return fmt.Errorf("%w: %s (status %d): %s", ErrRequestFailed, op, r.HTTPStatus, detail)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
