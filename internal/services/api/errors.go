package api

import "fmt"

type ErrorType string

const (
	ErrTypeConfig  ErrorType = "CONFIG"
	ErrTypeRequest ErrorType = "REQUEST"
	ErrTypeNetwork ErrorType = "NETWORK"
)

// APIError is returned only for failures that never produced a usable
// response. Bad bodies and error statuses come back as a Result instead.
type APIError struct {
	Type      ErrorType
	Operation string
	Message   string
	Cause     error
}

func (e *APIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("API %s error in %s: %s (caused by: %v)",
			e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("API %s error in %s: %s", e.Type, e.Operation, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

func NewNetworkError(operation string, cause error) *APIError {
	return &APIError{Type: ErrTypeNetwork, Operation: operation, Message: "request failed", Cause: cause}
}
