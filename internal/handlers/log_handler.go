package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/iyunix/go-chatfront/internal/services"
)

const maxClientLogBytes = 16 << 10

// ClientLogPayload is an event reported by the page's script.
type ClientLogPayload struct {
	Level   string `json:"level"`             // "info", "warn" or "error"
	Message string `json:"message"`           // The main log message
	Context any    `json:"context,omitempty"` // Optional extra data (e.g., stack trace)
}

// LogHandler forwards browser-side events to the server log.
type LogHandler struct {
	logger services.Logger
}

func NewLogHandler(logger services.Logger) *LogHandler {
	if logger == nil {
		logger = &services.NoOpLogger{}
	}
	return &LogHandler{logger: logger}
}

func (h *LogHandler) LogClientEvent(w http.ResponseWriter, r *http.Request) {
	var payload ClientLogPayload
	r.Body = http.MaxBytesReader(w, r.Body, maxClientLogBytes)
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Message == "" {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	kv := []interface{}{"message", payload.Message, "context", payload.Context, "user_agent", r.UserAgent()}
	switch strings.ToLower(payload.Level) {
	case "error":
		h.logger.Error("CLIENT_LOG", kv...)
	case "warn":
		h.logger.Warn("CLIENT_LOG", kv...)
	default:
		h.logger.Info("CLIENT_LOG", kv...)
	}

	w.WriteHeader(http.StatusNoContent)
}
