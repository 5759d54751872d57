package devserver

import (
	"encoding/json"
	"net/http"

	"github.com/iyunix/go-chatfront/internal/domain"
)

type messagesResponse struct {
	Success  bool             `json:"success"`
	Messages []domain.Message `json:"messages"`
}

type modelsResponse struct {
	Success bool           `json:"success"`
	Models  []domain.Model `json:"models"`
}

type statsResponse struct {
	Success bool `json:"success"`
	domain.Stats
}

type successResponse struct {
	Success bool `json:"success"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// writeJSON is a helper for sending JSON responses.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError sends the API's {success:false, error} body.
func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, errorResponse{Success: false, Error: message})
}
