// Package devserver is a small reference implementation of the chat REST
// API, for running the front-ends locally without a hosted backend.
package devserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/iyunix/go-chatfront/internal/domain"
	"github.com/iyunix/go-chatfront/internal/middleware"
	"github.com/iyunix/go-chatfront/internal/ratelimit"
	"github.com/iyunix/go-chatfront/internal/repository"
	"github.com/iyunix/go-chatfront/internal/services"
	"github.com/iyunix/go-chatfront/internal/services/ai"
	"github.com/iyunix/go-chatfront/internal/services/api"
)

// EchoModelID always answers with the echo provider.
const EchoModelID = "echo"

type Options struct {
	Repo    repository.MessageRepository
	Models  []domain.Model
	Primary ai.Provider // nil means every model is answered by echo
	Logger  services.Logger

	AllowedOrigins     []string
	SendLimitPerMinute int // <= 0 disables the limit

	Now func() time.Time
}

type Server struct {
	repo    repository.MessageRepository
	models  []domain.Model
	primary ai.Provider
	echo    ai.Provider
	logger  services.Logger
	limiter *ratelimit.MemoryRateLimiter
	origins []string
	now     func() time.Time
}

func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = &services.NoOpLogger{}
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	models := opts.Models
	if len(models) == 0 {
		models = []domain.Model{{ID: EchoModelID, Name: "Echo"}}
	}
	return &Server{
		repo:    opts.Repo,
		models:  models,
		primary: opts.Primary,
		echo:    ai.NewEchoProvider(),
		logger:  logger,
		limiter: ratelimit.NewMemoryRateLimiter(ratelimit.PerMinute(opts.SendLimitPerMinute)),
		origins: opts.AllowedOrigins,
		now:     now,
	}
}

// Close releases the rate limiter.
func (s *Server) Close() {
	s.limiter.Close()
}

// Handler returns the routed API with CORS, recovery and request logging.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.RecoverPanic(s.logger))
	r.Use(middleware.LoggingMiddleware(s.logger))

	r.HandleFunc("/health", s.health).Methods("GET")

	apiRouter := r.PathPrefix("/api").Subrouter()
	apiRouter.HandleFunc("/messages", s.listMessages).Methods("GET")
	apiRouter.HandleFunc("/messages/clear", s.clearMessages).Methods("POST")
	apiRouter.HandleFunc("/messages/stats", s.stats).Methods("GET")
	apiRouter.HandleFunc("/models", s.listModels).Methods("GET")

	limitSends := middleware.RateLimitMiddleware(s.limiter, "send", s.logger)
	apiRouter.Handle("/messages", limitSends(http.HandlerFunc(s.sendMessage))).Methods("POST")

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, "Not found", http.StatusNotFound)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	})

	c := cors.New(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Accept"},
		MaxAge:         86400,
	})
	return c.Handler(r)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) listMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := s.repo.List(r.Context())
	if err != nil {
		s.logger.Error("Failed to list messages", "error", err)
		writeError(w, "Could not retrieve messages", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, messagesResponse{Success: true, Messages: messages})
}

// sendMessage stores the user's message together with the reply and answers
// with the whole history. If the reply fails nothing is stored.
func (s *Server) sendMessage(w http.ResponseWriter, r *http.Request) {
	var req api.SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		writeError(w, "text is required", http.StatusBadRequest)
		return
	}

	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = s.models[0].ID
	}
	if !s.knownModel(model) {
		writeError(w, "Unknown model: "+model, http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	history, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("Failed to load history", "error", err)
		writeError(w, "Could not retrieve messages", http.StatusInternalServerError)
		return
	}

	userMsg := &domain.Message{
		ID:        uuid.NewString(),
		Role:      domain.RoleUser,
		Text:      text,
		Tokens:    CountTokens(text),
		Model:     model,
		CreatedAt: s.now().UTC(),
	}

	reply, err := s.reply(ctx, model, append(history, *userMsg))
	if err != nil {
		s.logger.Error("Reply failed", "model", model, "error", err)
		writeError(w, "The model could not answer: "+err.Error(), http.StatusBadGateway)
		return
	}

	replyAt := s.now().UTC()
	if !replyAt.After(userMsg.CreatedAt) {
		replyAt = userMsg.CreatedAt.Add(time.Millisecond)
	}
	aiMsg := &domain.Message{
		ID:        uuid.NewString(),
		Role:      domain.RoleAssistant,
		Text:      reply,
		Tokens:    CountTokens(reply),
		Model:     model,
		CreatedAt: replyAt,
	}

	if err := s.repo.CreateBatch(ctx, []*domain.Message{userMsg, aiMsg}); err != nil {
		s.logger.Error("Failed to store messages", "error", err)
		writeError(w, "Could not save messages", http.StatusInternalServerError)
		return
	}

	messages, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("Failed to list messages", "error", err)
		writeError(w, "Could not retrieve messages", http.StatusInternalServerError)
		return
	}
	s.logger.Info("Message answered", "model", model, "tokens", userMsg.Tokens+aiMsg.Tokens)
	writeJSON(w, http.StatusOK, messagesResponse{Success: true, Messages: messages})
}

func (s *Server) reply(ctx context.Context, model string, history []domain.Message) (string, error) {
	provider := s.echo
	if model != EchoModelID && s.primary != nil {
		provider = s.primary
	}
	reply, err := provider.Reply(ctx, model, history)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(reply) == "" {
		return "", errors.New("empty reply")
	}
	return reply, nil
}

func (s *Server) clearMessages(w http.ResponseWriter, r *http.Request) {
	n, err := s.repo.DeleteAll(r.Context())
	if err != nil {
		s.logger.Error("Failed to clear messages", "error", err)
		writeError(w, "Could not clear messages", http.StatusInternalServerError)
		return
	}
	s.logger.Info("History cleared", "deleted", n)
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (s *Server) listModels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, modelsResponse{Success: true, Models: s.models})
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	st, err := s.repo.Stats(r.Context())
	if err != nil {
		s.logger.Error("Failed to compute stats", "error", err)
		writeError(w, "Could not compute stats", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, statsResponse{Success: true, Stats: st})
}

func (s *Server) knownModel(id string) bool {
	for _, m := range s.models {
		if m.ID == id {
			return true
		}
	}
	return false
}

// CountTokens approximates a token count as the number of
// whitespace-separated words.
func CountTokens(text string) int {
	return len(strings.Fields(text))
}
