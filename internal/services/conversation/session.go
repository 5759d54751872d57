// File: internal/services/conversation/session.go
package conversation

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/iyunix/go-chatfront/internal/domain"
	"github.com/iyunix/go-chatfront/internal/services"
	"github.com/iyunix/go-chatfront/internal/services/api"
)

// ClearPrompt is the question asked before history is wiped.
const ClearPrompt = "Clear all chat history? This cannot be undone."

// Confirmer answers a yes/no question on behalf of the user.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// AlwaysConfirm is for front-ends that asked the user before calling Clear.
var AlwaysConfirm Confirmer = ConfirmFunc(func(string) bool { return true })

// Pending is a send that has left the draft but not yet reached the server.
type Pending struct {
	Text  string
	Model string
}

// Snapshot is a read-only copy of the view state for one render pass.
type Snapshot struct {
	Messages      []domain.Message
	Groups        []domain.DayGroup
	Draft         string
	Sending       bool
	Typing        bool
	Models        []domain.Model
	SelectedModel string
	Stats         domain.Stats
}

// SelectedModelLabel is the display name of the selected model.
func (s Snapshot) SelectedModelLabel() string {
	for _, m := range s.Models {
		if m.ID == s.SelectedModel {
			return m.Label()
		}
	}
	return s.SelectedModel
}

// Session owns the conversation view state. The message list is always the
// server's latest copy: it is replaced wholesale after a successful call and
// left untouched after a failed one.
type Session struct {
	api    api.Service
	logger services.Logger
	loc    *time.Location

	mu       sync.Mutex
	messages []domain.Message
	// listVersion counts lists adopted from sends and clears. A refresh
	// that started before one of those is stale.
	listVersion uint64
	draft    string
	sending  bool
	typing   bool
	models   []domain.Model
	selected string
	stats    domain.Stats
}

type Option func(*Session)

// WithLocation sets the zone day groups are cut in. The default is UTC.
func WithLocation(loc *time.Location) Option {
	return func(s *Session) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func NewSession(svc api.Service, logger services.Logger, opts ...Option) *Session {
	if logger == nil {
		logger = &services.NoOpLogger{}
	}
	s := &Session{
		api:    svc,
		logger: logger,
		loc:    time.UTC,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load fetches messages, models and stats concurrently and applies each one
// as soon as it arrives, so a slow or failed auxiliary call never holds the
// others back. The first failure is returned after all three finish.
func (s *Session) Load(ctx context.Context) error {
	var g errgroup.Group

	g.Go(func() error { return s.RefreshMessages(ctx) })
	g.Go(func() error { return s.RefreshModels(ctx) })
	g.Go(func() error { return s.RefreshStats(ctx) })

	return g.Wait()
}

// RefreshMessages replaces the list with the server's. A response that
// arrives after a send or clear has already replaced the list is dropped.
func (s *Session) RefreshMessages(ctx context.Context) error {
	s.mu.Lock()
	version := s.listVersion
	s.mu.Unlock()

	res, err := s.api.ListMessages(ctx)
	if err != nil {
		s.logger.Error("Failed to load messages", "error", err)
		return fmt.Errorf("failed to load messages: %w", err)
	}
	if !res.Success {
		err := requestFailed("list_messages", &res.Result)
		s.logger.Error("Failed to load messages", "error", err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listVersion != version {
		s.logger.Debug("Dropping stale message list", "messages", len(res.Messages))
		return nil
	}
	s.messages = cloneMessages(res.Messages)
	return nil
}

// RefreshModels loads the model list and selects the first model when
// nothing is selected yet.
func (s *Session) RefreshModels(ctx context.Context) error {
	res, err := s.api.ListModels(ctx)
	if err != nil {
		s.logger.Error("Failed to load models", "error", err)
		return fmt.Errorf("failed to load models: %w", err)
	}
	if !res.Success {
		err := requestFailed("list_models", &res.Result)
		s.logger.Error("Failed to load models", "error", err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.models = append([]domain.Model(nil), res.Models...)
	if s.selected == "" && len(s.models) > 0 {
		s.selected = s.models[0].ID
	}
	return nil
}

func (s *Session) RefreshStats(ctx context.Context) error {
	res, err := s.api.GetStats(ctx)
	if err != nil {
		s.logger.Error("Failed to load stats", "error", err)
		return fmt.Errorf("failed to load stats: %w", err)
	}
	if !res.Success {
		err := requestFailed("get_stats", &res.Result)
		s.logger.Error("Failed to load stats", "error", err)
		return err
	}

	s.mu.Lock()
	s.stats = res.Stats
	s.mu.Unlock()
	return nil
}

func (s *Session) SetDraft(text string) {
	s.mu.Lock()
	s.draft = text
	s.mu.Unlock()
}

func (s *Session) Draft() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// SelectModel switches the model used for the next send. Once a model list
// is loaded only its ids are accepted.
func (s *Session) SelectModel(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.models) > 0 && indexOfModel(s.models, id) < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownModel, id)
	}
	s.selected = id
	return nil
}

// CycleModel moves the selection by delta through the model list, wrapping
// around, and returns the new selection.
func (s *Session) CycleModel(delta int) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.models)
	if n == 0 {
		return s.selected
	}
	i := indexOfModel(s.models, s.selected)
	if i < 0 {
		i = 0
	} else {
		i = ((i+delta)%n + n) % n
	}
	s.selected = s.models[i].ID
	return s.selected
}

// Send delivers the current draft. An empty or whitespace-only draft is a
// no-op reported as ErrEmptyDraft.
func (s *Session) Send(ctx context.Context) error {
	p, err := s.StartSend()
	if err != nil {
		return err
	}
	return s.FinishSend(ctx, p)
}

// StartSend takes the draft for sending: it raises the sending and typing
// flags and clears the input. The message list is not touched.
func (s *Session) StartSend() (Pending, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startLocked()
}

// SendText replaces the draft with text and sends it. Callers sharing one
// session can't interleave between the two steps.
func (s *Session) SendText(ctx context.Context, text string) error {
	s.mu.Lock()
	s.draft = text
	p, err := s.startLocked()
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.FinishSend(ctx, p)
}

func (s *Session) startLocked() (Pending, error) {
	text := strings.TrimSpace(s.draft)
	if text == "" {
		return Pending{}, ErrEmptyDraft
	}
	if s.sending {
		return Pending{}, ErrSendInFlight
	}

	s.sending = true
	s.typing = true
	s.draft = ""
	return Pending{Text: text, Model: s.selected}, nil
}

// FinishSend posts a pending message, adopts the server's list on success
// and refreshes stats. The flags are lowered on every exit path.
func (s *Session) FinishSend(ctx context.Context, p Pending) error {
	defer func() {
		s.mu.Lock()
		s.sending = false
		s.typing = false
		s.mu.Unlock()
	}()

	res, err := s.api.SendMessage(ctx, p.Text, p.Model)
	if err != nil {
		s.logger.Error("Send error", "model", p.Model, "error", err)
		return fmt.Errorf("failed to send message: %w", err)
	}
	if !res.Success {
		err := requestFailed("send_message", &res.Result)
		s.logger.Error("Send failed", "model", p.Model, "error", err)
		return err
	}

	s.mu.Lock()
	s.messages = cloneMessages(res.Messages)
	s.listVersion++
	s.mu.Unlock()
	s.logger.Debug("Message sent", "model", p.Model, "messages", len(res.Messages))

	// The send itself went through; a stats hiccup is only logged.
	_ = s.RefreshStats(ctx)
	return nil
}

// Clear wipes the history after the user confirms. Local state is reset only
// once the server reports success.
func (s *Session) Clear(ctx context.Context, confirm Confirmer) error {
	if confirm == nil || !confirm.Confirm(ClearPrompt) {
		return ErrNotConfirmed
	}

	res, err := s.api.ClearMessages(ctx)
	if err != nil {
		s.logger.Error("Clear error", "error", err)
		return fmt.Errorf("failed to clear messages: %w", err)
	}
	if !res.Success {
		err := requestFailed("clear_messages", res)
		s.logger.Error("Clear failed", "error", err)
		return err
	}

	s.mu.Lock()
	s.messages = []domain.Message{}
	s.listVersion++
	s.stats = domain.Stats{}
	s.mu.Unlock()
	s.logger.Info("Chat history cleared")
	return nil
}

// Snapshot copies the state and derives the day groups for one render.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := cloneMessages(s.messages)
	return Snapshot{
		Messages:      msgs,
		Groups:        GroupByDay(msgs, s.loc),
		Draft:         s.draft,
		Sending:       s.sending,
		Typing:        s.typing,
		Models:        append([]domain.Model(nil), s.models...),
		SelectedModel: s.selected,
		Stats:         s.stats,
	}
}

func cloneMessages(in []domain.Message) []domain.Message {
	out := make([]domain.Message, len(in))
	copy(out, in)
	return out
}

func indexOfModel(models []domain.Model, id string) int {
	for i, m := range models {
		if m.ID == id {
			return i
		}
	}
	return -1
}
