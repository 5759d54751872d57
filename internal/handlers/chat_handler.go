// File: internal/handlers/chat_handler.go
package handlers

import (
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/iyunix/go-chatfront/internal/domain"
	"github.com/iyunix/go-chatfront/internal/services"
	"github.com/iyunix/go-chatfront/internal/services/conversation"
)

type bubbleView struct {
	ID     string
	Author string
	User   bool
	Body   template.HTML
	Tokens int
	Time   string
}

type groupView struct {
	Label   string
	Bubbles []bubbleView
}

type modelView struct {
	ID       string
	Name     string
	Selected bool
}

// ChatHandler serves the conversation page and the form posts that drive it.
// Every browser shares the one session it wraps.
type ChatHandler struct {
	pages   *PageHandler
	session *conversation.Session
	md      goldmark.Markdown
	logger  services.Logger
}

func NewChatHandler(pages *PageHandler, session *conversation.Session, logger services.Logger) *ChatHandler {
	if logger == nil {
		logger = &services.NoOpLogger{}
	}
	return &ChatHandler{
		pages:   pages,
		session: session,
		md:      newMarkdown(),
		logger:  logger,
	}
}

// ShowChatPage reloads from the API and renders the result. A failed load
// still renders whatever the session holds.
func (h *ChatHandler) ShowChatPage(w http.ResponseWriter, r *http.Request) {
	if err := h.session.Load(r.Context()); err != nil {
		h.logger.Error("Page load incomplete", "error", err)
	}
	snap := h.session.Snapshot()

	groups := make([]groupView, 0, len(snap.Groups))
	for _, g := range snap.Groups {
		gv := groupView{Label: g.Label()}
		for _, m := range g.Messages {
			gv.Bubbles = append(gv.Bubbles, h.bubble(m))
		}
		groups = append(groups, gv)
	}

	models := make([]modelView, 0, len(snap.Models))
	for _, m := range snap.Models {
		models = append(models, modelView{ID: m.ID, Name: m.Label(), Selected: m.ID == snap.SelectedModel})
	}

	h.pages.render(w, http.StatusOK, "chat.html", map[string]interface{}{
		"Groups":        groups,
		"Models":        models,
		"SelectedModel": snap.SelectedModelLabel(),
		"Stats":         snap.Stats,
		"Typing":        snap.Typing,
		"Draft":         snap.Draft,
		"ClearPrompt":   conversation.ClearPrompt,
	})
}

// User text stays plain; assistant text is markdown.
func (h *ChatHandler) bubble(m domain.Message) bubbleView {
	body := template.HTML(template.HTMLEscapeString(m.Text))
	if !m.IsUser() {
		body = renderMarkdown(h.md, m.Text)
	}
	var at string
	if !m.CreatedAt.IsZero() {
		at = m.CreatedAt.Format("15:04")
	}
	return bubbleView{
		ID:     m.ID,
		Author: m.Author(),
		User:   m.IsUser(),
		Body:   body,
		Tokens: m.TokenCount(),
		Time:   at,
	}
}

// SendMessage handles the compose form. A blank text is ignored.
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	if model := strings.TrimSpace(r.PostForm.Get("model")); model != "" {
		if err := h.session.SelectModel(model); err != nil {
			h.logger.Warn("Ignoring model from form", "model", model, "error", err)
		}
	}

	err := h.session.SendText(r.Context(), r.PostForm.Get("text"))
	switch {
	case err == nil, errors.Is(err, conversation.ErrEmptyDraft):
	case errors.Is(err, conversation.ErrSendInFlight):
		h.logger.Warn("Send rejected, another send is in flight")
	default:
		h.logger.Error("Send failed", "error", err)
	}
	redirectHome(w, r)
}

// ClearHistory runs after the browser asked for confirmation.
func (h *ChatHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.session.Clear(r.Context(), conversation.AlwaysConfirm); err != nil {
		h.logger.Error("Clear failed", "error", err)
	}
	redirectHome(w, r)
}

func (h *ChatHandler) SelectModel(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	if err := h.session.SelectModel(r.PostForm.Get("model")); err != nil {
		h.logger.Warn("Model selection rejected", "error", err)
	}
	redirectHome(w, r)
}

// Refresh reloads messages, models and stats from the API.
func (h *ChatHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.session.Load(r.Context()); err != nil {
		h.logger.Error("Refresh failed", "error", err)
	}
	redirectHome(w, r)
}

func (h *ChatHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
