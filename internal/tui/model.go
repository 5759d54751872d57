// File: internal/tui/model.go
package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/iyunix/go-chatfront/internal/services/conversation"
)

// Layout constants
const (
	headerHeight = 2
	inputHeight  = 3
	statusHeight = 1
	minWidth     = 40
)

// loadedMsg reports one of the three load requests.
type loadedMsg struct {
	part string
	err  error
}

type sentMsg struct{ err error }

type clearedMsg struct{ err error }

// Model is the terminal conversation view. All state it renders comes from
// the session; Model only keeps widget state and what it last rendered.
type Model struct {
	ctx     context.Context
	session *conversation.Session
	keys    keyMap

	viewport viewport.Model
	input    textarea.Model
	spinner  spinner.Model

	width      int
	height     int
	ready      bool
	confirming bool
	status     string
	statusErr  bool

	renderedCount  int
	renderedTyping bool

	loading int
	loadErr error
}

func New(ctx context.Context, session *conversation.Session) *Model {
	keys := defaultKeyMap()

	ta := textarea.New()
	ta.Placeholder = "Type a message..."
	ta.Focus()
	ta.CharLimit = 8000
	ta.SetHeight(inputHeight)
	ta.ShowLineNumbers = false
	ta.Prompt = "▍ "
	ta.KeyMap.InsertNewline = keys.Newline
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &Model{
		ctx:      ctx,
		session:  session,
		keys:     keys,
		input:    ta,
		spinner:  sp,
		viewport: viewport.New(80, 20),
		width:    80,
		height:   24,
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spinner.Tick, m.loadCmd())
}

// loadCmd fetches messages, models and stats as separate commands so each
// result is drawn as soon as it arrives.
func (m *Model) loadCmd() tea.Cmd {
	return tea.Batch(m.loadCmds()...)
}

func (m *Model) loadCmds() []tea.Cmd {
	ctx, s := m.ctx, m.session
	part := func(name string, fn func(context.Context) error) tea.Cmd {
		return func() tea.Msg {
			return loadedMsg{part: name, err: fn(ctx)}
		}
	}
	m.loading = 3
	m.loadErr = nil
	return []tea.Cmd{
		part("messages", s.RefreshMessages),
		part("models", s.RefreshModels),
		part("stats", s.RefreshStats),
	}
}

func (m *Model) sendCmd(p conversation.Pending) tea.Cmd {
	ctx, s := m.ctx, m.session
	return func() tea.Msg {
		return sentMsg{err: s.FinishSend(ctx, p)}
	}
}

func (m *Model) clearCmd(answer bool) tea.Cmd {
	ctx, s := m.ctx, m.session
	return func() tea.Msg {
		confirm := conversation.ConfirmFunc(func(string) bool { return answer })
		return clearedMsg{err: s.Clear(ctx, confirm)}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case loadedMsg:
		m.loaded(msg)
		m.refresh()
		return m, nil

	case sentMsg:
		m.setResult(msg.err, "")
		m.refresh()
		return m, nil

	case clearedMsg:
		m.setResult(msg.err, "History cleared")
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.renderedTyping {
			m.refresh()
		}
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirming {
		m.confirming = false
		if msg.String() == "y" || msg.String() == "Y" {
			m.status, m.statusErr = "Clearing…", false
			return m, m.clearCmd(true)
		}
		m.status, m.statusErr = "Clear cancelled", false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Send):
		return m, m.send()

	case key.Matches(msg, m.keys.NextModel):
		m.session.CycleModel(1)
		return m, nil

	case key.Matches(msg, m.keys.PrevModel):
		m.session.CycleModel(-1)
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		m.confirming = true
		m.status, m.statusErr = conversation.ClearPrompt+" (y/n)", false
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		m.status, m.statusErr = "Reloading…", false
		return m, m.loadCmd()

	case key.Matches(msg, m.keys.ScrollUp), key.Matches(msg, m.keys.ScrollDn):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.session.SetDraft(m.input.Value())
	return m, cmd
}

// send hands the draft to the session. The input box is cleared right away;
// the message list only changes once the server answers.
func (m *Model) send() tea.Cmd {
	m.session.SetDraft(m.input.Value())
	p, err := m.session.StartSend()
	switch {
	case errors.Is(err, conversation.ErrEmptyDraft):
		return nil
	case errors.Is(err, conversation.ErrSendInFlight):
		m.status, m.statusErr = "Still sending…", false
		return nil
	case err != nil:
		m.setResult(err, "")
		return nil
	}

	m.input.Reset()
	m.status = ""
	m.refresh()
	return m.sendCmd(p)
}

// loaded records one load result. The status settles once all parts are in,
// showing the first failure if there was one.
func (m *Model) loaded(msg loadedMsg) {
	if msg.err != nil && m.loadErr == nil {
		m.loadErr = msg.err
	}
	if m.loading > 0 {
		m.loading--
	}
	if m.loading == 0 {
		m.setResult(m.loadErr, "")
	}
}

func (m *Model) setResult(err error, okStatus string) {
	if err == nil || errors.Is(err, conversation.ErrNotConfirmed) {
		m.status, m.statusErr = okStatus, false
		return
	}
	m.status, m.statusErr = err.Error(), true
}

func (m *Model) resize(width, height int) {
	if width < minWidth {
		width = minWidth
	}
	m.width, m.height = width, height

	vh := height - headerHeight - inputHeight - statusHeight - 2
	if vh < 3 {
		vh = 3
	}
	m.viewport.Width = width
	m.viewport.Height = vh
	m.input.SetWidth(width - 2)
	m.ready = true
}

// refresh re-renders the conversation from a fresh snapshot and scrolls to
// the newest message whenever the list or the typing flag changed.
func (m *Model) refresh() {
	snap := m.session.Snapshot()
	m.viewport.SetContent(renderConversation(snap, m.width, m.spinner.View()))

	if len(snap.Messages) != m.renderedCount || snap.Typing != m.renderedTyping {
		m.viewport.GotoBottom()
	}
	m.renderedCount = len(snap.Messages)
	m.renderedTyping = snap.Typing
}

func (m *Model) View() string {
	if !m.ready {
		return "Loading…"
	}
	snap := m.session.Snapshot()

	status := statusStyle.Render(m.keys.helpLine())
	if m.status != "" {
		if m.statusErr {
			status = errorStyle.Render(m.status)
		} else {
			status = statusStyle.Render(m.status)
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		renderHeader(snap, m.width),
		"",
		m.viewport.View(),
		m.input.View(),
		status,
	)
}
