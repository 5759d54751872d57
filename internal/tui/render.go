package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/iyunix/go-chatfront/internal/domain"
	"github.com/iyunix/go-chatfront/internal/services/conversation"
)

const emptyText = "No messages yet — say hi!"

// renderHeader is the title plus model and running totals.
func renderHeader(snap conversation.Snapshot, width int) string {
	model := snap.SelectedModelLabel()
	if model == "" {
		model = "—"
	}
	info := headerStyle.Render(fmt.Sprintf("Model: %s · %d msgs · %d tokens",
		model, snap.Stats.TotalMessages, snap.Stats.TotalTokens))
	title := titleStyle.Render("AI Chat App")

	gap := width - lipgloss.Width(title) - lipgloss.Width(info)
	if gap < 1 {
		return title + "\n" + info
	}
	return title + strings.Repeat(" ", gap) + info
}

// renderConversation lays out the day groups, one bubble per message, and
// the typing bubble when a send is in flight.
func renderConversation(snap conversation.Snapshot, width int, typingFrame string) string {
	var b strings.Builder

	if len(snap.Groups) == 0 {
		b.WriteString(emptyStyle.Render(emptyText))
		b.WriteString("\n")
	}

	for _, g := range snap.Groups {
		b.WriteString(renderSeparator(g, width))
		b.WriteString("\n")
		for _, m := range g.Messages {
			b.WriteString(renderBubble(m, width))
			b.WriteString("\n")
		}
	}

	if snap.Typing {
		b.WriteString(aiBubbleStyle.Render(roleStyle.Render("AI") + " " + typingFrame))
		b.WriteString("\n")
	}
	return b.String()
}

func renderSeparator(g domain.DayGroup, width int) string {
	label := " " + g.Label() + " "
	side := (width - lipgloss.Width(label)) / 2
	if side < 2 {
		side = 2
	}
	line := strings.Repeat("─", side)
	return separatorStyle.Render(line + label + line)
}

func renderBubble(m domain.Message, width int) string {
	maxWidth := width * 3 / 4
	if maxWidth < 20 {
		maxWidth = 20
	}

	style := aiBubbleStyle
	align := lipgloss.Left
	if m.IsUser() {
		style = userBubbleStyle
		align = lipgloss.Right
	}

	text := m.Text
	if lipgloss.Width(text) > maxWidth-4 {
		text = lipgloss.NewStyle().Width(maxWidth - 4).Render(text)
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		roleStyle.Render(m.Author()),
		text,
		metaStyle.Render(fmt.Sprintf("%d tokens", m.TokenCount())),
	)
	bubble := style.Render(body)

	if width <= 0 {
		return bubble
	}
	return lipgloss.PlaceHorizontal(width, align, bubble)
}
