package tui

import "github.com/charmbracelet/lipgloss"

const (
	colorAccent = "#7C3AED"
	colorMuted  = "#6B7280"
	colorUser   = "#2563EB"
	colorAI     = "#374151"
	colorError  = "#DC2626"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorAccent))

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorMuted))

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorMuted))

	userBubbleStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(colorUser)).
			Padding(0, 1)

	aiBubbleStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(colorAI)).
			Padding(0, 1)

	roleStyle = lipgloss.NewStyle().Bold(true)

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorMuted)).
			Italic(true)

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorMuted)).
			Italic(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorMuted))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorError))
)
