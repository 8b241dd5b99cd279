package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
const (
	colorAccent  = "#2AA9B8"
	colorInBound = "#D4A017"
	colorError   = "#E05252"
	colorMuted   = "#6C6C6C"
	colorBright  = "#F5F5F0"
)

// Styles for the tracking view
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorAccent)).
			MarginBottom(1)

	StatusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorInBound))

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorError)).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorMuted))

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color(colorError)).
			Padding(0, 2)

	HighlightStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorBright)).
			Background(lipgloss.Color(colorAccent)).
			Padding(0, 1)
)
