package tui

import "github.com/charmbracelet/lipgloss"

// Teal palette to match the app's health branding.
var (
	teal     = lipgloss.Color("#0FB5AE")
	tealDark = lipgloss.Color("#14A085")
	green    = lipgloss.Color("#04B575")
	red      = lipgloss.Color("#FF5555")
	grey     = lipgloss.Color("#626262")
	white    = lipgloss.Color("#FAFAFA")
)

var (
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(teal).
			MarginTop(1).MarginBottom(1)

	StatusStyle = lipgloss.NewStyle().Foreground(green)
	ErrorStyle  = lipgloss.NewStyle().Foreground(red)
	InfoStyle   = lipgloss.NewStyle().Foreground(grey)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(tealDark).
			Padding(1, 2)

	HighlightStyle = lipgloss.NewStyle().Bold(true).
			Foreground(white).Background(teal).Padding(0, 1)
)
