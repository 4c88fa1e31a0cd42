package console

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.Color("#a78bfa")
	colorMuted   = lipgloss.Color("#808080")
	colorSubtle  = lipgloss.Color("#585858")
	colorBorder  = lipgloss.Color("240")
	colorSuccess = lipgloss.Color("#4ade80")
	colorError   = lipgloss.Color("#f87171")
	colorWarning = lipgloss.Color("#fbbf24")
)

var (
	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	titleStyle   = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	subtleStyle  = lipgloss.NewStyle().Foreground(colorSubtle)
	cursorStyle  = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning)
	successStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	keyStyle     = lipgloss.NewStyle().Foreground(colorPrimary)
)
