package tui

import "github.com/charmbracelet/lipgloss"

const (
	colorSubtle    = lipgloss.Color("240")
	colorHighlight = lipgloss.Color("81")
	colorError     = lipgloss.Color("196")
	colorSuccess   = lipgloss.Color("40")
	colorFocus     = lipgloss.Color("205")
)

var (
	docStyle = lipgloss.NewStyle().Margin(1, 2)

	titleStyle = lipgloss.NewStyle().
			Foreground(colorHighlight).
			Bold(true).
			Padding(0, 0, 1, 0)

	labelStyle        = lipgloss.NewStyle().Foreground(colorSubtle)
	focusedLabelStyle = lipgloss.NewStyle().Foreground(colorFocus).Bold(true)
	valueStyle        = lipgloss.NewStyle()

	buttonStyle         = lipgloss.NewStyle().Padding(0, 2).Foreground(colorSubtle)
	focusedButtonStyle  = lipgloss.NewStyle().Padding(0, 2).Foreground(colorFocus).Bold(true)
	disabledButtonStyle = lipgloss.NewStyle().Padding(0, 2).Foreground(colorSubtle).Strikethrough(true)

	errorStyle   = lipgloss.NewStyle().Foreground(colorError)
	successStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	helpStyle    = lipgloss.NewStyle().Foreground(colorSubtle).Padding(1, 0, 0, 0)
)
