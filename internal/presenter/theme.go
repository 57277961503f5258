package presenter

import "github.com/charmbracelet/lipgloss"

var (
	ColorAccent    = lipgloss.Color("#7D56F4")
	ColorSuccess   = lipgloss.Color("#04B575")
	ColorError     = lipgloss.Color("#FF5F87")
	ColorSecondary = lipgloss.Color("#A0A0A0")
)
