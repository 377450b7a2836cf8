package style

import "github.com/charmbracelet/lipgloss"

// Semantic colors shared by boxed messages.
var (
	TextColor    = lipgloss.Color("#cdd6f4")
	AccentColor  = lipgloss.Color("#cba6f7")
	ErrorColor   = lipgloss.Color("#f38ba8")
	WarningColor = lipgloss.Color("#f9e2af")
	SuccessColor = lipgloss.Color("#a6e3a1")
)
