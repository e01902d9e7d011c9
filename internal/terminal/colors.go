package terminal

import "github.com/charmbracelet/lipgloss"

var (
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6c7086"))
	brightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#cdd6f4")).Bold(true)
	blueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#89b4fa"))
	yellowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f9e2af"))
	greenStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#a6e3a1")).Bold(true)
	redStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8")).Bold(true)
)

// Dim returns text in dim gray color
func Dim(text string) string {
	return dimStyle.Render(text)
}

// Bright returns text in bright white color
func Bright(text string) string {
	return brightStyle.Render(text)
}

// Blue returns text in blue color
func Blue(text string) string {
	return blueStyle.Render(text)
}

// Yellow returns text in yellow color
func Yellow(text string) string {
	return yellowStyle.Render(text)
}

// Green returns text in green color
func Green(text string) string {
	return greenStyle.Render(text)
}

// Red returns text in red color
func Red(text string) string {
	return redStyle.Render(text)
}
