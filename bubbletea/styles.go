package bubbletea

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/cashpilot/cockpit"
)

// Styles maps a Theme to lipgloss styles for TUI rendering.
type Styles struct {
	UserMsg   lipgloss.Style
	Assistant lipgloss.Style
	Error     lipgloss.Style
	Success   lipgloss.Style
	Info      lipgloss.Style
	Muted     lipgloss.Style
	Accent    lipgloss.Style
}

// NewStyles creates Styles from a Theme.
func NewStyles(theme cockpit.Theme) Styles {
	return Styles{
		UserMsg:   lipgloss.NewStyle().Foreground(ansiColor(theme.UserMsg)).Bold(true),
		Assistant: lipgloss.NewStyle().Foreground(ansiColor(theme.Assistant)).Bold(true),
		Error:     lipgloss.NewStyle().Foreground(ansiColor(theme.Error)),
		Success:   lipgloss.NewStyle().Foreground(ansiColor(theme.Success)),
		Info:      lipgloss.NewStyle().Foreground(ansiColor(theme.Info)),
		Muted:     lipgloss.NewStyle().Foreground(ansiColor(theme.Muted)).Faint(true),
		Accent:    lipgloss.NewStyle().Foreground(ansiColor(theme.Accent)).Bold(true),
	}
}

func ansiColor(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}
