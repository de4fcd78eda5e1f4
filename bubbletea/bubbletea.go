// Package bubbletea implements the terminal UI for the cockpit chat
// client using the Bubble Tea framework.
package bubbletea

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// Run creates and runs the Bubble Tea program for the given model. It
// blocks until the program exits. Cancelling the context quits the
// program cleanly.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err := p.Run()
	return err
}
