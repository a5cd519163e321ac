// ABOUTME: TUI initialization and control
// ABOUTME: Wraps the bubbletea program and feeds it control loop wake-ups
package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// Run creates the program and starts forwarding loop work into it until
// ctx is done. The caller runs the returned program.
func Run(ctx context.Context, m *Model) *tea.Program {
	p := tea.NewProgram(m, tea.WithAltScreen())

	go func() {
		for {
			select {
			case <-m.loop.Wake():
				p.Send(DrainMsg{})
			case <-ctx.Done():
				return
			}
		}
	}()

	return p
}
