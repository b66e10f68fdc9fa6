package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"storecal/internal/calendar"
)

// NewProgram creates a BubbleTea program for s with alt-screen enabled.
func NewProgram(s *calendar.State, opts ...tea.ProgramOption) *tea.Program {
	allOpts := []tea.ProgramOption{tea.WithAltScreen()}
	allOpts = append(allOpts, opts...)
	return tea.NewProgram(NewModel(s), allOpts...)
}

// Run creates and runs the browser, blocking until it exits.
func Run(s *calendar.State) error {
	if _, err := NewProgram(s).Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
