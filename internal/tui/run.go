// Package tui is the interactive terminal view of the task list.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/tasks/internal/tasklist"
)

// Run starts the program on the alternate screen and blocks until the user
// quits. Every change is already persisted by the store, so nothing is
// written on exit. handler may be nil.
func Run(s *tasklist.Store, handler *LogHandler) error {
	p := tea.NewProgram(NewModel(s), tea.WithAltScreen())

	if handler != nil {
		handler.SetProgram(p)
		defer handler.SetProgram(nil)
	}

	// The model refreshes after its own mutations; the subscription keeps
	// it current when anything else changes the store.
	unsubscribe := s.Subscribe(func(tasklist.Snapshot) {
		go p.Send(storeChangedMsg{})
	})
	defer unsubscribe()

	_, err := p.Run()
	return err
}
