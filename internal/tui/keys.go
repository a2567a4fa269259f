package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the task list TUI.
type KeyMap struct {
	// Input focus.
	Submit key.Binding

	// List focus.
	Up       key.Binding
	Down     key.Binding
	Complete key.Binding
	Remove   key.Binding
	NewTask  key.Binding
	Quit     key.Binding

	// Both.
	FocusToggle key.Binding
	ForceQuit   key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add")),
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Complete:    key.NewBinding(key.WithKeys("c", "enter", " "), key.WithHelp("c", "complete")),
		Remove:      key.NewBinding(key.WithKeys("d", "x", "delete"), key.WithHelp("d", "remove")),
		NewTask:     key.NewBinding(key.WithKeys("a", "i"), key.WithHelp("a", "new task")),
		Quit:        key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q", "quit")),
		FocusToggle: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch focus")),
		ForceQuit:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// inputHelp is shown while the text input has focus.
type inputHelp struct{ keys KeyMap }

func (h inputHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.keys.Submit, h.keys.FocusToggle, h.keys.ForceQuit}
}

func (h inputHelp) FullHelp() [][]key.Binding { return [][]key.Binding{h.ShortHelp()} }

// listHelp is shown while the task list has focus.
type listHelp struct{ keys KeyMap }

func (h listHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.keys.Up, h.keys.Down, h.keys.Complete, h.keys.Remove, h.keys.NewTask, h.keys.Quit}
}

func (h listHelp) FullHelp() [][]key.Binding { return [][]key.Binding{h.ShortHelp()} }
