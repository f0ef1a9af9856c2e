package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all app-level key bindings
type KeyMap struct {
	Quit          key.Binding
	ForceQuit     key.Binding
	Help          key.Binding
	Escape        key.Binding
	Search        key.Binding
	LeaveSearch   key.Binding
	NewNote       key.Binding
	TogglePreview key.Binding
	Refresh       key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("C-c", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		LeaveSearch: key.NewBinding(
			key.WithKeys("esc", "tab", "enter", "down"),
			key.WithHelp("esc/tab", "back to list"),
		),
		NewNote: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new note"),
		),
		TogglePreview: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "toggle preview"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
	}
}

// Keys is the global key bindings instance
var Keys = DefaultKeyMap()
