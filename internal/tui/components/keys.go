package components

import "github.com/charmbracelet/bubbles/key"

// NoteListKeyMap defines key bindings for the note list
type NoteListKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Home   key.Binding
	End    key.Binding
	Delete key.Binding
	Yank   key.Binding
}

// DefaultNoteListKeyMap returns the default note list key bindings
func DefaultNoteListKeyMap() NoteListKeyMap {
	return NoteListKeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Home: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "first note"),
		),
		End: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "last note"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "x"),
			key.WithHelp("d/x", "delete"),
		),
		Yank: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy content"),
		),
	}
}

// PaginationKeyMap defines key bindings for page navigation
type PaginationKeyMap struct {
	Prev key.Binding
	Next key.Binding
	Jump key.Binding
}

// DefaultPaginationKeyMap returns the default pagination key bindings
func DefaultPaginationKeyMap() PaginationKeyMap {
	return PaginationKeyMap{
		Prev: key.NewBinding(
			key.WithKeys("[", "pgup"),
			key.WithHelp("[", "previous page"),
		),
		Next: key.NewBinding(
			key.WithKeys("]", "pgdown"),
			key.WithHelp("]", "next page"),
		),
		Jump: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "go to page"),
		),
	}
}

// NoteFormKeyMap defines key bindings for the create form
type NoteFormKeyMap struct {
	Next    key.Binding
	Prev    key.Binding
	Submit  key.Binding
	Cancel  key.Binding
	TagCycle key.Binding
	TagNext  key.Binding
	TagPrev  key.Binding
}

// DefaultNoteFormKeyMap returns the default form key bindings
func DefaultNoteFormKeyMap() NoteFormKeyMap {
	return NoteFormKeyMap{
		Next: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "previous field"),
		),
		Submit: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("C-s", "create"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		TagCycle: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("C-t", "cycle tag"),
		),
		TagNext: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "next tag"),
		),
		TagPrev: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "previous tag"),
		),
	}
}

// Package-level key map instances
var (
	NoteListKeys   = DefaultNoteListKeyMap()
	PaginationKeys = DefaultPaginationKeyMap()
	NoteFormKeys   = DefaultNoteFormKeyMap()
)
