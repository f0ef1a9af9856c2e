package tui

import (
	"github.com/mmcdole/notehub/internal/domain"
	"github.com/mmcdole/notehub/internal/query"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// NotesFetchedMsg signals that a notes fetch finished. The result itself lives
// in the query cache; the message only says which key may have changed.
type NotesFetchedMsg struct {
	Outcome query.Outcome
}

// SearchDebouncedMsg fires when the search input has been idle for the
// debounce delay. Only the message carrying the latest version commits.
type SearchDebouncedMsg struct {
	Version int
	Query   string
}

// CacheInvalidatedMsg relays a query cache invalidation into Update
type CacheInvalidatedMsg struct {
	Event query.Event
}

// NoteDeletedMsg signals that a delete request finished
type NoteDeletedMsg struct {
	Note domain.Note
	Err  error
}

// NoteCreatedMsg signals that a create request finished
type NoteCreatedMsg struct {
	Note domain.Note
	Err  error
}

// GCTickMsg triggers pruning of idle cache entries
type GCTickMsg struct{}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct{}

// StatusMsg sets a temporary status message
type StatusMsg struct {
	Message string
	IsError bool
}
