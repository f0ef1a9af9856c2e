package tui

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/notehub/internal/domain"
	"github.com/mmcdole/notehub/internal/query"
	"github.com/mmcdole/notehub/internal/service"
)

// Command factories for async operations

// FetchNotesCmd runs the fetch authorized by ticket. Retries and the
// per-request timeout are applied by the cache.
func FetchNotesCmd(cache *query.Cache[domain.NotesPage], ticket query.Ticket) tea.Cmd {
	return func() tea.Msg {
		return NotesFetchedMsg{Outcome: cache.Run(context.Background(), ticket)}
	}
}

// DebounceSearchCmd reports the search value after delay
func DebounceSearchCmd(delay time.Duration, version int, q string) tea.Cmd {
	if delay <= 0 {
		return func() tea.Msg {
			return SearchDebouncedMsg{Version: version, Query: q}
		}
	}
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return SearchDebouncedMsg{Version: version, Query: q}
	})
}

// DeleteNoteCmd deletes a note. The service invalidates the notes cache on success.
func DeleteNoteCmd(svc *service.NoteService, note domain.Note) tea.Cmd {
	return func() tea.Msg {
		_, err := svc.DeleteNote(context.Background(), note.ID)
		return NoteDeletedMsg{Note: note, Err: err}
	}
}

// CreateNoteCmd creates a note. The service invalidates the notes cache on success.
func CreateNoteCmd(svc *service.NoteService, note domain.NewNote) tea.Cmd {
	return func() tea.Msg {
		created, err := svc.CreateNote(context.Background(), note)
		return NoteCreatedMsg{Note: created, Err: err}
	}
}

// ListenInvalidationsCmd waits for the next cache invalidation. It is
// re-issued after every event so that listening continues.
func ListenInvalidationsCmd(ch <-chan query.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return CacheInvalidatedMsg{Event: ev}
	}
}

// GCTickCmd schedules the next cache pruning pass
func GCTickCmd(interval time.Duration) tea.Cmd {
	if interval <= 0 {
		return nil
	}
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return GCTickMsg{}
	})
}

// YankCmd copies text to the system clipboard
func YankCmd(text, label string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return ErrMsg{Err: err, Context: "copy failed"}
		}
		return StatusMsg{Message: "Copied " + label}
	}
}

// ClearStatusCmd clears the status message after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
