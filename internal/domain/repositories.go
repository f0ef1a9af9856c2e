package domain

import "context"

// NoteRepository provides access to the remote notes collection
type NoteRepository interface {
	// FetchNotes returns one page of notes matching search.
	// An empty search matches every note.
	FetchNotes(ctx context.Context, page, perPage int, search string) (NotesPage, error)

	// CreateNote stores a new note and returns it with its server-assigned ID
	CreateNote(ctx context.Context, note NewNote) (Note, error)

	// DeleteNote removes a note and returns the deleted note
	DeleteNote(ctx context.Context, id int) (Note, error)
}
