package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mmcdole/notehub/internal/domain"
	"github.com/mmcdole/notehub/internal/query"
)

// DefaultPageSize is the number of notes requested per page
const DefaultPageSize = 12

// NoteServiceOptions tunes fetching and caching
type NoteServiceOptions struct {
	PageSize   int
	Retry      int
	RetryDelay time.Duration
	StaleTime  time.Duration
	Timeout    time.Duration
}

// NoteService owns the notes query cache and the write paths that invalidate it
type NoteService struct {
	repo     domain.NoteRepository
	cache    *query.Cache[domain.NotesPage]
	pageSize int
	timeout  time.Duration
	logger   *slog.Logger
}

// NewNoteService creates a new note service
func NewNoteService(repo domain.NoteRepository, opts NoteServiceOptions, logger *slog.Logger) *NoteService {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}

	s := &NoteService{
		repo:     repo,
		pageSize: opts.PageSize,
		timeout:  opts.Timeout,
		logger:   logger,
	}
	s.cache = query.New[domain.NotesPage](s.fetchPage, query.Options{
		Retry:      opts.Retry,
		RetryDelay: opts.RetryDelay,
		StaleTime:  opts.StaleTime,
		Timeout:    opts.Timeout,
		Logger:     logger,
	})
	return s
}

// Cache exposes the notes query cache to observers
func (s *NoteService) Cache() *query.Cache[domain.NotesPage] {
	return s.cache
}

// PageSize returns the configured notes per page
func (s *NoteService) PageSize() int {
	return s.pageSize
}

func (s *NoteService) fetchPage(ctx context.Context, key query.Key) (domain.NotesPage, error) {
	page, err := s.repo.FetchNotes(ctx, key.Page, s.pageSize, key.Search)
	if err != nil {
		return domain.NotesPage{}, err
	}
	s.logger.Debug("fetched notes page", "search", key.Search, "page", key.Page,
		"count", len(page.Notes), "totalPages", page.TotalPages)
	return page, nil
}

// DeleteNote removes a note. Success marks every notes page stale; failure is
// only logged and leaves the cache untouched.
func (s *NoteService) DeleteNote(ctx context.Context, id int) (domain.Note, error) {
	m := query.Mutation[int, domain.Note]{
		Fn:      s.repo.DeleteNote,
		Timeout: s.timeout,
		OnSuccess: func(id int, _ domain.Note) {
			keys := s.cache.Invalidate(NotesFamily...)
			s.logger.Info("note deleted", "id", id, "invalidated", len(keys))
		},
		OnError: func(id int, err error) {
			s.logger.Error("failed to delete note", "id", id, "error", err)
		},
	}
	return m.Run(ctx, id)
}

// CreateNote validates and posts a new note. Success marks every notes page stale.
func (s *NoteService) CreateNote(ctx context.Context, note domain.NewNote) (domain.Note, error) {
	if err := note.Validate(); err != nil {
		return domain.Note{}, fmt.Errorf("invalid note: %w", err)
	}

	m := query.Mutation[domain.NewNote, domain.Note]{
		Fn:      s.repo.CreateNote,
		Timeout: s.timeout,
		OnSuccess: func(_ domain.NewNote, created domain.Note) {
			keys := s.cache.Invalidate(NotesFamily...)
			s.logger.Info("note created", "id", created.ID, "invalidated", len(keys))
		},
		OnError: func(n domain.NewNote, err error) {
			s.logger.Error("failed to create note", "title", n.Title, "error", err)
		},
	}
	return m.Run(ctx, note)
}

// PruneCache drops unobserved pages idle for longer than maxAge
func (s *NoteService) PruneCache(maxAge time.Duration, keep ...query.Key) int {
	n := s.cache.Prune(maxAge, keep...)
	if n > 0 {
		s.logger.Debug("pruned notes cache", "removed", n, "remaining", s.cache.Len())
	}
	return n
}
