package server

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mmcdole/notehub/internal/store"
)

// NewRouter creates a chi router with the notes routes mounted
func NewRouter(notes *store.NoteStore, token string, logger *slog.Logger) chi.Router {
	h := NewHandler(notes, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))
	r.Use(AuthMiddleware(token))

	r.Get("/notes", h.ListNotes)
	r.Post("/notes", h.CreateNote)
	r.Delete("/notes/{id}", h.DeleteNote)

	return r
}
