package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mmcdole/notehub/internal/domain"
	"github.com/mmcdole/notehub/internal/store"
)

const (
	defaultPerPage = 12
	maxPerPage     = 50
)

// Handler holds API route handlers
type Handler struct {
	notes  *store.NoteStore
	logger *slog.Logger
}

// NewHandler creates a new Handler
func NewHandler(notes *store.NoteStore, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{notes: notes, logger: logger}
}

type listResponse struct {
	Notes      []domain.Note `json:"notes"`
	TotalPages int           `json:"totalPages"`
}

// ListNotes handles GET /notes
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, err := intParam(q.Get("page"), 1)
	if err != nil || page < 1 {
		writeJSON(w, http.StatusBadRequest, errorBody("page must be a positive integer"))
		return
	}
	perPage, err := intParam(q.Get("perPage"), defaultPerPage)
	if err != nil || perPage < 1 || perPage > maxPerPage {
		writeJSON(w, http.StatusBadRequest, errorBody(fmt.Sprintf("perPage must be between 1 and %d", maxPerPage)))
		return
	}
	tag := domain.Tag(q.Get("tag"))
	if tag != "" && !validTag(tag) {
		writeJSON(w, http.StatusBadRequest, errorBody("unknown tag"))
		return
	}

	notes, totalPages := h.notes.Find(store.Filter{
		Search:  q.Get("search"),
		Tag:     tag,
		Page:    page,
		PerPage: perPage,
	})
	writeJSON(w, http.StatusOK, listResponse{Notes: notes, TotalPages: totalPages})
}

// CreateNote handles POST /notes
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var req domain.NewNote
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	note, err := h.notes.Create(req)
	if err != nil {
		h.logger.Error("create note failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

// DeleteNote handles DELETE /notes/{id}
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid note id"))
		return
	}

	note, err := h.notes.Delete(id)
	if err != nil {
		if errors.Is(err, domain.ErrNoteNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("Note not found"))
			return
		}
		h.logger.Error("delete note failed", slog.Int("id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, note)
}

func intParam(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

func validTag(tag domain.Tag) bool {
	for _, t := range domain.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// requestLogger logs one line per request through slog
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Duration("duration", time.Since(start)),
				slog.String("request_id", middleware.GetReqID(r.Context())))
		})
	}
}
