package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/notehub/internal/adapter"
	"github.com/mmcdole/notehub/internal/domain"
	"github.com/mmcdole/notehub/internal/notehub"
	"github.com/mmcdole/notehub/internal/store"
)

func testRouter(t *testing.T, token string, seed ...domain.Note) (*store.NoteStore, http.Handler) {
	t.Helper()
	notes, err := store.NewNoteStore("")
	require.NoError(t, err)
	if len(seed) > 0 {
		_, err := notes.Seed(seed)
		require.NoError(t, err)
	}
	return notes, NewRouter(notes, token, adapter.NullLogger())
}

func do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func seedNotes(n int, tag domain.Tag) []domain.Note {
	notes := make([]domain.Note, n)
	for i := range notes {
		notes[i] = domain.Note{Title: "Note " + string(rune('A'+i)), Tag: tag}
	}
	return notes
}

func TestListNotesPaging(t *testing.T) {
	_, h := testRouter(t, "", seedNotes(26, domain.TagWork)...)

	w := do(t, h, http.MethodGet, "/notes?page=3&perPage=12", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp listResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.TotalPages)
	assert.Len(t, resp.Notes, 2)
}

func TestListNotesEmptyResultIsArray(t *testing.T) {
	_, h := testRouter(t, "")

	w := do(t, h, http.MethodGet, "/notes?search=meeting", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"notes":[],"totalPages":0}`, w.Body.String())
}

func TestListNotesBadParams(t *testing.T) {
	_, h := testRouter(t, "")

	for _, target := range []string{
		"/notes?page=0",
		"/notes?page=abc",
		"/notes?perPage=51",
		"/notes?perPage=0",
		"/notes?tag=Nope",
	} {
		w := do(t, h, http.MethodGet, target, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
	}
}

func TestAuthRequired(t *testing.T) {
	_, h := testRouter(t, "secret")

	w := do(t, h, http.MethodGet, "/notes", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/notes", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateNote(t *testing.T) {
	notes, h := testRouter(t, "")

	w := do(t, h, http.MethodPost, "/notes", domain.NewNote{Title: "Buy milk", Tag: domain.TagShopping})
	require.Equal(t, http.StatusCreated, w.Code)

	var created domain.Note
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, 1, created.ID)
	assert.Equal(t, 1, notes.Count())

	w = do(t, h, http.MethodPost, "/notes", domain.NewNote{Title: "x", Tag: domain.TagShopping})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "title")
}

func TestDeleteNote(t *testing.T) {
	notes, h := testRouter(t, "", seedNotes(3, domain.TagTodo)...)

	w := do(t, h, http.MethodDelete, "/notes/2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, notes.Count())

	w = do(t, h, http.MethodDelete, "/notes/2", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, http.MethodDelete, "/notes/two", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// TestClientContract runs the real API client against the dev server
func TestClientContract(t *testing.T) {
	_, h := testRouter(t, "secret", seedNotes(14, domain.TagMeeting)...)
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	ctx := context.Background()
	client := notehub.NewClient(srv.URL, "secret", adapter.NullLogger())

	page, err := client.FetchNotes(ctx, 1, 12, "")
	require.NoError(t, err)
	assert.Len(t, page.Notes, 12)
	assert.Equal(t, 2, page.TotalPages)

	_, err = client.FetchNotes(ctx, 1, 99, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")

	deleted, err := client.DeleteNote(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, deleted.ID)

	_, err = client.DeleteNote(ctx, 7)
	assert.ErrorIs(t, err, domain.ErrNoteNotFound)

	created, err := client.CreateNote(ctx, domain.NewNote{Title: "Retro", Content: "notes", Tag: domain.TagMeeting})
	require.NoError(t, err)
	assert.Equal(t, 15, created.ID)

	bad := notehub.NewClient(srv.URL, "wrong", adapter.NullLogger())
	_, err = bad.FetchNotes(ctx, 1, 12, "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLoadSeed(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "seed.yaml")
	require.NoError(t, os.WriteFile(good, []byte(`
notes:
  - title: Weekly sync
    content: Agenda
    tag: Meeting
  - title: Groceries
    tag: Shopping
`), 0644))

	notes, err := LoadSeed(good)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, domain.TagMeeting, notes[0].Tag)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("notes:\n  - title: ab\n    tag: Work\n"), 0644))
	_, err = LoadSeed(bad)
	assert.Error(t, err)

	_, err = LoadSeed(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, Config{Listen: "127.0.0.1:0"}, adapter.NullLogger())
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
