package notehub

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/notehub/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", "secret", nil)
}

func TestFetchNotes(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/notes", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "12", r.URL.Query().Get("perPage"))
		assert.Equal(t, "meeting", r.URL.Query().Get("search"))

		json.NewEncoder(w).Encode(map[string]any{
			"notes": []domain.Note{
				{ID: 3, Title: "Standup", Content: "daily", Tag: domain.TagMeeting},
				{ID: 1, Title: "Retro", Content: "friday", Tag: domain.TagMeeting},
			},
			"totalPages": 3,
		})
	})

	page, err := client.FetchNotes(context.Background(), 2, 12, "meeting")
	require.NoError(t, err)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Notes, 2)
	assert.Equal(t, 3, page.Notes[0].ID)
	assert.Equal(t, 1, page.Notes[1].ID)
}

func TestFetchNotesOmitsEmptySearch(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, ok := r.URL.Query()["search"]
		assert.False(t, ok, "search must be omitted when empty")
		w.Write([]byte(`{"notes":null,"totalPages":0}`))
	})

	page, err := client.FetchNotes(context.Background(), 1, 12, "")
	require.NoError(t, err)
	assert.NotNil(t, page.Notes)
	assert.True(t, page.IsEmpty())
}

func TestFetchNotesBadRequest(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"perPage must be at most 50"}`))
	})

	_, err := client.FetchNotes(context.Background(), 1, 100, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Contains(t, err.Error(), "perPage must be at most 50")
	assert.Equal(t, http.StatusBadRequest, StatusCode(err))
}

func TestUnauthorizedMapsToSentinel(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.FetchNotes(context.Background(), 1, 12, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Equal(t, "request failed with status code 401", err.Error())
}

func TestCreateNote(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var in domain.NewNote
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "Groceries", in.Title)
		assert.Equal(t, domain.TagShopping, in.Tag)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(domain.Note{ID: 42, Title: in.Title, Content: in.Content, Tag: in.Tag})
	})

	note, err := client.CreateNote(context.Background(), domain.NewNote{
		Title:   "Groceries",
		Content: "milk",
		Tag:     domain.TagShopping,
	})
	require.NoError(t, err)
	assert.Equal(t, 42, note.ID)
}

func TestDeleteNote(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/notes/7", r.URL.Path)
		json.NewEncoder(w).Encode(domain.Note{ID: 7, Title: "Old"})
	})

	note, err := client.DeleteNote(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 7, note.ID)
}

func TestDeleteNoteNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"note 7 not found"}`))
	})

	_, err := client.DeleteNote(context.Background(), 7)
	assert.ErrorIs(t, err, domain.ErrNoteNotFound)
}

func TestServerOffline(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewClient(url, "", nil)
	_, err := client.FetchNotes(context.Background(), 1, 12, "")
	assert.ErrorIs(t, err, domain.ErrServerOffline)
}
