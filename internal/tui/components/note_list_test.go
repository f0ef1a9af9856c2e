package components

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/notehub/internal/domain"
)

func sampleNotes(ids ...int) []domain.Note {
	notes := make([]domain.Note, len(ids))
	for i, id := range ids {
		notes[i] = domain.Note{ID: id, Title: fmt.Sprintf("Note %d", id), Content: "body", Tag: domain.TagTodo}
	}
	return notes
}

func TestNoteListKeepsServerOrder(t *testing.T) {
	l := NewNoteList()
	l.SetSize(60, 30)
	l.SetNotes(sampleNotes(3, 9, 1))

	view := l.View()
	i3 := strings.Index(view, "Note 3")
	i9 := strings.Index(view, "Note 9")
	i1 := strings.Index(view, "Note 1")
	require.True(t, i3 >= 0 && i9 >= 0 && i1 >= 0)
	assert.Less(t, i3, i9)
	assert.Less(t, i9, i1)
}

func TestNoteListCursor(t *testing.T) {
	l := NewNoteList()
	l.SetSize(60, 30)
	l.SetNotes(sampleNotes(1, 2, 3))

	l, _ = l.Update(keyRunes("j"))
	l, _ = l.Update(keyRunes("j"))
	l, _ = l.Update(keyRunes("j"))
	assert.Equal(t, 2, l.Cursor())

	l, _ = l.Update(keyRunes("g"))
	assert.Equal(t, 0, l.Cursor())

	l, _ = l.Update(keyRunes("G"))
	n, ok := l.Selected()
	require.True(t, ok)
	assert.Equal(t, 3, n.ID)
}

func TestNoteListSetNotesFollowsSelection(t *testing.T) {
	l := NewNoteList()
	l.SetSize(60, 30)
	l.SetNotes(sampleNotes(1, 2, 3))
	l, _ = l.Update(keyRunes("j"))

	l.SetNotes(sampleNotes(5, 1, 2))
	n, _ := l.Selected()
	assert.Equal(t, 2, n.ID)

	l.SetNotes(sampleNotes(7))
	n, _ = l.Selected()
	assert.Equal(t, 7, n.ID)

	l.SetNotes(nil)
	_, ok := l.Selected()
	assert.False(t, ok)
	assert.Empty(t, l.View())
}

func TestNoteListDeleteEmitsMessage(t *testing.T) {
	l := NewNoteList()
	l.SetNotes(sampleNotes(4, 7))
	l, _ = l.Update(keyRunes("j"))

	_, cmd := l.Update(keyRunes("d"))
	require.NotNil(t, cmd)
	msg, ok := cmd().(DeleteNoteMsg)
	require.True(t, ok)
	assert.Equal(t, 7, msg.Note.ID)

	// The list itself is untouched until the server confirms
	assert.Equal(t, 2, l.Len())
}

func TestNoteListYankEmitsMessage(t *testing.T) {
	l := NewNoteList()
	l.SetNotes(sampleNotes(4))

	_, cmd := l.Update(keyRunes("y"))
	require.NotNil(t, cmd)
	assert.Equal(t, YankNoteMsg{Note: sampleNotes(4)[0]}, cmd())
}

func TestNoteListIgnoresKeysWhenEmpty(t *testing.T) {
	l := NewNoteList()
	_, cmd := l.Update(keyRunes("d"))
	assert.Nil(t, cmd)
}

func TestNoteListScrollsWithCursor(t *testing.T) {
	l := NewNoteList()
	l.SetSize(60, 2*rowHeight)
	l.SetNotes(sampleNotes(1, 2, 3, 4))

	for i := 0; i < 3; i++ {
		l, _ = l.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	view := l.View()
	assert.Contains(t, view, "Note 4")
	assert.NotContains(t, view, "Note 1")
}

func TestHighlightMatchesKeepsText(t *testing.T) {
	assert.Equal(t, "Standup", ansi.Strip(highlightMatches("Standup", "sdp")))
	assert.Equal(t, "Standup", ansi.Strip(highlightMatches("Standup", "zzz")))
	assert.Equal(t, "Standup", ansi.Strip(highlightMatches("Standup", "")))
}
