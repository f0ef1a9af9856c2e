package components

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestSearchBoxReportsEveryChange(t *testing.T) {
	s := NewSearchBox()
	s.Focus()

	var changes []string
	for _, r := range "a b" {
		var changed bool
		s, _, changed = s.Update(keyRunes(string(r)))
		if changed {
			changes = append(changes, s.Value())
		}
	}
	assert.Equal(t, []string{"a", "a ", "a b"}, changes, "values are passed on untrimmed")

	s, _, changed := s.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	assert.True(t, changed)
	assert.Equal(t, "a ", s.Value())

	_, _, changed = s.Update(tea.KeyMsg{Type: tea.KeyLeft})
	assert.False(t, changed, "cursor movement is not a change")
}

func TestSearchBoxIgnoresInputWhenBlurred(t *testing.T) {
	s := NewSearchBox()
	s, _, changed := s.Update(keyRunes("a"))
	assert.False(t, changed)
	assert.Empty(t, s.Value())
	assert.False(t, s.Focused())
}
