package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/mmcdole/notehub/internal/domain"
	"github.com/mmcdole/notehub/internal/tui/styles"
)

// DeleteNoteMsg asks the app to delete a note
type DeleteNoteMsg struct {
	Note domain.Note
}

// YankNoteMsg asks the app to copy a note's content
type YankNoteMsg struct {
	Note domain.Note
}

// rowHeight is the number of lines one note takes
const rowHeight = 3

// NoteList renders notes in the order given, with a cursor
type NoteList struct {
	notes  []domain.Note
	cursor int
	offset int
	width  int
	height int
	query  string // highlighted in titles
}

// NewNoteList creates an empty note list
func NewNoteList() NoteList {
	return NoteList{}
}

// SetNotes replaces the displayed notes. The cursor stays on the same note
// when it is still present.
func (l *NoteList) SetNotes(notes []domain.Note) {
	selectedID := 0
	if n, ok := l.Selected(); ok {
		selectedID = n.ID
	}

	l.notes = notes
	l.cursor = 0
	for i, n := range notes {
		if n.ID == selectedID {
			l.cursor = i
			break
		}
	}
	l.clampOffset()
}

// SetHighlight sets the search text whose matches are highlighted in titles
func (l *NoteList) SetHighlight(query string) {
	l.query = strings.TrimSpace(query)
}

// SetSize sets the render area
func (l *NoteList) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.clampOffset()
}

// Len returns the number of notes shown
func (l NoteList) Len() int {
	return len(l.notes)
}

// Selected returns the note under the cursor
func (l NoteList) Selected() (domain.Note, bool) {
	if l.cursor < 0 || l.cursor >= len(l.notes) {
		return domain.Note{}, false
	}
	return l.notes[l.cursor], true
}

// Cursor returns the cursor index
func (l NoteList) Cursor() int {
	return l.cursor
}

func (l NoteList) visibleRows() int {
	rows := l.height / rowHeight
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (l *NoteList) clampOffset() {
	if l.cursor >= len(l.notes) {
		l.cursor = len(l.notes) - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
	rows := l.visibleRows()
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+rows {
		l.offset = l.cursor - rows + 1
	}
	if l.offset < 0 {
		l.offset = 0
	}
}

// Update handles list keys. Delete and yank are reported as messages.
func (l NoteList) Update(msg tea.Msg) (NoteList, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || len(l.notes) == 0 {
		return l, nil
	}

	switch {
	case key.Matches(keyMsg, NoteListKeys.Up):
		if l.cursor > 0 {
			l.cursor--
		}
	case key.Matches(keyMsg, NoteListKeys.Down):
		if l.cursor < len(l.notes)-1 {
			l.cursor++
		}
	case key.Matches(keyMsg, NoteListKeys.Home):
		l.cursor = 0
	case key.Matches(keyMsg, NoteListKeys.End):
		l.cursor = len(l.notes) - 1
	case key.Matches(keyMsg, NoteListKeys.Delete):
		note := l.notes[l.cursor]
		return l, func() tea.Msg { return DeleteNoteMsg{Note: note} }
	case key.Matches(keyMsg, NoteListKeys.Yank):
		note := l.notes[l.cursor]
		return l, func() tea.Msg { return YankNoteMsg{Note: note} }
	}
	l.clampOffset()
	return l, nil
}

// View renders the visible notes
func (l NoteList) View() string {
	if len(l.notes) == 0 {
		return ""
	}

	width := l.width
	if width <= 0 {
		width = 60
	}

	end := l.offset + l.visibleRows()
	if end > len(l.notes) {
		end = len(l.notes)
	}

	var rows []string
	for i := l.offset; i < end; i++ {
		rows = append(rows, l.renderNote(l.notes[i], i == l.cursor, width))
	}
	return strings.Join(rows, "\n")
}

func (l NoteList) renderNote(n domain.Note, selected bool, width int) string {
	inner := width - 2 // item padding

	badge := styles.TagBadge(n.Tag)
	titleWidth := inner - len([]rune(string(n.Tag))) - 2
	title := highlightMatches(styles.Truncate(n.Title, titleWidth), l.query)

	gap := inner - lipgloss.Width(title) - lipgloss.Width(badge)
	if gap < 1 {
		gap = 1
	}
	header := title + strings.Repeat(" ", gap) + badge
	body := styles.DimStyle.Render(styles.Truncate(styles.FirstLine(n.Content), inner))

	style := styles.NormalItemStyle
	marker := " "
	if selected {
		style = styles.SelectedItemStyle
		marker = styles.AccentStyle.Render("▌")
	}
	return marker + style.Width(width-1).Render(header+"\n"+body) + "\n"
}

// highlightMatches styles the characters of title that fuzzy-match query
func highlightMatches(title, query string) string {
	if query == "" || title == "" {
		return styles.TitleStyle.Render(title)
	}

	matches := fuzzy.Find(query, []string{title})
	if len(matches) == 0 {
		return styles.TitleStyle.Render(title)
	}

	matched := make(map[int]bool, len(matches[0].MatchedIndexes))
	for _, idx := range matches[0].MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder
	for i, r := range title {
		if matched[i] {
			b.WriteString(styles.MatchStyle.Render(string(r)))
		} else {
			b.WriteString(styles.TitleStyle.Render(string(r)))
		}
	}
	return b.String()
}
