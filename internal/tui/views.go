package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/notehub/internal/tui/styles"
)

// Body texts
const (
	EmptyText       = "No notes found."
	FetchErrorText  = "Error fetching notes: "
	BadRequestHint  = "Check if the token is valid or try a different search query."
	badRequestToken = "400"
)

// FetchErrorLines returns the lines shown for a failed notes fetch. A message
// mentioning a 400 gets a hint about the token and the search query.
func FetchErrorLines(err error) []string {
	msg := err.Error()
	lines := []string{FetchErrorText + msg}
	if strings.Contains(msg, badRequestToken) {
		lines = append(lines, BadRequestHint)
	}
	return lines
}

// renderBody renders the main area: loader, error, list or empty text, in
// that order of priority.
func (m Model) renderBody(layout bodyLayout) string {
	r := m.Result()

	switch {
	case r.IsLoading && !r.HasData:
		return "\n  " + m.Loader.View()

	case r.IsError:
		lines := FetchErrorLines(r.Err)
		lines[0] = styles.ErrorStyle.Render(wordWrap(lines[0], m.Width-4))
		for i := 1; i < len(lines); i++ {
			lines[i] = styles.DimStyle.Render(wordWrap(lines[i], m.Width-4))
		}
		return "\n" + indent(strings.Join(lines, "\n"), 2)

	case r.HasData && !r.Data.IsEmpty():
		list := m.NoteList.View()
		if layout.previewWidth == 0 {
			return list
		}
		return lipgloss.JoinHorizontal(lipgloss.Top,
			lipgloss.NewStyle().Width(layout.listWidth).Render(list),
			m.renderDivider(layout.height),
			m.renderPreview(layout.previewWidth),
		)

	case r.HasData && !r.IsFetching:
		return "\n  " + styles.DimStyle.Render(EmptyText)
	}
	return ""
}

func (m Model) renderPreview(width int) string {
	note, ok := m.NoteList.Selected()
	if !ok {
		return ""
	}
	return m.Preview.Render(note, width)
}

func (m Model) renderDivider(height int) string {
	return styles.DimStyle.Render(strings.TrimSuffix(strings.Repeat("│\n", height), "\n"))
}

// renderPagination renders the page list, or an empty line for a single page
func (m Model) renderPagination() string {
	r := m.Result()
	if !r.HasData || r.Data.TotalPages <= 1 {
		return ""
	}
	return " " + m.Pagination.View(m.pageCount(), m.Page)
}

func (m Model) renderFooter() string {
	var left string
	switch {
	case m.StatusMsg != "" && m.StatusIsErr:
		left = styles.ErrorStyle.Render(m.StatusMsg)
	case m.StatusMsg != "":
		left = styles.SuccessStyle.Render(m.StatusMsg)
	case m.Result().IsFetching:
		left = styles.DimStyle.Render("Refreshing...")
	case m.NoteForm.Submitting():
		left = styles.DimStyle.Render("Creating note...")
	}
	left = " " + left

	right := styles.AccentStyle.Render("?") + styles.DimStyle.Render(" help ")

	gap := m.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return left + strings.Repeat(" ", gap) + right
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	help := `
NOTES                           SEARCH & PAGES
  j/k        Up/down               /        Search
  g/Home     First note            esc/tab  Back to list
  G/End      Last note             [ / ]    Previous/next page
  d/x        Delete note           1-9      Go to page
  y          Copy content          r        Refresh
  i          Toggle preview

NEW NOTE                        OTHER
  n          Open form             q        Quit
  tab        Next field            ?        This help
  C-t        Cycle tag             esc      Close
  C-s        Create

Press ? or esc to return...
`

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(help))
}

// wordWrap wraps text to the specified width
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var result strings.Builder
	lineLen := 0

	for i, word := range strings.Fields(text) {
		wordLen := lipgloss.Width(word)

		if lineLen+wordLen+1 > width && lineLen > 0 {
			result.WriteString("\n")
			lineLen = 0
		}

		if i > 0 && lineLen > 0 {
			result.WriteString(" ")
			lineLen++
		}

		result.WriteString(word)
		lineLen += wordLen
	}

	return result.String()
}

func indent(s string, n int) string {
	pad := strings.Repeat(" ", n)
	return pad + strings.ReplaceAll(s, "\n", "\n"+pad)
}
