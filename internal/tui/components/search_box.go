package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/notehub/internal/tui/styles"
)

// SearchBox is the search input. It reports every change of its value as
// typed; debouncing belongs to the caller.
type SearchBox struct {
	input     textinput.Model
	prevValue string
}

// NewSearchBox creates a new search box
func NewSearchBox() SearchBox {
	ti := textinput.New()
	ti.Placeholder = "Search notes"
	ti.CharLimit = 100
	ti.Width = 30
	ti.Prompt = "/ "
	ti.PromptStyle = styles.AccentStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return SearchBox{input: ti}
}

// Focus gives the box keyboard focus
func (s *SearchBox) Focus() tea.Cmd {
	return s.input.Focus()
}

// Blur removes keyboard focus
func (s *SearchBox) Blur() {
	s.input.Blur()
}

// Focused reports whether the box has focus
func (s SearchBox) Focused() bool {
	return s.input.Focused()
}

// Value returns the text exactly as entered
func (s SearchBox) Value() string {
	return s.input.Value()
}

// SetWidth sets the visible input width
func (s *SearchBox) SetWidth(w int) {
	if w < 10 {
		w = 10
	}
	s.input.Width = w
}

// Update handles input events, returns (box, cmd, changed)
func (s SearchBox) Update(msg tea.Msg) (SearchBox, tea.Cmd, bool) {
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	changed := s.input.Value() != s.prevValue
	s.prevValue = s.input.Value()
	return s, cmd, changed
}

// View renders the search box
func (s SearchBox) View() string {
	border := styles.InactiveBorder
	if s.input.Focused() {
		border = styles.ActiveBorder
	}
	return border.Padding(0, 1).Render(s.input.View())
}
