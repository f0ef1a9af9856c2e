package components

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/notehub/internal/tui/styles"
)

// Loader is the loading indicator shown before any notes are available
type Loader struct {
	spinner spinner.Model
	label   string
}

// NewLoader creates a loader with the given label
func NewLoader(label string) Loader {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(styles.AccentStyle),
	)
	return Loader{spinner: s, label: label}
}

// Tick starts the spinner animation
func (l Loader) Tick() tea.Msg {
	return l.spinner.Tick()
}

// Update advances the animation
func (l Loader) Update(msg tea.Msg) (Loader, tea.Cmd) {
	var cmd tea.Cmd
	l.spinner, cmd = l.spinner.Update(msg)
	return l, cmd
}

// View renders the spinner and label
func (l Loader) View() string {
	return l.spinner.View() + " " + styles.DimStyle.Render(l.label)
}
