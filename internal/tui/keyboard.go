package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/notehub/internal/service"
)

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The form captures every key while open
	if m.NoteForm.IsVisible() {
		return m.handleFormKey(msg)
	}

	if m.State == StateHelp {
		if key.Matches(msg, Keys.Escape, Keys.Help, Keys.Quit) {
			m.State = StateBrowsing
		}
		return m, nil
	}

	if m.Focus == FocusSearch {
		return m.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.State = StateHelp
		return m, nil

	case key.Matches(msg, Keys.Search):
		m.Focus = FocusSearch
		return m, m.SearchBox.Focus()

	case key.Matches(msg, Keys.NewNote):
		return m, m.NoteForm.Show()

	case key.Matches(msg, Keys.TogglePreview):
		m.ShowPreview = !m.ShowPreview
		m.updateLayout()
		return m, nil

	case key.Matches(msg, Keys.Refresh):
		m.NoteSvc.Cache().Invalidate(service.NotesFamily...)
		return m, m.ensureActive()
	}

	if page, ok := m.Pagination.Update(msg, m.pageCount(), m.Page); ok {
		return m, m.setPage(page)
	}

	var cmd tea.Cmd
	m.NoteList, cmd = m.NoteList.Update(msg)
	return m, cmd
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.ForceQuit):
		return m, tea.Quit
	case key.Matches(msg, Keys.LeaveSearch):
		m.Focus = FocusList
		m.SearchBox.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	var changed bool
	m.SearchBox, cmd, changed = m.SearchBox.Update(msg)
	if !changed {
		return m, cmd
	}
	return m, tea.Batch(cmd, m.setSearch(m.SearchBox.Value()))
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, Keys.ForceQuit) {
		return m, tea.Quit
	}

	var cmd tea.Cmd
	var submitted bool
	m.NoteForm, cmd, submitted = m.NoteForm.Update(msg)
	if !submitted {
		return m, cmd
	}
	return m, tea.Batch(cmd, CreateNoteCmd(m.NoteSvc, m.NoteForm.Value()))
}
