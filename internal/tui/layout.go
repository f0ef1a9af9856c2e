package tui

// Layout proportions
const (
	// List | Preview split when the preview is visible
	ListColumnPercent    = 55
	PreviewColumnPercent = 45

	MinColumnWidth   = 30
	MinPreviewWindow = 80 // narrower terminals hide the preview

	// Vertical chrome: header (search box, 3 lines) + pagination + footer
	HeaderHeight     = 3
	PaginationHeight = 1
	FooterHeight     = 1
)

// bodyLayout holds calculated widths for the View
type bodyLayout struct {
	listWidth    int
	previewWidth int // 0 if not shown
	height       int
}

// calculateLayout computes the body split for the current window
func (m Model) calculateLayout() bodyLayout {
	layout := bodyLayout{
		listWidth: m.Width,
		height:    max(m.Height-HeaderHeight-PaginationHeight-FooterHeight, 3),
	}

	if m.ShowPreview && m.Width >= MinPreviewWindow {
		layout.listWidth = max(m.Width*ListColumnPercent/100, MinColumnWidth)
		layout.previewWidth = m.Width - layout.listWidth - 1 // divider
	}
	return layout
}

// updateLayout updates component sizes based on window size
func (m *Model) updateLayout() {
	if m.Width == 0 || m.Height == 0 {
		return
	}

	layout := m.calculateLayout()
	m.NoteList.SetSize(layout.listWidth, layout.height)
	m.SearchBox.SetWidth(min(m.Width/2, 50))
}
