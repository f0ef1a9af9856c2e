package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/mmcdole/notehub/internal/domain"
	"github.com/mmcdole/notehub/internal/tui/styles"
)

// Preview renders the selected note's content as markdown
type Preview struct {
	theme string

	// last render, reused while the note and width are unchanged
	noteID  int
	updated string
	width   int
	out     string
}

// NewPreview creates a preview pane using the "dark" or "light" glamour style
func NewPreview(theme string) *Preview {
	if theme != "light" {
		theme = "dark"
	}
	return &Preview{theme: theme}
}

// Render returns the preview for n at the given width
func (p *Preview) Render(n domain.Note, width int) string {
	if width < 10 {
		width = 10
	}
	stamp := n.UpdatedAt.String()
	if p.out != "" && p.noteID == n.ID && p.width == width && p.updated == stamp {
		return p.out
	}

	header := styles.TitleStyle.Render(styles.Truncate(n.Title, width)) + "\n" +
		styles.TagBadge(n.Tag)
	if !n.CreatedAt.IsZero() {
		header += styles.DimStyle.Render("  " + n.CreatedAt.Local().Format("2006-01-02 15:04"))
	}

	body := p.renderMarkdown(n.Content, width)
	p.noteID, p.width, p.updated = n.ID, width, stamp
	p.out = header + "\n" + body
	return p.out
}

func (p *Preview) renderMarkdown(content string, width int) string {
	if strings.TrimSpace(content) == "" {
		return styles.DimStyle.Render("\n(no content)")
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(p.theme),
		glamour.WithWordWrap(width-2),
	)
	if err != nil {
		return fmt.Sprintf("\n%s", content)
	}
	out, err := r.Render(content)
	if err != nil {
		return fmt.Sprintf("\n%s", content)
	}
	return strings.TrimRight(out, "\n")
}
