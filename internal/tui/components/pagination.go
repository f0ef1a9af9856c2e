package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/paginator"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/notehub/internal/tui/styles"
)

// Window shape of the page list
const (
	PageRangeDisplayed   = 5
	MarginPagesDisplayed = 1
	BreakLabel           = "…"
	PreviousLabel        = "←"
	NextLabel            = "→"
)

// PageItem is one slot in the rendered page list: a page number or a break
type PageItem struct {
	Page  int // 1-based; 0 for a break
	Break bool
}

// PageWindow lays out which page numbers to show for pageCount pages with
// selected (0-based) current. Margin pages at both ends are always shown,
// pageRange pages around the selection, and a single break stands in for
// every gap.
func PageWindow(pageCount, selected, pageRange, margin int) []PageItem {
	var items []PageItem
	if pageCount <= 0 {
		return items
	}

	if pageCount <= pageRange {
		for i := 0; i < pageCount; i++ {
			items = append(items, PageItem{Page: i + 1})
		}
		return items
	}

	leftSide := float64(pageRange) / 2
	rightSide := float64(pageRange) - leftSide

	if float64(selected) > float64(pageCount)-float64(pageRange)/2 {
		rightSide = float64(pageCount - selected)
		leftSide = float64(pageRange) - rightSide
	} else if float64(selected) < float64(pageRange)/2 {
		leftSide = float64(selected)
		rightSide = float64(pageRange) - leftSide
	}

	adjustedRight := rightSide
	if selected == 0 && pageRange > 1 {
		adjustedRight = rightSide - 1
	}

	for i := 0; i < pageCount; i++ {
		page := i + 1
		switch {
		case page <= margin,
			page > pageCount-margin,
			float64(i) >= float64(selected)-leftSide && float64(i) <= float64(selected)+adjustedRight:
			items = append(items, PageItem{Page: page})
		case len(items) > 0 && !items[len(items)-1].Break && (pageRange > 0 || margin > 0):
			items = append(items, PageItem{Break: true})
		}
	}
	return items
}

// Pagination renders page navigation for a caller-owned current page. It keeps
// no page of its own: every call takes the page count and current page and
// reports the page the user asked for.
type Pagination struct {
	model paginator.Model
}

// NewPagination creates a pagination control
func NewPagination() Pagination {
	p := paginator.New()
	p.Type = paginator.Arabic
	p.PerPage = 1
	p.KeyMap = paginator.KeyMap{
		PrevPage: PaginationKeys.Prev,
		NextPage: PaginationKeys.Next,
	}
	return Pagination{model: p}
}

// Update handles navigation keys and returns the selected 1-based page.
// ok is false when msg did not select a different page.
func (p Pagination) Update(msg tea.Msg, pageCount, currentPage int) (page int, ok bool) {
	if pageCount <= 1 {
		return currentPage, false
	}
	keyMsg, isKey := msg.(tea.KeyMsg)
	if !isKey {
		return currentPage, false
	}

	if key.Matches(keyMsg, PaginationKeys.Jump) {
		n, err := strconv.Atoi(keyMsg.String())
		if err != nil || n < 1 || n > pageCount || n == currentPage {
			return currentPage, false
		}
		return n, true
	}

	if !key.Matches(keyMsg, PaginationKeys.Prev, PaginationKeys.Next) {
		return currentPage, false
	}

	// Drive the bubbles paginator from the caller's state
	m := p.model
	m.TotalPages = pageCount
	m.Page = max(currentPage, 1) - 1
	m, _ = m.Update(keyMsg)

	selected := clampPage(m.Page+1, pageCount)
	if selected == currentPage {
		return currentPage, false
	}
	return selected, true
}

func clampPage(page, pageCount int) int {
	if page < 1 {
		return 1
	}
	if page > pageCount {
		return pageCount
	}
	return page
}

// View renders the page list. Nothing is rendered for a single page.
func (p Pagination) View(pageCount, currentPage int) string {
	if pageCount <= 1 {
		return ""
	}

	selected := currentPage - 1
	var b strings.Builder

	if currentPage <= 1 {
		b.WriteString(styles.DisabledPageStyle.Render(PreviousLabel))
	} else {
		b.WriteString(styles.PageStyle.Render(PreviousLabel))
	}

	for _, item := range PageWindow(pageCount, selected, PageRangeDisplayed, MarginPagesDisplayed) {
		switch {
		case item.Break:
			b.WriteString(styles.DimStyle.Render(" " + BreakLabel + " "))
		case item.Page == currentPage:
			b.WriteString(styles.ActivePageStyle.Render(strconv.Itoa(item.Page)))
		default:
			b.WriteString(styles.PageStyle.Render(strconv.Itoa(item.Page)))
		}
	}

	if currentPage >= pageCount {
		b.WriteString(styles.DisabledPageStyle.Render(NextLabel))
	} else {
		b.WriteString(styles.PageStyle.Render(NextLabel))
	}
	return b.String()
}
