package components

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/mmcdole/notehub/internal/domain"
	"github.com/mmcdole/notehub/internal/tui/styles"
)

// FormField identifies a field of the note form
type FormField int

const (
	FieldTitle FormField = iota
	FieldContent
	FieldTag
	fieldCount
)

const formWidth = 50

// NoteForm is the modal form for creating a note
type NoteForm struct {
	visible    bool
	submitting bool
	focus      FormField
	title      textinput.Model
	content    textarea.Model
	tag        int
	errs       map[string]string // field validation errors keyed by json name
	submitErr  string
}

// NewNoteForm creates a hidden note form
func NewNoteForm() NoteForm {
	ti := textinput.New()
	ti.Placeholder = "Title"
	ti.CharLimit = domain.TitleMaxLength
	ti.Width = formWidth - 2
	ti.Prompt = ""
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	ta := textarea.New()
	ta.Placeholder = "Content (optional)"
	ta.CharLimit = domain.ContentMaxLength
	ta.ShowLineNumbers = false
	ta.SetWidth(formWidth)
	ta.SetHeight(5)

	return NoteForm{title: ti, content: ta}
}

// Show resets and displays the form
func (f *NoteForm) Show() tea.Cmd {
	f.visible = true
	f.submitting = false
	f.focus = FieldTitle
	f.tag = 0
	f.errs = nil
	f.submitErr = ""
	f.title.SetValue("")
	f.content.SetValue("")
	f.content.Blur()
	return f.title.Focus()
}

// Hide dismisses the form
func (f *NoteForm) Hide() {
	f.visible = false
	f.submitting = false
	f.title.Blur()
	f.content.Blur()
}

// IsVisible returns whether the form is shown
func (f NoteForm) IsVisible() bool {
	return f.visible
}

// Submitting reports whether a create request is in flight
func (f NoteForm) Submitting() bool {
	return f.submitting
}

// Focused returns the field with focus
func (f NoteForm) Focused() FormField {
	return f.focus
}

// Value returns the note described by the form
func (f NoteForm) Value() domain.NewNote {
	return domain.NewNote{
		Title:   strings.TrimSpace(f.title.Value()),
		Content: f.content.Value(),
		Tag:     domain.Tags[f.tag],
	}
}

// FieldError returns the validation error for a field, if any
func (f NoteForm) FieldError(name string) string {
	return f.errs[name]
}

// SetSubmitError reports a failed create and re-enables the form
func (f *NoteForm) SetSubmitError(err error) {
	f.submitting = false
	f.submitErr = err.Error()
}

func (f *NoteForm) setFocus(field FormField) tea.Cmd {
	f.focus = field
	f.title.Blur()
	f.content.Blur()
	switch field {
	case FieldTitle:
		return f.title.Focus()
	case FieldContent:
		return f.content.Focus()
	}
	return nil
}

func (f *NoteForm) validate() bool {
	f.errs = nil
	err := f.Value().Validate()
	if err == nil {
		return true
	}

	f.errs = make(map[string]string)
	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		for name, fe := range fieldErrs {
			f.errs[name] = fe.Error()
		}
	} else {
		f.submitErr = err.Error()
	}
	return false
}

// Update handles form events, returns (form, cmd, submitted). submitted is
// true once the form holds a valid note; the caller sends it.
func (f NoteForm) Update(msg tea.Msg) (NoteForm, tea.Cmd, bool) {
	if !f.visible {
		return f, nil, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, NoteFormKeys.Cancel):
			f.Hide()
			return f, nil, false
		case f.submitting:
			// Ignore input while the request is in flight
			return f, nil, false
		case key.Matches(keyMsg, NoteFormKeys.Submit):
			f.submitErr = ""
			if !f.validate() {
				return f, nil, false
			}
			f.submitting = true
			return f, nil, true
		case key.Matches(keyMsg, NoteFormKeys.Next):
			return f, f.setFocus((f.focus + 1) % fieldCount), false
		case key.Matches(keyMsg, NoteFormKeys.Prev):
			return f, f.setFocus((f.focus + fieldCount - 1) % fieldCount), false
		case key.Matches(keyMsg, NoteFormKeys.TagCycle):
			f.tag = (f.tag + 1) % len(domain.Tags)
			return f, nil, false
		case f.focus == FieldTag && key.Matches(keyMsg, NoteFormKeys.TagNext):
			f.tag = (f.tag + 1) % len(domain.Tags)
			return f, nil, false
		case f.focus == FieldTag && key.Matches(keyMsg, NoteFormKeys.TagPrev):
			f.tag = (f.tag + len(domain.Tags) - 1) % len(domain.Tags)
			return f, nil, false
		}
	}

	var cmd tea.Cmd
	switch f.focus {
	case FieldTitle:
		f.title, cmd = f.title.Update(msg)
	case FieldContent:
		f.content, cmd = f.content.Update(msg)
	}
	return f, cmd, false
}

// View renders the form
func (f NoteForm) View() string {
	if !f.visible {
		return ""
	}

	label := func(text string, field FormField) string {
		if f.focus == field {
			return styles.AccentStyle.Render("› " + text)
		}
		return styles.SubtitleStyle.Render("  " + text)
	}
	fieldErr := func(name string) string {
		if msg := f.errs[name]; msg != "" {
			return styles.ErrorStyle.Render("  " + msg)
		}
		return ""
	}

	var tags []string
	for i, t := range domain.Tags {
		if i == f.tag {
			tags = append(tags, styles.ActivePageStyle.Render(string(t)))
		} else {
			tags = append(tags, styles.PageStyle.Render(string(t)))
		}
	}

	counter := styles.DimStyle.Render(fmt.Sprintf("%d/%d", len([]rune(f.content.Value())), domain.ContentMaxLength))

	lines := []string{
		styles.ModalTitleStyle.Render("New note"),
		label("Title", FieldTitle),
		"  " + f.title.View(),
		fieldErr("title"),
		label("Content", FieldContent) + "  " + counter,
		f.content.View(),
		fieldErr("content"),
		label("Tag", FieldTag),
		"  " + strings.Join(tags, " "),
		fieldErr("tag"),
	}
	if f.submitErr != "" {
		lines = append(lines, styles.ErrorStyle.Render(f.submitErr))
	}

	footer := styles.HelpKeyStyle.Render("tab") + styles.HelpDescStyle.Render(" next  ") +
		styles.HelpKeyStyle.Render("C-s") + styles.HelpDescStyle.Render(" create  ") +
		styles.HelpKeyStyle.Render("esc") + styles.HelpDescStyle.Render(" cancel")
	if f.submitting {
		footer = styles.DimStyle.Render("Creating...")
	}
	lines = append(lines, "", footer)

	var kept []string
	for _, l := range lines {
		if l != "" || len(kept) > 0 && kept[len(kept)-1] != "" {
			kept = append(kept, l)
		}
	}
	return styles.ModalStyle.Width(formWidth + 6).Render(strings.Join(kept, "\n"))
}
