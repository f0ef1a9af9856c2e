package domain

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Tag categorizes a note
type Tag string

const (
	TagTodo     Tag = "Todo"
	TagWork     Tag = "Work"
	TagPersonal Tag = "Personal"
	TagMeeting  Tag = "Meeting"
	TagShopping Tag = "Shopping"
)

// Tags lists every tag in display order
var Tags = []Tag{TagTodo, TagWork, TagPersonal, TagMeeting, TagShopping}

// Limits enforced on note fields by both the form and the API
const (
	TitleMinLength   = 3
	TitleMaxLength   = 50
	ContentMaxLength = 500
)

// Note is a server-assigned note. Clients never mutate one in place.
type Note struct {
	ID        int       `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Content   string    `json:"content" yaml:"content"`
	Tag       Tag       `json:"tag" yaml:"tag"`
	CreatedAt time.Time `json:"createdAt,omitzero" yaml:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitzero" yaml:"updated_at,omitempty"`
}

// NewNote is the payload for creating a note
type NewNote struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Tag     Tag    `json:"tag"`
}

// Validate checks the field limits of a new note
func (n NewNote) Validate() error {
	return validation.ValidateStruct(&n,
		validation.Field(&n.Title, validation.Required, validation.RuneLength(TitleMinLength, TitleMaxLength)),
		validation.Field(&n.Content, validation.RuneLength(0, ContentMaxLength)),
		validation.Field(&n.Tag, validation.Required, validation.In(tagValues()...)),
	)
}

func tagValues() []interface{} {
	values := make([]interface{}, len(Tags))
	for i, t := range Tags {
		values[i] = t
	}
	return values
}

// NotesPage is one page of a notes listing as returned by the API.
type NotesPage struct {
	Notes      []Note `json:"notes"`
	TotalPages int    `json:"totalPages"`
}

// IsEmpty reports whether the page holds no notes
func (p NotesPage) IsEmpty() bool {
	return len(p.Notes) == 0
}
