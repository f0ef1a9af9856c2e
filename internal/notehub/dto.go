package notehub

import "github.com/mmcdole/notehub/internal/domain"

// notesResponse is the GET /notes payload
type notesResponse struct {
	Notes      []domain.Note `json:"notes"`
	TotalPages int           `json:"totalPages"`
}

func (r notesResponse) toDomain() domain.NotesPage {
	notes := r.Notes
	if notes == nil {
		notes = []domain.Note{}
	}
	total := r.TotalPages
	if total < 0 {
		total = 0
	}
	return domain.NotesPage{Notes: notes, TotalPages: total}
}

// errorResponse is the body of a failed request
type errorResponse struct {
	Message string `json:"message"`
}
