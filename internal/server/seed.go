package server

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mmcdole/notehub/internal/domain"
)

// seedFile is the YAML layout of a seed file:
//
//	notes:
//	  - title: Weekly sync
//	    content: Agenda...
//	    tag: Meeting
type seedFile struct {
	Notes []domain.Note `yaml:"notes"`
}

// LoadSeed reads and validates the notes in a YAML seed file
func LoadSeed(path string) ([]domain.Note, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file %s: %w", path, err)
	}

	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}

	for i, n := range f.Notes {
		nn := domain.NewNote{Title: n.Title, Content: n.Content, Tag: n.Tag}
		if err := nn.Validate(); err != nil {
			return nil, fmt.Errorf("seed note %d (%q): %w", i+1, n.Title, err)
		}
	}
	return f.Notes, nil
}
