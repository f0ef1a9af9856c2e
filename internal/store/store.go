package store

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"
	bolt "go.etcd.io/bbolt"

	"github.com/mmcdole/notehub/internal/domain"
)

var bucketNotes = []byte("notes")

// NoteStore keeps notes for the development API server in BoltDB, with an
// in-memory copy for reads.
type NoteStore struct {
	db *bolt.DB
	mu sync.RWMutex

	notes  map[int]domain.Note
	nextID int // memory-only mode
	now    func() time.Time
}

// NewNoteStore opens the database at dbPath. An empty path keeps everything in memory.
func NewNoteStore(dbPath string) (*NoteStore, error) {
	s := &NoteStore{notes: make(map[int]domain.Note), now: time.Now}
	if dbPath == "" {
		// Memory-only mode (no persistence)
		return s, nil
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketNotes)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	s.db = db

	if err := s.load(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *NoteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// load warms the memory copy from disk
func (s *NoteStore) load() error {
	return s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketNotes).ForEach(func(k, v []byte) error {
			var n domain.Note
			if err := json.Unmarshal(v, &n); err != nil {
				return fmt.Errorf("corrupt note %d: %w", btoi(k), err)
			}
			s.notes[n.ID] = n
			return nil
		})
	})
}

func itob(id int) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(id))
	return b
}

func btoi(b []byte) int {
	return int(binary.BigEndian.Uint64(b))
}

// === Writes ===

// Create assigns an ID and timestamps to note and stores it
func (s *NoteStore) Create(note domain.NewNote) (domain.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	n := domain.Note{
		Title:     note.Title,
		Content:   note.Content,
		Tag:       note.Tag,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.insert(&n); err != nil {
		return domain.Note{}, err
	}
	return n, nil
}

// insert stores n, assigning the next ID when n.ID is zero. Caller holds mu.
func (s *NoteStore) insert(n *domain.Note) error {
	if s.db == nil {
		if n.ID == 0 {
			s.nextID++
			n.ID = s.nextID
		} else if n.ID > s.nextID {
			s.nextID = n.ID
		}
		s.notes[n.ID] = *n
		return nil
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketNotes)
		if n.ID == 0 {
			seq, err := b.NextSequence()
			if err != nil {
				return err
			}
			n.ID = int(seq)
		} else if uint64(n.ID) > b.Sequence() {
			if err := b.SetSequence(uint64(n.ID)); err != nil {
				return err
			}
		}
		data, err := json.Marshal(n)
		if err != nil {
			return err
		}
		return b.Put(itob(n.ID), data)
	})
	if err != nil {
		return fmt.Errorf("failed to store note: %w", err)
	}
	s.notes[n.ID] = *n
	return nil
}

// Delete removes the note with id and returns it
func (s *NoteStore) Delete(id int) (domain.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notes[id]
	if !ok {
		return domain.Note{}, domain.ErrNoteNotFound
	}

	if s.db != nil {
		err := s.db.Update(func(tx *bolt.Tx) error {
			return tx.Bucket(bucketNotes).Delete(itob(id))
		})
		if err != nil {
			return domain.Note{}, fmt.Errorf("failed to delete note: %w", err)
		}
	}
	delete(s.notes, id)
	return n, nil
}

// Seed loads notes into an empty store and reports how many were added.
// A store that already holds notes is left alone.
func (s *NoteStore) Seed(notes []domain.Note) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.notes) > 0 {
		return 0, nil
	}

	now := s.now().UTC()
	for i := range notes {
		n := notes[i]
		if n.CreatedAt.IsZero() {
			// Older seeds first so newest-first order follows the file
			n.CreatedAt = now.Add(time.Duration(i-len(notes)) * time.Second)
		}
		if n.UpdatedAt.IsZero() {
			n.UpdatedAt = n.CreatedAt
		}
		if err := s.insert(&n); err != nil {
			return i, err
		}
	}
	return len(notes), nil
}

// === Reads ===

// Get returns the note with id
func (s *NoteStore) Get(id int) (domain.Note, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.notes[id]
	return n, ok
}

// Count returns the number of stored notes
func (s *NoteStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.notes)
}

// Filter selects one page of notes
type Filter struct {
	Search  string
	Tag     domain.Tag
	Page    int // 1-based
	PerPage int
}

// Find returns the requested page of notes matching f, newest first, and the
// total number of pages.
func (s *NoteStore) Find(f Filter) ([]domain.Note, int) {
	s.mu.RLock()
	matched := make([]domain.Note, 0, len(s.notes))
	for _, n := range s.notes {
		if f.Tag != "" && n.Tag != f.Tag {
			continue
		}
		if !matches(n, f.Search) {
			continue
		}
		matched = append(matched, n)
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	if f.PerPage <= 0 {
		return matched, 1
	}
	totalPages := (len(matched) + f.PerPage - 1) / f.PerPage

	start := (f.Page - 1) * f.PerPage
	if start < 0 || start >= len(matched) {
		return []domain.Note{}, totalPages
	}
	end := start + f.PerPage
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], totalPages
}

// matches reports whether search appears fuzzily in the title or verbatim
// (case-insensitive) in the content. An empty search matches everything.
func matches(n domain.Note, search string) bool {
	search = strings.TrimSpace(search)
	if search == "" {
		return true
	}
	if fuzzy.MatchNormalizedFold(search, n.Title) {
		return true
	}
	return strings.Contains(strings.ToLower(n.Content), strings.ToLower(search))
}
