package tui

import (
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/notehub/internal/domain"
	"github.com/mmcdole/notehub/internal/query"
	"github.com/mmcdole/notehub/internal/service"
	"github.com/mmcdole/notehub/internal/tui/components"
	"github.com/mmcdole/notehub/internal/tui/styles"
)

// ApplicationState represents the current state of the application
type ApplicationState int

const (
	StateBrowsing ApplicationState = iota
	StateHelp
)

// Focus is the part of the screen receiving keys
type Focus int

const (
	FocusList Focus = iota
	FocusSearch
)

// MaxPages caps the number of pages offered by the pagination control
const MaxPages = 4

// statusTimeout is how long a status message stays in the footer
const statusTimeout = 3 * time.Second

// Options configures the model
type Options struct {
	Debounce    time.Duration
	GCInterval  time.Duration
	GCTime      time.Duration
	Theme       string
	ShowPreview bool
	Logger      *slog.Logger
}

// Model is the main Bubble Tea model for the application
type Model struct {
	// Application state
	State ApplicationState
	Focus Focus
	Ready bool

	// Services
	NoteSvc  *service.NoteService
	observer *query.Observer[domain.NotesPage]
	events   chan query.Event
	logger   *slog.Logger
	opts     Options

	// Query state: Query follows the input immediately, DebouncedQuery lags
	// behind it by the debounce delay and is what gets fetched.
	Query           string
	DebouncedQuery  string
	Page            int
	debounceVersion int

	// UI Components
	SearchBox  components.SearchBox
	Pagination components.Pagination
	NoteList   components.NoteList
	NoteForm   components.NoteForm
	Loader     components.Loader
	Preview    *components.Preview

	// Dimensions
	Width  int
	Height int

	// UI state
	ShowPreview bool
	StatusMsg   string
	StatusIsErr bool
}

// NewModel creates a new application model
func NewModel(svc *service.NoteService, opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	events := make(chan query.Event, 16)
	svc.Cache().Subscribe(NewChannelObserver(events))

	return Model{
		State:       StateBrowsing,
		Focus:       FocusList,
		NoteSvc:     svc,
		observer:    svc.Cache().Observe(service.NotesPageKey("", 1)),
		events:      events,
		logger:      opts.Logger,
		opts:        opts,
		Page:        1,
		SearchBox:   components.NewSearchBox(),
		Pagination:  components.NewPagination(),
		NoteList:    components.NewNoteList(),
		NoteForm:    components.NewNoteForm(),
		Loader:      components.NewLoader("Loading notes..."),
		Preview:     components.NewPreview(opts.Theme),
		ShowPreview: opts.ShowPreview,
	}
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.ensureActive(),
		ListenInvalidationsCmd(m.events),
		m.Loader.Tick,
		GCTickCmd(m.opts.GCInterval),
	)
}

// ActiveKey returns the cache key currently driving the view
func (m Model) ActiveKey() query.Key {
	return service.NotesPageKey(m.DebouncedQuery, m.Page)
}

// Result returns the render state of the active key
func (m Model) Result() query.Result[domain.NotesPage] {
	return m.observer.Result()
}

// ensureActive points the observer at the active key and starts a fetch
// unless fresh data is already cached.
func (m *Model) ensureActive() tea.Cmd {
	m.observer.SetKey(m.ActiveKey())
	m.syncList()

	ticket, ok := m.observer.Begin()
	if !ok {
		return nil
	}
	m.logger.Debug("fetching notes", "search", m.DebouncedQuery, "page", m.Page)
	return FetchNotesCmd(m.NoteSvc.Cache(), ticket)
}

// syncList copies the active result into the note list
func (m *Model) syncList() {
	r := m.observer.Result()
	if r.HasData {
		m.NoteList.SetNotes(r.Data.Notes)
	} else {
		m.NoteList.SetNotes(nil)
	}
	m.NoteList.SetHighlight(m.DebouncedQuery)
}

// setSearch records a new search input value. The page goes back to 1 right
// away; the fetch waits for the debounce.
func (m *Model) setSearch(value string) tea.Cmd {
	m.Query = value
	m.debounceVersion++

	cmds := []tea.Cmd{DebounceSearchCmd(m.opts.Debounce, m.debounceVersion, value)}
	if m.Page != 1 {
		m.Page = 1
		cmds = append(cmds, m.ensureActive())
	}
	return tea.Batch(cmds...)
}

// setPage moves to page p without touching the search
func (m *Model) setPage(p int) tea.Cmd {
	if p < 1 || p == m.Page {
		return nil
	}
	m.Page = p
	return m.ensureActive()
}

// pageCount is the number of pages offered by the pagination control
func (m Model) pageCount() int {
	r := m.observer.Result()
	if !r.HasData {
		return 0
	}
	return min(r.Data.TotalPages, MaxPages)
}

func (m *Model) setStatus(msg string, isErr bool) tea.Cmd {
	m.StatusMsg = msg
	m.StatusIsErr = isErr
	return ClearStatusCmd(statusTimeout)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case SearchDebouncedMsg:
		if msg.Version != m.debounceVersion {
			return m, nil
		}
		m.DebouncedQuery = msg.Query
		return m, m.ensureActive()

	case NotesFetchedMsg:
		if msg.Outcome.Key == m.observer.Key() {
			m.syncList()
		}
		return m, nil

	case CacheInvalidatedMsg:
		cmds := []tea.Cmd{ListenInvalidationsCmd(m.events)}
		active := m.observer.Key()
		if msg.Event.Contains(active) || active.HasPrefix(msg.Event.Prefix...) {
			cmds = append(cmds, m.ensureActive())
		}
		return m, tea.Batch(cmds...)

	case components.DeleteNoteMsg:
		return m, DeleteNoteCmd(m.NoteSvc, msg.Note)

	case NoteDeletedMsg:
		if msg.Err != nil {
			// Logged by the service; the list stays as it is
			return m, nil
		}
		return m, tea.Batch(
			m.setStatus("Deleted \""+msg.Note.Title+"\"", false),
			m.ensureActive(),
		)

	case NoteCreatedMsg:
		if msg.Err != nil {
			m.NoteForm.SetSubmitError(msg.Err)
			return m, nil
		}
		m.NoteForm.Hide()
		return m, tea.Batch(
			m.setStatus("Created \""+msg.Note.Title+"\"", false),
			m.ensureActive(),
		)

	case components.YankNoteMsg:
		return m, YankCmd(msg.Note.Content, "\""+msg.Note.Title+"\"")

	case GCTickMsg:
		m.NoteSvc.PruneCache(m.opts.GCTime, m.observer.Key())
		return m, GCTickCmd(m.opts.GCInterval)

	case StatusMsg:
		return m, m.setStatus(msg.Message, msg.IsError)

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil

	case ErrMsg:
		m.logger.Error("error", "context", msg.Context, "error", msg.Err)
		return m, m.setStatus(msg.Error(), true)
	}

	// Spinner ticks and cursor blinks
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.Loader, cmd = m.Loader.Update(msg)
	cmds = append(cmds, cmd)
	if m.NoteForm.IsVisible() {
		m.NoteForm, cmd, _ = m.NoteForm.Update(msg)
		cmds = append(cmds, cmd)
	} else if m.Focus == FocusSearch {
		m.SearchBox, cmd, _ = m.SearchBox.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	if m.State == StateHelp {
		return m.renderHelp()
	}

	layout := m.calculateLayout()

	header := m.renderHeader()
	body := lipgloss.NewStyle().Height(layout.height).MaxHeight(layout.height).
		Render(m.renderBody(layout))
	pager := m.renderPagination()
	footer := m.renderFooter()

	view := lipgloss.JoinVertical(lipgloss.Left, header, body, pager, footer)

	// Overlay note form if visible
	if m.NoteForm.IsVisible() {
		view = lipgloss.Place(m.Width, m.Height,
			lipgloss.Center, lipgloss.Center,
			m.NoteForm.View())
	}

	return view
}

func (m Model) renderHeader() string {
	title := styles.TitleStyle.Render("NoteHub")
	hint := styles.AccentStyle.Render("n") + styles.DimStyle.Render(" new note")
	left := lipgloss.JoinHorizontal(lipgloss.Center, " ", title, "  ", m.SearchBox.View())

	gap := m.Width - lipgloss.Width(left) - lipgloss.Width(hint) - 1
	if gap < 1 {
		return left
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, left, strings.Repeat(" ", gap), hint)
}
