package ui

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/shelf/internal/debounce"
	"github.com/five82/shelf/internal/listing"
	"github.com/five82/shelf/internal/pages"
	"github.com/five82/shelf/internal/prefs"
	"github.com/five82/shelf/internal/reveal"
	"github.com/five82/shelf/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewList View = iota
	ViewDetail
	ViewDiagnostics
)

const (
	searchDebounce = 300 * time.Millisecond
	logTailLines   = 500
)

// Options configures the UI.
type Options struct {
	Context     context.Context
	Coordinator *state.Coordinator
	Pages       pages.Source
	DarkMode    *prefs.DarkMode
	Appearance  *Appearance
	LogPath     string
	Logger      *slog.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx        context.Context
	coord      *state.Coordinator
	pages      pages.Source
	darkMode   *prefs.DarkMode
	appearance *Appearance
	logPath    string
	logger     *slog.Logger
	keys       keyMap
	bus        *bus

	width       int
	height      int
	ready       bool
	currentView View
	showHelp    bool

	data  state.View
	query listing.Query

	selected  int
	scrollTop int
	revealed  map[int]bool
	observer  *reveal.Observer[int]

	searching bool
	search    textinput.Model
	debouncer *debounce.Debouncer[string]

	detail         detailState
	detailViewport viewport.Model

	diag         diagnosticsState
	diagViewport viewport.Model
}

// bus forwards messages from background goroutines into the running program.
type bus struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

func (b *bus) attach(send func(tea.Msg)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.send = send
}

func (b *bus) Send(msg tea.Msg) {
	b.mu.Lock()
	send := b.send
	b.mu.Unlock()
	if send != nil {
		send(msg)
	}
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	appearance := opts.Appearance
	if appearance == nil {
		appearance = NewAppearance()
	}
	darkMode := opts.DarkMode
	if darkMode == nil {
		darkMode = prefs.NewDarkMode(nil, appearance.Apply, logger)
	}

	b := &bus{}
	revealed := map[int]bool{}
	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search titles"
	search.CharLimit = 64
	search.Cursor.SetMode(cursor.CursorStatic)

	m := Model{
		ctx:        ctx,
		coord:      opts.Coordinator,
		pages:      opts.Pages,
		darkMode:   darkMode,
		appearance: appearance,
		logPath:    opts.LogPath,
		logger:     logger,
		keys:       DefaultKeyMap(),
		bus:        b,
		revealed:   revealed,
		observer: reveal.New(func(id int, visible bool) {
			if visible {
				revealed[id] = true
			}
		}, reveal.Options{RootMargin: 1}),
		search:    search,
		debouncer: debounce.New(searchDebounce, func(term string) { b.Send(searchMsg(term)) }),
		query:     listing.Query{Sort: listing.SortName},
	}
	if m.coord != nil {
		m.data = m.coord.Snapshot()
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.coord == nil {
		return nil
	}
	return initializeCmd(m.ctx, m.coord)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.detailViewport = viewport.New(m.contentWidth(), m.bodyRows())
			m.diagViewport = viewport.New(m.contentWidth(), m.bodyRows())
		} else {
			m.detailViewport.Width, m.detailViewport.Height = m.contentWidth(), m.bodyRows()
			m.diagViewport.Width, m.diagViewport.Height = m.contentWidth(), m.bodyRows()
		}
		m.ready = true
		m.refreshDetailViewport()
		m.refreshDiagViewport()
		m.syncList()
		return m, nil

	case stateChangedMsg:
		if m.coord != nil {
			m.data = m.coord.Snapshot()
		}
		m.syncList()
		return m, nil

	case searchMsg:
		if !m.searching || string(msg) != m.search.Value() {
			return m, nil
		}
		m.query.Search = string(msg)
		m.selected, m.scrollTop = 0, 0
		m.syncList()
		return m, nil

	case productMsg:
		m.handleProduct(msg)
		return m, nil

	case logMsg:
		m.handleLog(msg)
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var body string
	switch m.currentView {
	case ViewDetail:
		body = m.renderDetail()
	case ViewDiagnostics:
		body = m.renderDiagnostics()
	default:
		body = m.renderList()
	}
	return m.renderHeader() + "\n" + body + "\n" + m.renderFooter()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.searching {
		return m.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.debouncer.Stop()
		m.observer.Disconnect()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.ToggleDarkMode):
		m.darkMode.Toggle()
		return m, nil
	case key.Matches(msg, m.keys.Diagnostics):
		m.currentView = ViewDiagnostics
		return m, readLogCmd(m.logPath)
	case key.Matches(msg, m.keys.Escape):
		m.currentView = ViewList
		return m, nil
	}

	switch m.currentView {
	case ViewDetail:
		var cmd tea.Cmd
		m.detailViewport, cmd = m.detailViewport.Update(msg)
		return m, cmd
	case ViewDiagnostics:
		if key.Matches(msg, m.keys.Reload) {
			return m, readLogCmd(m.logPath)
		}
		var cmd tea.Cmd
		m.diagViewport, cmd = m.diagViewport.Update(msg)
		return m, cmd
	}
	return m.handleListKey(msg)
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.debouncer.Stop()
		m.searching = false
		m.search.Blur()
		m.query.Search = m.search.Value()
		m.selected, m.scrollTop = 0, 0
		m.syncList()
		return m, nil
	case tea.KeyEsc:
		m.debouncer.Stop()
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.query.Search = ""
		m.syncList()
		return m, nil
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if after := m.search.Value(); after != before {
		m.debouncer.Call(after)
	}
	return m, cmd
}

// Run starts the program and blocks until the user quits or ctx ends.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	m.bus.attach(p.Send)

	if m.coord != nil {
		unsubscribe := m.coord.OnChange(func() { m.bus.Send(stateChangedMsg{}) })
		defer unsubscribe()
	}
	defer m.debouncer.Stop()

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
