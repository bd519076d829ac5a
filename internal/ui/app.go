package ui

import (
	"context"
	"errors"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/five82/shopkeep/internal/catalog"
	"github.com/five82/shopkeep/internal/config"
	"github.com/five82/shopkeep/internal/prefs"
	"github.com/five82/shopkeep/internal/render"
	"github.com/five82/shopkeep/internal/state"
	"github.com/five82/shopkeep/internal/view"
	"github.com/five82/shopkeep/internal/workflow"
)

// View represents the current active view.
type View int

const (
	ViewCatalog View = iota
	ViewActivity
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Service   *workflow.Service
	Config    config.Config
	Prefs     prefs.Prefs
	PrefsPath string // empty disables saving preferences
	Logger    *zap.Logger
	Clipboard func(string) error
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	service   *workflow.Service
	store     *state.Store
	config    config.Config
	prefsPath string
	logger    *zap.Logger
	clipboard func(string) error

	// UI state
	keys        keyMap
	help        help.Model
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool

	// Catalog state
	view        *view.State
	page        render.Page
	unsynced    map[catalog.ID]bool
	selectedRow int
	loading     bool
	notice      workflow.Notice

	// Search box
	searching bool
	search    textinput.Model

	// Product modal
	session    workflow.Session
	fields     [fieldCount]textinput.Model
	focusField int
	spinner    spinner.Model

	// Activity view
	activity activityState
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	copyFn := opts.Clipboard
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}

	perPage := opts.Config.PerPage
	if opts.Prefs.PerPage > 0 {
		perPage = opts.Prefs.PerPage
	}
	vs := view.New(perPage)
	if key := view.ParseSortKey(opts.Prefs.SortKey); key != view.SortNone {
		vs.SetSort(key, view.ParseDirection(opts.Prefs.SortDir))
	}

	search := textinput.New()
	search.Prompt = "/"
	search.Placeholder = "search titles"
	search.CharLimit = 120

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:       ctx,
		service:   opts.Service,
		config:    opts.Config,
		prefsPath: opts.PrefsPath,
		logger:    logger,
		clipboard: copyFn,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		theme:     GetTheme(opts.Prefs.Theme),
		view:      vs,
		search:    search,
		fields:    newFields(),
		spinner:   sp,
		activity:  newActivityState(opts.Config.LogFile),
	}
	if opts.Service != nil {
		m.store = opts.Service.Store()
		snap := m.store.Snapshot()
		m.loading = !snap.Loaded
		if snap.Loaded && snap.LastError != nil {
			m.notice = loadFailedNotice(snap.LastError)
		}
	}
	m.refresh()
	return m
}

// loadFailedNotice reports a fetch that failed before the model existed.
func loadFailedNotice(err error) workflow.Notice {
	n := workflow.Notice{Kind: workflow.ReloadFailed}
	var failure *catalog.Failure
	if errors.As(err, &failure) {
		n.Status = failure.Status
	}
	return n
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.loading {
		return tea.Batch(reloadCmd(m.ctx, m.service), m.spinner.Tick)
	}
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.help.Width = msg.Width
		m.resizeActivity()
		return m, nil

	case loadedMsg:
		m.loading = false
		m.notice = msg.Notice
		m.refresh()
		return m, nil

	case submitDoneMsg:
		return m.handleSubmitDone(workflow.Outcome(msg))

	case noticeMsg:
		m.notice = workflow.Notice(msg)
		m.logger.Info("notice",
			zap.String("kind", m.notice.Kind.String()),
			zap.String("message", m.notice.Message()))
		return m, nil

	case activityMsg:
		m.handleActivity(msg)
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
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

	if m.session.IsOpen() {
		return m.renderForm()
	}

	return m.renderMain()
}

// busy reports whether something is waiting on the network.
func (m Model) busy() bool {
	return m.loading || m.session.Phase() == workflow.Submitting
}

// handleKey routes keyboard input to the overlay or view that owns it.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.session.IsOpen() {
		return m.handleFormKey(msg)
	}

	if m.searching {
		return m.handleSearchKey(msg)
	}

	if m.currentView == ViewActivity {
		return m.handleActivityKey(msg)
	}

	return m.handleCatalogKey(msg)
}

// refresh rebuilds the visible page from the store.
func (m *Model) refresh() {
	if m.store != nil {
		snap := m.store.Snapshot()
		m.unsynced = snap.Unsynced
		m.view.SetProducts(snap.Products)
	}
	m.rebuildPage()
}

// rebuildPage re-renders the current page without reloading products.
func (m *Model) rebuildPage() {
	m.page = render.Build(m.view.Snapshot(), m.unsynced)
	if m.selectedRow >= len(m.page.Rows) {
		m.selectedRow = max(len(m.page.Rows)-1, 0)
	}
}

// selectedProduct returns the product under the cursor.
func (m Model) selectedProduct() (catalog.Product, bool) {
	if m.service == nil || m.selectedRow < 0 || m.selectedRow >= len(m.page.Rows) {
		return catalog.Product{}, false
	}
	return m.service.Lookup(catalog.ID(m.page.Rows[m.selectedRow].ID))
}

// savePrefs persists theme, page size and sort.
func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{
		Theme:   m.theme.Name,
		PerPage: m.view.PerPage(),
		SortKey: string(m.view.SortKey()),
	}
	if m.view.SortKey() != view.SortNone {
		p.SortDir = m.view.SortDir().String()
	}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.logger.Warn("save preferences failed", zap.String("path", m.prefsPath), zap.Error(err))
	}
}

// renderMain renders the full catalog screen.
func (m Model) renderMain() string {
	var b strings.Builder

	// Header line 1: logo + status
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	// Header line 2: command bar
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")

	b.WriteString(m.renderContent())
	b.WriteString("\n")

	b.WriteString(m.renderStatusLine())

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Background)).
		Render(b.String())
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewActivity:
		return m.renderActivity()
	default:
		return m.renderCatalog()
	}
}

// contentHeight is the space left for the main pane.
func (m Model) contentHeight() int {
	// header + command bar + status line
	return max(m.height-3, 3)
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	return err
}
