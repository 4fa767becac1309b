package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/rebeliceyang/lazycodex/internal/client"
	"github.com/rebeliceyang/lazycodex/internal/config"
	"github.com/rebeliceyang/lazycodex/internal/favorites"
	"github.com/rebeliceyang/lazycodex/internal/filter"
	"github.com/rebeliceyang/lazycodex/internal/links"
	"github.com/rebeliceyang/lazycodex/internal/models"
	"github.com/rebeliceyang/lazycodex/internal/pages"
	"github.com/rebeliceyang/lazycodex/internal/query"
	"github.com/rebeliceyang/lazycodex/internal/ui/components"
	"github.com/rebeliceyang/lazycodex/internal/ui/help"
	"github.com/rebeliceyang/lazycodex/internal/ui/theme"
)

const requestTimeout = 15 * time.Second

// Options wires the application to its collaborators
type Options struct {
	Config    *config.Config
	Client    client.Client
	Registry  *pages.Registry
	Favorites *favorites.Manager // optional
	Recorder  query.Recorder     // optional
	Logger    *slog.Logger

	// Resource and Query select the page shown first; Query holds URL
	// parameters such as "q=drake&page=2"
	Resource models.Resource
	Query    string
}

// App is the main application model
type App struct {
	state    models.AppState
	config   *config.Config
	theme    theme.Theme
	client   client.Client
	registry *pages.Registry
	favs     *favorites.Manager
	recorder query.Recorder
	logger   *slog.Logger
	defaults filter.Defaults

	leftPanel  components.Panel
	rightPanel components.Panel

	sessions     map[models.Resource]pages.Session
	unsubscribe  map[models.Resource]func()
	view         pages.View
	initialQuery string

	resourceList *components.ResourceList
	tableView    *components.TableView
	searchInput  *components.SearchInput
	filterDrawer *components.FilterDrawer
	detailPane   *components.DetailPane
	favorites    *components.FavoritesDialog

	// Error overlay
	showError    bool
	errorOverlay *components.ErrorOverlay

	statusMessage  string
	pendingSuggest components.SuggestRequestMsg

	send           func(tea.Msg)
	writeClipboard func(string) error
}

// ViewUpdatedMsg is sent when the session of Resource has changed
type ViewUpdatedMsg struct {
	Resource models.Resource
}

// EntityLoadedMsg carries an entity fetched for the detail pane
type EntityLoadedMsg struct {
	Resource models.Resource
	Title    string
	Entity   any
	Err      error
}

// ErrorMsg is sent when an error occurs
type ErrorMsg struct {
	Title   string
	Message string
}

// suggestDueMsg fires once a suggestion request has been quiet for the debounce window
type suggestDueMsg struct {
	req components.SuggestRequestMsg
}

// New creates the application model
func New(opts Options) *App {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.GetDefaults()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	registry := opts.Registry
	if registry == nil {
		registry = pages.NewRegistry(query.WithSize(cfg.Query.DefaultSize))
	}

	state := models.NewAppState()
	if opts.Resource.Valid() {
		state.Resource = opts.Resource
	}

	th := theme.GetTheme(cfg.UI.Theme)
	defaults := filter.Defaults{NumericComparator: cfg.NumericComparator()}

	items := make([]components.ResourceItem, 0, len(registry.All()))
	for _, p := range registry.All() {
		items = append(items, components.ResourceItem{Resource: p.Resource(), Title: p.Title()})
	}

	a := &App{
		state:          state,
		config:         cfg,
		theme:          th,
		client:         opts.Client,
		registry:       registry,
		favs:           opts.Favorites,
		recorder:       opts.Recorder,
		logger:         logger,
		defaults:       defaults,
		sessions:       make(map[models.Resource]pages.Session),
		unsubscribe:    make(map[models.Resource]func()),
		initialQuery:   opts.Query,
		resourceList:   components.NewResourceList(items, th),
		tableView:      components.NewTableView(th),
		searchInput:    components.NewSearchInput(th),
		filterDrawer:   components.NewFilterDrawer(th, defaults),
		detailPane:     components.NewDetailPane(th),
		favorites:      components.NewFavoritesDialog(th),
		errorOverlay:   components.NewErrorOverlay(th),
		writeClipboard: clipboard.WriteAll,
		leftPanel:      components.Panel{Title: "Codex", Theme: th},
		rightPanel:     components.Panel{Theme: th},
	}

	a.updatePanelDimensions()
	a.updatePanelStyles()
	return a
}

// Attach sets how background updates reach the running program,
// normally tea.Program.Send
func (a *App) Attach(send func(tea.Msg)) {
	a.send = send
}

// Run starts the terminal UI and blocks until it exits
func Run(ctx context.Context, opts Options) error {
	a := New(opts)
	defer a.Close()

	programOpts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if a.config.UI.MouseEnabled {
		programOpts = append(programOpts, tea.WithMouseCellMotion())
	}
	p := tea.NewProgram(a, programOpts...)
	a.Attach(p.Send)

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Close stops every open session
func (a *App) Close() {
	for res, session := range a.sessions {
		if unsub := a.unsubscribe[res]; unsub != nil {
			unsub()
		}
		session.Close()
	}
	a.sessions = make(map[models.Resource]pages.Session)
	a.unsubscribe = make(map[models.Resource]func())
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	res := a.state.Resource
	return func() tea.Msg {
		return components.SelectResourceMsg{Resource: res}
	}
}

// session returns the open session of res, opening it on first use
func (a *App) session(res models.Resource) (pages.Session, error) {
	if s, ok := a.sessions[res]; ok {
		return s, nil
	}
	page, err := a.registry.Get(res)
	if err != nil {
		return nil, err
	}

	hookOpts := []query.HookOption{
		query.WithDebounce(a.config.Query.Debounce()),
		query.WithLogger(a.logger.With("resource", res)),
		query.WithResets(a.defaults),
	}
	if a.recorder != nil {
		hookOpts = append(hookOpts, query.WithRecorder(res, a.recorder))
	}

	var initErr error
	if a.initialQuery != "" && res == a.state.Resource {
		// a partly invalid link still opens with what could be read
		state, err := page.Structure().ParseQuery(a.initialQuery)
		initErr = err
		hookOpts = append(hookOpts, query.WithInitialState(state))
		a.initialQuery = ""
	}

	s := page.Open(a.client, hookOpts...)
	a.sessions[res] = s
	a.unsubscribe[res] = s.Subscribe(func(pages.View) {
		// listeners may run inside Update, so the send must not block it
		if send := a.send; send != nil {
			go send(ViewUpdatedMsg{Resource: res})
		}
	})
	s.Refresh()
	return s, initErr
}

func (a *App) current() pages.Session {
	return a.sessions[a.state.Resource]
}

// mutate applies fn to the current session's mutators and reports errors
func (a *App) mutate(fn func(m *query.Mutators) error) {
	s := a.current()
	if s == nil {
		return
	}
	if err := fn(s.Mutators()); err != nil {
		a.ShowError("Invalid Query", err.Error())
		return
	}
	a.syncView()
}

// syncView copies the current session's view into the components
func (a *App) syncView() {
	s := a.current()
	if s == nil {
		return
	}
	previous := a.view.Query
	a.view = s.View()

	a.tableView.SetRows(a.view.Rows)
	a.tableView.SetSort(a.view.Query.SortBy, a.view.Query.SortDirection)
	if previous.Page != a.view.Query.Page || previous.Q != a.view.Query.Q {
		a.tableView.ResetSelection()
	}
	a.filterDrawer.SetClauses(a.view.Query.Filters)
	if a.view.Loaded {
		a.resourceList.Counts[a.state.Resource] = a.view.Count
	}
}

func (a *App) activate(res models.Resource) error {
	s, err := a.session(res)
	if s == nil {
		return err
	}
	a.state.Resource = res
	a.resourceList.Active = res
	a.tableView.SetColumns(s.Page().Columns())
	a.filterDrawer.SetFields(s.Page().Structure().Fields)
	a.rightPanel.Title = s.Page().Title()
	a.view = pages.View{}
	a.syncView()
	return err
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ErrorMsg:
		a.ShowError(msg.Title, msg.Message)
		return a, nil

	case tea.WindowSizeMsg:
		a.state.Width = msg.Width
		a.state.Height = msg.Height
		a.updatePanelDimensions()
		return a, nil

	case tea.KeyMsg:
		// Handle error overlay dismissal first if visible
		if a.showError {
			switch msg.String() {
			case "esc", "enter":
				a.DismissError()
			case "ctrl+c":
				return a, tea.Quit
			}
			return a, nil
		}
		return a.handleKey(msg)

	case ViewUpdatedMsg:
		if msg.Resource == a.state.Resource {
			a.syncView()
		} else if s, ok := a.sessions[msg.Resource]; ok {
			if v := s.View(); v.Loaded {
				a.resourceList.Counts[msg.Resource] = v.Count
			}
		}
		return a, nil

	case components.SelectResourceMsg:
		if err := a.activate(msg.Resource); err != nil {
			a.ShowError("Cannot Open Page", err.Error())
		}
		a.state.FocusedPanel = models.RightPanel
		a.updatePanelStyles()
		return a, nil

	case components.SearchChangedMsg:
		a.mutate(func(m *query.Mutators) error { return m.QChange(msg.Q) })
		return a, nil

	case components.CloseSearchMsg:
		a.state.ViewMode = models.NormalMode
		return a, nil

	case components.AddFilterMsg:
		a.mutate(func(m *query.Mutators) error { return m.AddFilter(msg.Clause) })
		return a, nil

	case components.UpdateFilterMsg:
		a.mutate(func(m *query.Mutators) error { return m.UpdateFilter(msg.Index, msg.Clause) })
		return a, nil

	case components.RemoveFilterMsg:
		a.mutate(func(m *query.Mutators) error { return m.RemoveFilter(msg.Index) })
		return a, nil

	case components.ClearFiltersMsg:
		a.mutate(func(m *query.Mutators) error { return m.ClearFilters() })
		return a, nil

	case components.CloseFilterDrawerMsg:
		a.state.ViewMode = models.NormalMode
		return a, nil

	case components.SuggestRequestMsg:
		a.pendingSuggest = msg
		return a, tea.Tick(a.config.Query.Debounce(), func(time.Time) tea.Msg {
			return suggestDueMsg{req: msg}
		})

	case suggestDueMsg:
		if msg.req != a.pendingSuggest {
			return a, nil
		}
		return a, a.suggest(msg.req)

	case components.SuggestionsMsg:
		if msg.Err != nil {
			a.logger.Warn("suggestions failed", "partial", msg.Partial, "error", msg.Err)
		}
		a.filterDrawer.SetSuggestions(msg)
		return a, nil

	case EntityLoadedMsg:
		if msg.Err != nil {
			a.ShowError("Cannot Load Entry", msg.Err.Error())
			return a, nil
		}
		bugURL := links.BugReportURL(string(msg.Resource), msg.Title)
		if err := a.detailPane.SetEntity(msg.Title, msg.Entity, bugURL); err != nil {
			a.ShowError("Cannot Show Entry", err.Error())
			return a, nil
		}
		a.state.ViewMode = models.DetailMode
		return a, nil

	case components.ExecuteFavoriteMsg:
		a.executeFavorite(msg.Favorite)
		return a, nil

	case components.SaveFavoriteMsg:
		a.saveFavorite(msg)
		return a, nil

	case components.DeleteFavoriteMsg:
		if a.favs != nil {
			if err := a.favs.Delete(msg.ID); err != nil {
				a.ShowError("Cannot Delete Favorite", err.Error())
			}
			a.favorites.SetFavorites(a.favs.List(""))
		}
		return a, nil

	case components.CloseFavoritesDialogMsg:
		a.state.ViewMode = models.NormalMode
		return a, nil
	}

	// Cursor blinks and other internal messages of the focused input
	switch a.state.ViewMode {
	case models.SearchMode:
		var cmd tea.Cmd
		a.searchInput, cmd = a.searchInput.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.state.ViewMode {
	case models.SearchMode:
		var cmd tea.Cmd
		a.searchInput, cmd = a.searchInput.Update(msg)
		return a, cmd
	case models.FilterMode:
		var cmd tea.Cmd
		a.filterDrawer, cmd = a.filterDrawer.Update(msg)
		return a, cmd
	case models.FavoritesMode:
		var cmd tea.Cmd
		a.favorites, cmd = a.favorites.Update(msg)
		return a, cmd
	case models.DetailMode:
		return a.handleDetailKey(msg)
	case models.HelpMode:
		switch msg.String() {
		case "?", "esc", "q":
			a.state.ViewMode = models.NormalMode
		case "ctrl+c":
			return a, tea.Quit
		}
		return a, nil
	}

	a.statusMessage = ""
	switch key := msg.String(); key {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "?":
		a.state.ViewMode = models.HelpMode
		return a, nil
	case "tab":
		if a.state.FocusedPanel == models.LeftPanel {
			a.state.FocusedPanel = models.RightPanel
		} else {
			a.state.FocusedPanel = models.LeftPanel
			a.resourceList.Cursor = a.activeIndex()
		}
		a.updatePanelStyles()
		return a, nil
	case "1", "2", "3", "4", "5", "6", "7", "8":
		return a, a.resourceList.Select(int(key[0] - '1'))
	case "r", "f5":
		if s := a.current(); s != nil {
			s.Refresh()
		}
		return a, nil
	case "/":
		a.state.ViewMode = models.SearchMode
		return a, a.searchInput.Open(a.view.Query.Q)
	case "f":
		a.state.ViewMode = models.FilterMode
		return a, nil
	case "X":
		a.mutate(func(m *query.Mutators) error { return m.ClearFilters() })
		return a, nil
	case "F":
		return a, a.openFavorites()
	case "ctrl+s":
		return a, a.startSaveFavorite()
	case "y":
		a.copyLink()
		return a, nil
	}

	if a.state.FocusedPanel == models.LeftPanel {
		var cmd tea.Cmd
		a.resourceList, cmd = a.resourceList.Update(msg)
		return a, cmd
	}
	return a.handleResultsKey(msg)
}

func (a *App) activeIndex() int {
	for i, item := range a.resourceList.Items {
		if item.Resource == a.state.Resource {
			return i
		}
	}
	return 0
}

func (a *App) handleResultsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		a.tableView.MoveSelection(-1)
	case "down", "j":
		a.tableView.MoveSelection(1)
	case "left", "h":
		a.tableView.MoveColumn(-1)
	case "right", "l":
		a.tableView.MoveColumn(1)
	case "s":
		col, ok := a.tableView.SelectedColumn()
		if !ok || col.SortKey == "" {
			a.statusMessage = "column is not sortable"
			return a, nil
		}
		a.mutate(func(m *query.Mutators) error { return m.ToggleSort(col.SortKey) })
	case "n", "]":
		count := a.view.Count
		a.mutate(func(m *query.Mutators) error { return m.NextPage(count) })
	case "p", "[":
		a.mutate(func(m *query.Mutators) error { return m.PrevPage() })
	case "+", "=":
		size := a.view.Query.Size
		a.mutate(func(m *query.Mutators) error { return m.SizeChange(size * 2) })
	case "-":
		size := a.view.Query.Size
		if size > 1 {
			a.mutate(func(m *query.Mutators) error { return m.SizeChange(size / 2) })
		}
	case "enter":
		return a, a.loadSelected()
	}
	return a, nil
}

func (a *App) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		a.state.ViewMode = models.NormalMode
	case "ctrl+c":
		return a, tea.Quit
	case "up", "k":
		a.detailPane.ScrollUp()
	case "down", "j":
		a.detailPane.ScrollDown()
	case "y":
		if err := a.detailPane.CopyContent(); err != nil {
			a.ShowError("Clipboard", err.Error())
		}
	case "b":
		if a.detailPane.BugURL == "" {
			return a, nil
		}
		if err := a.detailPane.CopyBugURL(); err != nil {
			a.ShowError("Clipboard", err.Error())
		}
	}
	return a, nil
}

// loadSelected fetches the entity behind the selected row
func (a *App) loadSelected() tea.Cmd {
	s := a.current()
	row, ok := a.tableView.Selected()
	if s == nil || !ok {
		return nil
	}
	id := row.Slug
	if id == "" {
		id = row.ID
	}
	title := id
	if len(row.Cells) > 0 && row.Cells[0] != "" {
		title = row.Cells[0]
	}

	page := s.Page()
	c := a.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		entity, err := page.Get(ctx, c, id)
		return EntityLoadedMsg{Resource: page.Resource(), Title: title, Entity: entity, Err: err}
	}
}

func (a *App) suggest(req components.SuggestRequestMsg) tea.Cmd {
	fn := client.BuildSuggest(a.client, req.Resource, a.config.Query.SuggestionSize)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		names, err := fn(ctx, req.Partial)
		return components.SuggestionsMsg{Partial: req.Partial, Names: names, Err: err}
	}
}

// link returns the shareable URL of the current page
func (a *App) link() (string, bool) {
	s := a.current()
	if s == nil {
		return "", false
	}
	return s.Page().Structure().Link(a.config.UI.URL, a.state.Resource, a.view.Query), true
}

func (a *App) copyLink() {
	link, ok := a.link()
	if !ok {
		return
	}
	if err := a.writeClipboard(link); err != nil {
		a.ShowError("Clipboard", err.Error())
		return
	}
	a.statusMessage = "copied " + link
}

func (a *App) openFavorites() tea.Cmd {
	if a.favs == nil {
		a.ShowError("Favorites", "favorites are not available")
		return nil
	}
	a.favorites.SetFavorites(a.favs.List(""))
	a.state.ViewMode = models.FavoritesMode
	return nil
}

func (a *App) startSaveFavorite() tea.Cmd {
	s := a.current()
	if s == nil || a.favs == nil {
		return nil
	}
	params := s.Page().Structure().Encode(a.view.Query).Encode()
	a.favorites.SetFavorites(a.favs.List(""))
	a.favorites.StartAdd(a.state.Resource, params)
	a.state.ViewMode = models.FavoritesMode
	return nil
}

func (a *App) saveFavorite(msg components.SaveFavoriteMsg) {
	if a.favs == nil {
		return
	}
	var err error
	if msg.ID == "" {
		_, err = a.favs.Add(msg.Name, msg.Description, msg.Resource, msg.Query, msg.Tags)
	} else {
		err = a.favs.Update(msg.ID, msg.Name, msg.Description, msg.Query, msg.Tags)
	}
	if err != nil {
		a.ShowError("Cannot Save Favorite", err.Error())
		return
	}
	a.favorites.SetFavorites(a.favs.List(""))
	a.statusMessage = fmt.Sprintf("saved favorite %q", msg.Name)
}

// executeFavorite switches to the favorite's page and replaces its query
func (a *App) executeFavorite(fav models.Favorite) {
	if err := a.activate(fav.Resource); err != nil {
		a.ShowError("Cannot Open Favorite", err.Error())
		return
	}
	s := a.current()
	state, err := s.Page().Structure().ParseQuery(fav.Query)
	if err != nil {
		a.ShowError("Cannot Open Favorite", err.Error())
		return
	}
	if err := s.Mutators().Reset(state); err != nil {
		a.ShowError("Cannot Open Favorite", err.Error())
		return
	}
	a.syncView()
	if a.favs != nil {
		if err := a.favs.MarkUsed(fav.ID); err != nil {
			a.logger.Warn("failed to mark favorite used", "id", fav.ID, "error", err)
		}
	}
	a.state.ViewMode = models.NormalMode
}

// View implements tea.Model
func (a *App) View() string {
	// If error overlay is showing, render it centered on top of everything
	if a.showError {
		return lipgloss.Place(
			a.state.Width, a.state.Height,
			lipgloss.Center, lipgloss.Center,
			a.errorOverlay.View(),
		)
	}

	switch a.state.ViewMode {
	case models.HelpMode:
		return help.Render(a.state.Width, a.state.Height, a.theme)
	case models.DetailMode:
		a.detailPane.Width = a.state.Width
		a.detailPane.Height = a.state.Height
		return a.detailPane.View()
	case models.FavoritesMode:
		a.favorites.Width = min(a.state.Width-4, 90)
		a.favorites.Height = min(a.state.Height-4, 30)
		return lipgloss.Place(
			a.state.Width, a.state.Height,
			lipgloss.Center, lipgloss.Center,
			a.favorites.View(),
		)
	}

	return a.renderNormalView()
}

// renderNormalView renders the panels with the status bars
func (a *App) renderNormalView() string {
	topBarRight := ""
	if link, ok := a.link(); ok {
		topBarRight = link
	}
	topBar := lipgloss.NewStyle().
		Width(a.state.Width).
		Background(a.theme.BorderFocused).
		Foreground(a.theme.Background).
		Padding(0, 2).
		Render(a.formatStatusBar("lazycodex", topBarRight))

	bottomBarLeft := "[/] Search | [f] Filters | [s] Sort | [n/p] Page | [F] Favorites | [?] Help | [q] Quit"
	if a.statusMessage != "" {
		bottomBarLeft = a.statusMessage
	}
	bottomBar := lipgloss.NewStyle().
		Width(a.state.Width).
		Background(a.theme.Selection).
		Foreground(a.theme.Foreground).
		Padding(0, 2).
		Render(a.formatStatusBar(bottomBarLeft, a.view.Status.String()))

	a.resourceList.Width = a.leftPanel.Width
	a.resourceList.Height = a.leftPanel.Height
	a.leftPanel.Content = a.resourceList.View()
	a.rightPanel.Content = a.renderResults()

	panels := lipgloss.JoinHorizontal(
		lipgloss.Top,
		a.leftPanel.View(),
		a.rightPanel.View(),
	)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		topBar,
		panels,
		bottomBar,
	)
}

// renderResults stacks the query bar, the table and the pagination bar
func (a *App) renderResults() string {
	width := a.rightPanel.Width
	var header []string

	switch a.state.ViewMode {
	case models.SearchMode:
		a.searchInput.Width = width
		header = append(header, a.searchInput.View())
	case models.FilterMode:
		a.filterDrawer.Width = width
		a.filterDrawer.Height = max(a.rightPanel.Height/2, 8)
		header = append(header, a.filterDrawer.View())
	default:
		if summary := a.querySummary(); summary != "" {
			header = append(header, lipgloss.NewStyle().Foreground(a.theme.Metadata).Render(summary))
		}
	}

	if a.view.Err != nil {
		header = append(header, lipgloss.NewStyle().Foreground(a.theme.Error).Render("✗ "+a.view.Err.Error()))
	}

	footer := components.Pagination{
		Page:   a.view.Query.Page,
		Size:   a.view.Query.Size,
		Count:  a.view.Count,
		Status: a.view.Status,
		Theme:  a.theme,
	}.View()

	used := 2 // title and pagination
	for _, h := range header {
		used += lipgloss.Height(h)
	}
	a.tableView.Width = width
	a.tableView.Height = max(a.rightPanel.Height-used, 3)

	body := a.tableView.View()
	if !a.view.Loaded && a.view.Err == nil {
		body = lipgloss.NewStyle().Foreground(a.theme.Metadata).Render("Loading…")
	}

	parts := append(header, body, footer)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// querySummary describes the free text and filters in one line
func (a *App) querySummary() string {
	s := a.current()
	if s == nil {
		return ""
	}
	var parts []string
	if a.view.Query.Q != "" {
		parts = append(parts, fmt.Sprintf("search %q", a.view.Query.Q))
	}
	fields := s.Page().Structure().Fields
	for _, f := range a.view.Query.Filters {
		parts = append(parts, filter.Describe(fields, f))
	}
	return strings.Join(parts, " · ")
}

// updatePanelDimensions calculates panel sizes based on window size
func (a *App) updatePanelDimensions() {
	if a.state.Width <= 0 || a.state.Height <= 0 {
		return
	}

	// top and bottom bar plus the panel borders
	contentHeight := max(a.state.Height-4, 5)

	leftWidth := max(a.state.LeftPanelWidth, 16)
	rightWidth := a.state.Width - leftWidth - 4
	if rightWidth < 20 {
		rightWidth = 20
		leftWidth = max(a.state.Width-rightWidth-4, 10)
	}

	a.leftPanel.Width = leftWidth
	a.leftPanel.Height = contentHeight
	a.rightPanel.Width = rightWidth
	a.rightPanel.Height = contentHeight
}

// updatePanelStyles updates panel focus
func (a *App) updatePanelStyles() {
	a.leftPanel.Focused = a.state.FocusedPanel == models.LeftPanel
	a.rightPanel.Focused = a.state.FocusedPanel == models.RightPanel
}

// formatStatusBar formats a status bar with left and right aligned content
func (a *App) formatStatusBar(left, right string) string {
	// Account for padding (2 chars on each side = 4 total)
	availableWidth := max(a.state.Width-4, 0)

	leftLen := runewidth.StringWidth(left)
	rightLen := runewidth.StringWidth(right)

	if leftLen+rightLen+1 > availableWidth {
		if availableWidth > rightLen+1 {
			return runewidth.Truncate(left, availableWidth-rightLen-1, "…") + " " + right
		}
		return runewidth.Truncate(left, availableWidth, "…")
	}

	spacing := availableWidth - leftLen - rightLen
	return left + strings.Repeat(" ", spacing) + right
}

// ShowError displays an error overlay
func (a *App) ShowError(title, message string) {
	a.logger.Debug("showing error", "title", title, "message", message)
	a.showError = true
	a.errorOverlay.SetError(title, message)
}

// DismissError hides the error overlay
func (a *App) DismissError() {
	a.showError = false
}
