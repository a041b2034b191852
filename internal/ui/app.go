package ui

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/abelbrown/catalog/internal/browse"
	"github.com/abelbrown/catalog/internal/logging"
	"github.com/abelbrown/catalog/internal/otel"
	"github.com/abelbrown/catalog/internal/product"
	"github.com/abelbrown/catalog/internal/ui/card"
	"github.com/abelbrown/catalog/internal/ui/searchbox"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/mattn/go-runewidth"
)

const (
	title          = "Product list"
	scrollTopLabel = " ↑ top "

	headerLines = 2 // title/search row + rule
	footerLines = 3 // message + status bar + help
)

// Catalog is the remote product source the UI reads from.
type Catalog interface {
	FetchPage(ctx context.Context, limit, skip int) ([]product.Product, error)
	Search(ctx context.Context, query string) ([]product.Product, error)
}

// FetchFrom adapts a Catalog to AppConfig.Fetch.
func FetchFrom(c Catalog) func(ctx context.Context, req browse.Request) tea.Cmd {
	return func(ctx context.Context, req browse.Request) tea.Cmd {
		return func() tea.Msg {
			start := time.Now()
			var (
				products []product.Product
				err      error
			)
			if req.Kind == browse.RequestSearch {
				products, err = c.Search(ctx, req.Query)
			} else {
				products, err = c.FetchPage(ctx, req.Limit, req.Skip)
			}
			return FetchResult{
				Result: browse.Result{Req: req, Products: products, Err: err},
				Dur:    time.Since(start),
			}
		}
	}
}

// ObsConfig wires observability into the UI. Both fields are optional.
type ObsConfig struct {
	Logger *otel.Logger
	Ring   *otel.RingBuffer
}

// AppConfig holds the injected dependencies for App.
type AppConfig struct {
	// Fetch returns a command that performs req under ctx and resolves to
	// a FetchResult.
	Fetch func(ctx context.Context, req browse.Request) tea.Cmd

	// LoadHistory resolves to HistoryLoaded.
	LoadHistory func() tea.Cmd

	// RecordSearch resolves to SearchRecorded.
	RecordSearch func(query string) tea.Cmd

	// Context bounds every fetch. Defaults to context.Background.
	Context context.Context

	PageSize           int
	Debounce           time.Duration
	ScrollTopThreshold int

	Obs ObsConfig
}

// App is the root Bubble Tea model.
// IMPORTANT: App does no I/O itself. Fetches and history run as commands
// and come back as messages.
type App struct {
	fetch        func(ctx context.Context, req browse.Request) tea.Cmd
	loadHistory  func() tea.Cmd
	recordSearch func(query string) tea.Cmd

	state    browse.State
	observer browse.Observer
	tracker  browse.ScrollTracker
	debounce time.Duration

	// Each generation gets its own context; starting a new one cancels
	// whatever the previous one still has in flight.
	ctx    context.Context
	cancel context.CancelFunc
	genCtx context.Context

	search  searchbox.Model
	spinner spinner.Model
	help    help.Model

	cursor int
	offset int // index of the first visible card

	// Smooth scroll-to-top with harmonica spring physics
	spring    harmonica.Spring
	scrollPos float64
	scrollVel float64
	animating bool

	notice       string
	width        int
	height       int
	ready        bool
	debugVisible bool

	events *otel.Logger
	ring   *otel.RingBuffer
}

// NewAppWithConfig creates an App from cfg.
func NewAppWithConfig(cfg AppConfig) App {
	ctx := cfg.Context
	if ctx == nil {
		ctx = context.Background()
	}
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = browse.DefaultDebounceDelay
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(colorHighlight)

	return App{
		fetch:        cfg.Fetch,
		loadHistory:  cfg.LoadHistory,
		recordSearch: cfg.RecordSearch,
		state:        *browse.New(cfg.PageSize),
		tracker:      *browse.NewScrollTracker(cfg.ScrollTopThreshold),
		debounce:     debounce,
		ctx:          ctx,
		genCtx:       ctx,
		search:       searchbox.New(),
		spinner:      s,
		help:         help.New(),
		spring:       harmonica.NewSpring(harmonica.FPS(60), 6.0, 1.0),
		events:       cfg.Obs.Logger,
		ring:         cfg.Obs.Ring,
	}
}

// Init starts the first page load, the spinner and the history read.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		func() tea.Msg { return mountMsg{} },
		a.spinner.Tick,
	}
	if a.loadHistory != nil {
		cmds = append(cmds, a.loadHistory())
	}
	return tea.Batch(cmds...)
}

// Update handles messages and returns the updated model and any commands.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	a.trace(msg)

	switch msg := msg.(type) {
	case mountMsg:
		return a, a.start()

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.help.Width = msg.Width
		a.search.SetWidth(msg.Width - lipgloss.Width(TitleStyle.Render(title)) - 2)
		a.offset = calcScrollOffset(a.offset, a.cursor, a.state.Len(), a.listHeight())
		return a, a.syncViewport()

	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case tea.MouseMsg:
		return a.handleMouseMsg(msg)

	case searchbox.QueryChanged:
		return a, a.queryChanged(msg.Query)

	case debounceFiredMsg:
		return a, a.debounceFired(msg.seq)

	case FetchResult:
		return a, a.applyResult(msg)

	case HistoryLoaded:
		if msg.Err != nil {
			logging.Warn("load search history", "err", msg.Err)
			a.emit(otel.Event{Kind: otel.KindHistoryError, Level: otel.LevelWarn, Err: msg.Err.Error()})
			return a, nil
		}
		a.search.SetSuggestions(msg.Queries)
		return a, nil

	case SearchRecorded:
		if msg.Err != nil {
			logging.Warn("record search", "query", msg.Query, "err", msg.Err)
			a.emit(otel.Event{Kind: otel.KindHistoryError, Level: otel.LevelWarn, Query: msg.Query, Err: msg.Err.Error()})
			return a, nil
		}
		if a.loadHistory != nil {
			return a, a.loadHistory()
		}
		return a, nil

	case scrollFrameMsg:
		return a, a.scrollFrame()

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	return a, nil
}

// handleKeyMsg processes keyboard input.
func (a App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.search.Focused() {
		switch {
		case msg.String() == "ctrl+c":
			return a, a.quit()
		case key.Matches(msg, keys.Blur), msg.Type == tea.KeyEnter:
			a.search.Blur()
			return a, nil
		}
		var cmd tea.Cmd
		a.search, cmd = a.search.Update(msg)
		return a, cmd
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return a, a.quit()

	case key.Matches(msg, keys.Up):
		a.moveCursor(-1)

	case key.Matches(msg, keys.Down):
		a.moveCursor(1)

	case key.Matches(msg, keys.PageUp):
		a.moveCursor(-visibleCards(a.listHeight()))

	case key.Matches(msg, keys.PageDown):
		a.moveCursor(visibleCards(a.listHeight()))

	case key.Matches(msg, keys.Bottom):
		a.moveCursor(a.state.Len())

	case key.Matches(msg, keys.Top):
		return a, a.scrollToTop()

	case key.Matches(msg, keys.Search):
		return a, a.search.Focus()

	case key.Matches(msg, keys.Blur):
		if a.state.Query() == "" {
			return a, nil
		}
		a.search.SetValue("")
		return a, a.queryChanged("")

	case key.Matches(msg, keys.LoadMore):
		return a, a.loadNext()

	case key.Matches(msg, keys.Retry):
		return a, a.retry()

	case key.Matches(msg, keys.Debug):
		a.debugVisible = !a.debugVisible
		return a, nil

	default:
		return a, nil
	}

	return a, a.syncViewport()
}

// handleMouseMsg scrolls on the wheel and handles clicks on the scroll-to-top
// control.
func (a App) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress {
		return a, nil
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		a.scrollBy(-1)
	case tea.MouseButtonWheelDown:
		a.scrollBy(1)
	case tea.MouseButtonLeft:
		if a.tracker.ShowScrollTop() && a.onScrollTopControl(msg.X, msg.Y) {
			return a, a.scrollToTop()
		}
		return a, nil
	default:
		return a, nil
	}
	return a, a.syncViewport()
}

// start enters browsing mode from scratch.
func (a *App) start() tea.Cmd {
	req := a.state.Start()
	a.newGeneration()
	a.resetView()
	a.emit(otel.Event{Kind: otel.KindPageStart, Limit: req.Limit, Skip: req.Skip})
	return tea.Batch(a.issue(req), a.syncViewport())
}

// queryChanged records a keystroke and schedules its debounce.
func (a *App) queryChanged(q string) tea.Cmd {
	seq := a.state.Keystroke(q)
	a.emit(otel.Event{Kind: otel.KindSearchDebounce, Level: otel.LevelDebug, Query: q})
	return tea.Tick(a.debounce, func(time.Time) tea.Msg {
		return debounceFiredMsg{seq: seq}
	})
}

// debounceFired runs the search (or the reset to browsing) for the newest
// keystroke. Older tokens are ignored.
func (a *App) debounceFired(seq uint64) tea.Cmd {
	req, ok := a.state.DebounceFired(seq)
	if !ok {
		return nil
	}
	a.newGeneration()
	a.resetView()

	if req.Kind == browse.RequestPage {
		a.search.SetValue("")
		a.emit(otel.Event{Kind: otel.KindPageStart, Limit: req.Limit, Skip: req.Skip})
	} else {
		a.emit(otel.Event{Kind: otel.KindSearchStart, Query: req.Query})
	}
	return tea.Batch(a.issue(req), a.syncViewport())
}

// loadNext asks for the next page; a no-op when the guard refuses.
func (a *App) loadNext() tea.Cmd {
	req, ok := a.state.LoadNext()
	if !ok {
		return nil
	}
	a.emit(otel.Event{Kind: otel.KindPageStart, Limit: req.Limit, Skip: req.Skip})
	return a.issue(req)
}

// retry repeats the action that last failed: the search for the current
// query, or the page at the current cursor.
func (a *App) retry() tea.Cmd {
	if a.state.Loading() {
		return nil
	}
	if a.state.Mode() == browse.ModeSearching {
		return a.debounceFired(a.state.Keystroke(a.state.Query()))
	}
	return a.loadNext()
}

func (a *App) applyResult(msg FetchResult) tea.Cmd {
	r := msg.Result
	ev := otel.Event{
		Gen:   r.Req.Gen,
		Dur:   msg.Dur,
		Count: len(r.Products),
		Limit: r.Req.Limit,
		Skip:  r.Req.Skip,
		Query: r.Req.Query,
	}

	out := a.state.Apply(r)
	switch out {
	case browse.OutcomeStale:
		ev.Kind = otel.KindSearchStale
		ev.Level = otel.LevelDebug
		ev.Msg = r.Req.Kind.String()
		a.emit(ev)
		return nil

	case browse.OutcomeFailed:
		ev.Kind = otel.KindPageError
		if r.Req.Kind == browse.RequestSearch {
			ev.Kind = otel.KindSearchError
		}
		ev.Level = otel.LevelError
		ev.Err = r.Err.Error()
		a.emit(ev)
		logging.Warn("fetch failed", "kind", r.Req.Kind, "err", r.Err)
		if a.state.Len() > 0 {
			a.notice = "Couldn't load more products. Press r to retry."
		}
		return a.syncViewport()

	case browse.OutcomeReplaced:
		ev.Kind = otel.KindSearchComplete
		a.emit(ev)
		a.notice = ""
		a.cursor, a.offset = 0, 0
		var record tea.Cmd
		if a.recordSearch != nil {
			record = a.recordSearch(r.Req.Query)
		}
		return tea.Batch(record, a.syncViewport())

	default:
		ev.Kind = otel.KindPageComplete
		a.emit(ev)
		a.notice = ""
		a.cursor = min(a.cursor, max(a.state.Len()-1, 0))
		return a.syncViewport()
	}
}

// syncViewport updates the scroll tracker and the sentinel observer after
// anything that changes the list or its offset. It returns the next page
// request when the sentinel has just come into view.
func (a *App) syncViewport() tea.Cmd {
	a.tracker.SetOffset(a.offset * card.Rows)

	lay := layoutList(a.state.Products(), a.state.Generation(), a.offset, a.listHeight())
	if lay.HasSentinel && a.state.HasMore() && a.state.Mode() == browse.ModeBrowsing {
		a.observer.Observe(lay.Sentinel)
	} else {
		a.observer.Disconnect()
	}

	if !a.ready || !a.observer.Notify(lay.First, lay.Last) {
		return nil
	}
	a.emit(otel.Event{Kind: otel.KindSentinelVisible, Level: otel.LevelDebug, Count: a.state.Len()})
	return a.loadNext()
}

// newGeneration cancels the previous generation's requests and opens a
// context for the new one.
func (a *App) newGeneration() {
	if a.cancel != nil {
		a.cancel()
	}
	ctx := otel.NewContext(a.ctx, otel.Scope{Gen: a.state.Generation(), QueryID: uuid.NewString()})
	a.genCtx, a.cancel = context.WithCancel(ctx)
}

func (a *App) resetView() {
	a.cursor, a.offset = 0, 0
	a.animating = false
	a.notice = ""
}

func (a *App) issue(req browse.Request) tea.Cmd {
	if a.fetch == nil {
		return nil
	}
	return a.fetch(a.genCtx, req)
}

func (a *App) quit() tea.Cmd {
	if a.cancel != nil {
		a.cancel()
	}
	a.observer.Disconnect()
	return tea.Quit
}

func (a *App) moveCursor(delta int) {
	n := a.state.Len()
	if n == 0 {
		return
	}
	a.animating = false
	a.cursor = max(min(a.cursor+delta, n-1), 0)
	a.offset = calcScrollOffset(a.offset, a.cursor, n, a.listHeight())
}

// scrollBy moves the viewport, dragging the cursor along when it would
// fall off screen.
func (a *App) scrollBy(delta int) {
	n := a.state.Len()
	if n == 0 {
		return
	}
	a.animating = false
	a.offset = clampOffset(a.offset+delta, n, a.listHeight())
	a.keepCursorVisible()
}

func (a *App) keepCursorVisible() {
	visible := visibleCards(a.listHeight())
	a.cursor = max(min(a.cursor, a.offset+visible-1), a.offset)
	a.cursor = min(a.cursor, max(a.state.Len()-1, 0))
}

// scrollToTop starts the spring animation back to offset 0.
func (a *App) scrollToTop() tea.Cmd {
	if a.offset == 0 {
		a.cursor = 0
		return a.syncViewport()
	}
	a.animating = true
	a.scrollPos = float64(a.offset)
	a.scrollVel = 0
	return frame()
}

func (a *App) scrollFrame() tea.Cmd {
	if !a.animating {
		return nil
	}
	a.scrollPos, a.scrollVel = a.spring.Update(a.scrollPos, a.scrollVel, 0)

	if math.Abs(a.scrollPos) < 0.5 && math.Abs(a.scrollVel) < 0.5 {
		a.animating = false
		a.offset = 0
		a.cursor = 0
		return a.syncViewport()
	}
	a.offset = clampOffset(int(math.Round(a.scrollPos)), a.state.Len(), a.listHeight())
	a.keepCursorVisible()
	return tea.Batch(a.syncViewport(), frame())
}

func frame() tea.Cmd {
	return tea.Tick(time.Second/60, func(time.Time) tea.Msg {
		return scrollFrameMsg{}
	})
}

// onScrollTopControl reports whether (x, y) falls on the control drawn at
// the right end of the status bar.
func (a App) onScrollTopControl(x, y int) bool {
	statusRow := a.height - 2
	right := a.width - 1 // status bar padding
	left := right - lipgloss.Width(scrollTopLabel)
	return y == statusRow && x >= left && x < a.width
}

func (a App) listHeight() int {
	return max(a.height-headerLines-footerLines, card.Rows)
}

// emit tags e with the current generation's scope.
func (a *App) emit(e otel.Event) {
	a.events.EmitFor(a.genCtx, "ui", e)
}

func (a *App) trace(msg tea.Msg) {
	if !otel.TraceEnabled() {
		return
	}
	switch msg.(type) {
	case spinner.TickMsg, scrollFrameMsg:
		return
	}
	a.emit(otel.Event{Kind: otel.KindMsgReceived, Level: otel.LevelDebug, Msg: fmt.Sprintf("%T", msg)})
}

// View renders the UI.
func (a App) View() string {
	if !a.ready {
		return "Loading..."
	}
	if a.debugVisible {
		return debugOverlay(a.ring, a.width, a.height-1) + "\n" + debugStatusBar(a.width)
	}

	header := TitleStyle.Render(title) + " " + a.search.View()
	rule := RuleStyle.Render(strings.Repeat("─", max(a.width, 1)))

	h := a.listHeight()
	list, _ := RenderList(a.state.Products(), a.state.Generation(), a.offset, a.cursor, a.width, h)
	list = lipgloss.NewStyle().Height(h).MaxHeight(h).Render(list)

	return strings.Join([]string{
		header,
		rule,
		list,
		a.renderMessage(),
		a.renderStatusBar(),
		a.help.View(keys),
	}, "\n")
}

// renderMessage is the line under the list: loading, the two kinds of
// empty list, or a note about a failed page.
func (a App) renderMessage() string {
	switch {
	case a.state.Loading():
		return a.spinner.View() + MessageStyle.Render("Loading...")
	case a.state.Failed():
		return NoticeStyle.Render("Couldn't load products. Press r to retry.")
	case a.state.NoResults():
		return MessageStyle.Render("No products found!")
	case a.notice != "":
		return NoticeStyle.Render(a.notice)
	}
	return ""
}

func (a App) renderStatusBar() string {
	n := a.state.Len()
	pos := 0
	if n > 0 {
		pos = a.cursor + 1
	}

	var b strings.Builder
	b.WriteString(a.state.Mode().String())
	if q := a.state.ActiveQuery(); q != "" {
		fmt.Fprintf(&b, " %q", q)
	}
	fmt.Fprintf(&b, "  %d/%d", pos, n)
	if a.state.Mode() == browse.ModeBrowsing {
		if a.state.HasMore() {
			b.WriteString("  more below")
		} else if n > 0 {
			b.WriteString("  end of list")
		}
	}

	control := ""
	if a.tracker.ShowScrollTop() {
		control = ScrollTopControl.Render(scrollTopLabel)
	}

	inner := max(a.width-2, 1)
	leftWidth := max(inner-lipgloss.Width(control), 0)
	left := runewidth.FillRight(runewidth.Truncate(b.String(), leftWidth, "..."), leftWidth)
	return StatusBar.Width(max(a.width, 1)).Render(StatusBarText.Render(left) + control)
}

// Cursor returns the current cursor position (for testing).
func (a App) Cursor() int {
	return a.cursor
}

// Products returns the accumulated products (for testing).
func (a App) Products() []product.Product {
	return a.state.Products()
}
