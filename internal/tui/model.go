package tui

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/csheth/flipbook/internal/assets"
	"github.com/csheth/flipbook/internal/book"
	"github.com/csheth/flipbook/internal/config"
	"github.com/csheth/flipbook/internal/gesture"
	"github.com/csheth/flipbook/internal/persist"
	"github.com/csheth/flipbook/internal/render"
)

// Config wires runtime options into the TUI program.
type Config struct {
	Book        config.Book
	Source      assets.Source
	Location    persist.Location
	Store       persist.Store
	NoAnimation bool
	Autoplay    bool
}

// New returns a tea.Model ready to be mounted into a Program.
func New(cfg Config) tea.Model {
	goTo := textinput.New()
	goTo.Prompt = "Go to page: "
	goTo.Placeholder = fmt.Sprintf("1-%d", cfg.Book.TotalPages)
	goTo.CharLimit = 6
	goTo.Width = 12

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	m := &model{
		config:    cfg,
		stage:     stageReading,
		adapter:   persist.NewAdapter(cfg.Location, cfg.Store, cfg.Book.StorageKey),
		strategy:  render.Select(cfg.NoAnimation),
		jobs:      newJobBus(),
		keys:      newKeyMap(),
		layout:    newPageLayout(),
		goToInput: goTo,
		slider:    progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		spinner:   spin,
		help:      help.New(),
		pages:     map[int]*pageState{},
	}
	start := m.adapter.Initial(cfg.Book.TotalPages, cfg.Book.StartPage)
	m.engine = book.New(book.Options{
		Total:          cfg.Book.TotalPages,
		Start:          start,
		SingleOnNarrow: cfg.Book.SinglePageOnMobile,
		Observer:       m,
	})
	m.gesture = gesture.New(m.engine)
	m.mirrored = start
	m.width, m.height = m.layout.windowWidth, m.layout.windowHeight
	m.relayout()
	return m
}

type model struct {
	config   Config
	stage    stage
	engine   *book.Engine
	gesture  *gesture.Interpreter
	adapter  *persist.Adapter
	strategy render.Strategy
	jobs     *jobBus
	keys     keyMap
	layout   pageLayout

	goToInput textinput.Model
	slider    progress.Model
	spinner   spinner.Model
	help      help.Model

	pages    map[int]*pageState
	spread   book.Spread
	fit      book.FitBox
	mirrored int

	width       int
	height      int
	sized       bool
	resizeSeq   int
	zoomed      bool
	autoplay    bool
	autoplayGen int
	spinning    bool

	frameQueued bool
	dragX       int
	dragPending bool
	liftedPage  int

	pending      []tea.Cmd
	infoMessage  string
	errorMessage string
}

func (m *model) Init() tea.Cmd {
	m.engine.Emit()
	var cmd tea.Cmd
	if m.config.Autoplay {
		cmd = m.toggleAutoplay()
	}
	return m.flush(cmd)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m, m.flush(m.handleWindowSize(msg))
	case resizeMsg:
		if msg.seq == m.resizeSeq {
			m.applyResize()
		}
		return m, m.flush(nil)
	case jobSignalMsg:
		m.jobs.Track(msg)
		if !m.spinning && m.jobs.Busy() {
			m.spinning = true
			return m, m.spinner.Tick
		}
		return m, nil
	case jobResultEnvelope:
		m.jobs.Track(msg)
		if msg.Payload == nil {
			return m, nil
		}
		return m.Update(msg.Payload)
	case pageLoadedMsg:
		m.handlePageLoaded(msg)
		return m, m.flush(nil)
	case autoplayMsg:
		return m, m.flush(m.handleAutoplay(msg))
	case frameMsg:
		return m, m.flush(m.handleFrame())
	case spinner.TickMsg:
		if !m.jobs.Busy() {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		return m, m.flush(m.handleKey(msg))
	case tea.MouseMsg:
		return m, m.flush(m.handleMouse(msg))
	}
	return m, nil
}

// SpreadChanged implements book.Observer.
func (m *model) SpreadChanged(spread book.Spread, fit book.FitBox) {
	m.spread = spread
	m.fit = fit
	if current := m.engine.Current(); current != m.mirrored {
		m.mirrored = current
		m.adapter.Mirror(current)
	}
	m.requestPages(spread.Pages(), jobKindLoad)
	m.requestPages(m.engine.Neighbors(preloadDepth), jobKindPreload)
}

// ModeChanged implements book.Observer.
func (m *model) ModeChanged(mode book.Mode) {
	m.infoMessage = fmt.Sprintf("Switched to %s-page view.", mode)
}

// flush batches cmd with anything queued by engine callbacks.
func (m *model) flush(cmd tea.Cmd) tea.Cmd {
	cmds := append(m.pending, cmd)
	m.pending = nil
	return tea.Batch(cmds...)
}

func (m *model) requestPages(pages []int, kind jobKind) {
	if m.config.Source == nil {
		return
	}
	for _, number := range pages {
		state := m.pageState(number)
		if state.loading || state.loaded || state.missing {
			continue
		}
		state.loading = true
		m.pending = append(m.pending, m.jobs.Start(kind, loadPageJob(m.config.Source, number)))
	}
}

func (m *model) pageState(number int) *pageState {
	state, ok := m.pages[number]
	if !ok {
		state = &pageState{}
		m.pages[number] = state
	}
	return state
}

func (m *model) handlePageLoaded(msg pageLoadedMsg) {
	state := m.pageState(msg.number)
	state.loading = false
	if msg.err != nil {
		log.Printf("[assets] page %d unavailable (%s): %v", msg.number, m.config.Source.Describe(msg.number), msg.err)
		state.missing = true
		m.engine.SetNaturalSize(msg.number, m.placeholderFor(msg.number))
		return
	}
	state.page = msg.page
	state.loaded = true
	state.missing = false
	m.engine.SetNaturalSize(msg.number, msg.page.Size)
}

// placeholderFor borrows a neighbour's size so a missing page keeps the
// spread's proportions.
func (m *model) placeholderFor(number int) book.Size {
	for _, near := range []int{number - 1, number + 1} {
		if size, ok := m.engine.NaturalSize(near); ok {
			return size
		}
	}
	return placeholderSize
}

func (m *model) handleWindowSize(msg tea.WindowSizeMsg) tea.Cmd {
	m.width, m.height = msg.Width, msg.Height
	m.relayout()
	m.resizeSeq++
	if !m.sized {
		m.sized = true
		// The engine starts without a viewport; settling into the first
		// real mode is not a switch worth announcing.
		info := m.infoMessage
		m.applyResize()
		m.infoMessage = info
		return nil
	}
	return resizeCmd(m.resizeSeq)
}

func (m *model) relayout() {
	m.help.Width = m.width
	helpHeight := 0
	if m.help.ShowAll {
		helpHeight = lipgloss.Height(m.help.View(m.keys))
	}
	m.layout.Update(m.width, m.height, helpHeight, m.zoomed)
	m.slider.Width = m.layout.sliderWidth
}

func (m *model) applyResize() {
	availW, availH := m.layout.availablePixels()
	m.engine.Resize(m.layout.viewportPixels(), availW, availH)
}

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.stage == stageGoTo {
		return m.handleGoToKey(msg)
	}
	m.errorMessage = ""
	m.infoMessage = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Next):
		m.gesture.Abandon()
		if !m.engine.Next() {
			m.infoMessage = "Last page."
		}
	case key.Matches(msg, m.keys.Prev):
		m.gesture.Abandon()
		if !m.engine.Prev() {
			m.infoMessage = "First page."
		}
	case key.Matches(msg, m.keys.First):
		m.gesture.Abandon()
		m.engine.First()
	case key.Matches(msg, m.keys.Last):
		m.gesture.Abandon()
		m.engine.Last()
	case key.Matches(msg, m.keys.GoTo):
		m.stage = stageGoTo
		m.goToInput.SetValue("")
		return m.goToInput.Focus()
	case key.Matches(msg, m.keys.Autoplay):
		return m.toggleAutoplay()
	case key.Matches(msg, m.keys.Zoom):
		m.zoomed = !m.zoomed
		m.relayout()
		m.applyResize()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.relayout()
		m.applyResize()
	}
	return nil
}

func (m *model) handleGoToKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyCtrlC:
		return tea.Quit
	case tea.KeyEsc:
		m.stage = stageReading
		m.goToInput.Blur()
		return nil
	case tea.KeyEnter:
		value := strings.TrimSpace(m.goToInput.Value())
		m.stage = stageReading
		m.goToInput.Blur()
		page, err := strconv.Atoi(value)
		if err != nil {
			m.errorMessage = fmt.Sprintf("Not a page number: %q", value)
			return nil
		}
		m.gesture.Abandon()
		m.engine.GoTo(page)
		return nil
	}
	var cmd tea.Cmd
	m.goToInput, cmd = m.goToInput.Update(msg)
	return cmd
}

func (m *model) autoplayInterval() time.Duration {
	if interval := m.config.Book.AutoplayInterval(); interval > 0 {
		return interval
	}
	return config.DefaultAutoplayMs * time.Millisecond
}

func (m *model) toggleAutoplay() tea.Cmd {
	m.autoplay = !m.autoplay
	m.autoplayGen++
	if !m.autoplay {
		m.infoMessage = "Autoplay off."
		return nil
	}
	m.infoMessage = fmt.Sprintf("Autoplay every %s.", m.autoplayInterval())
	return autoplayCmd(m.autoplayGen, m.autoplayInterval())
}

func (m *model) handleAutoplay(msg autoplayMsg) tea.Cmd {
	if !m.autoplay || msg.gen != m.autoplayGen {
		return nil
	}
	if m.gesture.Dragging() {
		return autoplayCmd(m.autoplayGen, m.autoplayInterval())
	}
	m.gesture.Abandon()
	if !m.engine.Next() {
		m.autoplay = false
		m.autoplayGen++
		m.infoMessage = "Autoplay stopped at the last page."
		return nil
	}
	return autoplayCmd(m.autoplayGen, m.autoplayInterval())
}

func (m *model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if m.stage != stageReading {
		return nil
	}
	switch msg.Type {
	case tea.MouseWheelUp:
		m.gesture.Abandon()
		m.engine.Prev()
	case tea.MouseWheelDown:
		m.gesture.Abandon()
		m.engine.Next()
	case tea.MouseLeft, tea.MouseMotion:
		if m.gesture.Dragging() {
			if !m.layout.inBookArea(msg.X, msg.Y) {
				return m.endDrag(m.gesture.Leave(msg.X))
			}
			m.dragX = msg.X
			m.dragPending = true
			return m.scheduleFrame()
		}
		if msg.Type != tea.MouseLeft {
			return nil
		}
		if page, ok := m.layout.sliderPage(msg.X, msg.Y, m.engine.Total()); ok {
			m.gesture.Abandon()
			m.engine.GoTo(page)
			return nil
		}
		m.beginDrag(msg.X, msg.Y)
	case tea.MouseRelease:
		if m.gesture.Dragging() {
			return m.endDrag(m.gesture.Release(msg.X))
		}
	}
	return nil
}

// beginDrag starts a gesture when the press lands on a visible page.
func (m *model) beginDrag(x, y int) {
	if !m.fit.Ready() {
		return
	}
	left, top, cols, rows := m.layout.spreadBox(m.fit)
	if x < left || x >= left+cols || y < top || y >= top+rows {
		return
	}
	side, width, slot := gesture.SideSingle, cols, 0
	if m.engine.Mode() == book.ModeDouble {
		switch {
		case m.spread.Left != 0 && m.spread.Right != 0:
			widths := render.SplitColumns(cols, m.visibleSizes())
			if x < left+widths[0] {
				side, width = gesture.SideLeft, widths[0]
			} else {
				side, width, slot = gesture.SideRight, widths[1], 1
			}
		case m.spread.Kind == book.KindCover:
			side = gesture.SideRight
		default:
			side = gesture.SideLeft
		}
	}
	if m.gesture.Begin(x, width, side) {
		m.liftedPage = m.spread.Pages()[slot]
		m.dragPending = false
	}
}

func (m *model) endDrag(decision gesture.Decision) tea.Cmd {
	m.dragPending = false
	if decision == gesture.DecisionCancel {
		m.infoMessage = "Turn cancelled."
	}
	if !m.strategy.Animates() {
		m.gesture.Abandon()
		return nil
	}
	return m.scheduleFrame()
}

func (m *model) scheduleFrame() tea.Cmd {
	if m.frameQueued {
		return nil
	}
	m.frameQueued = true
	return frameCmd()
}

// handleFrame applies the latest drag position and advances any settle
// animation, once per rendered frame.
func (m *model) handleFrame() tea.Cmd {
	m.frameQueued = false
	if m.gesture.Dragging() && m.dragPending {
		m.gesture.Move(m.dragX)
		m.dragPending = false
	}
	if m.gesture.State() == gesture.StateSettling && m.gesture.Step() {
		return m.scheduleFrame()
	}
	return nil
}

func (m *model) visibleSizes() []book.Size {
	pages := m.spread.Pages()
	sizes := make([]book.Size, len(pages))
	for i, page := range pages {
		sizes[i], _ = m.engine.NaturalSize(page)
	}
	return sizes
}

// indicator reads "Page N / T" for one visible page and "Pages L-R / T" for
// two.
func indicator(spread book.Spread, total int) string {
	pages := spread.Pages()
	switch len(pages) {
	case 0:
		return fmt.Sprintf("Page - / %d", total)
	case 1:
		return fmt.Sprintf("Page %d / %d", pages[0], total)
	default:
		return fmt.Sprintf("Pages %d-%d / %d", pages[0], pages[len(pages)-1], total)
	}
}
