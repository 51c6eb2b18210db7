package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/flipbook/internal/assets"
	"github.com/csheth/flipbook/internal/book"
	"github.com/csheth/flipbook/internal/config"
	"github.com/csheth/flipbook/internal/gesture"
	"github.com/csheth/flipbook/internal/persist"
	"github.com/csheth/flipbook/internal/render"
)

type fakeSource struct {
	size    book.Size
	missing map[int]bool
}

func (f fakeSource) Load(ctx context.Context, page int) (assets.Page, error) {
	if f.missing[page] {
		return assets.Page{}, errors.New("not found")
	}
	return assets.Page{Number: page, Size: f.size, Text: fmt.Sprintf("page %d", page)}, nil
}

func (f fakeSource) Describe(page int) string { return fmt.Sprintf("fake/%d", page) }

type fixture struct {
	model    *model
	store    persist.MemoryStore
	location *persist.URLLocation
}

func newFixture(t *testing.T, total int, singleOnNarrow bool) fixture {
	t.Helper()
	location, err := persist.ParseLocation("flipbook://book.json")
	if err != nil {
		t.Fatalf("ParseLocation: %v", err)
	}
	store := persist.MemoryStore{}
	cfg := config.Book{Title: "Fixture", TotalPages: total, Path: "pages", SinglePageOnMobile: singleOnNarrow}
	cfg.ApplyDefaults()
	teaModel, ok := New(Config{
		Book:        cfg,
		Source:      fakeSource{size: book.Size{Width: 400, Height: 600}},
		Location:    location,
		Store:       store,
		NoAnimation: true,
	}).(*model)
	if !ok {
		t.Fatalf("expected *model, got %T", teaModel)
	}
	teaModel.Init()
	return fixture{model: teaModel, store: store, location: location}
}

func (f fixture) resize(width, height int) {
	f.model.Update(tea.WindowSizeMsg{Width: width, Height: height})
}

func (f fixture) press(keys ...string) {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		f.model.Update(msg)
	}
}

// loadVisible delivers every visible page through the job envelope path.
func (f fixture) loadVisible(t *testing.T) {
	t.Helper()
	for _, page := range f.model.spread.Pages() {
		loaded, err := f.model.config.Source.Load(context.Background(), page)
		f.model.Update(jobResultEnvelope{
			Snapshot: jobSnapshot{Kind: jobKindLoad, Status: jobStatusSucceeded},
			Payload:  pageLoadedMsg{number: page, page: loaded, err: err},
		})
	}
}

func TestKeyNavigationUpdatesIndicatorAndPersistence(t *testing.T) {
	f := newFixture(t, 10, false)
	f.resize(160, 40)
	if got := indicator(f.model.spread, 10); got != "Page 1 / 10" {
		t.Fatalf("indicator mismatch: got %q want %q", got, "Page 1 / 10")
	}

	f.press("right", "right")
	if got := indicator(f.model.spread, 10); got != "Pages 4-5 / 10" {
		t.Fatalf("indicator mismatch: got %q want %q", got, "Pages 4-5 / 10")
	}
	if raw, ok, _ := f.store.Get("flipbook:Fixture:page"); !ok || raw != "4" {
		t.Fatalf("stored cursor mismatch: got %q (%v)", raw, ok)
	}
	if frag := f.location.Fragment(); frag != "page=4" {
		t.Fatalf("fragment mismatch: got %q", frag)
	}

	f.press("G")
	if got := f.model.spread.String(); got != "(10)" {
		t.Fatalf("last spread mismatch: got %s", got)
	}
	f.press("right")
	if !strings.Contains(f.model.infoMessage, "Last page") {
		t.Fatalf("expected a last-page notice, got %q", f.model.infoMessage)
	}
	f.press("g")
	if f.model.engine.Current() != 1 {
		t.Fatalf("first page mismatch: got %d", f.model.engine.Current())
	}
}

func TestGoToOddPageMirrorsCursor(t *testing.T) {
	f := newFixture(t, 10, false)
	f.resize(160, 40)
	f.press("right")
	if raw, _, _ := f.store.Get("flipbook:Fixture:page"); raw != "2" {
		t.Fatalf("stored cursor mismatch: got %q want 2", raw)
	}
	f.press(":", "3", "enter")
	if f.model.engine.Current() != 3 {
		t.Fatalf("current mismatch: got %d want 3", f.model.engine.Current())
	}
	if raw, _, _ := f.store.Get("flipbook:Fixture:page"); raw != "3" {
		t.Fatalf("stored cursor mismatch: got %q want 3", raw)
	}
	if frag := f.location.Fragment(); frag != "page=3" {
		t.Fatalf("fragment mismatch: got %q want page=3", frag)
	}
}

func TestStartupLeavesLocationAlone(t *testing.T) {
	f := newFixture(t, 10, true)
	f.resize(160, 40)
	if f.model.engine.Mode() != book.ModeDouble {
		t.Fatalf("mode mismatch: got %v want double", f.model.engine.Mode())
	}
	if _, ok, _ := f.store.Get("flipbook:Fixture:page"); ok {
		t.Fatal("nothing should be stored before the reader navigates")
	}
	if frag := f.location.Fragment(); frag != "" {
		t.Fatalf("fragment mismatch: got %q want empty", frag)
	}
	if f.model.infoMessage != "" {
		t.Fatalf("first layout should not announce a mode switch, got %q", f.model.infoMessage)
	}
}

func TestInitialCursorFromFragment(t *testing.T) {
	location, err := persist.ParseLocation("flipbook://book.json#zoom=1&page=7")
	if err != nil {
		t.Fatalf("ParseLocation: %v", err)
	}
	cfg := config.Book{TotalPages: 10, Path: "pages"}
	cfg.ApplyDefaults()
	m := New(Config{Book: cfg, Location: location, Store: persist.MemoryStore{}, NoAnimation: true}).(*model)
	m.Init()
	m.Update(tea.WindowSizeMsg{Width: 160, Height: 40})
	if got := m.spread.String(); got != "(6,7)" {
		t.Fatalf("initial spread mismatch: got %s", got)
	}
	if frag := location.Fragment(); frag != "zoom=1&page=7" {
		t.Fatalf("fragment should keep other tokens, got %q", frag)
	}
}

func TestResizeIsDebounced(t *testing.T) {
	f := newFixture(t, 10, true)
	f.resize(160, 40)
	if f.model.engine.Mode() != book.ModeDouble {
		t.Fatalf("expected double mode on a wide window, got %v", f.model.engine.Mode())
	}

	f.resize(100, 40)
	f.resize(90, 40)
	f.resize(170, 40)
	f.model.Update(resizeMsg{seq: f.model.resizeSeq - 1})
	if f.model.engine.Mode() != book.ModeDouble {
		t.Fatal("a superseded resize must not be applied")
	}

	f.resize(100, 40)
	f.model.Update(resizeMsg{seq: f.model.resizeSeq})
	if f.model.engine.Mode() != book.ModeSingle {
		t.Fatalf("expected single mode after the final narrow resize, got %v", f.model.engine.Mode())
	}
	if !strings.Contains(f.model.infoMessage, "single-page") {
		t.Fatalf("expected a mode notice, got %q", f.model.infoMessage)
	}
}

func TestPageLoadsRefitSpread(t *testing.T) {
	f := newFixture(t, 10, false)
	f.resize(160, 40)
	if f.model.fit.Ready() {
		t.Fatal("fit should be deferred until the page size is known")
	}
	if !f.model.pages[1].loading {
		t.Fatal("visible page should be loading")
	}
	if _, ok := f.model.pages[2]; !ok {
		t.Fatal("neighbouring pages should be preloaded")
	}
	f.loadVisible(t)
	if !f.model.fit.Ready() {
		t.Fatal("fit should resolve once the visible page has loaded")
	}
	if f.model.engine.Current() != 1 {
		t.Fatalf("loading must not move the cursor, got %d", f.model.engine.Current())
	}
	if view := f.model.View(); !strings.Contains(view, "page 1") || !strings.Contains(view, "Page 1 / 10") {
		t.Fatalf("view missing page content:\n%s", view)
	}
}

func TestFailedLoadShowsPlaceholder(t *testing.T) {
	f := newFixture(t, 10, false)
	f.model.config.Source = fakeSource{size: book.Size{Width: 400, Height: 600}, missing: map[int]bool{3: true}}
	f.resize(160, 40)
	f.press("right")
	f.loadVisible(t)

	if !f.model.pages[3].missing {
		t.Fatal("page 3 should be marked missing")
	}
	size, ok := f.model.engine.NaturalSize(3)
	if !ok || size != (book.Size{Width: 400, Height: 600}) {
		t.Fatalf("placeholder size mismatch: got %+v (%v)", size, ok)
	}
	if !f.model.fit.Ready() {
		t.Fatal("a missing page must not block the fit")
	}
	if view := f.model.View(); !strings.Contains(view, "page 3 missing") {
		t.Fatalf("view missing placeholder:\n%s", view)
	}
}

func TestGoToPrompt(t *testing.T) {
	f := newFixture(t, 10, false)
	f.resize(160, 40)
	f.press(":", "7", "enter")
	if got := indicator(f.model.spread, 10); got != "Pages 6-7 / 10" {
		t.Fatalf("indicator mismatch: got %q", got)
	}
	if f.model.stage != stageReading {
		t.Fatal("prompt should close after enter")
	}

	f.press(":", "x", "enter")
	if f.model.errorMessage == "" {
		t.Fatal("expected an error for a non-numeric page")
	}
	if f.model.engine.Current() != 7 {
		t.Fatalf("cursor should not move, got %d", f.model.engine.Current())
	}

	f.press(":", "2", "esc")
	if f.model.engine.Current() != 7 || f.model.stage != stageReading {
		t.Fatal("esc should cancel the prompt")
	}
}

func TestAutoplay(t *testing.T) {
	f := newFixture(t, 4, false)
	f.resize(160, 40)
	f.press("p")
	if !f.model.autoplay {
		t.Fatal("autoplay should be on")
	}
	gen := f.model.autoplayGen
	f.model.Update(autoplayMsg{gen: gen - 1})
	if f.model.engine.Current() != 1 {
		t.Fatal("stale autoplay ticks must be ignored")
	}
	f.model.Update(autoplayMsg{gen: gen})
	if got := f.model.spread.String(); got != "(2,3)" {
		t.Fatalf("autoplay spread mismatch: got %s", got)
	}
	f.model.Update(autoplayMsg{gen: gen})
	if got := f.model.spread.String(); got != "(4)" {
		t.Fatalf("autoplay spread mismatch: got %s", got)
	}
	f.model.Update(autoplayMsg{gen: gen})
	if f.model.autoplay {
		t.Fatal("autoplay should stop at the end of the book")
	}
}

func TestMouseWheelAndSlider(t *testing.T) {
	f := newFixture(t, 10, false)
	f.resize(160, 40)
	f.model.Update(tea.MouseMsg{Type: tea.MouseWheelDown, X: 80, Y: 10})
	if got := f.model.spread.String(); got != "(2,3)" {
		t.Fatalf("wheel spread mismatch: got %s", got)
	}
	f.model.Update(tea.MouseMsg{Type: tea.MouseWheelUp, X: 80, Y: 10})
	if f.model.engine.Current() != 1 {
		t.Fatalf("wheel back mismatch: got %d", f.model.engine.Current())
	}

	layout := f.model.layout
	f.model.Update(tea.MouseMsg{Type: tea.MouseLeft, X: layout.sliderLeft + layout.sliderWidth - 1, Y: layout.sliderRow})
	if f.model.engine.Current() != 10 {
		t.Fatalf("slider click mismatch: got %d", f.model.engine.Current())
	}
	if f.model.gesture.Dragging() {
		t.Fatal("a slider click must not start a drag")
	}
}

func TestDragGestureTurnsPage(t *testing.T) {
	f := newFixture(t, 10, false)
	f.resize(160, 40)
	f.loadVisible(t)
	left, top, cols, rows := f.model.layout.spreadBox(f.model.fit)
	y := top + rows/2

	f.model.Update(tea.MouseMsg{Type: tea.MouseLeft, X: left + cols - 2, Y: y})
	if !f.model.gesture.Dragging() {
		t.Fatal("press on the cover should start a drag")
	}
	f.model.Update(tea.MouseMsg{Type: tea.MouseLeft, X: left + cols/2, Y: y})
	f.model.Update(frameMsg{})
	if f.model.gesture.Angle() <= 0 {
		t.Fatalf("dragging toward the spine should lift the page, angle %v", f.model.gesture.Angle())
	}
	f.model.Update(tea.MouseMsg{Type: tea.MouseRelease, X: left + 2, Y: y})
	if got := f.model.spread.String(); got != "(2,3)" {
		t.Fatalf("gesture spread mismatch: got %s", got)
	}

	f.loadVisible(t)
	left, top, cols, rows = f.model.layout.spreadBox(f.model.fit)
	y = top + rows/2
	f.model.Update(tea.MouseMsg{Type: tea.MouseLeft, X: left + cols - 2, Y: y})
	f.model.Update(tea.MouseMsg{Type: tea.MouseRelease, X: left + cols - 4, Y: y})
	if got := f.model.spread.String(); got != "(2,3)" {
		t.Fatalf("a short drag should cancel, got %s", got)
	}
	if !strings.Contains(f.model.infoMessage, "cancelled") {
		t.Fatalf("expected a cancel notice, got %q", f.model.infoMessage)
	}
}

func TestCommittedTurnDropsLiftedPage(t *testing.T) {
	f := newFixture(t, 10, false)
	f.model.strategy = render.NewAnimated()
	f.resize(160, 40)
	f.press("right")
	f.loadVisible(t)

	left, top, cols, rows := f.model.layout.spreadBox(f.model.fit)
	widths := render.SplitColumns(cols, f.model.visibleSizes())
	y := top + rows/2
	start := left + cols - 2
	release := start - widths[1]*2/3

	f.model.Update(tea.MouseMsg{Type: tea.MouseLeft, X: start, Y: y})
	f.model.Update(tea.MouseMsg{Type: tea.MouseLeft, X: release, Y: y})
	f.model.Update(frameMsg{})
	if got := f.model.frame().Lifted; got != 1 {
		t.Fatalf("lifted slot mismatch: got %d want 1", got)
	}

	f.model.Update(tea.MouseMsg{Type: tea.MouseRelease, X: release, Y: y})
	if got := f.model.spread.String(); got != "(4,5)" {
		t.Fatalf("committed spread mismatch: got %s want (4,5)", got)
	}
	if f.model.gesture.State() != gesture.StateSettling {
		t.Fatalf("state mismatch: got %v want settling", f.model.gesture.State())
	}
	if got := f.model.frame().Lifted; got != -1 {
		t.Fatalf("lifted slot mismatch after the turn: got %d want -1", got)
	}
}

func TestHelpAndZoomRelayout(t *testing.T) {
	f := newFixture(t, 10, false)
	f.resize(160, 40)
	plain := f.model.layout.bookHeight
	f.press("?")
	if f.model.layout.bookHeight >= plain {
		t.Fatalf("full help should shrink the book area: %d vs %d", f.model.layout.bookHeight, plain)
	}
	f.press("?", "z")
	if f.model.layout.bookHeight != 40 {
		t.Fatalf("zoom should give the book the whole window, got %d", f.model.layout.bookHeight)
	}
	if strings.Contains(f.model.View(), "Page 1 / 10") {
		t.Fatal("zoomed view should hide the header")
	}
}

func TestQuitKey(t *testing.T) {
	f := newFixture(t, 10, false)
	_, cmd := f.model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if !yieldsQuit(cmd) {
		t.Fatal("q should quit")
	}
}

func yieldsQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	switch msg := cmd().(type) {
	case tea.QuitMsg:
		return true
	case tea.BatchMsg:
		for _, inner := range msg {
			if yieldsQuit(inner) {
				return true
			}
		}
	}
	return false
}
