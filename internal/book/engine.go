package book

// Observer receives the engine's notifications. Callbacks may call back into
// the engine; those calls take effect immediately and their notification is
// delivered once the running callback returns.
type Observer interface {
	SpreadChanged(spread Spread, fit FitBox)
	ModeChanged(mode Mode)
}

// Options configures a new Engine.
type Options struct {
	Total          int
	Start          int
	SingleOnNarrow bool
	ViewportWidth  int
	Observer       Observer
}

// Engine owns the book state: total, cursor and display mode. All mutations
// go through its methods.
type Engine struct {
	total          int
	current        int
	mode           Mode
	singleOnNarrow bool
	viewportWidth  int
	available      Size
	sizes          map[int]Size
	observer       Observer

	emitted     bool
	lastCurrent int
	lastMode    Mode
	lastSpread  Spread
	lastFit     FitBox
	notifying   bool
	modePending bool
}

// New builds an engine positioned on the clamped start page.
func New(opts Options) *Engine {
	total := opts.Total
	if total < 1 {
		total = 1
	}
	e := &Engine{
		total:          total,
		current:        Clamp(opts.Start, total),
		singleOnNarrow: opts.SingleOnNarrow,
		viewportWidth:  opts.ViewportWidth,
		sizes:          map[int]Size{},
		observer:       opts.Observer,
	}
	e.mode = DisplayMode(total, e.singleOnNarrow, e.viewportWidth)
	return e
}

// SetObserver replaces the notification target.
func (e *Engine) SetObserver(observer Observer) {
	e.observer = observer
}

func (e *Engine) Total() int   { return e.total }
func (e *Engine) Current() int { return e.current }
func (e *Engine) Mode() Mode   { return e.mode }

// Spread returns the spread for the current cursor.
func (e *Engine) Spread() Spread {
	return SpreadFor(e.current, e.mode, e.total)
}

// FitBox returns the current fit, or a zero box while it is deferred.
func (e *Engine) FitBox() FitBox {
	spread := e.Spread()
	pages := spread.Pages()
	sizes := make([]Size, 0, len(pages))
	for _, page := range pages {
		sizes = append(sizes, e.sizes[page])
	}
	box, ok := Fit(sizes, e.available.Width, e.available.Height)
	if !ok {
		return FitBox{}
	}
	return box
}

// NaturalSize returns the recorded size of page, if any.
func (e *Engine) NaturalSize(page int) (Size, bool) {
	size, ok := e.sizes[page]
	return size, ok && size.Known()
}

// Next turns forward. It reports false at the end of the book.
func (e *Engine) Next() bool {
	target, moved := NextCursor(e.current, e.mode, e.total)
	if !moved {
		return false
	}
	e.current = target
	e.changed()
	return true
}

// Prev turns backward. It reports false on the first page.
func (e *Engine) Prev() bool {
	target, moved := PrevCursor(e.current, e.mode, e.total)
	if !moved {
		return false
	}
	e.current = target
	e.changed()
	return true
}

// First jumps to page 1.
func (e *Engine) First() {
	e.GoTo(1)
}

// Last jumps to the final spread.
func (e *Engine) Last() {
	e.GoTo(LastCursor(e.mode, e.total))
}

// GoTo moves the cursor to n, clamped into the book.
func (e *Engine) GoTo(n int) {
	n = Clamp(n, e.total)
	if n == e.current {
		return
	}
	e.current = n
	e.changed()
}

// Resize re-evaluates the display mode for a new viewport width and refits
// the spread into the available pixel box.
func (e *Engine) Resize(viewportWidth, availableWidth, availableHeight int) {
	e.viewportWidth = viewportWidth
	e.available = Size{Width: availableWidth, Height: availableHeight}
	mode := DisplayMode(e.total, e.singleOnNarrow, viewportWidth)
	if mode != e.mode {
		e.mode = mode
		e.current = Clamp(e.current, e.total)
		e.modePending = true
	}
	e.changed()
}

// SetNaturalSize records a page's natural size once its image resolves. It
// never moves the cursor; visible pages trigger a refit.
func (e *Engine) SetNaturalSize(page int, size Size) {
	if page < 1 || page > e.total {
		return
	}
	e.sizes[page] = size
	if e.Spread().Contains(page) {
		e.changed()
	}
}

// Emit notifies the observer of the current state even if nothing changed.
func (e *Engine) Emit() {
	e.emitted = false
	e.changed()
}

// VisiblePages lists the pages of the current spread, left to right.
func (e *Engine) VisiblePages() []int {
	return e.Spread().Pages()
}

// Neighbors lists the pages of up to depth spreads on each side of the
// current one, nearest first, for preloading.
func (e *Engine) Neighbors(depth int) []int {
	var pages []int
	seen := map[int]bool{}
	for _, page := range e.VisiblePages() {
		seen[page] = true
	}
	add := func(cursor int) {
		for _, page := range SpreadFor(cursor, e.mode, e.total).Pages() {
			if !seen[page] {
				seen[page] = true
				pages = append(pages, page)
			}
		}
	}
	forward, backward := e.current, e.current
	for i := 0; i < depth; i++ {
		if next, ok := NextCursor(forward, e.mode, e.total); ok {
			forward = next
			add(forward)
		}
		if prev, ok := PrevCursor(backward, e.mode, e.total); ok {
			backward = prev
			add(backward)
		}
	}
	return pages
}

func (e *Engine) changed() {
	if e.notifying {
		return
	}
	e.notifying = true
	defer func() { e.notifying = false }()
	for {
		if e.modePending {
			e.modePending = false
			if e.observer != nil {
				e.observer.ModeChanged(e.mode)
			}
			continue
		}
		// The cursor is part of the key: in double mode 2 and 3 share a
		// spread, but observers still mirror the move.
		spread, fit := e.Spread(), e.FitBox()
		if e.emitted && e.current == e.lastCurrent && e.mode == e.lastMode &&
			spread == e.lastSpread && fit == e.lastFit {
			return
		}
		e.emitted = true
		e.lastCurrent, e.lastMode = e.current, e.mode
		e.lastSpread, e.lastFit = spread, fit
		if e.observer != nil {
			e.observer.SpreadChanged(spread, fit)
		}
	}
}
