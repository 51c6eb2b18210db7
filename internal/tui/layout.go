package tui

import (
	"math"

	"github.com/csheth/flipbook/internal/book"
	"github.com/csheth/flipbook/internal/render"
)

const (
	headerHeight = 1
	footerHeight = 2
	sliderMargin = 2
	minSlider    = 10
)

// pageLayout splits the window into header, book area, slider and status
// rows. Zoomed layouts give the whole window to the book.
type pageLayout struct {
	windowWidth  int
	windowHeight int
	zoomed       bool

	bookTop    int
	bookWidth  int
	bookHeight int

	sliderRow   int
	sliderLeft  int
	sliderWidth int
}

func newPageLayout() pageLayout {
	l := pageLayout{}
	l.Update(80, 24, 0, false)
	return l
}

func (l *pageLayout) Update(width, height, helpHeight int, zoomed bool) {
	l.windowWidth = width
	l.windowHeight = height
	l.zoomed = zoomed
	chrome := headerHeight + footerHeight + helpHeight
	l.bookTop = headerHeight
	if zoomed {
		chrome = helpHeight
		l.bookTop = 0
	}
	l.bookWidth = width
	if l.bookWidth < 1 {
		l.bookWidth = 1
	}
	l.bookHeight = height - chrome
	if l.bookHeight < 1 {
		l.bookHeight = 1
	}
	l.sliderRow = l.bookTop + l.bookHeight
	l.sliderLeft = sliderMargin
	l.sliderWidth = width - 2*sliderMargin
	if l.sliderWidth < minSlider {
		l.sliderWidth = minSlider
	}
	if zoomed {
		l.sliderRow = -1
	}
}

// viewportPixels is the window width in logical pixels, compared against
// the narrow-screen breakpoint.
func (l pageLayout) viewportPixels() int {
	w, _ := render.CellsToPixels(l.windowWidth, 0)
	return w
}

// availablePixels is the book area in logical pixels.
func (l pageLayout) availablePixels() (int, int) {
	return render.CellsToPixels(l.bookWidth, l.bookHeight)
}

// spreadBox returns the on-screen cell rectangle the fitted spread occupies
// once centered in the book area.
func (l pageLayout) spreadBox(fit book.FitBox) (left, top, cols, rows int) {
	cols, rows = render.PixelsToCells(fit)
	if cols > l.bookWidth {
		cols = l.bookWidth
	}
	if rows > l.bookHeight {
		rows = l.bookHeight
	}
	left = (l.bookWidth - cols) / 2
	top = l.bookTop + (l.bookHeight-rows)/2
	return left, top, cols, rows
}

func (l pageLayout) inBookArea(x, y int) bool {
	return x >= 0 && x < l.bookWidth && y >= l.bookTop && y < l.bookTop+l.bookHeight
}

// sliderPage maps a click on the slider row to a page number.
func (l pageLayout) sliderPage(x, y, total int) (int, bool) {
	if l.sliderRow < 0 || y != l.sliderRow {
		return 0, false
	}
	if x < l.sliderLeft || x >= l.sliderLeft+l.sliderWidth {
		return 0, false
	}
	if total <= 1 || l.sliderWidth <= 1 {
		return 1, true
	}
	frac := float64(x-l.sliderLeft) / float64(l.sliderWidth-1)
	return 1 + int(math.Round(frac*float64(total-1))), true
}

// sliderPercent places current on the slider.
func sliderPercent(current, total int) float64 {
	if total <= 1 {
		return 1
	}
	return float64(current-1) / float64(total-1)
}
