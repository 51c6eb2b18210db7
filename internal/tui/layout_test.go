package tui

import (
	"testing"

	"github.com/csheth/flipbook/internal/book"
)

func TestPageLayoutUpdate(t *testing.T) {
	cases := []struct {
		name       string
		width      int
		height     int
		help       int
		zoomed     bool
		bookTop    int
		bookHeight int
		sliderRow  int
	}{
		{name: "plain", width: 80, height: 24, bookTop: 1, bookHeight: 21, sliderRow: 22},
		{name: "help open", width: 80, height: 24, help: 4, bookTop: 1, bookHeight: 17, sliderRow: 18},
		{name: "zoomed", width: 80, height: 24, zoomed: true, bookTop: 0, bookHeight: 24, sliderRow: -1},
		{name: "tiny", width: 10, height: 2, bookTop: 1, bookHeight: 1, sliderRow: 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			layout := newPageLayout()
			layout.Update(tc.width, tc.height, tc.help, tc.zoomed)
			if layout.bookTop != tc.bookTop {
				t.Fatalf("book top mismatch: got %d want %d", layout.bookTop, tc.bookTop)
			}
			if layout.bookHeight != tc.bookHeight {
				t.Fatalf("book height mismatch: got %d want %d", layout.bookHeight, tc.bookHeight)
			}
			if layout.sliderRow != tc.sliderRow {
				t.Fatalf("slider row mismatch: got %d want %d", layout.sliderRow, tc.sliderRow)
			}
			if layout.bookWidth != tc.width {
				t.Fatalf("book width mismatch: got %d want %d", layout.bookWidth, tc.width)
			}
		})
	}
}

func TestPageLayoutPixels(t *testing.T) {
	layout := newPageLayout()
	layout.Update(160, 40, 0, false)
	if got := layout.viewportPixels(); got != 1280 {
		t.Fatalf("viewport pixels mismatch: got %d want 1280", got)
	}
	w, h := layout.availablePixels()
	if w != 1280 || h != 37*16 {
		t.Fatalf("available pixels mismatch: got %dx%d", w, h)
	}
}

func TestSpreadBoxCentersFit(t *testing.T) {
	layout := newPageLayout()
	layout.Update(80, 24, 0, false)
	left, top, cols, rows := layout.spreadBox(book.FitBox{Width: 400, Height: 160})
	if left != 15 || top != 6 || cols != 50 || rows != 10 {
		t.Fatalf("spread box mismatch: got (%d,%d %dx%d) want (15,6 50x10)", left, top, cols, rows)
	}
}

func TestSliderPage(t *testing.T) {
	layout := newPageLayout()
	layout.Update(80, 24, 0, false)
	row := layout.sliderRow
	cases := []struct {
		x, y int
		want int
		ok   bool
	}{
		{x: 2, y: row, want: 1, ok: true},
		{x: 77, y: row, want: 10, ok: true},
		{x: 40, y: row, want: 6, ok: true},
		{x: 1, y: row, ok: false},
		{x: 40, y: row - 1, ok: false},
	}
	for _, tc := range cases {
		got, ok := layout.sliderPage(tc.x, tc.y, 10)
		if ok != tc.ok || (ok && got != tc.want) {
			t.Fatalf("slider page at (%d,%d) mismatch: got %d/%v want %d/%v", tc.x, tc.y, got, ok, tc.want, tc.ok)
		}
	}
	if got := sliderPercent(1, 10); got != 0 {
		t.Fatalf("percent mismatch: got %v want 0", got)
	}
	if got := sliderPercent(10, 10); got != 1 {
		t.Fatalf("percent mismatch: got %v want 1", got)
	}
	if got := sliderPercent(1, 1); got != 1 {
		t.Fatalf("single page percent mismatch: got %v want 1", got)
	}
}
