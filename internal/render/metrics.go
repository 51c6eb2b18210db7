package render

import "github.com/csheth/flipbook/internal/book"

// A terminal cell stands in for a block of logical pixels. Bitmaps use two
// pixel rows per cell through half-block glyphs.
const (
	CellWidth  = 8
	CellHeight = 16
)

// CellsToPixels converts a cell area to logical pixels.
func CellsToPixels(cols, rows int) (int, int) {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	return cols * CellWidth, rows * CellHeight
}

// PixelsToCells converts a fit box to whole cells, never rounding a visible
// box down to nothing.
func PixelsToCells(fit book.FitBox) (int, int) {
	if !fit.Ready() {
		return 0, 0
	}
	cols := fit.Width / CellWidth
	rows := fit.Height / CellHeight
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return cols, rows
}

// SplitColumns shares cols between pages in proportion to their natural
// widths.
func SplitColumns(cols int, sizes []book.Size) []int {
	out := make([]int, len(sizes))
	if len(sizes) == 0 {
		return out
	}
	total := 0
	for _, size := range sizes {
		total += size.Width
	}
	if total <= 0 {
		for i := range out {
			out[i] = cols / len(sizes)
		}
		return out
	}
	used := 0
	for i, size := range sizes {
		if i == len(sizes)-1 {
			out[i] = cols - used
			break
		}
		out[i] = cols * size.Width / total
		used += out[i]
	}
	return out
}
