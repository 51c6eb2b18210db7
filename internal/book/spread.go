package book

import "fmt"

// MobileBreakpoint is the viewport width, in logical pixels, below which the
// single-page-on-narrow policy switches the book to one page at a time.
const MobileBreakpoint = 980

// Mode selects how many pages are visible at once.
type Mode int

const (
	ModeSingle Mode = iota
	ModeDouble
)

func (m Mode) String() string {
	switch m {
	case ModeDouble:
		return "double"
	default:
		return "single"
	}
}

// Kind distinguishes the three spread shapes.
type Kind int

const (
	KindSingle Kind = iota
	KindCover
	KindSpread
)

// Spread is the set of pages visible for a cursor. A zero page number means
// nothing is shown on that side.
type Spread struct {
	Kind  Kind
	Left  int
	Right int
}

// Pages lists the visible pages from left to right.
func (s Spread) Pages() []int {
	pages := make([]int, 0, 2)
	if s.Left > 0 {
		pages = append(pages, s.Left)
	}
	if s.Right > 0 {
		pages = append(pages, s.Right)
	}
	return pages
}

// First returns the lowest visible page.
func (s Spread) First() int {
	if s.Left > 0 {
		return s.Left
	}
	return s.Right
}

// Last returns the highest visible page.
func (s Spread) Last() int {
	if s.Right > 0 {
		return s.Right
	}
	return s.Left
}

// Contains reports whether page is visible in the spread.
func (s Spread) Contains(page int) bool {
	return page > 0 && (page == s.Left || page == s.Right)
}

func (s Spread) String() string {
	switch s.Kind {
	case KindCover:
		return fmt.Sprintf("cover(%d)", s.Right)
	case KindSpread:
		if s.Right == 0 {
			return fmt.Sprintf("(%d)", s.Left)
		}
		return fmt.Sprintf("(%d,%d)", s.Left, s.Right)
	default:
		return fmt.Sprintf("[%d]", s.Left)
	}
}

// DisplayMode picks the display mode for a book. One-page books are always
// single; narrow viewports are single when singleOnNarrow is set.
func DisplayMode(total int, singleOnNarrow bool, viewportWidth int) Mode {
	if total <= 1 {
		return ModeSingle
	}
	if singleOnNarrow && viewportWidth < MobileBreakpoint {
		return ModeSingle
	}
	return ModeDouble
}

// Clamp forces page into [1, total].
func Clamp(page, total int) int {
	if total < 1 {
		total = 1
	}
	if page < 1 {
		return 1
	}
	if page > total {
		return total
	}
	return page
}

// SpreadFor derives the visible spread. In double mode page 1 sits alone on
// the right; afterwards even pages are left pages and odd pages pair with the
// even page before them, so cursor 3 shows (2,3).
func SpreadFor(current int, mode Mode, total int) Spread {
	current = Clamp(current, total)
	if mode == ModeSingle {
		return Spread{Kind: KindSingle, Left: current}
	}
	if current <= 1 {
		return Spread{Kind: KindCover, Right: 1}
	}
	left := current
	if left%2 != 0 {
		left--
	}
	right := left + 1
	if right > total {
		right = 0
	}
	return Spread{Kind: KindSpread, Left: left, Right: right}
}

// NextCursor returns the cursor after a forward turn and whether it moved.
func NextCursor(current int, mode Mode, total int) (int, bool) {
	current = Clamp(current, total)
	if mode == ModeSingle {
		if current < total {
			return current + 1, true
		}
		return current, false
	}
	if current == 1 {
		target := 2
		if target > total {
			target = total
		}
		return target, target != current
	}
	target := current + 1
	if current%2 == 0 {
		target = current + 2
	}
	if target > total {
		return current, false
	}
	return target, true
}

// PrevCursor returns the cursor after a backward turn and whether it moved.
func PrevCursor(current int, mode Mode, total int) (int, bool) {
	current = Clamp(current, total)
	if current <= 1 {
		return current, false
	}
	if mode == ModeSingle {
		return current - 1, true
	}
	left := current
	if left%2 != 0 {
		left--
	}
	target := left - 2
	if target < 2 {
		target = 1
	}
	return target, true
}

// LastCursor is the cursor that shows the final spread, which always ends at
// total: an odd total ends on (total-1, total), an even total ends on its
// last page alone on the left.
func LastCursor(mode Mode, total int) int {
	if total <= 1 {
		return 1
	}
	if mode == ModeSingle || total%2 == 0 {
		return total
	}
	return total - 1
}
