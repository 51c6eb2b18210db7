// Package render draws a spread into terminal cells.
package render

import (
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/csheth/flipbook/internal/book"
)

// Slot is one visible page as the renderer sees it.
type Slot struct {
	Page    int
	Size    book.Size
	Image   image.Image
	Text    string
	Loaded  bool
	Missing bool
}

// Frame is everything needed to draw one screen of the book.
type Frame struct {
	Spread book.Spread
	Slots  []Slot
	Fit    book.FitBox
	// Lifted is the index into Slots of the page being turned, or -1.
	Lifted int
	// Angle is the cosmetic rotation of the lifted page in degrees.
	Angle float64
	// Width and Height are the cells available to the book.
	Width  int
	Height int
}

// Strategy renders frames. It is chosen once at startup.
type Strategy interface {
	Name() string
	Animates() bool
	Render(frame Frame) string
}

// Select returns StaticFallback when animation is disabled or the terminal
// cannot show colour, and Animated otherwise.
func Select(noAnimation bool) Strategy {
	if noAnimation || lipgloss.ColorProfile() == termenv.Ascii {
		return NewStatic()
	}
	return NewAnimated()
}

type base struct {
	bitmaps *bitmapCache
}

func newBase() base {
	return base{bitmaps: newBitmapCache(64)}
}

// Animated squashes the lifted page by cos(angle) to fake the turn.
type Animated struct {
	base
}

func NewAnimated() *Animated {
	return &Animated{base: newBase()}
}

func (a *Animated) Name() string   { return "animated" }
func (a *Animated) Animates() bool { return true }

func (a *Animated) Render(frame Frame) string {
	return a.draw(frame, true)
}

// StaticFallback draws pages flat and ignores the gesture angle.
type StaticFallback struct {
	base
}

func NewStatic() *StaticFallback {
	return &StaticFallback{base: newBase()}
}

func (s *StaticFallback) Name() string   { return "static" }
func (s *StaticFallback) Animates() bool { return false }

func (s *StaticFallback) Render(frame Frame) string {
	return s.draw(frame, false)
}

func (b base) draw(frame Frame, animate bool) string {
	if frame.Width <= 0 || frame.Height <= 0 {
		return ""
	}
	if len(frame.Slots) == 0 {
		return lipgloss.Place(frame.Width, frame.Height, lipgloss.Center, lipgloss.Center, placeholderStyle.Render("No pages"))
	}
	if !frame.Fit.Ready() {
		pages := make([]string, 0, len(frame.Slots))
		for _, slot := range frame.Slots {
			pages = append(pages, fmt.Sprintf("%d", slot.Page))
		}
		message := fmt.Sprintf("Loading page %s…", strings.Join(pages, " & "))
		return lipgloss.Place(frame.Width, frame.Height, lipgloss.Center, lipgloss.Center, placeholderStyle.Render(message))
	}

	cols, rows := PixelsToCells(frame.Fit)
	if cols > frame.Width {
		cols = frame.Width
	}
	if rows > frame.Height {
		rows = frame.Height
	}
	sizes := make([]book.Size, len(frame.Slots))
	for i, slot := range frame.Slots {
		sizes[i] = slot.Size
	}
	widths := SplitColumns(cols, sizes)

	rendered := make([]string, 0, len(frame.Slots))
	for i, slot := range frame.Slots {
		width := widths[i]
		if animate && i == frame.Lifted && frame.Angle != 0 {
			rendered = append(rendered, b.lifted(slot, width, rows, frame.Angle, i == 0 && len(frame.Slots) > 1))
			continue
		}
		rendered = append(rendered, b.page(slot, width, rows))
	}
	spread := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
	return lipgloss.Place(frame.Width, frame.Height, lipgloss.Center, lipgloss.Center, spread)
}

func (b base) page(slot Slot, cols, rows int) string {
	switch {
	case cols <= 0 || rows <= 0:
		return ""
	case slot.Missing:
		return notice(fmt.Sprintf("page %d missing", slot.Page), missingStyle, cols, rows)
	case !slot.Loaded:
		return notice(fmt.Sprintf("page %d…", slot.Page), placeholderStyle, cols, rows)
	case slot.Image != nil:
		return b.bitmaps.render(slot.Page, slot.Image, cols, rows)
	default:
		return textPage(slot.Text, cols, rows)
	}
}

// lifted draws a page squashed toward the spine. Left pages hinge on their
// right edge, right pages on their left edge.
func (b base) lifted(slot Slot, cols, rows int, angle float64, hingeRight bool) string {
	squashed := int(math.Round(float64(cols) * math.Abs(math.Cos(angle*math.Pi/180))))
	if squashed < 1 {
		squashed = 1
	}
	face := liftedStyle.Render(b.page(slot, squashed, rows))
	gap := blank(cols-squashed, rows)
	if gap == "" {
		return face
	}
	if hingeRight {
		return lipgloss.JoinHorizontal(lipgloss.Top, gap, face)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, face, gap)
}
