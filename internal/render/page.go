package render

import (
	"fmt"
	"image"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/disintegration/imaging"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
)

const halfBlock = "▀"

var (
	pageBorderStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240"))
	pageTextStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	placeholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true)
	missingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	liftedStyle      = lipgloss.NewStyle().Faint(true)
)

type bitmapKey struct {
	page int
	cols int
	rows int
}

// bitmapCache keeps rendered half-block pages; redraws during a drag reuse
// them.
type bitmapCache struct {
	entries map[bitmapKey]string
	limit   int
}

func newBitmapCache(limit int) *bitmapCache {
	return &bitmapCache{entries: map[bitmapKey]string{}, limit: limit}
}

func (c *bitmapCache) render(page int, img image.Image, cols, rows int) string {
	key := bitmapKey{page: page, cols: cols, rows: rows}
	if out, ok := c.entries[key]; ok {
		return out
	}
	out := halfBlocks(img, cols, rows)
	if len(c.entries) >= c.limit {
		c.entries = map[bitmapKey]string{}
	}
	c.entries[key] = out
	return out
}

// halfBlocks draws img into cols×rows cells, two pixel rows per cell.
func halfBlocks(img image.Image, cols, rows int) string {
	if img == nil || cols <= 0 || rows <= 0 {
		return ""
	}
	scaled := imaging.Resize(img, cols, rows*2, imaging.Box)
	var b strings.Builder
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			top := scaled.NRGBAAt(x, 2*y)
			bottom := scaled.NRGBAAt(x, 2*y+1)
			style := lipgloss.NewStyle().
				Foreground(lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", top.R, top.G, top.B))).
				Background(lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", bottom.R, bottom.G, bottom.B)))
			b.WriteString(style.Render(halfBlock))
		}
		if y < rows-1 {
			b.WriteRune('\n')
		}
	}
	return b.String()
}

// textPage lays text out inside a bordered cols×rows box.
func textPage(text string, cols, rows int) string {
	innerW, innerH := cols-2, rows-2
	if innerW < 1 || innerH < 1 {
		return blank(cols, rows)
	}
	wrapped := wordwrap.String(text, innerW)
	lines := strings.Split(wrapped, "\n")
	if len(lines) > innerH {
		lines = lines[:innerH]
	}
	for i, line := range lines {
		lines[i] = truncate.StringWithTail(line, uint(innerW), "…")
	}
	body := pageTextStyle.Width(innerW).Height(innerH).Render(strings.Join(lines, "\n"))
	return pageBorderStyle.Render(body)
}

// notice draws a bordered cols×rows box with a centered message.
func notice(message string, style lipgloss.Style, cols, rows int) string {
	innerW, innerH := cols-2, rows-2
	if innerW < 1 || innerH < 1 {
		return blank(cols, rows)
	}
	message = truncate.StringWithTail(message, uint(innerW), "…")
	body := lipgloss.Place(innerW, innerH, lipgloss.Center, lipgloss.Center, style.Render(message))
	return pageBorderStyle.Render(body)
}

func blank(cols, rows int) string {
	if cols <= 0 || rows <= 0 {
		return ""
	}
	line := strings.Repeat(" ", cols)
	lines := make([]string, rows)
	for i := range lines {
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}
