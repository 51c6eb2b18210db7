package book

import "math"

// Size is a natural page size in logical pixels. Zero dimensions mean the
// size is not known yet.
type Size struct {
	Width  int
	Height int
}

// Known reports whether both dimensions are positive.
func (s Size) Known() bool {
	return s.Width > 0 && s.Height > 0
}

// FitBox is the pixel box the visible spread is drawn into.
type FitBox struct {
	Width  int
	Height int
}

// Ready is false while fitting is deferred.
func (f FitBox) Ready() bool {
	return f.Width > 0 && f.Height > 0
}

// Natural combines the sizes of the visible pages: side-by-side pages add
// their widths and share the tallest height.
func Natural(sizes []Size) (Size, bool) {
	if len(sizes) == 0 {
		return Size{}, false
	}
	var combined Size
	for _, size := range sizes {
		if !size.Known() {
			return Size{}, false
		}
		combined.Width += size.Width
		if size.Height > combined.Height {
			combined.Height = size.Height
		}
	}
	return combined, true
}

// Fit scales the natural spread size into the available box without ever
// upscaling. It returns false when the fit has to wait: unknown natural
// sizes, an empty available box, or a result that would floor to zero.
func Fit(sizes []Size, availableWidth, availableHeight int) (FitBox, bool) {
	natural, ok := Natural(sizes)
	if !ok || availableWidth <= 0 || availableHeight <= 0 {
		return FitBox{}, false
	}
	scale := math.Min(1, math.Min(
		float64(availableWidth)/float64(natural.Width),
		float64(availableHeight)/float64(natural.Height),
	))
	box := FitBox{
		Width:  int(math.Floor(float64(natural.Width) * scale)),
		Height: int(math.Floor(float64(natural.Height) * scale)),
	}
	if box.Width > availableWidth {
		box.Width = availableWidth
	}
	if box.Height > availableHeight {
		box.Height = availableHeight
	}
	if !box.Ready() {
		return FitBox{}, false
	}
	return box, true
}
