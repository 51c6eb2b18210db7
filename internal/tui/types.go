package tui

import (
	"time"

	"github.com/csheth/flipbook/internal/assets"
	"github.com/csheth/flipbook/internal/book"
)

type stage int

const (
	stageReading stage = iota
	stageGoTo
)

const (
	resizeDebounce = 100 * time.Millisecond
	frameInterval  = time.Second / 60
	preloadDepth   = 1
	loadTimeout    = 30 * time.Second
)

// placeholderSize stands in for a page whose image never resolved.
var placeholderSize = book.Size{Width: 600, Height: 800}

type pageState struct {
	page    assets.Page
	loading bool
	loaded  bool
	missing bool
}

type pageLoadedMsg struct {
	number int
	page   assets.Page
	err    error
}

type resizeMsg struct {
	seq int
}

type autoplayMsg struct {
	gen int
}

type frameMsg struct{}
