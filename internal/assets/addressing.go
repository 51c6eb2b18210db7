// Package assets resolves page numbers to page resources and loads them.
package assets

import (
	"errors"
	"fmt"
	"strings"
)

// ErrPageRange is returned for page numbers outside the book.
var ErrPageRange = errors.New("page out of range")

// Addressing names page files: Dir/Prefix + zero-padded number + "." + Ext.
type Addressing struct {
	Dir    string
	Prefix string
	Pad    int
	Ext    string
	Total  int
}

// Name returns the resource path or URL for page n.
func (a Addressing) Name(n int) (string, error) {
	if n < 1 || (a.Total > 0 && n > a.Total) {
		return "", fmt.Errorf("page %d of %d: %w", n, a.Total, ErrPageRange)
	}
	number := fmt.Sprintf("%d", n)
	if a.Pad > 0 {
		number = fmt.Sprintf("%0*d", a.Pad, n)
	}
	file := a.Prefix + number
	if ext := strings.TrimPrefix(a.Ext, "."); ext != "" {
		file += "." + ext
	}
	dir := strings.TrimRight(a.Dir, "/")
	if dir == "" {
		return file, nil
	}
	return dir + "/" + file, nil
}

// Remote reports whether the pages live behind HTTP.
func (a Addressing) Remote() bool {
	return isRemote(a.Dir)
}

func isRemote(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
