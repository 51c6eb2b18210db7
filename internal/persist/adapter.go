// Package persist derives the starting cursor from the URL fragment and
// durable storage, and mirrors cursor changes back out.
package persist

import (
	"log"
	"strconv"
	"strings"

	"github.com/csheth/flipbook/internal/book"
)

// Adapter connects the engine cursor to a Location and a Store. Either may
// be nil.
type Adapter struct {
	location Location
	store    Store
	key      string
}

// NewAdapter builds an adapter writing the cursor under key.
func NewAdapter(location Location, store Store, key string) *Adapter {
	return &Adapter{location: location, store: store, key: key}
}

func (a *Adapter) Key() string { return a.key }

// Initial resolves the starting cursor: fragment page token, then the saved
// cursor, then startPage, then 1. The result is clamped into the book.
func (a *Adapter) Initial(total, startPage int) int {
	if page, ok := a.fromLocation(); ok {
		return book.Clamp(page, total)
	}
	if page, ok := a.fromStore(); ok {
		return book.Clamp(page, total)
	}
	if startPage != 0 {
		return book.Clamp(startPage, total)
	}
	return 1
}

// Mirror writes current to the fragment and the store. Failures are logged
// and dropped; navigation never waits on them.
func (a *Adapter) Mirror(current int) {
	if a.location != nil {
		fragment := FormatFragment(a.location.Fragment(), current)
		if err := a.location.ReplaceFragment(fragment); err != nil {
			log.Printf("[persist] fragment write skipped: %v", err)
		}
	}
	if a.store != nil && a.key != "" {
		if err := a.store.Set(a.key, strconv.Itoa(current)); err != nil {
			log.Printf("[persist] store write skipped: %v", err)
		}
	}
}

func (a *Adapter) fromLocation() (int, bool) {
	if a.location == nil {
		return 0, false
	}
	return ParseFragment(a.location.Fragment())
}

func (a *Adapter) fromStore() (int, bool) {
	if a.store == nil || a.key == "" {
		return 0, false
	}
	raw, ok, err := a.store.Get(a.key)
	if err != nil {
		log.Printf("[persist] store read skipped: %v", err)
		return 0, false
	}
	if !ok {
		return 0, false
	}
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	return page, true
}
