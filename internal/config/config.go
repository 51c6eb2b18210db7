// Package config loads and validates a book description.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/csheth/flipbook/internal/assets"
)

const (
	DefaultAutoplayMs = 2500
	DefaultExt        = "jpg"
)

// ErrInvalid marks a configuration that cannot describe a book.
var ErrInvalid = errors.New("invalid book config")

// Book is the on-disk book description. Zero values take defaults.
type Book struct {
	Title              string `json:"title,omitempty"`
	TotalPages         int    `json:"totalPages"`
	StartPage          int    `json:"startPage,omitempty"`
	SinglePageOnMobile bool   `json:"singlePageOnMobile,omitempty"`
	AutoplayIntervalMs int    `json:"autoplayIntervalMs,omitempty"`
	Path               string `json:"path,omitempty"`
	Prefix             string `json:"prefix,omitempty"`
	Pad                int    `json:"pad,omitempty"`
	Ext                string `json:"ext,omitempty"`
	PDF                string `json:"pdf,omitempty"`
	StorageKey         string `json:"storageKey,omitempty"`
}

// Load reads a JSON book file. Relative page paths resolve against the
// file's directory.
func Load(path string) (Book, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Book{}, fmt.Errorf("read book config: %w", err)
	}
	var cfg Book
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Book{}, fmt.Errorf("decode book config %s: %w", path, err)
	}
	base := filepath.Dir(path)
	cfg.Path = resolve(base, cfg.Path)
	cfg.PDF = resolve(base, cfg.PDF)
	cfg.ApplyDefaults()
	if err := cfg.validate(cfg.PDF != ""); err != nil {
		return Book{}, err
	}
	return cfg, nil
}

// FromPDF describes a book backed by a single PDF file with total pages.
func FromPDF(path string, total int) Book {
	cfg := Book{
		Title:      strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		TotalPages: total,
		PDF:        path,
	}
	cfg.ApplyDefaults()
	return cfg
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) || strings.Contains(p, "://") {
		return p
	}
	return filepath.Join(base, p)
}

// ApplyDefaults fills unset optional fields.
func (b *Book) ApplyDefaults() {
	if b.AutoplayIntervalMs <= 0 {
		b.AutoplayIntervalMs = DefaultAutoplayMs
	}
	if b.Ext == "" && b.PDF == "" {
		b.Ext = DefaultExt
	}
	b.Ext = strings.TrimPrefix(b.Ext, ".")
	if b.StorageKey == "" {
		name := b.Title
		if name == "" {
			name = b.Path
		}
		if name == "" {
			name = b.PDF
		}
		b.StorageKey = fmt.Sprintf("flipbook:%s:page", name)
	}
}

// Validate reports ErrInvalid for configs that cannot be opened.
func (b Book) Validate() error {
	return b.validate(false)
}

// validate accepts a zero page count when the PDF will supply it.
func (b Book) validate(countFromPDF bool) error {
	if b.TotalPages < 1 && !(countFromPDF && b.TotalPages == 0) {
		return fmt.Errorf("%w: totalPages must be at least 1, got %d", ErrInvalid, b.TotalPages)
	}
	if b.Pad < 0 {
		return fmt.Errorf("%w: pad must not be negative", ErrInvalid)
	}
	if b.PDF == "" && b.Path == "" && b.Prefix == "" {
		return fmt.Errorf("%w: one of path, prefix or pdf is required", ErrInvalid)
	}
	return nil
}

// Addressing returns the page naming scheme for image books.
func (b Book) Addressing() assets.Addressing {
	return assets.Addressing{
		Dir:    b.Path,
		Prefix: b.Prefix,
		Pad:    b.Pad,
		Ext:    b.Ext,
		Total:  b.TotalPages,
	}
}

// AutoplayInterval is the delay between automatic page turns.
func (b Book) AutoplayInterval() time.Duration {
	return time.Duration(b.AutoplayIntervalMs) * time.Millisecond
}

// Name is a human label for the book.
func (b Book) Name() string {
	switch {
	case b.Title != "":
		return b.Title
	case b.PDF != "":
		return filepath.Base(b.PDF)
	case b.Path == "":
		return b.Prefix
	default:
		return filepath.Base(strings.TrimRight(b.Path, "/"))
	}
}
