package assets

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"sync"

	_ "golang.org/x/image/webp"

	"github.com/csheth/flipbook/internal/book"
)

// Page is one loaded page. Image is set for bitmap pages, Text for pages
// that only carry text (PDF).
type Page struct {
	Number int
	Size   book.Size
	Image  image.Image
	Text   string
}

// Source loads pages by number.
type Source interface {
	Load(ctx context.Context, page int) (Page, error)
	Describe(page int) string
}

// ImageSource loads numbered image files from a directory or URL prefix.
type ImageSource struct {
	addr      Addressing
	cache     *Cache
	cacheOnce sync.Once
	cacheErr  error
}

// NewImageSource builds a source for addr. cache is required only for
// remote books and created on demand when nil.
func NewImageSource(addr Addressing, cache *Cache) *ImageSource {
	return &ImageSource{addr: addr, cache: cache}
}

// Describe returns the resource name for page, for diagnostics.
func (s *ImageSource) Describe(page int) string {
	name, err := s.addr.Name(page)
	if err != nil {
		return err.Error()
	}
	return name
}

// Load decodes page and records its natural size.
func (s *ImageSource) Load(ctx context.Context, page int) (Page, error) {
	name, err := s.addr.Name(page)
	if err != nil {
		return Page{}, err
	}
	local := name
	if isRemote(name) {
		s.cacheOnce.Do(func() {
			if s.cache == nil {
				s.cache, s.cacheErr = NewCache(nil)
			}
		})
		if s.cacheErr != nil {
			return Page{}, s.cacheErr
		}
		local, err = s.cache.Fetch(ctx, name)
		if err != nil {
			return Page{}, fmt.Errorf("fetch page %d: %w", page, err)
		}
	}
	file, err := os.Open(local)
	if err != nil {
		return Page{}, fmt.Errorf("open page %d: %w", page, err)
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil {
		return Page{}, fmt.Errorf("decode page %d (%s): %w", page, name, err)
	}
	bounds := img.Bounds()
	return Page{
		Number: page,
		Size:   book.Size{Width: bounds.Dx(), Height: bounds.Dy()},
		Image:  img,
	}, nil
}
