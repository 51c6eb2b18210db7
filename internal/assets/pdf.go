package assets

import (
	"context"
	"fmt"
	"math"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/ledongthuc/pdf"

	"github.com/csheth/flipbook/internal/book"
)

var extraneousWhitespace = regexp.MustCompile(`[ \t]+`)

// letterSize is used when a page declares no MediaBox anywhere in its tree.
var letterSize = book.Size{Width: 612, Height: 792}

// PDFSource serves the pages of a PDF document. Natural sizes come from the
// page MediaBox in points; content is the page's plain text.
type PDFSource struct {
	path   string
	mu     sync.Mutex
	file   *os.File
	reader *pdf.Reader
}

// OpenPDF opens path for page loading.
func OpenPDF(path string) (*PDFSource, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}
	return &PDFSource{path: path, file: file, reader: reader}, nil
}

// NumPage reports the number of pages in the document.
func (s *PDFSource) NumPage() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reader.NumPage()
}

func (s *PDFSource) Describe(page int) string {
	return fmt.Sprintf("%s#%d", s.path, page)
}

// Load extracts page's size and text. The reader is not safe for concurrent
// use, so loads are serialized.
func (s *PDFSource) Load(ctx context.Context, page int) (Page, error) {
	if err := ctx.Err(); err != nil {
		return Page{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if page < 1 || page > s.reader.NumPage() {
		return Page{}, fmt.Errorf("page %d of %d: %w", page, s.reader.NumPage(), ErrPageRange)
	}
	p := s.reader.Page(page)
	if p.V.IsNull() {
		return Page{}, fmt.Errorf("page %d missing from %s", page, s.path)
	}
	fonts := map[string]*pdf.Font{}
	for _, name := range p.Fonts() {
		font := p.Font(name)
		fonts[name] = &font
	}
	text, err := p.GetPlainText(fonts)
	if err != nil {
		return Page{}, fmt.Errorf("failed to extract pdf text: %w", err)
	}
	return Page{
		Number: page,
		Size:   mediaBox(p.V),
		Text:   tidyText(text),
	}, nil
}

// Close releases the underlying file.
func (s *PDFSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}

// mediaBox walks up the page tree because MediaBox is inheritable.
func mediaBox(v pdf.Value) book.Size {
	for depth := 0; !v.IsNull() && depth < 32; depth++ {
		box := v.Key("MediaBox")
		if box.Len() == 4 {
			width := math.Abs(box.Index(2).Float64() - box.Index(0).Float64())
			height := math.Abs(box.Index(3).Float64() - box.Index(1).Float64())
			if width >= 1 && height >= 1 {
				return book.Size{Width: int(math.Round(width)), Height: int(math.Round(height))}
			}
		}
		v = v.Key("Parent")
	}
	return letterSize
}

func tidyText(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(extraneousWhitespace.ReplaceAllString(line, " "))
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
