package main

import (
	"fmt"
	"io"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/csheth/flipbook/internal/assets"
	"github.com/csheth/flipbook/internal/config"
)

const (
	stateEnvVar = "FLIPBOOK_STATE"
	logEnvVar   = "FLIPBOOK_LOG"
)

type cliOptions struct {
	BookPath       string
	URL            string
	Start          int
	StartSet       bool
	SingleOnNarrow bool
	NarrowSet      bool
	Autoplay       bool
	StatePath      string
	NoAltScreen    bool
	NoAnimation    bool
	LogFile        string
}

func readCLIOptions(cmd *cobra.Command, args []string) (cliOptions, error) {
	if len(args) != 1 {
		return cliOptions{}, fmt.Errorf("expected one book path, got %d", len(args))
	}
	abs, err := filepath.Abs(args[0])
	if err != nil {
		return cliOptions{}, fmt.Errorf("resolve book path: %w", err)
	}
	flags := cmd.Flags()
	opts := cliOptions{BookPath: abs}
	opts.URL, _ = flags.GetString("url")
	opts.Start, _ = flags.GetInt("start")
	opts.StartSet = flags.Changed("start")
	opts.SingleOnNarrow, _ = flags.GetBool("single-on-narrow")
	opts.NarrowSet = flags.Changed("single-on-narrow")
	opts.Autoplay, _ = flags.GetBool("autoplay")
	opts.StatePath, _ = flags.GetString("state")
	opts.NoAltScreen, _ = flags.GetBool("no-alt-screen")
	opts.NoAnimation, _ = flags.GetBool("no-animation")
	opts.LogFile, _ = flags.GetString("log-file")

	if opts.Start < 0 {
		return cliOptions{}, fmt.Errorf("--start must not be negative, got %d", opts.Start)
	}
	if opts.StatePath == "" {
		opts.StatePath = os.Getenv(stateEnvVar)
	}
	if opts.StatePath == "" {
		opts.StatePath = defaultStatePath()
	}
	if opts.LogFile == "" {
		opts.LogFile = os.Getenv(logEnvVar)
	}
	if opts.URL == "" {
		opts.URL = (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
	}
	return opts, nil
}

func defaultStatePath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "flipbook", "state.json")
}

// apply lets flags override the book file.
func (o cliOptions) apply(cfg *config.Book) {
	if o.StartSet {
		cfg.StartPage = o.Start
	}
	if o.NarrowSet {
		cfg.SinglePageOnMobile = o.SingleOnNarrow
	}
}

// openBook loads a JSON book description or a PDF and returns its page
// source. The returned close func is never nil.
func openBook(path string) (config.Book, assets.Source, func(), error) {
	noop := func() {}
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return openPDFBook(config.Book{}, path)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Book{}, nil, noop, err
	}
	if cfg.PDF != "" {
		return openPDFBook(cfg, cfg.PDF)
	}
	return cfg, assets.NewImageSource(cfg.Addressing(), nil), noop, nil
}

func openPDFBook(cfg config.Book, path string) (config.Book, assets.Source, func(), error) {
	source, err := assets.OpenPDF(path)
	if err != nil {
		return config.Book{}, nil, func() {}, err
	}
	closeFn := func() {
		if err := source.Close(); err != nil {
			log.Printf("[assets] close %s: %v", path, err)
		}
	}
	pages := source.NumPage()
	switch {
	case cfg.PDF == "":
		cfg = config.FromPDF(path, pages)
	case cfg.TotalPages == 0 || cfg.TotalPages > pages:
		cfg.TotalPages = pages
	}
	if err := cfg.Validate(); err != nil {
		closeFn()
		return config.Book{}, nil, func() {}, err
	}
	return cfg, source, closeFn, nil
}

// setupLogging sends the standard logger to path, or discards it so log
// lines never land on the TUI.
func setupLogging(path string) (io.Closer, error) {
	if path == "" {
		log.SetOutput(io.Discard)
		return io.NopCloser(nil), nil
	}
	file, err := tea.LogToFile(path, "flipbook")
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return file, nil
}
