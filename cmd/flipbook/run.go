package main

import (
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/csheth/flipbook/internal/persist"
	"github.com/csheth/flipbook/internal/tui"
)

func runReader(cmd *cobra.Command, opts cliOptions) error {
	logCloser, err := setupLogging(opts.LogFile)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	cfg, source, closeBook, err := openBook(opts.BookPath)
	if err != nil {
		return err
	}
	defer closeBook()
	opts.apply(&cfg)

	location, err := persist.ParseLocation(opts.URL)
	if err != nil {
		return err
	}
	store := persist.NewFileStore(opts.StatePath)
	log.Printf("[flipbook] opening %s (%d pages, state %s)", cfg.Name(), cfg.TotalPages, store.Path())

	programOpts := []tea.ProgramOption{tea.WithMouseCellMotion()}
	if !opts.NoAltScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}
	program := tea.NewProgram(
		tui.New(tui.Config{
			Book:        cfg,
			Source:      source,
			Location:    location,
			Store:       store,
			NoAnimation: opts.NoAnimation,
			Autoplay:    opts.Autoplay,
		}),
		programOpts...,
	)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("program error: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Resume:", location.String())
	return nil
}
