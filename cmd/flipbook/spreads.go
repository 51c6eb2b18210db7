package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/csheth/flipbook/internal/book"
)

func newSpreadsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spreads <book.json|book.pdf>",
		Short: "Print every spread the book turns through",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			cfg, _, closeBook, err := openBook(path)
			if err != nil {
				return err
			}
			defer closeBook()

			mode := book.ModeDouble
			if single, _ := cmd.Flags().GetBool("single"); single || cfg.TotalPages == 1 {
				mode = book.ModeSingle
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d pages, %s mode\n", cfg.Name(), cfg.TotalPages, mode)
			for i, spread := range walkSpreads(mode, cfg.TotalPages) {
				fmt.Fprintf(out, "%4d  %-12s %s\n", i+1, spread, describeSpread(spread))
			}
			return nil
		},
	}
	cmd.Flags().Bool("single", false, "walk the book one page at a time")
	return cmd
}

// walkSpreads turns from page 1 to the end and lists each spread shown.
func walkSpreads(mode book.Mode, total int) []book.Spread {
	cursor := 1
	spreads := []book.Spread{book.SpreadFor(cursor, mode, total)}
	for {
		next, moved := book.NextCursor(cursor, mode, total)
		if !moved {
			return spreads
		}
		cursor = next
		spreads = append(spreads, book.SpreadFor(cursor, mode, total))
	}
}

func describeSpread(spread book.Spread) string {
	pages := spread.Pages()
	if len(pages) == 1 {
		return fmt.Sprintf("page %d", pages[0])
	}
	return fmt.Sprintf("pages %d-%d", pages[0], pages[1])
}
