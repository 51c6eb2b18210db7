package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
)

const defaultProbePages = 3

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <book.json|book.pdf>",
		Short: "Probe the first pages of a book and report what loads",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			cfg, source, closeBook, err := openBook(path)
			if err != nil {
				return err
			}
			defer closeBook()

			probe, _ := cmd.Flags().GetInt("pages")
			if probe <= 0 || probe > cfg.TotalPages {
				probe = cfg.TotalPages
			}
			timeout, _ := cmd.Flags().GetDuration("timeout")
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d pages\n", cfg.Name(), cfg.TotalPages)

			missing := 0
			for page := 1; page <= probe; page++ {
				ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
				loaded, err := source.Load(ctx, page)
				cancel()
				if err != nil {
					missing++
					fmt.Fprintf(out, "MISS p%d: %s: %v\n", page, source.Describe(page), err)
					continue
				}
				fmt.Fprintf(out, "OK   p%d: %s (%dx%d)\n", page, source.Describe(page), loaded.Size.Width, loaded.Size.Height)
			}
			if missing > 0 {
				return fmt.Errorf("%d of %d probed pages failed to load", missing, probe)
			}
			return nil
		},
	}
	cmd.Flags().Int("pages", defaultProbePages, "number of leading pages to probe (0 for all)")
	cmd.Flags().Duration("timeout", 30*time.Second, "per-page load timeout")
	return cmd
}
