package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flipbook <book.json|book.pdf>",
		Short: "Read a paginated book in the terminal",
		Long: `flipbook shows a numbered sequence of page images, or a PDF, one page or
one two-page spread at a time. Page 1 is a cover on its own; after that
even pages sit on the left and odd pages on the right.

The cursor is mirrored to the #page=N fragment of the book URL and to a
small state file, so reopening the book resumes where you left off.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := readCLIOptions(cmd, args)
			if err != nil {
				return err
			}
			return runReader(cmd, opts)
		},
	}
	flags := cmd.Flags()
	flags.String("url", "", "location to open, eg. file:///books/mag.json#page=12 (default: the book path)")
	flags.Int("start", 0, "start page when neither the URL nor saved state has one")
	flags.Bool("single-on-narrow", false, "show one page at a time on narrow terminals")
	flags.Bool("autoplay", false, "start turning pages automatically")
	flags.String("state", "", "state file for the saved cursor (default: $FLIPBOOK_STATE or the user config dir)")
	flags.Bool("no-alt-screen", false, "disable the alternate screen buffer")
	flags.Bool("no-animation", false, "draw pages flat instead of animating turns")
	flags.String("log-file", "", "write debug logs to this file (default: $FLIPBOOK_LOG)")

	cmd.AddCommand(newSpreadsCmd(), newCheckCmd())
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "flipbook:", err)
		os.Exit(1)
	}
}
