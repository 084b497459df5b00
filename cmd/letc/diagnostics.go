package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"letc/internal/diag"
	"letc/internal/diagfmt"
	"letc/internal/source"
)

// printDiagnostics writes bag to stderr in the --diag-format encoding.
func printDiagnostics(cmd *cobra.Command, bag *diag.Bag, fs *source.FileSet) error {
	if bag == nil || bag.Len() == 0 {
		return nil
	}
	format, err := cmd.Root().PersistentFlags().GetString("diag-format")
	if err != nil {
		return fmt.Errorf("failed to get diag-format flag: %w", err)
	}
	bag.Sort()
	switch format {
	case "pretty":
		diagfmt.Pretty(cmd.ErrOrStderr(), bag, fs, diagfmt.PrettyOpts{
			Color:     useColorFor(cmd, os.Stderr),
			Context:   2,
			ShowNotes: true,
		})
		return nil
	case "short":
		if text := diag.FormatShort(bag.Items(), fs, true); text != "" {
			_, err = fmt.Fprintln(cmd.ErrOrStderr(), text)
		}
		return err
	case "json":
		return diagfmt.JSON(cmd.ErrOrStderr(), bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			IncludeNotes:     true,
		})
	default:
		return fmt.Errorf("unknown diagnostics format: %s", format)
	}
}

func maxDiagnosticsFlag(cmd *cobra.Command) (int, error) {
	n, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return 0, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	return n, nil
}
