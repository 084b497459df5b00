package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"letc/internal/diagfmt"
	"letc/internal/driver"
)

func newTokenizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokenize [flags] file.let",
		Short: "Tokenize a let source file",
		Args:  cobra.ExactArgs(1),
		RunE:  runTokenize,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

func runTokenize(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	maxDiagnostics, err := maxDiagnosticsFlag(cmd)
	if err != nil {
		return err
	}

	result, err := driver.Tokenize(args[0], maxDiagnostics)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}
	if err := printDiagnostics(cmd, result.Bag, result.FileSet); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch format {
	case "pretty":
		err = diagfmt.FormatTokensPretty(out, result.Tokens, result.FileSet)
	case "json":
		err = diagfmt.FormatTokensJSON(out, result.Tokens)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	if err != nil {
		return err
	}
	if result.Bag.HasErrors() {
		return errDiagnostics
	}
	return nil
}
