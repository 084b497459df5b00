package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"letc/internal/driver"
	"letc/internal/project"
)

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [flags] file.let",
		Short: "Parse a let source file and print its tree",
		Args:  cobra.ExactArgs(1),
		RunE:  runParse,
	}
	cmd.Flags().String("format", "pretty", "output format ("+programFormats+")")
	return cmd
}

func newResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve [flags] file.let",
		Short: "Parse a file and give every bound variable a unique name",
		Args:  cobra.ExactArgs(1),
		RunE:  runResolve,
	}
	cmd.Flags().String("format", "sexp", "output format ("+programFormats+")")
	cmd.Flags().String("let", "", "let binding semantics (sequential|parallel)")
	cmd.Flags().Bool("verify", true, "check the pass output invariants")
	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if err := checkProgramFormat(format); err != nil {
		return err
	}
	maxDiagnostics, err := maxDiagnosticsFlag(cmd)
	if err != nil {
		return err
	}

	cleanup, err := setupSession(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	opts := driver.Options{
		Stage:          driver.StageParse,
		Passes:         project.DefaultPassOptions(),
		MaxDiagnostics: maxDiagnostics,
	}
	return compileAndPrint(cmd, args[0], opts, format)
}

func runResolve(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if err := checkProgramFormat(format); err != nil {
		return err
	}
	maxDiagnostics, err := maxDiagnosticsFlag(cmd)
	if err != nil {
		return err
	}
	passes, err := passOptionsFromFlags(cmd, project.DefaultPassOptions())
	if err != nil {
		return err
	}

	cleanup, err := setupSession(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	opts := driver.Options{
		Stage:          driver.StageResolve,
		Passes:         passes,
		MaxDiagnostics: maxDiagnostics,
	}
	return compileAndPrint(cmd, args[0], opts, format)
}

// compileAndPrint compiles one file up to opts.Stage and prints the
// diagnostics followed by the program.
func compileAndPrint(cmd *cobra.Command, path string, opts driver.Options, format string) error {
	timings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	opts.Timings = timings

	res, err := driver.Compile(cmd.Context(), path, opts)
	if res != nil {
		if perr := printDiagnostics(cmd, res.Bag, res.FileSet); perr != nil {
			return perr
		}
	}
	if err != nil {
		return fmt.Errorf("%s failed: %w", opts.Stage, err)
	}
	if err := writeProgram(cmd.OutOrStdout(), format, res.Program, res.FileSet); err != nil {
		return err
	}
	if res.Bag.HasErrors() {
		return errDiagnostics
	}
	return nil
}
