package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"letc/internal/driver"
	"letc/internal/interp"
	"letc/internal/project"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [flags] file.let",
		Short: "Evaluate a program with the reference interpreter",
		Long: `Run compiles a file up to --stage and evaluates it. read takes its
values from --input, or from whitespace separated integers on stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: runRun,
	}
	cmd.Flags().String("input", "", "comma separated values returned by read")
	cmd.Flags().String("stage", "flatten", "stage to evaluate (parse|resolve|flatten)")
	cmd.Flags().String("let", "", "let binding semantics (sequential|parallel)")
	cmd.Flags().Bool("hoisted-first", false, "list flattened bindings before untouched ones")
	return cmd
}

func runRun(cmd *cobra.Command, args []string) error {
	stageName, err := cmd.Flags().GetString("stage")
	if err != nil {
		return fmt.Errorf("failed to get stage flag: %w", err)
	}
	stage, err := driver.ParseStage(stageName)
	if err != nil {
		return err
	}
	inputValue, err := cmd.Flags().GetString("input")
	if err != nil {
		return fmt.Errorf("failed to get input flag: %w", err)
	}
	var in interp.Input
	if cmd.Flags().Changed("input") {
		values, err := interp.ParseValues(inputValue)
		if err != nil {
			return fmt.Errorf("invalid --input: %w", err)
		}
		in = interp.NewSliceInput(values...)
	} else {
		in = interp.NewReaderInput(cmd.InOrStdin())
	}
	maxDiagnostics, err := maxDiagnosticsFlag(cmd)
	if err != nil {
		return err
	}
	timings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
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

	res, err := driver.Compile(cmd.Context(), args[0], driver.Options{
		Stage:          stage,
		Passes:         passes,
		MaxDiagnostics: maxDiagnostics,
		Timings:        timings,
	})
	if res != nil {
		if perr := printDiagnostics(cmd, res.Bag, res.FileSet); perr != nil {
			return perr
		}
	}
	if err != nil {
		return fmt.Errorf("%s failed: %w", stage, err)
	}
	if res.Bag.HasErrors() {
		return errDiagnostics
	}

	value, err := interp.Eval(cmd.Context(), res.Program, in)
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), value)
	return err
}
