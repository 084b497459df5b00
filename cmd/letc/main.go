package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"letc/internal/version"
)

// errDiagnostics is returned after the diagnostics themselves were printed,
// so main only sets the exit status.
var errDiagnostics = errors.New("compilation reported errors")

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "letc",
		Short:         "Compiler front end for the let language",
		Long:          `letc parses let programs, resolves their scopes and flattens them to atomic operands`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return applyColorFlag(cmd)
		},
	}

	root.AddCommand(newTokenizeCmd())
	root.AddCommand(newParseCmd())
	root.AddCommand(newResolveCmd())
	root.AddCommand(newFlattenCmd())
	root.AddCommand(newRunCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newCleanCmd())
	root.AddCommand(newVersionCmd())

	flags := root.PersistentFlags()
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Bool("quiet", false, "suppress non-essential output")
	flags.Bool("timings", false, "show timing information")
	flags.Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	flags.String("diag-format", "pretty", "diagnostics format on stderr (pretty|short|json)")

	flags.String("trace", "", "write compiler trace events to this file (- for stderr)")
	flags.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	flags.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	flags.Int("trace-ring-size", 4096, "events kept by the ring tracer")
	flags.Duration("trace-heartbeat", 0, "emit a heartbeat event at this interval (0 disables)")

	flags.String("cpu-profile", "", "write a CPU profile to this file")
	flags.String("mem-profile", "", "write a heap profile to this file on exit")
	flags.String("runtime-trace", "", "write a Go runtime trace to this file")

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errDiagnostics) {
			fmt.Fprintf(os.Stderr, "letc: %v\n", err)
		}
		os.Exit(1)
	}
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// applyColorFlag turns --color into the global fatih/color switch used by
// version output and the diagnostic palette.
func applyColorFlag(cmd *cobra.Command) error {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	switch mode {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "auto":
		color.NoColor = !isTerminal(os.Stdout)
	default:
		return fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
	}
	return nil
}

// useColorFor decides whether diagnostics written to f are colorized.
func useColorFor(cmd *cobra.Command, f *os.File) bool {
	mode, _ := cmd.Root().PersistentFlags().GetString("color")
	return mode == "on" || (mode == "auto" && isTerminal(f))
}
