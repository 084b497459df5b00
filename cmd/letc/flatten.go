package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"

	"letc/internal/buildpipeline"
	"letc/internal/driver"
	"letc/internal/project"
	"letc/internal/source"
)

func newFlattenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flatten [flags] [file.let|directory]",
		Short: "Resolve scopes and flatten operands to atoms",
		Long: `Flatten runs the whole pipeline on a file, on every *.let file in a
directory, or, without an argument, on [build].main of the nearest letc.toml.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runFlatten,
	}
	flags := cmd.Flags()
	flags.String("format", "sexp", "output format ("+programFormats+")")
	flags.Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	flags.String("ui", "auto", "progress view (auto|on|off)")
	flags.Bool("no-cache", false, "bypass the on-disk program cache")
	flags.Bool("hoisted-first", false, "list flattened bindings before untouched ones")
	flags.String("let", "", "let binding semantics (sequential|parallel)")
	flags.Bool("verify", true, "check the pass output invariants")
	flags.String("emit-dir", "", "also write each program to <dir>/<name>.flatten.let")
	return cmd
}

// flattenTarget is what flatten compiles and with which pass options.
type flattenTarget struct {
	path    string
	baseDir string
	passes  project.PassOptions
	name    string // package name when a manifest was used
}

// resolveFlattenTarget picks the explicit path or the manifest's main.
// Manifest pass settings apply in both cases when one governs the target.
func resolveFlattenTarget(args []string) (flattenTarget, error) {
	target := flattenTarget{passes: project.DefaultPassOptions()}
	wd, err := os.Getwd()
	if err != nil {
		return target, err
	}

	if len(args) == 1 {
		target.path = args[0]
		target.baseDir = wd
		start := args[0]
		if info, statErr := os.Stat(start); statErr == nil && !info.IsDir() {
			start = filepath.Dir(start)
		}
		manifest, ok, err := project.Load(start)
		if err != nil {
			return target, err
		}
		if ok {
			target.passes = manifest.PassOptions()
			target.name = manifest.Config.Package.Name
		}
		return target, nil
	}

	manifest, ok, err := project.Load(wd)
	if err != nil {
		return target, err
	}
	if !ok {
		return target, errors.New("no path given and no letc.toml found")
	}
	mainPath, _, err := manifest.MainPath()
	if err != nil {
		return target, err
	}
	target.path = mainPath
	target.baseDir = manifest.Root
	target.passes = manifest.PassOptions()
	target.name = manifest.Config.Package.Name
	return target, nil
}

func runFlatten(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	format, err := flags.GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if err := checkProgramFormat(format); err != nil {
		return err
	}
	jobs, err := flags.GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	uiValue, err := flags.GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := parseProgressMode(uiValue)
	if err != nil {
		return err
	}
	noCache, err := flags.GetBool("no-cache")
	if err != nil {
		return fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	emitDir, err := flags.GetString("emit-dir")
	if err != nil {
		return fmt.Errorf("failed to get emit-dir flag: %w", err)
	}
	root := cmd.Root().PersistentFlags()
	quiet, err := root.GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	timings, err := root.GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	maxDiagnostics, err := maxDiagnosticsFlag(cmd)
	if err != nil {
		return err
	}

	target, err := resolveFlattenTarget(args)
	if err != nil {
		return err
	}
	passes, err := passOptionsFromFlags(cmd, target.passes)
	if err != nil {
		return err
	}

	cleanup, err := setupSession(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	req := &buildpipeline.Request{
		Target:  target.path,
		BaseDir: target.baseDir,
		Options: driver.Options{
			Stage:          driver.StageFlatten,
			Passes:         passes,
			MaxDiagnostics: maxDiagnostics,
			Cache:          openCache(cmd, noCache),
		},
		Jobs:                  jobs,
		EmitDir:               emitDir,
		AllowDiagnosticsError: true,
	}

	var result buildpipeline.Result
	if showProgress(mode, quiet, os.Stdout) {
		files, err := buildpipeline.Files(target.path, target.baseDir)
		if err != nil {
			return err
		}
		title := "flattening"
		if target.name != "" {
			title = "flattening " + target.name
		}
		result, err = runPipelineWithUI(cmd.Context(), cmd.OutOrStdout(), title, files, req)
		if err != nil {
			return err
		}
	} else {
		result, err = buildpipeline.Run(cmd.Context(), req)
		if err != nil {
			return err
		}
	}

	failed := false
	progs := make([]namedProgram, 0, len(result.Results))
	for i, res := range result.Results {
		if err := printDiagnostics(cmd, res.Bag, res.FileSet); err != nil {
			return err
		}
		if res.Bag.HasErrors() {
			failed = true
		}
		progs = append(progs, namedProgram{name: result.Files[i], prog: res.Program})
	}

	out := cmd.OutOrStdout()
	if len(progs) == 1 && len(args) == 1 && !isDir(args[0]) {
		err = writeProgram(out, format, progs[0].prog, result.Results[0].FileSet)
	} else {
		err = writePrograms(out, format, progs, sharedFileSet(result), quiet)
	}
	if err != nil {
		return err
	}
	if !quiet {
		for _, path := range result.Emitted {
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", path)
		}
	}
	if timings {
		printStageTimings(cmd.ErrOrStderr(), result.Timings)
	}
	if failed {
		return errDiagnostics
	}
	return nil
}

// openCache returns nil when caching is disabled or unavailable; a broken
// cache directory only costs a warning.
func openCache(cmd *cobra.Command, noCache bool) *driver.DiskCache {
	if noCache || driver.CacheDisabled() {
		return nil
	}
	dir, err := driver.CacheDir()
	if err == nil {
		var cache *driver.DiskCache
		if cache, err = driver.OpenDiskCache(dir); err == nil {
			return cache
		}
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "warning: program cache disabled: %v\n", err)
	return nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// sharedFileSet returns the file set of a directory run; all its results
// share one.
func sharedFileSet(result buildpipeline.Result) *source.FileSet {
	for _, res := range result.Results {
		if res != nil && res.FileSet != nil {
			return res.FileSet
		}
	}
	return nil
}
