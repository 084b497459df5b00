package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"letc/internal/project"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [path]",
		Short: "Create a letc.toml project with a starter program",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runInit,
	}
}

// runInit writes letc.toml and src/main.let under the target directory,
// creating it if needed. It refuses to overwrite an existing manifest.
func runInit(cmd *cobra.Command, args []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	target := wd
	if len(args) == 1 && args[0] != "." {
		target = args[0]
		if !filepath.IsAbs(target) {
			target = filepath.Join(wd, target)
		}
	}

	if st, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err = os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", target, err)
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	name := strings.TrimSpace(filepath.Base(target))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "let-project"
	}

	manifestPath := filepath.Join(target, project.ManifestName)
	if _, err := os.Stat(manifestPath); err == nil {
		return fmt.Errorf("project already initialized: %s exists", manifestPath)
	}
	if err := os.WriteFile(manifestPath, []byte(defaultManifest(name)), 0o600); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	srcDir := filepath.Join(target, "src")
	if err := os.MkdirAll(srcDir, 0o755); err != nil {
		return fmt.Errorf("failed to create %q: %w", srcDir, err)
	}
	mainPath := filepath.Join(srcDir, "main"+project.SourceExt)
	createdMain := false
	if _, err := os.Stat(mainPath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(mainPath, []byte(defaultMainProgram), 0o600); err != nil {
			return fmt.Errorf("failed to write %s: %w", mainPath, err)
		}
		createdMain = true
	}

	rel := target
	if r, err := filepath.Rel(wd, target); err == nil {
		rel = r
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Initialized let project in %s\n", rel)
	fmt.Fprintf(out, "  - %s\n", project.ManifestName)
	if createdMain {
		fmt.Fprintf(out, "  - src/main%s\n", project.SourceExt)
	} else {
		fmt.Fprintf(out, "  - src/main%s (existing)\n", project.SourceExt)
	}
	return nil
}

func defaultManifest(name string) string {
	return fmt.Sprintf(`[package]
name = %q

[build]
main = "src"

[passes]
let = "sequential"
binding_order = "program"
verify = true
`, name)
}

const defaultMainProgram = `(let ([x (read)])
  (let ([y (+ x (- 2))])
    (+ y (+ x 1))))
`
