package buildpipeline_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"letc/internal/buildpipeline"
	"letc/internal/driver"
	"letc/internal/project"
)

func writeSources(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func options() driver.Options {
	return driver.Options{Passes: project.DefaultPassOptions(), MaxDiagnostics: 10}
}

func TestRunDirectoryEmitsPrograms(t *testing.T) {
	dir := writeSources(t, map[string]string{
		"a.let": "(+ 2 (+ 2 2))",
		"b.let": "(let ([x 42]) (let ([y (read)]) (+ x y)))",
	})
	out := t.TempDir()
	sink := &buildpipeline.RecordingSink{}
	res, err := buildpipeline.Run(context.Background(), &buildpipeline.Request{
		Target:   dir,
		BaseDir:  dir,
		Options:  options(),
		Jobs:     2,
		EmitDir:  out,
		Progress: sink,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(res.Files) != 2 || res.Files[0] != "a.let" || res.Files[1] != "b.let" {
		t.Fatalf("files %v", res.Files)
	}
	if len(res.Emitted) != 2 {
		t.Fatalf("emitted %v", res.Emitted)
	}
	data, err := os.ReadFile(filepath.Join(out, "a.flatten.let"))
	if err != nil {
		t.Fatalf("read emitted: %v", err)
	}
	if got, want := string(data), "(let ([%tmp.0 (+ 2 2)]) (+ 2 %tmp.0))\n"; got != want {
		t.Fatalf("emitted %q, want %q", got, want)
	}
	for _, stage := range []buildpipeline.Stage{buildpipeline.StageParse, buildpipeline.StageResolve, buildpipeline.StageFlatten, buildpipeline.StageEmit} {
		if !res.Timings.Has(stage) {
			t.Errorf("no timing for %s", stage)
		}
	}

	final := map[string]buildpipeline.Status{}
	sawResolve := map[string]bool{}
	for _, ev := range sink.Events() {
		final[ev.File] = ev.Status
		if ev.Stage == buildpipeline.StageResolve && ev.Status == buildpipeline.StatusWorking {
			sawResolve[ev.File] = true
		}
	}
	for _, f := range []string{"a.let", "b.let", ""} {
		if final[f] != buildpipeline.StatusDone {
			t.Errorf("%q ended as %q", f, final[f])
		}
	}
	if !sawResolve["a.let"] || !sawResolve["b.let"] {
		t.Errorf("missing resolve progress: %v", sawResolve)
	}
}

func TestRunReportsDiagnostics(t *testing.T) {
	dir := writeSources(t, map[string]string{
		"good.let": "(- 1)",
		"bad.let":  "(+ 1",
	})
	sink := &buildpipeline.RecordingSink{}
	req := &buildpipeline.Request{Target: dir, BaseDir: dir, Options: options(), Progress: sink}
	res, err := buildpipeline.Run(context.Background(), req)
	if !errors.Is(err, buildpipeline.ErrDiagnostics) {
		t.Fatalf("expected ErrDiagnostics, got %v", err)
	}
	if len(res.Results) != 2 || !res.Results[0].Bag.HasErrors() || res.Results[1].Bag.HasErrors() {
		t.Fatalf("unexpected results for %v", res.Files)
	}

	req.AllowDiagnosticsError = true
	if _, err := buildpipeline.Run(context.Background(), req); err != nil {
		t.Fatalf("diagnostics should be allowed: %v", err)
	}
}

func TestRunSingleFileStage(t *testing.T) {
	dir := writeSources(t, map[string]string{"main.let": "(let ([x 1]) (let ([x 2]) x))"})
	opts := options()
	opts.Stage = driver.StageResolve
	out := t.TempDir()
	res, err := buildpipeline.Run(context.Background(), &buildpipeline.Request{
		Target:  filepath.Join(dir, "main.let"),
		BaseDir: dir,
		Options: opts,
		EmitDir: out,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got, want := res.Results[0].Program.String(), "(let ([x.1 1]) (let ([x.2 2]) x.2))"; got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
	if _, err := os.Stat(filepath.Join(out, "main.resolve.let")); err != nil {
		t.Fatalf("resolve output not written: %v", err)
	}
	if res.Timings.Has(buildpipeline.StageFlatten) {
		t.Fatalf("flatten timing recorded for a resolve-only run")
	}
}

func TestRunMissingTarget(t *testing.T) {
	_, err := buildpipeline.Run(context.Background(), &buildpipeline.Request{Target: filepath.Join(t.TempDir(), "none.let")})
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
	if _, err := buildpipeline.Run(context.Background(), nil); err == nil {
		t.Fatalf("expected an error for a nil request")
	}
}

func TestFiles(t *testing.T) {
	dir := writeSources(t, map[string]string{"z.let": "1", "m.let": "2", "readme.md": "x"})
	files, err := buildpipeline.Files(dir, dir)
	if err != nil {
		t.Fatalf("files: %v", err)
	}
	if len(files) != 2 || files[0] != "m.let" || files[1] != "z.let" {
		t.Fatalf("files %v", files)
	}
}
