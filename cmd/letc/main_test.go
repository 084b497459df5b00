package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"letc/internal/project"
	"letc/internal/version"
)

// execute runs the CLI with args and returns stdout, stderr and the error.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	root := newRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--color", "off"}, args...))
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestFlattenFile(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "arith.let"), "(+ 2 (+ 2 2))\n")
	stdout, stderr, err := execute(t, "", "flatten", "--ui", "off", "--no-cache", path)
	if err != nil {
		t.Fatalf("flatten: %v (stderr %q)", err, stderr)
	}
	if want := "(let ([%tmp.0 (+ 2 2)]) (+ 2 %tmp.0))\n"; stdout != want {
		t.Fatalf("stdout = %q, want %q", stdout, want)
	}
}

func TestResolveLetModes(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "shadow.let"), "(let ([x 1]) (let ([x (+ x 1)]) x))")
	cases := []struct {
		mode string
		want string
	}{
		{"sequential", "(let ([x.1 1]) (let ([x.2 (+ x.2 1)]) x.2))\n"},
		{"parallel", "(let ([x.1 1]) (let ([x.2 (+ x.1 1)]) x.2))\n"},
	}
	for _, tc := range cases {
		t.Run(tc.mode, func(t *testing.T) {
			stdout, stderr, err := execute(t, "", "resolve", "--let", tc.mode, path)
			if err != nil {
				t.Fatalf("resolve: %v (stderr %q)", err, stderr)
			}
			if stdout != tc.want {
				t.Fatalf("stdout = %q, want %q", stdout, tc.want)
			}
		})
	}
}

func TestResolveRejectsBadLetMode(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "a.let"), "1")
	if _, _, err := execute(t, "", "resolve", "--let", "lazy", path); err == nil {
		t.Fatal("expected an error for --let lazy")
	}
}

func TestParseReportsDiagnostics(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "bad.let"), "(+ 1 (* 2 3))")
	_, stderr, err := execute(t, "", "parse", "--format", "sexp", path)
	if !errors.Is(err, errDiagnostics) {
		t.Fatalf("err = %v, want errDiagnostics", err)
	}
	if !strings.Contains(stderr, "SYN2302") {
		t.Fatalf("stderr does not name SYN2302:\n%s", stderr)
	}
}

func TestParseDiagnosticsJSON(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "bad.let"), "(+ 1 (* 2 3))")
	_, stderr, err := execute(t, "", "--diag-format", "json", "parse", "--format", "sexp", path)
	if !errors.Is(err, errDiagnostics) {
		t.Fatalf("err = %v, want errDiagnostics", err)
	}
	if !json.Valid([]byte(stderr)) {
		t.Fatalf("stderr is not JSON:\n%s", stderr)
	}
}

func TestParseDiagnosticsShort(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "bad.let"), "(+ 1 (* 2 3))")
	_, stderr, err := execute(t, "", "--diag-format", "short", "parse", path)
	if !errors.Is(err, errDiagnostics) {
		t.Fatalf("err = %v, want errDiagnostics", err)
	}
	if !strings.HasPrefix(stderr, "error SYN2302 ") || !strings.Contains(stderr, "bad.let:1:") {
		t.Fatalf("unexpected short output:\n%s", stderr)
	}
}

func TestUnknownFormat(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "a.let"), "1")
	for _, cmd := range []string{"parse", "resolve", "flatten"} {
		if _, _, err := execute(t, "", cmd, "--format", "yaml", path); err == nil {
			t.Fatalf("%s accepted --format yaml", cmd)
		}
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	scenarioB := writeFile(t, filepath.Join(dir, "b.let"), "(let ([x 42]) (+ x (read)))")
	reads := writeFile(t, filepath.Join(dir, "reads.let"), "(+ (read) (- (read)))")
	cases := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{"input flag", "", []string{"run", "--input", "10", scenarioB}, "52\n"},
		{"parse stage", "", []string{"run", "--stage", "parse", "--input", "10", scenarioB}, "52\n"},
		{"stdin", "10 3\n", []string{"run", reads}, "7\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stdout, stderr, err := execute(t, tc.stdin, tc.args...)
			if err != nil {
				t.Fatalf("run: %v (stderr %q)", err, stderr)
			}
			if stdout != tc.want {
				t.Fatalf("stdout = %q, want %q", stdout, tc.want)
			}
		})
	}
}

func TestRunMissingInput(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "r.let"), "(read)")
	if _, _, err := execute(t, "", "run", "--input", "", path); err == nil {
		t.Fatal("expected an error when read has no input")
	}
}

func TestFlattenDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.let"), "(- 3)")
	writeFile(t, filepath.Join(dir, "a.let"), "(+ 2 (+ 2 2))")
	writeFile(t, filepath.Join(dir, "notes.txt"), "ignored")
	t.Chdir(dir)

	stdout, stderr, err := execute(t, "", "flatten", "--ui", "off", "--no-cache", "--jobs", "2", ".")
	if err != nil {
		t.Fatalf("flatten: %v (stderr %q)", err, stderr)
	}
	want := "== a.let ==\n(let ([%tmp.0 (+ 2 2)]) (+ 2 %tmp.0))\n\n== b.let ==\n(- 3)\n"
	if stdout != want {
		t.Fatalf("stdout = %q, want %q", stdout, want)
	}
}

func TestFlattenDirectoryJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.let"), "(+ 2 (+ 2 2))")
	writeFile(t, filepath.Join(dir, "b.let"), "(- 3)")
	t.Chdir(dir)

	stdout, _, err := execute(t, "", "flatten", "--ui", "off", "--no-cache", "--format", "json", ".")
	if err != nil {
		t.Fatalf("flatten: %v", err)
	}
	var got map[string]json.RawMessage
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 || got["a.let"] == nil || got["b.let"] == nil {
		t.Fatalf("keys = %v", got)
	}
}

func TestFlattenFromManifest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, project.ManifestName), `[package]
name = "demo"

[build]
main = "src"

[passes]
let = "parallel"
`)
	writeFile(t, filepath.Join(dir, "src", "main.let"), "(let ([x 1]) (let ([x (+ x 1)]) x))")
	t.Chdir(dir)

	stdout, stderr, err := execute(t, "", "--quiet", "flatten", "--ui", "off", "--no-cache")
	if err != nil {
		t.Fatalf("flatten: %v (stderr %q)", err, stderr)
	}
	if want := "(let ([x.1 1]) (let ([x.2 (+ x.1 1)]) x.2))\n"; stdout != want {
		t.Fatalf("stdout = %q, want %q", stdout, want)
	}

	// An explicit flag wins over the manifest.
	stdout, _, err = execute(t, "", "--quiet", "flatten", "--ui", "off", "--no-cache", "--let", "sequential")
	if err != nil {
		t.Fatalf("flatten: %v", err)
	}
	if want := "(let ([x.1 1]) (let ([x.2 (+ x.2 1)]) x.2))\n"; stdout != want {
		t.Fatalf("stdout = %q, want %q", stdout, want)
	}
}

func TestFlattenWithoutManifest(t *testing.T) {
	t.Chdir(t.TempDir())
	if _, _, err := execute(t, "", "flatten", "--ui", "off"); err == nil {
		t.Fatal("expected an error without a path or letc.toml")
	}
}

func TestFlattenEmitDirAndCache(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LETC_CACHE_DIR", filepath.Join(dir, "cache"))
	t.Setenv("LETC_NO_CACHE", "")
	src := writeFile(t, filepath.Join(dir, "main.let"), "(+ 2 (+ 2 2))")
	emit := filepath.Join(dir, "out")

	for range 2 {
		_, stderr, err := execute(t, "", "flatten", "--ui", "off", "--emit-dir", emit, src)
		if err != nil {
			t.Fatalf("flatten: %v (stderr %q)", err, stderr)
		}
	}
	data, err := os.ReadFile(filepath.Join(emit, "main.flatten.let"))
	if err != nil {
		t.Fatalf("emitted file: %v", err)
	}
	if want := "(let ([%tmp.0 (+ 2 2)]) (+ 2 %tmp.0))\n"; string(data) != want {
		t.Fatalf("emitted %q, want %q", data, want)
	}
	entries, err := os.ReadDir(filepath.Join(dir, "cache", "programs"))
	if err != nil || len(entries) != 1 {
		t.Fatalf("cache entries = %v, err = %v", entries, err)
	}

	stdout, _, err := execute(t, "", "clean")
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	if !strings.HasPrefix(stdout, "cleared ") {
		t.Fatalf("clean output %q", stdout)
	}
	if _, err := os.Stat(filepath.Join(dir, "cache", "programs")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("cache not cleared: %v", err)
	}
}

func TestFlattenTimings(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "a.let"), "(+ 2 (+ 2 2))")
	_, stderr, err := execute(t, "", "--timings", "flatten", "--ui", "off", "--no-cache", path)
	if err != nil {
		t.Fatalf("flatten: %v", err)
	}
	for _, label := range []string{"parsed ", "resolved ", "flattened "} {
		if !strings.Contains(stderr, label) {
			t.Fatalf("stderr lacks %q:\n%s", label, stderr)
		}
	}
}

func TestTraceFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, filepath.Join(dir, "a.let"), "(let ([x 1]) x)")
	tracePath := filepath.Join(dir, "trace.log")
	if _, _, err := execute(t, "", "--trace", tracePath, "--trace-level", "detail", "resolve", path); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	data, err := os.ReadFile(tracePath)
	if err != nil {
		t.Fatalf("trace file: %v", err)
	}
	if !strings.Contains(string(data), "uniquify") {
		t.Fatalf("trace lacks the uniquify pass:\n%s", data)
	}
}

func TestInitCreatesRunnableProject(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "demo")
	stdout, _, err := execute(t, "", "init", dir)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if !strings.Contains(stdout, project.ManifestName) {
		t.Fatalf("init output %q", stdout)
	}
	manifest, err := project.LoadManifest(filepath.Join(dir, project.ManifestName))
	if err != nil {
		t.Fatalf("generated manifest: %v", err)
	}
	if manifest.Config.Package.Name != "demo" {
		t.Fatalf("package name %q", manifest.Config.Package.Name)
	}

	stdout, _, err = execute(t, "", "run", "--input", "5", filepath.Join(dir, "src", "main.let"))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if stdout != "9\n" {
		t.Fatalf("run output %q", stdout)
	}

	if _, _, err := execute(t, "", "init", dir); err == nil {
		t.Fatal("second init should refuse an existing manifest")
	}
}

func TestVersionJSON(t *testing.T) {
	stdout, _, err := execute(t, "", "version", "--format", "json", "--full")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	var payload struct {
		Tool      string `json:"tool"`
		Version   string `json:"version"`
		GitCommit string `json:"git_commit"`
		BuildDate string `json:"build_date"`
	}
	if err := json.Unmarshal([]byte(stdout), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Tool != "letc" || payload.Version != version.Version {
		t.Fatalf("payload = %+v", payload)
	}
	if payload.GitCommit == "" || payload.BuildDate == "" {
		t.Fatalf("--full left fields empty: %+v", payload)
	}
}

func TestVersionPretty(t *testing.T) {
	stdout, _, err := execute(t, "", "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if want := "letc " + version.Version + "\n"; stdout != want {
		t.Fatalf("stdout = %q, want %q", stdout, want)
	}
}

func TestParseProgressMode(t *testing.T) {
	cases := []struct {
		in      string
		want    progressMode
		wantErr bool
	}{
		{"", progressAuto, false},
		{"AUTO", progressAuto, false},
		{" on ", progressOn, false},
		{"off", progressOff, false},
		{"maybe", progressAuto, true},
	}
	for _, tc := range cases {
		got, err := parseProgressMode(tc.in)
		if (err != nil) != tc.wantErr || got != tc.want {
			t.Fatalf("parseProgressMode(%q) = %v, %v", tc.in, got, err)
		}
	}
	_, err := parseProgressMode("maybe")
	if err == nil || !strings.Contains(err.Error(), "letc flatten: --ui") || !strings.Contains(err.Error(), `"maybe"`) {
		t.Fatalf("error = %v, want one naming letc flatten and the value", err)
	}
}

func TestShowProgress(t *testing.T) {
	out, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer out.Close()
	cases := []struct {
		mode  progressMode
		quiet bool
		want  bool
	}{
		{progressOn, false, true},
		{progressOn, true, false},
		{progressOff, false, false},
		{progressAuto, false, false},
	}
	for _, tc := range cases {
		if got := showProgress(tc.mode, tc.quiet, out); got != tc.want {
			t.Errorf("showProgress(%v, quiet=%v) = %v, want %v", tc.mode, tc.quiet, got, tc.want)
		}
	}
}
