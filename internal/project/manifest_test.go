package project_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"letc/internal/project"
	"letc/internal/uniquify"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestFindAndLoadManifest(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, project.ManifestName), `
[package]
name = "demo"
[build]
main = "src"
[passes]
let = "parallel"
binding_order = "hoisted-first"
verify = false
`)
	writeFile(t, filepath.Join(root, "src", "main.let"), "(read)")
	writeFile(t, filepath.Join(root, "src", "b.let"), "1")
	writeFile(t, filepath.Join(root, "src", "notes.txt"), "")

	m, ok, err := project.Load(filepath.Join(root, "src"))
	if err != nil || !ok {
		t.Fatalf("Load = %v, %v", ok, err)
	}
	if m.Config.Package.Name != "demo" || m.Root != root {
		t.Fatalf("unexpected manifest %+v", m)
	}
	opts := m.PassOptions()
	if !opts.Resolve.Parallel || !opts.Flatten.HoistedFirst || opts.Verify {
		t.Fatalf("pass options = %+v", opts)
	}
	main, isDir, err := m.MainPath()
	if err != nil || !isDir || main != filepath.Join(root, "src") {
		t.Fatalf("MainPath = %q %v %v", main, isDir, err)
	}
	files, err := project.ListSources(main)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 || filepath.Base(files[0]) != "b.let" || filepath.Base(files[1]) != "main.let" {
		t.Fatalf("sources = %v", files)
	}
}

func TestManifestValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"no name", "[package]\n[build]\nmain = \"a.let\"\n", "missing [package].name"},
		{"no main", "[package]\nname = \"x\"\n", "missing [build].main"},
		{"bad let", "[package]\nname = \"x\"\n[build]\nmain = \"a.let\"\n[passes]\nlet = \"rec\"\n", "[passes].let"},
		{"unknown key", "[package]\nname = \"x\"\nedition = 2\n[build]\nmain = \"a.let\"\n", "unknown keys: package.edition"},
		{"bad toml", "[package\n", "failed to parse TOML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), project.ManifestName)
			writeFile(t, path, tt.content)
			_, err := project.LoadManifest(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("got %v, want error containing %q", err, tt.want)
			}
		})
	}
}

func TestDefaultsAndFingerprint(t *testing.T) {
	opts, err := project.PassesConfig{}.Options()
	if err != nil || !opts.Verify || opts.Resolve.Parallel || opts.Flatten.HoistedFirst {
		t.Fatalf("defaults = %+v, %v", opts, err)
	}
	if opts.Fingerprint() == (project.PassOptions{Resolve: uniquify.Options{Parallel: true}}).Fingerprint() {
		t.Fatal("fingerprint ignores let mode")
	}
	if (project.PassOptions{Verify: true}).Fingerprint() == (project.PassOptions{}).Fingerprint() {
		t.Fatal("fingerprint ignores verification")
	}
	var d project.Digest
	if project.Combine(d, "ab", "c") == project.Combine(d, "a", "bc") {
		t.Fatal("Combine is ambiguous")
	}
}
