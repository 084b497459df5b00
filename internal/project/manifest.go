package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"letc/internal/rco"
	"letc/internal/uniquify"
)

// Manifest is a loaded letc.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

type Config struct {
	Package PackageConfig `toml:"package"`
	Build   BuildConfig   `toml:"build"`
	Passes  PassesConfig  `toml:"passes"`
}

type PackageConfig struct {
	Name string `toml:"name"`
}

type BuildConfig struct {
	Main string `toml:"main"` // file or directory, relative to the manifest
}

type PassesConfig struct {
	Let          string `toml:"let"`           // sequential | parallel
	BindingOrder string `toml:"binding_order"` // program | hoisted-first
	Verify       *bool  `toml:"verify"`
}

// PassOptions configures the two rewriting passes of a build.
type PassOptions struct {
	Resolve uniquify.Options
	Flatten rco.Options
	Verify  bool
}

// LoadManifest reads and validates the manifest at path.
func LoadManifest(path string) (*Manifest, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return nil, fmt.Errorf("%s: missing [package].name", path)
	}
	if !meta.IsDefined("build", "main") || strings.TrimSpace(cfg.Build.Main) == "" {
		return nil, fmt.Errorf("%s: missing [build].main", path)
	}
	if _, err := cfg.Passes.Options(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}, nil
}

// Load finds and loads the manifest governing startDir.
func Load(startDir string) (*Manifest, bool, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	m, err := LoadManifest(path)
	return m, true, err
}

// MainPath resolves [build].main against the manifest directory and reports
// whether it is a directory.
func (m *Manifest) MainPath() (string, bool, error) {
	p := filepath.Join(m.Root, filepath.FromSlash(strings.TrimSpace(m.Config.Build.Main)))
	info, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("%s: [build].main does not exist: %s", m.Path, p)
		}
		return "", false, fmt.Errorf("%s: failed to stat [build].main: %w", m.Path, err)
	}
	if !info.IsDir() && filepath.Ext(p) != SourceExt {
		return "", false, fmt.Errorf("%s: [build].main must be a %s file or a directory", m.Path, SourceExt)
	}
	return p, info.IsDir(), nil
}

// PassOptions converts [passes]; LoadManifest has validated it already.
func (m *Manifest) PassOptions() PassOptions {
	opts, err := m.Config.Passes.Options()
	if err != nil {
		return DefaultPassOptions()
	}
	return opts
}

func DefaultPassOptions() PassOptions {
	return PassOptions{Verify: true}
}

// Options validates the section and converts it.
func (c PassesConfig) Options() (PassOptions, error) {
	opts := DefaultPassOptions()
	var errs []error
	switch strings.TrimSpace(c.Let) {
	case "", "sequential":
	case "parallel":
		opts.Resolve.Parallel = true
	default:
		errs = append(errs, fmt.Errorf("[passes].let must be sequential or parallel, got %q", c.Let))
	}
	switch strings.TrimSpace(c.BindingOrder) {
	case "", "program":
	case "hoisted-first":
		opts.Flatten.HoistedFirst = true
	default:
		errs = append(errs, fmt.Errorf("[passes].binding_order must be program or hoisted-first, got %q", c.BindingOrder))
	}
	if c.Verify != nil {
		opts.Verify = *c.Verify
	}
	return opts, errors.Join(errs...)
}
