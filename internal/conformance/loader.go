package conformance

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// LoadedCase is a case together with its suite and file.
type LoadedCase struct {
	File  string
	Suite *Suite
	Case  Case
}

// Load reads every .yaml file under dir, in path order.
func Load(dir string) ([]LoadedCase, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == ".yaml" {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	var loaded []LoadedCase
	for _, path := range paths {
		suite, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			rel = path
		}
		for _, c := range suite.Tests {
			loaded = append(loaded, LoadedCase{File: filepath.ToSlash(rel), Suite: suite, Case: c})
		}
	}
	return loaded, nil
}

// LoadFile decodes one suite. Unknown fields are errors.
func LoadFile(path string) (*Suite, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	var suite Suite
	if err := dec.Decode(&suite); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if suite.Name == "" {
		return nil, fmt.Errorf("%s: suite has no name", path)
	}
	for i, c := range suite.Tests {
		if c.Name == "" {
			return nil, fmt.Errorf("%s: test %d has no name", path, i)
		}
	}
	return &suite, nil
}
