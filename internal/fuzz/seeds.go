package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"letc/internal/conformance"
)

const maxSeedBytes = 64 << 10 // 64 KiB

var builtinSeeds = []string{
	"",
	"42",
	"(read)",
	"(+ 2 (+ 2 2))",
	"(let ([x 42]) (+ x (read)))",
	"(let ([x (- 5)]) x)",
	"(let ([x 1]) (let ([x (+ x 1)]) x))",
	"(let () 5)",
	"(let ([x 1] [x 2]) x)",
	"(+ (let ([y 2]) (+ y 3)) (- (read)))",
	"(* 2 3)",
	"(+ 1",
	"(let ([x 1) x)",
	"(let [x 1] x)",
	"((((",
	"))]]",
	"%tmp.0",
	"99999999999999999999",
	"; comment only\n",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range builtinSeeds {
		f.Add([]byte(s))
	}
	addProgramSeeds(f)
	addConformanceSeeds(f)
}

func addProgramSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".let" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func addConformanceSeeds(f *testing.F) {
	cases, err := conformance.Load(filepath.Join("..", "..", "testdata", "conformance"))
	if err != nil {
		return
	}
	for _, lc := range cases {
		f.Add(clampSeed([]byte(lc.Case.Source)))
	}
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}
