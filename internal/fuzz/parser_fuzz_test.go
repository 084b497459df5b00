package fuzztests

import (
	"context"
	"testing"
	"time"

	"letc/internal/diag"
	"letc/internal/lexer"
	"letc/internal/parser"
	"letc/internal/source"
	"letc/internal/testkit"
)

// parseTimeout bounds a single parse; exceeding it means a recovery loop.
const parseTimeout = 5 * time.Second

func FuzzParserNoHang(f *testing.F) {
	addCorpusSeeds(f)
	f.Add([]byte("(let ([x 1] [y 2] [z (+ x y)]) (+ z (- z)))"))
	f.Add([]byte("(let ([x (let ([x (let ([x 1]) x)]) x)]) x)"))
	f.Add([]byte("(+ ] 1 2)"))

	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		ctx, cancel := context.WithTimeout(context.Background(), parseTimeout)
		defer cancel()

		done := make(chan parser.Result, 1)
		var file *source.File
		go func() {
			fs := source.NewFileSet()
			file = fs.Get(fs.AddVirtual("fuzz.let", input))
			bag := diag.NewBag(128)
			rep := diag.BagReporter{Bag: bag}
			lx := lexer.New(file, lexer.Options{Reporter: rep})
			done <- parser.ParseFile(ctx, fs, lx, source.NewInterner(), parser.Options{Reporter: rep, MaxErrors: 128})
		}()

		select {
		case res := <-done:
			if res.Program.Exp == nil {
				t.Fatalf("parser returned a nil expression for %q", truncateForLog(input, 200))
			}
			if err := testkit.CheckErrorSpans(res.Program, file); err != nil {
				t.Fatalf("%v\ninput: %q", err, truncateForLog(input, 200))
			}
		case <-ctx.Done():
			t.Fatalf("parser hang detected: parsing took longer than %v\ninput (%d bytes): %q",
				parseTimeout, len(input), truncateForLog(input, 200))
		}
	})
}

func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(append([]byte(nil), input[:maxLen]...), "..."...)
}
