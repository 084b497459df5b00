package fuzztests

import (
	"testing"

	"letc/internal/diag"
	"letc/internal/lexer"
	"letc/internal/source"
)

const maxFuzzInput = 1 << 16 // 64 KiB

func FuzzLexerTokens(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.let", input))
		lx := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: diag.NewBag(64)}})

		var prevEnd uint32
		for steps := 0; ; steps++ {
			tok := lx.Next()
			if tok.Span.Start < prevEnd || tok.Span.End < tok.Span.Start {
				t.Fatalf("token %s has span %d-%d after offset %d", tok.Kind, tok.Span.Start, tok.Span.End, prevEnd)
			}
			prevEnd = tok.Span.End
			if tok.Kind.IsEOF() {
				break
			}
			if steps > len(input)+1 {
				t.Fatalf("lexer produced more tokens than input bytes")
			}
		}
	})
}
