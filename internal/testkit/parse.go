// Package testkit holds helpers shared by the compiler's tests.
package testkit

import (
	"context"
	"strings"
	"testing"

	"letc/internal/ast"
	"letc/internal/diag"
	"letc/internal/lexer"
	"letc/internal/parser"
	"letc/internal/source"
)

// Parse lexes and parses src as a virtual file.
func Parse(src string) (ast.Program, *diag.Bag, *source.File) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.let", []byte(src))
	file := fs.Get(id)
	bag := diag.NewBag(64)
	rep := &diag.BagReporter{Bag: bag}
	lx := lexer.New(file, lexer.Options{Reporter: rep})
	res := parser.ParseFile(context.Background(), fs, lx, source.NewInterner(), parser.Options{Reporter: rep})
	return res.Program, bag, file
}

// MustParse parses src and fails the test on any error diagnostic.
func MustParse(tb testing.TB, src string) ast.Program {
	tb.Helper()
	prog, bag, _ := Parse(src)
	if bag.HasErrors() {
		msgs := make([]string, 0, bag.Len())
		for _, d := range bag.Items() {
			msgs = append(msgs, d.Code.ID()+" "+d.Message)
		}
		tb.Fatalf("parse %q: %s", src, strings.Join(msgs, "; "))
	}
	return prog
}
