package parser_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"letc/internal/ast"
	"letc/internal/diag"
	"letc/internal/lexer"
	"letc/internal/parser"
	"letc/internal/source"
)

func parseSource(t *testing.T, input string) (parser.Result, *diag.Bag) {
	t.Helper()
	return parseWith(input, source.NewInterner(), 0)
}

func parseWith(input string, in *source.Interner, maxErrors uint) (parser.Result, *diag.Bag) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.let", []byte(input))
	bag := diag.NewBag(64)
	rep := &diag.BagReporter{Bag: bag}
	lx := lexer.New(fs.Get(fileID), lexer.Options{Reporter: rep})
	res := parser.ParseFile(context.Background(), fs, lx, in, parser.Options{Reporter: rep, MaxErrors: maxErrors})
	return res, bag
}

func diagnosticsSummary(bag *diag.Bag) string {
	if bag == nil {
		return "<nil bag>"
	}
	diags := bag.Items()
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

func hasCode(bag *diag.Bag, code diag.Code) bool {
	for _, d := range bag.Items() {
		if d.Code == code {
			return true
		}
	}
	return false
}

func errorNodes(n ast.Node) []*ast.ErrorNode {
	var out []*ast.ErrorNode
	ast.Walk(n, func(n ast.Node) bool {
		if e, ok := n.(*ast.ErrorNode); ok {
			out = append(out, e)
		}
		return true
	})
	return out
}
