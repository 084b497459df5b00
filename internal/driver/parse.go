package driver

import (
	"context"

	"fortio.org/safecast"

	"letc/internal/ast"
	"letc/internal/diag"
	"letc/internal/lexer"
	"letc/internal/parser"
	"letc/internal/source"
)

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Program ast.Program
	Bag     *diag.Bag
}

// Parse loads and parses path without running any pass.
func Parse(path string, maxDiagnostics int) (*ParseResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)
	bag := diag.NewBag(maxDiagnostics)
	prog, err := parseFile(context.Background(), fs, file, source.NewInterner(), bag, maxDiagnostics)
	if err != nil {
		return nil, err
	}
	return &ParseResult{FileSet: fs, File: file, Program: prog, Bag: bag}, nil
}

func parseFile(ctx context.Context, fs *source.FileSet, file *source.File, strings *source.Interner, bag *diag.Bag, maxDiagnostics int) (ast.Program, error) {
	maxErrors, err := safecast.Conv[uint](maxDiagnostics)
	if err != nil {
		return ast.Program{}, err
	}
	rep := diag.NewDedupReporter(&diag.BagReporter{Bag: bag})
	lx := lexer.New(file, lexer.Options{Reporter: rep})
	res := parser.ParseFile(ctx, fs, lx, strings, parser.Options{
		Reporter:  rep,
		MaxErrors: maxErrors,
	})
	return res.Program, nil
}
