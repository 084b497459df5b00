package parser_test

import (
	"testing"
	"unsafe"

	"letc/internal/ast"
	"letc/internal/diag"
	"letc/internal/source"
)

func TestParseValidPrograms(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"42", "42"},
		{"-7", "-7"},
		{"x", "x"},
		{"(read)", "(read)"},
		{"(- 5)", "(- 5)"},
		{"(+ 2 (+ 2 2))", "(+ 2 (+ 2 2))"},
		{"(let ([x 42]) (+ x (read)))", "(let ([x 42]) (+ x (read)))"},
		{"(let ([x 1] [y x]) y)", "(let ([x 1] [y x]) y)"},
		{"; comment\n(let ([x (- 5)])\n  x) ; trailing", "(let ([x (- 5)]) x)"},
		{"(let ([a 1]) (let ([a (+ a 1)]) a))", "(let ([a 1]) (let ([a (+ a 1)]) a))"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			res, bag := parseSource(t, tt.input)
			if res.Errors != 0 || bag.HasErrors() {
				t.Fatalf("unexpected errors: %s", diagnosticsSummary(bag))
			}
			if got := ast.String(res.Program.Exp); got != tt.want {
				t.Fatalf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseErrorsBecomeErrorNodes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  diag.Code
	}{
		{"bad arity plus", "(+ 1)", diag.SynBadArity},
		{"bad arity neg", "(- 1 2)", diag.SynBadArity},
		{"bad arity read", "(read 1)", diag.SynBadArity},
		{"unknown operator", "(* 2 3)", diag.SynUnknownOperator},
		{"ident head", "(f 2 3)", diag.SynUnknownOperator},
		{"binding not identifier", "(let ([1 2]) 3)", diag.SynExpectIdentifier},
		{"binding missing bracket", "(let ([x 1) x)", diag.SynUnexpectedToken},
		{"let missing body", "(let ([x 1]))", diag.SynExpectExpression},
		{"let two bodies", "(let ([x 1]) x x)", diag.SynUnexpectedToken},
		{"out of range literal", "99999999999999999999", diag.LexBadNumber},
		{"empty form", "()", diag.SynExpectExpression},
		{"bare keyword", "read", diag.SynExpectExpression},
		{"reserved dot", "x.1", diag.LexUnknownChar},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, bag := parseSource(t, tt.input)
			if res.Errors == 0 {
				t.Fatalf("expected errors, got none (%s)", ast.String(res.Program.Exp))
			}
			if !hasCode(bag, tt.code) {
				t.Fatalf("missing %s in %s", tt.code.ID(), diagnosticsSummary(bag))
			}
			if len(errorNodes(res.Program.Exp)) == 0 {
				t.Fatalf("no ErrorNode in %s", ast.String(res.Program.Exp))
			}
		})
	}
}

func TestRecoveryKeepsSiblings(t *testing.T) {
	res, bag := parseSource(t, "(let ([x (+ 1)] [y 2]) (+ y (f 1)))")
	if !hasCode(bag, diag.SynBadArity) || !hasCode(bag, diag.SynUnknownOperator) {
		t.Fatalf("both errors should be reported: %s", diagnosticsSummary(bag))
	}
	let, ok := res.Program.Exp.(*ast.Let)
	if !ok {
		t.Fatalf("expected Let, got %s", ast.String(res.Program.Exp))
	}
	if _, ok := let.Bindings[0].Value.(*ast.ErrorNode); !ok {
		t.Fatalf("first binding should be an ErrorNode: %s", ast.String(let))
	}
	if got := ast.String(let.Bindings[1].Value); got != "2" {
		t.Fatalf("second binding = %s", got)
	}
	sum := let.Body.(*ast.Prim)
	if _, ok := sum.Args[1].(*ast.ErrorNode); !ok {
		t.Fatalf("unknown operator should be an ErrorNode in place: %s", ast.String(sum))
	}
}

func TestUnclosedParen(t *testing.T) {
	res, bag := parseSource(t, "(+ 1 (read)")
	if !hasCode(bag, diag.SynUnclosedParen) {
		t.Fatalf("missing unclosed diagnostic: %s", diagnosticsSummary(bag))
	}
	d := bag.Items()[0]
	if len(d.Notes) != 1 || d.Notes[0].Span.Start != 0 {
		t.Fatalf("note should point at the opening paren: %+v", d.Notes)
	}
	if _, ok := res.Program.Exp.(*ast.ErrorNode); !ok {
		t.Fatalf("got %s", ast.String(res.Program.Exp))
	}
}

func TestTrailingInput(t *testing.T) {
	res, bag := parseSource(t, "1 2")
	if !hasCode(bag, diag.SynTrailingInput) || res.Errors != 1 {
		t.Fatalf("diagnostics: %s", diagnosticsSummary(bag))
	}
	if ast.String(res.Program.Exp) != "1" {
		t.Fatalf("first expression should be kept: %s", ast.String(res.Program.Exp))
	}
}

func TestEmptyLetWarns(t *testing.T) {
	res, bag := parseSource(t, "(let () 7)")
	if bag.HasErrors() || !bag.HasWarnings() {
		t.Fatalf("expected a warning only: %s", diagnosticsSummary(bag))
	}
	if ast.String(res.Program.Exp) != "7" {
		t.Fatalf("got %s", ast.String(res.Program.Exp))
	}
}

func TestMaxErrorsCapsReports(t *testing.T) {
	res, bag := parseWith("(+ (+ 1) (+ 2) )", source.NewInterner(), 1)
	if res.Errors < 2 {
		t.Fatalf("errors = %d", res.Errors)
	}
	errs := 0
	for _, d := range bag.Items() {
		if d.Severity == diag.SevError {
			errs++
		}
	}
	if errs != 1 {
		t.Fatalf("reported %d errors with budget 1: %s", errs, diagnosticsSummary(bag))
	}
}

func TestIdentifiersAreInterned(t *testing.T) {
	in := source.NewInterner()
	res, _ := parseWith("(let ([abc 1]) (+ abc abc))", in, 0)
	let := res.Program.Exp.(*ast.Let)
	sum := let.Body.(*ast.Prim)
	a := sum.Args[0].(*ast.Var).Name
	b := sum.Args[1].(*ast.Var).Name
	if unsafe.StringData(a) != unsafe.StringData(b) || unsafe.StringData(a) != unsafe.StringData(let.Bindings[0].Name) {
		t.Fatal("identifier text is not shared")
	}
	if _, ok := in.Lookup(in.Intern("abc")); !ok {
		t.Fatal("identifier missing from interner")
	}
}
