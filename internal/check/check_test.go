package check_test

import (
	"errors"
	"strings"
	"testing"

	"letc/internal/ast"
	"letc/internal/check"
	"letc/internal/invariant"
)

func TestUnique(t *testing.T) {
	ok := ast.Program{Exp: ast.NewLet(
		ast.NewLet(ast.Ref("x.2"), ast.Bind("x.2", ast.Ref("x.1"))),
		ast.Bind("x.1", ast.Int(1)))}
	if err := check.Unique(ok); err != nil {
		t.Fatal(err)
	}
	dup := ast.Program{Exp: ast.Add(
		ast.NewLet(ast.Ref("x"), ast.Bind("x", ast.Int(1))),
		ast.NewLet(ast.Ref("x"), ast.Bind("x", ast.Int(2))))}
	err := check.Unique(dup)
	if !errors.Is(err, invariant.ErrViolation) || !strings.Contains(err.Error(), "x is bound more than once") {
		t.Fatalf("got %v", err)
	}
}

func TestAtomic(t *testing.T) {
	flat := ast.Program{Exp: ast.NewLet(
		ast.Add(ast.Int(2), ast.Ref("%tmp.0")),
		ast.Bind("%tmp.0", ast.Add(ast.Int(2), ast.Int(2))))}
	if err := check.Atomic(flat); err != nil {
		t.Fatal(err)
	}
	carried := ast.Program{Exp: ast.Neg(&ast.ErrorNode{Msg: "bad"})}
	if err := check.Atomic(carried); err != nil {
		t.Fatal(err)
	}
	nested := ast.Program{Exp: ast.Add(ast.Read(), ast.Neg(ast.Int(1)))}
	err := check.Atomic(nested)
	if !errors.Is(err, invariant.ErrViolation) {
		t.Fatalf("got %v", err)
	}
	if n := strings.Count(err.Error(), "not atomic"); n != 2 {
		t.Fatalf("expected two violations, got %d: %v", n, err)
	}
}

func TestErrorNodes(t *testing.T) {
	a := &ast.ErrorNode{Msg: "a"}
	b := &ast.ErrorNode{Msg: "b"}
	p := ast.Program{Exp: ast.NewLet(ast.Add(ast.Int(1), b), ast.Bind("x", a))}
	got := check.ErrorNodes(p)
	if len(got) != 2 || got[0] != a || got[1] != b {
		t.Fatalf("got %v", got)
	}
}
