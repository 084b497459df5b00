package interp_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"letc/internal/ast"
	"letc/internal/interp"
	"letc/internal/invariant"
)

func prog(n ast.Node) ast.Program { return ast.Program{Exp: n} }

func TestEval(t *testing.T) {
	tests := []struct {
		name  string
		exp   ast.Node
		input []int64
		want  int64
	}{
		{"literal", ast.Int(42), nil, 42},
		{"nested add", ast.Add(ast.Int(2), ast.Add(ast.Int(2), ast.Int(2))), nil, 6},
		{"read order", ast.Add(ast.Read(), ast.Neg(ast.Read())), []int64{10, 3}, 7},
		{"sequential let", ast.NewLet(ast.Ref("y"),
			ast.Bind("x", ast.Int(1)),
			ast.Bind("y", ast.Add(ast.Ref("x"), ast.Int(1)))), nil, 2},
		{"shadowing", ast.NewLet(
			ast.Add(ast.NewLet(ast.Ref("x"), ast.Bind("x", ast.Int(5))), ast.Ref("x")),
			ast.Bind("x", ast.Int(1))), nil, 6},
		{"wrapping", ast.Add(ast.Int(9223372036854775807), ast.Int(1)), nil, -9223372036854775808},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := interp.Eval(context.Background(), prog(tt.exp), interp.NewSliceInput(tt.input...))
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Fatalf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestEvalErrors(t *testing.T) {
	ctx := context.Background()
	if _, err := interp.Eval(ctx, prog(ast.Ref("z")), nil); !errors.Is(err, interp.ErrUnbound) {
		t.Fatalf("got %v", err)
	}
	if _, err := interp.Eval(ctx, prog(ast.Read()), nil); !errors.Is(err, interp.ErrNoInput) {
		t.Fatalf("got %v", err)
	}
	if _, err := interp.Eval(ctx, prog(&ast.ErrorNode{Msg: "bad"}), nil); !errors.Is(err, interp.ErrErrorNode) {
		t.Fatalf("got %v", err)
	}
	bad := &ast.Prim{Op: "*", Args: []ast.Node{ast.Int(1), ast.Int(2)}}
	if _, err := interp.Eval(ctx, prog(bad), nil); !errors.Is(err, invariant.ErrViolation) {
		t.Fatalf("got %v", err)
	}
	// the body's scope ends with the let
	outside := ast.Add(ast.NewLet(ast.Int(0), ast.Bind("x", ast.Int(1))), ast.Ref("x"))
	if _, err := interp.Eval(ctx, prog(outside), nil); !errors.Is(err, interp.ErrUnbound) {
		t.Fatalf("got %v", err)
	}
}

func TestReaderInput(t *testing.T) {
	in := interp.NewReaderInput(strings.NewReader(" 1, -2\n3 "))
	var got []int64
	for {
		v, err := in.Read()
		if errors.Is(err, interp.ErrNoInput) {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, v)
	}
	if len(got) != 3 || got[0] != 1 || got[1] != -2 || got[2] != 3 {
		t.Fatalf("got %v", got)
	}
	if _, err := interp.ParseValues("1,x"); err == nil {
		t.Fatal("expected parse error")
	}
	vals, err := interp.ParseValues("")
	if err != nil || len(vals) != 0 {
		t.Fatalf("empty input: %v %v", vals, err)
	}
}
