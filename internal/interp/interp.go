// Package interp evaluates programs directly. The pipeline uses it to
// confirm that each pass preserves what a program computes.
package interp

import (
	"context"
	"errors"
	"fmt"

	"letc/internal/ast"
	"letc/internal/invariant"
)

var (
	ErrUnbound   = errors.New("unbound variable")
	ErrNoInput   = errors.New("read: no more input")
	ErrErrorNode = errors.New("program contains a syntax error")
)

// Input supplies values to (read), in order.
type Input interface {
	Read() (int64, error)
}

type binding struct {
	name  string
	value int64
}

type machine struct {
	ctx   context.Context
	input Input
	env   []binding // innermost last
}

// Eval runs prog. Let bindings are sequential, operands are evaluated left
// to right, and arithmetic wraps at 64 bits.
func Eval(ctx context.Context, prog ast.Program, in Input) (int64, error) {
	if in == nil {
		in = NewSliceInput()
	}
	m := &machine{ctx: ctx, input: in}
	return m.eval(prog.Exp)
}

func (m *machine) eval(n ast.Node) (int64, error) {
	switch x := n.(type) {
	case *ast.IntLit:
		return x.Value, nil
	case *ast.Var:
		for i := len(m.env) - 1; i >= 0; i-- {
			if m.env[i].name == x.Name {
				return m.env[i].value, nil
			}
		}
		return 0, fmt.Errorf("%w: %s", ErrUnbound, x.Name)
	case *ast.Prim:
		return m.prim(x)
	case *ast.Let:
		if err := m.ctx.Err(); err != nil {
			return 0, err
		}
		mark := len(m.env)
		defer func() { m.env = m.env[:mark] }()
		for _, b := range x.Bindings {
			v, err := m.eval(b.Value)
			if err != nil {
				return 0, err
			}
			m.env = append(m.env, binding{name: b.Name, value: v})
		}
		return m.eval(x.Body)
	case *ast.ErrorNode:
		return 0, fmt.Errorf("%w: %s", ErrErrorNode, x.Msg)
	case nil:
		return 0, invariant.Errorf("interp", "nil node")
	default:
		return 0, invariant.Errorf("interp", "unexpected node %T", n)
	}
}

func (m *machine) prim(p *ast.Prim) (int64, error) {
	arity, ok := p.Op.Arity()
	if !ok {
		return 0, invariant.Errorf("interp", "unknown operator %q", p.Op)
	}
	if len(p.Args) != arity {
		return 0, invariant.Errorf("interp", "%s expects %d operands, got %d", p.Op, arity, len(p.Args))
	}
	switch p.Op {
	case ast.OpRead:
		v, err := m.input.Read()
		if err != nil {
			return 0, err
		}
		return v, nil
	case ast.OpNeg:
		v, err := m.eval(p.Args[0])
		if err != nil {
			return 0, err
		}
		return -v, nil
	default:
		a, err := m.eval(p.Args[0])
		if err != nil {
			return 0, err
		}
		b, err := m.eval(p.Args[1])
		if err != nil {
			return 0, err
		}
		return a + b, nil
	}
}
