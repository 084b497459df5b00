// Package rco removes complex operands: after Flatten, every operand of a
// primitive is an integer literal or a variable, and every intermediate
// value is bound by a let to a fresh temporary.
//
// Temporaries are named "%tmp.N" with N counting from 0 in allocation order.
// '%' is outside the surface identifier alphabet, so they never collide
// with user names. The pass expects uniquely named input (see uniquify):
// bindings hoisted out of nested lets keep their names.
package rco

import (
	"context"
	"strconv"

	"letc/internal/ast"
	"letc/internal/invariant"
	"letc/internal/source"
	"letc/internal/trace"
)

const (
	passName   = "rco"
	tempPrefix = "%tmp."
)

type Options struct {
	// HoistedFirst lists the bindings of a let whose values needed
	// flattening (with their temporaries) ahead of the untouched ones.
	// The default keeps program order, which keeps reads in order.
	HoistedFirst bool
	// Strings, when set, interns the names of temporaries.
	Strings *source.Interner
}

// record is a temporary and the value hoisted into it.
type record struct {
	name  string
	value ast.Node
}

type flattener struct {
	ctx     context.Context
	opts    Options
	next    int
	records []record // append-only; lookup takes the first match
	tracing bool
}

// Flatten returns a copy of prog in which all primitive operands are atomic.
func Flatten(ctx context.Context, prog ast.Program, opts Options) (ast.Program, error) {
	ctx, span := trace.Start(ctx, trace.ScopePass, passName)
	f := &flattener{
		ctx:     ctx,
		opts:    opts,
		tracing: trace.FromContext(ctx).Level().ShouldEmit(trace.ScopeNode),
	}
	exp, err := f.flatten(prog.Exp)
	if err != nil {
		span.End(err.Error())
		return ast.Program{}, err
	}
	span.WithExtra("temps", strconv.Itoa(f.next)).End("")
	return ast.Program{Info: prog.Info, Exp: exp}, nil
}

// IsTemp reports whether name was generated by Flatten.
func IsTemp(name string) bool {
	return len(name) > len(tempPrefix) && name[:len(tempPrefix)] == tempPrefix
}

func (f *flattener) fresh() string {
	name := tempPrefix + strconv.Itoa(f.next)
	f.next++
	if f.opts.Strings != nil {
		name = f.opts.Strings.InternString(name)
	}
	return name
}

func (f *flattener) record(name string, value ast.Node) {
	f.records = append(f.records, record{name: name, value: value})
	if f.tracing {
		trace.Point(f.ctx, trace.ScopeNode, "tmp", name+" = "+ast.String(value))
	}
}

func (f *flattener) lookup(name string) (ast.Node, error) {
	for _, r := range f.records {
		if r.name == name {
			return r.value, nil
		}
	}
	return nil, invariant.Errorf(passName, "no record for temporary %s", name)
}

// flatten rewrites n so that no primitive inside it has a complex operand.
// The result is n itself or a *ast.Let.
func (f *flattener) flatten(n ast.Node) (ast.Node, error) {
	switch x := n.(type) {
	case *ast.IntLit, *ast.Var, *ast.ErrorNode:
		return n, nil
	case *ast.Prim:
		if err := checkArity(x); err != nil {
			return nil, err
		}
		if x.Op == ast.OpRead {
			return n, nil
		}
		return f.flattenPrim(x)
	case *ast.Let:
		return f.flattenLet(x)
	case nil:
		return nil, invariant.Errorf(passName, "nil node")
	default:
		return nil, invariant.Errorf(passName, "unexpected node %T", n)
	}
}

// flattenPrim atomizes the operands of p left to right. When any operand was
// hoisted the result is a let binding the temporaries (first operand's
// first) around a primitive over the atoms.
func (f *flattener) flattenPrim(p *ast.Prim) (ast.Node, error) {
	atoms := make([]ast.Node, len(p.Args))
	var hoisted []string
	for i, arg := range p.Args {
		h, atom, err := f.atomize(arg)
		if err != nil {
			return nil, err
		}
		atoms[i] = atom
		if h {
			hoisted = append(hoisted, atom.(*ast.Var).Name)
		}
	}
	if len(hoisted) == 0 {
		return p, nil
	}
	var bindings []ast.Binding
	for _, name := range hoisted {
		value, err := f.lookup(name)
		if err != nil {
			return nil, err
		}
		bindings = splice(bindings, name, value)
	}
	return &ast.Let{Bindings: bindings, Body: &ast.Prim{Op: p.Op, Args: atoms}}, nil
}

func (f *flattener) flattenLet(let *ast.Let) (ast.Node, error) {
	if err := f.ctx.Err(); err != nil {
		return nil, err
	}
	var changed, untouched []ast.Binding
	for _, b := range let.Bindings {
		value, err := f.flatten(b.Value)
		if err != nil {
			return nil, err
		}
		if _, isLet := value.(*ast.Let); isLet && f.opts.HoistedFirst {
			changed = splice(changed, b.Name, value)
			continue
		}
		if f.opts.HoistedFirst {
			untouched = append(untouched, b)
			continue
		}
		changed = splice(changed, b.Name, value)
	}
	body, err := f.flatten(let.Body)
	if err != nil {
		return nil, err
	}
	return &ast.Let{Bindings: append(changed, untouched...), Body: body}, nil
}

// atomize returns an atom standing for n. Complex nodes get a fresh
// temporary, allocated before n's own operands are flattened, and are
// recorded under it; hoisted is true in that case.
func (f *flattener) atomize(n ast.Node) (hoisted bool, atom ast.Node, err error) {
	switch x := n.(type) {
	case *ast.IntLit, *ast.Var, *ast.ErrorNode:
		return false, n, nil
	case *ast.Prim:
		if err := checkArity(x); err != nil {
			return false, nil, err
		}
		name := f.fresh()
		value := ast.Node(x)
		if x.Op != ast.OpRead {
			if value, err = f.flatten(x); err != nil {
				return false, nil, err
			}
		}
		f.record(name, value)
		return true, &ast.Var{Name: name}, nil
	case *ast.Let:
		name := f.fresh()
		value, err := f.flatten(x)
		if err != nil {
			return false, nil, err
		}
		f.record(name, value)
		return true, &ast.Var{Name: name}, nil
	case nil:
		return false, nil, invariant.Errorf(passName, "nil operand")
	default:
		return false, nil, invariant.Errorf(passName, "unexpected operand %T", n)
	}
}

// splice appends the binding name = value to bindings. A let value is
// opened up: its bindings come first and name is bound to its body, repeated
// while the body is itself a let. No binding value produced by the pass is
// a let, which makes a second run a no-op.
func splice(bindings []ast.Binding, name string, value ast.Node) []ast.Binding {
	for {
		let, ok := value.(*ast.Let)
		if !ok {
			return append(bindings, ast.Binding{Name: name, Value: value})
		}
		bindings = append(bindings, let.Bindings...)
		value = let.Body
	}
}

func checkArity(p *ast.Prim) error {
	arity, ok := p.Op.Arity()
	if !ok {
		return invariant.Errorf(passName, "unknown operator %q", p.Op)
	}
	if len(p.Args) != arity {
		return invariant.Errorf(passName, "%s expects %d operands, got %d", p.Op, arity, len(p.Args))
	}
	return nil
}
