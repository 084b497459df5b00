// Package uniquify renames every let-bound variable so that each binder in a
// program has a distinct name and every reference points at its binder.
//
// A binder for x introduced by a let nested d levels deep (counting the let
// itself) becomes "x.d". When that spelling was already produced earlier in
// the same program, ".k" is appended with the smallest k that is fresh.
// Surface identifiers cannot contain '.', so generated names never collide
// with free variables.
package uniquify

import (
	"context"
	"strconv"

	"letc/internal/ast"
	"letc/internal/invariant"
	"letc/internal/source"
	"letc/internal/trace"
)

const passName = "uniquify"

type Options struct {
	// Parallel resolves every binding value in the enclosing scope and makes
	// the new names visible only in the body. The default is sequential:
	// each binding is visible to the values after it.
	Parallel bool
	// Strings, when set, interns every generated name so renamed variables
	// share storage with the parser's identifiers.
	Strings *source.Interner
}

// scope maps surface names to their renamed spelling.
type scope map[string]string

type resolver struct {
	ctx     context.Context
	opts    Options
	scopes  []scope
	used    map[string]struct{}
	tracing bool
}

// Resolve returns a copy of prog with all binders and bound references
// renamed. References with no enclosing binder are left as they are.
func Resolve(ctx context.Context, prog ast.Program, opts Options) (ast.Program, error) {
	ctx, span := trace.Start(ctx, trace.ScopePass, passName)
	r := &resolver{
		ctx:     ctx,
		opts:    opts,
		used:    make(map[string]struct{}),
		tracing: trace.FromContext(ctx).Level().ShouldEmit(trace.ScopeNode),
	}
	exp, err := r.resolve(prog.Exp)
	if err != nil {
		span.End(err.Error())
		return ast.Program{}, err
	}
	span.WithExtra("binders", strconv.Itoa(len(r.used))).End("")
	return ast.Program{Info: prog.Info, Exp: exp}, nil
}

func (r *resolver) resolve(n ast.Node) (ast.Node, error) {
	switch x := n.(type) {
	case *ast.IntLit, *ast.ErrorNode:
		return n, nil
	case *ast.Var:
		if name, ok := r.lookup(x.Name); ok {
			return &ast.Var{Name: name}, nil
		}
		return n, nil
	case *ast.Prim:
		args := make([]ast.Node, len(x.Args))
		for i, arg := range x.Args {
			a, err := r.resolve(arg)
			if err != nil {
				return nil, err
			}
			args[i] = a
		}
		return &ast.Prim{Op: x.Op, Args: args}, nil
	case *ast.Let:
		return r.resolveLet(x)
	case nil:
		return nil, invariant.Errorf(passName, "nil node")
	default:
		return nil, invariant.Errorf(passName, "unexpected node %T", n)
	}
}

func (r *resolver) resolveLet(let *ast.Let) (ast.Node, error) {
	if err := r.ctx.Err(); err != nil {
		return nil, err
	}
	frame := scope{}
	r.scopes = append(r.scopes, frame)
	defer func() { r.scopes = r.scopes[:len(r.scopes)-1] }()
	depth := len(r.scopes)

	bindings := make([]ast.Binding, len(let.Bindings))
	for i, b := range let.Bindings {
		fresh := r.fresh(b.Name, depth)
		if !r.opts.Parallel {
			frame[b.Name] = fresh
		}
		value, err := r.resolve(b.Value)
		if err != nil {
			return nil, err
		}
		bindings[i] = ast.Binding{Name: fresh, Value: value}
	}
	if r.opts.Parallel {
		for i, b := range let.Bindings {
			frame[b.Name] = bindings[i].Name
		}
	}

	body, err := r.resolve(let.Body)
	if err != nil {
		return nil, err
	}
	return &ast.Let{Bindings: bindings, Body: body}, nil
}

// lookup searches the scopes innermost first.
func (r *resolver) lookup(name string) (string, bool) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if renamed, ok := r.scopes[i][name]; ok {
			return renamed, true
		}
	}
	return "", false
}

func (r *resolver) fresh(name string, depth int) string {
	base := name + "." + strconv.Itoa(depth)
	candidate := base
	for k := 1; ; k++ {
		if _, taken := r.used[candidate]; !taken {
			break
		}
		candidate = base + "." + strconv.Itoa(k)
	}
	if r.opts.Strings != nil {
		candidate = r.opts.Strings.InternString(candidate)
	}
	r.used[candidate] = struct{}{}
	if r.tracing {
		trace.Point(r.ctx, trace.ScopeNode, "rename", name+" -> "+candidate)
	}
	return candidate
}
