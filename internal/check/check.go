// Package check validates the shape of pass outputs.
package check

import (
	"errors"

	"letc/internal/ast"
	"letc/internal/invariant"
)

const passName = "verify"

// Unique reports every name bound by more than one let binding.
func Unique(prog ast.Program) error {
	seen := make(map[string]struct{})
	var errs []error
	ast.Walk(prog.Exp, func(n ast.Node) bool {
		let, ok := n.(*ast.Let)
		if !ok {
			return true
		}
		for _, b := range let.Bindings {
			if _, dup := seen[b.Name]; dup {
				errs = append(errs, invariant.Errorf(passName, "%s is bound more than once", b.Name))
				continue
			}
			seen[b.Name] = struct{}{}
		}
		return true
	})
	return errors.Join(errs...)
}

// Atomic reports every primitive operand that is neither a literal nor a
// variable. Carried ErrorNodes are accepted in operand position.
func Atomic(prog ast.Program) error {
	var errs []error
	ast.Walk(prog.Exp, func(n ast.Node) bool {
		p, ok := n.(*ast.Prim)
		if !ok {
			return true
		}
		for i, arg := range p.Args {
			if ast.IsAtom(arg) {
				continue
			}
			if _, carried := arg.(*ast.ErrorNode); carried {
				continue
			}
			errs = append(errs, invariant.Errorf(passName, "operand %d of (%s ...) is not atomic: %s", i+1, p.Op, ast.String(arg)))
		}
		return true
	})
	return errors.Join(errs...)
}

// ErrorNodes collects the parse failures carried by prog, in pre-order.
func ErrorNodes(prog ast.Program) []*ast.ErrorNode {
	var out []*ast.ErrorNode
	ast.Walk(prog.Exp, func(n ast.Node) bool {
		if e, ok := n.(*ast.ErrorNode); ok {
			out = append(out, e)
		}
		return true
	})
	return out
}
