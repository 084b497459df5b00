package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"letc/internal/ast"
	"letc/internal/source"
)

// CheckErrorSpans verifies that every ErrorNode in prog carries a token
// whose span lies inside sf.
func CheckErrorSpans(prog ast.Program, sf *source.File) error {
	if sf == nil {
		return fmt.Errorf("nil file")
	}
	limit, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	var bad error
	ast.Walk(prog.Exp, func(n ast.Node) bool {
		e, ok := n.(*ast.ErrorNode)
		if !ok || bad != nil {
			return bad == nil
		}
		sp := e.Token.Span
		switch {
		case sp.File != sf.ID:
			bad = fmt.Errorf("error node %q points to file %d, want %d", e.Msg, sp.File, sf.ID)
		case sp.End < sp.Start:
			bad = fmt.Errorf("error node %q has inverted span %v", e.Msg, sp)
		case sp.End > limit:
			bad = fmt.Errorf("error node %q span %v beyond content (%d bytes)", e.Msg, sp, limit)
		}
		return true
	})
	return bad
}
