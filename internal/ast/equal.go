package ast

// Equal reports structural equality. ErrorNodes compare by message and token
// text only.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case *IntLit:
		y, ok := b.(*IntLit)
		return ok && x.Value == y.Value
	case *Var:
		y, ok := b.(*Var)
		return ok && x.Name == y.Name
	case *Prim:
		y, ok := b.(*Prim)
		if !ok || x.Op != y.Op || len(x.Args) != len(y.Args) {
			return false
		}
		for i := range x.Args {
			if !Equal(x.Args[i], y.Args[i]) {
				return false
			}
		}
		return true
	case *Let:
		y, ok := b.(*Let)
		if !ok || len(x.Bindings) != len(y.Bindings) {
			return false
		}
		for i := range x.Bindings {
			if x.Bindings[i].Name != y.Bindings[i].Name || !Equal(x.Bindings[i].Value, y.Bindings[i].Value) {
				return false
			}
		}
		return Equal(x.Body, y.Body)
	case *ErrorNode:
		y, ok := b.(*ErrorNode)
		return ok && x.Msg == y.Msg && x.Token.Text == y.Token.Text
	default:
		return false
	}
}

// EqualPrograms compares two programs' expressions.
func EqualPrograms(a, b Program) bool {
	return a.Info == b.Info && Equal(a.Exp, b.Exp)
}
