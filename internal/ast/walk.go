package ast

// Walk visits n and its descendants in pre-order. Returning false from fn
// skips the children of the current node.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	switch x := n.(type) {
	case *Prim:
		for _, arg := range x.Args {
			Walk(arg, fn)
		}
	case *Let:
		for _, b := range x.Bindings {
			Walk(b.Value, fn)
		}
		Walk(x.Body, fn)
	}
}

// Count returns the number of nodes in n.
func Count(n Node) int {
	total := 0
	Walk(n, func(Node) bool {
		total++
		return true
	})
	return total
}
