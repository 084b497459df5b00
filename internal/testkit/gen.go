package testkit

import (
	"math/rand/v2"
	"slices"
	"strconv"

	"letc/internal/ast"
)

var genNames = []string{"a", "b", "x", "y", "tmp"}

// RandomProgram builds a well-scoped program of bounded depth. No binding
// value mentions the name it binds, so sequential resolution keeps its
// meaning. The number of reads it performs is returned alongside.
func RandomProgram(r *rand.Rand, depth int) (ast.Program, int) {
	g := &generator{r: r}
	return ast.Program{Exp: g.exp(depth, nil)}, g.reads
}

type generator struct {
	r     *rand.Rand
	reads int
}

func (g *generator) exp(depth int, scope []string) ast.Node {
	if depth <= 0 {
		return g.leaf(scope)
	}
	switch g.r.IntN(6) {
	case 0:
		return g.leaf(scope)
	case 1:
		g.reads++
		return ast.Read()
	case 2:
		return ast.Neg(g.exp(depth-1, scope))
	case 3:
		return ast.Add(g.exp(depth-1, scope), g.exp(depth-1, scope))
	default:
		return g.let(depth, scope)
	}
}

func (g *generator) let(depth int, scope []string) ast.Node {
	n := 1 + g.r.IntN(3)
	inner := slices.Clone(scope)
	bindings := make([]ast.Binding, n)
	for i := range bindings {
		name := genNames[g.r.IntN(len(genNames))]
		visible := slices.DeleteFunc(slices.Clone(inner), func(s string) bool { return s == name })
		bindings[i] = ast.Binding{Name: name, Value: g.exp(depth-1, visible)}
		inner = append(inner, name)
	}
	return &ast.Let{Bindings: bindings, Body: g.exp(depth-1, inner)}
}

func (g *generator) leaf(scope []string) ast.Node {
	if len(scope) > 0 && g.r.IntN(2) == 0 {
		return ast.Ref(scope[g.r.IntN(len(scope))])
	}
	return ast.Int(int64(g.r.IntN(100)) - 50)
}

// Inputs returns n distinct values for (read).
func Inputs(n int) []int64 {
	out := make([]int64, n)
	for i := range out {
		out[i] = int64(1000 + 7*i)
	}
	return out
}

// Label names a generated case for t.Run.
func Label(seed uint64) string { return "seed" + strconv.FormatUint(seed, 10) }
