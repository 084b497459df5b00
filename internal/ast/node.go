// Package ast defines the expression tree shared by every pass of the let
// language pipeline.
//
// Node is a closed sum: only the types in this package implement it. Passes
// switch over the concrete types and treat any other shape as an internal
// invariant violation. Trees are never mutated after construction; a pass
// returns a new tree and may share untouched sub-trees with its input.
package ast

import (
	"letc/internal/token"
)

// NodeKind enumerates node shapes.
type NodeKind uint8

const (
	KindInt NodeKind = iota + 1
	KindPrim
	KindLet
	KindVar
	KindError
)

// String returns a human-readable name for the node kind.
func (k NodeKind) String() string {
	switch k {
	case KindInt:
		return "Int"
	case KindPrim:
		return "Prim"
	case KindLet:
		return "Let"
	case KindVar:
		return "Var"
	case KindError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Node is an expression tree node.
type Node interface {
	Kind() NodeKind
	node()
}

// IntLit is a 64-bit integer literal.
type IntLit struct {
	Value int64
}

// Prim applies a primitive operator to its operands.
type Prim struct {
	Op   Op
	Args []Node
}

// Binding is one (name, value) pair of a Let.
type Binding struct {
	Name  string
	Value Node
}

// Let binds names in Body. Bindings is empty only transiently.
type Let struct {
	Bindings []Binding
	Body     Node
}

// Var references a bound name.
type Var struct {
	Name string
}

// ErrorNode marks a parse failure. Passes carry it through untouched.
type ErrorNode struct {
	Msg   string
	Token token.Token
}

func (*IntLit) Kind() NodeKind    { return KindInt }
func (*Prim) Kind() NodeKind      { return KindPrim }
func (*Let) Kind() NodeKind       { return KindLet }
func (*Var) Kind() NodeKind       { return KindVar }
func (*ErrorNode) Kind() NodeKind { return KindError }

func (*IntLit) node()    {}
func (*Prim) node()      {}
func (*Let) node()       {}
func (*Var) node()       {}
func (*ErrorNode) node() {}

// Constructors keep call sites short in passes and tests.

func Int(v int64) *IntLit { return &IntLit{Value: v} }

func Ref(name string) *Var { return &Var{Name: name} }

func Read() *Prim { return &Prim{Op: OpRead} }

func Neg(x Node) *Prim { return &Prim{Op: OpNeg, Args: []Node{x}} }

func Add(a, b Node) *Prim { return &Prim{Op: OpAdd, Args: []Node{a, b}} }

func NewLet(body Node, bindings ...Binding) *Let {
	return &Let{Bindings: bindings, Body: body}
}

func Bind(name string, value Node) Binding {
	return Binding{Name: name, Value: value}
}

// IsAtom reports whether n may appear as a primitive operand after operand
// flattening.
func IsAtom(n Node) bool {
	switch n.(type) {
	case *IntLit, *Var:
		return true
	default:
		return false
	}
}
