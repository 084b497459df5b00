package ast

import (
	"fmt"

	"letc/internal/token"
)

// Wire is the serializable form of a Node. Exactly the fields relevant to
// Kind are populated. It is used for JSON output and the msgpack build cache.
type Wire struct {
	Kind     string        `json:"kind" msgpack:"k"`
	Value    int64         `json:"value,omitempty" msgpack:"v,omitempty"`
	Op       string        `json:"op,omitempty" msgpack:"o,omitempty"`
	Name     string        `json:"name,omitempty" msgpack:"n,omitempty"`
	Args     []*Wire       `json:"args,omitempty" msgpack:"a,omitempty"`
	Bindings []WireBinding `json:"bindings,omitempty" msgpack:"b,omitempty"`
	Body     *Wire         `json:"body,omitempty" msgpack:"y,omitempty"`
	Msg      string        `json:"msg,omitempty" msgpack:"m,omitempty"`
	Token    string        `json:"token,omitempty" msgpack:"t,omitempty"`
}

// WireBinding is the serializable form of a Binding.
type WireBinding struct {
	Name  string `json:"name" msgpack:"n"`
	Value *Wire  `json:"value" msgpack:"v"`
}

// Encode converts n to its wire form. A nil node encodes to nil.
func Encode(n Node) *Wire {
	switch x := n.(type) {
	case *IntLit:
		return &Wire{Kind: KindInt.String(), Value: x.Value}
	case *Var:
		return &Wire{Kind: KindVar.String(), Name: x.Name}
	case *Prim:
		w := &Wire{Kind: KindPrim.String(), Op: string(x.Op)}
		if len(x.Args) > 0 {
			w.Args = make([]*Wire, len(x.Args))
			for i, arg := range x.Args {
				w.Args[i] = Encode(arg)
			}
		}
		return w
	case *Let:
		w := &Wire{Kind: KindLet.String(), Body: Encode(x.Body)}
		w.Bindings = make([]WireBinding, len(x.Bindings))
		for i, b := range x.Bindings {
			w.Bindings[i] = WireBinding{Name: b.Name, Value: Encode(b.Value)}
		}
		return w
	case *ErrorNode:
		return &Wire{Kind: KindError.String(), Msg: x.Msg, Token: x.Token.Text}
	default:
		return nil
	}
}

// Decode rebuilds a Node from its wire form. Spans are not preserved.
func Decode(w *Wire) (Node, error) {
	if w == nil {
		return nil, fmt.Errorf("ast: decode: nil node")
	}
	switch w.Kind {
	case KindInt.String():
		return &IntLit{Value: w.Value}, nil
	case KindVar.String():
		if w.Name == "" {
			return nil, fmt.Errorf("ast: decode: Var without name")
		}
		return &Var{Name: w.Name}, nil
	case KindPrim.String():
		op := Op(w.Op)
		arity, ok := op.Arity()
		if !ok {
			return nil, fmt.Errorf("ast: decode: unknown operator %q", w.Op)
		}
		if len(w.Args) != arity {
			return nil, fmt.Errorf("ast: decode: %s expects %d operands, got %d", op, arity, len(w.Args))
		}
		p := &Prim{Op: op}
		if arity > 0 {
			p.Args = make([]Node, arity)
		}
		for i, a := range w.Args {
			arg, err := Decode(a)
			if err != nil {
				return nil, err
			}
			p.Args[i] = arg
		}
		return p, nil
	case KindLet.String():
		let := &Let{Bindings: make([]Binding, len(w.Bindings))}
		for i, b := range w.Bindings {
			v, err := Decode(b.Value)
			if err != nil {
				return nil, fmt.Errorf("ast: decode binding %q: %w", b.Name, err)
			}
			let.Bindings[i] = Binding{Name: b.Name, Value: v}
		}
		body, err := Decode(w.Body)
		if err != nil {
			return nil, fmt.Errorf("ast: decode let body: %w", err)
		}
		let.Body = body
		return let, nil
	case KindError.String():
		return &ErrorNode{Msg: w.Msg, Token: token.Token{Kind: token.Invalid, Text: w.Token}}, nil
	default:
		return nil, fmt.Errorf("ast: decode: unknown kind %q", w.Kind)
	}
}

// EncodeProgram returns the wire form of p's expression.
func EncodeProgram(p Program) *Wire {
	return Encode(p.Exp)
}

// DecodeProgram is the inverse of EncodeProgram.
func DecodeProgram(w *Wire) (Program, error) {
	exp, err := Decode(w)
	if err != nil {
		return Program{}, err
	}
	return Program{Exp: exp}, nil
}
