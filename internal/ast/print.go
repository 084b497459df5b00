package ast

import (
	"strconv"
	"strings"
)

// String renders n as a single-line S-expression:
//
//	(let ([x.1 42]) (+ x.1 (read)))
//
// ErrorNodes render as (error "msg").
func String(n Node) string {
	var sb strings.Builder
	writeNode(&sb, n)
	return sb.String()
}

func (p Program) String() string {
	return String(p.Exp)
}

func writeNode(sb *strings.Builder, n Node) {
	switch x := n.(type) {
	case nil:
		sb.WriteString("<nil>")
	case *IntLit:
		sb.WriteString(strconv.FormatInt(x.Value, 10))
	case *Var:
		sb.WriteString(x.Name)
	case *Prim:
		sb.WriteByte('(')
		sb.WriteString(string(x.Op))
		for _, arg := range x.Args {
			sb.WriteByte(' ')
			writeNode(sb, arg)
		}
		sb.WriteByte(')')
	case *Let:
		sb.WriteString("(let (")
		for i, b := range x.Bindings {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteByte('[')
			sb.WriteString(b.Name)
			sb.WriteByte(' ')
			writeNode(sb, b.Value)
			sb.WriteByte(']')
		}
		sb.WriteString(") ")
		writeNode(sb, x.Body)
		sb.WriteByte(')')
	case *ErrorNode:
		sb.WriteString("(error ")
		sb.WriteString(strconv.Quote(x.Msg))
		sb.WriteByte(')')
	default:
		sb.WriteString("<unknown>")
	}
}
