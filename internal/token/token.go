package token

import (
	"letc/internal/source"
)

// Token represents a single source token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsOperator reports whether the token can head a primitive application.
func (t Token) IsOperator() bool {
	switch t.Kind {
	case Plus, Minus, KwRead:
		return true
	default:
		return false
	}
}

func (t Token) IsKeyword() bool {
	switch t.Kind {
	case KwLet, KwRead:
		return true
	default:
		return false
	}
}

func (t Token) IsIdent() bool { return t.Kind == Ident }
