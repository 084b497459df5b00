package lexer

import (
	"letc/internal/diag"
	"letc/internal/token"
)

// scanNumber accepts -?[0-9]+. Digits glued to identifier characters form a
// malformed literal. Range checking is left to the parser.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	if lx.cursor.Peek() == '-' {
		lx.cursor.Bump()
	}
	for isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	if !lx.cursor.EOF() && !isDelimiter(lx.cursor.Peek()) {
		for !lx.cursor.EOF() && !isDelimiter(lx.cursor.Peek()) {
			lx.bumpRune()
		}
		tok := lx.tokenFrom(token.Invalid, start)
		lx.report(diag.LexBadNumber, tok.Span, "malformed integer literal "+quote(tok.Text))
		return tok
	}
	return lx.tokenFrom(token.IntLit, start)
}

func (lx *Lexer) isDigitAfterMinus() bool {
	b0, b1, ok := lx.cursor.Peek2()
	return ok && b0 == '-' && isDec(b1)
}
