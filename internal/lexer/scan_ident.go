package lexer

import (
	"golang.org/x/text/unicode/norm"

	"letc/internal/token"
)

const utf8RuneSelf = 0x80

// scanIdentOrKeyword scans an identifier and checks it against the keyword
// table. Identifier text is NFC-normalized so that canonically equivalent
// spellings name the same variable.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()

	r, sz := lx.peekRune()
	if sz == 0 || (r >= utf8RuneSelf && !isIdentStartRune(r)) {
		return lx.scanUnknown()
	}
	lx.bumpRune()
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b < utf8RuneSelf {
			if !isIdentContinueByte(b) {
				break
			}
			lx.cursor.Bump()
			continue
		}
		r2, _ := lx.peekRune()
		if !isIdentContinueRune(r2) {
			break
		}
		lx.bumpRune()
	}

	if !lx.cursor.EOF() && !isDelimiter(lx.cursor.Peek()) {
		// reserved bytes such as '.' or '%' inside a name
		lx.cursor.Reset(start)
		return lx.scanUnknown()
	}

	sp := lx.cursor.SpanFrom(start)
	text := norm.NFC.String(string(lx.file.Content[sp.Start:sp.End]))
	if k, ok := token.LookupKeyword(text); ok {
		return token.Token{Kind: k, Span: sp, Text: text}
	}
	return token.Token{Kind: token.Ident, Span: sp, Text: text}
}
