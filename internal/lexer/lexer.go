package lexer

import (
	"letc/internal/diag"
	"letc/internal/source"
	"letc/internal/token"
)

type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   *token.Token // one-token lookahead
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// Next returns the next significant token. After EOF it keeps returning EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	lx.skipTrivia()

	if lx.cursor.EOF() {
		return token.Token{Kind: token.EOF, Span: lx.emptySpan()}
	}

	ch := lx.cursor.Peek()
	switch {
	case ch == '(':
		return lx.single(token.LParen)
	case ch == ')':
		return lx.single(token.RParen)
	case ch == '[':
		return lx.single(token.LBracket)
	case ch == ']':
		return lx.single(token.RBracket)
	case ch == '-' && lx.isDigitAfterMinus():
		return lx.scanNumber()
	case ch == '-' || ch == '+':
		return lx.scanOperator()
	case isDec(ch):
		return lx.scanNumber()
	case isIdentStartByte(ch) || ch >= utf8RuneSelf:
		return lx.scanIdentOrKeyword()
	default:
		return lx.scanUnknown()
	}
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

// All drains the lexer, EOF included.
func (lx *Lexer) All() []token.Token {
	var tokens []token.Token
	for {
		tok := lx.Next()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			return tokens
		}
	}
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

func (lx *Lexer) single(kind token.Kind) token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	return lx.tokenFrom(kind, start)
}

func (lx *Lexer) tokenFrom(kind token.Kind, start Mark) token.Token {
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: kind, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

// skipTrivia drops whitespace and ';' line comments.
func (lx *Lexer) skipTrivia() {
	for !lx.cursor.EOF() {
		switch b := lx.cursor.Peek(); {
		case b == ' ' || b == '\t' || b == '\n' || b == '\r':
			lx.cursor.Bump()
		case b == ';':
			for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
				lx.cursor.Bump()
			}
		default:
			return
		}
	}
}

// scanOperator handles '+' and '-'. A sign glued to identifier characters is
// not an operator and is reported as unknown.
func (lx *Lexer) scanOperator() token.Token {
	start := lx.cursor.Mark()
	b := lx.cursor.Bump()
	if isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Reset(start)
		return lx.scanUnknown()
	}
	if b == '+' {
		return lx.tokenFrom(token.Plus, start)
	}
	return lx.tokenFrom(token.Minus, start)
}

// scanUnknown consumes a run of bytes up to the next delimiter and reports it.
func (lx *Lexer) scanUnknown() token.Token {
	start := lx.cursor.Mark()
	lx.bumpRune()
	for !lx.cursor.EOF() && !isDelimiter(lx.cursor.Peek()) {
		lx.bumpRune()
	}
	tok := lx.tokenFrom(token.Invalid, start)
	lx.report(diag.LexUnknownChar, tok.Span, "unexpected "+quote(tok.Text))
	return tok
}
