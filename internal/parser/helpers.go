package parser

import (
	"strconv"

	"letc/internal/diag"
	"letc/internal/source"
	"letc/internal/token"
)

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

func (p *Parser) advance() token.Token {
	tok := p.lx.Next()
	if tok.Kind != token.EOF {
		p.lastSpan = tok.Span
	}
	return tok
}

// diagSpan points at the next token, or just past the last one at EOF.
func (p *Parser) diagSpan() source.Span {
	peek := p.lx.Peek()
	if peek.Kind == token.EOF && p.lastSpan.End > 0 {
		return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return peek.Span
}

func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	p.err(code, msg+", got "+describe(p.lx.Peek()))
	return p.lx.Peek(), false
}

// closeForm consumes the ')' matching open or reports it unclosed.
func (p *Parser) closeForm(open token.Token) bool {
	if p.at(token.RParen) {
		p.advance()
		return true
	}
	p.unclosed(open)
	return false
}

func (p *Parser) unclosed(open token.Token) {
	diag.ReportError(p.reporter(), diag.SynUnclosedParen, p.diagSpan(), "expected ')'").
		WithNote(open.Span, "to match this '('").
		Emit()
	p.countError()
}

// recover skips tokens up to and including the closer of the current
// nesting level. It stops without consuming at a ')' that belongs to an
// enclosing form, or at EOF.
func (p *Parser) recover(closer token.Kind) {
	depth := 0
	for {
		tok := p.lx.Peek()
		switch {
		case tok.Kind == token.EOF:
			return
		case tok.Kind.IsOpen():
			depth++
		case tok.Kind.IsClose():
			if depth == 0 {
				if tok.Kind == closer {
					p.advance()
					return
				}
				// a stray ']' cannot end a form
				if closer == token.RParen && tok.Kind == token.RBracket {
					p.advance()
					continue
				}
				return
			}
			depth--
		}
		p.advance()
	}
}

func (p *Parser) err(code diag.Code, msg string) {
	p.report(code, diag.SevError, p.diagSpan(), msg)
	p.errors++
}

func (p *Parser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) {
	if sev == diag.SevError {
		p.opts.CurrentErrors++
		if p.opts.MaxErrors > 0 && p.opts.CurrentErrors > p.opts.MaxErrors {
			return
		}
	}
	if p.opts.Reporter != nil {
		p.opts.Reporter.Report(code, sev, sp, msg, nil)
	}
}

// reporter wraps Options.Reporter with the error budget for builder use.
func (p *Parser) reporter() diag.Reporter {
	if p.opts.Reporter == nil || (p.opts.MaxErrors > 0 && p.opts.CurrentErrors >= p.opts.MaxErrors) {
		return diag.NopReporter{}
	}
	return p.opts.Reporter
}

func (p *Parser) countError() {
	p.opts.CurrentErrors++
	p.errors++
}

func describe(tok token.Token) string {
	switch tok.Kind {
	case token.EOF:
		return "end of file"
	case token.IntLit, token.Ident, token.Invalid:
		return strconv.Quote(tok.Text)
	default:
		return "'" + tok.Text + "'"
	}
}
