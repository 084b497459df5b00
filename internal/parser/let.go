package parser

import (
	"letc/internal/ast"
	"letc/internal/diag"
	"letc/internal/token"
)

// parseLet parses the rest of (let ([name exp] ...) body) after the keyword.
// Any malformed piece turns the whole form into an ErrorNode; parsing still
// runs to the closing paren so later errors are reported too.
func (p *Parser) parseLet(open, kw token.Token) ast.Node {
	var (
		bindings []ast.Binding
		bad      *ast.ErrorNode
	)
	fail := func(msg string, tok token.Token) {
		if bad == nil {
			bad = &ast.ErrorNode{Msg: msg, Token: tok}
		}
	}

	if lp, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' to open the let bindings"); ok {
		for p.at(token.LBracket) {
			if b, ok := p.parseBinding(); ok {
				bindings = append(bindings, b)
			} else {
				fail("malformed let binding", lp)
			}
		}
		if !p.at(token.RParen) {
			tok := p.lx.Peek()
			p.err(diag.SynUnexpectedToken, "expected '[' or ')' in let bindings, got "+describe(tok))
			fail("malformed let bindings", tok)
			p.recover(token.RParen)
		} else {
			p.advance()
		}
	} else {
		fail("let without bindings", kw)
		if !p.at(token.RParen) && !p.at(token.EOF) {
			p.parseExpr()
		}
	}

	var body ast.Node
	if p.at(token.RParen) || p.at(token.EOF) {
		tok := p.lx.Peek()
		p.err(diag.SynExpectExpression, "let is missing its body")
		fail("let without body", tok)
	} else {
		body = p.parseExpr()
		if !p.at(token.RParen) && !p.at(token.EOF) {
			tok := p.lx.Peek()
			p.err(diag.SynUnexpectedToken, "let takes a single body expression")
			fail("let with more than one body", tok)
			p.recover(token.RParen)
			return bad
		}
	}
	if !p.closeForm(open) {
		return &ast.ErrorNode{Msg: "unclosed '('", Token: open}
	}
	if bad != nil {
		return bad
	}
	if len(bindings) == 0 {
		p.report(diag.SynEmptyLet, diag.SevWarning, open.Span.Cover(p.lastSpan), "let without bindings is just its body")
		return body
	}
	return &ast.Let{Bindings: bindings, Body: body}
}

// parseBinding parses [name exp]. On failure it skips to the matching ']'.
func (p *Parser) parseBinding() (ast.Binding, bool) {
	p.advance() // '['
	nameTok := p.lx.Peek()
	if nameTok.Kind != token.Ident {
		p.err(diag.SynExpectIdentifier, "expected identifier in let binding, got "+describe(nameTok))
		p.recover(token.RBracket)
		return ast.Binding{}, false
	}
	p.advance()
	name := p.strings.InternString(nameTok.Text)

	if p.at(token.RBracket) || p.at(token.EOF) {
		p.err(diag.SynExpectExpression, "binding for "+name+" has no value")
		p.recover(token.RBracket)
		return ast.Binding{}, false
	}
	value := p.parseExpr()
	if !p.at(token.RBracket) {
		p.err(diag.SynUnexpectedToken, "expected ']' after the value of "+name+", got "+describe(p.lx.Peek()))
		p.recover(token.RBracket)
		return ast.Binding{}, false
	}
	p.advance()
	return ast.Binding{Name: name, Value: value}, true
}
