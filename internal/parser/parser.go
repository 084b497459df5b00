package parser

import (
	"context"
	"strconv"

	"letc/internal/ast"
	"letc/internal/diag"
	"letc/internal/lexer"
	"letc/internal/source"
	"letc/internal/token"
	"letc/internal/trace"
)

type Options struct {
	MaxErrors     uint // 0 means unlimited
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough reports whether the error budget is spent.
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

type Result struct {
	Program ast.Program
	Errors  uint // syntax errors, invalid tokens included
	Bag     *diag.Bag
}

// Parser holds the state for one file.
type Parser struct {
	lx       *lexer.Lexer
	strings  *source.Interner
	fs       *source.FileSet
	opts     Options
	lastSpan source.Span
	errors   uint
}

// ParseFile reads exactly one expression from lx. Malformed sub-expressions
// become ErrorNodes and parsing continues, so the result always carries a
// program.
func ParseFile(
	ctx context.Context,
	fs *source.FileSet,
	lx *lexer.Lexer,
	strings *source.Interner,
	opts Options,
) Result {
	_, span := trace.Start(ctx, trace.ScopePass, "parse")
	if strings == nil {
		strings = source.NewInterner()
	}
	p := Parser{lx: lx, strings: strings, fs: fs, opts: opts}

	exp := p.parseExpr()
	if !p.at(token.EOF) {
		start := p.lx.Peek().Span
		for !p.at(token.EOF) {
			p.advance()
		}
		p.report(diag.SynTrailingInput, diag.SevError, start.Cover(p.lastSpan),
			"unexpected input after the program expression")
		p.errors++
	}

	var bag *diag.Bag
	switch r := opts.Reporter.(type) {
	case *diag.BagReporter:
		bag = r.Bag
	case diag.BagReporter:
		bag = r.Bag
	}
	span.WithExtra("errors", strconv.FormatUint(uint64(p.errors), 10)).End("")
	return Result{
		Program: ast.Program{Exp: exp},
		Errors:  p.errors,
		Bag:     bag,
	}
}

// parseExpr parses one expression. It consumes at least one token unless
// positioned at ')' or EOF.
func (p *Parser) parseExpr() ast.Node {
	tok := p.lx.Peek()
	switch tok.Kind {
	case token.IntLit:
		p.advance()
		return p.intLit(tok)
	case token.Ident:
		p.advance()
		return &ast.Var{Name: p.strings.InternString(tok.Text)}
	case token.LParen:
		return p.parseForm()
	case token.Invalid:
		// already reported by the lexer
		p.advance()
		p.errors++
		return &ast.ErrorNode{Msg: "invalid token " + strconv.Quote(tok.Text), Token: tok}
	case token.EOF:
		p.err(diag.SynExpectExpression, "expected expression, got end of file")
		return &ast.ErrorNode{Msg: "unexpected end of file", Token: tok}
	case token.RParen:
		p.err(diag.SynExpectExpression, "expected expression, got ')'")
		return &ast.ErrorNode{Msg: "missing expression", Token: tok}
	default:
		p.advance()
		p.err(diag.SynExpectExpression, "expected expression, got "+describe(tok))
		if tok.IsOperator() || tok.Kind == token.KwLet {
			return &ast.ErrorNode{Msg: describe(tok) + " must be applied in parentheses", Token: tok}
		}
		return &ast.ErrorNode{Msg: "unexpected " + describe(tok), Token: tok}
	}
}

func (p *Parser) intLit(tok token.Token) ast.Node {
	v, err := strconv.ParseInt(tok.Text, 10, 64)
	if err != nil {
		p.report(diag.LexBadNumber, diag.SevError, tok.Span,
			"integer literal "+tok.Text+" does not fit in 64 bits")
		p.errors++
		return &ast.ErrorNode{Msg: "integer literal out of range", Token: tok}
	}
	return &ast.IntLit{Value: v}
}

// parseForm parses a parenthesized form: an operator application or a let.
func (p *Parser) parseForm() ast.Node {
	open := p.advance()
	head := p.lx.Peek()
	switch head.Kind {
	case token.KwLet:
		p.advance()
		return p.parseLet(open, head)
	case token.KwRead:
		p.advance()
		return p.parsePrim(open, head, ast.OpRead)
	case token.Plus:
		p.advance()
		return p.parsePrim(open, head, ast.OpAdd)
	case token.Minus:
		p.advance()
		return p.parsePrim(open, head, ast.OpNeg)
	case token.RParen:
		p.advance()
		p.report(diag.SynExpectExpression, diag.SevError, open.Span.Cover(head.Span), "empty form '()'")
		p.errors++
		return &ast.ErrorNode{Msg: "empty form", Token: head}
	case token.EOF:
		p.unclosed(open)
		return &ast.ErrorNode{Msg: "unclosed '('", Token: open}
	default:
		p.report(diag.SynUnknownOperator, diag.SevError, head.Span,
			"unknown operator "+describe(head)+" (expected read, +, - or let)")
		p.errors++
		p.recover(token.RParen)
		return &ast.ErrorNode{Msg: "unknown operator " + strconv.Quote(head.Text), Token: head}
	}
}

// parsePrim parses operands up to ')' and checks the operator's arity.
func (p *Parser) parsePrim(open, head token.Token, op ast.Op) ast.Node {
	var args []ast.Node
	for !p.at(token.RParen) && !p.at(token.EOF) {
		args = append(args, p.parseExpr())
	}
	if !p.closeForm(open) {
		return &ast.ErrorNode{Msg: "unclosed '('", Token: open}
	}
	arity, _ := op.Arity()
	if len(args) != arity {
		msg := "'" + string(op) + "' expects " + operands(arity) + ", got " + strconv.Itoa(len(args))
		p.report(diag.SynBadArity, diag.SevError, open.Span.Cover(p.lastSpan), msg)
		p.errors++
		return &ast.ErrorNode{Msg: msg, Token: head}
	}
	return &ast.Prim{Op: op, Args: args}
}

func operands(n int) string {
	if n == 1 {
		return "1 operand"
	}
	return strconv.Itoa(n) + " operands"
}
