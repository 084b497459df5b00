// Package parser builds an ast.Program from the token stream of one file.
//
// The surface grammar is
//
//	exp ::= int | ident | (read) | (- exp) | (+ exp exp)
//	      | (let ([ident exp] ...) exp)
//
// Syntax errors never abort the parse: the offending sub-expression is
// replaced by an ast.ErrorNode carrying the token it failed on, a SYN
// diagnostic is reported, and parsing resumes after the enclosing form.
package parser
