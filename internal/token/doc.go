// Package token defines lexical token kinds for the let language.
// Invariants:
//   - Token.Text is the exact source text for Span, except identifiers, whose
//     Text is NFC-normalized.
//   - Comments and whitespace never reach the token stream.
package token
