// Package fuzztests houses Go fuzz harnesses for the compiler pipeline
// (source -> lexer -> parser -> uniquify -> rco). They guard against panics,
// hangs and broken pass invariants on arbitrary input.
package fuzztests
