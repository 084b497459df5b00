// Package diag defines the diagnostic model shared by all pipeline phases.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity: Info, Warning or Error.
//   - Code: compact numeric identifier with a stable string form (codes.go).
//   - Message: short, actionable text.
//   - Primary: the source.Span the diagnostic points at.
//   - Notes: optional secondary spans with extra context.
//
// # Emitting diagnostics
//
// Phases report through a Reporter so that storage stays decoupled. The
// parser builds diagnostics with ReportError/ReportWarning, attaches notes
// and calls Emit. BagReporter collects everything into a Bag, which supports
// sorting, deduplication and merging.
//
// Package diag performs no formatting or IO; rendering lives in
// internal/diagfmt.
package diag
