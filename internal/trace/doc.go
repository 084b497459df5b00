// Package trace records what the let compiler is doing while it runs.
//
// Events are spans (begin/end pairs) and point events, tagged with a scope:
//
//   - ScopeDriver: CLI commands and whole-file compilation
//   - ScopePass: parse, uniquify, rco, verify
//   - ScopeModule: one source file inside a directory build
//   - ScopeNode: per-node decisions such as renames and new temporaries
//
// The level selects which scopes reach the tracer: phase shows driver and
// pass boundaries, detail adds files, debug adds node events.
//
// A tracer travels through the pipeline in a context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.Start(ctx, trace.ScopePass, "rco")
//	defer span.End("")
//
// Tracers: Nop (disabled), StreamTracer (text or NDJSON to a writer),
// RingTracer (last N events kept for a dump after a failure) and
// MultiTracer. A Heartbeat emits periodic events so a stalled build is
// visible in the stream.
package trace
