package diag

import "letc/internal/source"

type reportKey struct {
	code Code
	sev  Severity
	span source.Span
	msg  string
}

// DedupReporter drops reports identical in code, severity, span and message
// to an earlier one. Parser recovery at a missing ')' can hit the same
// position more than once.
type DedupReporter struct {
	next Reporter
	seen map[reportKey]bool
}

func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{next: next, seen: make(map[reportKey]bool)}
}

func (r *DedupReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	key := reportKey{code: code, sev: sev, span: primary, msg: msg}
	if r.seen[key] {
		return
	}
	r.seen[key] = true
	r.next.Report(code, sev, primary, msg, notes)
}
