package diag

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"letc/internal/source"
)

// shortLine is one rendered line of FormatShort output.
type shortLine struct {
	sev  string
	code string
	pos  string // "path:line:col", empty for unlocated diagnostics
	line uint32
	col  uint32
	msg  string
}

// FormatShort renders one line per diagnostic, and per note when
// includeNotes is set:
//
//	error SYN2301 dir/a.let:1:1 message
//
// Lines are ordered by path, line and column. IO and internal diagnostics
// carry no position and sort first.
func FormatShort(diags []*Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if len(diags) == 0 {
		return ""
	}
	lines := make([]shortLine, 0, len(diags))
	for _, d := range diags {
		label := strings.ToLower(d.Severity.String())
		line := shortLine{sev: label, code: d.Code.ID(), msg: oneLine(d.Message)}
		if d.Code < IOLoadFileError {
			line.pos, line.line, line.col = shortPosition(fs, d.Primary)
		}
		lines = append(lines, line)
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			pos, ln, col := shortPosition(fs, n.Span)
			if pos == "" {
				continue
			}
			lines = append(lines, shortLine{sev: "note", code: d.Code.ID(), pos: pos, line: ln, col: col, msg: oneLine(n.Msg)})
		}
	}

	slices.SortStableFunc(lines, func(a, b shortLine) int {
		pa, _, _ := strings.Cut(a.pos, ":")
		pb, _, _ := strings.Cut(b.pos, ":")
		if c := strings.Compare(pa, pb); c != 0 {
			return c
		}
		if a.line != b.line {
			return int(a.line) - int(b.line)
		}
		return int(a.col) - int(b.col)
	})

	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		if l.pos == "" {
			fmt.Fprintf(&b, "%s %s %s", l.sev, l.code, l.msg)
			continue
		}
		fmt.Fprintf(&b, "%s %s %s %s", l.sev, l.code, l.pos, l.msg)
	}
	return b.String()
}

func shortPosition(fs *source.FileSet, span source.Span) (string, uint32, uint32) {
	if fs == nil || int(span.File) >= fs.Len() {
		return "", 0, 0
	}
	path := filepath.ToSlash(fs.Get(span.File).FormatPath("relative", fs.BaseDir()))
	path = strings.TrimPrefix(path, "./")
	start, _ := fs.Resolve(span)
	return fmt.Sprintf("%s:%d:%d", path, start.Line, start.Col), start.Line, start.Col
}

func oneLine(msg string) string {
	return strings.TrimSpace(strings.Join(strings.Fields(msg), " "))
}
