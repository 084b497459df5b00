package diagfmt

import (
	"fmt"

	"letc/internal/diag"
	"letc/internal/source"
)

// located reports whether d points into a file of fs. I/O, project,
// observability and internal diagnostics carry an empty span.
func located(d *diag.Diagnostic, fs *source.FileSet) bool {
	return fs != nil && d.Code < 4000 && int(d.Primary.File) < fs.Len()
}

func spanInSet(span source.Span, fs *source.FileSet) bool {
	return fs != nil && int(span.File) < fs.Len()
}

func displayPath(f *source.File, fs *source.FileSet, mode PathMode) string {
	switch mode {
	case PathModeRelative:
		return f.FormatPath(mode.String(), fs.BaseDir())
	default:
		return f.FormatPath(mode.String(), "")
	}
}

// formatSpan renders "line:col-line:col" when fs is known and
// "span(start-end)" otherwise.
func formatSpan(span source.Span, fs *source.FileSet) string {
	if spanInSet(span, fs) {
		start, end := fs.Resolve(span)
		return fmt.Sprintf("%d:%d-%d:%d", start.Line, start.Col, end.Line, end.Col)
	}
	return fmt.Sprintf("span(%d-%d)", span.Start, span.End)
}
