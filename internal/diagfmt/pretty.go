package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"fortio.org/safecast"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"letc/internal/diag"
	"letc/internal/source"
)

type palette struct {
	err, warn, info, note, gutter, caret, path *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		note:   color.New(color.FgBlue, color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
		path:   color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.gutter, p.caret, p.path} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty writes the diagnostics of bag in human-readable form, in bag order
// (call bag.Sort first for source order). Each entry is a header
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//
// followed by the source line with the span underlined ^~~~ and, when
// requested, the notes in the same form.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		prettyOne(w, d, fs, opts, p)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) {
	sev := p.severity(d.Severity).Sprintf("%s %s", d.Severity, d.Code.ID())
	if !located(d, fs) {
		fmt.Fprintf(w, "%s: %s\n", sev, d.Message)
	} else {
		fmt.Fprintf(w, "%s: %s: %s\n", p.path.Sprint(position(d.Primary, fs, opts.PathMode)), sev, d.Message)
		writeSnippet(w, d.Primary, fs, opts, p)
	}
	if !opts.ShowNotes && d.Code != diag.ObsTimings {
		return
	}
	for _, note := range d.Notes {
		label := p.note.Sprint("note")
		if located(d, fs) && !note.Span.Empty() {
			fmt.Fprintf(w, "  %s: %s: %s\n", label, position(note.Span, fs, opts.PathMode), note.Msg)
			continue
		}
		fmt.Fprintf(w, "  %s: %s\n", label, note.Msg)
	}
}

func position(span source.Span, fs *source.FileSet, mode PathMode) string {
	start, _ := fs.Resolve(span)
	return fmt.Sprintf("%s:%d:%d", displayPath(fs.Get(span.File), fs, mode), start.Line, start.Col)
}

// writeSnippet prints the primary line with opts.Context lines around it and
// a caret line under the primary span. Multi-line spans are underlined up to
// the end of their first line.
func writeSnippet(w io.Writer, span source.Span, fs *source.FileSet, opts PrettyOpts, p palette) {
	file := fs.Get(span.File)
	start, end := fs.Resolve(span)
	var ctx uint32
	if opts.Context > 0 {
		ctx = uint32(opts.Context)
	}

	first := uint32(1)
	if start.Line > ctx {
		first = start.Line - ctx
	}
	last := start.Line + ctx
	lineCount, err := safecast.Conv[uint32](len(file.LineIdx) + 1)
	if err != nil {
		panic(fmt.Errorf("line count overflow: %w", err))
	}
	last = min(last, lineCount)
	gutterWidth := len(strconv.FormatUint(uint64(last), 10))

	for line := first; line <= last; line++ {
		text := file.GetLine(line)
		if line != start.Line && strings.TrimSpace(text) == "" {
			continue
		}
		fmt.Fprintf(w, " %s %s\n", p.gutter.Sprintf("%*d |", gutterWidth, line), clip(text, opts.Width))
		if line != start.Line {
			continue
		}
		caretStart, caretEnd := int(start.Col), int(end.Col)
		if end.Line != start.Line {
			caretEnd = len(text) + 1
		}
		fmt.Fprintf(w, " %s %s\n", p.gutter.Sprintf("%*s |", gutterWidth, ""), p.caret.Sprint(underline(text, caretStart, caretEnd, opts.Width)))
	}
}

// underline builds "   ^~~~" under columns [from, to) of line (1-based
// byte columns), measured in display cells.
func underline(line string, from, to int, width uint8) string {
	fromIdx := min(max(from-1, 0), len(line))
	toIdx := min(max(to-1, fromIdx), len(line))
	pad := runewidth.StringWidth(line[:fromIdx])
	span := max(runewidth.StringWidth(line[fromIdx:toIdx]), 1)
	if width > 0 {
		limit := int(width)
		if pad >= limit {
			return ""
		}
		span = min(span, limit-pad)
	}
	return strings.Repeat(" ", pad) + "^" + strings.Repeat("~", span-1)
}

func clip(line string, width uint8) string {
	if width == 0 {
		return line
	}
	return runewidth.Truncate(line, int(width), "…")
}
