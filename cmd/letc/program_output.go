package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"letc/internal/ast"
	"letc/internal/diagfmt"
	"letc/internal/source"
)

var programFormats = "pretty|json|tree|sexp|msgpack"

func checkProgramFormat(format string) error {
	switch format {
	case "pretty", "json", "tree", "sexp", "msgpack":
		return nil
	default:
		return fmt.Errorf("unknown format: %s (expected %s)", format, programFormats)
	}
}

func writeProgram(out io.Writer, format string, prog ast.Program, fs *source.FileSet) error {
	switch format {
	case "pretty":
		return diagfmt.FormatProgramPretty(out, prog, fs)
	case "json":
		return diagfmt.FormatProgramJSON(out, prog)
	case "tree":
		return diagfmt.FormatProgramTree(out, prog, fs)
	case "sexp":
		return diagfmt.FormatProgramSexp(out, prog)
	case "msgpack":
		return diagfmt.FormatProgramMsgpack(out, prog)
	default:
		return checkProgramFormat(format)
	}
}

type namedProgram struct {
	name string
	prog ast.Program
}

// writePrograms prints several programs. Text formats get a "== name =="
// header per file unless quiet; json and msgpack write one object keyed by
// name.
func writePrograms(out io.Writer, format string, progs []namedProgram, fs *source.FileSet, quiet bool) error {
	switch format {
	case "json", "msgpack":
		wires := make(map[string]*ast.Wire, len(progs))
		for _, p := range progs {
			wires[p.name] = ast.EncodeProgram(p.prog)
		}
		if format == "msgpack" {
			enc := msgpack.NewEncoder(out)
			enc.SetSortMapKeys(true)
			return enc.Encode(wires)
		}
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(wires)
	}

	for idx, p := range progs {
		if !quiet {
			if _, err := fmt.Fprintf(out, "== %s ==\n", p.name); err != nil {
				return err
			}
		}
		if err := writeProgram(out, format, p.prog, fs); err != nil {
			return err
		}
		if !quiet && idx < len(progs)-1 {
			if _, err := fmt.Fprintln(out); err != nil {
				return err
			}
		}
	}
	return nil
}
