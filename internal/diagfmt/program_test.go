package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"letc/internal/ast"
	"letc/internal/source"
	"letc/internal/token"
)

func TestFormatProgramPretty(t *testing.T) {
	prog := ast.Program{Exp: ast.NewLet(ast.Ref("x"), ast.Bind("x", ast.Int(1)))}
	var buf bytes.Buffer
	if err := FormatProgramPretty(&buf, prog, nil); err != nil {
		t.Fatal(err)
	}
	want := "Program\n" +
		"└─ Let\n" +
		"   ├─ Bind x\n" +
		"   │  └─ Int 1\n" +
		"   └─ Body\n" +
		"      └─ Var x\n"
	if got := buf.String(); got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatProgramTree(t *testing.T) {
	prog := ast.Program{Exp: ast.Add(ast.Int(1), ast.Ref("x"))}
	var buf bytes.Buffer
	if err := FormatProgramTree(&buf, prog, nil); err != nil {
		t.Fatal(err)
	}
	want := "   Prim +\n" +
		"  /   |   \\\n" +
		"Int 1   Var x\n"
	if got := buf.String(); got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatProgramErrorSpan(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("e.let", []byte("(* 2 3)"))
	bad := &ast.ErrorNode{Msg: "unknown operator", Token: token.Token{
		Kind: token.Ident, Text: "*", Span: source.Span{File: fileID, Start: 1, End: 2},
	}}
	node := buildTreeNode(bad, fs)
	if want := `Error "unknown operator" (span: 1:2-1:3)`; node.label != want {
		t.Fatalf("got %q, want %q", node.label, want)
	}
}

func TestFormatProgramWire(t *testing.T) {
	prog := ast.Program{Exp: ast.NewLet(ast.Neg(ast.Ref("t")), ast.Bind("t", ast.Read()))}

	var js bytes.Buffer
	if err := FormatProgramJSON(&js, prog); err != nil {
		t.Fatal(err)
	}
	var fromJSON ast.Wire
	if err := json.Unmarshal(js.Bytes(), &fromJSON); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	decoded, err := ast.DecodeProgram(&fromJSON)
	if err != nil || !ast.EqualPrograms(decoded, prog) {
		t.Fatalf("JSON form does not decode back: %v", err)
	}

	var mp bytes.Buffer
	if err := FormatProgramMsgpack(&mp, prog); err != nil {
		t.Fatal(err)
	}
	var fromMsgpack ast.Wire
	if err := msgpack.Unmarshal(mp.Bytes(), &fromMsgpack); err != nil {
		t.Fatalf("invalid msgpack: %v", err)
	}
	decoded, err = ast.DecodeProgram(&fromMsgpack)
	if err != nil || !ast.EqualPrograms(decoded, prog) {
		t.Fatalf("msgpack form does not decode back: %v", err)
	}
}
