package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"letc/internal/ast"
	"letc/internal/source"
)

type treeNode struct {
	label    string
	children []*treeNode
}

// buildTreeNode labels n and its operands. Error nodes show their token
// position when fs is known.
func buildTreeNode(n ast.Node, fs *source.FileSet) *treeNode {
	switch x := n.(type) {
	case *ast.IntLit:
		return &treeNode{label: "Int " + strconv.FormatInt(x.Value, 10)}
	case *ast.Var:
		return &treeNode{label: "Var " + x.Name}
	case *ast.Prim:
		node := &treeNode{label: "Prim " + string(x.Op)}
		for _, arg := range x.Args {
			node.children = append(node.children, buildTreeNode(arg, fs))
		}
		return node
	case *ast.Let:
		node := &treeNode{label: "Let"}
		for _, b := range x.Bindings {
			node.children = append(node.children, &treeNode{
				label:    "Bind " + b.Name,
				children: []*treeNode{buildTreeNode(b.Value, fs)},
			})
		}
		node.children = append(node.children, &treeNode{
			label:    "Body",
			children: []*treeNode{buildTreeNode(x.Body, fs)},
		})
		return node
	case *ast.ErrorNode:
		label := fmt.Sprintf("Error %q", x.Msg)
		if spanInSet(x.Token.Span, fs) && x.Token.Text != "" {
			label += " (span: " + formatSpan(x.Token.Span, fs) + ")"
		}
		return &treeNode{label: label}
	case nil:
		return &treeNode{label: "<nil>"}
	default:
		return &treeNode{label: fmt.Sprintf("<%T>", n)}
	}
}

// FormatProgramPretty prints prog as an indented outline.
func FormatProgramPretty(w io.Writer, prog ast.Program, fs *source.FileSet) error {
	var sb strings.Builder
	sb.WriteString("Program\n")
	writeOutline(&sb, buildTreeNode(prog.Exp, fs), "", true)
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeOutline(sb *strings.Builder, node *treeNode, prefix string, last bool) {
	branch, indent := "├─ ", "│  "
	if last {
		branch, indent = "└─ ", "   "
	}
	sb.WriteString(prefix + branch + node.label + "\n")
	for i, child := range node.children {
		writeOutline(sb, child, prefix+indent, i == len(node.children)-1)
	}
}

// FormatProgramTree draws prog top-down with the root on the first line.
func FormatProgramTree(w io.Writer, prog ast.Program, fs *source.FileSet) error {
	block := renderTree(buildTreeNode(prog.Exp, fs))
	for _, line := range block.lines {
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}

// FormatProgramSexp prints the canonical S-expression of prog.
func FormatProgramSexp(w io.Writer, prog ast.Program) error {
	_, err := fmt.Fprintln(w, prog.String())
	return err
}

// FormatProgramJSON writes the wire form of prog as indented JSON.
func FormatProgramJSON(w io.Writer, prog ast.Program) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ast.EncodeProgram(prog))
}

// FormatProgramMsgpack writes the wire form of prog as MessagePack.
func FormatProgramMsgpack(w io.Writer, prog ast.Program) error {
	return msgpack.NewEncoder(w).Encode(ast.EncodeProgram(prog))
}
