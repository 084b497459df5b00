package diagfmt

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

type treeBlock struct {
	lines []string
	width int
	root  int
}

func padTo(s string, width int) string {
	if w := runewidth.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// renderTree lays node out as ASCII art: the label on top, a connector line
// of / | \ and the children side by side below it. Widths are display
// cells. root is the column of the node's connector.
func renderTree(node *treeNode) treeBlock {
	label := node.label
	labelWidth := runewidth.StringWidth(label)

	if len(node.children) == 0 {
		return treeBlock{lines: []string{label}, width: labelWidth, root: labelWidth / 2}
	}

	childBlocks := make([]treeBlock, len(node.children))
	maxChildHeight := 0
	for i, child := range node.children {
		childBlocks[i] = renderTree(child)
		maxChildHeight = max(maxChildHeight, len(childBlocks[i].lines))
	}

	const spacing = 3

	positions := make([]int, len(childBlocks))
	totalWidth := 0
	for i, block := range childBlocks {
		positions[i] = totalWidth + block.root
		totalWidth += block.width
		if i != len(childBlocks)-1 {
			totalWidth += spacing
		}
	}

	childrenCenter := (positions[0] + positions[len(positions)-1]) / 2
	rootPos := labelWidth / 2
	shift := childrenCenter - rootPos

	childPrefix := 0
	if shift < 0 {
		childPrefix = -shift
		for i := range positions {
			positions[i] += childPrefix
		}
		totalWidth += childPrefix
		shift = 0
	} else {
		rootPos += shift
	}

	width := totalWidth
	rootLine := strings.Repeat(" ", shift) + label
	rootWidth := shift + labelWidth
	if rootWidth > width {
		width = rootWidth
	}
	for _, pos := range positions {
		width = max(width, pos+1)
	}
	width = max(width, rootPos+1)
	rootLine = padTo(rootLine, width)

	connector := []byte(strings.Repeat(" ", width))
	connector[rootPos] = '|'
	for _, pos := range positions {
		switch {
		case pos < rootPos:
			connector[pos] = '/'
		case pos > rootPos:
			connector[pos] = '\\'
		default:
			connector[pos] = '|'
		}
	}

	childLines := make([]string, maxChildHeight)
	for row := range maxChildHeight {
		var sb strings.Builder
		sb.WriteString(strings.Repeat(" ", childPrefix))
		for i, block := range childBlocks {
			line := ""
			if row < len(block.lines) {
				line = block.lines[row]
			}
			sb.WriteString(padTo(line, block.width))
			if i != len(childBlocks)-1 {
				sb.WriteString(strings.Repeat(" ", spacing))
			}
		}
		childLines[row] = padTo(sb.String(), width)
	}

	lines := make([]string, 0, 2+len(childLines))
	lines = append(lines, rootLine, string(connector))
	lines = append(lines, childLines...)
	return treeBlock{lines: lines, width: width, root: rootPos}
}
