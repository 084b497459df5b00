package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// lexical
	LexInfo        Code = 1000
	LexUnknownChar Code = 1001
	LexBadNumber   Code = 1004

	// syntax
	SynInfo             Code = 2000
	SynUnexpectedToken  Code = 2001
	SynUnclosedParen    Code = 2006
	SynExpectIdentifier Code = 2102
	SynExpectExpression Code = 2203
	SynBadArity         Code = 2301
	SynUnknownOperator  Code = 2302
	SynTrailingInput    Code = 2303
	SynEmptyLet         Code = 2304

	// semantic
	SemaInfo      Code = 3000
	SemaErrorNode Code = 3001

	// io
	IOLoadFileError Code = 4001

	// project
	ProjInvalidManifest Code = 5001

	// observability
	ObsInfo    Code = 6000
	ObsTimings Code = 6001

	// compiler bugs
	InternalInvariant Code = 9001
)

var codeDescription = map[Code]string{
	UnknownCode:         "Unknown error",
	LexInfo:             "Lexical information",
	LexUnknownChar:      "Unknown character",
	LexBadNumber:        "Malformed integer literal",
	SynInfo:             "Syntax information",
	SynUnexpectedToken:  "Unexpected token",
	SynUnclosedParen:    "Unclosed parenthesis",
	SynExpectIdentifier: "Expected identifier",
	SynExpectExpression: "Expected expression",
	SynBadArity:         "Wrong number of operands",
	SynUnknownOperator:  "Unknown operator",
	SynTrailingInput:    "Unexpected input after expression",
	SynEmptyLet:         "let without bindings",
	SemaInfo:            "Semantic information",
	SemaErrorNode:       "Program contains a parse error",
	IOLoadFileError:     "I/O load file error",
	ProjInvalidManifest: "Invalid letc.toml",
	ObsInfo:             "Observability information",
	ObsTimings:          "Pipeline timings",
	InternalInvariant:   "Internal compiler invariant violated",
}

// ID returns the stable identifier, e.g. "SYN2001".
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	case ic >= 9000 && ic < 10000:
		return fmt.Sprintf("INT%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
