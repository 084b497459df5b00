package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	LParen   // (
	RParen   // )
	LBracket // [
	RBracket // ]

	// IntLit is a decimal integer, optionally with a leading '-'.
	IntLit
	// Ident represents an identifier token.
	Ident

	KwLet  // let
	KwRead // read

	Plus  // +
	Minus // -
)

var kindNames = [...]string{
	Invalid:  "Invalid",
	EOF:      "EOF",
	LParen:   "LParen",
	RParen:   "RParen",
	LBracket: "LBracket",
	RBracket: "RBracket",
	IntLit:   "IntLit",
	Ident:    "Ident",
	KwLet:    "KwLet",
	KwRead:   "KwRead",
	Plus:     "Plus",
	Minus:    "Minus",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}

func (k Kind) IsEOF() bool { return k == EOF }

// IsOpen reports whether k is '(' or '['.
func (k Kind) IsOpen() bool { return k == LParen || k == LBracket }

func (k Kind) IsClose() bool { return k == RParen || k == RBracket }

// Closer returns the kind that closes a group opened by k.
func (k Kind) Closer() Kind {
	if k == LBracket {
		return RBracket
	}
	return RParen
}
