package lexer

import (
	"fmt"
	"strconv"
	"unicode"
	"unicode/utf8"

	"fortio.org/safecast"
)

func (lx *Lexer) peekRune() (r rune, size int) {
	if lx.cursor.EOF() {
		return utf8.RuneError, 0
	}
	b := lx.cursor.Peek()
	if b < utf8.RuneSelf {
		return rune(b), 1
	}
	return utf8.DecodeRune(lx.file.Content[lx.cursor.Off:lx.cursor.Limit])
}

func (lx *Lexer) bumpRune() {
	_, sz := lx.peekRune()
	if sz == 0 {
		return
	}
	usz, err := safecast.Conv[uint32](sz)
	if err != nil {
		panic(fmt.Errorf("bumpRune overflow: %w", err))
	}
	lx.cursor.Off += usz
}

// Identifier alphabet: letters, digits, and _ - ? ! * < > = /.
// '.' and '%' are reserved for compiler-generated names.
func isIdentStartByte(b byte) bool {
	switch b {
	case '_', '?', '!', '*', '<', '>', '=', '/':
		return true
	}
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isIdentContinueByte(b byte) bool {
	return isIdentStartByte(b) || isDec(b) || b == '-'
}

func isIdentStartRune(r rune) bool {
	return unicode.IsLetter(r)
}

func isIdentContinueRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}

func isDec(b byte) bool { return b >= '0' && b <= '9' }

func isDelimiter(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '(', ')', '[', ']', ';':
		return true
	}
	return false
}

func quote(s string) string {
	return strconv.Quote(s)
}
