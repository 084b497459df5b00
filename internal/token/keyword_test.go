package token

import "testing"

func TestLookupKeyword(t *testing.T) {
	cases := []struct {
		lexeme string
		want   Kind
		ok     bool
	}{
		{"let", KwLet, true},
		{"read", KwRead, true},
		{"Let", Invalid, false},
		{"READ", Invalid, false},
		{"x", Invalid, false},
		{"let*", Invalid, false},
	}
	for _, tc := range cases {
		got, ok := LookupKeyword(tc.lexeme)
		if ok != tc.ok || (ok && got != tc.want) {
			t.Errorf("LookupKeyword(%q) = %v,%v; want %v,%v", tc.lexeme, got, ok, tc.want, tc.ok)
		}
	}
}

func TestKindHelpers(t *testing.T) {
	if !LParen.IsOpen() || !LBracket.IsOpen() || RParen.IsOpen() {
		t.Error("IsOpen misclassifies brackets")
	}
	if LBracket.Closer() != RBracket || LParen.Closer() != RParen {
		t.Error("Closer mismatch")
	}
	if Minus.String() != "Minus" || Kind(200).String() != "Kind(?)" {
		t.Errorf("String: %q %q", Minus.String(), Kind(200).String())
	}
	if !(Token{Kind: KwRead}).IsOperator() || (Token{Kind: KwLet}).IsOperator() {
		t.Error("IsOperator misclassifies keywords")
	}
}
