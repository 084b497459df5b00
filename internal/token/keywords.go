package token

var keywords = map[string]Kind{
	"let":  KwLet,
	"read": KwRead,
}

// LookupKeyword reports whether ident is a keyword. Keywords are lowercase
// only.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
