package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"letc/internal/source"
	"letc/internal/token"
)

type TokenOutput struct {
	Kind string      `json:"kind"`
	Text string      `json:"text,omitempty"`
	Span source.Span `json:"span"`
}

// FormatTokensPretty prints one token per line with its position.
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	for i, tok := range tokens {
		startPos, endPos := fs.Resolve(tok.Span)
		if _, err := fmt.Fprintf(w, "%3d: %-10s", i+1, tok.Kind.String()); err != nil {
			return err
		}
		if tok.Text != "" {
			fmt.Fprintf(w, " %q", tok.Text)
		}
		fmt.Fprintf(w, " at %d:%d-%d:%d\n", startPos.Line, startPos.Col, endPos.Line, endPos.Col)
		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}

// FormatTokensJSON writes tokens up to and including EOF as a JSON array.
func FormatTokensJSON(w io.Writer, tokens []token.Token) error {
	output := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		output = append(output, TokenOutput{Kind: tok.Kind.String(), Text: tok.Text, Span: tok.Span})
		if tok.Kind == token.EOF {
			break
		}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
