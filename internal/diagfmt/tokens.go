package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"frel/internal/source"
	"frel/internal/token"
)

type TokenOutput struct {
	Kind  string      `json:"kind" msgpack:"kind"`
	Text  string      `json:"text,omitempty" msgpack:"text,omitempty"`
	Value string      `json:"value,omitempty" msgpack:"value,omitempty"`
	Span  source.Span `json:"span" msgpack:"span"`
}

func tokenOutputs(tokens []token.Token) []TokenOutput {
	out := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		to := TokenOutput{Kind: tok.Kind.String(), Text: tok.Text, Span: tok.Span}
		if tok.Value != tok.Text {
			to.Value = tok.Value
		}
		out = append(out, to)
	}
	return out
}

// FormatTokensPretty выводит токены в человекочитаемом формате
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	for i, tok := range tokens {
		startPos, endPos := fs.Resolve(tok.Span)
		if _, err := fmt.Fprintf(w, "%3d: %-15s", i+1, tok.Kind.String()); err != nil {
			return err
		}
		if tok.Text != "" {
			fmt.Fprintf(w, " %q", tok.Text)
		}
		if tok.Value != tok.Text && tok.Value != "" {
			fmt.Fprintf(w, " = %q", tok.Value)
		}
		fmt.Fprintf(w, " at %d:%d-%d:%d\n", startPos.Line, startPos.Col, endPos.Line, endPos.Col)
		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}

// FormatTokensJSON выводит токены в JSON формате
func FormatTokensJSON(w io.Writer, tokens []token.Token) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(tokenOutputs(tokens))
}

func FormatTokensMsgpack(w io.Writer, tokens []token.Token) error {
	return msgpack.NewEncoder(w).Encode(tokenOutputs(tokens))
}
