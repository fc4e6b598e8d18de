package token_test

import (
	"testing"

	"frel/internal/source"
	"frel/internal/token"
)

func tok(k token.Kind) token.Token {
	return token.Token{Kind: k, Span: source.Span{Start: 0, End: 0}}
}

func TestIsLiteral(t *testing.T) {
	for _, k := range []token.Kind{token.StringLit, token.NumberLit, token.BoolLit, token.NilLit} {
		if !tok(k).IsLiteral() {
			t.Fatalf("%v should be literal", k)
		}
	}
	for _, k := range []token.Kind{token.Ident, token.Text, token.KwIf, token.LParen} {
		if tok(k).IsLiteral() {
			t.Fatalf("%v must NOT be literal", k)
		}
	}
}

func TestClassesAreDisjoint(t *testing.T) {
	for k := token.Invalid; k <= token.RParen; k++ {
		n := 0
		tk := tok(k)
		for _, in := range []bool{tk.IsLiteral(), tk.IsDelimiter(), tk.IsDirectiveKeyword(), tk.IsIdent()} {
			if in {
				n++
			}
		}
		if n > 1 {
			t.Errorf("%v belongs to %d classes", k, n)
		}
	}
}

func TestKindString(t *testing.T) {
	tests := map[token.Kind]string{
		token.LInterp:   "{{",
		token.KwEnd:     "end",
		token.Text:      "Text",
		token.Kind(250): "Unknown",
	}
	for k, want := range tests {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}

func TestLookupKeyword(t *testing.T) {
	tests := []struct {
		in   string
		kind token.Kind
		ok   bool
	}{
		{"if", token.KwIf, true},
		{"include", token.KwInclude, true},
		{"true", token.BoolLit, true},
		{"nil", token.NilLit, true},
		{"If", token.Invalid, false},
		{"name", token.Invalid, false},
	}
	for _, tt := range tests {
		kind, ok := token.LookupKeyword(tt.in)
		if ok != tt.ok || (ok && kind != tt.kind) {
			t.Errorf("LookupKeyword(%q) = %v,%v want %v,%v", tt.in, kind, ok, tt.kind, tt.ok)
		}
	}
}
