package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Text is a run of literal template text outside delimiters.
	Text

	// Ident represents an identifier token.
	Ident

	// KwIf represents the 'if' keyword.
	KwIf // if
	// KwElif represents the 'elif' keyword.
	KwElif // elif
	// KwElse represents the 'else' keyword.
	KwElse // else
	// KwFor represents the 'for' keyword.
	KwFor // for
	// KwIn represents the 'in' keyword.
	KwIn // in
	// KwInclude represents the 'include' keyword.
	KwInclude // include
	// KwCall represents the 'call' keyword.
	KwCall // call
	// KwFragment represents the 'fragment' keyword.
	KwFragment // fragment
	// KwEnd represents the 'end' keyword.
	KwEnd // end
	// KwAnd represents the 'and' keyword.
	KwAnd // and
	// KwOr represents the 'or' keyword.
	KwOr // or
	// KwNot represents the 'not' keyword.
	KwNot // not

	// StringLit represents a double-quoted string literal.
	StringLit
	// NumberLit represents an integer or decimal literal.
	NumberLit
	// BoolLit represents true/false.
	BoolLit
	// NilLit represents nil.
	NilLit

	// LInterp opens an interpolation.
	LInterp // {{
	// RInterp closes an interpolation.
	RInterp // }}
	// LDirective opens a directive.
	LDirective // {%
	// RDirective closes a directive.
	RDirective // %}

	EqEq   // ==
	BangEq // !=
	Lt     // <
	LtEq   // <=
	Gt     // >
	GtEq   // >=
	AndAnd // &&
	OrOr   // ||
	Bang   // !
	Minus  // -
	Dot    // .
	Comma  // ,
	LParen // (
	RParen // )
)

var kindNames = [...]string{
	Invalid:    "Invalid",
	EOF:        "EOF",
	Text:       "Text",
	Ident:      "Ident",
	KwIf:       "if",
	KwElif:     "elif",
	KwElse:     "else",
	KwFor:      "for",
	KwIn:       "in",
	KwInclude:  "include",
	KwCall:     "call",
	KwFragment: "fragment",
	KwEnd:      "end",
	KwAnd:      "and",
	KwOr:       "or",
	KwNot:      "not",
	StringLit:  "StringLit",
	NumberLit:  "NumberLit",
	BoolLit:    "BoolLit",
	NilLit:     "NilLit",
	LInterp:    "{{",
	RInterp:    "}}",
	LDirective: "{%",
	RDirective: "%}",
	EqEq:       "==",
	BangEq:     "!=",
	Lt:         "<",
	LtEq:       "<=",
	Gt:         ">",
	GtEq:       ">=",
	AndAnd:     "&&",
	OrOr:       "||",
	Bang:       "!",
	Minus:      "-",
	Dot:        ".",
	Comma:      ",",
	LParen:     "(",
	RParen:     ")",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Unknown"
}
