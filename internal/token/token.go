package token

import (
	"frel/internal/source"
)

// Token represents a single source token with its location.
type Token struct {
	Kind  Kind
	Span  source.Span
	Text  string
	Value string
}

// IsLiteral reports whether the token is a string, number, boolean or nil literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case StringLit, NumberLit, BoolLit, NilLit:
		return true
	default:
		return false
	}
}

// IsDelimiter reports whether the token opens or closes an interpolation or directive.
func (t Token) IsDelimiter() bool {
	switch t.Kind {
	case LInterp, RInterp, LDirective, RDirective:
		return true
	default:
		return false
	}
}

// IsOperator reports whether the token is an operator or punctuation.
func (t Token) IsOperator() bool {
	switch t.Kind {
	case EqEq, BangEq, Lt, LtEq, Gt, GtEq, AndAnd, OrOr, Bang, Minus, Dot, Comma, LParen, RParen,
		KwAnd, KwOr, KwNot:
		return true
	default:
		return false
	}
}

// IsDirectiveKeyword reports whether the token may start a directive body.
func (t Token) IsDirectiveKeyword() bool {
	switch t.Kind {
	case KwIf, KwElif, KwElse, KwFor, KwInclude, KwCall, KwFragment, KwEnd:
		return true
	default:
		return false
	}
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }
