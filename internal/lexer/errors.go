package lexer

import (
	"fmt"

	"frel/internal/diag"
	"frel/internal/source"
)

// ErrorKind classifies lexical failures.
type ErrorKind uint8

const (
	// UnterminatedDelimiter: "{{", "{%", "{#" or a string literal reaches EOF unclosed.
	UnterminatedDelimiter ErrorKind = iota + 1
	// InvalidEscape: unknown escape or malformed \u{...} inside a string literal.
	InvalidEscape
	// UnexpectedByte: a byte (or invalid UTF-8 sequence) that starts no token.
	UnexpectedByte
)

func (k ErrorKind) String() string {
	switch k {
	case UnterminatedDelimiter:
		return "UnterminatedDelimiter"
	case InvalidEscape:
		return "InvalidEscape"
	case UnexpectedByte:
		return "UnexpectedByte"
	default:
		return "Unknown"
	}
}

// Code maps the kind onto its diagnostic code.
func (k ErrorKind) Code() diag.Code {
	switch k {
	case UnterminatedDelimiter:
		return diag.LexUnterminatedDelimiter
	case InvalidEscape:
		return diag.LexInvalidEscape
	case UnexpectedByte:
		return diag.LexUnexpectedByte
	default:
		return diag.UnknownCode
	}
}

// Error is the typed lexical error attached to LEX diagnostics as their cause.
type Error struct {
	Kind   ErrorKind
	Span   source.Span
	Detail string
}

func (e *Error) Error() string {
	return fmt.Sprintf("lex: %s at %s: %s", e.Kind, e.Span, e.Detail)
}
