package parser

import (
	"fmt"

	"frel/internal/diag"
	"frel/internal/source"
)

// ErrorKind classifies syntax failures.
type ErrorKind uint8

const (
	// UnclosedBlock: an if/for/fragment block reaches EOF without {% end %}.
	UnclosedBlock ErrorKind = iota + 1
	// UnexpectedToken covers every other structural mistake: a missing
	// delimiter, a stray end or else, a nested fragment, a bad expression.
	UnexpectedToken
	// UnknownDirective: {% name %} where name is not a directive keyword.
	UnknownDirective
)

func (k ErrorKind) String() string {
	switch k {
	case UnclosedBlock:
		return "UnclosedBlock"
	case UnexpectedToken:
		return "UnexpectedToken"
	case UnknownDirective:
		return "UnknownDirective"
	default:
		return "Unknown"
	}
}

func kindOf(code diag.Code) ErrorKind {
	switch code {
	case diag.SynUnclosedBlock:
		return UnclosedBlock
	case diag.SynUnknownDirective:
		return UnknownDirective
	default:
		return UnexpectedToken
	}
}

// Error is the typed syntax error attached to SYN diagnostics as their cause.
type Error struct {
	Kind   ErrorKind
	Span   source.Span
	Detail string
}

func (e *Error) Error() string {
	return fmt.Sprintf("parse: %s at %s: %s", e.Kind, e.Span, e.Detail)
}
