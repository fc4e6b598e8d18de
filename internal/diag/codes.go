package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo                  Code = 1000
	LexUnexpectedByte        Code = 1001
	LexUnterminatedDelimiter Code = 1002
	LexInvalidEscape         Code = 1003

	// Синтаксические
	SynInfo                Code = 2000
	SynUnexpectedToken     Code = 2001
	SynUnclosedBlock       Code = 2002
	SynUnknownDirective    Code = 2003
	SynExpectExpression    Code = 2004
	SynExpectIdentifier    Code = 2005
	SynExprTooDeep         Code = 2006
	SynFragmentNotTopLevel Code = 2007
	SynElseOutsideIf       Code = 2008
	SynDuplicateElse       Code = 2009
	SynUnmatchedEnd        Code = 2010
	SynForMissingIn        Code = 2011

	// Семантические
	SemaInfo              Code = 3000
	SemaUnknownReference  Code = 3001
	SemaCyclicInclude     Code = 3002
	SemaNestingTooDeep    Code = 3003
	SemaDuplicateFragment Code = 3004

	// Кодирование FIR
	FirInfo                 Code = 4000
	FirUnsupportedConstruct Code = 4001
	FirPayloadTooLarge      Code = 4002
)

var codeDescription = map[Code]string{
	UnknownCode:              "Unknown error",
	LexInfo:                  "Lexical information",
	LexUnexpectedByte:        "Unexpected byte",
	LexUnterminatedDelimiter: "Unterminated delimiter",
	LexInvalidEscape:         "Invalid escape sequence",

	SynInfo:                "Syntax information",
	SynUnexpectedToken:     "Unexpected token",
	SynUnclosedBlock:       "Unclosed block",
	SynUnknownDirective:    "Unknown directive",
	SynExpectExpression:    "Expected expression",
	SynExpectIdentifier:    "Expected identifier",
	SynExprTooDeep:         "Expression nested too deeply",
	SynFragmentNotTopLevel: "Fragment definition must be at top level",
	SynElseOutsideIf:       "'else' outside of 'if'",
	SynDuplicateElse:       "Duplicate 'else'",
	SynUnmatchedEnd:        "Unmatched 'end'",
	SynForMissingIn:        "Expected 'in' in for directive",

	SemaInfo:              "Semantic information",
	SemaUnknownReference:  "Unknown fragment reference",
	SemaCyclicInclude:     "Cyclic include",
	SemaNestingTooDeep:    "Nesting too deep",
	SemaDuplicateFragment: "Duplicate fragment definition",

	FirInfo:                 "Encoder information",
	FirUnsupportedConstruct: "Unsupported construct",
	FirPayloadTooLarge:      "Payload too large",
}

// Stage identifies the pipeline stage that produced a diagnostic.
type Stage uint8

const (
	StageUnknown Stage = iota
	StageLex
	StageParse
	StageValidate
	StageEncode
)

func (s Stage) String() string {
	switch s {
	case StageLex:
		return "lex"
	case StageParse:
		return "parse"
	case StageValidate:
		return "validate"
	case StageEncode:
		return "encode"
	default:
		return "unknown"
	}
}

// Stage derives the producing stage from the code range.
func (c Code) Stage() Stage {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return StageLex
	case ic >= 2000 && ic < 3000:
		return StageParse
	case ic >= 3000 && ic < 4000:
		return StageValidate
	case ic >= 4000 && ic < 5000:
		return StageEncode
	}
	return StageUnknown
}

func (c Code) ID() string {
	ic := int(c)
	switch c.Stage() {
	case StageLex:
		return fmt.Sprintf("LEX%04d", ic)
	case StageParse:
		return fmt.Sprintf("SYN%04d", ic)
	case StageValidate:
		return fmt.Sprintf("SEM%04d", ic)
	case StageEncode:
		return fmt.Sprintf("FIR%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
