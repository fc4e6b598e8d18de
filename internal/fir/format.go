package fir

import (
	"frel/internal/ast"
)

const (
	Magic      = "FIR\x1a"
	Version    = uint16(1)
	HeaderSize = 24
	// NoString marks an absent optional string (the key of a for loop).
	NoString = ^uint32(0)
)

// Header flags.
const (
	FlagFragments  uint16 = 1 << 0
	FlagUnresolved uint16 = 1 << 1
)

// If record flags.
const (
	ifElif    uint8 = 1 << 0
	ifHasElse uint8 = 1 << 1
)

type Tag uint8

const (
	TagText Tag = iota + 1
	TagInterp
	TagIf
	TagFor
	TagInclude
	TagCall
	TagFragment
)

var tagNames = [...]string{
	TagText:     "Text",
	TagInterp:   "Interpolation",
	TagIf:       "If",
	TagFor:      "For",
	TagInclude:  "Include",
	TagCall:     "Call",
	TagFragment: "Fragment",
}

func (t Tag) String() string {
	if t > 0 && int(t) < len(tagNames) {
		return tagNames[t]
	}
	return "Unknown"
}

var nodeTags = map[ast.NodeKind]Tag{
	ast.NodeText:     TagText,
	ast.NodeInterp:   TagInterp,
	ast.NodeIf:       TagIf,
	ast.NodeFor:      TagFor,
	ast.NodeInclude:  TagInclude,
	ast.NodeCall:     TagCall,
	ast.NodeFragment: TagFragment,
}

type exprTag uint8

const (
	exprIdent exprTag = iota + 1
	exprString
	exprNumber
	exprBool
	exprNil
	exprMember
	exprCall
	exprBinary
	exprUnary
)

var exprTags = map[ast.ExprKind]exprTag{
	ast.ExprIdent:  exprIdent,
	ast.ExprString: exprString,
	ast.ExprNumber: exprNumber,
	ast.ExprBool:   exprBool,
	ast.ExprNil:    exprNil,
	ast.ExprMember: exprMember,
	ast.ExprCall:   exprCall,
	ast.ExprBinary: exprBinary,
	ast.ExprUnary:  exprUnary,
}

// Blob is an encoded FIR document. It is never modified after Encode returns.
type Blob []byte
