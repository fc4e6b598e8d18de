package ast

import (
	"frel/internal/source"
)

type ExprKind uint8

const (
	ExprIdent ExprKind = iota
	ExprString
	ExprNumber
	ExprBool
	ExprNil
	ExprMember
	ExprCall
	ExprBinary
	ExprUnary
)

var exprKindNames = [...]string{
	ExprIdent:  "Ident",
	ExprString: "String",
	ExprNumber: "Number",
	ExprBool:   "Bool",
	ExprNil:    "Nil",
	ExprMember: "Member",
	ExprCall:   "Call",
	ExprBinary: "Binary",
	ExprUnary:  "Unary",
}

func (k ExprKind) String() string {
	if int(k) < len(exprKindNames) {
		return exprKindNames[k]
	}
	return "Unknown"
}

// ExprOp is the operator of a binary or unary expression. Keyword spellings
// (and, or, not) map onto the same operators as their symbolic forms.
type ExprOp uint8

const (
	OpNone ExprOp = iota
	OpOr
	OpAnd
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpNot
	OpNeg
)

var exprOpNames = [...]string{
	OpNone: "",
	OpOr:   "||",
	OpAnd:  "&&",
	OpEq:   "==",
	OpNe:   "!=",
	OpLt:   "<",
	OpLe:   "<=",
	OpGt:   ">",
	OpGe:   ">=",
	OpNot:  "!",
	OpNeg:  "-",
}

func (op ExprOp) String() string {
	if int(op) < len(exprOpNames) {
		return exprOpNames[op]
	}
	return "?"
}

// Expr is one entry of the expression arena.
//
//	Ident/Member   Text = name (Member: X = receiver)
//	String/Number  Text = decoded value / literal text
//	Bool           Text = "true" or "false"
//	Call           X = callee, Args
//	Binary         Op, X, Y
//	Unary          Op, X
//
// Depth is the height of the subtree rooted here (a leaf has depth 1); the
// tree fills it in on allocation.
type Expr struct {
	Kind  ExprKind
	Op    ExprOp
	Span  source.Span
	Text  string
	X     ExprID
	Y     ExprID
	Args  Range
	Depth uint32
}
