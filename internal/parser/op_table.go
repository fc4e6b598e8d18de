package parser

import (
	"frel/internal/ast"
	"frel/internal/token"
)

// Таблица приоритетов для бинарных операторов
// Чем больше число, тем выше приоритет
const (
	precLowest     = 1
	precLogicalOr  = 1 // || or
	precLogicalAnd = 2 // && and
	precEquality   = 3 // == !=
	precComparison = 4 // < <= > >=
)

// binaryOp возвращает приоритет и оператор; 0: не бинарный оператор.
// Все бинарные операторы левоассоциативны.
func binaryOp(kind token.Kind) (int, ast.ExprOp) {
	switch kind {
	case token.OrOr, token.KwOr:
		return precLogicalOr, ast.OpOr
	case token.AndAnd, token.KwAnd:
		return precLogicalAnd, ast.OpAnd
	case token.EqEq:
		return precEquality, ast.OpEq
	case token.BangEq:
		return precEquality, ast.OpNe
	case token.Lt:
		return precComparison, ast.OpLt
	case token.LtEq:
		return precComparison, ast.OpLe
	case token.Gt:
		return precComparison, ast.OpGt
	case token.GtEq:
		return precComparison, ast.OpGe
	}
	return 0, ast.OpNone
}

func unaryOp(kind token.Kind) ast.ExprOp {
	switch kind {
	case token.Bang, token.KwNot:
		return ast.OpNot
	case token.Minus:
		return ast.OpNeg
	}
	return ast.OpNone
}
