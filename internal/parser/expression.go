package parser

import (
	"fmt"

	"frel/internal/ast"
	"frel/internal/diag"
	"frel/internal/token"
)

// parseExpr: precedence climbing, начиная с самого низкого приоритета.
func (p *Parser) parseExpr() (ast.ExprID, bool) {
	return p.parseBinary(precLowest)
}

func (p *Parser) parseBinary(minPrec int) (ast.ExprID, bool) {
	left, ok := p.parseUnary()
	if !ok {
		return ast.NoExprID, false
	}
	for {
		prec, op := binaryOp(p.lx.Peek().Kind)
		if prec == 0 || prec < minPrec {
			return left, true
		}
		p.advance()
		right, ok := p.parseBinary(prec + 1)
		if !ok {
			return ast.NoExprID, false
		}
		sp := p.tree.Expr(left).Span.Cover(p.tree.Expr(right).Span)
		left, ok = p.newExpr(ast.Expr{Kind: ast.ExprBinary, Op: op, Span: sp, X: left, Y: right})
		if !ok {
			return ast.NoExprID, false
		}
	}
}

// newExpr allocates e and rejects it when the resulting subtree is taller
// than MaxExprDepth. Left-associative operator chains and postfix chains are
// built in loops, so the recursion guard in parseUnary does not see them.
func (p *Parser) newExpr(e ast.Expr) (ast.ExprID, bool) {
	id := p.tree.NewExpr(e)
	if uint(p.tree.ExprDepth(id)) > p.opts.MaxExprDepth {
		p.err(diag.SynExprTooDeep, e.Span,
			fmt.Sprintf("expression nested deeper than %d levels", p.opts.MaxExprDepth))
		return ast.NoExprID, false
	}
	return id, true
}

// parseUnary is the single entry point every nesting level passes through,
// so the depth guard lives here.
func (p *Parser) parseUnary() (ast.ExprID, bool) {
	p.exprDepth++
	defer func() { p.exprDepth-- }()
	if p.exprDepth > p.opts.MaxExprDepth {
		p.err(diag.SynExprTooDeep, p.diagSpan(),
			fmt.Sprintf("expression nested deeper than %d levels", p.opts.MaxExprDepth))
		return ast.NoExprID, false
	}

	tok := p.lx.Peek()
	if op := unaryOp(tok.Kind); op != ast.OpNone {
		p.advance()
		x, ok := p.parseUnary()
		if !ok {
			return ast.NoExprID, false
		}
		sp := tok.Span.Cover(p.tree.Expr(x).Span)
		return p.newExpr(ast.Expr{Kind: ast.ExprUnary, Op: op, Span: sp, X: x})
	}
	return p.parsePostfix()
}

// parsePostfix: primary, затем цепочка ".name" и "(args)".
func (p *Parser) parsePostfix() (ast.ExprID, bool) {
	x, ok := p.parsePrimary()
	if !ok {
		return ast.NoExprID, false
	}
	for {
		switch p.lx.Peek().Kind {
		case token.Dot:
			p.advance()
			name, ok := p.expectIdent("member name after '.'")
			if !ok {
				return ast.NoExprID, false
			}
			sp := p.tree.Expr(x).Span.Cover(name.Span)
			if x, ok = p.newExpr(ast.Expr{Kind: ast.ExprMember, Span: sp, Text: name.Value, X: x}); !ok {
				return ast.NoExprID, false
			}
		case token.LParen:
			args, ok := p.parseArgs()
			if !ok {
				return ast.NoExprID, false
			}
			sp := p.tree.Expr(x).Span.Cover(p.lastSpan)
			if x, ok = p.newExpr(ast.Expr{Kind: ast.ExprCall, Span: sp, X: x, Args: p.tree.AddArgs(args)}); !ok {
				return ast.NoExprID, false
			}
		default:
			return x, true
		}
	}
}

// parseArgs разбирает "(" [expr {"," expr}] ")".
func (p *Parser) parseArgs() ([]ast.ExprID, bool) {
	p.advance() // (
	var args []ast.ExprID
	if p.at(token.RParen) {
		p.advance()
		return args, true
	}
	for {
		a, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		args = append(args, a)
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		if _, ok := p.expect(token.RParen, diag.SynUnexpectedToken, `expected "," or ")" in argument list`); !ok {
			return nil, false
		}
		return args, true
	}
}

func (p *Parser) parsePrimary() (ast.ExprID, bool) {
	tok := p.lx.Peek()
	var kind ast.ExprKind
	switch tok.Kind {
	case token.Ident:
		kind = ast.ExprIdent
	case token.StringLit:
		kind = ast.ExprString
	case token.NumberLit:
		kind = ast.ExprNumber
	case token.BoolLit:
		kind = ast.ExprBool
	case token.NilLit:
		kind = ast.ExprNil
	case token.LParen:
		p.advance()
		x, ok := p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
		if _, ok := p.expect(token.RParen, diag.SynUnexpectedToken, `expected ")"`); !ok {
			return ast.NoExprID, false
		}
		return x, true
	default:
		if !p.at(token.EOF) || p.lx.ErrorCount() == 0 {
			p.err(diag.SynExpectExpression, p.diagSpan(), fmt.Sprintf("expected expression, found %s", tok.Kind))
		}
		return ast.NoExprID, false
	}
	p.advance()
	text := tok.Value
	if kind == ast.ExprNil {
		text = ""
	}
	return p.tree.NewExpr(ast.Expr{Kind: kind, Span: tok.Span, Text: text}), true
}
