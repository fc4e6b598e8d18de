package parser

import (
	"fmt"

	"frel/internal/ast"
	"frel/internal/diag"
	"frel/internal/lexer"
	"frel/internal/source"
	"frel/internal/token"

	"fortio.org/safecast"
)

// DefaultMaxExprDepth bounds the height of every expression tree: parentheses,
// unary chains, operator chains and postfix chains all count.
const DefaultMaxExprDepth = 200

type Options struct {
	MaxErrors uint // 0: без лимита
	// FailFast stops parsing at the first error, including lexer errors.
	FailFast     bool
	MaxExprDepth uint
	Reporter     diag.Reporter
}

type Result struct {
	Tree   *ast.Tree
	Errors uint
}

// Parser: состояние парсера на один файл
type Parser struct {
	lx        *lexer.Lexer
	tree      *ast.Tree
	opts      Options
	lastSpan  source.Span // span последнего съеденного токена
	errors    uint
	stopped   bool
	stack     []frame
	exprDepth uint
}

// Parse builds the tree for the lexer's file. The tree is always returned;
// Result.Errors tells whether it is complete.
func Parse(lx *lexer.Lexer, opts Options) Result {
	if opts.MaxExprDepth == 0 {
		opts.MaxExprDepth = DefaultMaxExprDepth
	}
	file := lx.File()
	p := Parser{
		lx:       lx,
		tree:     ast.NewTree(file.ID, hintsFor(file)),
		opts:     opts,
		lastSpan: source.At(file.ID, 0),
	}
	p.parseDocument()
	return Result{Tree: p.tree, Errors: p.errors}
}

func hintsFor(f *source.File) ast.Hints {
	// грубая оценка: один узел на ~16 байт исходника
	n := uint(len(f.Content)/16) + 8
	return ast.Hints{Nodes: n, Exprs: n}
}

// parseDocument: основной цикл: текст, интерполяции и директивы до EOF.
// Вложенность блоков держится в явном стеке p.stack, без рекурсии.
func (p *Parser) parseDocument() {
	file := p.lx.File()
	end, err := safecast.Conv[uint32](len(file.Content))
	if err != nil {
		panic(fmt.Errorf("file too large: %w", err))
	}
	root := p.tree.NewNode(ast.NodeDocument, source.Span{File: file.ID, Start: 0, End: end}, 0)
	p.tree.Root = root
	p.stack = append(p.stack, frame{node: root, kind: ast.NodeDocument})

	for !p.stopped {
		tok := p.lx.Peek()
		switch tok.Kind {
		case token.EOF:
			p.closeAtEOF()
			return
		case token.Text:
			p.advance()
			id := p.newNode(ast.NodeText, tok.Span)
			p.tree.Node(id).Name = tok.Value
		case token.LInterp:
			p.parseInterp()
		case token.LDirective:
			p.parseDirective()
		default:
			p.err(diag.SynUnexpectedToken, tok.Span, fmt.Sprintf("unexpected %s outside of a delimiter", tok.Kind))
			p.advance()
		}
	}
	p.closeAtEOF()
}

func (p *Parser) parseInterp() {
	open := p.advance()
	x, ok := p.parseExpr()
	if !ok {
		p.syncBoundary()
		return
	}
	closeTok, ok := p.expect(token.RInterp, diag.SynUnexpectedToken, `expected "}}" to close interpolation`)
	if !ok {
		p.syncBoundary()
		return
	}
	id := p.newNode(ast.NodeInterp, open.Span.Cover(closeTok.Span))
	p.tree.Node(id).Expr = x
}

// newNode allocates a leaf or block node at the current depth and appends it
// to the innermost open container.
func (p *Parser) newNode(kind ast.NodeKind, sp source.Span) ast.NodeID {
	top := p.top()
	id := p.tree.NewNode(kind, sp, top.childDepth())
	top.push(id)
	return id
}
