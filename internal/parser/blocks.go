package parser

import (
	"fmt"

	"frel/internal/ast"
	"frel/internal/diag"
	"frel/internal/source"
	"frel/internal/token"

	"golang.org/x/text/unicode/norm"
)

// frame: открытый блок на стеке парсера.
type frame struct {
	node   ast.NodeID
	kind   ast.NodeKind
	depth  uint32
	open   source.Span // span открывающей директивы
	body   []ast.NodeID
	els    []ast.NodeID
	inElse bool
	// elif frames are closed together with their parent by one {% end %}.
	elif bool
}

func (f *frame) childDepth() uint32 {
	if f.kind == ast.NodeDocument {
		return 0
	}
	return f.depth + 1
}

func (f *frame) push(id ast.NodeID) {
	if f.inElse {
		f.els = append(f.els, id)
		return
	}
	f.body = append(f.body, id)
}

func (p *Parser) top() *frame {
	return &p.stack[len(p.stack)-1]
}

// openBlock allocates a block node and pushes its frame.
func (p *Parser) openBlock(kind ast.NodeKind, sp source.Span) ast.NodeID {
	id := p.newNode(kind, sp)
	p.stack = append(p.stack, frame{
		node:  id,
		kind:  kind,
		depth: p.tree.Node(id).Depth,
		open:  sp,
	})
	return id
}

// closeTop pops the innermost frame and stores its child ranges. end is the
// span of the closing directive, if any.
func (p *Parser) closeTop(end source.Span) {
	f := p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]
	n := p.tree.Node(f.node)
	n.Children = p.tree.AddChildren(f.body)
	n.Else = p.tree.AddChildren(f.els)
	if f.kind != ast.NodeDocument && !end.Empty() {
		n.Span = n.Span.Cover(end)
	}
}

// closeAtEOF reports every block still open and closes it implicitly.
func (p *Parser) closeAtEOF() {
	eof := source.At(p.tree.File, p.lastSpan.End)
	silent := p.stopped || (p.opts.FailFast && p.lx.ErrorCount() > 0)
	for len(p.stack) > 1 {
		f := p.top()
		if !f.elif && !silent {
			p.err(diag.SynUnclosedBlock, f.open, fmt.Sprintf("'%s' block is never closed", blockKeyword(f.kind)))
			silent = p.stopped
		}
		p.closeTop(eof)
	}
	p.closeTop(source.Span{})
}

func blockKeyword(kind ast.NodeKind) string {
	switch kind {
	case ast.NodeIf:
		return "if"
	case ast.NodeFor:
		return "for"
	case ast.NodeFragment:
		return "fragment"
	}
	return kind.String()
}

// parseDirective разбирает {% ... %}; на ошибке восстановление до "%}".
func (p *Parser) parseDirective() {
	open := p.advance()
	kw := p.lx.Peek()
	var ok bool
	switch kw.Kind {
	case token.KwIf:
		ok = p.parseIf(open)
	case token.KwElif:
		ok = p.parseElif(open)
	case token.KwElse:
		ok = p.parseElse()
	case token.KwEnd:
		ok = p.parseEnd(open)
	case token.KwFor:
		ok = p.parseFor(open)
	case token.KwInclude:
		ok = p.parseInclude(open)
	case token.KwCall:
		ok = p.parseCall(open)
	case token.KwFragment:
		ok = p.parseFragment(open)
	case token.Ident:
		p.err(diag.SynUnknownDirective, kw.Span, fmt.Sprintf("unknown directive %q", kw.Value))
	case token.RDirective:
		p.err(diag.SynUnknownDirective, open.Span.Cover(kw.Span), "empty directive")
	case token.EOF:
		if p.lx.ErrorCount() == 0 {
			p.err(diag.SynUnexpectedToken, kw.Span, "expected directive, found end of input")
		}
	default:
		p.err(diag.SynUnexpectedToken, kw.Span, fmt.Sprintf("expected directive, found %s", kw.Kind))
	}
	if !ok {
		p.syncBoundary()
	}
}

func (p *Parser) closeDirective(what string) (source.Span, bool) {
	tok, ok := p.expect(token.RDirective, diag.SynUnexpectedToken, fmt.Sprintf(`expected "%%}" after %s`, what))
	return tok.Span, ok
}

func (p *Parser) parseIf(open token.Token) bool {
	p.advance() // if
	cond, ok := p.parseExpr()
	if !ok {
		return false
	}
	end, ok := p.closeDirective("if condition")
	if !ok {
		return false
	}
	id := p.openBlock(ast.NodeIf, open.Span.Cover(end))
	p.tree.Node(id).Expr = cond
	return true
}

// ifTarget returns the innermost frame that else/elif may attach to.
func (p *Parser) ifTarget(kw token.Token) (*frame, bool) {
	f := p.top()
	if f.kind != ast.NodeIf {
		p.err(diag.SynElseOutsideIf, kw.Span, fmt.Sprintf("'%s' outside of 'if'", kw.Text))
		return nil, false
	}
	if f.inElse {
		p.err(diag.SynDuplicateElse, kw.Span, fmt.Sprintf("'%s' after 'else'", kw.Text))
		return nil, false
	}
	return f, true
}

func (p *Parser) parseElif(open token.Token) bool {
	kw := p.advance()
	f, ok := p.ifTarget(kw)
	if !ok {
		return false
	}
	cond, ok := p.parseExpr()
	if !ok {
		return false
	}
	end, ok := p.closeDirective("elif condition")
	if !ok {
		return false
	}
	f.inElse = true
	parent := p.tree.Node(f.node)
	parent.Flags |= ast.NodeHasElse
	sp := open.Span.Cover(end)
	id := p.tree.NewNode(ast.NodeIf, sp, f.depth)
	f.push(id)
	n := p.tree.Node(id)
	n.Expr = cond
	n.Flags |= ast.NodeElif
	p.stack = append(p.stack, frame{node: id, kind: ast.NodeIf, depth: f.depth, open: f.open, elif: true})
	return true
}

func (p *Parser) parseElse() bool {
	kw := p.advance()
	f, ok := p.ifTarget(kw)
	if !ok {
		return false
	}
	if _, ok := p.closeDirective("else"); !ok {
		return false
	}
	f.inElse = true
	p.tree.Node(f.node).Flags |= ast.NodeHasElse
	return true
}

func (p *Parser) parseEnd(open token.Token) bool {
	kw := p.advance()
	if len(p.stack) == 1 {
		p.err(diag.SynUnmatchedEnd, kw.Span, "'end' without an open block")
		return false
	}
	end, ok := p.closeDirective("end")
	if !ok {
		return false
	}
	sp := open.Span.Cover(end)
	for {
		elif := p.top().elif
		p.closeTop(sp)
		if !elif {
			return true
		}
	}
}

func (p *Parser) parseFor(open token.Token) bool {
	p.advance() // for
	first, ok := p.expectIdent("loop variable")
	if !ok {
		return false
	}
	var key token.Token
	item := first
	if p.at(token.Comma) {
		p.advance()
		key = first
		if item, ok = p.expectIdent("loop variable"); !ok {
			return false
		}
	}
	if _, ok = p.expect(token.KwIn, diag.SynForMissingIn, "expected 'in' after loop variable"); !ok {
		return false
	}
	iter, ok := p.parseExpr()
	if !ok {
		return false
	}
	end, ok := p.closeDirective("for")
	if !ok {
		return false
	}
	id := p.openBlock(ast.NodeFor, open.Span.Cover(end))
	n := p.tree.Node(id)
	n.Name = item.Value
	n.NameSpan = item.Span
	n.Key = key.Value
	n.Expr = iter
	return true
}

func (p *Parser) parseInclude(open token.Token) bool {
	p.advance() // include
	target := p.lx.Peek()
	quoted := false
	switch target.Kind {
	case token.Ident:
	case token.StringLit:
		quoted = true
	default:
		p.err(diag.SynExpectIdentifier, p.diagSpan(), "expected fragment name after 'include'")
		return false
	}
	p.advance()
	end, ok := p.closeDirective("include target")
	if !ok {
		return false
	}
	id := p.newNode(ast.NodeInclude, open.Span.Cover(end))
	n := p.tree.Node(id)
	n.Name = target.Value
	n.NameSpan = target.Span
	if quoted {
		// identifiers are already NFC; bring string targets to the same form
		n.Name = norm.NFC.String(target.Value)
		n.Flags |= ast.NodeQuoted
	}
	return true
}

func (p *Parser) parseCall(open token.Token) bool {
	p.advance() // call
	target, ok := p.expectIdent("fragment name after 'call'")
	if !ok {
		return false
	}
	var args []ast.ExprID
	if p.at(token.LParen) {
		if args, ok = p.parseArgs(); !ok {
			return false
		}
	}
	end, ok := p.closeDirective("call")
	if !ok {
		return false
	}
	id := p.newNode(ast.NodeCall, open.Span.Cover(end))
	n := p.tree.Node(id)
	n.Name = target.Value
	n.NameSpan = target.Span
	n.Args = p.tree.AddArgs(args)
	return true
}

func (p *Parser) parseFragment(open token.Token) bool {
	kw := p.advance()
	if len(p.stack) > 1 {
		// still opened as a block so that its {% end %} pairs up
		p.err(diag.SynFragmentNotTopLevel, kw.Span, "fragment definitions are only allowed at top level")
	}
	name, ok := p.expectIdent("fragment name")
	if !ok {
		return false
	}
	end, ok := p.closeDirective("fragment name")
	if !ok {
		return false
	}
	id := p.openBlock(ast.NodeFragment, open.Span.Cover(end))
	n := p.tree.Node(id)
	n.Name = name.Value
	n.NameSpan = name.Span
	return true
}
