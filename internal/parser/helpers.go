package parser

import (
	"slices"

	"frel/internal/diag"
	"frel/internal/source"
	"frel/internal/token"
)

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.lx.Peek().Kind)
}

// advance: съедает следующий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	tok := p.lx.Next()
	if tok.Kind != token.EOF {
		p.lastSpan = tok.Span
	}
	return tok
}

// diagSpan: лучший span для диагностики: на EOF указываем сразу за
// последним съеденным токеном.
func (p *Parser) diagSpan() source.Span {
	peek := p.lx.Peek()
	if peek.Kind == token.EOF {
		return source.At(p.lastSpan.File, p.lastSpan.End)
	}
	return peek.Span
}

// expect: ожидаем конкретный токен. Если нет, репортим и возвращаем (invalid,false).
// EOF после ошибки лексера не репортится повторно.
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	sp := p.diagSpan()
	if !p.at(token.EOF) || p.lx.ErrorCount() == 0 {
		p.err(code, sp, msg)
	}
	return token.Token{Kind: token.Invalid, Span: sp}, false
}

func (p *Parser) expectIdent(what string) (token.Token, bool) {
	return p.expect(token.Ident, diag.SynExpectIdentifier, "expected "+what)
}

// err репортит ошибку с типизированной причиной. В режиме FailFast первая
// ошибка (своя или лексера) останавливает разбор.
func (p *Parser) err(code diag.Code, sp source.Span, msg string) {
	if p.stopped {
		return
	}
	if p.opts.FailFast && p.lx.ErrorCount() > 0 {
		p.stopped = true
		return
	}
	p.errors++
	if p.opts.FailFast {
		p.stopped = true
	}
	if p.opts.MaxErrors > 0 && p.errors > p.opts.MaxErrors {
		return
	}
	diag.Report(p.opts.Reporter, diag.NewError(code, sp, msg).
		WithCause(&Error{Kind: kindOf(code), Span: sp, Detail: msg}))
}

// syncBoundary: восстановление: пропускаем токены до ближайшего "%}" или
// "}}" (включительно), после чего лексер снова в текстовом режиме.
func (p *Parser) syncBoundary() {
	if p.stopped {
		return
	}
	for !p.atOr(token.EOF, token.Text, token.LInterp, token.LDirective) {
		if p.atOr(token.RDirective, token.RInterp) {
			p.advance()
			return
		}
		p.advance()
	}
}
