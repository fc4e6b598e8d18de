package lexer

import (
	"strings"
	"unicode/utf8"

	"frel/internal/token"
)

// scanText reads one text-mode item. It returns ok=false when the item
// produced no token (a comment or a skipped invalid byte).
func (lx *Lexer) scanText() (token.Token, bool) {
	c := &lx.cursor
	switch {
	case c.At('{', '{'):
		return lx.openCode(modeInterp, token.LInterp), true
	case c.At('{', '%'):
		return lx.openCode(modeDirective, token.LDirective), true
	case c.At('{', '#'):
		lx.skipComment()
		return token.Token{}, false
	}

	start := c.Mark()
	var val strings.Builder
	for !c.EOF() {
		if c.At('{', '{') || c.At('{', '%') || c.At('{', '#') {
			break
		}
		if c.At('\\', '{') {
			c.Bump()
			c.Bump()
			val.WriteByte('{')
			continue
		}
		r, sz := c.PeekRune()
		if r == utf8.RuneError && sz == 1 {
			if c.Offset() > uint32(start) {
				break
			}
			m := c.Mark()
			c.Bump()
			lx.report(UnexpectedByte, c.SpanFrom(m), "invalid UTF-8 in text")
			return token.Token{}, false
		}
		val.WriteRune(r)
		c.Advance(sz)
	}
	return token.Token{
		Kind:  token.Text,
		Span:  c.SpanFrom(start),
		Text:  c.Slice(start),
		Value: val.String(),
	}, true
}

func (lx *Lexer) openCode(m mode, kind token.Kind) token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	lx.cursor.Bump()
	sp := lx.cursor.SpanFrom(start)
	lx.mode = m
	lx.open = sp
	return token.Token{Kind: kind, Span: sp, Text: lx.cursor.Slice(start)}
}

// skipComment consumes "{# ... #}". An unterminated comment consumes the rest
// of the input.
func (lx *Lexer) skipComment() {
	c := &lx.cursor
	start := c.Mark()
	c.Bump()
	c.Bump()
	open := c.SpanFrom(start)
	for !c.EOF() {
		if c.At('#', '}') {
			c.Bump()
			c.Bump()
			return
		}
		c.Bump()
	}
	lx.report(UnterminatedDelimiter, open, `missing "#}" for "{#"`)
	lx.done = true
}
