package lexer

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"frel/internal/token"

	"golang.org/x/text/unicode/norm"
)

// scanCode reads one token inside "{{ }}" or "{% %}".
func (lx *Lexer) scanCode() (token.Token, bool) {
	c := &lx.cursor
	lx.skipSpace()
	if c.EOF() {
		return token.Token{}, false
	}

	// Any closer ends code mode; the parser checks that it matches the opener.
	if c.At('}', '}') {
		return lx.closeCode(token.RInterp), true
	}
	if c.At('%', '}') {
		return lx.closeCode(token.RDirective), true
	}

	b := c.Peek()
	switch {
	case isIdentStartByte(b):
		return lx.scanIdentOrKeyword(), true
	case b >= utf8.RuneSelf:
		r, sz := c.PeekRune()
		if isIdentStartRune(r) {
			return lx.scanIdentOrKeyword(), true
		}
		m := c.Mark()
		c.Advance(sz)
		if r == utf8.RuneError && sz == 1 {
			lx.report(UnexpectedByte, c.SpanFrom(m), "invalid UTF-8 sequence")
		} else {
			lx.report(UnexpectedByte, c.SpanFrom(m), fmt.Sprintf("unexpected character %q", r))
		}
		return token.Token{}, false
	case isDec(b):
		return lx.scanNumber(), true
	case b == '"':
		return lx.scanString()
	}
	return lx.scanOperator()
}

func (lx *Lexer) closeCode(kind token.Kind) token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	lx.cursor.Bump()
	lx.mode = modeText
	return token.Token{Kind: kind, Span: lx.cursor.SpanFrom(start), Text: lx.cursor.Slice(start)}
}

func (lx *Lexer) skipSpace() {
	for !lx.cursor.EOF() {
		switch lx.cursor.Peek() {
		case ' ', '\t', '\n', '\r':
			lx.cursor.Bump()
		default:
			return
		}
	}
}

// scanIdentOrKeyword сканирует идентификатор; Value: NFC-форма, по ней же
// ищется ключевое слово. Token.Text: ровно исходный срез.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	c := &lx.cursor
	start := c.Mark()
	ascii := true
	for !c.EOF() {
		b := c.Peek()
		if b < utf8.RuneSelf {
			if !isIdentContinueByte(b) {
				break
			}
			c.Bump()
			continue
		}
		r, sz := c.PeekRune()
		if !isIdentContinueRune(r) {
			break
		}
		ascii = false
		c.Advance(sz)
	}
	text := c.Slice(start)
	value := text
	if !ascii {
		value = norm.NFC.String(text)
	}
	kind := token.Ident
	if kw, ok := token.LookupKeyword(value); ok {
		kind = kw
	}
	return token.Token{Kind: kind, Span: c.SpanFrom(start), Text: text, Value: value}
}

// scanNumber accepts digits with an optional fractional part: 42, 3.14.
func (lx *Lexer) scanNumber() token.Token {
	c := &lx.cursor
	start := c.Mark()
	for isDec(c.Peek()) {
		c.Bump()
	}
	if b0, b1, ok := c.Peek2(); ok && b0 == '.' && isDec(b1) {
		c.Bump()
		for isDec(c.Peek()) {
			c.Bump()
		}
	}
	text := c.Slice(start)
	return token.Token{Kind: token.NumberLit, Span: c.SpanFrom(start), Text: text, Value: text}
}

func (lx *Lexer) scanOperator() (token.Token, bool) {
	c := &lx.cursor
	start := c.Mark()
	b0 := c.Bump()
	b1 := c.Peek()
	kind := token.Invalid
	switch b0 {
	case '=':
		if b1 == '=' {
			c.Bump()
			kind = token.EqEq
		}
	case '!':
		kind = token.Bang
		if c.Eat('=') {
			kind = token.BangEq
		}
	case '<':
		kind = token.Lt
		if c.Eat('=') {
			kind = token.LtEq
		}
	case '>':
		kind = token.Gt
		if c.Eat('=') {
			kind = token.GtEq
		}
	case '&':
		if b1 == '&' {
			c.Bump()
			kind = token.AndAnd
		}
	case '|':
		if b1 == '|' {
			c.Bump()
			kind = token.OrOr
		}
	case '-':
		kind = token.Minus
	case '.':
		kind = token.Dot
	case ',':
		kind = token.Comma
	case '(':
		kind = token.LParen
	case ')':
		kind = token.RParen
	}
	sp := c.SpanFrom(start)
	if kind == token.Invalid {
		lx.report(UnexpectedByte, sp, fmt.Sprintf("unexpected byte %q", b0))
		return token.Token{}, false
	}
	text := c.Slice(start)
	return token.Token{Kind: kind, Span: sp, Text: text, Value: text}, true
}

func isIdentStartByte(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isIdentContinueByte(b byte) bool {
	return isIdentStartByte(b) || isDec(b)
}

func isIdentStartRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

// Combining marks are allowed so that decomposed input normalises to the
// same identifier as its composed form.
func isIdentContinueRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}

func isDec(b byte) bool { return b >= '0' && b <= '9' }

func isHex(b byte) bool {
	return (b >= '0' && b <= '9') ||
		(b >= 'a' && b <= 'f') ||
		(b >= 'A' && b <= 'F')
}
