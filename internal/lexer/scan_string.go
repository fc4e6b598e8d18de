package lexer

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"frel/internal/token"
)

// scanString reads a double-quoted literal and decodes its escapes into Value.
// Invalid escapes are reported and dropped; an unterminated string consumes
// the rest of the input.
func (lx *Lexer) scanString() (token.Token, bool) {
	c := &lx.cursor
	start := c.Mark()
	c.Bump() // opening quote
	var val strings.Builder
	for {
		if c.EOF() {
			lx.report(UnterminatedDelimiter, c.SpanFrom(start), "unterminated string literal")
			// the enclosing code delimiter is unterminated too; report once
			lx.done = true
			return token.Token{}, false
		}
		if lx.done {
			return token.Token{}, false
		}
		b := c.Peek()
		if b == '"' {
			c.Bump()
			break
		}
		if b == '\\' {
			lx.scanEscape(&val)
			continue
		}
		r, sz := c.PeekRune()
		if r == utf8.RuneError && sz == 1 {
			m := c.Mark()
			c.Bump()
			lx.report(UnexpectedByte, c.SpanFrom(m), "invalid UTF-8 in string literal")
			continue
		}
		val.WriteRune(r)
		c.Advance(sz)
	}
	return token.Token{
		Kind:  token.StringLit,
		Span:  c.SpanFrom(start),
		Text:  c.Slice(start),
		Value: val.String(),
	}, true
}

func (lx *Lexer) scanEscape(val *strings.Builder) {
	c := &lx.cursor
	m := c.Mark()
	c.Bump() // '\'
	if c.EOF() {
		return
	}
	switch c.Bump() {
	case '"':
		val.WriteByte('"')
	case '\\':
		val.WriteByte('\\')
	case 'n':
		val.WriteByte('\n')
	case 't':
		val.WriteByte('\t')
	case 'r':
		val.WriteByte('\r')
	case '{':
		val.WriteByte('{')
	case '}':
		val.WriteByte('}')
	case 'u':
		lx.scanUnicodeEscape(m, val)
	default:
		lx.report(InvalidEscape, c.SpanFrom(m), "unknown escape sequence "+strconv.Quote(c.Slice(m)))
	}
}

// scanUnicodeEscape handles the tail of \u{HEX}: one to six hex digits naming a
// valid scalar value.
func (lx *Lexer) scanUnicodeEscape(m Mark, val *strings.Builder) {
	c := &lx.cursor
	if !c.Eat('{') {
		lx.report(InvalidEscape, c.SpanFrom(m), `expected "{" after \u`)
		return
	}
	digits := c.Mark()
	for isHex(c.Peek()) {
		c.Bump()
	}
	hex := c.Slice(digits)
	if !c.Eat('}') || hex == "" || len(hex) > 6 {
		lx.report(InvalidEscape, c.SpanFrom(m), "malformed unicode escape "+strconv.Quote(c.Slice(m)))
		return
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || !utf8.ValidRune(rune(n)) {
		lx.report(InvalidEscape, c.SpanFrom(m), "invalid code point "+strconv.Quote(c.Slice(m)))
		return
	}
	val.WriteRune(rune(n))
}
