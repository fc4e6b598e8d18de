package lexer

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"fortio.org/safecast"

	"frel/internal/source"
)

// Cursor walks the bytes of one file. All reads past the end return zero
// values, so the scanner never checks bounds itself.
type Cursor struct {
	src  []byte
	file source.FileID
	off  uint32
}

// Mark is a saved cursor offset.
type Mark uint32

func NewCursor(f *source.File) Cursor {
	if _, err := safecast.Conv[uint32](len(f.Content)); err != nil {
		panic(fmt.Errorf("file %s too large for the lexer: %w", f.Path, err))
	}
	return Cursor{src: f.Content, file: f.ID}
}

func (c *Cursor) Offset() uint32 { return c.off }

func (c *Cursor) EOF() bool { return int(c.off) >= len(c.src) }

func (c *Cursor) rest() []byte { return c.src[c.off:] }

// Peek returns the current byte, 0 at EOF.
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.src[c.off]
}

// Peek2 returns the next two bytes; ok is false when fewer remain.
func (c *Cursor) Peek2() (b0, b1 byte, ok bool) {
	if r := c.rest(); len(r) >= 2 {
		return r[0], r[1], true
	}
	return 0, 0, false
}

// At reports whether the input continues with a then b.
func (c *Cursor) At(a, b byte) bool {
	return bytes.HasPrefix(c.rest(), []byte{a, b})
}

// PeekRune decodes the rune under the cursor. size is 0 at EOF, invalid
// UTF-8 gives utf8.RuneError with size 1.
func (c *Cursor) PeekRune() (r rune, size uint32) {
	if c.EOF() {
		return utf8.RuneError, 0
	}
	r, n := utf8.DecodeRune(c.rest())
	return r, uint32(n) //nolint:gosec // n <= utf8.UTFMax
}

// Bump consumes and returns one byte.
func (c *Cursor) Bump() byte {
	b := c.Peek()
	if !c.EOF() {
		c.off++
	}
	return b
}

// Advance skips n bytes, stopping at EOF.
func (c *Cursor) Advance(n uint32) {
	c.off = min(c.off+n, uint32(len(c.src))) //nolint:gosec // checked in NewCursor
}

// Eat consumes b if it is next.
func (c *Cursor) Eat(b byte) bool {
	if c.Peek() == b && !c.EOF() {
		c.off++
		return true
	}
	return false
}

func (c *Cursor) Mark() Mark { return Mark(c.off) }

func (c *Cursor) Reset(m Mark) { c.off = uint32(m) }

// SpanFrom is the span from m up to the cursor.
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{File: c.file, Start: uint32(m), End: c.off}
}

// Slice is the text from m up to the cursor.
func (c *Cursor) Slice(m Mark) string {
	return string(c.src[m:c.off])
}
