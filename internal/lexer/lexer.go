package lexer

import (
	"iter"

	"frel/internal/source"
	"frel/internal/token"
)

type mode uint8

const (
	modeText mode = iota
	modeInterp
	modeDirective
)

// Lexer turns fragment source into tokens on demand. It alternates between
// text mode (literal runs and opening delimiters) and code mode (the inside of
// "{{ }}" and "{% %}").
type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   *token.Token // 1 элементный буфер для токена
	mode   mode
	open   source.Span // открывающий разделитель текущего code-режима
	done   bool
	errors int
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// Next возвращает следующий токен. После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}
	for {
		if lx.done || lx.cursor.EOF() {
			if !lx.done && lx.mode != modeText {
				lx.report(UnterminatedDelimiter, lx.open, "missing "+lx.closer()+" for "+lx.opener())
				lx.mode = modeText
			}
			lx.done = true
			return token.Token{Kind: token.EOF, Span: lx.emptySpan()}
		}
		var (
			tok token.Token
			ok  bool
		)
		if lx.mode == modeText {
			tok, ok = lx.scanText()
		} else {
			tok, ok = lx.scanCode()
		}
		if ok {
			return tok
		}
	}
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	if lx.look != nil {
		return *lx.look
	}
	t := lx.Next()
	lx.look = &t
	return t
}

// All yields the remaining tokens up to, but not including, EOF.
func (lx *Lexer) All() iter.Seq[token.Token] {
	return func(yield func(token.Token) bool) {
		for {
			tok := lx.Next()
			if tok.Kind == token.EOF || !yield(tok) {
				return
			}
		}
	}
}

// ErrorCount returns the number of lexical errors reported so far.
func (lx *Lexer) ErrorCount() int {
	return lx.errors
}

// File returns the file being lexed.
func (lx *Lexer) File() *source.File {
	return lx.file
}

func (lx *Lexer) emptySpan() source.Span {
	return source.At(lx.file.ID, lx.cursor.Offset())
}

func (lx *Lexer) opener() string {
	if lx.mode == modeDirective {
		return `"{%"`
	}
	return `"{{"`
}

func (lx *Lexer) closer() string {
	if lx.mode == modeDirective {
		return `"%}"`
	}
	return `"}}"`
}
