package lexer

import (
	"frel/internal/diag"
	"frel/internal/source"
)

type Options struct {
	Reporter diag.Reporter // может быть nil, тогда ошибки только считаются
	// FailFast makes the lexer yield EOF right after the first error.
	FailFast bool
}

func (lx *Lexer) report(kind ErrorKind, sp source.Span, msg string) {
	lx.errors++
	if lx.opts.FailFast {
		lx.done = true
	}
	diag.Report(lx.opts.Reporter, diag.NewError(kind.Code(), sp, msg).
		WithCause(&Error{Kind: kind, Span: sp, Detail: msg}))
}
