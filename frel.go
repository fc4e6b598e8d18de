// Package frel compiles the fragment template language into FIR, a compact
// checksummed binary form.
//
//	res, err := frel.Compile("Hello {{ name }}!", frel.DefaultConfig())
//	if err != nil {
//		var diags *diag.Error
//		if errors.As(err, &diags) { ... }
//	}
//	os.WriteFile("hello.fir", res.Blob, 0o644)
//
// Compile is a pure function of its arguments and safe for concurrent use.
package frel

import (
	"frel/internal/compile"
	"frel/internal/config"
	"frel/internal/diag"
	"frel/internal/fir"
	"frel/internal/source"
)

// Config controls a compile. The zero value is not valid; start from
// DefaultConfig.
type Config = config.Config

// DefaultConfig returns strict references, depth 64, 16 MiB blobs and
// aggregate error reporting.
func DefaultConfig() Config { return config.Default() }

type Result struct {
	Blob     fir.Blob
	Warnings []diag.Diagnostic
}

// Compile turns source into a blob. The error is a *diag.Error carrying every
// lex, parse and validation diagnostic, or a *fir.EncodeError. No blob is
// returned alongside an error.
func Compile(src string, cfg Config) (Result, error) {
	name := cfg.Name
	if name == "" {
		name = config.Default().Name
	}
	fs := source.NewFileSet()
	id := fs.AddVirtual(name, []byte(src))
	res, err := compile.File(fs.Get(id), compile.Options{Config: cfg})
	if err != nil {
		return Result{}, err
	}
	return Result{Blob: res.Blob, Warnings: res.Warnings}, nil
}
