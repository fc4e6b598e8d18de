package diagfmt

import (
	"io"

	"frel/internal/diag"
	"frel/internal/source"
)

// Short пишет по одной строке на диагностику в формате diag.Render.
func Short(w io.Writer, diags []diag.Diagnostic, fs *source.FileSet, maxItems int) error {
	out := diag.FormatShort(diags[:limit(len(diags), maxItems)], fs)
	if out == "" {
		return nil
	}
	_, err := io.WriteString(w, out+"\n")
	return err
}
