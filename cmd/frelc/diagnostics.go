package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"frel/internal/diag"
	"frel/internal/diagfmt"
	"frel/internal/source"
)

type diagOutput struct {
	format diagfmt.Format
	max    int
}

func readDiagOutput(cmd *cobra.Command) (diagOutput, error) {
	formatStr, err := cmd.Root().PersistentFlags().GetString("format")
	if err != nil {
		return diagOutput{}, fmt.Errorf("failed to get format flag: %w", err)
	}
	format, err := diagfmt.ParseFormat(formatStr)
	if err != nil {
		return diagOutput{}, err
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return diagOutput{}, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	return diagOutput{format: format, max: maxDiagnostics}, nil
}

// print renders diags in the selected format. Pretty and short output is
// skipped for an empty list; json and msgpack always produce a document.
func (o diagOutput) print(w io.Writer, diags []diag.Diagnostic, fs *source.FileSet) error {
	switch o.format {
	case diagfmt.FormatShort:
		return diagfmt.Short(w, diags, fs, o.max)
	case diagfmt.FormatJSON:
		return diagfmt.JSON(w, diags, fs, diagfmt.JSONOpts{IncludePositions: true, IncludeNotes: true, Max: o.max})
	case diagfmt.FormatMsgpack:
		return diagfmt.Msgpack(w, diags, fs, diagfmt.JSONOpts{IncludePositions: true, IncludeNotes: true, Max: o.max})
	default:
		if len(diags) == 0 {
			return nil
		}
		return diagfmt.Pretty(w, diags, fs, diagfmt.PrettyOpts{Color: useColor(), ShowNotes: true, Max: o.max})
	}
}

// structured reports whether stdout carries a machine-readable document.
func (o diagOutput) structured() bool {
	return o.format == diagfmt.FormatJSON || o.format == diagfmt.FormatMsgpack
}

// printSide renders diagnostics to stderr next to a primary stdout
// document. Structured formats keep stdout clean and use the short form.
func (o diagOutput) printSide(diags []diag.Diagnostic, fs *source.FileSet) error {
	if len(diags) == 0 {
		return nil
	}
	if o.structured() {
		return diagfmt.Short(os.Stderr, diags, fs, o.max)
	}
	return o.print(os.Stderr, diags, fs)
}
