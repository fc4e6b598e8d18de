package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"frel/internal/diag"
	"frel/internal/source"
)

type palette struct {
	err, warn, info, code, gutter, caret, note *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		code:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
		note:   color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.gutter, p.caret, p.note} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид. Ожидается, что
// diags уже отсортированы. Для каждой диагностики:
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//	   3 | {% include footer %}
//	     |            ^~~~~~
//	  note: <path>:<line>:<col>: <msg>
func Pretty(w io.Writer, diags []diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) error {
	pal := newPalette(opts.Color)
	var sb strings.Builder
	n := limit(len(diags), opts.Max)
	for i, d := range diags[:n] {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(position(d.Primary, fs, opts.PathMode))
		sb.WriteString(": ")
		sb.WriteString(pal.severity(d.Severity).Sprint(d.Severity.String()))
		sb.WriteByte(' ')
		sb.WriteString(pal.code.Sprint(d.Code.ID()))
		sb.WriteString(": ")
		sb.WriteString(d.Message)
		sb.WriteByte('\n')
		writeSnippet(&sb, d.Primary, fs, pal)
		if opts.ShowNotes {
			for _, note := range d.Notes {
				fmt.Fprintf(&sb, "  %s %s: %s\n", pal.note.Sprint("note:"), position(note.Span, fs, opts.PathMode), note.Msg)
			}
		}
	}
	if hidden := len(diags) - n; hidden > 0 {
		fmt.Fprintf(&sb, "\n... and %d more diagnostic(s)\n", hidden)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func position(sp source.Span, fs *source.FileSet, mode PathMode) string {
	if fs == nil || int(sp.File) >= fs.Len() {
		return fmt.Sprintf("<input>:%d", sp.Start)
	}
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", fs.DisplayPath(sp.File, mode), start.Line, start.Col)
}

// writeSnippet prints the first line of sp with a caret underline. Columns
// are display columns, so wide runes shift the caret correctly.
func writeSnippet(sb *strings.Builder, sp source.Span, fs *source.FileSet, pal palette) {
	if fs == nil || int(sp.File) >= fs.Len() {
		return
	}
	f := fs.Get(sp.File)
	start, end := fs.Resolve(sp)
	line := f.Line(start.Line)
	if line == "" && len(f.Content) == 0 {
		return
	}
	startCol := min(int(start.Col)-1, len(line))
	endCol := len(line)
	if end.Line == start.Line {
		endCol = min(int(end.Col)-1, len(line))
	}
	endCol = max(endCol, startCol)

	num := fmt.Sprintf("%d", start.Line)
	pad := strings.Repeat(" ", len(num))
	fmt.Fprintf(sb, "  %s %s %s\n", pal.gutter.Sprint(num), pal.gutter.Sprint("|"), line)
	fmt.Fprintf(sb, "  %s %s %s\n", pad, pal.gutter.Sprint("|"), pal.caret.Sprint(Underline(line, startCol, endCol)))
}

// Underline returns the marker line for line[start:end] in byte offsets:
// leading padding keeps tabs, the span gets "^" followed by "~".
func Underline(line string, start, end int) string {
	var sb strings.Builder
	for _, r := range line[:start] {
		if r == '\t' {
			sb.WriteByte('\t')
			continue
		}
		sb.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	width := runewidth.StringWidth(line[start:end])
	if width < 1 {
		width = 1
	}
	sb.WriteByte('^')
	sb.WriteString(strings.Repeat("~", width-1))
	return sb.String()
}
