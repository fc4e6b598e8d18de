package diag

import (
	"fmt"
	"strings"

	"frel/internal/source"
)

// Render produces the single-line form of d:
//
//	path:line:col: <stage> <severity> <CODE> <title>: <message>
//
// When fs is nil or does not know the span's file, the position falls back to
// "<input>:offset".
func Render(d Diagnostic, fs *source.FileSet) string {
	var sb strings.Builder
	writePos(&sb, d.Primary, fs)
	fmt.Fprintf(&sb, ": %s %s %s %s: %s",
		d.Stage(), severityLabel(d.Severity), d.Code.ID(), strings.ToLower(d.Code.Title()), d.Message)
	return sb.String()
}

// FormatShort renders diagnostics one per line, including notes indented below
// their parent. The output is stable and used by golden tests.
func FormatShort(diags []Diagnostic, fs *source.FileSet) string {
	var sb strings.Builder
	for i, d := range diags {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(Render(d, fs))
		for _, n := range d.Notes {
			sb.WriteString("\n  note: ")
			writePos(&sb, n.Span, fs)
			sb.WriteString(": ")
			sb.WriteString(n.Msg)
		}
	}
	return sb.String()
}

func writePos(sb *strings.Builder, sp source.Span, fs *source.FileSet) {
	if fs != nil && int(sp.File) < fs.Len() {
		start, _ := fs.Resolve(sp)
		fmt.Fprintf(sb, "%s:%d:%d", fs.DisplayPath(sp.File, source.PathRelative), start.Line, start.Col)
		return
	}
	fmt.Fprintf(sb, "<input>:%d", sp.Start)
}
