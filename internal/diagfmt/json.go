package diagfmt

import (
	"encoding/json"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"frel/internal/diag"
	"frel/internal/source"
)

// LocationJSON представляет местоположение в файле
type LocationJSON struct {
	File      string `json:"file" msgpack:"file"`
	StartByte uint32 `json:"start_byte" msgpack:"start_byte"`
	EndByte   uint32 `json:"end_byte" msgpack:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty" msgpack:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty" msgpack:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty" msgpack:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty" msgpack:"end_col,omitempty"`
}

// NoteJSON представляет дополнительную заметку
type NoteJSON struct {
	Message  string       `json:"message" msgpack:"message"`
	Location LocationJSON `json:"location" msgpack:"location"`
}

// DiagnosticJSON представляет диагностику в JSON/msgpack формате
type DiagnosticJSON struct {
	Severity string       `json:"severity" msgpack:"severity"`
	Stage    string       `json:"stage" msgpack:"stage"`
	Code     string       `json:"code" msgpack:"code"`
	Title    string       `json:"title" msgpack:"title"`
	Message  string       `json:"message" msgpack:"message"`
	Location LocationJSON `json:"location" msgpack:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty" msgpack:"notes,omitempty"`
}

// DiagnosticsOutput представляет корневую структуру вывода
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics" msgpack:"diagnostics"`
	Count       int              `json:"count" msgpack:"count"`
	Errors      int              `json:"errors" msgpack:"errors"`
	Warnings    int              `json:"warnings" msgpack:"warnings"`
}

func makeLocation(span source.Span, fs *source.FileSet, pathMode PathMode, includePositions bool) LocationJSON {
	loc := LocationJSON{StartByte: span.Start, EndByte: span.End}
	if fs == nil || int(span.File) >= fs.Len() {
		loc.File = "<input>"
		return loc
	}
	loc.File = fs.DisplayPath(span.File, pathMode)
	if includePositions {
		startPos, endPos := fs.Resolve(span)
		loc.StartLine = startPos.Line
		loc.StartCol = startPos.Col
		loc.EndLine = endPos.Line
		loc.EndCol = endPos.Col
	}
	return loc
}

// BuildDiagnosticsOutput формирует структуру вывода без сериализации.
// Errors и Warnings считаются по всем диагностикам, до обрезки по Max.
func BuildDiagnosticsOutput(diags []diag.Diagnostic, fs *source.FileSet, opts JSONOpts) DiagnosticsOutput {
	n := limit(len(diags), opts.Max)
	out := DiagnosticsOutput{Diagnostics: make([]DiagnosticJSON, 0, n)}
	for _, d := range diags {
		switch d.Severity {
		case diag.SevError:
			out.Errors++
		case diag.SevWarning:
			out.Warnings++
		}
	}
	for _, d := range diags[:n] {
		dj := DiagnosticJSON{
			Severity: d.Severity.String(),
			Stage:    d.Stage().String(),
			Code:     d.Code.ID(),
			Title:    d.Code.Title(),
			Message:  d.Message,
			Location: makeLocation(d.Primary, fs, opts.PathMode, opts.IncludePositions),
		}
		if opts.IncludeNotes && len(d.Notes) > 0 {
			dj.Notes = make([]NoteJSON, len(d.Notes))
			for j, note := range d.Notes {
				dj.Notes[j] = NoteJSON{
					Message:  note.Msg,
					Location: makeLocation(note.Span, fs, opts.PathMode, opts.IncludePositions),
				}
			}
		}
		out.Diagnostics = append(out.Diagnostics, dj)
	}
	out.Count = len(out.Diagnostics)
	return out
}

// JSON форматирует диагностики в JSON.
func JSON(w io.Writer, diags []diag.Diagnostic, fs *source.FileSet, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildDiagnosticsOutput(diags, fs, opts))
}

// Msgpack пишет ту же структуру, что и JSON, в бинарном виде.
func Msgpack(w io.Writer, diags []diag.Diagnostic, fs *source.FileSet, opts JSONOpts) error {
	return msgpack.NewEncoder(w).Encode(BuildDiagnosticsOutput(diags, fs, opts))
}
