package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"frel/internal/ast"
	"frel/internal/fir"
)

// Format selects an output encoding for trees, tokens and dumps.
type Format string

const (
	FormatPretty  Format = "pretty"
	FormatShort   Format = "short"
	FormatJSON    Format = "json"
	FormatMsgpack Format = "msgpack"
)

// ParseFormat validates a --format flag value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatPretty, FormatShort, FormatJSON, FormatMsgpack:
		return f, nil
	case "":
		return FormatPretty, nil
	}
	return "", fmt.Errorf("unknown format %q (expected: pretty|short|json|msgpack)", s)
}

// FormatOutline writes a span-free tree listing.
func FormatOutline(w io.Writer, nodes []ast.Outline, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(nodes)
	case FormatMsgpack:
		return msgpack.NewEncoder(w).Encode(nodes)
	default:
		return ast.FprintOutline(w, nodes)
	}
}

// ProgramOutput is the serialised form of a decoded blob.
type ProgramOutput struct {
	Version    uint16        `json:"version" msgpack:"version"`
	Flags      []string      `json:"flags,omitempty" msgpack:"flags,omitempty"`
	Strings    []string      `json:"strings" msgpack:"strings"`
	Records    int           `json:"records" msgpack:"records"`
	Unresolved []string      `json:"unresolved,omitempty" msgpack:"unresolved,omitempty"`
	Nodes      []ast.Outline `json:"nodes" msgpack:"nodes"`
}

func programOutput(p *fir.Program) ProgramOutput {
	out := ProgramOutput{
		Version:    p.Version,
		Strings:    p.Strings,
		Records:    p.Records,
		Unresolved: p.Unresolved,
		Nodes:      p.Nodes,
	}
	if p.Flags&fir.FlagFragments != 0 {
		out.Flags = append(out.Flags, "fragments")
	}
	if p.Flags&fir.FlagUnresolved != 0 {
		out.Flags = append(out.Flags, "unresolved")
	}
	if out.Strings == nil {
		out.Strings = []string{}
	}
	return out
}

// FormatProgram writes a decoded blob for `frelc dump`.
func FormatProgram(w io.Writer, p *fir.Program, format Format) error {
	out := programOutput(p)
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case FormatMsgpack:
		return msgpack.NewEncoder(w).Encode(out)
	}
	fmt.Fprintf(w, "FIR v%d, %d strings, %d records", out.Version, len(out.Strings), out.Records)
	for _, f := range out.Flags {
		fmt.Fprintf(w, " [%s]", f)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "strings:")
	for i, s := range out.Strings {
		fmt.Fprintf(w, "  %4d %q\n", i, s)
	}
	fmt.Fprintln(w, "nodes:")
	if len(out.Nodes) == 0 {
		fmt.Fprintln(w, "  (empty)")
		return nil
	}
	return ast.FprintOutline(w, out.Nodes)
}
