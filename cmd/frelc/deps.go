package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vmihailenco/msgpack/v5"

	"frel/internal/diagfmt"
	"frel/internal/driver"
)

var depsCmd = &cobra.Command{
	Use:   "deps [flags] file.frel",
	Short: "Show the fragment reference graph in dependency order",
	Long: `Deps validates a template and prints its fragments in batches: every
fragment depends only on fragments listed in earlier batches. Fragments on
an include cycle are reported separately.`,
	Args: cobra.ExactArgs(1),
	RunE: runDeps,
}

func init() {
	addConfigFlags(depsCmd)
}

type depsPayload struct {
	Batches [][]string          `json:"batches" msgpack:"batches"`
	Edges   map[string][]string `json:"edges" msgpack:"edges"`
	Cycles  [][]string          `json:"cycles,omitempty" msgpack:"cycles,omitempty"`
}

func runDeps(cmd *cobra.Command, args []string) error {
	out, err := readDiagOutput(cmd)
	if err != nil {
		return err
	}
	cfg, _, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}
	res, cerr := driver.Deps(args[0], cfg)
	if res == nil {
		return cerr
	}
	if res.Compile != nil {
		if err := out.printSide(res.Compile.Diagnostics, res.FileSet); err != nil {
			return err
		}
	}

	payload := depsPayload{Batches: res.Batches, Edges: res.Edges, Cycles: res.Cycles}
	switch out.format {
	case diagfmt.FormatJSON:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		err = enc.Encode(payload)
	case diagfmt.FormatMsgpack:
		err = msgpack.NewEncoder(os.Stdout).Encode(payload)
	default:
		err = printDepsPretty(payload)
	}
	if err != nil {
		return err
	}
	if cerr != nil {
		return &exitError{code: 1}
	}
	return nil
}

func printDepsPretty(p depsPayload) error {
	var sb strings.Builder
	for i, batch := range p.Batches {
		fmt.Fprintf(&sb, "batch %d: %s\n", i, strings.Join(batch, ", "))
	}
	froms := make([]string, 0, len(p.Edges))
	for from := range p.Edges {
		froms = append(froms, from)
	}
	sort.Strings(froms)
	for _, from := range froms {
		fmt.Fprintf(&sb, "%s -> %s\n", from, strings.Join(p.Edges[from], ", "))
	}
	for _, cycle := range p.Cycles {
		fmt.Fprintf(&sb, "cycle: %s -> %s\n", strings.Join(cycle, " -> "), cycle[0])
	}
	_, err := os.Stdout.WriteString(sb.String())
	return err
}
