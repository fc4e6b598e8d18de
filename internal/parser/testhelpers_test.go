package parser

import (
	"fmt"
	"strings"
	"testing"

	"frel/internal/ast"
	"frel/internal/diag"
	"frel/internal/lexer"
	"frel/internal/source"
)

func parseSource(t *testing.T, input string, failFast bool) (*ast.Tree, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.frel", []byte(input))
	bag := diag.NewBag(0)
	reporter := diag.BagReporter{Bag: bag}
	lx := lexer.New(fs.Get(id), lexer.Options{Reporter: reporter, FailFast: failFast})
	res := Parse(lx, Options{Reporter: reporter, FailFast: failFast})
	if res.Tree == nil {
		t.Fatal("Parse returned nil tree")
	}
	return res.Tree, bag
}

func parseOK(t *testing.T, input string) *ast.Tree {
	t.Helper()
	tree, bag := parseSource(t, input, false)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics for %q: %s", input, diagnosticsSummary(bag))
	}
	return tree
}

func diagnosticsSummary(bag *diag.Bag) string {
	if bag == nil {
		return "<nil bag>"
	}
	diags := bag.Items()
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

func outlineText(t *testing.T, tree *ast.Tree) string {
	t.Helper()
	var sb strings.Builder
	if err := ast.FprintOutline(&sb, tree.Outline()); err != nil {
		t.Fatal(err)
	}
	return sb.String()
}
