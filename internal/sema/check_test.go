package sema_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"frel/internal/ast"
	"frel/internal/config"
	"frel/internal/diag"
	"frel/internal/lexer"
	"frel/internal/parser"
	"frel/internal/sema"
	"frel/internal/source"

	"github.com/google/go-cmp/cmp"
)

func check(t *testing.T, src string, mutate func(*config.Config)) (*sema.Result, *diag.Bag, *ast.Tree) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("page.frel", []byte(src))
	bag := diag.NewBag(0)
	rep := diag.BagReporter{Bag: bag}
	res := parser.Parse(lexer.New(fs.Get(id), lexer.Options{Reporter: rep}), parser.Options{Reporter: rep})
	if res.Errors != 0 {
		t.Fatalf("parse errors: %s", diag.FormatShort(bag.Items(), fs))
	}
	cfg := config.Default()
	if mutate != nil {
		mutate(&cfg)
	}
	return sema.Check(res.Tree, sema.Options{Config: cfg, Reporter: rep}), bag, res.Tree
}

func codes(bag *diag.Bag) []diag.Code {
	var out []diag.Code
	for _, d := range bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

func TestResolvesDefinedAndKnownFragments(t *testing.T) {
	src := "{% fragment nav %}n{% end %}{% include nav %}{% call footer(1) %}"
	res, bag, _ := check(t, src, func(c *config.Config) { c.KnownFragments = []string{"footer"} })
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", codes(bag))
	}
	if len(res.Resolved) != 2 || res.Unresolved != 0 || !res.OK() {
		t.Fatalf("resolved=%d unresolved=%d", len(res.Resolved), res.Unresolved)
	}
	if !res.Symbols["footer"].External() || res.Symbols["nav"].External() {
		t.Fatalf("symbols: %+v", res.Symbols)
	}
}

func TestUnknownReferenceStrictness(t *testing.T) {
	src := `{% include "missing" %}`

	res, bag, _ := check(t, src, nil)
	if res.OK() || bag.Items()[0].Severity != diag.SevError {
		t.Fatalf("strict mode must fail: %v", codes(bag))
	}
	var unk *sema.UnknownReferenceError
	if !errors.As(bag.Items()[0].Cause, &unk) || unk.Name != "missing" || !unk.Strict {
		t.Fatalf("cause = %v", bag.Items()[0].Cause)
	}

	res, bag, _ = check(t, src, func(c *config.Config) { c.StrictUnknownRefs = false })
	if !res.OK() || res.Warnings != 1 || bag.Items()[0].Severity != diag.SevWarning {
		t.Fatalf("lenient mode must only warn: errors=%d warnings=%d", res.Errors, res.Warnings)
	}
	if res.Unresolved != 1 {
		t.Fatalf("unresolved = %d", res.Unresolved)
	}
}

func TestMutualIncludeCycle(t *testing.T) {
	src := "{% fragment A %}{% include B %}{% end %}{% fragment B %}{% include A %}{% end %}"
	res, bag, _ := check(t, src, nil)
	if diff := cmp.Diff([]diag.Code{diag.SemaCyclicInclude}, codes(bag)); diff != "" {
		t.Fatalf("codes (-want +got):\n%s", diff)
	}
	var cyc *sema.CyclicIncludeError
	if !errors.As(bag.Items()[0].Cause, &cyc) {
		t.Fatalf("cause = %v", bag.Items()[0].Cause)
	}
	if diff := cmp.Diff([]string{"A", "B"}, cyc.Cycle); diff != "" {
		t.Fatalf("cycle (-want +got):\n%s", diff)
	}
	if cyc.Error() != "cyclic include: A -> B -> A" {
		t.Fatalf("message = %q", cyc.Error())
	}
	if len(res.Cycles) != 1 {
		t.Fatalf("cycles = %v", res.Cycles)
	}
	// the span points at the include closing the cycle
	if sp := bag.Items()[0].Primary; src[sp.Start:sp.End] != "A" {
		t.Fatalf("span text = %q", src[sp.Start:sp.End])
	}
}

func TestSelfInclude(t *testing.T) {
	_, bag, _ := check(t, "{% fragment me %}{% if x %}{% include me %}{% end %}{% end %}", nil)
	var cyc *sema.CyclicIncludeError
	if bag.Len() != 1 || !errors.As(bag.Items()[0].Cause, &cyc) {
		t.Fatalf("diagnostics: %v", codes(bag))
	}
	if diff := cmp.Diff([]string{"me"}, cyc.Cycle); diff != "" {
		t.Fatal(diff)
	}
}

func TestDuplicateFragment(t *testing.T) {
	src := "{% fragment a %}{% end %}{% fragment a %}{% end %}"
	_, bag, _ := check(t, src, nil)
	if bag.Len() != 1 || bag.Items()[0].Code != diag.SemaDuplicateFragment {
		t.Fatalf("diagnostics: %v", codes(bag))
	}
	d := bag.Items()[0]
	if len(d.Notes) != 1 || d.Notes[0].Span.Start >= d.Primary.Start {
		t.Fatalf("note should point at the first definition: %+v", d)
	}
}

func TestLocalDefinitionShadowsKnown(t *testing.T) {
	_, bag, _ := check(t, "{% fragment nav %}{% end %}", func(c *config.Config) { c.KnownFragments = []string{"nav"} })
	if bag.Len() != 0 {
		t.Fatalf("diagnostics: %v", codes(bag))
	}
}

func TestCombinedDepth(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want uint32
	}{
		{"flat", "text {{x}}", 0},
		{"one if", "{% if a %}x{% end %}", 1},
		{"nested", "{% if a %}{% for x in y %}{% if b %}{% end %}{% end %}{% end %}", 3},
		{"include leaf", "{% fragment f %}x{% end %}{% include f %}", 1},
		{"include nested", "{% fragment f %}{% if a %}{% if b %}{% end %}{% end %}{% end %}{% if c %}{% include f %}{% end %}", 4},
		{"chain", "{% fragment a %}{% include b %}{% end %}{% fragment b %}{% if x %}{% end %}{% end %}{% include a %}", 3},
		{"elif does not nest", "{% if a %}{% elif b %}{% elif c %}{% if d %}{% end %}{% end %}", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, bag, _ := check(t, tt.src, nil)
			if bag.Len() != 0 {
				t.Fatalf("diagnostics: %v", codes(bag))
			}
			if res.Depth != tt.want {
				t.Fatalf("depth = %d, want %d", res.Depth, tt.want)
			}
		})
	}
}

func TestNestingTooDeep(t *testing.T) {
	src := strings.Repeat("{% if a %}", 5) + strings.Repeat("{% end %}", 5)
	_, bag, _ := check(t, src, func(c *config.Config) { c.MaxNestingDepth = 4 })
	if bag.Len() != 1 {
		t.Fatalf("diagnostics: %v", codes(bag))
	}
	var deep *sema.NestingTooDeepError
	if !errors.As(bag.Items()[0].Cause, &deep) || deep.Limit != 4 || deep.Actual != 5 {
		t.Fatalf("cause = %+v", bag.Items()[0].Cause)
	}
}

func TestNestingThroughIncludes(t *testing.T) {
	// each fragment wraps the next one in an if: depth grows by two per level
	var sb strings.Builder
	const levels = 40
	for i := range levels {
		fmt.Fprintf(&sb, "{%% fragment f%d %%}{%% if x %%}", i)
		if i+1 < levels {
			fmt.Fprintf(&sb, "{%% include f%d %%}", i+1)
		}
		sb.WriteString("{% end %}{% end %}")
	}
	sb.WriteString("{% include f0 %}")
	res, bag, _ := check(t, sb.String(), nil)
	if res.Depth != 2*levels {
		t.Fatalf("depth = %d", res.Depth)
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.SemaNestingTooDeep {
		t.Fatalf("diagnostics: %v", codes(bag))
	}
}

func TestFailFastStopsAfterFirstError(t *testing.T) {
	src := "{% include a %}{% include b %}"
	_, bag, _ := check(t, src, func(c *config.Config) { c.ErrorMode = config.FailFast })
	if bag.Len() != 1 {
		t.Fatalf("diagnostics: %v", codes(bag))
	}
}

func TestDependencyBatches(t *testing.T) {
	src := "{% fragment a %}{% include b %}{% end %}{% fragment b %}{% end %}{% include a %}"
	res, _, _ := check(t, src, nil)
	var got [][]string
	for _, b := range res.Topo.Batches {
		got = append(got, res.Index.Names(b))
	}
	want := [][]string{{sema.RootName}, {"a"}, {"b"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("batches (-want +got):\n%s", diff)
	}
}
