package parser

import (
	"strings"
	"testing"

	"frel/internal/ast"
	"frel/internal/diag"
)

func exprOf(t *testing.T, src string) *ast.ExprOutline {
	t.Helper()
	tree := parseOK(t, "{{ "+src+" }}")
	n := tree.Node(tree.Content()[0])
	return tree.ExprOutline(n.Expr)
}

func TestExpressionPrecedence(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"a || b && c", "(a || (b && c))"},
		{"a or b and c", "(a || (b && c))"},
		{"a == b && c != d", "((a == b) && (c != d))"},
		{"a < b == c >= d", "((a < b) == (c >= d))"},
		{"a && b && c", "((a && b) && c)"},
		{"!a && not b", "(!a && !b)"},
		{"-x < 3", "(-x < 3)"},
		{"(a || b) && c", "((a || b) && c)"},
		{"user.name.first", "user.name.first"},
		{`f(a, "s").len`, `f(a, "s").len`},
		{"g()", "g()"},
		{"!ok(x) || nil == y", "(!ok(x) || (nil == y))"},
		{"true != false", "(true != false)"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := exprOf(t, tt.input).String(); got != tt.want {
				t.Fatalf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestKeywordAndSymbolOperatorsShareOutline(t *testing.T) {
	a := exprOf(t, "x and not y")
	b := exprOf(t, "x && !y")
	if a.String() != b.String() {
		t.Fatalf("%s != %s", a, b)
	}
}

func TestExpressionDepthGuard(t *testing.T) {
	deep := strings.Repeat("(", 500) + "a" + strings.Repeat(")", 500)
	_, bag := parseSource(t, "{{ "+deep+" }}", false)
	if !bag.HasErrors() {
		t.Fatal("expected depth error")
	}
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.SynExprTooDeep {
			found = true
		}
	}
	if !found {
		t.Fatalf("no SynExprTooDeep in %s", diagnosticsSummary(bag))
	}
}

func TestExpressionChainDepthGuard(t *testing.T) {
	over := DefaultMaxExprDepth + 1
	tests := map[string]string{
		"member": "a" + strings.Repeat(".b", over),
		"call":   "f" + strings.Repeat("()", over),
		"or":     "a" + strings.Repeat(" || a", over),
		"and":    "a" + strings.Repeat(" and a", over),
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			_, bag := parseSource(t, "{{ "+src+" }}", false)
			found := false
			for _, d := range bag.Items() {
				if d.Code == diag.SynExprTooDeep {
					found = true
				}
			}
			if !found {
				t.Fatalf("no SynExprTooDeep in %s", diagnosticsSummary(bag))
			}
		})
	}
}

func TestExpressionChainAtDepthLimit(t *testing.T) {
	// a.b.b... with DefaultMaxExprDepth-1 members is exactly at the limit.
	tree := parseOK(t, "{{ a"+strings.Repeat(".b", DefaultMaxExprDepth-1)+" }}")
	n := tree.Node(tree.Content()[0])
	if got := tree.ExprDepth(n.Expr); got != DefaultMaxExprDepth {
		t.Fatalf("depth = %d, want %d", got, DefaultMaxExprDepth)
	}
}

func TestLongMemberChainIsRejected(t *testing.T) {
	src := "{{ a" + strings.Repeat(".b", 1_000_000) + " }}"
	_, bag := parseSource(t, src, false)
	if !bag.HasErrors() {
		t.Fatal("expected depth error")
	}
}

func TestDeepDirectiveNestingDoesNotRecurse(t *testing.T) {
	const n = 20000
	src := strings.Repeat("{% if a %}", n) + "x" + strings.Repeat("{% end %}", n)
	tree := parseOK(t, src)
	maxDepth := uint32(0)
	tree.Walk(func(_ ast.NodeID, node *ast.Node) bool {
		if node.Depth > maxDepth {
			maxDepth = node.Depth
		}
		return true
	})
	if maxDepth != n {
		t.Fatalf("max depth = %d, want %d", maxDepth, n)
	}
}
