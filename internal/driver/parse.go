package driver

import (
	"fmt"

	"frel/internal/ast"
	"frel/internal/config"
	"frel/internal/diag"
	"frel/internal/lexer"
	"frel/internal/parser"
	"frel/internal/source"
)

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tree    *ast.Tree
	Bag     *diag.Bag
	// TooDeep is set when block nesting exceeds cfg.MaxNestingDepth. The
	// outline of such a tree is not built: its projection is recursive.
	TooDeep bool
}

// Parse lexes and parses one file without validating it.
func Parse(path string, cfg config.Config, maxDiagnostics int) (*ParseResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)

	bag := diag.NewBag(maxDiagnostics)
	reporter := diag.BagReporter{Bag: bag}
	failFast := cfg.ErrorMode == config.FailFast
	lx := lexer.New(file, lexer.Options{Reporter: reporter, FailFast: failFast})
	res := parser.Parse(lx, parser.Options{Reporter: reporter, FailFast: failFast})
	tooDeep := checkBlockDepth(res.Tree, cfg.MaxNestingDepth, reporter)
	bag.Sort()

	return &ParseResult{
		FileSet: fs,
		File:    file,
		Tree:    res.Tree,
		Bag:     bag,
		TooDeep: tooDeep,
	}, nil
}

// checkBlockDepth reports the first block nested deeper than limit. Only
// syntactic nesting is measured; include targets are not followed.
func checkBlockDepth(tree *ast.Tree, limit uint32, r diag.Reporter) bool {
	var deepest *ast.Node
	tree.Walk(func(_ ast.NodeID, n *ast.Node) bool {
		if deepest != nil {
			return false
		}
		if !n.IsBlock() || n.Depth < limit {
			return true
		}
		deepest = n
		return false
	})
	if deepest == nil {
		return false
	}
	diag.Report(r, diag.NewError(diag.SemaNestingTooDeep, deepest.Span,
		fmt.Sprintf("block nesting exceeds the limit of %d", limit)))
	return true
}
