package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"frel/internal/ast"
	"frel/internal/source"
)

// CheckTreeInvariants runs the structural checks every parsed tree must pass,
// with or without parse errors:
//
//   - the root is a Document spanning the whole file
//   - every node span lies inside the file content
//   - children are allocated after their parent
//   - every node is reachable exactly once
//   - depth is parent+1, except an elif If, which keeps its parent's depth
func CheckTreeInvariants(tree *ast.Tree, sf *source.File) error {
	if tree == nil || sf == nil {
		return fmt.Errorf("nil tree or file")
	}
	root := tree.Node(tree.Root)
	if root == nil || root.Kind != ast.NodeDocument {
		return fmt.Errorf("root is not a document node")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if root.Span.Start != 0 || root.Span.End != lenContent {
		return fmt.Errorf("document span %v does not cover file of %d bytes", root.Span, lenContent)
	}

	type item struct {
		id     ast.NodeID
		parent ast.NodeID
		inElse bool
	}
	seen := make(map[ast.NodeID]bool, tree.Nodes.Len())
	stack := make([]item, 0, 16)
	for _, c := range tree.Content() {
		stack = append(stack, item{id: c, parent: tree.Root})
	}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[it.id] {
			return fmt.Errorf("node %d reached twice", it.id)
		}
		seen[it.id] = true
		n := tree.Node(it.id)
		if n == nil {
			return fmt.Errorf("dangling node id %d", it.id)
		}
		if it.id <= it.parent {
			return fmt.Errorf("node %d allocated before its parent %d", it.id, it.parent)
		}
		sp := n.Span
		if sp.File != sf.ID {
			return fmt.Errorf("node %d span file mismatch: got=%d want=%d", it.id, sp.File, sf.ID)
		}
		if sp.Start > sp.End || sp.End > lenContent {
			return fmt.Errorf("node %d span %v outside file content", it.id, sp)
		}
		if err := checkDepth(tree, it.parent, n, it.inElse); err != nil {
			return fmt.Errorf("node %d: %w", it.id, err)
		}
		for _, c := range tree.Children(n.Children) {
			stack = append(stack, item{id: c, parent: it.id})
		}
		for _, c := range tree.Children(n.Else) {
			stack = append(stack, item{id: c, parent: it.id, inElse: true})
		}
	}
	return nil
}

func checkDepth(tree *ast.Tree, parentID ast.NodeID, n *ast.Node, inElse bool) error {
	parent := tree.Node(parentID)
	var want uint32
	switch {
	case parent.Kind == ast.NodeDocument:
		want = 0
	case inElse && n.Has(ast.NodeElif):
		want = parent.Depth
	default:
		want = parent.Depth + 1
	}
	if n.Depth != want {
		return fmt.Errorf("depth %d, want %d", n.Depth, want)
	}
	return nil
}
