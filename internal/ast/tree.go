package ast

import (
	"fmt"
	"slices"

	"frel/internal/source"

	"fortio.org/safecast"
)

type Hints struct{ Nodes, Exprs uint }

// Tree is the arena-backed AST of a single compilation.
type Tree struct {
	File     source.FileID
	Root     NodeID
	Nodes    *Arena[Node]
	Exprs    *Arena[Expr]
	children []NodeID
	args     []ExprID
}

func NewTree(file source.FileID, hints Hints) *Tree {
	if hints.Nodes == 0 {
		hints.Nodes = 1 << 6
	}
	if hints.Exprs == 0 {
		hints.Exprs = 1 << 6
	}
	return &Tree{
		File:     file,
		Nodes:    NewArena[Node](hints.Nodes),
		Exprs:    NewArena[Expr](hints.Exprs),
		children: make([]NodeID, 0, hints.Nodes),
	}
}

func (t *Tree) NewNode(kind NodeKind, sp source.Span, depth uint32) NodeID {
	return NodeID(t.Nodes.Allocate(Node{Kind: kind, Span: sp, Depth: depth}))
}

func (t *Tree) Node(id NodeID) *Node {
	return t.Nodes.Get(uint32(id))
}

// NewExpr allocates e and records its subtree depth from its operands.
func (t *Tree) NewExpr(e Expr) ExprID {
	var d uint32
	for _, id := range [2]ExprID{e.X, e.Y} {
		if x := t.Expr(id); x != nil {
			d = max(d, x.Depth)
		}
	}
	for _, id := range t.Args(e.Args) {
		if x := t.Expr(id); x != nil {
			d = max(d, x.Depth)
		}
	}
	e.Depth = d + 1
	return ExprID(t.Exprs.Allocate(e))
}

// ExprDepth returns the subtree height of id, 0 for NoExprID.
func (t *Tree) ExprDepth(id ExprID) uint32 {
	if x := t.Expr(id); x != nil {
		return x.Depth
	}
	return 0
}

func (t *Tree) Expr(id ExprID) *Expr {
	return t.Exprs.Get(uint32(id))
}

// AddChildren appends ids to the child list and returns their range.
func (t *Tree) AddChildren(ids []NodeID) Range {
	r := Range{Start: listLen(len(t.children)), Len: listLen(len(ids))}
	t.children = append(t.children, ids...)
	return r
}

// Children returns the node IDs addressed by r.
func (t *Tree) Children(r Range) []NodeID {
	return t.children[r.Start : r.Start+r.Len]
}

// AddArgs appends call arguments and returns their range.
func (t *Tree) AddArgs(ids []ExprID) Range {
	r := Range{Start: listLen(len(t.args)), Len: listLen(len(ids))}
	t.args = append(t.args, ids...)
	return r
}

func (t *Tree) Args(r Range) []ExprID {
	return t.args[r.Start : r.Start+r.Len]
}

// Content returns the top-level children of the document.
func (t *Tree) Content() []NodeID {
	root := t.Node(t.Root)
	if root == nil {
		return nil
	}
	return t.Children(root.Children)
}

// Walk visits every node below the root in pre-order: a node, its body, then
// its else branch. fn returning false skips the node's subtree. The traversal
// keeps its own stack.
func (t *Tree) Walk(fn func(id NodeID, n *Node) bool) {
	root := t.Node(t.Root)
	if root == nil {
		return
	}
	stack := slices.Clone(t.Children(root.Children))
	slices.Reverse(stack)
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := t.Node(id)
		if !fn(id, n) {
			continue
		}
		els := t.Children(n.Else)
		for i := len(els) - 1; i >= 0; i-- {
			stack = append(stack, els[i])
		}
		body := t.Children(n.Children)
		for i := len(body) - 1; i >= 0; i-- {
			stack = append(stack, body[i])
		}
	}
}

// Enclosing returns, for every node, the fragment definition that contains
// it (NoNodeID for document-level content).
func (t *Tree) Enclosing() map[NodeID]NodeID {
	out := make(map[NodeID]NodeID, t.Nodes.Len())
	for _, top := range t.Content() {
		n := t.Node(top)
		frag := NoNodeID
		if n.Kind == NodeFragment {
			frag = top
		}
		out[top] = NoNodeID
		stack := []NodeID{top}
		for len(stack) > 0 {
			id := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			cur := t.Node(id)
			for _, c := range t.Children(cur.Children) {
				out[c] = frag
				stack = append(stack, c)
			}
			for _, c := range t.Children(cur.Else) {
				out[c] = frag
				stack = append(stack, c)
			}
		}
	}
	return out
}

func listLen(n int) uint32 {
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("ast list overflow: %w", err))
	}
	return v
}
