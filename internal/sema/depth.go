package sema

import (
	"fmt"
	"slices"

	"frel/internal/ast"
	"frel/internal/dag"
	"frel/internal/diag"
	"frel/internal/source"
)

// depthItem is one node that contributes to its region's depth.
type depthItem struct {
	rel    uint32 // depth relative to the region body
	target dag.NodeID
	ref    bool
	span   source.Span
}

// checkDepth computes, for the document and every fragment, the deepest
// combined nesting reachable from it:
//
//	if/for/fragment block  rel + 1
//	include/call           rel + 1 + depth(target)
//
// Regions are processed in reverse topological order so that every target is
// known before its users. Fragments on a cycle are skipped.
func (c *checker) checkDepth() {
	if c.stopped {
		return
	}
	idx := c.res.Index
	items := make([][]depthItem, idx.Len())
	c.tree.Walk(func(id ast.NodeID, n *ast.Node) bool {
		owner := c.owner[id]
		region, ok := idx.NameToID[c.ownerName(id)]
		if !ok || (owner.IsValid() && c.res.Symbols[c.tree.Node(owner).Name].Node != owner) {
			return true
		}
		var base uint32
		if owner.IsValid() {
			base = c.tree.Node(owner).Depth + 1
		}
		rel := n.Depth - base
		switch {
		case n.Kind == ast.NodeIf || n.Kind == ast.NodeFor:
			items[region] = append(items[region], depthItem{rel: rel, span: n.Span})
		case n.IsReference() && c.res.Resolved[id]:
			items[region] = append(items[region], depthItem{rel: rel, target: idx.NameToID[n.Name], ref: true, span: n.Span})
		}
		return true
	})

	depth := make([]uint32, idx.Len())
	where := make([]source.Span, idx.Len())
	order := slices.Clone(c.res.Topo.Order)
	slices.Reverse(order)
	for _, region := range order {
		for _, it := range items[region] {
			d := it.rel + 1
			if it.ref {
				d += depth[it.target]
			}
			if d > depth[region] {
				depth[region] = d
				where[region] = it.span
			}
		}
	}

	if len(order) == 0 {
		return
	}
	worst := order[0]
	for _, region := range order[1:] {
		if depth[region] > depth[worst] {
			worst = region
		}
	}
	c.res.Depth = depth[worst]
	limit := c.opts.Config.MaxNestingDepth
	if c.res.Depth <= limit {
		return
	}
	sp := where[worst]
	c.report(diag.SevError, diag.SemaNestingTooDeep, sp,
		fmt.Sprintf("nesting depth %d exceeds the limit of %d", c.res.Depth, limit),
		&NestingTooDeepError{Limit: limit, Actual: c.res.Depth, Span: sp})
}
