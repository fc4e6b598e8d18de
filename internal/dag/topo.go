package dag

import (
	"slices"
)

// Topo is the result of ToposortKahn.
type Topo struct {
	Order   []NodeID   // sources before targets, batch by batch
	Batches [][]NodeID // layers: a vertex sits one layer below its deepest source
	Cyclic  bool
	Cycles  []NodeID // vertices never released because they lie on or behind a cycle
}

// ToposortKahn sorts g with Kahn's algorithm. A vertex's layer is the length
// of the longest path reaching it; ids inside a layer are ascending, so the
// result does not depend on insertion order.
func ToposortKahn(g *Graph) *Topo {
	n := len(g.Edges)
	indeg := slices.Clone(g.Indeg)
	layer := make([]int, n)

	queue := make([]NodeID, 0, n)
	for i, d := range indeg {
		if d == 0 {
			queue = append(queue, toID(i))
		}
	}
	depth := 0
	for head := 0; head < len(queue); head++ {
		from := queue[head]
		depth = max(depth, layer[from]+1)
		for _, to := range g.Edges[from] {
			layer[to] = max(layer[to], layer[from]+1)
			if indeg[to]--; indeg[to] == 0 {
				queue = append(queue, to)
			}
		}
	}

	topo := &Topo{Batches: make([][]NodeID, depth)}
	for _, id := range queue {
		topo.Batches[layer[id]] = append(topo.Batches[layer[id]], id)
	}
	topo.Order = make([]NodeID, 0, len(queue))
	for _, b := range topo.Batches {
		slices.Sort(b)
		topo.Order = append(topo.Order, b...)
	}

	if len(queue) < n {
		topo.Cyclic = true
		for i, d := range indeg {
			if d > 0 {
				topo.Cycles = append(topo.Cycles, toID(i))
			}
		}
	}
	return topo
}
