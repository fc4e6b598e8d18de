package dag

import (
	"slices"
)

type Graph struct {
	Edges [][]NodeID // Edges[from] = []to, sorted and unique after Seal
	Indeg []int      // входящие степени для Kahn
}

func NewGraph(idx Index) *Graph {
	n := idx.Len()
	return &Graph{
		Edges: make([][]NodeID, n),
		Indeg: make([]int, n),
	}
}

// AddEdge records from → to. Duplicates are ignored.
func (g *Graph) AddEdge(from, to NodeID) {
	if slices.Contains(g.Edges[int(from)], to) {
		return
	}
	g.Edges[int(from)] = append(g.Edges[int(from)], to)
	g.Indeg[int(to)]++
}

// Seal sorts adjacency lists; call it once all edges are added.
func (g *Graph) Seal() {
	for i := range g.Edges {
		if len(g.Edges[i]) > 1 {
			slices.Sort(g.Edges[i])
		}
	}
}

const (
	white uint8 = iota
	visiting
	done
)

// FindCycles runs a depth-first search from every node in ID order, keeping
// the current path on an explicit stack and a visiting set. Every back edge
// yields one cycle: the path from the edge target to the current node, in
// traversal order. A self edge yields a one-element cycle.
func FindCycles(g *Graph) [][]NodeID {
	type item struct {
		id   NodeID
		next int
	}
	n := len(g.Edges)
	state := make([]uint8, n)
	var cycles [][]NodeID
	stack := make([]item, 0, n)

	for root := range n {
		if state[root] != white {
			continue
		}
		state[root] = visiting
		stack = append(stack[:0], item{id: toID(root)})
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			edges := g.Edges[int(top.id)]
			if top.next == len(edges) {
				state[int(top.id)] = done
				stack = stack[:len(stack)-1]
				continue
			}
			to := edges[top.next]
			top.next++
			switch state[int(to)] {
			case white:
				state[int(to)] = visiting
				stack = append(stack, item{id: to})
			case visiting:
				start := len(stack) - 1
				for stack[start].id != to {
					start--
				}
				cycle := make([]NodeID, 0, len(stack)-start)
				for _, it := range stack[start:] {
					cycle = append(cycle, it.id)
				}
				cycles = append(cycles, cycle)
			}
		}
	}
	return cycles
}
