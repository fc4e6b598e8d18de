package sema

import (
	"fmt"
	"slices"

	"frel/internal/ast"
	"frel/internal/config"
	"frel/internal/dag"
	"frel/internal/diag"
	"frel/internal/source"
)

// RootName is the graph vertex of document-level content. It cannot clash
// with a fragment name because it is not an identifier.
const RootName = "<document>"

type Options struct {
	Config   config.Config
	Reporter diag.Reporter
}

// Symbol is one entry of the fragment table.
type Symbol struct {
	Name string
	// Node is the defining fragment; NoNodeID for caller-supplied names.
	Node ast.NodeID
}

func (s Symbol) External() bool { return !s.Node.IsValid() }

type Result struct {
	Symbols map[string]Symbol
	// Resolved holds every include/call node whose target exists.
	Resolved   map[ast.NodeID]bool
	Unresolved int
	Index      dag.Index
	Graph      *dag.Graph
	Topo       *dag.Topo
	Cycles     [][]string
	// Depth is the largest combined nesting depth over the document and all
	// fragments, excluding fragments on a cycle.
	Depth    uint32
	Errors   int
	Warnings int
}

// OK reports whether encoding may proceed.
func (r *Result) OK() bool { return r.Errors == 0 }

type checker struct {
	tree    *ast.Tree
	opts    Options
	res     *Result
	stopped bool
	// owner[id] is the fragment that contains node id (NoNodeID: document).
	owner map[ast.NodeID]ast.NodeID
	// sites[from][to] is the first reference creating the edge.
	sites map[[2]dag.NodeID]source.Span
}

// Check validates tree against opts. It never modifies the tree.
func Check(tree *ast.Tree, opts Options) *Result {
	c := &checker{
		tree:  tree,
		opts:  opts,
		res:   &Result{Symbols: map[string]Symbol{}, Resolved: map[ast.NodeID]bool{}},
		owner: tree.Enclosing(),
		sites: map[[2]dag.NodeID]source.Span{},
	}
	c.collectSymbols()
	c.resolveRefs()
	c.buildGraph()
	c.checkCycles()
	c.checkDepth()
	return c.res
}

func (c *checker) failFast() bool {
	return c.opts.Config.ErrorMode == config.FailFast
}

func (c *checker) report(sev diag.Severity, code diag.Code, sp source.Span, msg string, cause error, notes ...diag.Note) {
	if c.stopped {
		return
	}
	if sev == diag.SevError {
		c.res.Errors++
		if c.failFast() {
			c.stopped = true
		}
	} else {
		c.res.Warnings++
	}
	d := diag.New(sev, code, sp, msg).WithCause(cause)
	d.Notes = append(d.Notes, notes...)
	diag.Report(c.opts.Reporter, d)
}

func (c *checker) collectSymbols() {
	for _, name := range c.opts.Config.KnownFragments {
		c.res.Symbols[name] = Symbol{Name: name}
	}
	for _, id := range c.tree.Content() {
		n := c.tree.Node(id)
		if n.Kind != ast.NodeFragment || n.Name == "" {
			continue
		}
		prev, exists := c.res.Symbols[n.Name]
		if exists && !prev.External() {
			prevSpan := c.tree.Node(prev.Node).NameSpan
			c.report(diag.SevError, diag.SemaDuplicateFragment, n.NameSpan,
				fmt.Sprintf("fragment %q is already defined", n.Name),
				&DuplicateFragmentError{Name: n.Name, Span: n.NameSpan, Previous: prevSpan},
				diag.Note{Span: prevSpan, Msg: "previous definition is here"})
			continue
		}
		// local definitions shadow caller-supplied names
		c.res.Symbols[n.Name] = Symbol{Name: n.Name, Node: id}
	}
}

func (c *checker) resolveRefs() {
	strict := c.opts.Config.StrictUnknownRefs
	c.tree.Walk(func(id ast.NodeID, n *ast.Node) bool {
		if !n.IsReference() {
			return true
		}
		if _, ok := c.res.Symbols[n.Name]; ok {
			c.res.Resolved[id] = true
			return true
		}
		c.res.Unresolved++
		sev := diag.SevWarning
		if strict {
			sev = diag.SevError
		}
		c.report(sev, diag.SemaUnknownReference, n.NameSpan,
			fmt.Sprintf("unknown fragment %q", n.Name),
			&UnknownReferenceError{Name: n.Name, Span: n.NameSpan, Strict: strict})
		return true
	})
}

func (c *checker) ownerName(id ast.NodeID) string {
	if frag := c.owner[id]; frag.IsValid() {
		return c.tree.Node(frag).Name
	}
	return RootName
}

func (c *checker) buildGraph() {
	names := make([]string, 0, len(c.res.Symbols)+1)
	names = append(names, RootName)
	for name := range c.res.Symbols {
		names = append(names, name)
	}
	idx := dag.BuildIndex(names)
	g := dag.NewGraph(idx)
	c.tree.Walk(func(id ast.NodeID, n *ast.Node) bool {
		if !c.res.Resolved[id] {
			return true
		}
		from, ok := idx.NameToID[c.ownerName(id)]
		if !ok {
			// owner is a duplicate definition that never entered the table
			return true
		}
		to := idx.NameToID[n.Name]
		key := [2]dag.NodeID{from, to}
		if _, seen := c.sites[key]; !seen {
			c.sites[key] = n.NameSpan
		}
		g.AddEdge(from, to)
		return true
	})
	g.Seal()
	c.res.Index = idx
	c.res.Graph = g
	c.res.Topo = dag.ToposortKahn(g)
}

func (c *checker) checkCycles() {
	if !c.res.Topo.Cyclic {
		return
	}
	for _, cycle := range dag.FindCycles(c.res.Graph) {
		names := c.res.Index.Names(cycle)
		c.res.Cycles = append(c.res.Cycles, names)
		closing := [2]dag.NodeID{cycle[len(cycle)-1], cycle[0]}
		sp := c.sites[closing]
		c.report(diag.SevError, diag.SemaCyclicInclude, sp,
			"cyclic include: "+formatCycle(names),
			&CyclicIncludeError{Cycle: slices.Clone(names), Span: sp})
	}
}
