package driver

import (
	"frel/internal/compile"
	"frel/internal/config"
	"frel/internal/sema"
	"frel/internal/source"
)

// DepsResult describes the reference graph of one file.
type DepsResult struct {
	FileSet *source.FileSet
	Compile *compile.Result
	// Batches are Kahn layers reversed: every name depends only on names in
	// earlier batches. Vertices nobody references (the document among them)
	// are in the last batch; vertices on a cycle are absent.
	Batches [][]string
	// Edges maps each vertex to the names it references.
	Edges  map[string][]string
	Cycles [][]string
}

// Deps validates path and reports its fragment dependency graph. The
// returned error is the compile error, if any; the graph is filled whenever
// validation ran.
func Deps(path string, cfg config.Config) (*DepsResult, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	res, cerr := compile.File(fs.Get(id), compile.Options{Config: cfg})
	if res == nil {
		return nil, cerr
	}
	out := &DepsResult{FileSet: fs, Compile: res, Edges: map[string][]string{}}
	if res.Sema == nil || res.Sema.Graph == nil {
		return out, cerr
	}
	s := res.Sema
	names := s.Index.IDToName
	for from, tos := range s.Graph.Edges {
		for _, to := range tos {
			out.Edges[names[from]] = append(out.Edges[names[from]], names[to])
		}
	}
	if s.Topo != nil {
		// Kahn runs over reference edges, so referrers come first; reverse
		// to list dependencies before their users.
		for i := len(s.Topo.Batches) - 1; i >= 0; i-- {
			out.Batches = append(out.Batches, s.Index.Names(s.Topo.Batches[i]))
		}
	}
	out.Cycles = s.Cycles
	return out, cerr
}

// RootVertex is the name of document-level content in DepsResult.
const RootVertex = sema.RootName
