package dag

import (
	"fmt"
	"sort"

	"fortio.org/safecast"
)

type NodeID uint32

// Index maps names to dense IDs. IDs follow sorted name order so that every
// traversal over the index is deterministic.
type Index struct {
	NameToID map[string]NodeID
	IDToName []string
}

// собрать уникальные имена, sort.Strings, раздать ID по порядку
func BuildIndex(names []string) Index {
	uniq := make(map[string]struct{}, len(names))
	for _, name := range names {
		uniq[name] = struct{}{}
	}
	sorted := make([]string, 0, len(uniq))
	for name := range uniq {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)

	nameToID := make(map[string]NodeID, len(sorted))
	for i, name := range sorted {
		nameToID[name] = toID(i)
	}
	return Index{NameToID: nameToID, IDToName: sorted}
}

func (idx Index) Len() int { return len(idx.IDToName) }

// Names converts IDs back to names.
func (idx Index) Names(ids []NodeID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = idx.IDToName[int(id)]
	}
	return out
}

func toID(i int) NodeID {
	id, err := safecast.Conv[NodeID](i)
	if err != nil {
		panic(fmt.Errorf("node id overflow: %w", err))
	}
	return id
}
