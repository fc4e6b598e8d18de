package diagfmt

import "frel/internal/source"

// PathMode specifies how file paths are displayed.
type PathMode = source.PathMode

const (
	PathModeAuto     = source.PathAuto
	PathModeAbsolute = source.PathAbsolute
	PathModeRelative = source.PathRelative
	PathModeBasename = source.PathBase
)

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	PathMode  PathMode
	ShowNotes bool
	Max       int // 0: без лимита
}

// JSONOpts configures JSON and msgpack output of diagnostics.
type JSONOpts struct {
	IncludePositions bool // добавить line/col
	PathMode         PathMode
	Max              int // обрезка вывода, не Bag
	IncludeNotes     bool
}

func limit(n, maxItems int) int {
	if maxItems > 0 && maxItems < n {
		return maxItems
	}
	return n
}
