package source

import (
	"path/filepath"
	"strings"
)

// PathMode selects how DisplayPath renders a file path.
type PathMode uint8

const (
	// PathAuto keeps relative and short paths, long absolute ones become basenames.
	PathAuto PathMode = iota
	PathAbsolute
	PathRelative
	PathBase
)

const autoPathLimit = 40

// DisplayPath renders the path of file id. Virtual files always show the
// name they were added with.
func (fs *FileSet) DisplayPath(id FileID, mode PathMode) string {
	f := fs.Get(id)
	if f.Flags&FileVirtual != 0 {
		return f.Path
	}
	switch mode {
	case PathAbsolute:
		if abs, err := filepath.Abs(f.Path); err == nil {
			return filepath.ToSlash(abs)
		}
	case PathRelative:
		if rel, ok := relativeTo(f.Path, fs.BaseDir()); ok {
			return rel
		}
	case PathBase:
		return filepath.Base(f.Path)
	case PathAuto:
		if len(f.Path) >= autoPathLimit && filepath.IsAbs(f.Path) {
			return filepath.Base(f.Path)
		}
	}
	return f.Path
}

// relativeTo returns p relative to base; paths that escape base come back
// absolute.
func relativeTo(p, base string) (string, bool) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", false
	}
	absBase, err := filepath.Abs(base)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(absBase, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(abs), true
	}
	return filepath.ToSlash(rel), true
}
