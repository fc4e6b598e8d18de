package source

import (
	"sort"
)

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32
	// FileFlags records how the content was obtained and normalized.
	FileFlags uint8
)

const (
	// FileVirtual marks content added from memory rather than read from disk.
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
)

// LineCol is a 1-based position; Col counts bytes.
type LineCol struct {
	Line uint32
	Col  uint32
}

// File is one normalized fragment source.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	Flags   FileFlags

	// starts[i]: смещение первого байта строки i+1; starts[0] == 0.
	starts []uint32
}

func newFile(id FileID, path string, content []byte, flags FileFlags) *File {
	starts := make([]uint32, 1, 1+len(content)/32)
	for i, b := range content {
		if b == '\n' {
			starts = append(starts, uint32(i+1)) //nolint:gosec // FileSet rejects content over 4GiB
		}
	}
	return &File{ID: id, Path: path, Content: content, Flags: flags, starts: starts}
}

// LineCount is the number of lines; a trailing newline opens an empty last line.
func (f *File) LineCount() int { return len(f.starts) }

// Position maps a byte offset to its line and column. Offsets past the end
// land on the last line.
func (f *File) Position(off uint32) LineCol {
	// первая строка, начинающаяся после off, минус один
	i := sort.Search(len(f.starts), func(i int) bool { return f.starts[i] > off }) - 1
	return LineCol{Line: uint32(i + 1), Col: off - f.starts[i] + 1} //nolint:gosec // i < len(starts)
}

// Line returns line n (1-based) without its newline, or "" when out of range.
func (f *File) Line(n uint32) string {
	if n == 0 || int(n) > len(f.starts) {
		return ""
	}
	start := f.starts[n-1]
	end := uint32(len(f.Content)) //nolint:gosec // bounded by FileSet
	if int(n) < len(f.starts) {
		end = f.starts[n] - 1
	}
	return string(f.Content[start:end])
}
