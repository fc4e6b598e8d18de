package source

import (
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/safecast"
)

// FileSet owns the sources of one run and resolves spans against them.
// FileIDs are dense indices in insertion order.
type FileSet struct {
	files   []*File
	baseDir string // для PathRelative; пусто: cwd
}

func NewFileSet() *FileSet {
	return &FileSet{}
}

// NewFileSetWithBase returns a FileSet whose relative paths are computed
// against baseDir.
func NewFileSetWithBase(baseDir string) *FileSet {
	return &FileSet{baseDir: baseDir}
}

func (fs *FileSet) SetBaseDir(dir string) { fs.baseDir = dir }

// BaseDir returns the configured base directory, falling back to cwd.
func (fs *FileSet) BaseDir() string {
	if fs.baseDir != "" {
		return fs.baseDir
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

func (fs *FileSet) Len() int { return len(fs.files) }

// Add stores already normalized content under a fresh FileID. Adding the same
// path twice yields two independent files.
func (fs *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	if _, err := safecast.Conv[uint32](len(content)); err != nil {
		panic(fmt.Errorf("source %s does not fit 32-bit offsets: %w", path, err))
	}
	n, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("too many source files: %w", err))
	}
	id := FileID(n)
	fs.files = append(fs.files, newFile(id, filepath.ToSlash(filepath.Clean(path)), content, flags))
	return id
}

// Load reads path from disk and adds its normalized content.
func (fs *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	content, flags := Normalize(raw)
	return fs.Add(path, content, flags), nil
}

// AddVirtual adds in-memory content, normalized like Load.
func (fs *FileSet) AddVirtual(name string, content []byte) FileID {
	content, flags := Normalize(content)
	return fs.Add(name, content, flags|FileVirtual)
}

func (fs *FileSet) Get(id FileID) *File {
	return fs.files[id]
}

// Resolve converts a span into start and end positions.
func (fs *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fs.files[span.File]
	return f.Position(span.Start), f.Position(span.End)
}
