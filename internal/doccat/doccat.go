// Package doccat merges a directory of markdown documents into one file.
package doccat

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

const (
	DefaultDir = "doc"
	DefaultOut = "target/compiled.md"
)

// ErrNoSourceDir is returned when the document directory does not exist.
var ErrNoSourceDir = errors.New("doc directory not found")

// Options selects the source directory and the output file. Empty fields
// fall back to DefaultDir and DefaultOut.
type Options struct {
	Dir string
	Out string
}

// Result describes a finished concatenation.
type Result struct {
	Out   string   // absolute output path
	Files []string // sources in output order, relative to Dir
}

// IsMarkdown reports whether path has a .md or .markdown extension, in any case.
func IsMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// Collect walks dir and returns markdown files sorted by case-folded path.
// skip, when non-empty, is an absolute path left out of the result.
func Collect(dir, skip string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !IsMarkdown(path) {
			return nil
		}
		if skip != "" {
			if abs, aerr := filepath.Abs(path); aerr == nil && abs == skip {
				return nil
			}
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortFolded(files)
	return files, nil
}

func sortFolded(paths []string) {
	fold := cases.Fold()
	keys := make(map[string]string, len(paths))
	for _, p := range paths {
		keys[p] = fold.String(filepath.ToSlash(p))
	}
	sort.SliceStable(paths, func(i, j int) bool {
		ki, kj := keys[paths[i]], keys[paths[j]]
		if ki != kj {
			return ki < kj
		}
		return paths[i] < paths[j]
	})
}

// Run concatenates every markdown file under opts.Dir into opts.Out. Each
// section starts with a "# File: <rel>" header; sections are separated by a
// "---" divider. The output file itself is never read as input.
func Run(opts Options) (res *Result, err error) {
	dir := opts.Dir
	if dir == "" {
		dir = DefaultDir
	}
	out := opts.Out
	if out == "" {
		out = DefaultOut
	}
	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		return nil, fmt.Errorf("%w at %s", ErrNoSourceDir, dir)
	}
	outAbs, err := filepath.Abs(out)
	if err != nil {
		return nil, fmt.Errorf("resolve output path: %w", err)
	}

	files, err := Collect(dir, outAbs)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(outAbs), 0o755); err != nil {
		return nil, err
	}
	f, err := os.Create(outAbs)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			res, err = nil, fmt.Errorf("close %s: %w", outAbs, cerr)
		}
	}()

	w := bufio.NewWriter(f)
	res = &Result{Out: outAbs, Files: make([]string, 0, len(files))}
	for i, path := range files {
		rel, rerr := filepath.Rel(dir, path)
		if rerr != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)
		if err := writeSection(w, path, rel, i > 0); err != nil {
			return nil, err
		}
		res.Files = append(res.Files, rel)
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}
	return res, nil
}

func writeSection(w *bufio.Writer, path, rel string, divider bool) error {
	if divider {
		if _, err := w.WriteString("\n\n---\n\n"); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "# File: %s\n\n", rel); err != nil {
		return err
	}
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from walking the doc directory
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	if len(data) == 0 || data[len(data)-1] != '\n' {
		return w.WriteByte('\n')
	}
	return nil
}
