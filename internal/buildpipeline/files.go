package buildpipeline

import (
	"path/filepath"
	"sort"
	"strings"
)

// DisplayNames turns file paths into stable, slash-separated names relative
// to baseDir. Duplicates are dropped and the result is sorted.
func DisplayNames(files []string, baseDir string) []string {
	if len(files) == 0 {
		return nil
	}
	base := strings.TrimSpace(baseDir)
	if base != "" {
		if abs, err := filepath.Abs(base); err == nil {
			base = abs
		}
	}
	out := make([]string, 0, len(files))
	seen := make(map[string]struct{}, len(files))
	for _, file := range files {
		if file == "" {
			continue
		}
		name := DisplayName(file, base)
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// DisplayName returns file relative to an absolute base when it lies under
// it, otherwise the cleaned path.
func DisplayName(file, base string) string {
	path := filepath.Clean(file)
	if base != "" {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		if rel, err := filepath.Rel(base, path); err == nil && rel != "." && !strings.HasPrefix(rel, "..") {
			path = rel
		}
	}
	return filepath.ToSlash(path)
}
