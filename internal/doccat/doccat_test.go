package doccat

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeDoc(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestRunOrdersByFoldedPath(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "b.md", "beta\n")
	writeDoc(t, dir, "a.markdown", "alpha")
	writeDoc(t, dir, "Guide/C.MD", "gamma\n")
	writeDoc(t, dir, "notes.txt", "skip me")
	out := filepath.Join(t.TempDir(), "nested", "all.md")

	res, err := Run(Options{Dir: dir, Out: out})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"a.markdown", "b.md", "Guide/C.MD"}, res.Files); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	want := "# File: a.markdown\n\nalpha\n" +
		"\n\n---\n\n# File: b.md\n\nbeta\n" +
		"\n\n---\n\n# File: Guide/C.MD\n\ngamma\n"
	if diff := cmp.Diff(want, string(data)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRunSkipsOutputInsideDir(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "a.md", "a\n")
	writeDoc(t, dir, "compiled.md", "stale output\n")
	out := filepath.Join(dir, "compiled.md")

	res, err := Run(Options{Dir: dir, Out: out})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Files) != 1 || res.Files[0] != "a.md" {
		t.Fatalf("files = %v", res.Files)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "stale") {
		t.Fatalf("output included itself:\n%s", data)
	}
}

func TestRunMissingDir(t *testing.T) {
	_, err := Run(Options{Dir: filepath.Join(t.TempDir(), "doc"), Out: filepath.Join(t.TempDir(), "x.md")})
	if !errors.Is(err, ErrNoSourceDir) {
		t.Fatalf("expected ErrNoSourceDir, got %v", err)
	}
}

func TestRunEmptyDir(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.md")
	res, err := Run(Options{Dir: t.TempDir(), Out: out})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Files) != 0 {
		t.Fatalf("files = %v", res.Files)
	}
	if st, err := os.Stat(out); err != nil || st.Size() != 0 {
		t.Fatalf("expected empty output file: %v", err)
	}
}

func TestRunUnreadableSection(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "a.md", "a\n")
	if err := os.Symlink(filepath.Join(dir, "missing"), filepath.Join(dir, "b.md")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	out := filepath.Join(t.TempDir(), "out.md")

	res, err := Run(Options{Dir: dir, Out: out})
	if err == nil {
		t.Fatal("expected error for dangling section")
	}
	if res != nil {
		t.Fatalf("result returned with error: %+v", res)
	}
	// the output handle is released on the error path
	if err := os.Remove(out); err != nil {
		t.Fatalf("remove output: %v", err)
	}
}

func TestIsMarkdown(t *testing.T) {
	for path, want := range map[string]bool{
		"a.md": true, "b.MarkDown": true, "c.mdx": false, "README": false, "d.md.txt": false,
	} {
		if got := IsMarkdown(path); got != want {
			t.Errorf("IsMarkdown(%q) = %v", path, got)
		}
	}
}
