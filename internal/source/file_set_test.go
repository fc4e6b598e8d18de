package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAddKeepsEveryVersion(t *testing.T) {
	fs := NewFileSet()
	first := fs.Add("page.frel", []byte("hello world"), 0)
	second := fs.Add("./page.frel", []byte("hello universe"), 0)

	if first != 0 || second != 1 {
		t.Fatalf("ids = %d, %d; want dense 0, 1", first, second)
	}
	if got := fs.Get(second).Path; got != "page.frel" {
		t.Errorf("path not cleaned: %q", got)
	}
	if got := string(fs.Get(first).Content); got != "hello world" {
		t.Errorf("first version overwritten: %q", got)
	}
}

func TestLineStarts(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("a.frel", []byte("a\nb\n")))

	if diff := cmp.Diff([]uint32{0, 2, 4}, f.starts); diff != "" {
		t.Fatalf("line starts (-want +got):\n%s", diff)
	}
	if f.LineCount() != 3 {
		t.Errorf("LineCount = %d, want 3", f.LineCount())
	}
	if f.Flags&FileVirtual == 0 {
		t.Error("virtual flag not set")
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in    string
		want  string
		flags FileFlags
	}{
		{"\xEF\xBB\xBFa\r\nb", "a\nb", FileHadBOM | FileNormalizedCRLF},
		{"a\r\nb\r\n", "a\nb\n", FileNormalizedCRLF},
		{"a\rb", "a\rb", 0},
		{"\xEF\xBB", "\xEF\xBB", 0},
	}
	for _, tt := range tests {
		got, flags := Normalize([]byte(tt.in))
		if string(got) != tt.want || flags != tt.flags {
			t.Errorf("Normalize(%q) = %q, %b; want %q, %b", tt.in, got, flags, tt.want, tt.flags)
		}
	}
}

func TestResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("pos.frel", []byte("ab\ncd\n\nα"))

	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{Line: 1, Col: 1}},
		{2, LineCol{Line: 1, Col: 3}}, // '\n' относится к своей строке
		{3, LineCol{Line: 2, Col: 1}},
		{6, LineCol{Line: 3, Col: 1}},
		{7, LineCol{Line: 4, Col: 1}},
		{9, LineCol{Line: 4, Col: 3}}, // конец файла после двухбайтовой α
	}
	for _, tt := range tests {
		start, _ := fs.Resolve(At(id, tt.off))
		if start != tt.want {
			t.Errorf("Resolve(%d) = %+v, want %+v", tt.off, start, tt.want)
		}
	}
}

func TestLine(t *testing.T) {
	fs := NewFileSet()
	file := fs.Get(fs.AddVirtual("lines.frel", []byte("one\ntwo\nthree")))

	for n, want := range map[uint32]string{0: "", 1: "one", 2: "two", 3: "three", 4: ""} {
		if got := file.Line(n); got != want {
			t.Errorf("Line(%d) = %q, want %q", n, got, want)
		}
	}

	empty := fs.Get(fs.AddVirtual("empty.frel", nil))
	if empty.LineCount() != 1 || empty.Line(1) != "" {
		t.Errorf("empty file: %d lines, first %q", empty.LineCount(), empty.Line(1))
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 4, End: 8}
	b := Span{File: 1, Start: 2, End: 6}
	if got := a.Cover(b); got != (Span{File: 1, Start: 2, End: 8}) {
		t.Errorf("Cover = %v", got)
	}
	if got := a.Cover(Span{File: 2, Start: 0, End: 100}); got != a {
		t.Errorf("Cover across files = %v, want %v", got, a)
	}
	if !a.Cover(b).Contains(a) || a.Contains(b) {
		t.Error("Contains mismatch")
	}
}

func TestLoadNormalizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.frel")
	if err := os.WriteFile(path, []byte("\xEF\xBB\xBFa\r\nb\r\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	file := fs.Get(id)
	if string(file.Content) != "a\nb\n" {
		t.Errorf("content = %q", file.Content)
	}
	if file.Flags != FileHadBOM|FileNormalizedCRLF {
		t.Errorf("flags = %b", file.Flags)
	}

	if _, err := fs.Load(filepath.Join(t.TempDir(), "missing.frel")); !os.IsNotExist(err) {
		t.Errorf("missing file error = %v", err)
	}
}

func TestDisplayPath(t *testing.T) {
	base := t.TempDir()
	fs := NewFileSetWithBase(base)
	inside := fs.Add(filepath.Join(base, "doc", "a.frel"), nil, 0)
	outside := fs.Add(filepath.Join(filepath.Dir(base), "other.frel"), nil, 0)
	virtual := fs.AddVirtual("<stdin>", nil)

	if got := fs.DisplayPath(inside, PathRelative); got != "doc/a.frel" {
		t.Errorf("relative = %q, want doc/a.frel", got)
	}
	if got := fs.DisplayPath(outside, PathRelative); !filepath.IsAbs(filepath.FromSlash(got)) {
		t.Errorf("path outside base should stay absolute, got %q", got)
	}
	if got := fs.DisplayPath(inside, PathBase); got != "a.frel" {
		t.Errorf("base = %q", got)
	}
	if got := fs.DisplayPath(virtual, PathAbsolute); got != "<stdin>" {
		t.Errorf("virtual = %q", got)
	}
}
