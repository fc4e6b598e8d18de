package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunExitCodes(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "b.md"), []byte("b\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "a.markdown"), []byte("a\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(t.TempDir(), "compiled.md")

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"out flag without path", []string{"--dir", dir, "-o"}, 2},
		{"long out flag without path", []string{"--dir", dir, "--out"}, 2},
		{"too many args", []string{"--dir", dir, "x.md", "y.md"}, 2},
		{"argument and flag", []string{"--dir", dir, "-o", out, "x.md"}, 2},
		{"missing dir", []string{"--dir", filepath.Join(dir, "nope"), out}, 1},
		{"positional output", []string{"--dir", dir, out}, 0},
		{"flag output", []string{"--dir", dir, "--out", out}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := run(tt.args); got != tt.want {
				t.Fatalf("run(%v) = %d, want %d", tt.args, got, tt.want)
			}
		})
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	if strings.Index(text, "# File: a.markdown") > strings.Index(text, "# File: b.md") {
		t.Fatalf("a.markdown should precede b.md:\n%s", text)
	}
}
