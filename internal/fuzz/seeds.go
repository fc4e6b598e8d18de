package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB
	maxFuzzInput = 1 << 16
)

var inlineSeeds = []string{
	"",
	"plain text",
	"Hello {{name}}!",
	"{{ user.name | x }}",
	"{% if a and not b %}x{% elif c %}y{% else %}z{% end %}",
	"{% for k, v in items %}{{ k }}={{ v }}{% end %}",
	"{% fragment card %}<b>{{ title }}</b>{% end %}{% include card %}",
	"{% call badge(\"new\", 3, true, nil) %}",
	"{# comment #}{{ \"esc\\\"aped\" }}",
	"{% if %}{{ }}{% end",
	"{{ a.b(c)(d).e }}",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range inlineSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.frel файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".frel" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clamp(src, maxSeedBytes))
		return nil
	})
}

// clamp copies input and cuts it to limit bytes; the fuzzer reuses its buffers.
func clamp(input []byte, limit int) []byte {
	if len(input) > limit {
		input = input[:limit]
	}
	return append([]byte(nil), input...)
}
