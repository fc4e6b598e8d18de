package fuzztests

import (
	"context"
	"testing"
	"time"

	"frel/internal/diag"
	"frel/internal/lexer"
	"frel/internal/parser"
	"frel/internal/source"
	"frel/internal/testkit"
)

// parseTimeout bounds one parse; exceeding it means the parser looped.
const parseTimeout = 5 * time.Second

func FuzzParserBuildsTree(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clamp(input, maxFuzzInput)

		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.frel", input))
		bag := diag.NewBag(128)
		reporter := diag.BagReporter{Bag: bag}
		lx := lexer.New(file, lexer.Options{Reporter: reporter})
		res := parser.Parse(lx, parser.Options{Reporter: reporter})

		if err := testkit.CheckTreeInvariants(res.Tree, file); err != nil {
			t.Fatalf("tree invariants: %v", err)
		}
	})
}

// FuzzParserNoHang runs the parser under a timeout to catch recovery loops.
func FuzzParserNoHang(f *testing.F) {
	addCorpusSeeds(f)
	f.Add([]byte("{% if a %}{% for x in %}{{ 1 + }}"))
	f.Add([]byte("{% end %}{% else %}{% bogus %}"))
	f.Add([]byte("{{{{{{{{"))
	f.Add([]byte("{% %}{% %}{% %}"))

	f.Fuzz(func(t *testing.T, input []byte) {
		input = clamp(input, maxFuzzInput)

		ctx, cancel := context.WithTimeout(context.Background(), parseTimeout)
		defer cancel()

		done := make(chan struct{})
		go func() {
			defer close(done)
			fs := source.NewFileSet()
			file := fs.Get(fs.AddVirtual("fuzz.frel", input))
			reporter := diag.BagReporter{Bag: diag.NewBag(128)}
			lx := lexer.New(file, lexer.Options{Reporter: reporter, FailFast: len(input)%2 == 1})
			_ = parser.Parse(lx, parser.Options{Reporter: reporter})
		}()

		select {
		case <-done:
		case <-ctx.Done():
			t.Fatalf("parser timed out after %v on %q", parseTimeout, input)
		}
	})
}
