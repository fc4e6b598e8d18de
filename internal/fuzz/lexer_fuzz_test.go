package fuzztests

import (
	"testing"

	"frel/internal/diag"
	"frel/internal/lexer"
	"frel/internal/source"
	"frel/internal/token"
)

func FuzzLexerTokens(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clamp(input, maxFuzzInput)

		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.frel", input))
		bag := diag.NewBag(64)
		lx := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})

		size := uint32(len(file.Content))
		prev := uint32(0)
		for i := 0; ; i++ {
			if i > 2*len(input)+2 {
				t.Fatalf("lexer produced more tokens than input bytes")
			}
			tok := lx.Next()
			if tok.Span.Start < prev || tok.Span.End < tok.Span.Start || tok.Span.End > size {
				t.Fatalf("bad span %v after %d (size %d)", tok.Span, prev, size)
			}
			prev = tok.Span.End
			if tok.Kind == token.EOF {
				break
			}
		}
	})
}
