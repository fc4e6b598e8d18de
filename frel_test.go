package frel_test

import (
	"errors"
	"strings"
	"testing"

	"frel"
	"frel/internal/diag"
	"frel/internal/fir"
	"frel/internal/sema"
)

func TestCompile(t *testing.T) {
	res, err := frel.Compile("Hello {{name}}!", frel.DefaultConfig())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	prog, err := fir.Decode(res.Blob)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if prog.Records != 3 || len(prog.Strings) != 3 {
		t.Fatalf("records=%d strings=%v", prog.Records, prog.Strings)
	}
}

func TestCompileDedup(t *testing.T) {
	res, err := frel.Compile("{{x}}{{x}}", frel.DefaultConfig())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	prog, err := fir.Decode(res.Blob)
	if err != nil {
		t.Fatal(err)
	}
	if len(prog.Strings) != 1 || prog.Records != 2 {
		t.Fatalf("strings=%v records=%d", prog.Strings, prog.Records)
	}
}

func TestCompileKnownFragments(t *testing.T) {
	cfg := frel.DefaultConfig()
	cfg.KnownFragments = []string{"header"}
	if _, err := frel.Compile("{% include header %}{% call header() %}", cfg); err != nil {
		t.Fatalf("Compile: %v", err)
	}
}

func TestCompileErrorNoBlob(t *testing.T) {
	res, err := frel.Compile("{% include missing %}", frel.DefaultConfig())
	if res.Blob != nil {
		t.Fatal("blob returned with error")
	}
	var unknown *sema.UnknownReferenceError
	if !errors.As(err, &unknown) || unknown.Name != "missing" {
		t.Fatalf("expected UnknownReferenceError, got %v", err)
	}
	var agg *diag.Error
	if !errors.As(err, &agg) {
		t.Fatalf("expected *diag.Error, got %T", err)
	}
}

func TestCompileEmptyName(t *testing.T) {
	cfg := frel.DefaultConfig()
	cfg.Name = ""
	if _, err := frel.Compile("", cfg); err != nil {
		t.Fatalf("Compile: %v", err)
	}
}

func TestCompileLongMemberChainFails(t *testing.T) {
	res, err := frel.Compile("{{ a"+strings.Repeat(".b", 100_000)+" }}", frel.DefaultConfig())
	if res.Blob != nil {
		t.Fatal("blob returned with error")
	}
	var agg *diag.Error
	if !errors.As(err, &agg) {
		t.Fatalf("expected *diag.Error, got %v", err)
	}
	if agg.Diagnostics[0].Code != diag.SynExprTooDeep {
		t.Fatalf("first code = %s, want SynExprTooDeep", agg.Diagnostics[0].Code.ID())
	}
}
