package compile_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"frel/internal/buildpipeline"
	"frel/internal/compile"
	"frel/internal/config"
	"frel/internal/diag"
	"frel/internal/fir"
	"frel/internal/observ"
	"frel/internal/sema"
	"frel/internal/source"
	"frel/internal/trace"

	"github.com/google/go-cmp/cmp"
)

func run(t *testing.T, input string, mutate func(*config.Config)) (*compile.Result, error) {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(&cfg)
	}
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.frel", []byte(input))
	return compile.File(fs.Get(id), compile.Options{Config: cfg})
}

func TestCompileHelloName(t *testing.T) {
	res, err := run(t, "Hello {{name}}!", nil)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	prog, err := fir.Decode(res.Blob)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if diff := cmp.Diff([]string{"Hello ", "name", "!"}, prog.Strings); diff != "" {
		t.Fatalf("pool mismatch (-want +got):\n%s", diff)
	}
	kinds := make([]string, 0, len(prog.Nodes))
	for _, n := range prog.Nodes {
		kinds = append(kinds, n.Kind)
	}
	if diff := cmp.Diff([]string{"Text", "Interpolation", "Text"}, kinds); diff != "" {
		t.Fatalf("node kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestCompileEmpty(t *testing.T) {
	res, err := run(t, "", nil)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if len(res.Blob) != fir.HeaderSize {
		t.Fatalf("blob = %d bytes, want header only", len(res.Blob))
	}
}

func TestCompileDeterministic(t *testing.T) {
	input := "{% fragment row %}<td>{{ cell }}</td>{% end %}" +
		"{% for i, r in rows %}{% call row(r) %}{% end %}"
	a, errA := run(t, input, nil)
	b, errB := run(t, input, nil)
	if errA != nil || errB != nil {
		t.Fatalf("compile: %v / %v", errA, errB)
	}
	if !bytes.Equal(a.Blob, b.Blob) {
		t.Fatal("blobs differ between runs")
	}
}

func TestCompileCycle(t *testing.T) {
	_, err := run(t, "{% fragment A %}{% include B %}{% end %}{% fragment B %}{% include A %}{% end %}", nil)
	var cyc *sema.CyclicIncludeError
	if !errors.As(err, &cyc) {
		t.Fatalf("expected CyclicIncludeError, got %v", err)
	}
	joined := strings.Join(cyc.Cycle, ",")
	if !strings.Contains(joined, "A") || !strings.Contains(joined, "B") {
		t.Fatalf("cycle %v does not name both fragments", cyc.Cycle)
	}
	var agg *diag.Error
	if !errors.As(err, &agg) {
		t.Fatalf("expected *diag.Error, got %T", err)
	}
}

func TestCompileDepthGuard(t *testing.T) {
	deep := strings.Repeat("{% if x %}", 5000) + strings.Repeat("{% end %}", 5000)
	_, err := run(t, deep, nil)
	var tooDeep *sema.NestingTooDeepError
	if !errors.As(err, &tooDeep) {
		t.Fatalf("expected NestingTooDeepError, got %v", err)
	}
	if tooDeep.Limit != config.DefaultMaxNestingDepth {
		t.Fatalf("limit = %d", tooDeep.Limit)
	}

	shallow := strings.Repeat("{% if x %}", 10) + strings.Repeat("{% end %}", 10)
	if _, err := run(t, shallow, nil); err != nil {
		t.Fatalf("shallow nesting rejected: %v", err)
	}
}

func TestCompileUnknownReferenceWarning(t *testing.T) {
	input := "{% include footer %}"
	if _, err := run(t, input, nil); err == nil {
		t.Fatal("strict mode must reject unknown references")
	}

	res, err := run(t, input, func(c *config.Config) { c.StrictUnknownRefs = false })
	if err != nil {
		t.Fatalf("lenient compile failed: %v", err)
	}
	if len(res.Warnings) != 1 || res.Warnings[0].Code != diag.SemaUnknownReference {
		t.Fatalf("warnings = %+v", res.Warnings)
	}
	prog, err := fir.Decode(res.Blob)
	if err != nil {
		t.Fatal(err)
	}
	if prog.Flags&fir.FlagUnresolved == 0 {
		t.Fatal("unresolved flag not set")
	}
}

func TestCompileAggregateReportsAllStages(t *testing.T) {
	// a parse error and an unknown reference in one run
	res, err := run(t, "{{ }}{% include nowhere %}", nil)
	var agg *diag.Error
	if !errors.As(err, &agg) {
		t.Fatalf("expected *diag.Error, got %v", err)
	}
	stages := agg.Stages()
	if diff := cmp.Diff([]diag.Stage{diag.StageParse, diag.StageValidate}, stages); diff != "" {
		t.Fatalf("stages mismatch (-want +got):\n%s", diff)
	}
	if res.Blob != nil {
		t.Fatal("blob produced despite errors")
	}
}

func TestCompileFailFast(t *testing.T) {
	res, err := run(t, "{{ }}{{ }}{% include nowhere %}", func(c *config.Config) { c.ErrorMode = config.FailFast })
	var agg *diag.Error
	if !errors.As(err, &agg) {
		t.Fatalf("expected *diag.Error, got %v", err)
	}
	if len(agg.Diagnostics) != 1 {
		t.Fatalf("fail-fast produced %d errors", len(agg.Diagnostics))
	}
	if res.Sema != nil {
		t.Fatal("validation ran after a fail-fast parse error")
	}
}

func TestCompileBlobTooLarge(t *testing.T) {
	_, err := run(t, strings.Repeat("word ", 50), func(c *config.Config) { c.MaxBlobSize = 32 })
	var encErr *fir.EncodeError
	if !errors.As(err, &encErr) || encErr.Kind != fir.PayloadTooLarge {
		t.Fatalf("expected PayloadTooLarge, got %v", err)
	}
	var agg *diag.Error
	if errors.As(err, &agg) {
		t.Fatal("encode errors must be returned alone")
	}
}

func TestCompileInvalidConfig(t *testing.T) {
	_, err := run(t, "x", func(c *config.Config) { c.MaxNestingDepth = 0 })
	if !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestCompileInstrumentation(t *testing.T) {
	var events []buildpipeline.Event
	var traceOut bytes.Buffer
	tr, err := trace.New(trace.Config{Level: trace.LevelDetail, Mode: trace.ModeStream, Output: &traceOut})
	if err != nil {
		t.Fatal(err)
	}
	timer := observ.NewTimer()
	fs := source.NewFileSet()
	id := fs.AddVirtual("page.frel", []byte("{{ a }}"))
	_, err = compile.File(fs.Get(id), compile.Options{
		Config:   config.Default(),
		Tracer:   tr,
		Timer:    timer,
		Display:  "page.frel",
		Progress: buildpipeline.FuncSink(func(e buildpipeline.Event) { events = append(events, e) }),
	})
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, p := range timer.Phases() {
		names = append(names, p.Name)
	}
	if diff := cmp.Diff([]string{"parse", "validate", "encode"}, names); diff != "" {
		t.Fatalf("phases mismatch (-want +got):\n%s", diff)
	}
	if len(events) != 3 || events[2].Stage != buildpipeline.StageEncode {
		t.Fatalf("events = %+v", events)
	}
	if !strings.Contains(traceOut.String(), "validate") {
		t.Fatalf("trace output missing stage span:\n%s", traceOut.String())
	}
}
