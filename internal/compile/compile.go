package compile

import (
	"fmt"
	"strconv"

	"frel/internal/ast"
	"frel/internal/buildpipeline"
	"frel/internal/config"
	"frel/internal/diag"
	"frel/internal/fir"
	"frel/internal/lexer"
	"frel/internal/observ"
	"frel/internal/parser"
	"frel/internal/sema"
	"frel/internal/source"
	"frel/internal/trace"
)

type Options struct {
	Config config.Config

	// Optional instrumentation; all may be nil.
	Tracer     trace.Tracer
	ParentSpan uint64
	Timer      *observ.Timer
	Progress   buildpipeline.ProgressSink
	// Display is the file name used in progress events.
	Display string
}

type Result struct {
	Blob fir.Blob
	Tree *ast.Tree
	// Sema is nil when validation did not run (fail-fast stop in parsing).
	Sema *sema.Result
	// Diagnostics holds every diagnostic, sorted by position.
	Diagnostics []diag.Diagnostic
	Warnings    []diag.Diagnostic
	// Stage is the last stage that ran.
	Stage buildpipeline.Stage
}

// File compiles f. On failure the error is a *diag.Error (lex, parse or
// validation errors) or a *fir.EncodeError; the Result is still returned so
// callers can render diagnostics or dump the tree.
func File(f *source.File, opts Options) (*Result, error) {
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	tr := opts.Tracer
	if tr == nil {
		tr = trace.Nop
	}
	failFast := cfg.ErrorMode == config.FailFast

	bag := diag.NewBag(0)
	counter := &diag.CountingReporter{Next: traceReporter{next: diag.BagReporter{Bag: bag}, tracer: tr, parent: opts.ParentSpan}}
	res := &Result{}
	st := stager{opts: &opts, res: res, tracer: tr}

	st.begin(buildpipeline.StageParse)
	lx := lexer.New(f, lexer.Options{Reporter: counter, FailFast: failFast})
	parsed := parser.Parse(lx, parser.Options{Reporter: counter, FailFast: failFast})
	res.Tree = parsed.Tree
	st.end(fmt.Sprintf("%d nodes", parsed.Tree.Nodes.Len()))

	if !(failFast && counter.Errors > 0) {
		st.begin(buildpipeline.StageValidate)
		res.Sema = sema.Check(parsed.Tree, sema.Options{Config: cfg, Reporter: counter})
		st.end(validateNote(res.Sema))
	}

	bag.Sort()
	bag.Dedup()
	res.Diagnostics = bag.Items()
	res.Warnings = bag.Warnings()
	if err := bag.Err(); err != nil {
		st.fail(err)
		return res, err
	}

	st.begin(buildpipeline.StageEncode)
	blob, err := fir.Encode(parsed.Tree, fir.Options{
		MaxBlobSize: uint64(cfg.MaxBlobSize),
		Resolved:    res.Sema.Resolved,
	})
	if err != nil {
		st.fail(err)
		return res, err
	}
	st.end(strconv.Itoa(len(blob)) + " bytes")
	res.Blob = blob
	return res, nil
}

func validateNote(r *sema.Result) string {
	if r == nil {
		return ""
	}
	return fmt.Sprintf("%d fragments, depth %d", len(r.Symbols), r.Depth)
}

// stager keeps timer phases, trace spans and progress events of the current
// stage in step.
type stager struct {
	opts   *Options
	res    *Result
	tracer trace.Tracer
	stage  buildpipeline.Stage
	span   *trace.Span
	stop   func(note string)
}

func (s *stager) begin(stage buildpipeline.Stage) {
	s.stage = stage
	s.res.Stage = stage
	s.stop = s.opts.Timer.Start(string(stage))
	s.span = trace.Begin(s.tracer, trace.ScopeStage, string(stage), s.opts.ParentSpan)
	buildpipeline.Emit(s.opts.Progress, buildpipeline.Event{File: s.opts.Display, Stage: stage, Status: buildpipeline.StatusWorking})
}

func (s *stager) end(note string) {
	if s.span == nil {
		return
	}
	s.stop(note)
	s.span.End(note)
	s.span = nil
}

func (s *stager) fail(err error) {
	s.end("failed")
	buildpipeline.Emit(s.opts.Progress, buildpipeline.Event{File: s.opts.Display, Stage: s.stage, Status: buildpipeline.StatusError, Err: err})
}

// traceReporter mirrors diagnostics into the tracer at node scope.
type traceReporter struct {
	next   diag.Reporter
	tracer trace.Tracer
	parent uint64
}

func (r traceReporter) Report(d diag.Diagnostic) {
	trace.Point(r.tracer, trace.ScopeNode, d.Code.ID(), d.Message, r.parent)
	r.next.Report(d)
}
