// Package trace is the logging layer of frelc.
//
// Events are spans (begin/end pairs) and points, tagged with a scope. The
// tracer level decides which scopes are written:
//
//   - LevelPhase: driver operations and per-file compiles
//   - LevelDetail: adds pipeline stages (lex, parse, validate, encode)
//   - LevelDebug: everything, including per-diagnostic points
//
// Enable it from the command line:
//
//	frelc compile --trace=- --trace-level=detail templates/
//
// Tracers travel through the driver in a context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopeStage, "parse", parentID)
//	defer span.End("")
package trace
