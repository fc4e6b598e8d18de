// Package compile runs one source file through the pipeline:
//
//	lexer → parser → sema → fir
//
// The lexer is lazy, so lexing and parsing happen in one pass. Diagnostics of
// all stages go into a single bag. In aggregate mode validation still runs
// over a tree with parse errors so that reference and cycle problems surface
// in the same run; encoding runs only when no error was reported. In
// fail-fast mode the pipeline stops at the first error.
//
// The package does no I/O and keeps no state between calls.
package compile
