// Package diag defines the diagnostic model shared by all compilation stages.
//
// # Purpose
//
//   - Provide deterministic data structures that capture findings produced by
//     the lexer, parser, validator and encoder.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to storage or formatting.
//   - Keep the typed stage errors reachable: every Diagnostic may carry its
//     Cause, and Error exposes them through Unwrap() []error so callers can use
//     errors.As on the aggregate.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – Info, Warning, Error (severity.go).
//   - Code – compact numeric identifier (codes.go); the thousands digit selects
//     the Stage (lex, parse, validate, encode).
//   - Message – short, actionable text.
//   - Primary – the source.Span the finding points at.
//   - Notes – optional secondary spans ("fragment defined here").
//   - Cause – optional typed error from the producing stage.
//
// # Emitting diagnostics
//
// Stages build a Diagnostic with NewError/NewWarning, attach notes and a cause
// with WithNote/WithCause, and hand it to Report. BagReporter collects into a
// Bag, which sorts, deduplicates and converts to an *Error.
//
// Package diag does not perform IO. Rendering for terminals and machine
// formats lives in internal/diagfmt; Render/FormatShort here produce the plain
// single-line form used by the public API and golden tests.
package diag
