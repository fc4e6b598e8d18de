package diag

import "frel/internal/source"

// Reporter receives diagnostics from a stage.
type Reporter interface {
	Report(d Diagnostic)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(Diagnostic)

func (f ReporterFunc) Report(d Diagnostic) { f(d) }

// Report sends d to r; a nil r drops it.
func Report(r Reporter, d Diagnostic) {
	if r != nil {
		r.Report(d)
	}
}

// BagReporter: адаптер, который пишет в *Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d Diagnostic) {
	if r.Bag != nil {
		r.Bag.Add(d)
	}
}

// CountingReporter forwards to Next and counts errors, so stages can stop
// after the first one in fail-fast mode.
type CountingReporter struct {
	Next   Reporter
	Errors int
}

func (r *CountingReporter) Report(d Diagnostic) {
	if d.Severity >= SevError {
		r.Errors++
	}
	Report(r.Next, d)
}

type dedupKey struct {
	code Code
	sev  Severity
	span source.Span
	msg  string
}

func keyOf(d Diagnostic) dedupKey {
	return dedupKey{code: d.Code, sev: d.Severity, span: d.Primary, msg: d.Message}
}
