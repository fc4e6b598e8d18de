package diag

import (
	"fmt"
	"strings"
)

// Error is the aggregate returned by compilation when at least one
// error-severity diagnostic was produced.
type Error struct {
	Diagnostics []Diagnostic
}

func (e *Error) Error() string {
	if e == nil || len(e.Diagnostics) == 0 {
		return "compilation failed"
	}
	first := e.Diagnostics[0]
	msg := fmt.Sprintf("%s error %s: %s", first.Stage(), first.Code.ID(), first.Message)
	if n := len(e.Diagnostics) - 1; n > 0 {
		msg += fmt.Sprintf(" (and %d more)", n)
	}
	return msg
}

// Unwrap exposes the typed causes so errors.As can reach stage errors.
func (e *Error) Unwrap() []error {
	if e == nil {
		return nil
	}
	var out []error
	for _, d := range e.Diagnostics {
		if d.Cause != nil {
			out = append(out, d.Cause)
		}
	}
	return out
}

// Stages returns the distinct stages in diagnostic order.
func (e *Error) Stages() []Stage {
	var out []Stage
	seen := map[Stage]bool{}
	for _, d := range e.Diagnostics {
		st := d.Stage()
		if !seen[st] {
			seen[st] = true
			out = append(out, st)
		}
	}
	return out
}

// Summary renders one line per diagnostic without source positions.
func (e *Error) Summary() string {
	var sb strings.Builder
	for i, d := range e.Diagnostics {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "%s %s %s: %s", d.Stage(), severityLabel(d.Severity), d.Code.ID(), d.Message)
	}
	return sb.String()
}
