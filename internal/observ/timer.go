package observ

import (
	"time"
)

// Phase records the duration of one pipeline stage.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
}

// Timer collects the stage durations of one compile. Not safe for concurrent
// use; the driver keeps one per file. A nil *Timer records nothing.
type Timer struct {
	phases []Phase
	now    func() time.Time
}

func NewTimer() *Timer {
	return &Timer{now: time.Now}
}

// Start opens a phase and returns the function that closes it. Calling stop
// more than once keeps the first duration.
func (t *Timer) Start(name string) (stop func(note string)) {
	if t == nil {
		return func(string) {}
	}
	t.phases = append(t.phases, Phase{Name: name, Start: t.now()})
	idx := len(t.phases) - 1
	closed := false
	return func(note string) {
		if closed {
			return
		}
		closed = true
		p := &t.phases[idx]
		p.Dur, p.Note = t.now().Sub(p.Start), note
	}
}

// Phases returns the recorded phases in start order.
func (t *Timer) Phases() []Phase {
	if t == nil {
		return nil
	}
	return t.phases
}

// PhaseReport: фаза в виде для json/msgpack.
type PhaseReport struct {
	Name       string  `json:"name" msgpack:"name"`
	DurationMS float64 `json:"duration_ms" msgpack:"duration_ms"`
	Note       string  `json:"note,omitempty" msgpack:"note,omitempty"`
}

type Report struct {
	TotalMS float64       `json:"total_ms" msgpack:"total_ms"`
	Phases  []PhaseReport `json:"phases" msgpack:"phases"`
}

// Report converts the phases to milliseconds; TotalMS is their sum.
func (t *Timer) Report() Report {
	var r Report
	var total time.Duration
	for _, p := range t.Phases() {
		total += p.Dur
		r.Phases = append(r.Phases, PhaseReport{Name: p.Name, DurationMS: Millis(p.Dur), Note: p.Note})
	}
	r.TotalMS = Millis(total)
	return r
}

// Millis converts d to fractional milliseconds.
func Millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
