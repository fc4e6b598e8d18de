package trace

import (
	"sync/atomic"
	"time"
)

var (
	seqCounter  atomic.Uint64
	spanCounter atomic.Uint64
)

// nextSeq stamps events in the order tracers receive them.
func nextSeq() uint64 { return seqCounter.Add(1) }

// Span is an open begin/end pair. The zero-cost form returned for filtered
// scopes ignores every call.
type Span struct {
	tracer  Tracer
	base    Event
	started time.Time
	extra   map[string]string
}

// Begin emits a begin event for name under parent (0 for a root span).
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return &Span{}
	}
	s := &Span{
		tracer:  t,
		started: time.Now(),
		base: Event{
			Scope:    scope,
			SpanID:   spanCounter.Add(1),
			ParentID: parent,
			Name:     name,
		},
	}
	ev := s.base
	ev.Time = s.started
	ev.Kind = KindSpanBegin
	t.Emit(&ev)
	return s
}

// Child begins a span nested in s, with s's tracer.
func (s *Span) Child(scope Scope, name string) *Span {
	if s == nil || s.tracer == nil {
		return &Span{}
	}
	return Begin(s.tracer, scope, name, s.base.SpanID)
}

// WithExtra attaches a key/value pair to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if s == nil || s.tracer == nil {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string, 2)
	}
	s.extra[key] = value
	return s
}

// End emits the end event and returns the span duration.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.tracer == nil {
		return 0
	}
	now := time.Now()
	ev := s.base
	ev.Time = now
	ev.Kind = KindSpanEnd
	ev.Detail = detail
	ev.Extra = s.extra
	ev.Elapsed = now.Sub(s.started)
	s.tracer.Emit(&ev)
	return ev.Elapsed
}

// ID returns the span ID, 0 for an inert span.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.base.SpanID
}

// Point emits an instant event under parent.
func Point(t Tracer, scope Scope, name, detail string, parent uint64) {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return
	}
	t.Emit(&Event{
		Time:     time.Now(),
		Kind:     KindPoint,
		Scope:    scope,
		ParentID: parent,
		Name:     name,
		Detail:   detail,
	})
}
