package trace

import (
	"io"
	"sync"
)

// RingTracer keeps the most recent events in memory so a failed compile can
// be explained after the fact without streaming a full trace.
type RingTracer struct {
	mu    sync.Mutex
	buf   []Event
	next  int // slot of the next write
	n     int // stored events, at most len(buf)
	level Level
}

// NewRingTracer keeps up to capacity events (4096 when capacity <= 0).
func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = 4096
	}
	return &RingTracer{buf: make([]Event, capacity), level: level}
}

func (t *RingTracer) Emit(ev *Event) {
	if !t.level.ShouldEmit(ev.Scope) && ev.Kind != KindHeartbeat {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf[t.next] = *ev
	t.buf[t.next].Seq = nextSeq()
	t.next = (t.next + 1) % len(t.buf)
	if t.n < len(t.buf) {
		t.n++
	}
}

// Len returns the number of stored events.
func (t *RingTracer) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.n
}

// Snapshot returns the stored events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	return t.Tail(0)
}

// Tail returns the last k stored events, oldest first; k <= 0 means all.
func (t *RingTracer) Tail(k int) []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	if k <= 0 || k > t.n {
		k = t.n
	}
	out := make([]Event, k)
	start := t.next - k
	if start < 0 {
		start += len(t.buf)
	}
	for i := range out {
		out[i] = t.buf[(start+i)%len(t.buf)]
	}
	return out
}

// Dump writes every stored event to w.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	for _, ev := range t.Snapshot() {
		if _, err := w.Write(FormatEvent(&ev, format)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error  { return nil }
func (t *RingTracer) Close() error  { return nil }
func (t *RingTracer) Level() Level  { return t.level }
func (t *RingTracer) Enabled() bool { return t.level > LevelOff }
