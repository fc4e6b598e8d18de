package trace

import (
	"strconv"
	"sync"
	"time"
)

// Heartbeat emits a driver-scope event every interval while a long compile
// runs, so a stalled run is visible in the trace.
type Heartbeat struct {
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// StartHeartbeat starts emitting to t. status, if not nil, fills the event
// detail (for example "3/10 files"). It returns nil when t is disabled or
// interval is not positive; Stop on nil is a no-op.
func StartHeartbeat(t Tracer, interval time.Duration, status func() string) *Heartbeat {
	if t == nil || !t.Enabled() || interval <= 0 {
		return nil
	}
	h := &Heartbeat{stop: make(chan struct{}), done: make(chan struct{})}
	go h.loop(t, interval, status)
	return h
}

func (h *Heartbeat) loop(t Tracer, interval time.Duration, status func() string) {
	defer close(h.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for beat := 1; ; beat++ {
		select {
		case <-h.stop:
			return
		case now := <-ticker.C:
			detail := "#" + strconv.Itoa(beat)
			if status != nil {
				detail += " " + status()
			}
			t.Emit(&Event{Time: now, Kind: KindHeartbeat, Scope: ScopeDriver, Name: "heartbeat", Detail: detail})
		}
	}
}

// Stop ends the heartbeat and waits for the goroutine to exit.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.stopOnce.Do(func() { close(h.stop) })
	<-h.done
}
