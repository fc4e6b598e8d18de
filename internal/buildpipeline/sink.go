package buildpipeline

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
)

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// FuncSink adapts a function to ProgressSink.
type FuncSink func(Event)

func (f FuncSink) OnEvent(evt Event) {
	if f != nil {
		f(evt)
	}
}

// LineSink prints terminal events (done/error) one per line. It is the
// non-interactive counterpart of the progress UI.
type LineSink struct {
	mu sync.Mutex
	W  io.Writer
}

func (s *LineSink) OnEvent(evt Event) {
	if evt.File == "" || (evt.Status != StatusDone && evt.Status != StatusError) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if evt.Err != nil {
		fmt.Fprintf(s.W, "%-6s %s (%s): %v\n", evt.Status, evt.File, evt.Stage, evt.Err)
		return
	}
	fmt.Fprintf(s.W, "%-6s %s\n", evt.Status, evt.File)
}

// Emit sends evt to sink if it is set.
func Emit(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}

// EmitQueued marks every file as queued.
func EmitQueued(sink ProgressSink, files []string) {
	for _, f := range files {
		Emit(sink, Event{File: f, Status: StatusQueued})
	}
}

// Tee forwards every event to each non-nil sink, in order.
func Tee(sinks ...ProgressSink) ProgressSink {
	var live []ProgressSink
	for _, s := range sinks {
		if s != nil {
			live = append(live, s)
		}
	}
	if len(live) == 1 {
		return live[0]
	}
	return FuncSink(func(evt Event) {
		for _, s := range live {
			s.OnEvent(evt)
		}
	})
}

// Counter tallies queued, finished and failed files.
type Counter struct {
	queued, done, failed atomic.Int64
}

func (c *Counter) OnEvent(evt Event) {
	if evt.File == "" {
		return
	}
	switch evt.Status {
	case StatusQueued:
		c.queued.Add(1)
	case StatusDone:
		c.done.Add(1)
	case StatusError:
		c.failed.Add(1)
	}
}

// Status renders "done/queued files" plus the failure count when non-zero.
func (c *Counter) Status() string {
	s := fmt.Sprintf("%d/%d files", c.done.Load()+c.failed.Load(), c.queued.Load())
	if n := c.failed.Load(); n > 0 {
		s += fmt.Sprintf(", %d failed", n)
	}
	return s
}
