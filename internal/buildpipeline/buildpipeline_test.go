package buildpipeline

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestDisplayNames(t *testing.T) {
	base := t.TempDir()
	files := []string{
		filepath.Join(base, "b", "card.frel"),
		filepath.Join(base, "a.frel"),
		filepath.Join(base, "a.frel"),
		"",
	}
	got := DisplayNames(files, base)
	want := []string{"a.frel", "b/card.frel"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("DisplayNames mismatch (-want +got):\n%s", diff)
	}
}

func TestTimingsSum(t *testing.T) {
	var tm Timings
	tm.Add(StageLex, time.Millisecond)
	tm.Add(StageParse, 2*time.Millisecond)
	tm.Add(StageParse, time.Millisecond)
	if !tm.Has(StageParse) || tm.Has(StageEncode) {
		t.Fatal("Has reports wrong stages")
	}
	if got := tm.Duration(StageParse); got != 3*time.Millisecond {
		t.Fatalf("parse = %v", got)
	}
	if got := tm.Sum(); got != 4*time.Millisecond {
		t.Fatalf("sum = %v", got)
	}
	if got := tm.Sum(StageLex); got != time.Millisecond {
		t.Fatalf("sum(lex) = %v", got)
	}
}

func TestLineSink(t *testing.T) {
	var buf bytes.Buffer
	sink := &LineSink{W: &buf}
	EmitQueued(sink, []string{"a.frel"})
	Emit(sink, Event{File: "a.frel", Stage: StageParse, Status: StatusWorking})
	Emit(sink, Event{File: "a.frel", Stage: StageEncode, Status: StatusDone})
	Emit(sink, Event{File: "b.frel", Stage: StageValidate, Status: StatusError, Err: errors.New("cycle")})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[1], "b.frel (validate): cycle") {
		t.Fatalf("unexpected error line %q", lines[1])
	}
}

func TestChannelSink(t *testing.T) {
	ch := make(chan Event, 1)
	ChannelSink{Ch: ch}.OnEvent(Event{File: "x", Status: StatusDone})
	if ev := <-ch; ev.File != "x" {
		t.Fatalf("got %+v", ev)
	}
	ChannelSink{}.OnEvent(Event{}) // nil channel is ignored
}

func TestTeeAndCounter(t *testing.T) {
	var counter Counter
	var seen []Status
	sink := Tee(nil, &counter, FuncSink(func(e Event) { seen = append(seen, e.Status) }))

	EmitQueued(sink, []string{"a.frel", "b.frel", "c.frel"})
	Emit(sink, Event{File: "a.frel", Stage: StageEncode, Status: StatusDone})
	Emit(sink, Event{File: "b.frel", Stage: StageParse, Status: StatusError, Err: errors.New("boom")})
	Emit(sink, Event{Status: StatusDone}) // run-level events are not counted

	if got := counter.Status(); got != "2/3 files, 1 failed" {
		t.Fatalf("status = %q", got)
	}
	if len(seen) != 6 {
		t.Fatalf("tee forwarded %d events, want 6", len(seen))
	}
	if Tee(&counter) != ProgressSink(&counter) {
		t.Fatal("single sink should be returned as is")
	}
}
