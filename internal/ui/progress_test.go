package ui

import (
	"fmt"
	"strings"
	"testing"

	"frel/internal/buildpipeline"
)

func TestProgressModelTracksFiles(t *testing.T) {
	events := make(chan buildpipeline.Event)
	m := NewProgressModel("compile", []string{"a.frel", "b.frel"}, events).(*progressModel)

	m.apply(buildpipeline.Event{File: "a.frel", Stage: buildpipeline.StageValidate, Status: buildpipeline.StatusWorking})
	if got := m.rows[0].label(); got != "validating" {
		t.Fatalf("label = %q, want validating", got)
	}
	// validate is the third of five stages: 3/6 for one file of two.
	if got := m.Percent(); got != 0.25 {
		t.Fatalf("percent = %v, want 0.25", got)
	}

	m.apply(buildpipeline.Event{File: "a.frel", Stage: buildpipeline.StageWrite, Status: buildpipeline.StatusDone})
	m.apply(buildpipeline.Event{File: "b.frel", Stage: buildpipeline.StageParse, Status: buildpipeline.StatusError})
	if got := m.Percent(); got != 1 {
		t.Fatalf("percent = %v, want 1", got)
	}

	// late events for a finished file are ignored
	m.apply(buildpipeline.Event{File: "b.frel", Stage: buildpipeline.StageEncode, Status: buildpipeline.StatusWorking})
	if m.rows[1].state != stateFailed {
		t.Fatalf("finished row changed state to %v", m.rows[1].state)
	}

	m.closed = true
	view := m.View()
	if !strings.Contains(view, "failed: compile (1 of 2)") {
		t.Fatalf("unexpected header:\n%s", view)
	}
	if !strings.Contains(view, "1 done, 1 failed, 0 pending") {
		t.Fatalf("missing summary:\n%s", view)
	}
}

func TestProgressModelIgnoresUnknownFiles(t *testing.T) {
	m := NewProgressModel("compile", []string{"a.frel"}, nil).(*progressModel)
	m.apply(buildpipeline.Event{File: "zzz.frel", Status: buildpipeline.StatusDone})
	if m.rows[0].state != stateQueued {
		t.Fatalf("unexpected state %v", m.rows[0].state)
	}
}

func TestProgressModelCollapsesLongLists(t *testing.T) {
	files := make([]string, maxRows+3)
	for i := range files {
		files[i] = fmt.Sprintf("f%02d.frel", i)
	}
	m := NewProgressModel("check", files, nil).(*progressModel)
	last := files[len(files)-1]
	m.apply(buildpipeline.Event{File: last, Stage: buildpipeline.StageParse, Status: buildpipeline.StatusWorking})

	rows := m.visibleRows()
	if len(rows) != maxRows {
		t.Fatalf("visible rows = %d, want %d", len(rows), maxRows)
	}
	if rows[0].path != last {
		t.Fatalf("running file not pinned first: %q", rows[0].path)
	}
	if view := m.View(); !strings.Contains(view, "+3 more") {
		t.Fatalf("missing overflow line:\n%s", view)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("templates/very/long/path.frel", 10); got != "templat..." {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("truncate = %q", got)
	}
}
