package main

import (
	"fmt"
	"io"
	"time"

	"frel/internal/buildpipeline"
	"frel/internal/driver"
	"frel/internal/observ"
)

func addTimings(total *buildpipeline.Timings, r *driver.TimingReport) {
	if r == nil {
		return
	}
	for _, p := range r.Phases {
		total.Add(buildpipeline.Stage(p.Name), time.Duration(p.DurationMS*float64(time.Millisecond)))
	}
}

// printStageTimings prints per-stage totals summed over all files.
func printStageTimings(out io.Writer, timings *buildpipeline.Timings) {
	fmt.Fprintln(out, "timings (all files):")
	for _, stage := range buildpipeline.Stages {
		if timings.Has(stage) {
			fmt.Fprintf(out, "  %-10s %8.3f ms\n", stage, observ.Millis(timings.Duration(stage)))
		}
	}
	fmt.Fprintf(out, "  %-10s %8.3f ms\n", "total", observ.Millis(timings.Sum()))
}
