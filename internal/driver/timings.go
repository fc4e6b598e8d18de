package driver

import (
	"encoding/json"
	"fmt"
	"io"

	"frel/internal/observ"
)

// TimingReport is the per-file payload printed by --timings.
type TimingReport struct {
	Kind    string               `json:"kind" msgpack:"kind"`
	Path    string               `json:"path,omitempty" msgpack:"path,omitempty"`
	TotalMS float64              `json:"total_ms" msgpack:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases" msgpack:"phases"`
}

func newTimingReport(path string, timer *observ.Timer) *TimingReport {
	if timer == nil {
		return nil
	}
	r := timer.Report()
	return &TimingReport{Kind: "compile", Path: path, TotalMS: r.TotalMS, Phases: r.Phases}
}

// WriteTimings prints reports as text or as one JSON object per line.
func WriteTimings(w io.Writer, reports []*TimingReport, asJSON bool) error {
	for _, r := range reports {
		if r == nil {
			continue
		}
		if asJSON {
			data, err := json.Marshal(r)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w, "%s\n", data); err != nil {
				return err
			}
			continue
		}
		fmt.Fprintf(w, "timings (%s): total %.3f ms: %s\n", r.Kind, r.TotalMS, r.Path)
		for _, p := range r.Phases {
			fmt.Fprintf(w, "  %-10s %8.3f ms", p.Name, p.DurationMS)
			if p.Note != "" {
				fmt.Fprintf(w, "  // %s", p.Note)
			}
			fmt.Fprintln(w)
		}
	}
	return nil
}
