package driver

import (
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"codex/internal/observ"
)

type fileTiming struct {
	Path    string  `json:"path"`
	TotalMS float64 `json:"total_ms"`
	Cached  bool    `json:"cached,omitempty"`
}

type timingPayload struct {
	Kind    string               `json:"kind"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport  `json:"phases"`
	Samples []observ.SampleReport `json:"samples,omitempty"`
	Slowest []fileTiming          `json:"slowest,omitempty"`
}

const slowestFiles = 5

func (r *Result) timingPayload() timingPayload {
	payload := timingPayload{
		Kind:    "analysis",
		TotalMS: r.Timings.TotalMS,
		Phases:  r.Timings.Phases,
		Samples: r.Timings.Samples,
	}
	files := make([]FileResult, 0, len(r.Files))
	for _, f := range r.Files {
		if f.Err == nil {
			files = append(files, f)
		}
	}
	slices.SortStableFunc(files, func(a, b FileResult) int {
		return cmp.Compare(b.Elapsed, a.Elapsed)
	})
	for _, f := range files[:min(slowestFiles, len(files))] {
		payload.Slowest = append(payload.Slowest, fileTiming{
			Path:    f.Path,
			TotalMS: observ.Millis(f.Elapsed),
			Cached:  f.Cached,
		})
	}
	return payload
}

// WriteTimings prints phase durations, per-file averages and the slowest files.
func (r *Result) WriteTimings(w io.Writer) error {
	p := r.timingPayload()
	if _, err := fmt.Fprintln(w, "timings:"); err != nil {
		return err
	}
	for _, ph := range p.Phases {
		line := fmt.Sprintf("  %-20s %7.2f ms", ph.Name, ph.DurationMS)
		if ph.Note != "" {
			line += "  // " + ph.Note
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "  %-20s %7.2f ms\n", "total", p.TotalMS); err != nil {
		return err
	}
	for _, sm := range p.Samples {
		if _, err := fmt.Fprintf(w, "  %-20s %5d x  avg %.2f ms  max %.2f ms\n", sm.Name, sm.Count, sm.AvgMS, sm.MaxMS); err != nil {
			return err
		}
	}
	for _, f := range p.Slowest {
		note := ""
		if f.Cached {
			note = " (cached)"
		}
		if _, err := fmt.Fprintf(w, "  %7.2f ms  %s%s\n", f.TotalMS, f.Path, note); err != nil {
			return err
		}
	}
	return nil
}

// TimingsJSON renders the same data as WriteTimings as JSON.
func (r *Result) TimingsJSON() ([]byte, error) {
	data, err := json.Marshal(r.timingPayload())
	if err != nil {
		return nil, fmt.Errorf("failed to encode timings: %w", err)
	}
	return data, nil
}
