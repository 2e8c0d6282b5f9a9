package observ

import (
	"slices"
	"time"
)

// Phase records the duration and metadata of one step of a run.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
}

type samples struct {
	count int
	total time.Duration
	max   time.Duration
}

// Timer records the sequential phases of one run (load, scan, merge) and
// aggregates per-item samples such as the time spent on each file.
// It is not safe for concurrent use.
type Timer struct {
	phases  []Phase
	samples map[string]*samples
}

// NewTimer creates a new empty Timer.
func NewTimer() *Timer {
	return &Timer{phases: make([]Phase, 0, 4), samples: make(map[string]*samples)}
}

// Phase starts a phase and returns the function that ends it.
func (t *Timer) Phase(name string) (end func(note string)) {
	t.phases = append(t.phases, Phase{Name: name, Start: time.Now()})
	idx := len(t.phases) - 1
	return func(note string) {
		p := &t.phases[idx]
		if p.Dur != 0 {
			return
		}
		p.Dur = max(time.Since(p.Start), 1)
		p.Note = note
	}
}

// Sample adds one measurement to the series name.
func (t *Timer) Sample(name string, d time.Duration) {
	s := t.samples[name]
	if s == nil {
		s = &samples{}
		t.samples[name] = s
	}
	s.count++
	s.total += d
	s.max = max(s.max, d)
}

// PhaseReport представляет сжатую информацию о фазе таймера для сериализации.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// SampleReport summarises one sample series.
type SampleReport struct {
	Name    string  `json:"name"`
	Count   int     `json:"count"`
	TotalMS float64 `json:"total_ms"`
	AvgMS   float64 `json:"avg_ms"`
	MaxMS   float64 `json:"max_ms"`
}

// Report описывает агрегированные данные таймера.
type Report struct {
	TotalMS float64        `json:"total_ms"`
	Phases  []PhaseReport  `json:"phases"`
	Samples []SampleReport `json:"samples,omitempty"`
}

// Report формирует срез фаз и общую длительность в миллисекундах.
// Sample series are sorted by name.
func (t *Timer) Report() Report {
	var report Report
	var total time.Duration
	for _, phase := range t.phases {
		total += phase.Dur
		report.Phases = append(report.Phases, PhaseReport{
			Name:       phase.Name,
			DurationMS: Millis(phase.Dur),
			Note:       phase.Note,
		})
	}
	report.TotalMS = Millis(total)

	for name, s := range t.samples {
		report.Samples = append(report.Samples, SampleReport{
			Name:    name,
			Count:   s.count,
			TotalMS: Millis(s.total),
			AvgMS:   Millis(s.total) / float64(s.count),
			MaxMS:   Millis(s.max),
		})
	}
	slices.SortFunc(report.Samples, func(a, b SampleReport) int {
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		}
		return 0
	})
	return report
}

// Millis converts d to fractional milliseconds.
func Millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
