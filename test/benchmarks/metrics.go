package benchmarks

import (
	"runtime"
	"slices"
	"time"
)

// Metrics collects per-operation latencies for percentile reporting.
type Metrics struct {
	Durations []time.Duration
	RSSBytes  int64
}

func NewMetrics() *Metrics {
	return &Metrics{
		Durations: make([]time.Duration, 0, 1024),
	}
}

func (m *Metrics) Record(d time.Duration) {
	m.Durations = append(m.Durations, d)
}

func (m *Metrics) RecordMemory() {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	m.RSSBytes = int64(mem.Sys)
}

func (m *Metrics) P50() time.Duration {
	return m.percentile(0.50)
}

func (m *Metrics) P90() time.Duration {
	return m.percentile(0.90)
}

func (m *Metrics) P99() time.Duration {
	return m.percentile(0.99)
}

func (m *Metrics) percentile(p float64) time.Duration {
	if len(m.Durations) == 0 {
		return 0
	}
	sorted := slices.Clone(m.Durations)
	slices.Sort(sorted)
	return sorted[int(float64(len(sorted)-1)*p)]
}

func (m *Metrics) Min() time.Duration {
	if len(m.Durations) == 0 {
		return 0
	}
	return slices.Min(m.Durations)
}

func (m *Metrics) Max() time.Duration {
	if len(m.Durations) == 0 {
		return 0
	}
	return slices.Max(m.Durations)
}
