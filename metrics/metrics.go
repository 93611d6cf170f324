// Package metrics provides the small set of counters and histograms the
// corpus scanner records while it walks a directory. Counter uses atomic
// operations; Histogram uses a mutex.
package metrics

import (
	"math"
	"sync"
	"sync/atomic"
)

// Counter counts events during a scan, such as files read or records
// skipped. It only moves forward.
type Counter struct {
	name  string
	value atomic.Int64
}

// NewCounter creates a zeroed counter called name.
func NewCounter(name string) *Counter {
	return &Counter{name: name}
}

// Inc records one event.
func (c *Counter) Inc() { c.value.Add(1) }

// Add records n events; n <= 0 leaves the counter unchanged.
func (c *Counter) Add(n int64) {
	if n > 0 {
		c.value.Add(n)
	}
}

// Value reports how many events have been recorded.
func (c *Counter) Value() int64 { return c.value.Load() }

// Name reports the name the counter was created with.
func (c *Counter) Name() string { return c.name }

// Histogram tracks count, sum, min and max of integer observations such as
// entry sizes in bytes.
type Histogram struct {
	name  string
	mu    sync.Mutex
	count int64
	sum   int64
	min   int64
	max   int64
}

// NewHistogram returns a new Histogram with the given name.
func NewHistogram(name string) *Histogram {
	return &Histogram{
		name: name,
		min:  math.MaxInt64,
		max:  math.MinInt64,
	}
}

// Observe records a value.
func (h *Histogram) Observe(v int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += v
	h.min = min(h.min, v)
	h.max = max(h.max, v)
}

// HistogramStats is a point-in-time view of a Histogram.
type HistogramStats struct {
	Count int64
	Sum   int64
	Min   int64
	Max   int64
}

// Mean returns the arithmetic mean, or 0 when nothing was observed.
func (s HistogramStats) Mean() float64 {
	if s.Count == 0 {
		return 0
	}
	return float64(s.Sum) / float64(s.Count)
}

// Stats returns the current observations. Min and Max are 0 for an empty
// histogram.
func (h *Histogram) Stats() HistogramStats {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.count == 0 {
		return HistogramStats{}
	}
	return HistogramStats{Count: h.count, Sum: h.sum, Min: h.min, Max: h.max}
}

// Name returns the metric name.
func (h *Histogram) Name() string { return h.name }
