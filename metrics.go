package vector

import "github.com/prometheus/client_golang/prometheus"

// AllocatorMetrics contains statistical information about an allocator.
type AllocatorMetrics struct {
	BytesInUse  int64  // Bytes held by live buffers
	PeakBytes   int64  // Highest BytesInUse observed
	LiveBuffers int64  // Buffers allocated and not yet released
	Allocations uint64 // Buffers handed out
	Releases    uint64 // Buffers returned
	Failures    uint64 // Requests rejected for overflow or limit
	Limit       int64  // Configured byte limit, 0 for unlimited
}

// Metrics returns a snapshot of allocator statistics.
func (a *Allocator) Metrics() AllocatorMetrics {
	a.mu.Lock()
	defer a.mu.Unlock()
	return AllocatorMetrics{
		BytesInUse:  a.stats.bytesInUse,
		PeakBytes:   a.stats.peakBytes,
		LiveBuffers: a.stats.liveBuffers,
		Allocations: a.stats.allocs,
		Releases:    a.stats.releases,
		Failures:    a.stats.failures,
		Limit:       a.limit,
	}
}

// BytesInUse returns the bytes currently held by live buffers.
func (a *Allocator) BytesInUse() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stats.bytesInUse
}

// Utilization returns BytesInUse as a fraction of the limit (0.0 to 1.0).
// Returns 0.0 for an unlimited allocator.
func (a *Allocator) Utilization() float64 {
	if a.limit == 0 {
		return 0
	}
	return float64(a.BytesInUse()) / float64(a.limit)
}

type collector struct {
	a *Allocator

	bytesInUse  *prometheus.Desc
	peakBytes   *prometheus.Desc
	liveBuffers *prometheus.Desc
	allocs      *prometheus.Desc
	releases    *prometheus.Desc
	failures    *prometheus.Desc
	limit       *prometheus.Desc
}

// NewCollector exposes the metrics of a as a prometheus.Collector.
func NewCollector(a *Allocator) prometheus.Collector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc("vector_allocator_"+name, help, nil, nil)
	}
	return &collector{
		a:           a,
		bytesInUse:  desc("bytes_in_use", "Bytes held by live vector buffers."),
		peakBytes:   desc("peak_bytes", "Highest number of bytes held at once."),
		liveBuffers: desc("live_buffers", "Vector buffers allocated and not yet released."),
		allocs:      desc("allocations_total", "Vector buffers allocated."),
		releases:    desc("releases_total", "Vector buffers released."),
		failures:    desc("failures_total", "Buffer requests rejected for overflow or limit."),
		limit:       desc("limit_bytes", "Configured byte limit, 0 when unlimited."),
	}
}

func (c *collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.bytesInUse
	ch <- c.peakBytes
	ch <- c.liveBuffers
	ch <- c.allocs
	ch <- c.releases
	ch <- c.failures
	ch <- c.limit
}

func (c *collector) Collect(ch chan<- prometheus.Metric) {
	m := c.a.Metrics()
	ch <- prometheus.MustNewConstMetric(c.bytesInUse, prometheus.GaugeValue, float64(m.BytesInUse))
	ch <- prometheus.MustNewConstMetric(c.peakBytes, prometheus.GaugeValue, float64(m.PeakBytes))
	ch <- prometheus.MustNewConstMetric(c.liveBuffers, prometheus.GaugeValue, float64(m.LiveBuffers))
	ch <- prometheus.MustNewConstMetric(c.allocs, prometheus.CounterValue, float64(m.Allocations))
	ch <- prometheus.MustNewConstMetric(c.releases, prometheus.CounterValue, float64(m.Releases))
	ch <- prometheus.MustNewConstMetric(c.failures, prometheus.CounterValue, float64(m.Failures))
	ch <- prometheus.MustNewConstMetric(c.limit, prometheus.GaugeValue, float64(m.Limit))
}
