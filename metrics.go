package profilematch

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like
// Prometheus.
type MetricsCollector interface {
	// RecordRank is called after each ranking operation.
	// k is the number of results requested, duration is the time taken,
	// err is nil if successful.
	RecordRank(k int, duration time.Duration, err error)

	// RecordAddReference is called after each corpus insertion.
	// skipped reports whether the reference failed processing and was stored
	// as a skipped entry.
	RecordAddReference(duration time.Duration, skipped bool)

	// RecordExtract is called after each standalone feature extraction.
	RecordExtract(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordRank(int, time.Duration, error)   {}
func (NoopMetricsCollector) RecordAddReference(time.Duration, bool) {}
func (NoopMetricsCollector) RecordExtract(time.Duration, error)     {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	RankCount      atomic.Int64
	RankErrors     atomic.Int64
	RankTotalNanos atomic.Int64
	AddCount       atomic.Int64
	AddSkipped     atomic.Int64
	ExtractCount   atomic.Int64
	ExtractErrors  atomic.Int64
}

// RecordRank records a ranking operation.
func (c *BasicMetricsCollector) RecordRank(k int, duration time.Duration, err error) {
	c.RankCount.Add(1)
	c.RankTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		c.RankErrors.Add(1)
	}
}

// RecordAddReference records a corpus insertion.
func (c *BasicMetricsCollector) RecordAddReference(duration time.Duration, skipped bool) {
	c.AddCount.Add(1)
	if skipped {
		c.AddSkipped.Add(1)
	}
}

// RecordExtract records a standalone feature extraction.
func (c *BasicMetricsCollector) RecordExtract(duration time.Duration, err error) {
	c.ExtractCount.Add(1)
	if err != nil {
		c.ExtractErrors.Add(1)
	}
}

// AverageRankLatency returns the mean duration of recorded rankings.
func (c *BasicMetricsCollector) AverageRankLatency() time.Duration {
	n := c.RankCount.Load()
	if n == 0 {
		return 0
	}
	return time.Duration(c.RankTotalNanos.Load() / n)
}
