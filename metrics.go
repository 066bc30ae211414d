package kernel

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordDigest is called after hashing tokens.
	RecordDigest(tokens int, duration time.Duration)

	// RecordCrystallize is called after each crystallization run.
	// err is nil if successful.
	RecordCrystallize(mode Mode, vectors, edges int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordDigest(int, time.Duration)                        {}
func (NoopMetricsCollector) RecordCrystallize(Mode, int, int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
type BasicMetricsCollector struct {
	DigestCount      atomic.Int64
	DigestTokens     atomic.Int64
	DigestTotalNanos atomic.Int64

	ExactCount        atomic.Int64
	ApproxCount       atomic.Int64
	CrystallizeErrors atomic.Int64
	CrystallizeEdges  atomic.Int64
	CrystallizeNanos  atomic.Int64
	VectorsProcessed  atomic.Int64
}

// RecordDigest implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDigest(tokens int, duration time.Duration) {
	b.DigestCount.Add(1)
	b.DigestTokens.Add(int64(tokens))
	b.DigestTotalNanos.Add(duration.Nanoseconds())
}

// RecordCrystallize implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCrystallize(mode Mode, vectors, edges int, duration time.Duration, err error) {
	switch mode {
	case ModeApprox:
		b.ApproxCount.Add(1)
	default:
		b.ExactCount.Add(1)
	}
	b.CrystallizeNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.CrystallizeErrors.Add(1)
		return
	}
	b.VectorsProcessed.Add(int64(vectors))
	b.CrystallizeEdges.Add(int64(edges))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	runs := b.ExactCount.Load() + b.ApproxCount.Load()
	s := BasicMetricsStats{
		DigestCount:       b.DigestCount.Load(),
		DigestTokens:      b.DigestTokens.Load(),
		ExactCount:        b.ExactCount.Load(),
		ApproxCount:       b.ApproxCount.Load(),
		CrystallizeErrors: b.CrystallizeErrors.Load(),
		CrystallizeEdges:  b.CrystallizeEdges.Load(),
		VectorsProcessed:  b.VectorsProcessed.Load(),
	}
	if s.DigestCount > 0 {
		s.DigestAvgNanos = b.DigestTotalNanos.Load() / s.DigestCount
	}
	if runs > 0 {
		s.CrystallizeAvgNanos = b.CrystallizeNanos.Load() / runs
	}
	return s
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	DigestCount    int64
	DigestTokens   int64
	DigestAvgNanos int64

	ExactCount          int64
	ApproxCount         int64
	CrystallizeErrors   int64
	CrystallizeEdges    int64
	CrystallizeAvgNanos int64
	VectorsProcessed    int64
}
