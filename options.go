package kernel

import (
	"log/slog"

	"github.com/invariant-sdk/kernel/codec"
)

type options struct {
	mode             Mode
	topK             int
	workers          int
	seed             *int64
	compression      codec.Compression
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures a Kernel.
type Option func(*options)

// WithMode selects the default crystallization strategy used by Crystallize.
func WithMode(m Mode) Option {
	return func(o *options) {
		o.mode = m
	}
}

// WithTopK sets the neighbor budget of approximate crystallization.
func WithTopK(k int) Option {
	return func(o *options) {
		o.topK = k
	}
}

// WithWorkers sets the worker pool size. Values <= 0 use GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithSeed fixes the HNSW level generator for approximate runs.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.seed = &seed
	}
}

// WithCompression selects the block compression of EncodeEdges.
func WithCompression(c codec.Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithMetricsCollector configures a metrics collector.
// Pass nil to disable metrics collection.
//
// Example:
//
//	metrics := &kernel.BasicMetricsCollector{}
//	k, _ := kernel.New(kernel.WithMetricsCollector(metrics))
//	// ... use k ...
//	stats := metrics.GetStats()
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging. Pass nil to disable logging.
//
//	logger := kernel.NewJSONLogger(slog.LevelInfo)
//	k, _ := kernel.New(kernel.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}
