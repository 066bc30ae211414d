package crystal

import (
	"log/slog"

	"github.com/RoaringBitmap/roaring/v2"
)

type options struct {
	workers int
	sources *roaring.Bitmap
	seed    *int64
	logger  *slog.Logger
}

// Option configures a crystallization run.
type Option func(*options)

func applyOptions(opts []Option) options {
	o := options{logger: slog.New(slog.DiscardHandler)}
	for _, fn := range opts {
		fn(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	return o
}

// WithWorkers sets the pool size. Values <= 0 use GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithSources restricts which vectors act as edge sources. A nil bitmap
// means all vectors. Approx still indexes every vector.
func WithSources(sources *roaring.Bitmap) Option {
	return func(o *options) {
		o.sources = sources
	}
}

// WithSeed fixes the HNSW level generator of Approx.
//
// Inserts run in parallel, so the graph is only reproducible together with
// WithWorkers(1).
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.seed = &seed
	}
}

// WithLogger receives debug-level phase timings. Pass nil to disable.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func (o *options) isSource(i int) bool {
	return o.sources == nil || o.sources.Contains(uint32(i))
}
