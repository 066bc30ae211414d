package kernel

import (
	"context"
	"fmt"
	"time"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/invariant-sdk/kernel/codec"
	"github.com/invariant-sdk/kernel/crystal"
	"github.com/invariant-sdk/kernel/identity"
)

// Mode selects a crystallization strategy.
type Mode string

const (
	// ModeExact scans all pairs.
	ModeExact Mode = "exact"
	// ModeApprox queries an HNSW graph.
	ModeApprox Mode = "approx"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeExact, ModeApprox:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// DefaultTopK is the neighbor budget used when none is configured.
const DefaultTopK = 10

// Kernel bundles the identity and crystallization operations with shared
// logging, metrics and pool configuration. A Kernel is stateless between
// calls and safe for concurrent use.
type Kernel struct {
	opts    options
	logger  *Logger
	metrics MetricsCollector
}

// New creates a Kernel.
func New(optFns ...Option) (*Kernel, error) {
	opts := options{
		mode: ModeExact,
		topK: DefaultTopK,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	if _, err := ParseMode(string(opts.mode)); err != nil {
		return nil, err
	}
	if opts.topK < 0 {
		return nil, ErrInvalidTopK
	}

	k := &Kernel{opts: opts, logger: opts.logger, metrics: opts.metricsCollector}
	if k.logger == nil {
		k.logger = NoopLogger()
	}
	if k.metrics == nil {
		k.metrics = NoopMetricsCollector{}
	}
	return k, nil
}

// Mode returns the configured default mode.
func (k *Kernel) Mode() Mode { return k.opts.mode }

// TopK returns the configured neighbor budget.
func (k *Kernel) TopK() int { return k.opts.topK }

// Digest returns the 64-char identity of token.
func (k *Kernel) Digest(token string) string {
	start := time.Now()
	d := identity.TokenDigestString(token)
	k.metrics.RecordDigest(1, time.Since(start))
	return d
}

// DigestAll hashes tokens in order.
func (k *Kernel) DigestAll(ctx context.Context, tokens []string) []string {
	start := time.Now()
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = identity.TokenDigestString(t)
	}
	k.metrics.RecordDigest(len(tokens), time.Since(start))
	k.logger.LogDigest(ctx, len(tokens))
	return out
}

// BondID returns the 16-char digest of the directed bond u -rel-> v.
func (k *Kernel) BondID(u, v, rel string) string {
	return identity.BondDigest(u, v, rel)
}

// Metrics returns the tree metrics of token.
func (k *Kernel) Metrics(token string, atomic bool) identity.Metrics {
	return identity.ComputeMetrics([]byte(token), atomic)
}

// CrystallizeExact runs the exact crystallizer.
func (k *Kernel) CrystallizeExact(ctx context.Context, vectors [][]float32, threshold float32, sources *roaring.Bitmap) ([]crystal.Edge, error) {
	return k.run(ctx, ModeExact, vectors, func() ([]crystal.Edge, error) {
		return crystal.Exact(vectors, threshold, k.crystalOptions(sources)...)
	})
}

// CrystallizeApprox runs the approximate crystallizer with the given topK.
func (k *Kernel) CrystallizeApprox(ctx context.Context, vectors [][]float32, threshold float32, topK int, sources *roaring.Bitmap) ([]crystal.Edge, error) {
	return k.run(ctx, ModeApprox, vectors, func() ([]crystal.Edge, error) {
		return crystal.Approx(vectors, threshold, topK, k.crystalOptions(sources)...)
	})
}

// Crystallize runs the configured mode over all vectors.
func (k *Kernel) Crystallize(ctx context.Context, vectors [][]float32, threshold float32) ([]crystal.Edge, error) {
	if k.opts.mode == ModeApprox {
		return k.CrystallizeApprox(ctx, vectors, threshold, k.opts.topK, nil)
	}
	return k.CrystallizeExact(ctx, vectors, threshold, nil)
}

// EncodeEdges packs edges into a binary frame with the configured compression.
func (k *Kernel) EncodeEdges(edges []crystal.Edge) ([]byte, error) {
	return codec.EncodeEdges(edges, k.opts.compression)
}

func (k *Kernel) run(ctx context.Context, mode Mode, vectors [][]float32, fn func() ([]crystal.Edge, error)) ([]crystal.Edge, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	edges, err := fn()
	err = translateError(err)

	k.metrics.RecordCrystallize(mode, len(vectors), len(edges), time.Since(start), err)
	k.logger.LogCrystallize(ctx, mode, len(vectors), len(edges), err)

	if err != nil {
		return nil, err
	}
	return edges, nil
}

func (k *Kernel) crystalOptions(sources *roaring.Bitmap) []crystal.Option {
	opts := []crystal.Option{
		crystal.WithWorkers(k.opts.workers),
		crystal.WithLogger(k.logger.Logger),
	}
	if k.opts.seed != nil {
		opts = append(opts, crystal.WithSeed(*k.opts.seed))
	}
	if sources != nil {
		opts = append(opts, crystal.WithSources(sources))
	}
	return opts
}
