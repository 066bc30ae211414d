package crystal

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/invariant-sdk/kernel/internal/hnsw"
	"github.com/invariant-sdk/kernel/internal/parallel"
)

// Graph construction parameters.
const (
	ApproxM              = 16
	ApproxEFConstruction = 200
	ApproxMaxLayers      = 16
	minEFSearch          = 32
)

// Layers returns the graph height used for n vectors: min(16, ceil(ln n)),
// at least 1.
func Layers(n int) int {
	if n <= 1 {
		return 1
	}
	l := int(math.Ceil(math.Log(float64(n))))
	return max(1, min(ApproxMaxLayers, l))
}

// Approx builds an HNSW graph over vectors under cosine distance and emits
// (i, j, 1 - distance) for neighbors j != i whose similarity is strictly
// greater than threshold.
//
// Each source vector is queried for topK+1 neighbors with a breadth of
// max(32, topK). The query usually returns the source itself, which is
// skipped; when it does not (exact duplicates) all topK+1 neighbors qualify.
// topK = 0 asks for the nearest neighbor only. Edges are directed: (i, j)
// does not imply (j, i).
// Zero vectors are indexed unnormalized and are orthogonal to everything.
func Approx(vectors [][]float32, threshold float32, topK int, opts ...Option) ([]Edge, error) {
	if topK < 0 {
		return nil, ErrInvalidTopK
	}
	n := len(vectors)
	if n == 0 {
		return nil, nil
	}
	dim, err := validate(vectors)
	if err != nil {
		return nil, err
	}
	if dim == 0 {
		return nil, ErrZeroDimension
	}
	if uint64(n) > math.MaxUint32 {
		return nil, fmt.Errorf("crystal: %d vectors exceed the index capacity", n)
	}

	o := applyOptions(opts)
	ctx := context.Background()
	start := time.Now()

	idx, err := hnsw.New(func(ho *hnsw.Options) {
		ho.Dimension = dim
		ho.Capacity = n
		ho.M = ApproxM
		ho.EF = ApproxEFConstruction
		ho.MaxLayers = Layers(n)
		ho.RandomSeed = o.seed
	})
	if err != nil {
		return nil, fmt.Errorf("crystal: build index: %w", err)
	}

	err = parallel.For(n, o.workers, func(i int) error {
		return idx.Insert(ctx, uint32(i), vectors[i])
	})
	if err != nil {
		return nil, fmt.Errorf("crystal: insert: %w", err)
	}
	built := time.Now()

	ef := max(minEFSearch, topK)
	edges, err := parallel.Collect(n, o.workers, func(i int) ([]Edge, error) {
		if !o.isSource(i) {
			return nil, nil
		}
		res, err := idx.KNNSearch(ctx, vectors[i], topK+1, ef)
		if err != nil {
			return nil, fmt.Errorf("crystal: query %d: %w", i, err)
		}

		var out []Edge
		for _, r := range res {
			j := int(r.ID)
			if sim := 1 - r.Distance; j != i && sim > threshold {
				out = append(out, Edge{Source: i, Target: j, Score: sim})
			}
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}

	if o.logger.Enabled(ctx, slog.LevelDebug) {
		st := idx.Stats()
		o.logger.Debug("approx crystallize",
			"vectors", n,
			"dimension", dim,
			"threshold", threshold,
			"top_k", topK,
			"layers", Layers(n),
			"max_level", st.MaxLevel,
			"level_nodes", st.LevelNodes(),
			"edges", len(edges),
			"build", built.Sub(start),
			"query", time.Since(built),
		)
	}
	return edges, nil
}
