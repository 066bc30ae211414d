package crystal

import (
	"time"

	"github.com/invariant-sdk/kernel/distance"
	"github.com/invariant-sdk/kernel/internal/math32"
	"github.com/invariant-sdk/kernel/internal/parallel"
)

// Exact returns an edge (i, j, dot(v_i, v_j)) for every pair i < j whose dot
// product is strictly greater than threshold. Vectors are not normalized, so
// the score is a true cosine only for unit-length input.
//
// With WithSources, a pair (i, j) is scanned when i is a source and j is
// either greater than i or not a source. Each unordered pair is still seen
// at most once.
func Exact(vectors [][]float32, threshold float32, opts ...Option) ([]Edge, error) {
	n := len(vectors)
	if n == 0 {
		return nil, nil
	}
	dim, err := validate(vectors)
	if err != nil {
		return nil, err
	}

	o := applyOptions(opts)
	start := time.Now()

	edges, err := parallel.Collect(n, o.workers, func(i int) ([]Edge, error) {
		if !o.isSource(i) {
			return nil, nil
		}
		return scanRow(vectors, i, threshold, &o), nil
	})
	if err != nil {
		return nil, err
	}

	o.logger.Debug("exact crystallize",
		"vectors", n,
		"dimension", dim,
		"threshold", threshold,
		"lanes", math32.Lanes(),
		"edges", len(edges),
		"duration", time.Since(start),
	)
	return edges, nil
}

func scanRow(vectors [][]float32, i int, threshold float32, o *options) []Edge {
	var out []Edge
	vi := vectors[i]

	emit := func(j int) {
		if s := distance.Dot(vi, vectors[j]); s > threshold {
			out = append(out, Edge{Source: i, Target: j, Score: s})
		}
	}

	if o.sources == nil {
		for j := i + 1; j < len(vectors); j++ {
			emit(j)
		}
		return out
	}

	for j := range vectors {
		if j == i {
			continue
		}
		if j > i || !o.sources.Contains(uint32(j)) {
			emit(j)
		}
	}
	return out
}
