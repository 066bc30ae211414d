package crystal

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invariant-sdk/kernel/testutil"
)

func TestLayers(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{0, 1},
		{1, 1},
		{2, 1},
		{3, 2},
		{100, 5},
		{1_000_000, 14},
		{1 << 40, 16},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Layers(tt.n), "n=%d", tt.n)
	}
}

func TestApproxOracleScenario(t *testing.T) {
	vecs := [][]float32{{1, 0}, {1, 0}, {0, 1}}

	for _, topK := range []int{1, 2, 5} {
		edges, err := Approx(vecs, 0.5, topK, WithSeed(1))
		require.NoError(t, err)

		// The exact edge (0, 1) is found from both sides.
		canon := Canonicalize(edges)
		require.Len(t, canon, 1, "topK=%d", topK)
		assert.Equal(t, 0, canon[0].Source)
		assert.Equal(t, 1, canon[0].Target)
		assert.InDelta(t, 1.0, canon[0].Score, 1e-5)

		assert.False(t, Participants(edges).Contains(2))
	}
}

func TestApproxTopKZero(t *testing.T) {
	// Distinct vectors: the single requested neighbor is always the source.
	vecs := [][]float32{{1, 0}, {0.6, 0.8}, {0, 1}}
	edges, err := Approx(vecs, -1, 0)
	require.NoError(t, err)
	assert.Empty(t, edges)
}

func TestApproxDuplicateVectors(t *testing.T) {
	vecs := make([][]float32, 6)
	for i := range vecs {
		vecs[i] = []float32{1, 0, 0}
	}
	const topK = 1

	edges, err := Approx(vecs, 0.5, topK, WithSeed(7), WithWorkers(1))
	require.NoError(t, err)

	perSource := map[int]int{}
	for _, e := range edges {
		assert.NotEqual(t, e.Source, e.Target)
		assert.InDelta(t, 1.0, e.Score, 1e-5)
		perSource[e.Source]++
	}
	require.Len(t, perSource, len(vecs))
	for src, c := range perSource {
		assert.GreaterOrEqual(t, c, 1, "source %d", src)
		assert.LessOrEqual(t, c, topK+1, "source %d", src)
	}

	// Ties at distance 0 push the source out of some result lists; those
	// sources keep both returned neighbors.
	assert.Greater(t, len(edges), len(vecs)*topK)
}

func TestApproxErrors(t *testing.T) {
	_, err := Approx([][]float32{{1}}, 0, -1)
	assert.ErrorIs(t, err, ErrInvalidTopK)

	_, err = Approx([][]float32{{1, 0}, {1}}, 0, 3)
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = Approx([][]float32{{}, {}}, 0, 3)
	assert.ErrorIs(t, err, ErrZeroDimension)

	edges, err := Approx(nil, 0, 3)
	require.NoError(t, err)
	assert.Empty(t, edges)
}

func TestApproxSingleVector(t *testing.T) {
	edges, err := Approx([][]float32{{1, 2, 3}}, -1, 4)
	require.NoError(t, err)
	assert.Empty(t, edges)
}

func TestApproxEdgeInvariants(t *testing.T) {
	rng := testutil.NewRNG(5)
	vecs := rng.UniformRangeVectors(400, 16)
	const (
		threshold = 0.2
		topK      = 7
	)

	edges, err := Approx(vecs, threshold, topK)
	require.NoError(t, err)

	perSource := map[int]int{}
	for _, e := range edges {
		assert.NotEqual(t, e.Source, e.Target)
		assert.Greater(t, e.Score, float32(threshold))
		assert.LessOrEqual(t, e.Score, float32(1.0001))
		perSource[e.Source]++
	}
	for src, c := range perSource {
		assert.LessOrEqual(t, c, topK+1, "source %d", src)
	}
}

func TestApproxZeroVector(t *testing.T) {
	vecs := [][]float32{{0, 0}, {1, 0}, {1, 0}}

	edges, err := Approx(vecs, -0.5, 2, WithSeed(3))
	require.NoError(t, err)

	for _, e := range edges {
		if e.Source == 0 || e.Target == 0 {
			assert.InDelta(t, 0, e.Score, 1e-6)
		}
	}

	edges, err = Approx(vecs, 0, 2, WithSeed(3))
	require.NoError(t, err)
	assert.False(t, Participants(edges).Contains(0))
}

func TestApproxRecallAgainstExact(t *testing.T) {
	rng := testutil.NewRNG(42)
	vecs := rng.ClusteredVectors(1000, 32, 20, 0.08)
	const (
		threshold = 0.8
		topK      = 60
	)

	exact, err := Exact(vecs, threshold)
	require.NoError(t, err)
	require.NotEmpty(t, exact)

	approx, err := Approx(vecs, threshold, topK)
	require.NoError(t, err)

	recall := testutil.PairRecall(toPairs(exact), toPairs(approx))
	assert.GreaterOrEqual(t, recall, 0.9, "recall %.3f", recall)

	// Unit input: approximate similarity equals the exact dot.
	dots := map[[2]int]float32{}
	for _, e := range exact {
		dots[[2]int{e.Source, e.Target}] = e.Score
	}
	for _, e := range approx {
		p := testutil.NewPair(e.Source, e.Target, e.Score)
		if d, ok := dots[[2]int{p.I, p.J}]; ok {
			assert.InDelta(t, d, e.Score, 1e-4)
		}
	}
}

func TestApproxParallelInsertRecall(t *testing.T) {
	rng := testutil.NewRNG(42)
	vecs := rng.ClusteredVectors(1000, 32, 20, 0.08)
	const (
		threshold = 0.8
		topK      = 60
	)

	exact, err := Exact(vecs, threshold)
	require.NoError(t, err)
	require.NotEmpty(t, exact)

	for _, workers := range []int{1, 8} {
		approx, err := Approx(vecs, threshold, topK, WithWorkers(workers), WithSeed(5))
		require.NoError(t, err)

		recall := testutil.PairRecall(toPairs(exact), toPairs(approx))
		assert.GreaterOrEqual(t, recall, 0.9, "workers=%d recall %.3f", workers, recall)
	}
}

func TestApproxWithSources(t *testing.T) {
	rng := testutil.NewRNG(9)
	vecs := rng.ClusteredVectors(200, 16, 4, 0.1)

	sources := roaring.BitmapOf(0, 1, 2, 150)
	edges, err := Approx(vecs, 0.5, 5, WithSources(sources), WithWorkers(2))
	require.NoError(t, err)
	require.NotEmpty(t, edges)

	for _, e := range edges {
		assert.True(t, sources.Contains(uint32(e.Source)))
	}
}

func TestApproxDeterministicWithSeedAndOneWorker(t *testing.T) {
	vecs := testutil.NewRNG(13).UnitVectors(150, 8)

	run := func() []Edge {
		edges, err := Approx(vecs, 0.3, 4, WithSeed(99), WithWorkers(1))
		require.NoError(t, err)
		Sort(edges)
		return edges
	}
	assert.Equal(t, run(), run())
}

func TestApproxLogsPhases(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := Approx([][]float32{{1, 0}, {0, 1}}, 0, 1, WithLogger(logger))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "approx crystallize")
	assert.Contains(t, buf.String(), "top_k=1")
	assert.Contains(t, buf.String(), "max_level=")
	assert.Contains(t, buf.String(), "level_nodes=")

	buf.Reset()
	_, err = Exact([][]float32{{1, 0}, {0, 1}}, 0, WithLogger(logger))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "exact crystallize")
	assert.Contains(t, buf.String(), "lanes=")
}

func BenchmarkApprox(b *testing.B) {
	vecs := testutil.NewRNG(1).UnitVectors(2000, 64)
	b.ReportAllocs()
	b.ResetTimer()
	for b.Loop() {
		if _, err := Approx(vecs, 0.5, 10); err != nil {
			b.Fatal(err)
		}
	}
}
