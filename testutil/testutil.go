package testutil

import (
	"cmp"
	"math"
	"math/rand"
	"slices"
	"sync"

	"github.com/invariant-sdk/kernel/distance"
	"github.com/invariant-sdk/kernel/internal/math32"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), // nolint gosec
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float32 returns, as a float32, a pseudo-random number in [0.0,1.0).
func (r *RNG) Float32() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float32()
}

// Bytes returns n pseudo-random bytes.
func (r *RNG) Bytes(n int) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	b := make([]byte, n)
	_, _ = r.rand.Read(b)
	return b
}

// UniformRangeVectors generates random vectors with values in range [-1, 1).
// Uses a single backing array.
func (r *RNG) UniformRangeVectors(num, dimensions int) [][]float32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float32, num*dimensions)
	vectors := make([][]float32, num)

	for i := range num {
		vec := data[i*dimensions : (i+1)*dimensions : (i+1)*dimensions]
		for j := range vec {
			vec[j] = r.rand.Float32()*2 - 1
		}
		vectors[i] = vec
	}

	return vectors
}

// UnitVectors generates L2-normalized random vectors, uniform on the sphere.
func (r *RNG) UnitVectors(num, dimensions int) [][]float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.unitVectorsLocked(num, dimensions)
}

func (r *RNG) unitVectorsLocked(num, dimensions int) [][]float32 {
	data := make([]float32, num*dimensions)
	vectors := make([][]float32, num)

	for i := range num {
		vec := data[i*dimensions : (i+1)*dimensions : (i+1)*dimensions]
		var norm float64
		for j := range vec {
			v := r.rand.NormFloat64()
			vec[j] = float32(v)
			norm += v * v
		}
		if norm == 0 {
			norm = 1
		}
		math32.ScaleInPlace(vec, float32(1.0/math.Sqrt(norm)))
		vectors[i] = vec
	}

	return vectors
}

// ClusteredVectors generates unit vectors grouped around clusters random
// centroids. spread is the standard deviation of the Gaussian noise added
// before normalization; vector i belongs to cluster i % clusters.
func (r *RNG) ClusteredVectors(num, dim, clusters int, spread float32) [][]float32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	centroids := r.unitVectorsLocked(clusters, dim)

	data := make([]float32, num*dim)
	vectors := make([][]float32, num)

	for i := range num {
		centroid := centroids[i%clusters]
		vec := data[i*dim : (i+1)*dim : (i+1)*dim]
		for j := range dim {
			vec[j] = centroid[j] + float32(r.rand.NormFloat64())*spread
		}
		distance.NormalizeL2InPlace(vec)
		vectors[i] = vec
	}

	return vectors
}

// Pair is an undirected scored index pair with I < J.
type Pair struct {
	I, J  int
	Score float32
}

// NewPair orders i and j.
func NewPair(i, j int, score float32) Pair {
	if i > j {
		i, j = j, i
	}
	return Pair{I: i, J: j, Score: score}
}

// SortPairs orders pairs by (I, J).
func SortPairs(p []Pair) {
	slices.SortFunc(p, func(a, b Pair) int {
		if c := cmp.Compare(a.I, b.I); c != 0 {
			return c
		}
		return cmp.Compare(a.J, b.J)
	})
}

// BruteForcePairs returns every pair i < j whose raw dot product exceeds
// threshold, in (I, J) order. It is the single-threaded reference for exact
// crystallization.
func BruteForcePairs(vectors [][]float32, threshold float32) []Pair {
	var out []Pair
	for i := range vectors {
		for j := i + 1; j < len(vectors); j++ {
			var s float32
			for k := range vectors[i] {
				s += vectors[i][k] * vectors[j][k]
			}
			if s > threshold {
				out = append(out, Pair{I: i, J: j, Score: s})
			}
		}
	}
	return out
}

// Neighbor is an exact nearest neighbor under cosine distance.
type Neighbor struct {
	ID       int
	Distance float32
}

// CosineNeighbors returns the k nearest neighbors of vectors[i], excluding i,
// by exact cosine distance. Ties break by ID.
func CosineNeighbors(vectors [][]float32, i, k int) []Neighbor {
	out := make([]Neighbor, 0, len(vectors))
	for j, v := range vectors {
		if j == i {
			continue
		}
		out = append(out, Neighbor{ID: j, Distance: distance.Cosine(vectors[i], v)})
	}
	slices.SortFunc(out, func(a, b Neighbor) int {
		if c := cmp.Compare(a.Distance, b.Distance); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	if len(out) > k {
		out = out[:k]
	}
	return out
}

// PairRecall is the fraction of truth pairs (ignoring order and score) that
// appear in approx. Empty truth has recall 1.
func PairRecall(truth, approx []Pair) float64 {
	if len(truth) == 0 {
		return 1.0
	}
	seen := make(map[[2]int]struct{}, len(approx))
	for _, p := range approx {
		q := NewPair(p.I, p.J, p.Score)
		seen[[2]int{q.I, q.J}] = struct{}{}
	}
	hits := 0
	for _, p := range truth {
		if _, ok := seen[[2]int{p.I, p.J}]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(truth))
}
