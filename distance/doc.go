// Package distance provides the similarity kernels used by the crystallizers.
//
// Kernels come from internal/math32, which picks its unroll width from the
// CPU features reported by golang.org/x/sys/cpu.
//
//   - Dot: raw inner product (exact crystallization score)
//   - Cosine: 1 - cosine similarity, zero vectors are at distance 1
//   - CosineNormalized: 1 - a·b for vectors normalized up front (graph index)
//
// # Usage
//
//	sim := distance.Dot(a, b)
//	d := distance.Cosine(a, b)
//	ok := distance.NormalizeL2InPlace(vec)
package distance
