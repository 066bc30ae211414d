// Package crystal turns a collection of embedding vectors into a sparse
// similarity graph ("crystallization").
//
// Two strategies are provided:
//
//   - Exact scans every unordered pair (i, j), i < j, and emits the raw dot
//     product when it exceeds the threshold. Quadratic, complete.
//   - Approx indexes all vectors in an HNSW graph under cosine distance and
//     queries each vector for its nearest neighbors. Sub-quadratic, recall
//     below 100% is possible and the result is not symmetrized.
//
// Both run one task per vector on a fixed worker pool and merge the per-task
// edge slices after all tasks join. Edge order is unspecified; use Sort or
// Canonicalize for a stable view.
//
// Example:
//
//	edges, err := crystal.Exact(vectors, 0.8)
//	if err != nil {
//		return err
//	}
//	crystal.Sort(edges)
package crystal
