// Package hnsw implements Hierarchical Navigable Small World graphs.
//
// HNSW provides approximate nearest neighbor search with sub-linear query
// time. This implementation targets one-shot batch builds where the caller
// knows the number of elements up front. Distances are cosine: stored
// vectors and queries are L2-normalized, zero vectors are kept as-is.
//
// # Features
//
//   - Fixed node capacity with caller-assigned IDs
//   - Per-node RW locks; inserts are safe to run concurrently
//   - Entry point and max level packed into one atomic word
//   - Lock-free level RNG (xorshift64*)
//   - Heuristic (RNG-pruned) neighbor selection
//   - Stats with per-layer node and link counts
//
// # Parameters
//
//   - M: Max connections per node on upper layers (layer 0 uses 2*M)
//   - EF: Construction queue size
//   - MaxLayers: Upper bound on the number of layers
//
// # Reference
//
// Malkov & Yashunin, "Efficient and robust approximate nearest neighbor search
// using Hierarchical Navigable Small World graphs", IEEE TPAMI 2018.
package hnsw
