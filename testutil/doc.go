// Package testutil provides testing utilities for the kernel.
//
// This package is intended for use in tests and benchmarks only.
// It provides seeded vector generators, a brute-force crystallization
// oracle and recall helpers.
//
// # Random Vector Generation
//
//	rng := testutil.NewRNG(seed)
//	vecs := rng.UnitVectors(1000, 64)
//	clustered := rng.ClusteredVectors(1000, 64, 10, 0.05)
//
// # Ground Truth
//
//	truth := testutil.BruteForcePairs(vecs, 0.8)
//	nn := testutil.CosineNeighbors(vecs, i, k)
//
// # Recall Verification
//
//	recall := testutil.PairRecall(truth, approx)
package testutil
