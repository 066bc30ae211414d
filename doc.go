// Package kernel is the identity and crystallization core of the Invariant SDK.
//
// It offers two families of operations:
//
//   - Identity: content-addressed token digests built from a Merkle tree over
//     the token's bytes, 16-hex-char bond identifiers, and analytic tree
//     metrics. See package identity.
//   - Crystallization: turning a vector collection into a sparse similarity
//     graph, exactly (all pairs) or approximately (HNSW). See package crystal.
//
// # Quick Start
//
//	k, _ := kernel.New(kernel.WithMode(kernel.ModeApprox), kernel.WithTopK(16))
//	id := k.Digest("intelligence")
//	edges, err := k.Crystallize(ctx, vectors, 0.8)
//
// # Configuration
//
// Options can also come from YAML:
//
//	cfg, err := kernel.LoadConfig("kernel.yaml")
//	k, err := kernel.New(cfg.Options()...)
//
// # Observability
//
// Structured logs go through Logger (log/slog). Metrics go through a
// MetricsCollector; BasicMetricsCollector keeps atomic in-memory counters.
//
// Host bindings with plain types live in package binding.
package kernel
