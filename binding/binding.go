// Package binding is the host-facing surface of the kernel: five functions
// with plain argument and result types, suitable for cgo exports or other
// language bridges. It only converts types; all behavior lives in identity
// and crystal.
package binding

import (
	"github.com/invariant-sdk/kernel/codec"
	"github.com/invariant-sdk/kernel/crystal"
	"github.com/invariant-sdk/kernel/identity"
)

// Tuple is an edge as seen by hosts.
type Tuple struct {
	Source uint    `json:"source"`
	Target uint    `json:"target"`
	Score  float32 `json:"score"`
}

// GetTokenHashHex returns the 64-char identity digest of s.
func GetTokenHashHex(s string) string {
	return identity.TokenDigestString(s)
}

// BondID returns the 16-char digest of the directed bond u -rel-> v.
func BondID(u, v, rel string) string {
	return identity.BondDigest(u, v, rel)
}

// GetInvariantMetrics returns (weight, depth, leaves, shape_hash) for s.
func GetInvariantMetrics(s string, atomic bool) (uint32, uint32, uint32, uint64) {
	return identity.ComputeMetrics([]byte(s), atomic).Tuple()
}

// CrystallizeAll runs the exact crystallizer.
func CrystallizeAll(vectors [][]float32, threshold float32) ([]Tuple, error) {
	edges, err := crystal.Exact(vectors, threshold)
	if err != nil {
		return nil, err
	}
	return toTuples(edges), nil
}

// CrystallizeHNSW runs the approximate crystallizer.
func CrystallizeHNSW(vectors [][]float32, threshold float32, topK uint) ([]Tuple, error) {
	edges, err := crystal.Approx(vectors, threshold, int(topK))
	if err != nil {
		return nil, err
	}
	return toTuples(edges), nil
}

// EncodeTuples packs tuples into a binary edge frame.
func EncodeTuples(tuples []Tuple, c codec.Compression) ([]byte, error) {
	edges := make([]crystal.Edge, len(tuples))
	for i, t := range tuples {
		edges[i] = crystal.Edge{Source: int(t.Source), Target: int(t.Target), Score: t.Score}
	}
	return codec.EncodeEdges(edges, c)
}

func toTuples(edges []crystal.Edge) []Tuple {
	if len(edges) == 0 {
		return []Tuple{}
	}
	out := make([]Tuple, len(edges))
	for i, e := range edges {
		out[i] = Tuple{Source: uint(e.Source), Target: uint(e.Target), Score: e.Score}
	}
	return out
}
