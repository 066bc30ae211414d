package identity

import (
	"crypto/sha256"
	"encoding/binary"
)

// atomicShapeMix is the multiplier applied to the length in atomic mode.
const atomicShapeMix uint64 = 0x517cc1b727220a95

var shapePrefix = []byte("shape:")

// Metrics describes the shape of the tree that encodes a string.
type Metrics struct {
	Weight    uint32
	Depth     uint32
	Leaves    uint32
	ShapeHash uint64
}

// Tuple returns the metrics as (weight, depth, leaves, shape_hash).
func (m Metrics) Tuple() (uint32, uint32, uint32, uint64) {
	return m.Weight, m.Depth, m.Leaves, m.ShapeHash
}

// ComputeMetrics derives the tree metrics of s analytically. L is len(s) in
// bytes and all arithmetic wraps at 32 bits.
//
// Atomic mode treats every byte as one atom chained by dyads:
// weight 2L, depth L, leaves L+1, and a shape hash that depends on L only,
// so equal-length strings share it.
//
// Bit mode describes the full bit-level encoding: depth 8+L, leaves 9L+1,
// and a shape hash from SHA256("shape:" || s). Weight is reported as 17L,
// which approximates the node count; it is kept for compatibility with
// stored metrics.
func ComputeMetrics(s []byte, atomic bool) Metrics {
	n := uint32(len(s))

	if atomic {
		return Metrics{
			Weight:    2 * n,
			Depth:     n,
			Leaves:    n + 1,
			ShapeHash: uint64(n) * atomicShapeMix,
		}
	}

	h := sha256.New()
	h.Write(shapePrefix)
	h.Write(s)
	var sum [sha256.Size]byte
	h.Sum(sum[:0])

	return Metrics{
		Weight:    17 * n,
		Depth:     8 + n,
		Leaves:    9*n + 1,
		ShapeHash: binary.LittleEndian.Uint64(sum[:8]),
	}
}
