package identity

import (
	"crypto/sha256"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
)

// mix multiplies at run time so the product wraps.
func mix(n uint64) uint64 { return n * atomicShapeMix }

func TestComputeMetricsAtomic(t *testing.T) {
	tests := []struct {
		in   string
		want Metrics
	}{
		{"", Metrics{0, 0, 1, 0}},
		{"cat", Metrics{6, 3, 4, mix(3)}},
		{"intelligence", Metrics{24, 12, 13, mix(12)}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeMetrics([]byte(tt.in), true))
		})
	}
}

func TestAtomicMetricsDependOnLengthOnly(t *testing.T) {
	assert.Equal(t, ComputeMetrics([]byte("cat"), true), ComputeMetrics([]byte("dog"), true))
	assert.NotEqual(t, ComputeMetrics([]byte("cat"), true), ComputeMetrics([]byte("cats"), true))
}

func TestAtomicShapeHashWraps(t *testing.T) {
	in := make([]byte, 1000)
	m := ComputeMetrics(in, true)
	assert.Equal(t, mix(1000), m.ShapeHash)
	assert.Equal(t, uint32(2000), m.Weight)
}

func TestComputeMetricsBitMode(t *testing.T) {
	m := ComputeMetrics([]byte("cat"), false)
	assert.Equal(t, uint32(51), m.Weight)
	assert.Equal(t, uint32(11), m.Depth)
	assert.Equal(t, uint32(28), m.Leaves)

	sum := sha256.Sum256([]byte("shape:cat"))
	assert.Equal(t, binary.LittleEndian.Uint64(sum[:8]), m.ShapeHash)
	assert.Equal(t, uint64(4205376254786103803), m.ShapeHash)

	empty := ComputeMetrics(nil, false)
	assert.Equal(t, uint32(0), empty.Weight)
	assert.Equal(t, uint32(8), empty.Depth)
	assert.Equal(t, uint32(1), empty.Leaves)
}

func TestBitModeShapeDependsOnContent(t *testing.T) {
	cat := ComputeMetrics([]byte("cat"), false)
	dog := ComputeMetrics([]byte("dog"), false)
	assert.Equal(t, cat.Weight, dog.Weight)
	assert.NotEqual(t, cat.ShapeHash, dog.ShapeHash)
}

func TestMetricsTuple(t *testing.T) {
	w, d, l, s := ComputeMetrics([]byte("ab"), true).Tuple()
	assert.Equal(t, uint32(4), w)
	assert.Equal(t, uint32(2), d)
	assert.Equal(t, uint32(3), l)
	assert.Equal(t, mix(2), s)
}
