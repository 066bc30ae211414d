package math32

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDot(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float32
	}{
		{"Positive values", []float32{1, 2, 3}, []float32{4, 5, 6}, 32.0},
		{"Negative values", []float32{-1, -2, -3}, []float32{-4, -5, -6}, 32.0},
		{"More than 4", []float32{1, 2, 3, 1, 2, 3}, []float32{4, 5, 6, 4, 5, 6}, 64.0},
		{"More than 8", []float32{1, 1, 1, 1, 1, 1, 1, 1, 1, 2}, []float32{1, 1, 1, 1, 1, 1, 1, 1, 1, 3}, 15.0},
		{"Mixed values", []float32{1, -2, 3}, []float32{-4, 5, -6}, -32.0},
		{"Zero values", []float32{0, 0, 0}, []float32{0, 0, 0}, 0.0},
		{"Empty", nil, nil, 0.0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := Dot(tc.a, tc.b)
			assert.Equal(t, tc.expected, result)
		})
	}
}

func TestDotMatchesGeneric(t *testing.T) {
	r := rand.New(rand.NewSource(7)) // nolint gosec
	for _, n := range []int{1, 3, 4, 7, 8, 9, 15, 16, 17, 33, 128, 1000} {
		a := make([]float32, n)
		b := make([]float32, n)
		for i := range a {
			a[i] = r.Float32()*2 - 1
			b[i] = r.Float32()*2 - 1
		}
		want := dotGeneric(a, b)
		assert.InDelta(t, want, dot4(a, b), 1e-3, "dot4 n=%d", n)
		assert.InDelta(t, want, Dot(a, b), 1e-3, "Dot n=%d", n)
		if n >= 8 {
			assert.InDelta(t, want, dot8(a, b), 1e-3, "dot8 n=%d", n)
		}
	}
}

func TestScaleInPlace(t *testing.T) {
	v := []float32{1, 2, 3}
	ScaleInPlace(v, 2)
	assert.Equal(t, []float32{2, 4, 6}, v)
}

func TestLanes(t *testing.T) {
	assert.Contains(t, []int{4, 8, 16}, Lanes())
}

func BenchmarkDot(b *testing.B) {
	const size = 1024
	va := make([]float32, size)
	vb := make([]float32, size)

	for i := range va {
		va[i] = rand.Float32() // nolint gosec
		vb[i] = rand.Float32() // nolint gosec
	}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = Dot(va, vb)
	}
}
