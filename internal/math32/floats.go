// Package math32 provides float32 vector kernels.
// This is an internal package - external users should use the distance package.
package math32

import (
	"math"
	"runtime"

	"golang.org/x/sys/cpu"
)

// lanes is the number of independent accumulators used by the unrolled kernels.
// It follows the register width reported by the CPU so every partial sum can
// stay in its own register.
var lanes = 4

func init() {
	switch runtime.GOARCH {
	case "amd64":
		switch {
		case cpu.X86.HasAVX512F:
			lanes = 16
		case cpu.X86.HasAVX2:
			lanes = 8
		}
	case "arm64":
		if cpu.ARM64.HasASIMD {
			lanes = 8
		}
	}
}

// Lanes returns the accumulator width selected at init.
func Lanes() int { return lanes }

// Dot calculates the dot product of two vectors.
// Assumes len(b) >= len(a).
func Dot(a, b []float32) float32 {
	switch {
	case lanes >= 8 && len(a) >= 8:
		return dot8(a, b)
	case len(a) >= 4:
		return dot4(a, b)
	default:
		return dotGeneric(a, b)
	}
}

// ScaleInPlace multiplies all elements of a by scalar.
func ScaleInPlace(a []float32, scalar float32) {
	for i := range a {
		a[i] *= scalar
	}
}

// Sqrt returns the float32 square root of x.
func Sqrt(x float32) float32 {
	return float32(math.Sqrt(float64(x)))
}

func dotGeneric(a, b []float32) float32 {
	var ret float32
	for i := range a {
		ret += a[i] * b[i]
	}

	return ret
}

func dot4(a, b []float32) float32 {
	n := len(a)
	b = b[:n]

	var s0, s1, s2, s3 float32
	i := 0
	for ; i+4 <= n; i += 4 {
		s0 += a[i] * b[i]
		s1 += a[i+1] * b[i+1]
		s2 += a[i+2] * b[i+2]
		s3 += a[i+3] * b[i+3]
	}
	for ; i < n; i++ {
		s0 += a[i] * b[i]
	}

	return (s0 + s1) + (s2 + s3)
}

func dot8(a, b []float32) float32 {
	n := len(a)
	b = b[:n]

	var s0, s1, s2, s3, s4, s5, s6, s7 float32
	i := 0
	for ; i+8 <= n; i += 8 {
		s0 += a[i] * b[i]
		s1 += a[i+1] * b[i+1]
		s2 += a[i+2] * b[i+2]
		s3 += a[i+3] * b[i+3]
		s4 += a[i+4] * b[i+4]
		s5 += a[i+5] * b[i+5]
		s6 += a[i+6] * b[i+6]
		s7 += a[i+7] * b[i+7]
	}
	for ; i < n; i++ {
		s0 += a[i] * b[i]
	}

	return ((s0 + s1) + (s2 + s3)) + ((s4 + s5) + (s6 + s7))
}
