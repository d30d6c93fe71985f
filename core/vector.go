package core

import (
	"fmt"
	"math"
)

// CosineSimilarity returns dot(a,b) / (|a| * |b|).
// Comparing an empty or zero-magnitude vector is an error rather than a zero
// score, and so is comparing vectors of different lengths.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d != %d", ErrDimensionMismatch, len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	if normA == 0 || normB == 0 {
		return 0, ErrZeroMagnitude
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// Magnitude returns the Euclidean norm of v.
func Magnitude(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}
