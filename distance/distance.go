package distance

import (
	"gonum.org/v1/gonum/floats"

	"github.com/hupe1980/lloyd/model"
)

// Euclidean calculates the L2 distance between two vectors.
// Assumes vectors are the same length (caller's responsibility).
func Euclidean(a, b []float64) float64 {
	return floats.Distance(a, b, 2)
}

// SquaredEuclidean calculates the squared L2 distance between two vectors.
// Assumes vectors are the same length (caller's responsibility).
func SquaredEuclidean(a, b []float64) float64 {
	var s float64
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return s
}

// Displacement returns the Euclidean norm of the flattened difference between
// two centroid sets of identical shape.
//
// It is the single scalar used for convergence: sqrt(sum_j ||a_j - b_j||^2).
func Displacement(a, b model.Matrix) float64 {
	return floats.Distance(a.Flatten(), b.Flatten(), 2)
}
