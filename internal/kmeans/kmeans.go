package kmeans

import (
	"gonum.org/v1/gonum/floats"

	"github.com/hupe1980/lloyd/distance"
	"github.com/hupe1980/lloyd/model"
)

// Assign labels every point with the index of its nearest centroid.
// Ties resolve to the lowest index. Inputs must already be validated and
// share the same dimension; centroids must be non-empty.
func Assign(points, centroids model.Matrix) model.Labels {
	labels := make(model.Labels, len(points))
	for i, p := range points {
		labels[i], _ = Nearest(p, centroids)
	}
	return labels
}

// Nearest returns the index of the closest centroid to p and its squared distance.
func Nearest(p model.Vector, centroids model.Matrix) (int, float64) {
	best := 0
	bestDist := distance.SquaredEuclidean(p, centroids[0])
	for j := 1; j < len(centroids); j++ {
		if d := distance.SquaredEuclidean(p, centroids[j]); d < bestDist {
			best = j
			bestDist = d
		}
	}
	return best, bestDist
}

// Update recomputes each centroid as the mean of the points labelled with its
// index. K is len(prev). A cluster without members keeps its previous
// position.
func Update(points model.Matrix, labels model.Labels, prev model.Matrix) model.Matrix {
	k := len(prev)
	dim := prev.Dim()

	next := make(model.Matrix, k)
	for j := range next {
		next[j] = make(model.Vector, dim)
	}
	counts := make([]int, k)

	for i, p := range points {
		c := labels[i]
		floats.Add(next[c], p)
		counts[c]++
	}

	for j := range k {
		if counts[j] == 0 {
			copy(next[j], prev[j])
			continue
		}
		floats.Scale(1/float64(counts[j]), next[j])
	}
	return next
}

// Converged returns the aggregate displacement between two centroid sets and
// whether it is strictly below tol.
func Converged(prev, next model.Matrix, tol float64) (float64, bool) {
	d := distance.Displacement(prev, next)
	return d, d < tol
}

// Inertia returns the within-cluster sum of squared distances.
func Inertia(points, centroids model.Matrix, labels model.Labels) float64 {
	var s float64
	for i, p := range points {
		s += distance.SquaredEuclidean(p, centroids[labels[i]])
	}
	return s
}

// Sizes returns the number of points assigned to each of the k clusters.
func Sizes(labels model.Labels, k int) []int {
	sizes := make([]int, k)
	for _, l := range labels {
		sizes[l]++
	}
	return sizes
}
