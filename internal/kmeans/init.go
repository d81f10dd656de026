package kmeans

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/hupe1980/lloyd/distance"
	"github.com/hupe1980/lloyd/model"
)

// Initialize selects k initial centroids from points using one of the
// sampling strategies. StrategyManual is rejected here; use Manual.
//
// The returned centroids are copies of points. If rng is nil a randomly
// seeded source is used.
func Initialize(points model.Matrix, k int, strategy Strategy, rng *rand.Rand) (model.Matrix, error) {
	if !strategy.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStrategy, strategy)
	}
	if strategy == StrategyManual {
		return nil, ErrManualCentroids
	}
	if k < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidK, k)
	}
	if err := points.Validate(); err != nil {
		return nil, err
	}
	if len(points) < k {
		return nil, fmt.Errorf("%w: k=%d, points=%d", ErrTooFewPoints, k, len(points))
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	switch strategy {
	case StrategyFarthestFirst:
		return farthestFirst(points, k, rng.IntN(len(points))), nil
	case StrategyKMeansPlusPlus:
		return kmeansPlusPlus(points, k, rng.IntN(len(points)), rng), nil
	default:
		return randomSample(points, k, rng), nil
	}
}

// Manual validates caller-supplied centroids against points and returns a copy.
func Manual(points model.Matrix, k int, centroids model.Matrix) (model.Matrix, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidK, k)
	}
	if err := points.Validate(); err != nil {
		return nil, err
	}
	if len(centroids) != k {
		return nil, fmt.Errorf("%w: got %d centroids for k=%d", ErrManualCentroids, len(centroids), k)
	}
	if err := centroids.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrManualCentroids, err)
	}
	if centroids.Dim() != points.Dim() {
		return nil, fmt.Errorf("%w: centroids have dimension %d, points %d", ErrDimensionMismatch, centroids.Dim(), points.Dim())
	}
	return centroids.Clone(), nil
}

func randomSample(points model.Matrix, k int, rng *rand.Rand) model.Matrix {
	perm := rng.Perm(len(points))
	centroids := make(model.Matrix, k)
	for i := range k {
		centroids[i] = points[perm[i]].Clone()
	}
	return centroids
}

// farthestFirst seeds with points[first] and then repeatedly adds the point
// with the largest distance to its nearest chosen centroid. Ties resolve to
// the lowest index.
func farthestFirst(points model.Matrix, k int, first int) model.Matrix {
	centroids := make(model.Matrix, 0, k)
	centroids = append(centroids, points[first].Clone())

	minDist := make([]float64, len(points))
	for i, p := range points {
		minDist[i] = distance.Euclidean(p, centroids[0])
	}

	for len(centroids) < k {
		next := points[floats.MaxIdx(minDist)].Clone()
		centroids = append(centroids, next)
		for i, p := range points {
			if d := distance.Euclidean(p, next); d < minDist[i] {
				minDist[i] = d
			}
		}
	}
	return centroids
}

// kmeansPlusPlus seeds with points[first] and samples each further centroid
// with probability proportional to the squared distance to the nearest
// chosen centroid. Points coinciding with a centroid have weight zero and are
// never picked. When every weight is zero it falls back to uniform sampling.
func kmeansPlusPlus(points model.Matrix, k int, first int, rng *rand.Rand) model.Matrix {
	n := len(points)
	centroids := make(model.Matrix, 0, k)
	centroids = append(centroids, points[first].Clone())

	weights := make([]float64, n)
	for i, p := range points {
		weights[i] = distance.SquaredEuclidean(p, centroids[0])
	}
	cum := make([]float64, n)

	for len(centroids) < k {
		floats.CumSum(cum, weights)
		total := cum[n-1]

		var idx int
		if total > 0 {
			r := rng.Float64() * total
			idx = sort.Search(n, func(i int) bool { return cum[i] > r })
			if idx == n {
				// r landed on the total through rounding.
				idx = lastPositive(weights)
			}
		} else {
			idx = rng.IntN(n)
		}

		next := points[idx].Clone()
		centroids = append(centroids, next)
		for i, p := range points {
			if d := distance.SquaredEuclidean(p, next); d < weights[i] {
				weights[i] = d
			}
		}
	}
	return centroids
}

func lastPositive(w []float64) int {
	for i := len(w) - 1; i >= 0; i-- {
		if w[i] > 0 {
			return i
		}
	}
	return len(w) - 1
}
