package kmeans

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/lloyd/model"
	"github.com/hupe1980/lloyd/testutil"
)

func TestAssign(t *testing.T) {
	points := testutil.FourCorners()
	centroids := model.Matrix{{0, 0}, {10, 0}}

	labels := Assign(points, centroids)
	assert.Equal(t, model.Labels{0, 0, 1, 1}, labels)
}

func TestAssign_TiesToLowestIndex(t *testing.T) {
	points := model.Matrix{{5, 0}}
	centroids := model.Matrix{{0, 0}, {10, 0}, {5, 5}, {5, -5}}

	assert.Equal(t, model.Labels{0}, Assign(points, centroids))
}

func TestAssign_LabelsInRangeAndIdempotent(t *testing.T) {
	rng := testutil.NewRNG(11)
	points := rng.UniformPoints(200, 4, -10, 10)
	centroids, err := Initialize(points, 7, StrategyKMeansPlusPlus, testutil.NewRand(11))
	assert.NoError(t, err)

	first := Assign(points, centroids)
	second := Assign(points, centroids)

	assert.Equal(t, first, second)
	for _, l := range first {
		assert.GreaterOrEqual(t, l, 0)
		assert.Less(t, l, 7)
	}
}

func TestNearest(t *testing.T) {
	centroids := model.Matrix{{0, 0}, {10, 10}, {20, 20}}

	idx, d := Nearest(model.Vector{19, 19}, centroids)
	assert.Equal(t, 2, idx)
	assert.InDelta(t, 2.0, d, 1e-12)
}

func TestUpdate(t *testing.T) {
	points := testutil.FourCorners()
	labels := model.Labels{0, 0, 1, 1}
	prev := model.Matrix{{0, 0}, {10, 0}}

	next := Update(points, labels, prev)
	assert.Equal(t, model.Matrix{{0, 0.5}, {10, 0.5}}, next)
	assert.Equal(t, model.Matrix{{0, 0}, {10, 0}}, prev, "prev must not be mutated")
}

func TestUpdate_EmptyClusterKeepsPreviousCentroid(t *testing.T) {
	points := model.Matrix{{0, 0}, {0, 2}}
	prev := model.Matrix{{0, 0}, {50, -7}, {0, 1}}
	labels := Assign(points, prev)
	assert.Equal(t, model.Labels{0, 2}, labels)

	next := Update(points, labels, prev)

	assert.Equal(t, model.Vector{50, -7}, next[1])
	for _, c := range next {
		for _, x := range c {
			assert.False(t, math.IsNaN(x))
		}
	}

	// Returned centroid is a copy.
	next[1][0] = 0
	assert.Equal(t, 50.0, prev[1][0])
}

func TestUpdate_Shape(t *testing.T) {
	points := testutil.NewRNG(2).UniformPoints(30, 5, 0, 1)
	prev, _ := Initialize(points, 4, StrategyRandom, testutil.NewRand(2))

	next := Update(points, Assign(points, prev), prev)
	assert.Len(t, next, 4)
	assert.Equal(t, 5, next.Dim())
}

func TestConverged(t *testing.T) {
	a := model.Matrix{{0, 0}, {1, 1}}
	converged := func(next model.Matrix, tol float64) bool {
		_, ok := Converged(a, next, tol)
		return ok
	}

	d, ok := Converged(a, a, 1e-4)
	assert.True(t, ok)
	assert.Equal(t, 0.0, d)
	assert.True(t, converged(model.Matrix{{0, 0.00005}, {1, 1}}, 1e-4))
	assert.False(t, converged(model.Matrix{{0, 0.5}, {1, 1}}, 0.5), "threshold is strict")
	// Per-centroid moves below tol can still sum above it.
	assert.False(t, converged(model.Matrix{{0, 0.00008}, {1, 1.00008}}, 1e-4))
}

func TestInertiaAndSizes(t *testing.T) {
	points := testutil.FourCorners()
	centroids := model.Matrix{{0, 0.5}, {10, 0.5}}
	labels := model.Labels{0, 0, 1, 1}

	assert.InDelta(t, 1.0, Inertia(points, centroids, labels), 1e-12)
	assert.Equal(t, []int{2, 2}, Sizes(labels, 2))
	assert.Equal(t, []int{2, 2, 0}, Sizes(labels, 3))
}
