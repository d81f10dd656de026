package distance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/lloyd/model"
)

func TestEuclidean(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float64
		expected float64
	}{
		{"Simple", []float64{0, 0}, []float64{3, 4}, 5},
		{"Identical", []float64{1, 2, 3}, []float64{1, 2, 3}, 0},
		{"Negative", []float64{-1, -1}, []float64{1, 1}, math.Sqrt(8)},
		{"Single", []float64{2}, []float64{-3}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Euclidean(tt.a, tt.b), 1e-12)
		})
	}
}

func TestSquaredEuclidean(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float64
		expected float64
	}{
		{"Simple", []float64{1, 2, 3}, []float64{4, 5, 6}, 27},
		{"Zero", []float64{0, 0, 0}, []float64{0, 0, 0}, 0},
		{"Mixed", []float64{1, -1}, []float64{-1, 1}, 8},
		{"Empty", []float64{}, []float64{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SquaredEuclidean(tt.a, tt.b)
			assert.InDelta(t, tt.expected, got, 1e-12)
			assert.InDelta(t, math.Sqrt(tt.expected), Euclidean(tt.a, tt.b), 1e-12)
		})
	}
}

func TestDisplacement(t *testing.T) {
	a := model.Matrix{{0, 0}, {10, 0}}
	b := model.Matrix{{0, 3}, {10, 4}}

	// sqrt(3^2 + 4^2)
	assert.InDelta(t, 5.0, Displacement(a, b), 1e-12)
	assert.Zero(t, Displacement(a, a))
}

func TestDisplacement_IsAggregateNotPerCentroid(t *testing.T) {
	// Each centroid moves 0.6, the aggregate is 0.6*sqrt(2).
	a := model.Matrix{{0, 0}, {1, 1}}
	b := model.Matrix{{0.6, 0}, {1, 1.6}}
	assert.InDelta(t, 0.6*math.Sqrt2, Displacement(a, b), 1e-12)
}
