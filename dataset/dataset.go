package dataset

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"

	"github.com/hupe1980/lloyd/model"
)

const (
	// DefaultDim is the dimensionality used when none is requested.
	DefaultDim = 2
	// DefaultLow is the default lower bound of the sampling box.
	DefaultLow = -10.0
	// DefaultHigh is the default upper bound of the sampling box.
	DefaultHigh = 10.0
	// DefaultStdDev is the default blob standard deviation.
	DefaultStdDev = 1.0
)

// ErrInvalidSpec is returned by Generate for an unusable Spec.
var ErrInvalidSpec = errors.New("dataset: invalid spec")

// Spec describes a synthetic point set.
type Spec struct {
	NumPoints int
	Dim       int
	Low       float64
	High      float64

	// Blobs is the number of gaussian clusters. Zero means uniform sampling.
	Blobs  int
	StdDev float64
}

// DefaultSpec returns a uniform [-10, 10]² spec with n points.
func DefaultSpec(n int) Spec {
	return Spec{
		NumPoints: n,
		Dim:       DefaultDim,
		Low:       DefaultLow,
		High:      DefaultHigh,
		StdDev:    DefaultStdDev,
	}
}

// Validate checks that s describes a non-empty, finite point set.
func (s Spec) Validate() error {
	switch {
	case s.NumPoints < 1:
		return fmt.Errorf("%w: num_points must be positive, got %d", ErrInvalidSpec, s.NumPoints)
	case s.Dim < 1:
		return fmt.Errorf("%w: dim must be positive, got %d", ErrInvalidSpec, s.Dim)
	case math.IsNaN(s.Low) || math.IsNaN(s.High) || math.IsInf(s.Low, 0) || math.IsInf(s.High, 0):
		return fmt.Errorf("%w: bounds must be finite", ErrInvalidSpec)
	case s.Low >= s.High:
		return fmt.Errorf("%w: low (%v) must be below high (%v)", ErrInvalidSpec, s.Low, s.High)
	case s.Blobs < 0:
		return fmt.Errorf("%w: blobs must not be negative, got %d", ErrInvalidSpec, s.Blobs)
	case s.Blobs > s.NumPoints:
		return fmt.Errorf("%w: %d blobs need at least as many points, got %d", ErrInvalidSpec, s.Blobs, s.NumPoints)
	case s.Blobs > 0 && (!(s.StdDev > 0) || math.IsInf(s.StdDev, 0)):
		return fmt.Errorf("%w: stddev must be positive, got %v", ErrInvalidSpec, s.StdDev)
	}
	return nil
}

// Generate draws a point set according to spec. The second return value
// holds the generating blob per point, or nil for uniform data.
func Generate(rng *rand.Rand, spec Spec) (model.Matrix, model.Labels, error) {
	if err := spec.Validate(); err != nil {
		return nil, nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	if spec.Blobs == 0 {
		return Uniform(rng, spec.NumPoints, spec.Dim, spec.Low, spec.High), nil, nil
	}

	centers := Uniform(rng, spec.Blobs, spec.Dim, spec.Low, spec.High)
	points, truth := Blobs(rng, spec.NumPoints, centers, spec.StdDev)
	return points, truth, nil
}

// Uniform returns n points with components uniform in [low, high).
func Uniform(rng *rand.Rand, n, dim int, low, high float64) model.Matrix {
	points := make(model.Matrix, n)
	for i := range points {
		p := make(model.Vector, dim)
		for j := range p {
			p[j] = rng.Float64()
		}
		floats.Scale(high-low, p)
		floats.AddConst(low, p)
		points[i] = p
	}
	return points
}

// Blobs returns n gaussian points spread round-robin over centers, together
// with the index of each point's center.
func Blobs(rng *rand.Rand, n int, centers model.Matrix, stddev float64) (model.Matrix, model.Labels) {
	points := make(model.Matrix, n)
	truth := make(model.Labels, n)
	for i := range points {
		c := i % len(centers)
		p := make(model.Vector, len(centers[c]))
		for j := range p {
			p[j] = rng.NormFloat64()
		}
		floats.Scale(stddev, p)
		floats.Add(p, centers[c])
		points[i] = p
		truth[i] = c
	}
	return points, truth
}
