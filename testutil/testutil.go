package testutil

import (
	"math"
	"math/rand/v2"
	"sync"

	"github.com/hupe1980/lloyd/model"
)

// NewRand returns a deterministic *rand.Rand for the given seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed uint64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed uint64) *RNG {
	return &RNG{
		rand: NewRand(seed),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand = NewRand(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() uint64 {
	return r.seed
}

// IntN returns a non-negative pseudo-random number in [0,n).
func (r *RNG) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.IntN(n)
}

// UniformPoints generates num points with components uniform in [lo, hi).
func (r *RNG) UniformPoints(num, dim int, lo, hi float64) model.Matrix {
	r.mu.Lock()
	defer r.mu.Unlock()

	points := make(model.Matrix, num)
	for i := range points {
		points[i] = make(model.Vector, dim)
		for j := range points[i] {
			points[i][j] = lo + r.rand.Float64()*(hi-lo)
		}
	}
	return points
}

// Blobs generates perBlob gaussian points around every center and returns
// them with the index of the generating center as ground truth.
func (r *RNG) Blobs(centers model.Matrix, perBlob int, stddev float64) (model.Matrix, model.Labels) {
	r.mu.Lock()
	defer r.mu.Unlock()

	points := make(model.Matrix, 0, len(centers)*perBlob)
	truth := make(model.Labels, 0, len(centers)*perBlob)
	for c, center := range centers {
		for range perBlob {
			p := make(model.Vector, len(center))
			for j := range p {
				p[j] = center[j] + r.rand.NormFloat64()*stddev
			}
			points = append(points, p)
			truth = append(truth, c)
		}
	}
	return points, truth
}

// FourCorners returns two trivially separated pairs: [[0,0],[0,1],[10,0],[10,1]].
func FourCorners() model.Matrix {
	return model.Matrix{{0, 0}, {0, 1}, {10, 0}, {10, 1}}
}

// Identical returns n copies of the same dim-dimensional point.
func Identical(n, dim int, value float64) model.Matrix {
	points := make(model.Matrix, n)
	for i := range points {
		points[i] = make(model.Vector, dim)
		for j := range points[i] {
			points[i][j] = value
		}
	}
	return points
}

// MatrixInDelta reports whether a and b have the same shape and all
// components differ by at most delta.
func MatrixInDelta(a, b model.Matrix, delta float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
		for j := range a[i] {
			if math.Abs(a[i][j]-b[i][j]) > delta {
				return false
			}
		}
	}
	return true
}

// SamePartition reports whether two labelings induce the same partition,
// ignoring the numbering of the clusters.
func SamePartition(a, b model.Labels) bool {
	if len(a) != len(b) {
		return false
	}
	ab := make(map[int]int)
	ba := make(map[int]int)
	for i := range a {
		if v, ok := ab[a[i]]; ok && v != b[i] {
			return false
		}
		if v, ok := ba[b[i]]; ok && v != a[i] {
			return false
		}
		ab[a[i]] = b[i]
		ba[b[i]] = a[i]
	}
	return true
}
