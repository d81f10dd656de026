package benchmark_test

import (
	"fmt"
	"testing"

	"github.com/hupe1980/lloyd"
	"github.com/hupe1980/lloyd/dataset"
	"github.com/hupe1980/lloyd/model"
	"github.com/hupe1980/lloyd/testutil"
)

func blobs(b *testing.B, n, dim, k int) model.Matrix {
	b.Helper()
	spec := dataset.Spec{NumPoints: n, Dim: dim, Low: -100, High: 100, Blobs: k, StdDev: 2}
	points, _, err := dataset.Generate(testutil.NewRand(1), spec)
	if err != nil {
		b.Fatal(err)
	}
	return points
}

// BenchmarkFit measures run-to-completion per strategy and problem size.
func BenchmarkFit(b *testing.B) {
	sizes := []struct{ n, dim, k int }{
		{1_000, 2, 4},
		{10_000, 2, 8},
		{10_000, 16, 8},
	}
	strategies := []lloyd.Strategy{
		lloyd.StrategyRandom,
		lloyd.StrategyFarthestFirst,
		lloyd.StrategyKMeansPlusPlus,
	}

	for _, sz := range sizes {
		points := blobs(b, sz.n, sz.dim, sz.k)
		for _, strategy := range strategies {
			b.Run(fmt.Sprintf("%s/n=%d/d=%d/k=%d", strategy, sz.n, sz.dim, sz.k), func(b *testing.B) {
				b.ReportAllocs()
				var iterations int
				seed := uint64(0)
				for b.Loop() {
					s, err := lloyd.NewSession(sz.k, strategy, lloyd.WithSeed(seed))
					if err != nil {
						b.Fatal(err)
					}
					if _, err := s.Fit(points); err != nil {
						b.Fatal(err)
					}
					iterations += s.Iteration()
					seed++
				}
				b.ReportMetric(float64(iterations)/float64(b.N), "iters/op")
			})
		}
	}
}

// BenchmarkStep measures a single update iteration.
func BenchmarkStep(b *testing.B) {
	points := blobs(b, 10_000, 2, 8)

	b.ReportAllocs()
	var s *lloyd.Session
	for b.Loop() {
		if s == nil || s.State().Terminal() {
			b.StopTimer()
			var err error
			s, err = lloyd.NewSession(8, lloyd.StrategyRandom, lloyd.WithSeed(3), lloyd.WithTolerance(1e-12))
			if err != nil {
				b.Fatal(err)
			}
			if _, _, err := s.Step(points); err != nil {
				b.Fatal(err)
			}
			b.StartTimer()
		}
		if _, _, err := s.Step(points); err != nil {
			b.Fatal(err)
		}
	}
}
