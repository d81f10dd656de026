// Package testutil provides testing utilities for lloyd.
//
// This package is intended for use in tests and benchmarks only.
// It provides deterministic random sources, small hand-built point sets
// with a known clustering, and tolerance-based matrix comparison.
//
// # Random Sources
//
//	rng := testutil.NewRNG(seed)
//	points := rng.UniformPoints(100, 2, -10, 10)
//	src := testutil.NewRand(seed) // *rand.Rand for lloyd.WithRand
//
// # Fixtures
//
//	points := testutil.FourCorners()        // [[0,0],[0,1],[10,0],[10,1]]
//	points, truth := rng.Blobs(centers, 50, 0.3)
package testutil
