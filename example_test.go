package lloyd_test

import (
	"fmt"
	"log"

	"github.com/hupe1980/lloyd"
	"github.com/hupe1980/lloyd/model"
)

// ExampleSession_Fit clusters four points into two groups.
func ExampleSession_Fit() {
	points := model.Matrix{{0, 0}, {0, 1}, {10, 0}, {10, 1}}

	s, err := lloyd.NewSession(2, lloyd.StrategyManual,
		lloyd.WithInitialCentroids(model.Matrix{{0, 0}, {10, 0}}),
	)
	if err != nil {
		log.Fatal(err)
	}

	labels, err := s.Fit(points)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(labels, s.Centroids(), s.State())
	// Output: [0 0 1 1] [[0 0.5] [10 0.5]] converged
}

// ExampleSession_Step advances the algorithm one iteration per call.
func ExampleSession_Step() {
	points := model.Matrix{{0, 0}, {0, 1}, {10, 0}, {10, 1}}

	s, err := lloyd.NewSession(2, lloyd.StrategyFarthestFirst, lloyd.WithSeed(1))
	if err != nil {
		log.Fatal(err)
	}

	for {
		_, done, err := s.Step(points)
		if err != nil {
			log.Fatal(err)
		}
		if done {
			break
		}
	}

	fmt.Println(s.State(), len(s.Centroids()))
	// Output: converged 2
}

// ExampleNewSession shows the error returned for an invalid configuration.
func ExampleNewSession() {
	_, err := lloyd.NewSession(0, lloyd.StrategyRandom)
	fmt.Println(err)
	// Output: lloyd: new session: cluster count must be positive: got 0
}
