// Package lloyd provides a steppable K-Means (Lloyd's algorithm) engine.
//
// A Session partitions an in-memory point set into a fixed number of clusters.
// It supports three seeding strategies plus caller-supplied centroids, and
// two execution modes: run-to-completion and single-step.
//
// # Quick Start
//
// Run to completion:
//
//	s, err := lloyd.NewSession(3, lloyd.StrategyKMeansPlusPlus, lloyd.WithSeed(42))
//	if err != nil {
//	    panic(err)
//	}
//	labels, err := s.Fit(points)
//	centroids := s.Centroids()
//
// Step one iteration at a time (e.g. to animate the algorithm):
//
//	s, _ := lloyd.NewSession(3, lloyd.StrategyFarthestFirst, lloyd.WithMaxIterations(50))
//	for {
//	    labels, done, err := s.Step(points)
//	    if err != nil {
//	        return err
//	    }
//	    render(s.Centroids(), labels)
//	    if done {
//	        break
//	    }
//	}
//
// # Session Lifecycle
//
//	Uninitialized --Step/Fit--> Running --converged--> Converged
//	                                    \--cap------> Exhausted
//
// The first Step seeds the centroids (iteration 0). Each further Step assigns
// labels with the committed centroids and recomputes the means; the terminal
// Step returns its labels without committing the new means, so the returned
// labels always correspond to Centroids(). Step or Fit on a terminal session
// returns ErrSessionFinished; Reset re-arms it.
//
// # Errors
//
// Invalid configuration and incompatible input produce a *ConfigurationError
// (errors.Is(err, lloyd.ErrConfiguration)). A failed call never mutates the
// session.
//
// # Concurrency
//
// Sessions are not safe for concurrent use. Give each client its own session
// or serialize access with a lock.
package lloyd
