package lloyd

import (
	"fmt"

	"github.com/hupe1980/lloyd/internal/kmeans"
)

// Strategy selects how initial centroids are chosen.
type Strategy = kmeans.Strategy

const (
	// StrategyRandom picks k distinct points uniformly without replacement.
	StrategyRandom = kmeans.StrategyRandom
	// StrategyFarthestFirst greedily spreads centroids apart. Sensitive to outliers.
	StrategyFarthestFirst = kmeans.StrategyFarthestFirst
	// StrategyKMeansPlusPlus samples proportionally to squared distance.
	StrategyKMeansPlusPlus = kmeans.StrategyKMeansPlusPlus
	// StrategyManual uses centroids supplied with WithInitialCentroids.
	StrategyManual = kmeans.StrategyManual
)

// ParseStrategy parses a strategy name such as "random", "farthest_first",
// "kmeans++" or "manual".
func ParseStrategy(name string) (Strategy, error) {
	s, err := kmeans.ParseStrategy(name)
	if err != nil {
		return s, translateError("parse strategy", err)
	}
	return s, nil
}

// State is the lifecycle state of a Session.
type State uint8

const (
	// StateUninitialized means no centroids have been materialized yet.
	StateUninitialized State = iota
	// StateRunning means centroids exist and further iterations are possible.
	StateRunning
	// StateConverged is terminal: centroid displacement fell below the tolerance.
	StateConverged
	// StateExhausted is terminal: the iteration cap was reached without convergence.
	StateExhausted
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateRunning:
		return "running"
	case StateConverged:
		return "converged"
	case StateExhausted:
		return "exhausted"
	default:
		return fmt.Sprintf("Unknown(%d)", s)
	}
}

// Terminal reports whether no further iterations are allowed.
func (s State) Terminal() bool {
	return s == StateConverged || s == StateExhausted
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *State) UnmarshalText(text []byte) error {
	for _, st := range []State{StateUninitialized, StateRunning, StateConverged, StateExhausted} {
		if st.String() == string(text) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("lloyd: unknown state %q", text)
}
