package kmeans

import (
	"fmt"
	"strings"
)

// Strategy selects how initial centroids are chosen.
type Strategy uint8

const (
	// StrategyRandom picks k distinct points uniformly without replacement.
	StrategyRandom Strategy = iota
	// StrategyFarthestFirst greedily picks the point farthest from the chosen centroids.
	StrategyFarthestFirst
	// StrategyKMeansPlusPlus samples proportionally to squared distance (Arthur & Vassilvitskii).
	StrategyKMeansPlusPlus
	// StrategyManual uses caller-supplied centroids.
	StrategyManual
)

func (s Strategy) String() string {
	switch s {
	case StrategyRandom:
		return "random"
	case StrategyFarthestFirst:
		return "farthest_first"
	case StrategyKMeansPlusPlus:
		return "kmeans++"
	case StrategyManual:
		return "manual"
	default:
		return fmt.Sprintf("Unknown(%d)", s)
	}
}

// Valid reports whether s is a known strategy.
func (s Strategy) Valid() bool {
	return s <= StrategyManual
}

// MarshalText implements encoding.TextMarshaler.
func (s Strategy) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStrategy, s)
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Strategy) UnmarshalText(text []byte) error {
	parsed, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseStrategy parses a strategy name. Matching is case-insensitive and
// accepts the common spellings used by clients ("farthest-first",
// "kmeans_plus_plus", ...).
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "random":
		return StrategyRandom, nil
	case "farthest_first", "farthest-first", "farthestfirst":
		return StrategyFarthestFirst, nil
	case "kmeans++", "kmeans_plus_plus", "kmeans-plus-plus", "kmeanspp":
		return StrategyKMeansPlusPlus, nil
	case "manual":
		return StrategyManual, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}
