package lloyd

import (
	"log/slog"
	"math/rand/v2"

	"github.com/hupe1980/lloyd/model"
)

const (
	// DefaultMaxIterations is the iteration cap used when none is configured.
	DefaultMaxIterations = 300

	// DefaultTolerance is the convergence threshold used when none is configured.
	DefaultTolerance = 1e-4
)

type options struct {
	maxIterations    int
	tolerance        float64
	rng              *rand.Rand
	initial          model.Matrix
	logger           *Logger
	metricsCollector MetricsCollector
}

func defaultOptions() options {
	return options{
		maxIterations: DefaultMaxIterations,
		tolerance:     DefaultTolerance,
	}
}

// Option configures a Session.
type Option func(*options)

// WithMaxIterations sets the iteration cap (default 300).
func WithMaxIterations(n int) Option {
	return func(o *options) {
		o.maxIterations = n
	}
}

// WithTolerance sets the convergence threshold on the aggregate centroid
// displacement (default 1e-4).
func WithTolerance(tol float64) Option {
	return func(o *options) {
		o.tolerance = tol
	}
}

// WithRand sets the random source used for seeding.
// The source is owned by the session afterwards and must not be shared with
// concurrently running sessions.
//
// If nil is passed, a randomly seeded source is used.
func WithRand(r *rand.Rand) Option {
	return func(o *options) {
		o.rng = r
	}
}

// WithSeed seeds the session's random source for reproducible initialization.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.rng = rand.New(rand.NewPCG(seed, seed))
	}
}

// WithInitialCentroids supplies the centroids used by StrategyManual.
// The matrix is copied.
//
// Example:
//
//	s, _ := lloyd.NewSession(2, lloyd.StrategyManual,
//	    lloyd.WithInitialCentroids(model.Matrix{{0, 0}, {10, 0}}))
func WithInitialCentroids(c model.Matrix) Option {
	return func(o *options) {
		o.initial = c.Clone()
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := lloyd.NewJSONLogger(slog.LevelDebug)
//	s, _ := lloyd.NewSession(3, lloyd.StrategyKMeansPlusPlus, lloyd.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector configures a metrics collector for Fit and Step.
// Pass nil to disable metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}
