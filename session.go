package lloyd

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/hupe1980/lloyd/internal/kmeans"
	"github.com/hupe1980/lloyd/model"
)

// Session runs Lloyd's algorithm over a caller-supplied point set, either to
// completion (Fit) or one iteration per call (Step).
//
// A Session is not safe for concurrent use. Hosting layers that share a
// session between requests must serialize access to it, and must create a
// new session when the cluster count changes.
type Session struct {
	k        int
	strategy Strategy
	opts     options
	rng      *rand.Rand
	logger   *Logger
	metrics  MetricsCollector

	state     State
	centroids model.Matrix
	labels    model.Labels
	iteration int
	inertia   float64
}

// NewSession creates an uninitialized session for k clusters.
func NewSession(k int, strategy Strategy, optFns ...Option) (*Session, error) {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	const op = "new session"
	if !strategy.Valid() {
		return nil, configError(op, fmt.Errorf("%w: %s", ErrUnknownStrategy, strategy))
	}
	if k < 1 {
		return nil, configError(op, fmt.Errorf("%w: got %d", ErrInvalidK, k))
	}
	if opts.maxIterations < 1 {
		return nil, configError(op, fmt.Errorf("%w: got %d", ErrInvalidMaxIterations, opts.maxIterations))
	}
	if !(opts.tolerance > 0) || math.IsInf(opts.tolerance, 0) {
		return nil, configError(op, fmt.Errorf("%w: got %v", ErrInvalidTolerance, opts.tolerance))
	}
	switch {
	case strategy == StrategyManual && len(opts.initial) != k:
		return nil, configError(op, fmt.Errorf("%w: got %d centroids for k=%d", ErrInvalidInitialCentroids, len(opts.initial), k))
	case strategy != StrategyManual && opts.initial != nil:
		return nil, configError(op, fmt.Errorf("%w: initial centroids require the manual strategy", ErrInvalidInitialCentroids))
	}

	rng := opts.rng
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	logger := opts.logger
	if logger == nil {
		logger = NoopLogger()
	}

	var mc MetricsCollector = NoopMetricsCollector{}
	if opts.metricsCollector != nil {
		mc = opts.metricsCollector
	}

	return &Session{
		k:        k,
		strategy: strategy,
		opts:     opts,
		rng:      rng,
		logger:   logger.WithK(k).WithStrategy(strategy),
		metrics:  mc,
		state:    StateUninitialized,
	}, nil
}

// Fit runs Lloyd's algorithm until convergence or until the iteration cap is
// reached and returns the final labels.
//
// From StateUninitialized the centroids are seeded first. From StateRunning
// (after one or more Step calls) Fit continues from the committed centroids.
// The returned labels are computed against Centroids().
func (s *Session) Fit(points model.Matrix) (model.Labels, error) {
	start := time.Now()
	labels, err := s.fit(points)
	s.metrics.RecordFit(s.iteration, s.state, time.Since(start), err)
	s.logger.LogFit(len(points), s.iteration, s.state, err)
	return labels, err
}

func (s *Session) fit(points model.Matrix) (model.Labels, error) {
	switch s.state {
	case StateConverged, StateExhausted:
		return nil, ErrSessionFinished
	case StateUninitialized:
		if err := s.initialize(points); err != nil {
			return nil, err
		}
	default:
		if err := s.checkPoints("fit", points); err != nil {
			return nil, err
		}
	}

	for {
		if labels, done := s.iterate(points); done {
			return labels.Clone(), nil
		}
	}
}

// Step advances the algorithm by one iteration.
//
// The first call seeds the centroids (iteration 0) and returns the labels
// against them without updating. Every further call assigns labels with the
// committed centroids and computes their means. If the means moved less than
// the tolerance, or the iteration cap is reached, Step returns (labels, true)
// and the session becomes terminal without committing the new means.
// Otherwise the new means are committed, the iteration counter increments
// and Step returns (labels, false).
//
// Step on a terminal session returns ErrSessionFinished.
func (s *Session) Step(points model.Matrix) (model.Labels, bool, error) {
	start := time.Now()
	labels, done, err := s.step(points)
	s.metrics.RecordStep(s.iteration, s.state, time.Since(start), err)
	return labels, done, err
}

func (s *Session) step(points model.Matrix) (model.Labels, bool, error) {
	switch s.state {
	case StateConverged, StateExhausted:
		return nil, true, ErrSessionFinished
	case StateUninitialized:
		if err := s.initialize(points); err != nil {
			return nil, false, err
		}
		s.labels = kmeans.Assign(points, s.centroids)
		s.inertia = kmeans.Inertia(points, s.centroids, s.labels)
		return s.labels.Clone(), false, nil
	}

	if err := s.checkPoints("step", points); err != nil {
		return nil, false, err
	}

	labels, done := s.iterate(points)
	return labels.Clone(), done, nil
}

// initialize seeds the centroids. The session is only mutated on success.
func (s *Session) initialize(points model.Matrix) error {
	var (
		centroids model.Matrix
		err       error
	)
	if s.strategy == StrategyManual {
		centroids, err = kmeans.Manual(points, s.k, s.opts.initial)
	} else {
		centroids, err = kmeans.Initialize(points, s.k, s.strategy, s.rng)
	}
	s.logger.LogInitialize(len(points), points.Dim(), err)
	if err != nil {
		return translateError("initialize", err)
	}

	s.centroids = centroids
	s.iteration = 0
	s.state = StateRunning
	return nil
}

// iterate performs one assign+update round on validated points.
func (s *Session) iterate(points model.Matrix) (model.Labels, bool) {
	labels := kmeans.Assign(points, s.centroids)
	next := kmeans.Update(points, labels, s.centroids)
	displacement, converged := kmeans.Converged(s.centroids, next, s.opts.tolerance)
	s.labels = labels
	s.inertia = kmeans.Inertia(points, s.centroids, labels)

	switch {
	case converged:
		s.state = StateConverged
	case s.iteration+1 >= s.opts.maxIterations:
		s.state = StateExhausted
	default:
		s.centroids = next
		s.iteration++
	}

	s.logger.LogStep(s.iteration, displacement, s.state)
	return labels, s.state.Terminal()
}

func (s *Session) checkPoints(op string, points model.Matrix) error {
	if err := points.Validate(); err != nil {
		return translateError(op, err)
	}
	if dim := s.centroids.Dim(); points.Dim() != dim {
		return configError(op, &DimensionError{Expected: dim, Actual: points.Dim()})
	}
	return nil
}

// Reset returns the session to StateUninitialized, discarding centroids,
// labels and the iteration counter. The random source keeps its position.
func (s *Session) Reset() {
	s.state = StateUninitialized
	s.centroids = nil
	s.labels = nil
	s.iteration = 0
	s.inertia = 0
}

// Predict returns the index of the committed centroid closest to p.
func (s *Session) Predict(p model.Vector) (int, error) {
	if s.centroids == nil {
		return 0, ErrNotInitialized
	}
	if len(p) != s.centroids.Dim() {
		return 0, configError("predict", &DimensionError{Expected: s.centroids.Dim(), Actual: len(p)})
	}
	idx, _ := kmeans.Nearest(p, s.centroids)
	return idx, nil
}

// Inertia returns the within-cluster sum of squared distances of points to
// the committed centroids.
func (s *Session) Inertia(points model.Matrix) (float64, error) {
	if s.centroids == nil {
		return 0, ErrNotInitialized
	}
	if err := s.checkPoints("inertia", points); err != nil {
		return 0, err
	}
	return kmeans.Inertia(points, s.centroids, kmeans.Assign(points, s.centroids)), nil
}

// K returns the cluster count.
func (s *Session) K() int { return s.k }

// Strategy returns the initialization strategy.
func (s *Session) Strategy() Strategy { return s.strategy }

// MaxIterations returns the iteration cap.
func (s *Session) MaxIterations() int { return s.opts.maxIterations }

// Tolerance returns the convergence threshold.
func (s *Session) Tolerance() float64 { return s.opts.tolerance }

// State returns the lifecycle state.
func (s *Session) State() State { return s.state }

// Iteration returns the number of committed updates.
func (s *Session) Iteration() int { return s.iteration }

// Centroids returns a copy of the committed centroids, or nil before
// initialization.
func (s *Session) Centroids() model.Matrix { return s.centroids.Clone() }

// Labels returns a copy of the most recently returned labels.
func (s *Session) Labels() model.Labels { return s.labels.Clone() }

// Sizes returns the member count per cluster for the most recent labels.
func (s *Session) Sizes() []int {
	if s.labels == nil {
		return nil
	}
	return kmeans.Sizes(s.labels, s.k)
}

// Snapshot is a point-in-time copy of a session's observable state.
type Snapshot struct {
	K             int          `json:"k"`
	Strategy      Strategy     `json:"strategy"`
	State         State        `json:"state"`
	Iteration     int          `json:"iteration"`
	MaxIterations int          `json:"max_iterations"`
	Tolerance     float64      `json:"tolerance"`
	Centroids     model.Matrix `json:"centroids"`
	Labels        model.Labels `json:"labels"`
	Sizes         []int        `json:"sizes"`
	Inertia       float64      `json:"inertia"`
}

// Snapshot returns a deep copy of the session state. Inertia is measured
// for the most recent labels against the committed centroids.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		K:             s.k,
		Strategy:      s.strategy,
		State:         s.state,
		Iteration:     s.iteration,
		MaxIterations: s.opts.maxIterations,
		Tolerance:     s.opts.tolerance,
		Centroids:     s.Centroids(),
		Labels:        s.Labels(),
		Sizes:         s.Sizes(),
		Inertia:       s.inertia,
	}
}
