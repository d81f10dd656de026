package lloyd

import (
	"errors"
	"fmt"

	"github.com/hupe1980/lloyd/internal/kmeans"
	"github.com/hupe1980/lloyd/model"
)

// ErrConfiguration matches every *ConfigurationError via errors.Is.
var ErrConfiguration = errors.New("configuration error")

var (
	// ErrInvalidK is returned when the cluster count is not positive.
	ErrInvalidK = kmeans.ErrInvalidK

	// ErrUnknownStrategy is returned for an unrecognized initialization strategy.
	ErrUnknownStrategy = kmeans.ErrUnknownStrategy

	// ErrTooFewPoints is returned when k exceeds the number of points available for seeding.
	ErrTooFewPoints = kmeans.ErrTooFewPoints

	// ErrInvalidInitialCentroids is returned when manual centroids are missing or malformed.
	ErrInvalidInitialCentroids = kmeans.ErrManualCentroids

	// ErrDimensionMismatch is returned when points do not match the session's centroid dimension.
	ErrDimensionMismatch = kmeans.ErrDimensionMismatch

	// ErrInvalidPoints is returned for empty, ragged or non-finite point sets.
	ErrInvalidPoints = errors.New("invalid point set")

	// ErrEmptyPoints is returned alongside ErrInvalidPoints for an empty point set.
	ErrEmptyPoints = model.ErrEmpty

	// ErrRaggedPoints is returned alongside ErrInvalidPoints when rows differ in length.
	ErrRaggedPoints = model.ErrRagged

	// ErrInvalidMaxIterations is returned when the iteration cap is not positive.
	ErrInvalidMaxIterations = errors.New("max iterations must be positive")

	// ErrInvalidTolerance is returned when the tolerance is not a positive number.
	ErrInvalidTolerance = errors.New("tolerance must be positive")
)

var (
	// ErrSessionFinished is returned by Step and Fit once the session has
	// converged or exhausted its iteration budget. Call Reset to reuse it.
	ErrSessionFinished = errors.New("session finished")

	// ErrNotInitialized is returned by operations that need centroids before
	// the first Step or Fit.
	ErrNotInitialized = errors.New("session not initialized")
)

// ConfigurationError reports invalid session configuration or input that is
// incompatible with it. It is raised before the session is mutated.
//
// The specific cause can be accessed via errors.Unwrap / errors.Is.
type ConfigurationError struct {
	Op    string
	cause error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("lloyd: %s: %v", e.Op, e.cause)
}

func (e *ConfigurationError) Unwrap() error { return e.cause }

// Is makes errors.Is(err, ErrConfiguration) hold for every ConfigurationError.
func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// DimensionError indicates a point/centroid dimensionality mismatch.
type DimensionError struct {
	Expected int
	Actual   int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func (e *DimensionError) Unwrap() error { return ErrDimensionMismatch }

func configError(op string, cause error) error {
	return &ConfigurationError{Op: op, cause: cause}
}

// translateError maps errors from the internal packages onto the public taxonomy.
func translateError(op string, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, kmeans.ErrInvalidK),
		errors.Is(err, kmeans.ErrUnknownStrategy),
		errors.Is(err, kmeans.ErrTooFewPoints),
		errors.Is(err, kmeans.ErrManualCentroids),
		errors.Is(err, kmeans.ErrDimensionMismatch):
		return configError(op, err)
	case errors.Is(err, model.ErrEmpty),
		errors.Is(err, model.ErrZeroDimension),
		errors.Is(err, model.ErrRagged),
		errors.Is(err, model.ErrNonFinite):
		return configError(op, fmt.Errorf("%w: %w", ErrInvalidPoints, err))
	}

	return err
}
