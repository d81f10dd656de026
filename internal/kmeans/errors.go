package kmeans

import "errors"

var (
	// ErrInvalidK is returned when the cluster count is not positive.
	ErrInvalidK = errors.New("cluster count must be positive")

	// ErrUnknownStrategy is returned for an unrecognized initialization strategy.
	ErrUnknownStrategy = errors.New("unknown initialization strategy")

	// ErrTooFewPoints is returned when a sampling strategy needs more distinct seed points than available.
	ErrTooFewPoints = errors.New("cluster count exceeds number of points")

	// ErrManualCentroids is returned when the manual strategy is used without valid centroids.
	ErrManualCentroids = errors.New("manual strategy requires k centroids matching the point dimension")

	// ErrDimensionMismatch is returned when points and centroids differ in dimension.
	ErrDimensionMismatch = errors.New("dimension mismatch")
)
