package lloyd

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    fits       *prometheus.CounterVec
//	    iterations prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordFit(iterations int, state lloyd.State, d time.Duration, err error) {
//	    p.fits.WithLabelValues(state.String()).Inc()
//	    p.iterations.Observe(float64(iterations))
//	}
type MetricsCollector interface {
	// RecordFit is called after each Fit call.
	// iterations is the committed iteration count, state the resulting state,
	// err is nil if successful.
	RecordFit(iterations int, state State, duration time.Duration, err error)

	// RecordStep is called after each Step call.
	RecordStep(iteration int, state State, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordFit(int, State, time.Duration, error)  {}
func (NoopMetricsCollector) RecordStep(int, State, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	FitCount       atomic.Int64
	FitErrors      atomic.Int64
	FitConverged   atomic.Int64
	FitExhausted   atomic.Int64
	FitIterations  atomic.Int64
	FitTotalNanos  atomic.Int64
	StepCount      atomic.Int64
	StepErrors     atomic.Int64
	StepTerminal   atomic.Int64
	StepTotalNanos atomic.Int64
}

// RecordFit implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFit(iterations int, state State, duration time.Duration, err error) {
	b.FitCount.Add(1)
	b.FitTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.FitErrors.Add(1)
		return
	}
	b.FitIterations.Add(int64(iterations))
	switch state {
	case StateConverged:
		b.FitConverged.Add(1)
	case StateExhausted:
		b.FitExhausted.Add(1)
	}
}

// RecordStep implements MetricsCollector.
func (b *BasicMetricsCollector) RecordStep(iteration int, state State, duration time.Duration, err error) {
	b.StepCount.Add(1)
	b.StepTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.StepErrors.Add(1)
		return
	}
	if state.Terminal() {
		b.StepTerminal.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		FitCount:      b.FitCount.Load(),
		FitErrors:     b.FitErrors.Load(),
		FitConverged:  b.FitConverged.Load(),
		FitExhausted:  b.FitExhausted.Load(),
		FitAvgNanos:   avg(b.FitTotalNanos.Load(), b.FitCount.Load()),
		FitIterations: b.FitIterations.Load(),
		StepCount:     b.StepCount.Load(),
		StepErrors:    b.StepErrors.Load(),
		StepTerminal:  b.StepTerminal.Load(),
		StepAvgNanos:  avg(b.StepTotalNanos.Load(), b.StepCount.Load()),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	FitCount      int64
	FitErrors     int64
	FitConverged  int64
	FitExhausted  int64
	FitAvgNanos   int64
	FitIterations int64
	StepCount     int64
	StepErrors    int64
	StepTerminal  int64
	StepAvgNanos  int64
}
