// Package resource bounds the compute a server spends on clustering.
//
// A Controller admits work along three axes: the number of Fit calls running
// at once, the point-set bytes held by in-flight requests and the request
// rate.
package resource

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

var (
	// ErrBusy is returned when an acquisition fails.
	ErrBusy = errors.New("resource: busy")

	// ErrRateLimited is returned when the request rate is exceeded.
	ErrRateLimited = errors.New("resource: rate limited")
)

// Config holds resource limits.
type Config struct {
	// MaxConcurrentFits is the maximum number of Fit calls running at once.
	// If 0, defaults to 1.
	MaxConcurrentFits int64

	// MemoryLimitBytes is the hard limit on point-set bytes held by in-flight
	// requests. If 0, no hard limit is enforced (only tracking).
	MemoryLimitBytes int64

	// RequestsPerSecond is the sustained request rate. If 0, unlimited.
	RequestsPerSecond float64

	// Burst is the number of requests admitted at once above the sustained
	// rate. If 0, defaults to max(1, RequestsPerSecond).
	Burst int
}

// Controller manages global resources (fit concurrency, memory, request rate).
// A nil *Controller admits everything.
type Controller struct {
	// Fits
	fitSem     *semaphore.Weighted
	fitsActive atomic.Int64

	// Memory
	memSem  *semaphore.Weighted // nil if unlimited
	memUsed atomic.Int64

	// Requests
	limiter *rate.Limiter // nil if unlimited
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	if cfg.MaxConcurrentFits <= 0 {
		cfg.MaxConcurrentFits = 1
	}

	c := &Controller{
		fitSem: semaphore.NewWeighted(cfg.MaxConcurrentFits),
	}

	if cfg.MemoryLimitBytes > 0 {
		c.memSem = semaphore.NewWeighted(cfg.MemoryLimitBytes)
	}

	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = max(1, int(cfg.RequestsPerSecond))
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	return c
}

// AcquireFit reserves a fit slot, blocking until one is free or ctx is
// canceled. The returned error wraps ErrBusy and ctx.Err().
func (c *Controller) AcquireFit(ctx context.Context) error {
	if c == nil {
		return nil
	}
	if err := c.fitSem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("%w: waiting for a fit slot: %w", ErrBusy, err)
	}
	c.fitsActive.Add(1)
	return nil
}

// ReleaseFit releases a fit slot.
func (c *Controller) ReleaseFit() {
	if c == nil {
		return
	}
	c.fitsActive.Add(-1)
	c.fitSem.Release(1)
}

// ActiveFits returns the number of fit slots in use.
func (c *Controller) ActiveFits() int64 {
	if c == nil {
		return 0
	}
	return c.fitsActive.Load()
}

// TryAcquireMemory attempts to reserve memory without blocking.
// Returns true if acquired, false if limit would be exceeded.
func (c *Controller) TryAcquireMemory(bytes int64) bool {
	if c == nil || bytes <= 0 {
		return true
	}

	if c.memSem != nil {
		if !c.memSem.TryAcquire(bytes) {
			return false
		}
	}

	c.memUsed.Add(bytes)
	return true
}

// ReleaseMemory releases reserved memory.
func (c *Controller) ReleaseMemory(bytes int64) {
	if c == nil || bytes <= 0 {
		return
	}

	if c.memSem != nil {
		c.memSem.Release(bytes)
	}
	c.memUsed.Add(-bytes)
}

// MemoryUsage returns the current memory usage in bytes.
func (c *Controller) MemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.memUsed.Load()
}

// Allow reports whether a request may proceed now under the rate limit.
func (c *Controller) Allow() bool {
	if c == nil || c.limiter == nil {
		return true
	}
	return c.limiter.Allow()
}

// PointSetBytes estimates the memory held by an n×dim float64 point set.
func PointSetBytes(n, dim int) int64 {
	return int64(n) * int64(dim) * 8
}
