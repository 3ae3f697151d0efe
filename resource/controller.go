// Package resource bounds the CPU burst of expensive engine operations.
//
// The only costly operation in the engine is the opt-in alignment pass,
// which is quadratic in the resample point count. Applications embedding the
// engine in a request path can use a Controller to cap how many alignment
// sweeps run concurrently and how many run per second. A nil Controller
// imposes no limits.
package resource

import (
	"context"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds resource limits.
type Config struct {
	// MaxConcurrentAligns is the maximum number of alignment sweeps running
	// at once. If 0, concurrency is unlimited.
	MaxConcurrentAligns int64

	// AlignsPerSec is the maximum rate of alignment sweeps.
	// If 0, the rate is unlimited.
	AlignsPerSec float64
}

// Controller gates alignment work according to its Config.
type Controller struct {
	sem     *semaphore.Weighted // nil if unlimited
	limiter *rate.Limiter       // nil if unlimited
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	c := &Controller{}
	if cfg.MaxConcurrentAligns > 0 {
		c.sem = semaphore.NewWeighted(cfg.MaxConcurrentAligns)
	}
	if cfg.AlignsPerSec > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.AlignsPerSec), int(cfg.AlignsPerSec)+1)
	}
	return c
}

// AcquireAlign reserves one alignment slot, blocking until the concurrency
// and rate budgets allow it or ctx is canceled. Every successful acquire
// must be paired with ReleaseAlign.
func (c *Controller) AcquireAlign(ctx context.Context) error {
	if c == nil {
		return nil
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}
	if c.sem != nil {
		if err := c.sem.Acquire(ctx, 1); err != nil {
			return err
		}
	}
	return nil
}

// ReleaseAlign returns an alignment slot.
func (c *Controller) ReleaseAlign() {
	if c == nil || c.sem == nil {
		return
	}
	c.sem.Release(1)
}
