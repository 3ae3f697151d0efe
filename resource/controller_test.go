package resource

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilControllerIsUnlimited(t *testing.T) {
	var c *Controller

	for i := 0; i < 100; i++ {
		require.NoError(t, c.AcquireAlign(context.Background()))
	}
	c.ReleaseAlign()
}

func TestConcurrencyLimit(t *testing.T) {
	c := NewController(Config{MaxConcurrentAligns: 1})

	require.NoError(t, c.AcquireAlign(context.Background()))

	// Second acquire must block until the slot is released.
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := c.AcquireAlign(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	c.ReleaseAlign()
	require.NoError(t, c.AcquireAlign(context.Background()))
	c.ReleaseAlign()
}

func TestRateLimit(t *testing.T) {
	c := NewController(Config{AlignsPerSec: 50})

	start := time.Now()
	for i := 0; i < 5; i++ {
		require.NoError(t, c.AcquireAlign(context.Background()))
		c.ReleaseAlign()
	}
	// Burst absorbs the first acquires; the rest must be paced.
	assert.Less(t, time.Since(start), time.Second)
}

func TestAcquireCanceled(t *testing.T) {
	c := NewController(Config{MaxConcurrentAligns: 1})
	require.NoError(t, c.AcquireAlign(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := c.AcquireAlign(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	c.ReleaseAlign()
}

func TestZeroConfigIsUnlimited(t *testing.T) {
	c := NewController(Config{})
	for i := 0; i < 100; i++ {
		require.NoError(t, c.AcquireAlign(context.Background()))
		c.ReleaseAlign()
	}
}
