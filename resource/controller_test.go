package resource

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_Memory(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 100})

	require.True(t, c.TryAcquireMemory(50))
	assert.Equal(t, int64(50), c.MemoryUsage())

	require.True(t, c.TryAcquireMemory(40))
	assert.Equal(t, int64(90), c.MemoryUsage())

	// 20 more would exceed the limit
	assert.False(t, c.TryAcquireMemory(20))
	assert.Equal(t, int64(90), c.MemoryUsage())

	c.ReleaseMemory(50)
	assert.Equal(t, int64(40), c.MemoryUsage())

	require.True(t, c.TryAcquireMemory(20))
	assert.Equal(t, int64(60), c.MemoryUsage())

	// Larger than the whole budget never fits.
	c.ReleaseMemory(60)
	assert.False(t, c.TryAcquireMemory(101))
	assert.Zero(t, c.MemoryUsage())
}

func TestController_UnlimitedMemory(t *testing.T) {
	c := NewController(Config{})

	assert.True(t, c.TryAcquireMemory(PointSetBytes(1000, 2)))
	assert.Equal(t, int64(16000), c.MemoryUsage())

	c.ReleaseMemory(8000)
	assert.Equal(t, int64(8000), c.MemoryUsage())
}

func TestController_Fits(t *testing.T) {
	c := NewController(Config{MaxConcurrentFits: 2})

	require.NoError(t, c.AcquireFit(context.Background()))
	require.NoError(t, c.AcquireFit(context.Background()))
	assert.Equal(t, int64(2), c.ActiveFits())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := c.AcquireFit(ctx)
	assert.ErrorIs(t, err, ErrBusy)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, int64(2), c.ActiveFits())

	c.ReleaseFit()
	assert.Equal(t, int64(1), c.ActiveFits())
	require.NoError(t, c.AcquireFit(context.Background()))
}

func TestController_FitWaitsForRelease(t *testing.T) {
	c := NewController(Config{MaxConcurrentFits: 1})
	require.NoError(t, c.AcquireFit(context.Background()))

	acquired := make(chan error, 1)
	go func() { acquired <- c.AcquireFit(context.Background()) }()

	select {
	case <-acquired:
		t.Fatal("second fit acquired while the only slot was held")
	case <-time.After(20 * time.Millisecond):
	}

	c.ReleaseFit()
	select {
	case err := <-acquired:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("fit slot not handed over after release")
	}
	assert.Equal(t, int64(1), c.ActiveFits())
}

func TestController_DefaultFitSlot(t *testing.T) {
	c := NewController(Config{})
	require.NoError(t, c.AcquireFit(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, c.AcquireFit(ctx), context.Canceled)
}

func TestController_RateLimit(t *testing.T) {
	c := NewController(Config{RequestsPerSecond: 0.001, Burst: 2})

	assert.True(t, c.Allow())
	assert.True(t, c.Allow())
	assert.False(t, c.Allow())
}

func TestController_Unlimited(t *testing.T) {
	c := NewController(Config{})
	for range 1000 {
		assert.True(t, c.Allow())
	}
}

func TestController_Nil(t *testing.T) {
	var c *Controller
	assert.True(t, c.Allow())
	require.NoError(t, c.AcquireFit(context.Background()))
	c.ReleaseFit()
	assert.Zero(t, c.ActiveFits())
	assert.True(t, c.TryAcquireMemory(10))
	c.ReleaseMemory(10)
	assert.Zero(t, c.MemoryUsage())
}
