package mkm_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkmtools/mkmprice/internal/mkm"
)

func TestRateLimiterWait(t *testing.T) {
	t.Parallel()

	limiter := mkm.NewRateLimiter(1000, 10)
	for range 5 {
		require.NoError(t, limiter.Wait(context.Background()))
	}
}

func TestRateLimiterWaitCanceled(t *testing.T) {
	t.Parallel()

	// Drain the single burst token, then cancel while waiting for the next.
	limiter := mkm.NewRateLimiter(0.001, 1)
	require.NoError(t, limiter.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	require.Error(t, limiter.Wait(ctx))
}

func TestRateLimiterQuota(t *testing.T) {
	t.Parallel()

	limiter := mkm.NewRateLimiter(2, 4)

	used, limit := limiter.Quota()
	assert.Zero(t, used)
	assert.Zero(t, limit)
	assert.Zero(t, limiter.Remaining())

	limiter.RecordQuota(120, 5000)
	used, limit = limiter.Quota()
	assert.EqualValues(t, 120, used)
	assert.EqualValues(t, 5000, limit)
	assert.EqualValues(t, 4880, limiter.Remaining())

	limiter.RecordQuota(5000, 5000)
	assert.Zero(t, limiter.Remaining())
}
