package salesforce

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithRateLimit(t *testing.T) {
	c := &sfClient{}
	WithRateLimit(5)(c)
	require.NotNil(t, c.limiter)
	assert.Equal(t, float64(5), float64(c.limiter.Limit()))
	assert.Equal(t, 5, c.limiter.Burst())
}

func TestWithRateLimitZeroDisables(t *testing.T) {
	c := &sfClient{}
	WithRateLimit(0)(c)
	assert.Nil(t, c.limiter)
}

func TestWaitRespectsContextCancellation(t *testing.T) {
	c := &sfClient{}
	WithRateLimit(0.001)(c)

	// Drain the single burst token so the next wait blocks.
	ctx := context.Background()
	require.NoError(t, c.wait(ctx))

	cancelled, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	err := c.wait(cancelled)
	require.Error(t, err)
}

func TestWaitNoLimiter(t *testing.T) {
	c := &sfClient{}
	assert.NoError(t, c.wait(context.Background()))
}
