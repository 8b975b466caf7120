package platform_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/sgaunet/git-mcp/internal/logger"
	"github.com/sgaunet/git-mcp/pkg/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedSleep struct {
	delays []time.Duration
}

func (r *recordedSleep) sleep(_ context.Context, d time.Duration) error {
	r.delays = append(r.delays, d)
	return nil
}

func TestRetryPolicy_RetriesRateLimitedWithIncreasingDelays(t *testing.T) {
	rec := &recordedSleep{}
	policy := platform.DefaultRetryPolicy()
	policy.Sleep = rec.sleep

	calls := 0
	err := policy.Do(context.Background(), logger.NoLogger(), "list issues", func() error {
		calls++
		return platform.NewError(platform.RateLimited, "slow down")
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, platform.ErrRateLimited)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, rec.delays)
}

func TestRetryPolicy_StopsOnSuccess(t *testing.T) {
	rec := &recordedSleep{}
	policy := platform.RetryPolicy{Attempts: 5, BaseDelay: time.Millisecond, Factor: 2, Sleep: rec.sleep}

	calls := 0
	err := policy.Do(context.Background(), nil, "get", func() error {
		calls++
		if calls < 2 {
			return &platform.Error{Kind: platform.UpstreamError, Status: http.StatusServiceUnavailable}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Len(t, rec.delays, 1)
}

func TestRetryPolicy_DoesNotRetryNonRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"not found", platform.NewError(platform.NotFound, "missing")},
		{"client error", &platform.Error{Kind: platform.UpstreamError, Status: http.StatusBadRequest}},
		{"plain error", errors.New("network down")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recordedSleep{}
			policy := platform.DefaultRetryPolicy()
			policy.Sleep = rec.sleep

			calls := 0
			err := policy.Do(context.Background(), nil, "get", func() error {
				calls++
				return tt.err
			})

			assert.Equal(t, tt.err, err)
			assert.Equal(t, 1, calls)
			assert.Empty(t, rec.delays)
		})
	}
}

func TestRetryPolicy_HonoursRetryAfterHint(t *testing.T) {
	rec := &recordedSleep{}
	policy := platform.RetryPolicy{Attempts: 2, BaseDelay: time.Second, Factor: 2, Sleep: rec.sleep}

	_ = policy.Do(context.Background(), nil, "get", func() error {
		return &platform.Error{Kind: platform.RateLimited, RetryAfter: 30 * time.Second}
	})

	assert.Equal(t, []time.Duration{30 * time.Second}, rec.delays)
}

func TestRetryPolicy_CancelledContextStopsWaiting(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	policy := platform.RetryPolicy{Attempts: 3, BaseDelay: time.Second, Factor: 2}

	calls := 0
	err := policy.Do(ctx, nil, "get", func() error {
		calls++
		return platform.NewError(platform.RateLimited, "slow down")
	})

	assert.ErrorIs(t, err, platform.ErrRateLimited)
	assert.Equal(t, 1, calls)
}

func TestRetryPolicy_Delay(t *testing.T) {
	policy := platform.DefaultRetryPolicy()
	assert.Equal(t, time.Second, policy.Delay(1))
	assert.Equal(t, 2*time.Second, policy.Delay(2))
	assert.Equal(t, 4*time.Second, policy.Delay(3))
}

func TestRetryPolicy_DelaysGrowPastRepeatedHint(t *testing.T) {
	rec := &recordedSleep{}
	policy := platform.RetryPolicy{Attempts: 4, BaseDelay: time.Second, Factor: 2, Sleep: rec.sleep}

	_ = policy.Do(context.Background(), nil, "get", func() error {
		return &platform.Error{Kind: platform.RateLimited, RetryAfter: 10 * time.Second}
	})

	assert.Equal(t, []time.Duration{10 * time.Second, 11 * time.Second, 12 * time.Second}, rec.delays)
}

func TestRetryPolicy_HintBeyondMaxDelayFailsFast(t *testing.T) {
	rec := &recordedSleep{}
	policy := platform.DefaultRetryPolicy()
	policy.Sleep = rec.sleep

	calls := 0
	err := policy.Do(context.Background(), nil, "list issues", func() error {
		calls++
		return &platform.Error{Kind: platform.RateLimited, RetryAfter: time.Hour}
	})

	require.ErrorIs(t, err, platform.ErrRateLimited)
	assert.Equal(t, 1, calls)
	assert.Empty(t, rec.delays)

	var perr *platform.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, time.Hour, perr.RetryAfter)
}

func TestRetryPolicy_StopsWhenScheduleExceedsMaxDelay(t *testing.T) {
	rec := &recordedSleep{}
	policy := platform.RetryPolicy{Attempts: 10, BaseDelay: time.Second, Factor: 2, MaxDelay: 5 * time.Second, Sleep: rec.sleep}

	calls := 0
	_ = policy.Do(context.Background(), nil, "get", func() error {
		calls++
		return &platform.Error{Kind: platform.UpstreamError, Status: http.StatusBadGateway}
	})

	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}, rec.delays)
	assert.Equal(t, 4, calls)
}

func TestPaginate(t *testing.T) {
	pages := map[int][]int{1: {1, 2, 3}, 2: {4, 5, 6}, 3: {7}}
	fetch := func(page, _ int) ([]int, int, error) {
		next := page + 1
		if _, ok := pages[next]; !ok {
			next = 0
		}
		return pages[page], next, nil
	}

	t.Run("stops at limit", func(t *testing.T) {
		got, err := platform.Paginate(5, fetch)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3, 4, 5}, got)
	})

	t.Run("stops at last page", func(t *testing.T) {
		got, err := platform.Paginate(50, fetch)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7}, got)
	})

	t.Run("propagates errors", func(t *testing.T) {
		boom := platform.NewError(platform.NotFound, "gone")
		_, err := platform.Paginate(5, func(int, int) ([]int, int, error) { return nil, 0, boom })
		assert.ErrorIs(t, err, platform.ErrNotFound)
	})

	t.Run("continues past filtered pages", func(t *testing.T) {
		filtered := func(page, _ int) ([]int, int, error) {
			if page < 3 {
				return nil, page + 1, nil
			}
			return []int{9}, 0, nil
		}
		got, err := platform.Paginate(5, filtered)
		require.NoError(t, err)
		assert.Equal(t, []int{9}, got)
	})

	t.Run("stops when the next page does not advance", func(t *testing.T) {
		calls := 0
		got, err := platform.Paginate(5, func(page, _ int) ([]int, int, error) {
			calls++
			return []int{page}, page, nil
		})
		require.NoError(t, err)
		assert.Equal(t, []int{1}, got)
		assert.Equal(t, 1, calls)
	})

	t.Run("empty result is not nil", func(t *testing.T) {
		got, err := platform.Paginate(5, func(int, int) ([]int, int, error) { return nil, 0, nil })
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}
