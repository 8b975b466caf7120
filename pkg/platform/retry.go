package platform

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sgaunet/bullets"
	"github.com/sgaunet/git-mcp/internal/timeutil"
)

// Default retry settings for read operations.
const (
	DefaultRetryAttempts = 3
	DefaultRetryBase     = time.Second
	DefaultRetryFactor   = 2.0
	DefaultRetryMaxDelay = time.Minute
)

// RetryPolicy controls how read operations are retried on RateLimited and 5xx
// UpstreamError failures. Write operations are never retried.
//
// Waits grow strictly between attempts. A platform retry-after hint raises the
// wait but never beyond MaxDelay: when the next wait would exceed it, the last
// error is returned at once with its hint intact.
type RetryPolicy struct {
	Attempts  int
	BaseDelay time.Duration
	Factor    float64
	MaxDelay  time.Duration
	// Sleep waits between attempts. Nil uses a context-aware timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// DefaultRetryPolicy returns 3 attempts with a 1s base delay doubling each
// time, waiting at most a minute.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Attempts:  DefaultRetryAttempts,
		BaseDelay: DefaultRetryBase,
		Factor:    DefaultRetryFactor,
		MaxDelay:  DefaultRetryMaxDelay,
	}
}

func (p RetryPolicy) normalized() RetryPolicy {
	if p.Attempts <= 0 {
		p.Attempts = DefaultRetryAttempts
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = DefaultRetryBase
	}
	if p.Factor < 1 {
		p.Factor = DefaultRetryFactor
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = DefaultRetryMaxDelay
	}
	if p.Sleep == nil {
		p.Sleep = sleepContext
	}
	return p
}

// Delay returns the wait before attempt n+1, where n starts at 1.
func (p RetryPolicy) Delay(n int) time.Duration {
	p = p.normalized()
	d := float64(p.BaseDelay)
	for i := 1; i < n; i++ {
		d *= p.Factor
	}
	return time.Duration(d)
}

// Do runs fn until it succeeds, fails with a non-retryable error, or the
// attempts are exhausted. The last error is returned unchanged.
func (p RetryPolicy) Do(ctx context.Context, log *bullets.Logger, op string, fn func() error) error {
	p = p.normalized()
	var err error
	var prev time.Duration
	for attempt := 1; ; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		var perr *Error
		if !errors.As(err, &perr) || !perr.Retryable() || attempt >= p.Attempts {
			return err
		}
		delay := max(p.Delay(attempt), perr.RetryAfter)
		if delay <= prev {
			delay = prev + p.BaseDelay
		}
		if delay > p.MaxDelay {
			if log != nil {
				log.Debug(fmt.Sprintf("%s failed (%s), next wait %s exceeds %s, giving up",
					op, perr.Kind, timeutil.FormatDuration(delay), timeutil.FormatDuration(p.MaxDelay)))
			}
			return err
		}
		prev = delay
		if log != nil {
			log.Debug(fmt.Sprintf("%s failed (%s), retrying in %s (attempt %d/%d)",
				op, perr.Kind, timeutil.FormatDuration(delay), attempt+1, p.Attempts))
		}
		if serr := p.Sleep(ctx, delay); serr != nil {
			return err
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Paginate collects items page by page until limit items are gathered or
// fetch reports no next page. Pages start at 1; a next page of 0, or one that
// does not advance, ends the loop. A page may yield no items when fetch
// filters client-side.
func Paginate[T any](limit int, fetch func(page, perPage int) ([]T, int, error)) ([]T, error) {
	limit = EffectiveLimit(limit)
	perPage := PerPage(limit)
	out := make([]T, 0, perPage)
	page := 1
	for {
		items, next, err := fetch(page, perPage)
		if err != nil {
			return nil, err
		}
		out = append(out, items...)
		if len(out) >= limit {
			return out[:limit], nil
		}
		if next <= page {
			return out, nil
		}
		page = next
	}
}
