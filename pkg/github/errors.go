package github

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/go-github/v69/github"
	"github.com/sgaunet/git-mcp/internal/security"
	"github.com/sgaunet/git-mcp/pkg/platform"
)

var (
	errTokenRequired = errors.New("a GitHub token is required")

	// ErrTokenRequired is returned by New when the connection carries no token.
	ErrTokenRequired = errTokenRequired
)

// classify turns an SDK error into a *platform.Error. Errors that already are
// *platform.Error pass through unchanged.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var perr *platform.Error
	if errors.As(err, &perr) {
		return err
	}

	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		out := &platform.Error{
			Kind:    platform.RateLimited,
			Op:      op,
			Status:  statusOf(rateErr.Response),
			Message: security.SanitizeString(rateErr.Message),
			Err:     err,
		}
		if d := time.Until(rateErr.Rate.Reset.Time); d > 0 {
			out.RetryAfter = d
		}
		return out
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return &platform.Error{
			Kind:       platform.RateLimited,
			Op:         op,
			Status:     statusOf(abuseErr.Response),
			Message:    security.SanitizeString(abuseErr.Message),
			RetryAfter: abuseErr.GetRetryAfter(),
			Err:        err,
		}
	}

	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		status := respErr.Response.StatusCode
		out := &platform.Error{
			Kind:    platform.KindForStatus(status),
			Op:      op,
			Status:  status,
			Message: security.SanitizeString(respErr.Message),
			Err:     err,
		}
		if out.Kind == platform.RateLimited {
			out.RetryAfter = retryAfter(respErr.Response)
		}
		return out
	}

	return &platform.Error{
		Kind:    platform.UpstreamError,
		Op:      op,
		Message: security.SanitizeString(err.Error()),
		Err:     err,
	}
}

// statusError attaches the HTTP status of resp to a bare SDK error so classify
// can pick the right kind.
func statusError(op string, resp *github.Response, err error) error {
	if err == nil || resp == nil || resp.Response == nil || resp.StatusCode < http.StatusBadRequest {
		return err
	}
	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) {
		return err
	}
	return &platform.Error{
		Kind:    platform.KindForStatus(resp.StatusCode),
		Op:      op,
		Status:  resp.StatusCode,
		Message: security.SanitizeString(err.Error()),
		Err:     err,
	}
}

func statusOf(resp *http.Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode
}

func retryAfter(resp *http.Response) time.Duration {
	if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return 0
}

func isNotFound(err error) bool {
	return platform.KindOf(err) == platform.NotFound
}
