package gitlab

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/sgaunet/git-mcp/internal/security"
	"github.com/sgaunet/git-mcp/pkg/platform"
	gitlab "gitlab.com/gitlab-org/api/client-go"
)

var (
	errTokenRequired = errors.New("a GitLab token is required")

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

	// The SDK answers every 404 with a bare sentinel and drops the body.
	if errors.Is(err, gitlab.ErrNotFound) {
		return &platform.Error{
			Kind:    platform.NotFound,
			Op:      op,
			Status:  http.StatusNotFound,
			Message: "Not Found",
			Err:     err,
		}
	}

	var resp *gitlab.ErrorResponse
	if errors.As(err, &resp) && resp.Response != nil {
		status := resp.Response.StatusCode
		out := &platform.Error{
			Kind:    platform.KindForStatus(status),
			Op:      op,
			Status:  status,
			Message: security.SanitizeString(resp.Message),
			Err:     err,
		}
		if out.Kind == platform.RateLimited {
			out.RetryAfter = retryAfter(resp.Response)
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

// retryAfter reads the Retry-After header, falling back to RateLimit-Reset.
func retryAfter(resp *http.Response) time.Duration {
	if s := resp.Header.Get("Retry-After"); s != "" {
		if secs, err := strconv.Atoi(s); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	if s := resp.Header.Get("RateLimit-Reset"); s != "" {
		if reset, err := strconv.ParseInt(s, 10, 64); err == nil {
			if d := time.Until(time.Unix(reset, 0)); d > 0 {
				return d
			}
		}
	}
	return 0
}

func isNotFound(err error) bool {
	return platform.KindOf(err) == platform.NotFound
}
