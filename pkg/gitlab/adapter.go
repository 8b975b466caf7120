// Package gitlab implements the platform adapter for the GitLab v4 REST API.
package gitlab

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/sgaunet/bullets"
	"github.com/sgaunet/git-mcp/internal/logger"
	"github.com/sgaunet/git-mcp/internal/security"
	"github.com/sgaunet/git-mcp/pkg/platform"
	gitlab "gitlab.com/gitlab-org/api/client-go"
)

const apiPath = "/api/v4"

// Adapter talks to one GitLab instance. It holds no mutable state after
// construction and is safe for concurrent use.
type Adapter struct {
	client  *gitlab.Client
	log     *bullets.Logger
	retry   platform.RetryPolicy
	baseURL string
}

var _ platform.Adapter = (*Adapter)(nil)

// New creates a GitLab adapter for a configured connection. The SDK's own
// retry loop is disabled; reads are retried by the adapter's policy and writes
// are attempted exactly once.
func New(conn platform.Connection, opts platform.Options) (*Adapter, error) {
	if conn.Token.IsEmpty() {
		return nil, fmt.Errorf("%w: %s", errTokenRequired, conn.Name)
	}
	log := opts.Logger
	if log == nil {
		log = logger.NoLogger()
	}

	baseURL := strings.TrimRight(conn.URL, "/")
	if baseURL == "" {
		baseURL = "https://gitlab.com"
	}

	clientOpts := []gitlab.ClientOptionFunc{
		gitlab.WithBaseURL(baseURL + apiPath),
		gitlab.WithoutRetries(),
	}
	if opts.HTTPClient != nil {
		clientOpts = append(clientOpts, gitlab.WithHTTPClient(opts.HTTPClient))
	}

	security.DebugAuth(log, "GitLab", map[string]string{
		"platform": conn.Name,
		"url":      baseURL,
		"token":    conn.Token.String(),
	})

	client, err := gitlab.NewClient(conn.Token.Value(), clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitLab client: %w", security.SanitizeError(err))
	}

	return &Adapter{client: client, log: log, retry: opts.Retry, baseURL: baseURL}, nil
}

// Kind returns platform.KindGitLab.
func (a *Adapter) Kind() platform.Kind {
	return platform.KindGitLab
}

// read runs a read-only call under the retry policy.
func (a *Adapter) read(ctx context.Context, op string, fn func() error) error {
	return a.retry.Do(ctx, a.log, op, func() error {
		return classify(op, fn())
	})
}

// write runs a mutating call exactly once.
func (a *Adapter) write(op string, fn func() error) error {
	return classify(op, fn())
}

func parseIID(kind, id string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimLeft(id, "#!"), 10, 64)
	if err != nil || n <= 0 {
		return 0, platform.Errorf(platform.InvalidReference, "invalid %s id %q", kind, id)
	}
	return n, nil
}

func idString(id int64) string {
	return strconv.FormatInt(id, 10)
}
