// Package github implements the platform adapter for the GitHub REST API v3.
//
// Projects are addressed by their full name ("owner/repo"). Pull requests are
// reported as merge requests; a pull request from a fork carries the fork
// owner in its source branch ("owner:branch").
package github

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/go-github/v69/github"
	"github.com/sgaunet/bullets"
	"github.com/sgaunet/git-mcp/internal/logger"
	"github.com/sgaunet/git-mcp/internal/security"
	"github.com/sgaunet/git-mcp/pkg/platform"
	"golang.org/x/oauth2"
)

const (
	publicHost    = "github.com"
	publicAPIHost = "api.github.com"
	maxRedirects  = 3
)

// Adapter talks to github.com or one GitHub Enterprise instance. It holds no
// mutable state after construction and is safe for concurrent use.
type Adapter struct {
	client *github.Client
	log    *bullets.Logger
	retry  platform.RetryPolicy
}

var _ platform.Adapter = (*Adapter)(nil)

// New creates a GitHub adapter for a configured connection. URLs other than
// github.com are treated as GitHub Enterprise servers.
func New(conn platform.Connection, opts platform.Options) (*Adapter, error) {
	if conn.Token.IsEmpty() {
		return nil, fmt.Errorf("%w: %s", errTokenRequired, conn.Name)
	}
	log := opts.Logger
	if log == nil {
		log = logger.NoLogger()
	}

	ctx := context.Background()
	if opts.HTTPClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, opts.HTTPClient)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: conn.Token.Value()})
	client := github.NewClient(oauth2.NewClient(ctx, ts))

	baseURL := strings.TrimRight(conn.URL, "/")
	if isEnterprise(baseURL) {
		var err error
		client, err = client.WithEnterpriseURLs(baseURL, baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub Enterprise URL %q: %w", baseURL, err)
		}
	}

	security.DebugAuth(log, "GitHub", map[string]string{
		"platform": conn.Name,
		"url":      client.BaseURL.String(),
		"token":    conn.Token.String(),
	})

	return &Adapter{client: client, log: log, retry: opts.Retry}, nil
}

func isEnterprise(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return true
	}
	host := strings.ToLower(u.Hostname())
	return host != publicHost && host != publicAPIHost
}

// Kind returns platform.KindGitHub.
func (a *Adapter) Kind() platform.Kind {
	return platform.KindGitHub
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

// splitRepo splits "owner/repo".
func splitRepo(projectID string) (string, string, error) {
	owner, repo, ok := strings.Cut(strings.Trim(projectID, "/"), "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", platform.Errorf(platform.InvalidReference,
			"invalid GitHub repository %q, expected owner/repo", projectID)
	}
	return owner, repo, nil
}

func parseNumber(kind, id string) (int, error) {
	n, err := strconv.Atoi(strings.TrimLeft(id, "#"))
	if err != nil || n <= 0 {
		return 0, platform.Errorf(platform.InvalidReference, "invalid %s number %q", kind, id)
	}
	return n, nil
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
