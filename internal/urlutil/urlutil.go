// Package urlutil parses git remote URLs and platform web URLs into host and
// project path.
//
// It handles three URL formats:
//   - HTTPS: https://github.com/owner/repo
//   - SSH colon: git@github.com:owner/repo
//   - SSH protocol: ssh://git@github.com:22/owner/repo
package urlutil

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var errUnsupportedURL = errors.New("unsupported remote URL")

// ErrUnsupportedURL is returned when a URL matches none of the known formats.
var ErrUnsupportedURL = errUnsupportedURL

// SplitRemote returns the lowercase host and the path of a remote or web URL,
// without leading or trailing slashes and without a .git suffix.
//
// Examples:
//
//	SplitRemote("git@gitlab.com:group/sub/project.git") → "gitlab.com", "group/sub/project"
//	SplitRemote("https://github.com/owner/repo/issues/3") → "github.com", "owner/repo/issues/3"
func SplitRemote(raw string) (string, string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", "", fmt.Errorf("%w: empty", errUnsupportedURL)
	}

	var host, path string
	switch {
	case strings.Contains(raw, "://"):
		u, err := url.Parse(raw)
		if err != nil {
			return "", "", fmt.Errorf("%w: %s", errUnsupportedURL, raw)
		}
		host, path = u.Hostname(), u.Path
	case strings.Contains(raw, "@") && strings.Contains(raw, ":"):
		// scp-like syntax: user@host:path
		rest := raw[strings.Index(raw, "@")+1:]
		h, p, _ := strings.Cut(rest, ":")
		host, path = h, p
	default:
		return "", "", fmt.Errorf("%w: %s", errUnsupportedURL, raw)
	}

	path = strings.Trim(path, "/")
	path = strings.TrimSuffix(path, ".git")
	if host == "" || path == "" {
		return "", "", fmt.Errorf("%w: %s", errUnsupportedURL, raw)
	}
	return strings.ToLower(host), path, nil
}

// Host returns the lowercase hostname of a URL, or "" when it cannot be parsed.
func Host(raw string) string {
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// ExtractPathComponents returns the first n components of a slash-separated
// path, or "" when the path is shorter.
//
// Examples:
//
//	ExtractPathComponents("owner/repo/pull/4", 2) → "owner/repo"
//	ExtractPathComponents("owner", 2) → ""
func ExtractPathComponents(path string, n int) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if n <= 0 || len(parts) < n {
		return ""
	}
	return strings.Join(parts[:n], "/")
}
