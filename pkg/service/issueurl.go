package service

import (
	"strings"

	"github.com/sgaunet/git-mcp/internal/urlutil"
	"github.com/sgaunet/git-mcp/pkg/config"
	"github.com/sgaunet/git-mcp/pkg/platform"
)

// IssueRef locates an issue on a configured platform.
type IssueRef struct {
	Platform  string
	ProjectID string
	IssueID   string
}

// ParseIssueURL maps an issue web URL to a configured platform, project and
// issue number. GitLab URLs have the form <host>/<group>/<project>/-/issues/N,
// GitHub URLs <host>/<owner>/<repo>/issues/N. When several platforms share a
// host the first name in sort order wins.
func (s *Service) ParseIssueURL(rawURL string) (*IssueRef, error) {
	host, path, err := urlutil.SplitRemote(rawURL)
	if err != nil {
		return nil, platform.Errorf(platform.InvalidReference, "invalid issue URL %q", rawURL)
	}

	name, kind, ok := s.PlatformForHost(host)
	if !ok {
		return nil, platform.Errorf(platform.UnknownPlatform, "no configured platform for host %q", host)
	}

	var projectID, issueID string
	switch kind {
	case platform.KindGitLab:
		projectID, issueID = splitGitLabIssuePath(path)
	case platform.KindGitHub:
		projectID, issueID = splitGitHubIssuePath(path)
	}
	if projectID == "" || issueID == "" {
		return nil, platform.Errorf(platform.InvalidReference, "%q is not a %s issue URL", rawURL, kind)
	}
	return &IssueRef{Platform: name, ProjectID: projectID, IssueID: issueID}, nil
}

// PlatformForHost returns the first configured platform, in name order, whose
// URL has the given host.
func (s *Service) PlatformForHost(host string) (string, platform.Kind, bool) {
	for _, name := range s.store.Names() {
		conn, err := s.store.Resolve(name)
		if err != nil {
			continue
		}
		url := conn.URL
		if url == "" {
			url = config.DefaultURL(conn.Kind)
		}
		configured := urlutil.Host(url)
		if conn.Kind == platform.KindGitHub {
			configured = strings.TrimPrefix(configured, "api.")
		}
		if configured == host {
			return name, conn.Kind, true
		}
	}
	return "", "", false
}

// splitGitLabIssuePath handles "group/sub/project/-/issues/7" and the older
// form without the "-" segment.
func splitGitLabIssuePath(path string) (string, string) {
	project, number, found := strings.Cut(path, "/-/issues/")
	if !found {
		idx := strings.LastIndex(path, "/issues/")
		if idx <= 0 {
			return "", ""
		}
		project, number = path[:idx], path[idx+len("/issues/"):]
	}
	return project, issueNumber(number)
}

// splitGitHubIssuePath handles "owner/repo/issues/7".
func splitGitHubIssuePath(path string) (string, string) {
	parts := strings.Split(path, "/")
	if len(parts) < 4 || parts[2] != "issues" {
		return "", ""
	}
	return urlutil.ExtractPathComponents(path, 2), issueNumber(parts[3])
}

// issueNumber returns the leading number of a path segment, or "".
func issueNumber(s string) string {
	s, _, _ = strings.Cut(s, "/")
	if s == "" || strings.Trim(s, "0123456789") != "" {
		return ""
	}
	return s
}
