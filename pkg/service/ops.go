package service

import (
	"context"

	"github.com/sgaunet/git-mcp/pkg/config"
	"github.com/sgaunet/git-mcp/pkg/platform"
)

// PlatformInfo describes a configured platform without its token.
type PlatformInfo struct {
	Name     string        `json:"name" yaml:"name"`
	Type     platform.Kind `json:"type" yaml:"type"`
	URL      string        `json:"url" yaml:"url"`
	Username string        `json:"username,omitempty" yaml:"username,omitempty"`
	HasToken bool          `json:"has_token" yaml:"has_token"`
}

// ConnectionStatus is the outcome of TestConnection.
type ConnectionStatus struct {
	Platform string         `json:"platform" yaml:"platform"`
	OK       bool           `json:"ok" yaml:"ok"`
	User     *platform.User `json:"user,omitempty" yaml:"user,omitempty"`
	Error    string         `json:"error,omitempty" yaml:"error,omitempty"`
}

// ListPlatforms returns every configured platform, sorted by name.
func (s *Service) ListPlatforms() []PlatformInfo {
	names := s.store.Names()
	out := make([]PlatformInfo, 0, len(names))
	for _, name := range names {
		info, err := s.PlatformInfo(name)
		if err != nil {
			continue
		}
		out = append(out, *info)
	}
	return out
}

// PlatformInfo returns the settings of one platform.
func (s *Service) PlatformInfo(name string) (*PlatformInfo, error) {
	conn, err := s.store.Resolve(name)
	if err != nil {
		return nil, unknownPlatform(name, err)
	}
	url := conn.URL
	if url == "" {
		url = config.DefaultURL(conn.Kind)
	}
	_, tokenErr := s.store.Token(name)
	return &PlatformInfo{
		Name:     name,
		Type:     conn.Kind,
		URL:      url,
		Username: conn.Username,
		HasToken: tokenErr == nil,
	}, nil
}

// TestConnection connects to a platform and reports the authenticated user.
// Connection failures are reported in the status, not as an error; only an
// unknown platform name is an error.
func (s *Service) TestConnection(ctx context.Context, name string) (*ConnectionStatus, error) {
	if _, err := s.PlatformInfo(name); err != nil {
		return nil, err
	}
	user, err := s.CurrentUser(ctx, name)
	if err != nil {
		return &ConnectionStatus{Platform: name, Error: err.Error()}, nil
	}
	return &ConnectionStatus{Platform: name, OK: true, User: user}, nil
}

// CurrentUser returns the account owning the platform token.
func (s *Service) CurrentUser(ctx context.Context, name string) (*platform.User, error) {
	return call(ctx, s, name, func(a platform.Adapter) (*platform.User, error) {
		return a.CurrentUser(ctx)
	})
}

// ListProjects lists projects visible on a platform.
func (s *Service) ListProjects(ctx context.Context, name string, filter platform.ProjectFilter) ([]platform.Project, error) {
	return call(ctx, s, name, func(a platform.Adapter) ([]platform.Project, error) {
		return a.ListProjects(ctx, filter)
	})
}

// GetProject fetches a project.
func (s *Service) GetProject(ctx context.Context, name, projectID string) (*platform.Project, error) {
	return call(ctx, s, name, func(a platform.Adapter) (*platform.Project, error) {
		return a.GetProject(ctx, projectID)
	})
}

// CreateProject creates a project.
func (s *Service) CreateProject(ctx context.Context, name string, spec platform.CreateProjectSpec) (*platform.Project, error) {
	return call(ctx, s, name, func(a platform.Adapter) (*platform.Project, error) {
		return a.CreateProject(ctx, spec)
	})
}

// DeleteProject deletes a project.
func (s *Service) DeleteProject(ctx context.Context, name, projectID string) error {
	return exec(ctx, s, name, func(a platform.Adapter) error {
		return a.DeleteProject(ctx, projectID)
	})
}

// ListIssues lists issues of a project.
func (s *Service) ListIssues(ctx context.Context, name, projectID string, filter platform.IssueFilter) ([]platform.Issue, error) {
	return call(ctx, s, name, func(a platform.Adapter) ([]platform.Issue, error) {
		return a.ListIssues(ctx, projectID, filter)
	})
}

// ListMyIssues lists issues of a project assigned to the configured user.
func (s *Service) ListMyIssues(ctx context.Context, name, projectID string, filter platform.IssueFilter) ([]platform.Issue, error) {
	username, err := s.username(ctx, name)
	if err != nil {
		return nil, err
	}
	filter.Assignee = username
	return s.ListIssues(ctx, name, projectID, filter)
}

// GetIssue fetches an issue with its comments.
func (s *Service) GetIssue(ctx context.Context, name, projectID, issueID string) (*platform.Issue, error) {
	return call(ctx, s, name, func(a platform.Adapter) (*platform.Issue, error) {
		return a.GetIssue(ctx, projectID, issueID)
	})
}

// GetIssueByURL fetches the issue behind a web URL on a configured platform.
func (s *Service) GetIssueByURL(ctx context.Context, rawURL string) (*platform.Issue, error) {
	ref, err := s.ParseIssueURL(rawURL)
	if err != nil {
		return nil, err
	}
	return s.GetIssue(ctx, ref.Platform, ref.ProjectID, ref.IssueID)
}

// CreateIssue creates an issue.
func (s *Service) CreateIssue(ctx context.Context, name, projectID string, spec platform.CreateIssueSpec) (*platform.Result[platform.Issue], error) {
	return call(ctx, s, name, func(a platform.Adapter) (*platform.Result[platform.Issue], error) {
		return a.CreateIssue(ctx, projectID, spec)
	})
}

// UpdateIssue applies a patch to an issue.
func (s *Service) UpdateIssue(ctx context.Context, name, projectID, issueID string, patch platform.IssuePatch) (*platform.Result[platform.Issue], error) {
	return call(ctx, s, name, func(a platform.Adapter) (*platform.Result[platform.Issue], error) {
		return a.UpdateIssue(ctx, projectID, issueID, patch)
	})
}

// CloseIssue closes an issue.
func (s *Service) CloseIssue(ctx context.Context, name, projectID, issueID string) (*platform.Result[platform.Issue], error) {
	closed := platform.StateClosed
	return s.UpdateIssue(ctx, name, projectID, issueID, platform.IssuePatch{State: &closed})
}

// CreateComment adds a comment to an issue.
func (s *Service) CreateComment(ctx context.Context, name, projectID, issueID, body string) (*platform.Comment, error) {
	return call(ctx, s, name, func(a platform.Adapter) (*platform.Comment, error) {
		return a.CreateComment(ctx, projectID, issueID, body)
	})
}

// ListMergeRequests lists merge requests targeting a project.
func (s *Service) ListMergeRequests(ctx context.Context, name, projectID string, filter platform.MergeRequestFilter) ([]platform.MergeRequest, error) {
	return call(ctx, s, name, func(a platform.Adapter) ([]platform.MergeRequest, error) {
		return a.ListMergeRequests(ctx, projectID, filter)
	})
}

// ListMyMergeRequests lists merge requests authored by the configured user.
func (s *Service) ListMyMergeRequests(ctx context.Context, name, projectID string, filter platform.MergeRequestFilter) ([]platform.MergeRequest, error) {
	username, err := s.username(ctx, name)
	if err != nil {
		return nil, err
	}
	filter.Author = username
	return s.ListMergeRequests(ctx, name, projectID, filter)
}

// GetMergeRequest fetches a merge request.
func (s *Service) GetMergeRequest(ctx context.Context, name, projectID, mrID string) (*platform.MergeRequest, error) {
	return call(ctx, s, name, func(a platform.Adapter) (*platform.MergeRequest, error) {
		return a.GetMergeRequest(ctx, projectID, mrID)
	})
}

// CreateMergeRequest opens a merge request, across projects when spec
// names a different target.
func (s *Service) CreateMergeRequest(ctx context.Context, name string, spec platform.CreateMergeRequestSpec) (*platform.Result[platform.MergeRequest], error) {
	return call(ctx, s, name, func(a platform.Adapter) (*platform.Result[platform.MergeRequest], error) {
		return a.CreateMergeRequest(ctx, spec)
	})
}

// ApproveMergeRequest approves a merge request.
func (s *Service) ApproveMergeRequest(ctx context.Context, name, projectID, mrID string) error {
	return exec(ctx, s, name, func(a platform.Adapter) error {
		return a.ApproveMergeRequest(ctx, projectID, mrID)
	})
}

// MergeMergeRequest merges a merge request.
func (s *Service) MergeMergeRequest(ctx context.Context, name, projectID, mrID string, opts platform.MergeOptions) (*platform.MergeRequest, error) {
	return call(ctx, s, name, func(a platform.Adapter) (*platform.MergeRequest, error) {
		return a.MergeMergeRequest(ctx, projectID, mrID, opts)
	})
}

// GetMergeRequestDiff returns the file changes of a merge request.
func (s *Service) GetMergeRequestDiff(ctx context.Context, name, projectID, mrID string, opts platform.DiffOptions) (*platform.Diff, error) {
	return call(ctx, s, name, func(a platform.Adapter) (*platform.Diff, error) {
		return a.GetMergeRequestDiff(ctx, projectID, mrID, opts)
	})
}

// GetMergeRequestCommits returns the commits of a merge request.
func (s *Service) GetMergeRequestCommits(ctx context.Context, name, projectID, mrID string) ([]platform.Commit, error) {
	return call(ctx, s, name, func(a platform.Adapter) ([]platform.Commit, error) {
		return a.GetMergeRequestCommits(ctx, projectID, mrID)
	})
}

// ListBranches lists branches of a project.
func (s *Service) ListBranches(ctx context.Context, name, projectID string, filter platform.BranchFilter) ([]platform.Branch, error) {
	return call(ctx, s, name, func(a platform.Adapter) ([]platform.Branch, error) {
		return a.ListBranches(ctx, projectID, filter)
	})
}

// ListLabels returns the label names of a project.
func (s *Service) ListLabels(ctx context.Context, name, projectID string) ([]string, error) {
	return call(ctx, s, name, func(a platform.Adapter) ([]string, error) {
		return a.ListLabels(ctx, projectID)
	})
}

// CreateFork forks a project.
func (s *Service) CreateFork(ctx context.Context, name, projectID string, spec platform.ForkSpec) (*platform.Project, error) {
	return call(ctx, s, name, func(a platform.Adapter) (*platform.Project, error) {
		return a.CreateFork(ctx, projectID, spec)
	})
}

// GetForkInfo returns the parent of a fork, or nil when the project is not a
// fork.
func (s *Service) GetForkInfo(ctx context.Context, name, projectID string) (*platform.Project, error) {
	return call(ctx, s, name, func(a platform.Adapter) (*platform.Project, error) {
		return a.GetForkInfo(ctx, projectID)
	})
}

// username returns the configured username of a platform, falling back to
// the token owner.
func (s *Service) username(ctx context.Context, name string) (string, error) {
	conn, err := s.store.Resolve(name)
	if err != nil {
		return "", unknownPlatform(name, err)
	}
	if conn.Username != "" {
		return conn.Username, nil
	}
	user, err := s.CurrentUser(ctx, name)
	if err != nil {
		return "", err
	}
	return user.Username, nil
}
