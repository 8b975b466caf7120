package platform

import (
	"context"
	"net/http"

	"github.com/sgaunet/bullets"
	"github.com/sgaunet/git-mcp/internal/security"
)

// Adapter is the capability contract of a hosting platform. Implementations
// translate between the platform's REST object model and the normalized types
// of this package, and report failures as *Error.
type Adapter interface {
	// Kind returns the platform kind served by the adapter.
	Kind() Kind

	// CurrentUser returns the account owning the token.
	CurrentUser(ctx context.Context) (*User, error)

	// ListProjects returns projects visible to the caller.
	ListProjects(ctx context.Context, filter ProjectFilter) ([]Project, error)

	// GetProject fetches a project by ID or full path.
	GetProject(ctx context.Context, projectID string) (*Project, error)

	// CreateProject creates a project.
	CreateProject(ctx context.Context, spec CreateProjectSpec) (*Project, error)

	// DeleteProject deletes a project.
	DeleteProject(ctx context.Context, projectID string) error

	// ListIssues returns issues of a project.
	ListIssues(ctx context.Context, projectID string, filter IssueFilter) ([]Issue, error)

	// GetIssue fetches an issue together with its comments.
	GetIssue(ctx context.Context, projectID, issueID string) (*Issue, error)

	// CreateIssue creates an issue. Assignees that cannot be resolved are
	// reported as warnings and left unset.
	CreateIssue(ctx context.Context, projectID string, spec CreateIssueSpec) (*Result[Issue], error)

	// UpdateIssue applies a patch to an issue.
	UpdateIssue(ctx context.Context, projectID, issueID string, patch IssuePatch) (*Result[Issue], error)

	// CreateComment adds a comment to an issue.
	CreateComment(ctx context.Context, projectID, issueID, body string) (*Comment, error)

	// ListMergeRequests returns merge requests targeting a project.
	ListMergeRequests(ctx context.Context, projectID string, filter MergeRequestFilter) ([]MergeRequest, error)

	// GetMergeRequest fetches a merge request.
	GetMergeRequest(ctx context.Context, projectID, mrID string) (*MergeRequest, error)

	// CreateMergeRequest validates both branches and opens a merge request,
	// across projects when the target differs from the source.
	CreateMergeRequest(ctx context.Context, spec CreateMergeRequestSpec) (*Result[MergeRequest], error)

	// ApproveMergeRequest records an approval by the caller.
	ApproveMergeRequest(ctx context.Context, projectID, mrID string) error

	// MergeMergeRequest merges a merge request.
	MergeMergeRequest(ctx context.Context, projectID, mrID string, opts MergeOptions) (*MergeRequest, error)

	// GetMergeRequestDiff returns the file changes of a merge request.
	GetMergeRequestDiff(ctx context.Context, projectID, mrID string, opts DiffOptions) (*Diff, error)

	// GetMergeRequestCommits returns the commits of a merge request.
	GetMergeRequestCommits(ctx context.Context, projectID, mrID string) ([]Commit, error)

	// ListBranches returns branches of a project.
	ListBranches(ctx context.Context, projectID string, filter BranchFilter) ([]Branch, error)

	// ListLabels returns the label names defined on a project.
	ListLabels(ctx context.Context, projectID string) ([]string, error)

	// CreateFork forks a project.
	CreateFork(ctx context.Context, projectID string, spec ForkSpec) (*Project, error)

	// GetForkInfo returns the parent of a fork, or nil when the project is
	// not a fork.
	GetForkInfo(ctx context.Context, projectID string) (*Project, error)
}

// Connection is everything an adapter needs to reach one configured platform.
type Connection struct {
	Name     string
	Kind     Kind
	URL      string
	Username string
	Token    security.SecureToken
}

// Options carries the ambient dependencies of an adapter.
type Options struct {
	Logger     *bullets.Logger
	Retry      RetryPolicy
	HTTPClient *http.Client
}
