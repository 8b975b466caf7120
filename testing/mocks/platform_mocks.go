package mocks

import (
	"context"
	"sync"

	"github.com/sgaunet/git-mcp/pkg/platform"
)

// Adapter is a mock implementation of platform.Adapter with call tracking.
// Errors set in Errors are returned by the method of the same name.
type Adapter struct {
	callTracker

	KindValue platform.Kind
	Errors    map[string]error

	errMu sync.Mutex

	UserResponse          *platform.User
	ProjectsResponse      []platform.Project
	ProjectResponse       *platform.Project
	IssuesResponse        []platform.Issue
	IssueResponse         *platform.Issue
	IssueResultResponse   *platform.Result[platform.Issue]
	CommentResponse       *platform.Comment
	MergeRequestsResponse []platform.MergeRequest
	MergeRequestResponse  *platform.MergeRequest
	MRResultResponse      *platform.Result[platform.MergeRequest]
	DiffResponse          *platform.Diff
	CommitsResponse       []platform.Commit
	BranchesResponse      []platform.Branch
	LabelsResponse        []string
	ForkResponse          *platform.Project
	ParentResponse        *platform.Project
}

// NewAdapter creates a mock adapter of the given kind.
func NewAdapter(kind platform.Kind) *Adapter {
	return &Adapter{
		KindValue:    kind,
		Errors:       map[string]error{},
		UserResponse: &platform.User{ID: "1", Username: "mock-user"},
	}
}

// SetError makes method fail with err.
func (m *Adapter) SetError(method string, err error) {
	m.errMu.Lock()
	defer m.errMu.Unlock()
	m.Errors[method] = err
}

func (m *Adapter) err(method string) error {
	m.errMu.Lock()
	defer m.errMu.Unlock()
	return m.Errors[method]
}

// Kind implements platform.Adapter.
func (m *Adapter) Kind() platform.Kind {
	return m.KindValue
}

// CurrentUser implements platform.Adapter.
func (m *Adapter) CurrentUser(_ context.Context) (*platform.User, error) {
	m.trackCall("CurrentUser", map[string]any{})
	return m.UserResponse, m.err("CurrentUser")
}

// ListProjects implements platform.Adapter.
func (m *Adapter) ListProjects(_ context.Context, filter platform.ProjectFilter) ([]platform.Project, error) {
	m.trackCall("ListProjects", map[string]any{"filter": filter})
	return m.ProjectsResponse, m.err("ListProjects")
}

// GetProject implements platform.Adapter.
func (m *Adapter) GetProject(_ context.Context, projectID string) (*platform.Project, error) {
	m.trackCall("GetProject", map[string]any{"projectID": projectID})
	return m.ProjectResponse, m.err("GetProject")
}

// CreateProject implements platform.Adapter.
func (m *Adapter) CreateProject(_ context.Context, spec platform.CreateProjectSpec) (*platform.Project, error) {
	m.trackCall("CreateProject", map[string]any{"spec": spec})
	return m.ProjectResponse, m.err("CreateProject")
}

// DeleteProject implements platform.Adapter.
func (m *Adapter) DeleteProject(_ context.Context, projectID string) error {
	m.trackCall("DeleteProject", map[string]any{"projectID": projectID})
	return m.err("DeleteProject")
}

// ListIssues implements platform.Adapter.
func (m *Adapter) ListIssues(_ context.Context, projectID string, filter platform.IssueFilter) ([]platform.Issue, error) {
	m.trackCall("ListIssues", map[string]any{"projectID": projectID, "filter": filter})
	return m.IssuesResponse, m.err("ListIssues")
}

// GetIssue implements platform.Adapter.
func (m *Adapter) GetIssue(_ context.Context, projectID, issueID string) (*platform.Issue, error) {
	m.trackCall("GetIssue", map[string]any{"projectID": projectID, "issueID": issueID})
	return m.IssueResponse, m.err("GetIssue")
}

// CreateIssue implements platform.Adapter.
func (m *Adapter) CreateIssue(_ context.Context, projectID string, spec platform.CreateIssueSpec) (*platform.Result[platform.Issue], error) {
	m.trackCall("CreateIssue", map[string]any{"projectID": projectID, "spec": spec})
	return m.IssueResultResponse, m.err("CreateIssue")
}

// UpdateIssue implements platform.Adapter.
func (m *Adapter) UpdateIssue(_ context.Context, projectID, issueID string, patch platform.IssuePatch) (*platform.Result[platform.Issue], error) {
	m.trackCall("UpdateIssue", map[string]any{"projectID": projectID, "issueID": issueID, "patch": patch})
	return m.IssueResultResponse, m.err("UpdateIssue")
}

// CreateComment implements platform.Adapter.
func (m *Adapter) CreateComment(_ context.Context, projectID, issueID, body string) (*platform.Comment, error) {
	m.trackCall("CreateComment", map[string]any{"projectID": projectID, "issueID": issueID, "body": body})
	return m.CommentResponse, m.err("CreateComment")
}

// ListMergeRequests implements platform.Adapter.
func (m *Adapter) ListMergeRequests(_ context.Context, projectID string, filter platform.MergeRequestFilter) ([]platform.MergeRequest, error) {
	m.trackCall("ListMergeRequests", map[string]any{"projectID": projectID, "filter": filter})
	return m.MergeRequestsResponse, m.err("ListMergeRequests")
}

// GetMergeRequest implements platform.Adapter.
func (m *Adapter) GetMergeRequest(_ context.Context, projectID, mrID string) (*platform.MergeRequest, error) {
	m.trackCall("GetMergeRequest", map[string]any{"projectID": projectID, "mrID": mrID})
	return m.MergeRequestResponse, m.err("GetMergeRequest")
}

// CreateMergeRequest implements platform.Adapter.
func (m *Adapter) CreateMergeRequest(_ context.Context, spec platform.CreateMergeRequestSpec) (*platform.Result[platform.MergeRequest], error) {
	m.trackCall("CreateMergeRequest", map[string]any{"spec": spec})
	return m.MRResultResponse, m.err("CreateMergeRequest")
}

// ApproveMergeRequest implements platform.Adapter.
func (m *Adapter) ApproveMergeRequest(_ context.Context, projectID, mrID string) error {
	m.trackCall("ApproveMergeRequest", map[string]any{"projectID": projectID, "mrID": mrID})
	return m.err("ApproveMergeRequest")
}

// MergeMergeRequest implements platform.Adapter.
func (m *Adapter) MergeMergeRequest(_ context.Context, projectID, mrID string, opts platform.MergeOptions) (*platform.MergeRequest, error) {
	m.trackCall("MergeMergeRequest", map[string]any{"projectID": projectID, "mrID": mrID, "opts": opts})
	return m.MergeRequestResponse, m.err("MergeMergeRequest")
}

// GetMergeRequestDiff implements platform.Adapter.
func (m *Adapter) GetMergeRequestDiff(_ context.Context, projectID, mrID string, opts platform.DiffOptions) (*platform.Diff, error) {
	m.trackCall("GetMergeRequestDiff", map[string]any{"projectID": projectID, "mrID": mrID, "opts": opts})
	return m.DiffResponse, m.err("GetMergeRequestDiff")
}

// GetMergeRequestCommits implements platform.Adapter.
func (m *Adapter) GetMergeRequestCommits(_ context.Context, projectID, mrID string) ([]platform.Commit, error) {
	m.trackCall("GetMergeRequestCommits", map[string]any{"projectID": projectID, "mrID": mrID})
	return m.CommitsResponse, m.err("GetMergeRequestCommits")
}

// ListBranches implements platform.Adapter.
func (m *Adapter) ListBranches(_ context.Context, projectID string, filter platform.BranchFilter) ([]platform.Branch, error) {
	m.trackCall("ListBranches", map[string]any{"projectID": projectID, "filter": filter})
	return m.BranchesResponse, m.err("ListBranches")
}

// ListLabels implements platform.Adapter.
func (m *Adapter) ListLabels(_ context.Context, projectID string) ([]string, error) {
	m.trackCall("ListLabels", map[string]any{"projectID": projectID})
	return m.LabelsResponse, m.err("ListLabels")
}

// CreateFork implements platform.Adapter.
func (m *Adapter) CreateFork(_ context.Context, projectID string, spec platform.ForkSpec) (*platform.Project, error) {
	m.trackCall("CreateFork", map[string]any{"projectID": projectID, "spec": spec})
	return m.ForkResponse, m.err("CreateFork")
}

// GetForkInfo implements platform.Adapter.
func (m *Adapter) GetForkInfo(_ context.Context, projectID string) (*platform.Project, error) {
	m.trackCall("GetForkInfo", map[string]any{"projectID": projectID})
	return m.ParentResponse, m.err("GetForkInfo")
}

// Ensure Adapter implements platform.Adapter.
var _ platform.Adapter = (*Adapter)(nil)
