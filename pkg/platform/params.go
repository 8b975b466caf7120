package platform

import (
	"fmt"
	"strings"
)

// DefaultLimit is the number of items returned by list operations when the
// caller does not set one.
const DefaultLimit = 20

// MaxPerPage is the largest page size both platforms accept.
const MaxPerPage = 100

// ProjectFilter narrows ListProjects.
type ProjectFilter struct {
	Search     string
	Owned      bool
	Membership bool
	Visibility string
	Limit      int
}

// CreateProjectSpec describes a new project.
type CreateProjectSpec struct {
	Name        string
	Path        string
	Namespace   string
	Description string
	Visibility  string
	InitReadme  bool
}

// IssueFilter narrows ListIssues.
type IssueFilter struct {
	State    string
	Labels   []string
	Assignee string
	Author   string
	Search   string
	Limit    int
}

// CreateIssueSpec describes a new issue.
type CreateIssueSpec struct {
	Title       string
	Description string
	Labels      []string
	Assignees   []string
	Milestone   string
}

// IssuePatch lists the fields of an issue to change. Nil fields are left
// untouched.
type IssuePatch struct {
	Title       *string
	Description *string
	State       *string
	Labels      *[]string
	Assignees   *[]string
}

// MergeRequestFilter narrows ListMergeRequests.
type MergeRequestFilter struct {
	State        string
	Author       string
	Assignee     string
	SourceBranch string
	TargetBranch string
	Labels       []string
	Limit        int
}

// CreateMergeRequestSpec describes a new merge request. TargetProjectID
// defaults to SourceProjectID.
type CreateMergeRequestSpec struct {
	SourceProjectID    string
	SourceBranch       string
	TargetProjectID    string
	TargetBranch       string
	Title              string
	Description        string
	AssigneeUsername   string
	Labels             []string
	Draft              bool
	RemoveSourceBranch bool
}

// Validate checks the fields every platform requires.
func (s CreateMergeRequestSpec) Validate() error {
	var missing []string
	if s.SourceProjectID == "" {
		missing = append(missing, "source project")
	}
	if s.SourceBranch == "" {
		missing = append(missing, "source branch")
	}
	if s.TargetBranch == "" {
		missing = append(missing, "target branch")
	}
	if s.Title == "" {
		missing = append(missing, "title")
	}
	if len(missing) > 0 {
		return NewError(InvalidReference, "missing "+strings.Join(missing, ", "))
	}
	return nil
}

// Target returns the target project, defaulting to the source project.
func (s CreateMergeRequestSpec) Target() string {
	if s.TargetProjectID == "" {
		return s.SourceProjectID
	}
	return s.TargetProjectID
}

// IsCrossProject reports whether source and target projects differ.
func (s CreateMergeRequestSpec) IsCrossProject() bool {
	return s.Target() != s.SourceProjectID
}

// MergeOptions controls MergeMergeRequest.
type MergeOptions struct {
	Squash             bool
	RemoveSourceBranch bool
	CommitMessage      string
}

// DiffOptions controls GetMergeRequestDiff.
type DiffOptions struct {
	// IncludePatch keeps the unified diff text of each file.
	IncludePatch bool
	// MaxFiles caps the number of files returned, 0 means no cap.
	MaxFiles int
}

// BranchFilter narrows ListBranches.
type BranchFilter struct {
	Search string
	Limit  int
}

// ForkSpec describes where a fork goes. Empty fields keep the platform default
// (the caller's personal namespace and the source name).
type ForkSpec struct {
	Namespace string
	Name      string
}

// EffectiveLimit returns limit clamped to a sane range, defaulting to
// DefaultLimit.
func EffectiveLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}

// PerPage returns the page size to request for a given limit.
func PerPage(limit int) int {
	return min(EffectiveLimit(limit), MaxPerPage)
}

// BranchRef is a branch optionally qualified by its owner or project
// ("owner:branch").
type BranchRef struct {
	Owner  string
	Branch string
}

// ParseBranchRef splits "owner:branch" into its parts. A reference without a
// colon has no owner.
func ParseBranchRef(ref string) (BranchRef, error) {
	owner, branch, found := strings.Cut(ref, ":")
	if !found {
		owner, branch = "", ref
	}
	if branch == "" || (found && owner == "") {
		return BranchRef{}, NewError(InvalidReference, fmt.Sprintf("invalid branch reference %q", ref))
	}
	return BranchRef{Owner: owner, Branch: branch}, nil
}

// String renders the reference back to "owner:branch" form.
func (b BranchRef) String() string {
	if b.Owner == "" {
		return b.Branch
	}
	return b.Owner + ":" + b.Branch
}
