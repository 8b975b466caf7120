// Package platform defines the normalized model shared by the GitLab and GitHub adapters.
//
// The [Adapter] interface is the capability contract every hosting platform
// implements. Entities returned through it never expose platform SDK types, so
// callers can route the same operation to either platform by name:
//
//	adapter, _ := gitlab.New(conn, platform.Options{Logger: log})
//	res, err := adapter.CreateMergeRequest(ctx, platform.CreateMergeRequestSpec{...})
//	for _, w := range res.Warnings {
//		log.Warn(w)
//	}
package platform

import (
	"encoding/json"
	"time"
)

// Kind identifies a hosting platform implementation.
type Kind string

// Supported platform kinds.
const (
	KindGitLab Kind = "gitlab"
	KindGitHub Kind = "github"
)

// ParseKind converts a configuration value into a Kind.
func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindGitLab, KindGitHub:
		return Kind(s), true
	default:
		return "", false
	}
}

// Issue and merge request states.
const (
	StateOpen   = "open"
	StateClosed = "closed"
	StateMerged = "merged"
	StateAll    = "all"
)

// Project visibility levels.
const (
	VisibilityPublic   = "public"
	VisibilityInternal = "internal"
	VisibilityPrivate  = "private"
)

// File change statuses reported in a Diff.
const (
	FileAdded    = "added"
	FileDeleted  = "deleted"
	FileRenamed  = "renamed"
	FileModified = "modified"
)

// ProjectRef points at a project by ID. The ID re-resolves through the adapter
// that produced it.
type ProjectRef struct {
	ID       string `json:"id" yaml:"id"`
	FullPath string `json:"full_path,omitempty" yaml:"full_path,omitempty"`
}

// Project is a normalized repository.
type Project struct {
	ID            string      `json:"id" yaml:"id"`
	Name          string      `json:"name" yaml:"name"`
	Path          string      `json:"path" yaml:"path"`
	FullPath      string      `json:"full_path" yaml:"full_path"`
	Namespace     string      `json:"namespace" yaml:"namespace"`
	Visibility    string      `json:"visibility" yaml:"visibility"`
	Description   string      `json:"description,omitempty" yaml:"description,omitempty"`
	DefaultBranch string      `json:"default_branch,omitempty" yaml:"default_branch,omitempty"`
	WebURL        string      `json:"web_url" yaml:"web_url"`
	HTTPCloneURL  string      `json:"http_clone_url,omitempty" yaml:"http_clone_url,omitempty"`
	SSHCloneURL   string      `json:"ssh_clone_url,omitempty" yaml:"ssh_clone_url,omitempty"`
	IsFork        bool        `json:"is_fork" yaml:"is_fork"`
	Parent        *ProjectRef `json:"parent,omitempty" yaml:"parent,omitempty"`
	CreatedAt     *time.Time  `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt     *time.Time  `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// Issue is a normalized issue. ID is the project-scoped number (GitLab IID,
// GitHub issue number).
type Issue struct {
	ID          string     `json:"id" yaml:"id"`
	Project     ProjectRef `json:"project" yaml:"project"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	State       string     `json:"state" yaml:"state"`
	Labels      []string   `json:"labels" yaml:"labels"`
	Assignees   []string   `json:"assignees" yaml:"assignees"`
	Author      string     `json:"author" yaml:"author"`
	Milestone   string     `json:"milestone,omitempty" yaml:"milestone,omitempty"`
	WebURL      string     `json:"web_url" yaml:"web_url"`
	CreatedAt   *time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
	Comments    []Comment  `json:"comments,omitempty" yaml:"comments,omitempty"`
}

// MergeRequest is a normalized merge request or pull request.
//
// SourceProject and TargetProject differ when the request comes from a fork.
// On GitHub a cross-repository SourceBranch carries the owner prefix
// ("owner:branch").
type MergeRequest struct {
	ID             string     `json:"id" yaml:"id"`
	SourceProject  ProjectRef `json:"source_project" yaml:"source_project"`
	TargetProject  ProjectRef `json:"target_project" yaml:"target_project"`
	SourceBranch   string     `json:"source_branch" yaml:"source_branch"`
	TargetBranch   string     `json:"target_branch" yaml:"target_branch"`
	Title          string     `json:"title" yaml:"title"`
	Description    string     `json:"description,omitempty" yaml:"description,omitempty"`
	State          string     `json:"state" yaml:"state"`
	Draft          bool       `json:"draft" yaml:"draft"`
	Author         string     `json:"author" yaml:"author"`
	Assignees      []string   `json:"assignees" yaml:"assignees"`
	Labels         []string   `json:"labels" yaml:"labels"`
	WebURL         string     `json:"web_url" yaml:"web_url"`
	MergeCommitSHA string     `json:"merge_commit_sha,omitempty" yaml:"merge_commit_sha,omitempty"`
	CreatedAt      *time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// ParentRef identifies the issue or merge request a comment belongs to.
type ParentRef struct {
	Kind    string     `json:"kind" yaml:"kind"`
	Project ProjectRef `json:"project" yaml:"project"`
	ID      string     `json:"id" yaml:"id"`
}

// Parent kinds.
const (
	ParentIssue        = "issue"
	ParentMergeRequest = "merge_request"
)

// Comment is a normalized note on an issue or merge request.
type Comment struct {
	ID        string     `json:"id" yaml:"id"`
	Author    string     `json:"author" yaml:"author"`
	Body      string     `json:"body" yaml:"body"`
	CreatedAt *time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	Parent    ParentRef  `json:"parent" yaml:"parent"`
}

// FileChange is one file of a merge request diff.
type FileChange struct {
	Path      string `json:"path" yaml:"path"`
	OldPath   string `json:"old_path,omitempty" yaml:"old_path,omitempty"`
	Status    string `json:"status" yaml:"status"`
	Additions int    `json:"additions" yaml:"additions"`
	Deletions int    `json:"deletions" yaml:"deletions"`
	Binary    bool   `json:"binary" yaml:"binary"`
	Patch     string `json:"patch,omitempty" yaml:"patch,omitempty"`
}

// Diff summarizes the changes of a merge request.
type Diff struct {
	MergeRequestID string       `json:"merge_request_id" yaml:"merge_request_id"`
	Additions      int          `json:"additions" yaml:"additions"`
	Deletions      int          `json:"deletions" yaml:"deletions"`
	FilesChanged   int          `json:"files_changed" yaml:"files_changed"`
	Files          []FileChange `json:"files" yaml:"files"`
}

// Add appends a file and updates the totals.
func (d *Diff) Add(f FileChange) {
	d.Files = append(d.Files, f)
	d.Additions += f.Additions
	d.Deletions += f.Deletions
	d.FilesChanged = len(d.Files)
}

// Commit is a normalized commit of a merge request.
type Commit struct {
	SHA         string     `json:"sha" yaml:"sha"`
	Message     string     `json:"message" yaml:"message"`
	Author      string     `json:"author" yaml:"author"`
	AuthoredAt  *time.Time `json:"authored_at,omitempty" yaml:"authored_at,omitempty"`
	Committer   string     `json:"committer,omitempty" yaml:"committer,omitempty"`
	CommittedAt *time.Time `json:"committed_at,omitempty" yaml:"committed_at,omitempty"`
	WebURL      string     `json:"web_url,omitempty" yaml:"web_url,omitempty"`
}

// Branch is a normalized repository branch.
type Branch struct {
	Name      string `json:"name" yaml:"name"`
	CommitSHA string `json:"commit_sha" yaml:"commit_sha"`
	Protected bool   `json:"protected" yaml:"protected"`
	Default   bool   `json:"default" yaml:"default"`
}

// User is the account behind a platform token.
type User struct {
	ID       string `json:"id" yaml:"id"`
	Username string `json:"username" yaml:"username"`
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
	Email    string `json:"email,omitempty" yaml:"email,omitempty"`
	WebURL   string `json:"web_url,omitempty" yaml:"web_url,omitempty"`
}

// Result carries a value together with non-fatal warnings, such as an
// assignee that could not be resolved.
type Result[T any] struct {
	Value    T        `json:"result" yaml:"result"`
	Warnings []string `json:"warnings" yaml:"warnings"`
}

// Warn records a warning.
func (r *Result[T]) Warn(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// MarshalJSON renders missing warnings as an empty list.
func (r Result[T]) MarshalJSON() ([]byte, error) {
	warnings := r.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	return json.Marshal(struct {
		Value    T        `json:"result"`
		Warnings []string `json:"warnings"`
	}{r.Value, warnings})
}
