package github

import (
	"strconv"
	"strings"

	"github.com/google/go-github/v69/github"
	"github.com/sgaunet/git-mcp/pkg/platform"
)

// GitHub file statuses that differ from the normalized ones.
const (
	fileRemoved = "removed"
	fileCopied  = "copied"
)

func toProject(r *github.Repository) *platform.Project {
	out := &platform.Project{
		ID:            r.GetFullName(),
		Name:          r.GetName(),
		Path:          r.GetName(),
		FullPath:      r.GetFullName(),
		Namespace:     r.GetOwner().GetLogin(),
		Visibility:    visibility(r),
		Description:   r.GetDescription(),
		DefaultBranch: r.GetDefaultBranch(),
		WebURL:        r.GetHTMLURL(),
		HTTPCloneURL:  r.GetCloneURL(),
		SSHCloneURL:   r.GetSSHURL(),
		IsFork:        r.GetFork(),
		CreatedAt:     r.CreatedAt.GetTime(),
		UpdatedAt:     r.UpdatedAt.GetTime(),
	}
	if r.Parent != nil {
		out.Parent = &platform.ProjectRef{ID: r.Parent.GetFullName(), FullPath: r.Parent.GetFullName()}
	}
	return out
}

func visibility(r *github.Repository) string {
	if v := r.GetVisibility(); v != "" {
		return v
	}
	if r.GetPrivate() {
		return platform.VisibilityPrivate
	}
	return platform.VisibilityPublic
}

func toIssue(i *github.Issue, project string) *platform.Issue {
	out := &platform.Issue{
		ID:          strconv.Itoa(i.GetNumber()),
		Project:     platform.ProjectRef{ID: project, FullPath: project},
		Title:       i.GetTitle(),
		Description: i.GetBody(),
		State:       i.GetState(),
		Labels:      labelNames(i.Labels),
		Assignees:   logins(i.Assignees),
		Author:      i.GetUser().GetLogin(),
		Milestone:   i.GetMilestone().GetTitle(),
		WebURL:      i.GetHTMLURL(),
		CreatedAt:   i.CreatedAt.GetTime(),
		UpdatedAt:   i.UpdatedAt.GetTime(),
	}
	return out
}

func toMergeRequest(pr *github.PullRequest) *platform.MergeRequest {
	source := pr.GetHead().GetRepo().GetFullName()
	target := pr.GetBase().GetRepo().GetFullName()
	out := &platform.MergeRequest{
		ID:             strconv.Itoa(pr.GetNumber()),
		SourceProject:  platform.ProjectRef{ID: source, FullPath: source},
		TargetProject:  platform.ProjectRef{ID: target, FullPath: target},
		SourceBranch:   pr.GetHead().GetRef(),
		TargetBranch:   pr.GetBase().GetRef(),
		Title:          pr.GetTitle(),
		Description:    pr.GetBody(),
		State:          pullState(pr),
		Draft:          pr.GetDraft(),
		Author:         pr.GetUser().GetLogin(),
		Assignees:      logins(pr.Assignees),
		Labels:         labelNames(pr.Labels),
		WebURL:         pr.GetHTMLURL(),
		MergeCommitSHA: pr.GetMergeCommitSHA(),
		CreatedAt:      pr.CreatedAt.GetTime(),
		UpdatedAt:      pr.UpdatedAt.GetTime(),
	}
	if source != "" && target != "" && !strings.EqualFold(source, target) {
		out.SourceBranch = pr.GetHead().GetRepo().GetOwner().GetLogin() + ":" + pr.GetHead().GetRef()
	}
	return out
}

// pullState reports merged for closed pull requests that were merged.
func pullState(pr *github.PullRequest) string {
	if pr.GetMerged() || pr.MergedAt != nil {
		return platform.StateMerged
	}
	return pr.GetState()
}

func toComment(c *github.IssueComment, parent platform.ParentRef) platform.Comment {
	return platform.Comment{
		ID:        strconv.FormatInt(c.GetID(), 10),
		Author:    c.GetUser().GetLogin(),
		Body:      c.GetBody(),
		CreatedAt: c.CreatedAt.GetTime(),
		Parent:    parent,
	}
}

func toCommit(c *github.RepositoryCommit) platform.Commit {
	commit := c.GetCommit()
	return platform.Commit{
		SHA:         c.GetSHA(),
		Message:     commit.GetMessage(),
		Author:      commit.GetAuthor().GetName(),
		AuthoredAt:  commit.GetAuthor().Date.GetTime(),
		Committer:   commit.GetCommitter().GetName(),
		CommittedAt: commit.GetCommitter().Date.GetTime(),
		WebURL:      c.GetHTMLURL(),
	}
}

func toBranch(b *github.Branch, defaultBranch string) platform.Branch {
	return platform.Branch{
		Name:      b.GetName(),
		CommitSHA: b.GetCommit().GetSHA(),
		Protected: b.GetProtected(),
		Default:   b.GetName() == defaultBranch,
	}
}

func toUser(u *github.User) *platform.User {
	return &platform.User{
		ID:       strconv.FormatInt(u.GetID(), 10),
		Username: u.GetLogin(),
		Name:     u.GetName(),
		Email:    u.GetEmail(),
		WebURL:   u.GetHTMLURL(),
	}
}

func toFileChange(f *github.CommitFile, includePatch bool) platform.FileChange {
	fc := platform.FileChange{
		Path:      f.GetFilename(),
		Status:    platform.FileModified,
		Additions: f.GetAdditions(),
		Deletions: f.GetDeletions(),
	}
	switch f.GetStatus() {
	case platform.FileAdded, fileCopied:
		fc.Status = platform.FileAdded
	case fileRemoved:
		fc.Status = platform.FileDeleted
	case platform.FileRenamed:
		fc.Status = platform.FileRenamed
		fc.OldPath = f.GetPreviousFilename()
	}
	// GitHub omits the patch of binary files.
	fc.Binary = f.Patch == nil && f.GetChanges() == 0 && fc.Status != platform.FileRenamed
	if includePatch {
		fc.Patch = f.GetPatch()
	}
	return fc
}

func labelNames(labels []*github.Label) []string {
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		out = append(out, l.GetName())
	}
	return out
}

func logins(users []*github.User) []string {
	out := make([]string, 0, len(users))
	for _, u := range users {
		out = append(out, u.GetLogin())
	}
	return out
}

// nativeState maps a normalized state filter to the GitHub value. Merged
// pull requests are closed ones; callers filter them afterwards.
func nativeState(s string) string {
	switch s {
	case "", platform.StateAll:
		return platform.StateAll
	case platform.StateMerged:
		return platform.StateClosed
	default:
		return s
	}
}
