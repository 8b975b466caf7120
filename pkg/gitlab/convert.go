package gitlab

import (
	"strings"

	"github.com/sgaunet/git-mcp/pkg/platform"
	gitlab "gitlab.com/gitlab-org/api/client-go"
)

// GitLab reports "opened" where the normalized model says "open".
const stateOpened = "opened"

func toProject(p *gitlab.Project) *platform.Project {
	out := &platform.Project{
		ID:            idString(p.ID),
		Name:          p.Name,
		Path:          p.Path,
		FullPath:      p.PathWithNamespace,
		Visibility:    string(p.Visibility),
		Description:   p.Description,
		DefaultBranch: p.DefaultBranch,
		WebURL:        p.WebURL,
		HTTPCloneURL:  p.HTTPURLToRepo,
		SSHCloneURL:   p.SSHURLToRepo,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.LastActivityAt,
	}
	if p.Namespace != nil {
		out.Namespace = p.Namespace.FullPath
	}
	if p.ForkedFromProject != nil {
		out.IsFork = true
		out.Parent = &platform.ProjectRef{
			ID:       idString(p.ForkedFromProject.ID),
			FullPath: p.ForkedFromProject.PathWithNamespace,
		}
	}
	return out
}

func toIssue(i *gitlab.Issue) *platform.Issue {
	out := &platform.Issue{
		ID:          idString(i.IID),
		Project:     platform.ProjectRef{ID: idString(i.ProjectID)},
		Title:       i.Title,
		Description: i.Description,
		State:       normalizeState(i.State),
		Labels:      append([]string{}, i.Labels...),
		Assignees:   []string{},
		WebURL:      i.WebURL,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
	for _, a := range i.Assignees {
		if a != nil {
			out.Assignees = append(out.Assignees, a.Username)
		}
	}
	if i.Author != nil {
		out.Author = i.Author.Username
	}
	if i.Milestone != nil {
		out.Milestone = i.Milestone.Title
	}
	if i.References != nil {
		out.Project.FullPath = projectFromReference(i.References.Full)
	}
	return out
}

// projectFromReference strips the "#iid" suffix of a full issue reference.
func projectFromReference(ref string) string {
	if idx := strings.LastIndexAny(ref, "#!"); idx > 0 {
		return ref[:idx]
	}
	return ""
}

func toMergeRequest(mr *gitlab.BasicMergeRequest) *platform.MergeRequest {
	out := &platform.MergeRequest{
		ID:             idString(mr.IID),
		SourceProject:  platform.ProjectRef{ID: idString(mr.SourceProjectID)},
		TargetProject:  platform.ProjectRef{ID: idString(mr.TargetProjectID)},
		SourceBranch:   mr.SourceBranch,
		TargetBranch:   mr.TargetBranch,
		Title:          mr.Title,
		Description:    mr.Description,
		State:          normalizeState(mr.State),
		Draft:          mr.Draft,
		Labels:         append([]string{}, mr.Labels...),
		Assignees:      []string{},
		WebURL:         mr.WebURL,
		MergeCommitSHA: mr.MergeCommitSHA,
		CreatedAt:      mr.CreatedAt,
		UpdatedAt:      mr.UpdatedAt,
	}
	if mr.Author != nil {
		out.Author = mr.Author.Username
	}
	for _, a := range mr.Assignees {
		if a != nil {
			out.Assignees = append(out.Assignees, a.Username)
		}
	}
	if mr.References != nil && mr.SourceProjectID == mr.TargetProjectID {
		path := projectFromReference(mr.References.Full)
		out.SourceProject.FullPath = path
		out.TargetProject.FullPath = path
	}
	return out
}

func toComment(n *gitlab.Note, parent platform.ParentRef) platform.Comment {
	return platform.Comment{
		ID:        idString(n.ID),
		Author:    n.Author.Username,
		Body:      n.Body,
		CreatedAt: n.CreatedAt,
		Parent:    parent,
	}
}

func toCommit(c *gitlab.Commit) platform.Commit {
	return platform.Commit{
		SHA:         c.ID,
		Message:     c.Message,
		Author:      c.AuthorName,
		AuthoredAt:  c.AuthoredDate,
		Committer:   c.CommitterName,
		CommittedAt: c.CommittedDate,
		WebURL:      c.WebURL,
	}
}

func toBranch(b *gitlab.Branch) platform.Branch {
	out := platform.Branch{Name: b.Name, Protected: b.Protected, Default: b.Default}
	if b.Commit != nil {
		out.CommitSHA = b.Commit.ID
	}
	return out
}

func toUser(u *gitlab.User) *platform.User {
	return &platform.User{
		ID:       idString(u.ID),
		Username: u.Username,
		Name:     u.Name,
		Email:    u.Email,
		WebURL:   u.WebURL,
	}
}

func toFileChange(d *gitlab.MergeRequestDiff, includePatch bool) platform.FileChange {
	fc := platform.FileChange{Path: d.NewPath, Status: platform.FileModified}
	switch {
	case d.NewFile:
		fc.Status = platform.FileAdded
	case d.DeletedFile:
		fc.Status = platform.FileDeleted
		fc.Path = d.OldPath
	case d.RenamedFile:
		fc.Status = platform.FileRenamed
		fc.OldPath = d.OldPath
	}
	fc.Additions, fc.Deletions, fc.Binary = countDiff(d.Diff)
	if includePatch && !fc.Binary {
		fc.Patch = d.Diff
	}
	return fc
}

// countDiff counts added and removed lines of a unified diff.
func countDiff(diff string) (int, int, bool) {
	if strings.HasPrefix(diff, "Binary files") {
		return 0, 0, true
	}
	var add, del int
	for _, line := range strings.Split(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		case strings.HasPrefix(line, "+"):
			add++
		case strings.HasPrefix(line, "-"):
			del++
		}
	}
	return add, del, false
}

func normalizeState(s string) string {
	switch s {
	case stateOpened, "reopened", "locked":
		return platform.StateOpen
	default:
		return s
	}
}

// nativeState maps a normalized state filter to the GitLab value. "all" and
// empty mean no filter.
func nativeState(s string) *string {
	switch s {
	case "", platform.StateAll:
		return nil
	case platform.StateOpen:
		return gitlab.Ptr(stateOpened)
	default:
		return gitlab.Ptr(s)
	}
}

func nativeVisibility(v string) *gitlab.VisibilityValue {
	switch v {
	case platform.VisibilityPublic:
		return gitlab.Ptr(gitlab.PublicVisibility)
	case platform.VisibilityInternal:
		return gitlab.Ptr(gitlab.InternalVisibility)
	case platform.VisibilityPrivate:
		return gitlab.Ptr(gitlab.PrivateVisibility)
	default:
		return nil
	}
}

func labelOptions(labels []string) *gitlab.LabelOptions {
	if len(labels) == 0 {
		return nil
	}
	opts := gitlab.LabelOptions(labels)
	return &opts
}
