package gitlab

import (
	"context"
	"fmt"
	"strings"

	"github.com/sgaunet/git-mcp/pkg/platform"
	gitlab "gitlab.com/gitlab-org/api/client-go"
)

const draftPrefix = "Draft: "

// ListMergeRequests lists merge requests targeting a project.
func (a *Adapter) ListMergeRequests(ctx context.Context, projectID string, filter platform.MergeRequestFilter) ([]platform.MergeRequest, error) {
	opts := &gitlab.ListProjectMergeRequestsOptions{
		State:  nativeState(filter.State),
		Labels: labelOptions(filter.Labels),
	}
	if filter.Author != "" {
		opts.AuthorUsername = gitlab.Ptr(filter.Author)
	}
	if filter.SourceBranch != "" {
		opts.SourceBranch = gitlab.Ptr(filter.SourceBranch)
	}
	if filter.TargetBranch != "" {
		opts.TargetBranch = gitlab.Ptr(filter.TargetBranch)
	}
	if filter.Assignee != "" {
		id, err := a.userID(ctx, filter.Assignee)
		if err != nil {
			return nil, err
		}
		if id == 0 {
			return []platform.MergeRequest{}, nil
		}
		opts.AssigneeID = gitlab.AssigneeID(id)
	}

	return platform.Paginate(filter.Limit, func(page, perPage int) ([]platform.MergeRequest, int, error) {
		opts.Page = int64(page)
		opts.PerPage = int64(perPage)
		var mrs []*gitlab.BasicMergeRequest
		var resp *gitlab.Response
		err := a.read(ctx, "list merge requests", func() error {
			var err error
			mrs, resp, err = a.client.MergeRequests.ListProjectMergeRequests(projectID, opts, gitlab.WithContext(ctx))
			return err
		})
		if err != nil {
			return nil, 0, err
		}
		out := make([]platform.MergeRequest, 0, len(mrs))
		for _, mr := range mrs {
			out = append(out, *toMergeRequest(mr))
		}
		return out, int(resp.NextPage), nil
	})
}

// GetMergeRequest fetches a merge request by IID.
func (a *Adapter) GetMergeRequest(ctx context.Context, projectID, mrID string) (*platform.MergeRequest, error) {
	iid, err := parseIID("merge request", mrID)
	if err != nil {
		return nil, err
	}
	var mr *gitlab.MergeRequest
	err = a.read(ctx, "get merge request", func() error {
		var err error
		mr, _, err = a.client.MergeRequests.GetMergeRequest(projectID, iid, nil, gitlab.WithContext(ctx))
		return err
	})
	if err != nil {
		return nil, err
	}
	return toMergeRequest(&mr.BasicMergeRequest), nil
}

// CreateMergeRequest opens a merge request on the source project. When the
// target project differs, target_project_id carries its numeric ID. A source
// branch of the form "project:branch" selects the source project.
func (a *Adapter) CreateMergeRequest(ctx context.Context, spec platform.CreateMergeRequestSpec) (*platform.Result[platform.MergeRequest], error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	ref, err := platform.ParseBranchRef(spec.SourceBranch)
	if err != nil {
		return nil, err
	}
	sourceID := spec.SourceProjectID
	if ref.Owner != "" {
		sourceID = ref.Owner
	}

	source, err := a.resolveProject(ctx, "source", sourceID)
	if err != nil {
		return nil, err
	}
	target := source
	if spec.Target() != sourceID {
		if target, err = a.resolveProject(ctx, "target", spec.Target()); err != nil {
			return nil, err
		}
	}

	if err := a.checkBranches(ctx, source, ref.Branch, target, spec.TargetBranch); err != nil {
		return nil, err
	}

	res := &platform.Result[platform.MergeRequest]{}
	title := spec.Title
	if spec.Draft && !strings.HasPrefix(title, draftPrefix) {
		title = draftPrefix + title
	}
	opts := &gitlab.CreateMergeRequestOptions{
		Title:        gitlab.Ptr(title),
		SourceBranch: gitlab.Ptr(ref.Branch),
		TargetBranch: gitlab.Ptr(spec.TargetBranch),
		Labels:       labelOptions(spec.Labels),
	}
	if spec.Description != "" {
		opts.Description = gitlab.Ptr(spec.Description)
	}
	if spec.RemoveSourceBranch {
		opts.RemoveSourceBranch = gitlab.Ptr(true)
	}
	if target.ID != source.ID {
		opts.TargetProjectID = gitlab.Ptr(target.ID)
	}
	if spec.AssigneeUsername != "" {
		if ids, _ := a.resolveUsers(ctx, []string{spec.AssigneeUsername}, res.Warn); len(ids) > 0 {
			opts.AssigneeID = gitlab.Ptr(ids[0])
		}
	}

	var mr *gitlab.MergeRequest
	err = a.write("create merge request", func() error {
		var err error
		mr, _, err = a.client.MergeRequests.CreateMergeRequest(source.ID, opts, gitlab.WithContext(ctx))
		return err
	})
	if err != nil {
		return nil, err
	}

	out := toMergeRequest(&mr.BasicMergeRequest)
	out.SourceProject = platform.ProjectRef{ID: idString(source.ID), FullPath: source.PathWithNamespace}
	out.TargetProject = platform.ProjectRef{ID: idString(target.ID), FullPath: target.PathWithNamespace}
	a.log.Debug(fmt.Sprintf("Created merge request !%d from %s:%s into %s:%s",
		mr.IID, source.PathWithNamespace, ref.Branch, target.PathWithNamespace, spec.TargetBranch))
	res.Value = *out
	return res, nil
}

// resolveProject fetches a project taking part in a merge request; a missing
// project is an invalid reference rather than a plain NotFound.
func (a *Adapter) resolveProject(ctx context.Context, role, projectID string) (*gitlab.Project, error) {
	p, err := a.getProject(ctx, projectID)
	if isNotFound(err) {
		return nil, platform.Errorf(platform.InvalidReference, "%s project %q not found", role, projectID)
	}
	return p, err
}

func (a *Adapter) checkBranches(ctx context.Context, source *gitlab.Project, sourceBranch string, target *gitlab.Project, targetBranch string) error {
	srcOK, err := a.branchExists(ctx, source.ID, sourceBranch)
	if err != nil {
		return err
	}
	tgtOK, err := a.branchExists(ctx, target.ID, targetBranch)
	if err != nil {
		return err
	}
	if srcOK && tgtOK {
		return nil
	}
	var missing []string
	if !srcOK {
		missing = append(missing, "source")
	}
	if !tgtOK {
		missing = append(missing, "target")
	}
	return platform.Errorf(platform.InvalidReference,
		"%s branch missing: source %q in %s, target %q in %s",
		strings.Join(missing, " and "), sourceBranch, source.PathWithNamespace, targetBranch, target.PathWithNamespace)
}

// ApproveMergeRequest approves a merge request as the token owner.
func (a *Adapter) ApproveMergeRequest(ctx context.Context, projectID, mrID string) error {
	iid, err := parseIID("merge request", mrID)
	if err != nil {
		return err
	}
	return a.write("approve merge request", func() error {
		_, _, err := a.client.MergeRequestApprovals.ApproveMergeRequest(projectID, iid, nil, gitlab.WithContext(ctx))
		return err
	})
}

// MergeMergeRequest accepts a merge request.
func (a *Adapter) MergeMergeRequest(ctx context.Context, projectID, mrID string, opts platform.MergeOptions) (*platform.MergeRequest, error) {
	iid, err := parseIID("merge request", mrID)
	if err != nil {
		return nil, err
	}
	accept := &gitlab.AcceptMergeRequestOptions{
		Squash:                   gitlab.Ptr(opts.Squash),
		ShouldRemoveSourceBranch: gitlab.Ptr(opts.RemoveSourceBranch),
	}
	if opts.CommitMessage != "" {
		accept.MergeCommitMessage = gitlab.Ptr(opts.CommitMessage)
	}

	var mr *gitlab.MergeRequest
	err = a.write("merge merge request", func() error {
		var err error
		mr, _, err = a.client.MergeRequests.AcceptMergeRequest(projectID, iid, accept, gitlab.WithContext(ctx))
		return err
	})
	if err != nil {
		return nil, err
	}
	return toMergeRequest(&mr.BasicMergeRequest), nil
}

// GetMergeRequestDiff returns per-file changes with line counts.
func (a *Adapter) GetMergeRequestDiff(ctx context.Context, projectID, mrID string, opts platform.DiffOptions) (*platform.Diff, error) {
	iid, err := parseIID("merge request", mrID)
	if err != nil {
		return nil, err
	}

	listOpts := &gitlab.ListMergeRequestDiffsOptions{}
	diffs, err := platform.Paginate(platform.MaxPerPage*30, func(page, perPage int) ([]*gitlab.MergeRequestDiff, int, error) {
		listOpts.Page = int64(page)
		listOpts.PerPage = int64(perPage)
		var diffs []*gitlab.MergeRequestDiff
		var resp *gitlab.Response
		err := a.read(ctx, "list merge request diffs", func() error {
			var err error
			diffs, resp, err = a.client.MergeRequests.ListMergeRequestDiffs(projectID, iid, listOpts, gitlab.WithContext(ctx))
			return err
		})
		if err != nil {
			return nil, 0, err
		}
		return diffs, int(resp.NextPage), nil
	})
	if err != nil {
		return nil, err
	}

	out := &platform.Diff{MergeRequestID: idString(iid), Files: []platform.FileChange{}}
	for _, d := range diffs {
		if opts.MaxFiles > 0 && len(out.Files) >= opts.MaxFiles {
			break
		}
		out.Add(toFileChange(d, opts.IncludePatch))
	}
	return out, nil
}

// GetMergeRequestCommits lists the commits of a merge request.
func (a *Adapter) GetMergeRequestCommits(ctx context.Context, projectID, mrID string) ([]platform.Commit, error) {
	iid, err := parseIID("merge request", mrID)
	if err != nil {
		return nil, err
	}
	opts := &gitlab.GetMergeRequestCommitsOptions{}
	return platform.Paginate(platform.MaxPerPage*10, func(page, perPage int) ([]platform.Commit, int, error) {
		opts.Page = int64(page)
		opts.PerPage = int64(perPage)
		var commits []*gitlab.Commit
		var resp *gitlab.Response
		err := a.read(ctx, "list merge request commits", func() error {
			var err error
			commits, resp, err = a.client.MergeRequests.GetMergeRequestCommits(projectID, iid, opts, gitlab.WithContext(ctx))
			return err
		})
		if err != nil {
			return nil, 0, err
		}
		out := make([]platform.Commit, 0, len(commits))
		for _, c := range commits {
			out = append(out, toCommit(c))
		}
		return out, int(resp.NextPage), nil
	})
}
