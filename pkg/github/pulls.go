package github

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/google/go-github/v69/github"
	"github.com/sgaunet/git-mcp/pkg/platform"
)

// Pull request review and merge values.
const (
	reviewApprove = "APPROVE"
	mergeMethod   = "merge"
	squashMethod  = "squash"
)

// ListMergeRequests lists pull requests of a repository. Filters the pulls
// endpoint lacks are applied client-side.
func (a *Adapter) ListMergeRequests(ctx context.Context, projectID string, filter platform.MergeRequestFilter) ([]platform.MergeRequest, error) {
	owner, name, err := splitRepo(projectID)
	if err != nil {
		return nil, err
	}
	opts := &github.PullRequestListOptions{
		State:     nativeState(filter.State),
		Base:      filter.TargetBranch,
		Sort:      "updated",
		Direction: "desc",
	}
	if strings.Contains(filter.SourceBranch, ":") {
		opts.Head = filter.SourceBranch
	}

	return platform.Paginate(filter.Limit, func(page, perPage int) ([]platform.MergeRequest, int, error) {
		opts.Page = page
		opts.PerPage = perPage
		var pulls []*github.PullRequest
		var resp *github.Response
		err := a.read(ctx, "list pull requests", func() error {
			var err error
			pulls, resp, err = a.client.PullRequests.List(ctx, owner, name, opts)
			return err
		})
		if err != nil {
			return nil, 0, err
		}
		out := make([]platform.MergeRequest, 0, len(pulls))
		for _, pr := range pulls {
			mr := toMergeRequest(pr)
			if matchesFilter(pr, mr, filter) {
				out = append(out, *mr)
			}
		}
		return out, resp.NextPage, nil
	})
}

func matchesFilter(pr *github.PullRequest, mr *platform.MergeRequest, filter platform.MergeRequestFilter) bool {
	switch filter.State {
	case platform.StateMerged, platform.StateClosed:
		if mr.State != filter.State {
			return false
		}
	}
	if filter.Author != "" && !strings.EqualFold(mr.Author, filter.Author) {
		return false
	}
	if filter.Assignee != "" && !slices.ContainsFunc(mr.Assignees, func(s string) bool {
		return strings.EqualFold(s, filter.Assignee)
	}) {
		return false
	}
	if filter.SourceBranch != "" && !strings.Contains(filter.SourceBranch, ":") &&
		pr.GetHead().GetRef() != filter.SourceBranch {
		return false
	}
	for _, l := range filter.Labels {
		if !slices.Contains(mr.Labels, l) {
			return false
		}
	}
	return true
}

// GetMergeRequest fetches a pull request by number.
func (a *Adapter) GetMergeRequest(ctx context.Context, projectID, mrID string) (*platform.MergeRequest, error) {
	pr, err := a.getPull(ctx, projectID, mrID)
	if err != nil {
		return nil, err
	}
	return toMergeRequest(pr), nil
}

func (a *Adapter) getPull(ctx context.Context, projectID, mrID string) (*github.PullRequest, error) {
	owner, name, err := splitRepo(projectID)
	if err != nil {
		return nil, err
	}
	number, err := parseNumber("pull request", mrID)
	if err != nil {
		return nil, err
	}
	var pr *github.PullRequest
	err = a.read(ctx, "get pull request", func() error {
		var err error
		pr, _, err = a.client.PullRequests.Get(ctx, owner, name, number)
		return err
	})
	return pr, err
}

// pullHead is where a pull request comes from.
type pullHead struct {
	owner  string
	repo   string
	branch string
}

func (h pullHead) fullName() string {
	return h.owner + "/" + h.repo
}

// resolveHead works out the source repository and branch of a new pull
// request. An "owner:branch" source reference names the fork owner, whose
// repository carries the source project's name.
func resolveHead(spec platform.CreateMergeRequestSpec) (pullHead, error) {
	ref, err := platform.ParseBranchRef(spec.SourceBranch)
	if err != nil {
		return pullHead{}, err
	}
	owner, repo, err := splitRepo(spec.SourceProjectID)
	if err != nil {
		return pullHead{}, err
	}
	if ref.Owner != "" {
		owner = ref.Owner
	}
	return pullHead{owner: owner, repo: repo, branch: ref.Branch}, nil
}

// CreateMergeRequest opens a pull request against the target repository.
// A head from another repository is sent as "owner:branch". Assignee and
// labels are applied afterwards through the issues API; failures there are
// reported as warnings since the pull request already exists.
func (a *Adapter) CreateMergeRequest(ctx context.Context, spec platform.CreateMergeRequestSpec) (*platform.Result[platform.MergeRequest], error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	tgtOwner, tgtRepo, err := splitRepo(spec.Target())
	if err != nil {
		return nil, err
	}
	head, err := resolveHead(spec)
	if err != nil {
		return nil, err
	}
	crossRepo := !strings.EqualFold(head.fullName(), tgtOwner+"/"+tgtRepo)

	if err := a.checkBranches(ctx, head, tgtOwner, tgtRepo, spec.TargetBranch); err != nil {
		return nil, err
	}

	res := &platform.Result[platform.MergeRequest]{}
	assignee := ""
	if spec.AssigneeUsername != "" {
		assignee = a.collaborator(ctx, tgtOwner, tgtRepo, spec.AssigneeUsername, res.Warn)
	}
	if spec.RemoveSourceBranch {
		res.Warn("remove source branch is not supported when creating GitHub pull requests, ignored")
	}

	newPR := &github.NewPullRequest{
		Title: github.Ptr(spec.Title),
		Head:  github.Ptr(head.branch),
		Base:  github.Ptr(spec.TargetBranch),
		Draft: github.Ptr(spec.Draft),
	}
	if crossRepo {
		newPR.Head = github.Ptr(platform.BranchRef{Owner: head.owner, Branch: head.branch}.String())
	}
	if spec.Description != "" {
		newPR.Body = github.Ptr(spec.Description)
	}

	var pr *github.PullRequest
	err = a.write("create pull request", func() error {
		var err error
		pr, _, err = a.client.PullRequests.Create(ctx, tgtOwner, tgtRepo, newPR)
		return err
	})
	if err != nil {
		return nil, err
	}
	a.log.Debug(fmt.Sprintf("Created pull request #%d from %s into %s/%s:%s",
		pr.GetNumber(), newPR.GetHead(), tgtOwner, tgtRepo, spec.TargetBranch))

	if assignee != "" {
		err := a.write("add assignees", func() error {
			_, _, err := a.client.Issues.AddAssignees(ctx, tgtOwner, tgtRepo, pr.GetNumber(), []string{assignee})
			return err
		})
		if err != nil {
			res.Warn(fmt.Sprintf("pull request created but assignee %q could not be added: %v", assignee, err))
		} else {
			pr.Assignees = append(pr.Assignees, &github.User{Login: github.Ptr(assignee)})
		}
	}
	if len(spec.Labels) > 0 {
		var labels []*github.Label
		err := a.write("add labels", func() error {
			var err error
			labels, _, err = a.client.Issues.AddLabelsToIssue(ctx, tgtOwner, tgtRepo, pr.GetNumber(), spec.Labels)
			return err
		})
		if err != nil {
			res.Warn(fmt.Sprintf("pull request created but labels could not be added: %v", err))
		} else {
			pr.Labels = labels
		}
	}

	out := toMergeRequest(pr)
	out.SourceProject = platform.ProjectRef{ID: head.fullName(), FullPath: head.fullName()}
	out.TargetProject = platform.ProjectRef{ID: tgtOwner + "/" + tgtRepo, FullPath: tgtOwner + "/" + tgtRepo}
	out.SourceBranch = newPR.GetHead()
	res.Value = *out
	return res, nil
}

func (a *Adapter) checkBranches(ctx context.Context, head pullHead, tgtOwner, tgtRepo, targetBranch string) error {
	srcOK, err := a.branchExists(ctx, head.owner, head.repo, head.branch)
	if err != nil {
		return err
	}
	tgtOK, err := a.branchExists(ctx, tgtOwner, tgtRepo, targetBranch)
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
		"%s branch missing: source %q in %s, target %q in %s/%s",
		strings.Join(missing, " and "), head.branch, head.fullName(), targetBranch, tgtOwner, tgtRepo)
}

// collaborator returns login when it is a collaborator of the repository,
// otherwise it warns and returns "".
func (a *Adapter) collaborator(ctx context.Context, owner, repo, login string, warn func(string)) string {
	var ok bool
	err := a.read(ctx, "check collaborator", func() error {
		var err error
		ok, _, err = a.client.Repositories.IsCollaborator(ctx, owner, repo, login)
		return err
	})
	switch {
	case err != nil:
		warn(fmt.Sprintf("could not check assignee %q: %v", login, err))
		return ""
	case !ok:
		warn(fmt.Sprintf("assignee %q is not a collaborator of %s/%s, left unassigned", login, owner, repo))
		return ""
	default:
		return login
	}
}

// ApproveMergeRequest submits an approving review.
func (a *Adapter) ApproveMergeRequest(ctx context.Context, projectID, mrID string) error {
	owner, name, err := splitRepo(projectID)
	if err != nil {
		return err
	}
	number, err := parseNumber("pull request", mrID)
	if err != nil {
		return err
	}
	return a.write("approve pull request", func() error {
		_, _, err := a.client.PullRequests.CreateReview(ctx, owner, name, number,
			&github.PullRequestReviewRequest{Event: github.Ptr(reviewApprove)})
		return err
	})
}

// MergeMergeRequest merges a pull request and returns its updated state.
// Deleting the head branch afterwards is best effort.
func (a *Adapter) MergeMergeRequest(ctx context.Context, projectID, mrID string, opts platform.MergeOptions) (*platform.MergeRequest, error) {
	owner, name, err := splitRepo(projectID)
	if err != nil {
		return nil, err
	}
	number, err := parseNumber("pull request", mrID)
	if err != nil {
		return nil, err
	}
	method := mergeMethod
	if opts.Squash {
		method = squashMethod
	}

	var result *github.PullRequestMergeResult
	err = a.write("merge pull request", func() error {
		var err error
		result, _, err = a.client.PullRequests.Merge(ctx, owner, name, number, opts.CommitMessage,
			&github.PullRequestOptions{MergeMethod: method})
		return err
	})
	if err != nil {
		return nil, err
	}
	if !result.GetMerged() {
		return nil, platform.Errorf(platform.UpstreamError, "pull request #%d was not merged: %s", number, result.GetMessage())
	}

	pr, err := a.getPull(ctx, projectID, strconv.Itoa(number))
	if err != nil {
		return nil, err
	}
	if opts.RemoveSourceBranch {
		a.deleteHead(ctx, pr)
	}
	return toMergeRequest(pr), nil
}

func (a *Adapter) deleteHead(ctx context.Context, pr *github.PullRequest) {
	repo := pr.GetHead().GetRepo()
	err := a.write("delete head branch", func() error {
		_, err := a.client.Git.DeleteRef(ctx, repo.GetOwner().GetLogin(), repo.GetName(), "heads/"+pr.GetHead().GetRef())
		return err
	})
	if err != nil {
		a.log.Warn(fmt.Sprintf("Could not delete branch %s: %v", pr.GetHead().GetRef(), err))
	}
}

// GetMergeRequestDiff returns per-file changes with line counts.
func (a *Adapter) GetMergeRequestDiff(ctx context.Context, projectID, mrID string, opts platform.DiffOptions) (*platform.Diff, error) {
	owner, name, err := splitRepo(projectID)
	if err != nil {
		return nil, err
	}
	number, err := parseNumber("pull request", mrID)
	if err != nil {
		return nil, err
	}

	limit := platform.MaxPerPage * 30
	if opts.MaxFiles > 0 {
		limit = opts.MaxFiles
	}
	listOpts := &github.ListOptions{}
	files, err := platform.Paginate(limit, func(page, perPage int) ([]*github.CommitFile, int, error) {
		listOpts.Page = page
		listOpts.PerPage = perPage
		var files []*github.CommitFile
		var resp *github.Response
		err := a.read(ctx, "list pull request files", func() error {
			var err error
			files, resp, err = a.client.PullRequests.ListFiles(ctx, owner, name, number, listOpts)
			return err
		})
		if err != nil {
			return nil, 0, err
		}
		return files, resp.NextPage, nil
	})
	if err != nil {
		return nil, err
	}

	out := &platform.Diff{MergeRequestID: strconv.Itoa(number), Files: []platform.FileChange{}}
	for _, f := range files {
		out.Add(toFileChange(f, opts.IncludePatch))
	}
	return out, nil
}

// GetMergeRequestCommits lists the commits of a pull request.
func (a *Adapter) GetMergeRequestCommits(ctx context.Context, projectID, mrID string) ([]platform.Commit, error) {
	owner, name, err := splitRepo(projectID)
	if err != nil {
		return nil, err
	}
	number, err := parseNumber("pull request", mrID)
	if err != nil {
		return nil, err
	}
	opts := &github.ListOptions{}
	return platform.Paginate(platform.MaxPerPage*3, func(page, perPage int) ([]platform.Commit, int, error) {
		opts.Page = page
		opts.PerPage = perPage
		var commits []*github.RepositoryCommit
		var resp *github.Response
		err := a.read(ctx, "list pull request commits", func() error {
			var err error
			commits, resp, err = a.client.PullRequests.ListCommits(ctx, owner, name, number, opts)
			return err
		})
		if err != nil {
			return nil, 0, err
		}
		out := make([]platform.Commit, 0, len(commits))
		for _, c := range commits {
			out = append(out, toCommit(c))
		}
		return out, resp.NextPage, nil
	})
}
