package github

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/google/go-github/v69/github"
	"github.com/sgaunet/git-mcp/pkg/platform"
)

// ListIssues lists issues of a repository. Pull requests, which GitHub
// returns from the same endpoint, are skipped.
func (a *Adapter) ListIssues(ctx context.Context, projectID string, filter platform.IssueFilter) ([]platform.Issue, error) {
	owner, name, err := splitRepo(projectID)
	if err != nil {
		return nil, err
	}
	opts := &github.IssueListByRepoOptions{
		State:    nativeState(filter.State),
		Labels:   filter.Labels,
		Assignee: filter.Assignee,
		Creator:  filter.Author,
	}

	return platform.Paginate(filter.Limit, func(page, perPage int) ([]platform.Issue, int, error) {
		opts.Page = page
		opts.PerPage = perPage
		var issues []*github.Issue
		var resp *github.Response
		err := a.read(ctx, "list issues", func() error {
			var err error
			issues, resp, err = a.client.Issues.ListByRepo(ctx, owner, name, opts)
			return err
		})
		if err != nil {
			return nil, 0, err
		}
		out := make([]platform.Issue, 0, len(issues))
		for _, i := range issues {
			if i.IsPullRequest() {
				continue
			}
			if filter.Search != "" && !containsFold(i.GetTitle(), filter.Search) && !containsFold(i.GetBody(), filter.Search) {
				continue
			}
			out = append(out, *toIssue(i, projectID))
		}
		return out, resp.NextPage, nil
	})
}

// GetIssue fetches an issue and its comments.
func (a *Adapter) GetIssue(ctx context.Context, projectID, issueID string) (*platform.Issue, error) {
	owner, name, err := splitRepo(projectID)
	if err != nil {
		return nil, err
	}
	number, err := parseNumber("issue", issueID)
	if err != nil {
		return nil, err
	}

	var issue *github.Issue
	err = a.read(ctx, "get issue", func() error {
		var err error
		issue, _, err = a.client.Issues.Get(ctx, owner, name, number)
		return err
	})
	if err != nil {
		return nil, err
	}
	if issue.IsPullRequest() {
		return nil, platform.Errorf(platform.NotFound, "#%d in %s is a pull request, not an issue", number, projectID)
	}
	out := toIssue(issue, projectID)

	parent := platform.ParentRef{Kind: platform.ParentIssue, Project: out.Project, ID: out.ID}
	opts := &github.IssueListCommentsOptions{Sort: github.Ptr("created"), Direction: github.Ptr("asc")}
	comments, err := platform.Paginate(platform.MaxPerPage*10, func(page, perPage int) ([]platform.Comment, int, error) {
		opts.Page = page
		opts.PerPage = perPage
		var list []*github.IssueComment
		var resp *github.Response
		err := a.read(ctx, "list issue comments", func() error {
			var err error
			list, resp, err = a.client.Issues.ListComments(ctx, owner, name, number, opts)
			return err
		})
		if err != nil {
			return nil, 0, err
		}
		out := make([]platform.Comment, 0, len(list))
		for _, c := range list {
			out = append(out, toComment(c, parent))
		}
		return out, resp.NextPage, nil
	})
	if err != nil {
		return nil, err
	}
	out.Comments = comments
	return out, nil
}

// CreateIssue creates an issue. Assignees who cannot be assigned in the
// repository become warnings.
func (a *Adapter) CreateIssue(ctx context.Context, projectID string, spec platform.CreateIssueSpec) (*platform.Result[platform.Issue], error) {
	owner, name, err := splitRepo(projectID)
	if err != nil {
		return nil, err
	}
	if spec.Title == "" {
		return nil, platform.NewError(platform.InvalidReference, "issue title is required")
	}
	res := &platform.Result[platform.Issue]{}

	req := &github.IssueRequest{Title: github.Ptr(spec.Title)}
	if spec.Description != "" {
		req.Body = github.Ptr(spec.Description)
	}
	if len(spec.Labels) > 0 {
		req.Labels = &spec.Labels
	}
	if assignees, _ := a.assignable(ctx, owner, name, spec.Assignees, res.Warn); len(assignees) > 0 {
		req.Assignees = &assignees
	}
	if spec.Milestone != "" {
		number, err := a.milestoneNumber(ctx, owner, name, spec.Milestone)
		if err != nil {
			return nil, err
		}
		if number == 0 {
			res.Warn(fmt.Sprintf("milestone %q not found, issue created without milestone", spec.Milestone))
		} else {
			req.Milestone = github.Ptr(number)
		}
	}

	var issue *github.Issue
	err = a.write("create issue", func() error {
		var err error
		issue, _, err = a.client.Issues.Create(ctx, owner, name, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	res.Value = *toIssue(issue, projectID)
	return res, nil
}

// UpdateIssue applies the non-nil fields of patch.
func (a *Adapter) UpdateIssue(ctx context.Context, projectID, issueID string, patch platform.IssuePatch) (*platform.Result[platform.Issue], error) {
	owner, name, err := splitRepo(projectID)
	if err != nil {
		return nil, err
	}
	number, err := parseNumber("issue", issueID)
	if err != nil {
		return nil, err
	}
	res := &platform.Result[platform.Issue]{}

	req := &github.IssueRequest{Title: patch.Title, Body: patch.Description, Labels: patch.Labels}
	if patch.State != nil {
		switch *patch.State {
		case platform.StateOpen, platform.StateClosed:
			req.State = patch.State
		default:
			return nil, platform.Errorf(platform.InvalidReference, "unsupported issue state %q", *patch.State)
		}
	}
	if patch.Assignees != nil {
		assignees, complete := a.assignable(ctx, owner, name, *patch.Assignees, res.Warn)
		if complete {
			if assignees == nil {
				assignees = []string{}
			}
			req.Assignees = &assignees
		} else {
			res.Warn("assignees left unchanged")
		}
	}

	var issue *github.Issue
	err = a.write("update issue", func() error {
		var err error
		issue, _, err = a.client.Issues.Edit(ctx, owner, name, number, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	res.Value = *toIssue(issue, projectID)
	return res, nil
}

// CreateComment adds a comment to an issue.
func (a *Adapter) CreateComment(ctx context.Context, projectID, issueID, body string) (*platform.Comment, error) {
	owner, name, err := splitRepo(projectID)
	if err != nil {
		return nil, err
	}
	number, err := parseNumber("issue", issueID)
	if err != nil {
		return nil, err
	}
	if body == "" {
		return nil, platform.NewError(platform.InvalidReference, "comment body is required")
	}

	var comment *github.IssueComment
	err = a.write("create issue comment", func() error {
		var err error
		comment, _, err = a.client.Issues.CreateComment(ctx, owner, name, number, &github.IssueComment{Body: github.Ptr(body)})
		return err
	})
	if err != nil {
		return nil, err
	}
	c := toComment(comment, platform.ParentRef{
		Kind:    platform.ParentIssue,
		Project: platform.ProjectRef{ID: projectID, FullPath: projectID},
		ID:      strconv.Itoa(number),
	})
	return &c, nil
}

// assignable keeps the logins that can be assigned issues in the repository.
// The others are reported through warn. complete is false when a check
// failed, in which case out may miss assignable logins.
func (a *Adapter) assignable(ctx context.Context, owner, repo string, logins []string, warn func(string)) (out []string, complete bool) {
	complete = true
	for _, login := range logins {
		if login == "" || slices.Contains(out, login) {
			continue
		}
		var ok bool
		err := a.read(ctx, "check assignee", func() error {
			var err error
			ok, _, err = a.client.Issues.IsAssignee(ctx, owner, repo, login)
			return err
		})
		switch {
		case err != nil:
			complete = false
			warn(fmt.Sprintf("could not check assignee %q: %v", login, err))
		case !ok:
			warn(fmt.Sprintf("assignee %q cannot be assigned in %s/%s, left unassigned", login, owner, repo))
		default:
			out = append(out, login)
		}
	}
	return out, complete
}

func (a *Adapter) milestoneNumber(ctx context.Context, owner, repo, title string) (int, error) {
	opts := &github.MilestoneListOptions{State: platform.StateAll}
	milestones, err := platform.Paginate(platform.MaxPerPage*10, func(page, perPage int) ([]*github.Milestone, int, error) {
		opts.Page = page
		opts.PerPage = perPage
		var list []*github.Milestone
		var resp *github.Response
		err := a.read(ctx, "list milestones", func() error {
			var err error
			list, resp, err = a.client.Issues.ListMilestones(ctx, owner, repo, opts)
			return err
		})
		if err != nil {
			return nil, 0, err
		}
		return list, resp.NextPage, nil
	})
	if err != nil {
		return 0, err
	}
	for _, m := range milestones {
		if m.GetTitle() == title {
			return m.GetNumber(), nil
		}
	}
	return 0, nil
}
