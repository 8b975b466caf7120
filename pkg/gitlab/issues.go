package gitlab

import (
	"context"
	"fmt"

	"github.com/sgaunet/git-mcp/pkg/platform"
	gitlab "gitlab.com/gitlab-org/api/client-go"
)

const stateEventClose = "close"
const stateEventReopen = "reopen"

// ListIssues lists issues of a project.
func (a *Adapter) ListIssues(ctx context.Context, projectID string, filter platform.IssueFilter) ([]platform.Issue, error) {
	opts := &gitlab.ListProjectIssuesOptions{
		State:  nativeState(filter.State),
		Labels: labelOptions(filter.Labels),
	}
	if filter.Assignee != "" {
		opts.AssigneeUsername = gitlab.Ptr(filter.Assignee)
	}
	if filter.Author != "" {
		opts.AuthorUsername = gitlab.Ptr(filter.Author)
	}
	if filter.Search != "" {
		opts.Search = gitlab.Ptr(filter.Search)
	}

	return platform.Paginate(filter.Limit, func(page, perPage int) ([]platform.Issue, int, error) {
		opts.Page = int64(page)
		opts.PerPage = int64(perPage)
		var issues []*gitlab.Issue
		var resp *gitlab.Response
		err := a.read(ctx, "list issues", func() error {
			var err error
			issues, resp, err = a.client.Issues.ListProjectIssues(projectID, opts, gitlab.WithContext(ctx))
			return err
		})
		if err != nil {
			return nil, 0, err
		}
		out := make([]platform.Issue, 0, len(issues))
		for _, i := range issues {
			out = append(out, *toIssue(i))
		}
		return out, int(resp.NextPage), nil
	})
}

// GetIssue fetches an issue and its user comments.
func (a *Adapter) GetIssue(ctx context.Context, projectID, issueID string) (*platform.Issue, error) {
	iid, err := parseIID("issue", issueID)
	if err != nil {
		return nil, err
	}

	var issue *gitlab.Issue
	err = a.read(ctx, "get issue", func() error {
		var err error
		issue, _, err = a.client.Issues.GetIssue(projectID, iid, gitlab.WithContext(ctx))
		return err
	})
	if err != nil {
		return nil, err
	}
	out := toIssue(issue)

	parent := platform.ParentRef{Kind: platform.ParentIssue, Project: out.Project, ID: out.ID}
	opts := &gitlab.ListIssueNotesOptions{Sort: gitlab.Ptr("asc"), OrderBy: gitlab.Ptr("created_at")}
	comments, err := platform.Paginate(platform.MaxPerPage*10, func(page, perPage int) ([]platform.Comment, int, error) {
		opts.Page = int64(page)
		opts.PerPage = int64(perPage)
		var notes []*gitlab.Note
		var resp *gitlab.Response
		err := a.read(ctx, "list issue notes", func() error {
			var err error
			notes, resp, err = a.client.Notes.ListIssueNotes(projectID, iid, opts, gitlab.WithContext(ctx))
			return err
		})
		if err != nil {
			return nil, 0, err
		}
		kept := make([]platform.Comment, 0, len(notes))
		for _, n := range notes {
			if n.System {
				continue
			}
			kept = append(kept, toComment(n, parent))
		}
		return kept, int(resp.NextPage), nil
	})
	if err != nil {
		return nil, err
	}
	out.Comments = comments
	return out, nil
}

// CreateIssue creates an issue. Unknown assignees become warnings.
func (a *Adapter) CreateIssue(ctx context.Context, projectID string, spec platform.CreateIssueSpec) (*platform.Result[platform.Issue], error) {
	if spec.Title == "" {
		return nil, platform.NewError(platform.InvalidReference, "issue title is required")
	}
	res := &platform.Result[platform.Issue]{}

	opts := &gitlab.CreateIssueOptions{
		Title:  gitlab.Ptr(spec.Title),
		Labels: labelOptions(spec.Labels),
	}
	if spec.Description != "" {
		opts.Description = gitlab.Ptr(spec.Description)
	}
	if ids, _ := a.resolveUsers(ctx, spec.Assignees, res.Warn); len(ids) > 0 {
		opts.AssigneeIDs = &ids
	}
	if spec.Milestone != "" {
		id, err := a.milestoneID(ctx, projectID, spec.Milestone)
		if err != nil {
			return nil, err
		}
		if id == 0 {
			res.Warn(fmt.Sprintf("milestone %q not found, issue created without milestone", spec.Milestone))
		} else {
			opts.MilestoneID = gitlab.Ptr(id)
		}
	}

	var issue *gitlab.Issue
	err := a.write("create issue", func() error {
		var err error
		issue, _, err = a.client.Issues.CreateIssue(projectID, opts, gitlab.WithContext(ctx))
		return err
	})
	if err != nil {
		return nil, err
	}
	res.Value = *toIssue(issue)
	return res, nil
}

// UpdateIssue applies the non-nil fields of patch.
func (a *Adapter) UpdateIssue(ctx context.Context, projectID, issueID string, patch platform.IssuePatch) (*platform.Result[platform.Issue], error) {
	iid, err := parseIID("issue", issueID)
	if err != nil {
		return nil, err
	}
	res := &platform.Result[platform.Issue]{}

	opts := &gitlab.UpdateIssueOptions{
		Title:       patch.Title,
		Description: patch.Description,
	}
	if patch.State != nil {
		switch *patch.State {
		case platform.StateClosed:
			opts.StateEvent = gitlab.Ptr(stateEventClose)
		case platform.StateOpen:
			opts.StateEvent = gitlab.Ptr(stateEventReopen)
		default:
			return nil, platform.Errorf(platform.InvalidReference, "unsupported issue state %q", *patch.State)
		}
	}
	if patch.Labels != nil {
		labels := gitlab.LabelOptions(*patch.Labels)
		opts.Labels = &labels
	}
	if patch.Assignees != nil {
		ids, complete := a.resolveUsers(ctx, *patch.Assignees, res.Warn)
		if complete {
			if ids == nil {
				ids = []int64{}
			}
			opts.AssigneeIDs = &ids
		} else {
			res.Warn("assignees left unchanged")
		}
	}

	var issue *gitlab.Issue
	err = a.write("update issue", func() error {
		var err error
		issue, _, err = a.client.Issues.UpdateIssue(projectID, iid, opts, gitlab.WithContext(ctx))
		return err
	})
	if err != nil {
		return nil, err
	}
	res.Value = *toIssue(issue)
	return res, nil
}

// CreateComment adds a note to an issue.
func (a *Adapter) CreateComment(ctx context.Context, projectID, issueID, body string) (*platform.Comment, error) {
	iid, err := parseIID("issue", issueID)
	if err != nil {
		return nil, err
	}
	if body == "" {
		return nil, platform.NewError(platform.InvalidReference, "comment body is required")
	}

	var note *gitlab.Note
	err = a.write("create issue note", func() error {
		var err error
		note, _, err = a.client.Notes.CreateIssueNote(projectID, iid,
			&gitlab.CreateIssueNoteOptions{Body: gitlab.Ptr(body)}, gitlab.WithContext(ctx))
		return err
	})
	if err != nil {
		return nil, err
	}
	c := toComment(note, platform.ParentRef{
		Kind:    platform.ParentIssue,
		Project: platform.ProjectRef{ID: projectID},
		ID:      idString(iid),
	})
	return &c, nil
}

// resolveUsers maps usernames to user IDs. Usernames that do not exist are
// reported through warn and skipped. complete is false when a lookup failed,
// in which case ids may miss users that do exist.
func (a *Adapter) resolveUsers(ctx context.Context, usernames []string, warn func(string)) (ids []int64, complete bool) {
	complete = true
	for _, username := range usernames {
		if username == "" {
			continue
		}
		id, err := a.userID(ctx, username)
		switch {
		case err != nil:
			complete = false
			warn(fmt.Sprintf("could not resolve assignee %q: %v", username, err))
		case id == 0:
			warn(fmt.Sprintf("assignee %q not found, left unassigned", username))
		default:
			ids = append(ids, id)
		}
	}
	return ids, complete
}

func (a *Adapter) userID(ctx context.Context, username string) (int64, error) {
	var users []*gitlab.User
	err := a.read(ctx, "find user", func() error {
		var err error
		users, _, err = a.client.Users.ListUsers(&gitlab.ListUsersOptions{Username: gitlab.Ptr(username)}, gitlab.WithContext(ctx))
		return err
	})
	if err != nil {
		return 0, err
	}
	for _, u := range users {
		if u.Username == username {
			return u.ID, nil
		}
	}
	return 0, nil
}

func (a *Adapter) milestoneID(ctx context.Context, projectID, title string) (int64, error) {
	var milestones []*gitlab.Milestone
	err := a.read(ctx, "find milestone", func() error {
		var err error
		milestones, _, err = a.client.Milestones.ListMilestones(projectID,
			&gitlab.ListMilestonesOptions{Title: gitlab.Ptr(title)}, gitlab.WithContext(ctx))
		return err
	})
	if err != nil {
		return 0, err
	}
	if len(milestones) == 0 {
		return 0, nil
	}
	return milestones[0].ID, nil
}
