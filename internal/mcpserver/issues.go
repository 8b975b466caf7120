package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sgaunet/git-mcp/pkg/platform"
)

type issueInput struct {
	Platform  string `json:"platform" jsonschema:"name of a configured platform"`
	ProjectID string `json:"project_id" jsonschema:"project ID or full path"`
	IssueID   string `json:"issue_id" jsonschema:"issue number within the project"`
}

type listIssuesInput struct {
	Platform  string   `json:"platform" jsonschema:"name of a configured platform"`
	ProjectID string   `json:"project_id" jsonschema:"project ID or full path"`
	State     string   `json:"state,omitempty" jsonschema:"open, closed or all"`
	Labels    []string `json:"labels,omitempty" jsonschema:"only issues carrying all these labels"`
	Assignee  string   `json:"assignee,omitempty" jsonschema:"filter by assignee username"`
	Author    string   `json:"author,omitempty" jsonschema:"filter by author username"`
	Search    string   `json:"search,omitempty" jsonschema:"search in title and description"`
	Limit     int      `json:"limit,omitempty" jsonschema:"maximum number of results"`
}

type listMyIssuesInput struct {
	Platform  string   `json:"platform" jsonschema:"name of a configured platform"`
	ProjectID string   `json:"project_id" jsonschema:"project ID or full path"`
	State     string   `json:"state,omitempty" jsonschema:"open, closed or all"`
	Labels    []string `json:"labels,omitempty" jsonschema:"only issues carrying all these labels"`
	Limit     int      `json:"limit,omitempty" jsonschema:"maximum number of results"`
}

type issueURLInput struct {
	URL string `json:"url" jsonschema:"web URL of an issue on a configured platform"`
}

type createIssueInput struct {
	Platform    string   `json:"platform" jsonschema:"name of a configured platform"`
	ProjectID   string   `json:"project_id" jsonschema:"project ID or full path"`
	Title       string   `json:"title" jsonschema:"issue title"`
	Description string   `json:"description,omitempty" jsonschema:"issue description (markdown)"`
	Labels      []string `json:"labels,omitempty" jsonschema:"labels to apply"`
	Assignees   []string `json:"assignees,omitempty" jsonschema:"usernames to assign"`
	Milestone   string   `json:"milestone,omitempty" jsonschema:"milestone title"`
}

type updateIssueInput struct {
	Platform    string    `json:"platform" jsonschema:"name of a configured platform"`
	ProjectID   string    `json:"project_id" jsonschema:"project ID or full path"`
	IssueID     string    `json:"issue_id" jsonschema:"issue number within the project"`
	Title       *string   `json:"title,omitempty" jsonschema:"new title"`
	Description *string   `json:"description,omitempty" jsonschema:"new description"`
	State       *string   `json:"state,omitempty" jsonschema:"open or closed"`
	Labels      *[]string `json:"labels,omitempty" jsonschema:"replacement label set"`
	Assignees   *[]string `json:"assignees,omitempty" jsonschema:"replacement assignee usernames"`
}

type commentInput struct {
	Platform  string `json:"platform" jsonschema:"name of a configured platform"`
	ProjectID string `json:"project_id" jsonschema:"project ID or full path"`
	IssueID   string `json:"issue_id" jsonschema:"issue number within the project"`
	Body      string `json:"body" jsonschema:"comment text (markdown)"`
}

func (s *Server) registerIssueTools() {
	addTool(s, &mcp.Tool{
		Name:        "list_issues",
		Description: "List issues of a project",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, in listIssuesInput) (any, error) {
		return s.svc.ListIssues(ctx, in.Platform, in.ProjectID, platform.IssueFilter{
			State:    in.State,
			Labels:   in.Labels,
			Assignee: in.Assignee,
			Author:   in.Author,
			Search:   in.Search,
			Limit:    s.limit(in.Limit),
		})
	})

	addTool(s, &mcp.Tool{
		Name:        "list_my_issues",
		Description: "List issues of a project assigned to the configured user",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, in listMyIssuesInput) (any, error) {
		return s.svc.ListMyIssues(ctx, in.Platform, in.ProjectID, platform.IssueFilter{
			State:  in.State,
			Labels: in.Labels,
			Limit:  s.limit(in.Limit),
		})
	})

	addTool(s, &mcp.Tool{
		Name:        "get_issue_details",
		Description: "Get an issue with its comments",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, in issueInput) (any, error) {
		return s.svc.GetIssue(ctx, in.Platform, in.ProjectID, in.IssueID)
	})

	addTool(s, &mcp.Tool{
		Name:        "get_issue_by_url",
		Description: "Get an issue from its web URL",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, in issueURLInput) (any, error) {
		return s.svc.GetIssueByURL(ctx, in.URL)
	})

	addTool(s, &mcp.Tool{
		Name:        "create_issue",
		Description: "Create an issue; unknown assignees or milestones are reported as warnings",
	}, func(ctx context.Context, in createIssueInput) (any, error) {
		return s.svc.CreateIssue(ctx, in.Platform, in.ProjectID, platform.CreateIssueSpec{
			Title:       in.Title,
			Description: in.Description,
			Labels:      in.Labels,
			Assignees:   in.Assignees,
			Milestone:   in.Milestone,
		})
	})

	addTool(s, &mcp.Tool{
		Name:        "update_issue",
		Description: "Change the title, description, state, labels or assignees of an issue",
	}, func(ctx context.Context, in updateIssueInput) (any, error) {
		return s.svc.UpdateIssue(ctx, in.Platform, in.ProjectID, in.IssueID, platform.IssuePatch{
			Title:       in.Title,
			Description: in.Description,
			State:       in.State,
			Labels:      in.Labels,
			Assignees:   in.Assignees,
		})
	})

	addTool(s, &mcp.Tool{
		Name:        "close_issue",
		Description: "Close an issue",
	}, func(ctx context.Context, in issueInput) (any, error) {
		return s.svc.CloseIssue(ctx, in.Platform, in.ProjectID, in.IssueID)
	})

	addTool(s, &mcp.Tool{
		Name:        "create_issue_comment",
		Description: "Add a comment to an issue",
	}, func(ctx context.Context, in commentInput) (any, error) {
		return s.svc.CreateComment(ctx, in.Platform, in.ProjectID, in.IssueID, in.Body)
	})
}
