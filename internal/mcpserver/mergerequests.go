package mcpserver

import (
	"cmp"
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sgaunet/git-mcp/pkg/platform"
)

const defaultTargetBranch = "main"

type mergeRequestInput struct {
	Platform       string `json:"platform" jsonschema:"name of a configured platform"`
	ProjectID      string `json:"project_id" jsonschema:"target project ID or full path"`
	MergeRequestID string `json:"merge_request_id" jsonschema:"merge request or pull request number"`
}

type listMergeRequestsInput struct {
	Platform     string   `json:"platform" jsonschema:"name of a configured platform"`
	ProjectID    string   `json:"project_id" jsonschema:"target project ID or full path"`
	State        string   `json:"state,omitempty" jsonschema:"open, closed, merged or all"`
	Author       string   `json:"author,omitempty" jsonschema:"filter by author username"`
	Assignee     string   `json:"assignee,omitempty" jsonschema:"filter by assignee username"`
	SourceBranch string   `json:"source_branch,omitempty" jsonschema:"filter by source branch"`
	TargetBranch string   `json:"target_branch,omitempty" jsonschema:"filter by target branch"`
	Labels       []string `json:"labels,omitempty" jsonschema:"only merge requests carrying all these labels"`
	Limit        int      `json:"limit,omitempty" jsonschema:"maximum number of results"`
}

type listMyMergeRequestsInput struct {
	Platform  string `json:"platform" jsonschema:"name of a configured platform"`
	ProjectID string `json:"project_id" jsonschema:"target project ID or full path"`
	State     string `json:"state,omitempty" jsonschema:"open, closed, merged or all"`
	Limit     int    `json:"limit,omitempty" jsonschema:"maximum number of results"`
}

type createMergeRequestInput struct {
	Platform           string   `json:"platform" jsonschema:"name of a configured platform"`
	ProjectID          string   `json:"project_id" jsonschema:"project holding the source branch (a fork for cross-project requests)"`
	SourceBranch       string   `json:"source_branch" jsonschema:"source branch, optionally owner-qualified as owner:branch"`
	TargetProjectID    string   `json:"target_project_id,omitempty" jsonschema:"project receiving the merge request, defaults to the source project"`
	TargetBranch       string   `json:"target_branch,omitempty" jsonschema:"branch to merge into, defaults to main"`
	Title              string   `json:"title" jsonschema:"merge request title"`
	Description        string   `json:"description,omitempty" jsonschema:"merge request description (markdown)"`
	Assignee           string   `json:"assignee,omitempty" jsonschema:"username to assign"`
	Labels             []string `json:"labels,omitempty" jsonschema:"labels to apply"`
	Draft              bool     `json:"draft,omitempty" jsonschema:"open as draft"`
	RemoveSourceBranch bool     `json:"remove_source_branch,omitempty" jsonschema:"delete the source branch once merged"`
}

type mergeInput struct {
	Platform           string `json:"platform" jsonschema:"name of a configured platform"`
	ProjectID          string `json:"project_id" jsonschema:"target project ID or full path"`
	MergeRequestID     string `json:"merge_request_id" jsonschema:"merge request or pull request number"`
	Squash             bool   `json:"squash,omitempty" jsonschema:"squash commits"`
	RemoveSourceBranch bool   `json:"remove_source_branch,omitempty" jsonschema:"delete the source branch after merging"`
	CommitMessage      string `json:"commit_message,omitempty" jsonschema:"custom merge commit message"`
}

type diffInput struct {
	Platform       string `json:"platform" jsonschema:"name of a configured platform"`
	ProjectID      string `json:"project_id" jsonschema:"target project ID or full path"`
	MergeRequestID string `json:"merge_request_id" jsonschema:"merge request or pull request number"`
	IncludePatch   bool   `json:"include_patch,omitempty" jsonschema:"include the unified diff of each file"`
	MaxFiles       int    `json:"max_files,omitempty" jsonschema:"maximum number of files, 0 for all"`
}

func (s *Server) registerMergeRequestTools() {
	addTool(s, &mcp.Tool{
		Name:        "list_merge_requests",
		Description: "List merge requests (pull requests on GitHub) targeting a project",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, in listMergeRequestsInput) (any, error) {
		return s.svc.ListMergeRequests(ctx, in.Platform, in.ProjectID, platform.MergeRequestFilter{
			State:        in.State,
			Author:       in.Author,
			Assignee:     in.Assignee,
			SourceBranch: in.SourceBranch,
			TargetBranch: in.TargetBranch,
			Labels:       in.Labels,
			Limit:        s.limit(in.Limit),
		})
	})

	addTool(s, &mcp.Tool{
		Name:        "list_my_merge_requests",
		Description: "List merge requests of a project authored by the configured user",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, in listMyMergeRequestsInput) (any, error) {
		return s.svc.ListMyMergeRequests(ctx, in.Platform, in.ProjectID, platform.MergeRequestFilter{
			State: in.State,
			Limit: s.limit(in.Limit),
		})
	})

	addTool(s, &mcp.Tool{
		Name:        "get_merge_request_details",
		Description: "Get the details of a merge request",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, in mergeRequestInput) (any, error) {
		return s.svc.GetMergeRequest(ctx, in.Platform, in.ProjectID, in.MergeRequestID)
	})

	addTool(s, &mcp.Tool{
		Name: "create_merge_request",
		Description: "Open a merge request after checking both branches exist. " +
			"Set target_project_id to open it from a fork into the upstream project",
	}, func(ctx context.Context, in createMergeRequestInput) (any, error) {
		return s.svc.CreateMergeRequest(ctx, in.Platform, platform.CreateMergeRequestSpec{
			SourceProjectID:    in.ProjectID,
			SourceBranch:       in.SourceBranch,
			TargetProjectID:    in.TargetProjectID,
			TargetBranch:       cmp.Or(in.TargetBranch, defaultTargetBranch),
			Title:              in.Title,
			Description:        in.Description,
			AssigneeUsername:   in.Assignee,
			Labels:             in.Labels,
			Draft:              in.Draft,
			RemoveSourceBranch: in.RemoveSourceBranch,
		})
	})

	addTool(s, &mcp.Tool{
		Name:        "approve_merge_request",
		Description: "Approve a merge request as the token owner",
	}, func(ctx context.Context, in mergeRequestInput) (any, error) {
		if err := s.svc.ApproveMergeRequest(ctx, in.Platform, in.ProjectID, in.MergeRequestID); err != nil {
			return nil, err
		}
		return map[string]string{"status": "approved", "merge_request_id": in.MergeRequestID}, nil
	})

	addTool(s, &mcp.Tool{
		Name:        "merge_merge_request",
		Description: "Merge a merge request",
		Annotations: &mcp.ToolAnnotations{DestructiveHint: ptr(true)},
	}, func(ctx context.Context, in mergeInput) (any, error) {
		return s.svc.MergeMergeRequest(ctx, in.Platform, in.ProjectID, in.MergeRequestID, platform.MergeOptions{
			Squash:             in.Squash,
			RemoveSourceBranch: in.RemoveSourceBranch,
			CommitMessage:      in.CommitMessage,
		})
	})

	addTool(s, &mcp.Tool{
		Name:        "get_merge_request_diff",
		Description: "Get the changed files of a merge request with line counts",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, in diffInput) (any, error) {
		return s.svc.GetMergeRequestDiff(ctx, in.Platform, in.ProjectID, in.MergeRequestID, platform.DiffOptions{
			IncludePatch: in.IncludePatch,
			MaxFiles:     in.MaxFiles,
		})
	})

	addTool(s, &mcp.Tool{
		Name:        "get_merge_request_commits",
		Description: "List the commits of a merge request",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, in mergeRequestInput) (any, error) {
		return s.svc.GetMergeRequestCommits(ctx, in.Platform, in.ProjectID, in.MergeRequestID)
	})
}
