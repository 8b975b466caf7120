package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sgaunet/git-mcp/pkg/platform"
)

type projectInput struct {
	Platform  string `json:"platform" jsonschema:"name of a configured platform"`
	ProjectID string `json:"project_id" jsonschema:"project ID or full path (GitLab group/project, GitHub owner/repo)"`
}

type listProjectsInput struct {
	Platform   string `json:"platform" jsonschema:"name of a configured platform"`
	Search     string `json:"search,omitempty" jsonschema:"filter by name"`
	Owned      bool   `json:"owned,omitempty" jsonschema:"only projects owned by the caller"`
	Membership bool   `json:"membership,omitempty" jsonschema:"only projects the caller is a member of"`
	Visibility string `json:"visibility,omitempty" jsonschema:"public, internal or private"`
	Limit      int    `json:"limit,omitempty" jsonschema:"maximum number of results"`
}

type createProjectInput struct {
	Platform    string `json:"platform" jsonschema:"name of a configured platform"`
	Name        string `json:"name" jsonschema:"project name"`
	Path        string `json:"path,omitempty" jsonschema:"URL path, defaults to the name"`
	Namespace   string `json:"namespace,omitempty" jsonschema:"group or organization, defaults to the caller"`
	Description string `json:"description,omitempty" jsonschema:"project description"`
	Visibility  string `json:"visibility,omitempty" jsonschema:"public, internal or private"`
	InitReadme  bool   `json:"initialize_with_readme,omitempty" jsonschema:"create an initial README commit"`
}

type deleteProjectInput struct {
	Platform  string `json:"platform" jsonschema:"name of a configured platform"`
	ProjectID string `json:"project_id" jsonschema:"project ID or full path"`
	Confirm   bool   `json:"confirm" jsonschema:"must be true, the deletion cannot be undone"`
}

type listBranchesInput struct {
	Platform  string `json:"platform" jsonschema:"name of a configured platform"`
	ProjectID string `json:"project_id" jsonschema:"project ID or full path"`
	Search    string `json:"search,omitempty" jsonschema:"filter by branch name"`
	Limit     int    `json:"limit,omitempty" jsonschema:"maximum number of results"`
}

type createForkInput struct {
	Platform  string `json:"platform" jsonschema:"name of a configured platform"`
	ProjectID string `json:"project_id" jsonschema:"project to fork"`
	Namespace string `json:"namespace,omitempty" jsonschema:"group or organization receiving the fork, defaults to the caller"`
	Name      string `json:"name,omitempty" jsonschema:"name of the fork, defaults to the source name"`
}

type forkInfo struct {
	IsFork bool              `json:"is_fork"`
	Parent *platform.Project `json:"parent"`
}

func (s *Server) registerProjectTools() {
	addTool(s, &mcp.Tool{
		Name:        "list_projects",
		Description: "List projects (repositories) visible on a platform",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, in listProjectsInput) (any, error) {
		return s.svc.ListProjects(ctx, in.Platform, platform.ProjectFilter{
			Search:     in.Search,
			Owned:      in.Owned,
			Membership: in.Membership,
			Visibility: in.Visibility,
			Limit:      s.limit(in.Limit),
		})
	})

	addTool(s, &mcp.Tool{
		Name:        "get_project_details",
		Description: "Get the details of a project",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, in projectInput) (any, error) {
		return s.svc.GetProject(ctx, in.Platform, in.ProjectID)
	})

	addTool(s, &mcp.Tool{
		Name:        "create_project",
		Description: "Create a project, in a group or organization when a namespace is given",
	}, func(ctx context.Context, in createProjectInput) (any, error) {
		return s.svc.CreateProject(ctx, in.Platform, platform.CreateProjectSpec{
			Name:        in.Name,
			Path:        in.Path,
			Namespace:   in.Namespace,
			Description: in.Description,
			Visibility:  in.Visibility,
			InitReadme:  in.InitReadme,
		})
	})

	addTool(s, &mcp.Tool{
		Name:        "delete_project",
		Description: "Delete a project permanently",
		Annotations: &mcp.ToolAnnotations{DestructiveHint: ptr(true)},
	}, func(ctx context.Context, in deleteProjectInput) (any, error) {
		if !in.Confirm {
			return nil, platform.NewError(platform.InvalidReference, "deletion requires confirm=true")
		}
		if err := s.svc.DeleteProject(ctx, in.Platform, in.ProjectID); err != nil {
			return nil, err
		}
		return map[string]string{"status": "deleted", "project_id": in.ProjectID}, nil
	})

	addTool(s, &mcp.Tool{
		Name:        "list_branches",
		Description: "List branches of a project",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, in listBranchesInput) (any, error) {
		return s.svc.ListBranches(ctx, in.Platform, in.ProjectID, platform.BranchFilter{
			Search: in.Search,
			Limit:  s.limit(in.Limit),
		})
	})

	addTool(s, &mcp.Tool{
		Name:        "list_labels",
		Description: "List the label names defined on a project",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, in projectInput) (any, error) {
		return s.svc.ListLabels(ctx, in.Platform, in.ProjectID)
	})

	addTool(s, &mcp.Tool{
		Name:        "create_fork",
		Description: "Fork a project into the caller's namespace or a given one",
	}, func(ctx context.Context, in createForkInput) (any, error) {
		return s.svc.CreateFork(ctx, in.Platform, in.ProjectID, platform.ForkSpec{
			Namespace: in.Namespace,
			Name:      in.Name,
		})
	})

	addTool(s, &mcp.Tool{
		Name:        "get_fork_info",
		Description: "Tell whether a project is a fork and return its parent",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, in projectInput) (any, error) {
		parent, err := s.svc.GetForkInfo(ctx, in.Platform, in.ProjectID)
		if err != nil {
			return nil, err
		}
		return forkInfo{IsFork: parent != nil, Parent: parent}, nil
	})
}
