package gitlab

import (
	"context"
	"fmt"

	"github.com/sgaunet/git-mcp/pkg/platform"
	gitlab "gitlab.com/gitlab-org/api/client-go"
)

// CurrentUser returns the owner of the token.
func (a *Adapter) CurrentUser(ctx context.Context) (*platform.User, error) {
	var user *gitlab.User
	err := a.read(ctx, "get current user", func() error {
		var err error
		user, _, err = a.client.Users.CurrentUser(gitlab.WithContext(ctx))
		return err
	})
	if err != nil {
		return nil, err
	}
	return toUser(user), nil
}

// ListProjects lists projects visible to the token.
func (a *Adapter) ListProjects(ctx context.Context, filter platform.ProjectFilter) ([]platform.Project, error) {
	opts := &gitlab.ListProjectsOptions{
		Visibility: nativeVisibility(filter.Visibility),
		OrderBy:    gitlab.Ptr("last_activity_at"),
	}
	if filter.Search != "" {
		opts.Search = gitlab.Ptr(filter.Search)
	}
	if filter.Owned {
		opts.Owned = gitlab.Ptr(true)
	}
	if filter.Membership {
		opts.Membership = gitlab.Ptr(true)
	}

	return platform.Paginate(filter.Limit, func(page, perPage int) ([]platform.Project, int, error) {
		opts.Page = int64(page)
		opts.PerPage = int64(perPage)
		var projects []*gitlab.Project
		var resp *gitlab.Response
		err := a.read(ctx, "list projects", func() error {
			var err error
			projects, resp, err = a.client.Projects.ListProjects(opts, gitlab.WithContext(ctx))
			return err
		})
		if err != nil {
			return nil, 0, err
		}
		out := make([]platform.Project, 0, len(projects))
		for _, p := range projects {
			out = append(out, *toProject(p))
		}
		return out, int(resp.NextPage), nil
	})
}

// GetProject fetches a project by numeric ID or full path.
func (a *Adapter) GetProject(ctx context.Context, projectID string) (*platform.Project, error) {
	p, err := a.getProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return toProject(p), nil
}

func (a *Adapter) getProject(ctx context.Context, projectID string) (*gitlab.Project, error) {
	var project *gitlab.Project
	err := a.read(ctx, "get project", func() error {
		var err error
		project, _, err = a.client.Projects.GetProject(projectID, nil, gitlab.WithContext(ctx))
		return err
	})
	return project, err
}

// CreateProject creates a project, in a namespace when one is given.
func (a *Adapter) CreateProject(ctx context.Context, spec platform.CreateProjectSpec) (*platform.Project, error) {
	if spec.Name == "" {
		return nil, platform.NewError(platform.InvalidReference, "project name is required")
	}
	opts := &gitlab.CreateProjectOptions{
		Name:       gitlab.Ptr(spec.Name),
		Visibility: nativeVisibility(spec.Visibility),
	}
	if spec.Path != "" {
		opts.Path = gitlab.Ptr(spec.Path)
	}
	if spec.Description != "" {
		opts.Description = gitlab.Ptr(spec.Description)
	}
	if spec.InitReadme {
		opts.InitializeWithReadme = gitlab.Ptr(true)
	}
	if spec.Namespace != "" {
		var ns *gitlab.Namespace
		err := a.read(ctx, "get namespace", func() error {
			var err error
			ns, _, err = a.client.Namespaces.GetNamespace(spec.Namespace, gitlab.WithContext(ctx))
			return err
		})
		if err != nil {
			if isNotFound(err) {
				return nil, platform.Errorf(platform.InvalidReference, "namespace %q not found", spec.Namespace)
			}
			return nil, err
		}
		opts.NamespaceID = gitlab.Ptr(ns.ID)
	}

	var project *gitlab.Project
	err := a.write("create project", func() error {
		var err error
		project, _, err = a.client.Projects.CreateProject(opts, gitlab.WithContext(ctx))
		return err
	})
	if err != nil {
		return nil, err
	}
	a.log.Debug(fmt.Sprintf("Created GitLab project %s", project.PathWithNamespace))
	return toProject(project), nil
}

// DeleteProject deletes a project.
func (a *Adapter) DeleteProject(ctx context.Context, projectID string) error {
	return a.write("delete project", func() error {
		_, err := a.client.Projects.DeleteProject(projectID, nil, gitlab.WithContext(ctx))
		return err
	})
}

// CreateFork forks a project into the caller's namespace or spec.Namespace.
func (a *Adapter) CreateFork(ctx context.Context, projectID string, spec platform.ForkSpec) (*platform.Project, error) {
	opts := &gitlab.ForkProjectOptions{}
	if spec.Namespace != "" {
		opts.NamespacePath = gitlab.Ptr(spec.Namespace)
	}
	if spec.Name != "" {
		opts.Name = gitlab.Ptr(spec.Name)
		opts.Path = gitlab.Ptr(spec.Name)
	}

	var fork *gitlab.Project
	err := a.write("fork project", func() error {
		var err error
		fork, _, err = a.client.Projects.ForkProject(projectID, opts, gitlab.WithContext(ctx))
		return err
	})
	if err != nil {
		return nil, err
	}
	a.log.Debug(fmt.Sprintf("Forked %s into %s", projectID, fork.PathWithNamespace))
	return toProject(fork), nil
}

// GetForkInfo returns the project a fork was created from, or nil.
func (a *Adapter) GetForkInfo(ctx context.Context, projectID string) (*platform.Project, error) {
	project, err := a.getProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.ForkedFromProject == nil {
		return nil, nil //nolint:nilnil // not a fork
	}
	return a.GetProject(ctx, idString(project.ForkedFromProject.ID))
}

// ListBranches lists branches of a project.
func (a *Adapter) ListBranches(ctx context.Context, projectID string, filter platform.BranchFilter) ([]platform.Branch, error) {
	opts := &gitlab.ListBranchesOptions{}
	if filter.Search != "" {
		opts.Search = gitlab.Ptr(filter.Search)
	}
	return platform.Paginate(filter.Limit, func(page, perPage int) ([]platform.Branch, int, error) {
		opts.Page = int64(page)
		opts.PerPage = int64(perPage)
		var branches []*gitlab.Branch
		var resp *gitlab.Response
		err := a.read(ctx, "list branches", func() error {
			var err error
			branches, resp, err = a.client.Branches.ListBranches(projectID, opts, gitlab.WithContext(ctx))
			return err
		})
		if err != nil {
			return nil, 0, err
		}
		out := make([]platform.Branch, 0, len(branches))
		for _, b := range branches {
			out = append(out, toBranch(b))
		}
		return out, int(resp.NextPage), nil
	})
}

// ListLabels returns every label name of a project.
func (a *Adapter) ListLabels(ctx context.Context, projectID string) ([]string, error) {
	opts := &gitlab.ListLabelsOptions{}
	return platform.Paginate(platform.MaxPerPage*10, func(page, perPage int) ([]string, int, error) {
		opts.Page = int64(page)
		opts.PerPage = int64(perPage)
		var labels []*gitlab.Label
		var resp *gitlab.Response
		err := a.read(ctx, "list labels", func() error {
			var err error
			labels, resp, err = a.client.Labels.ListLabels(projectID, opts, gitlab.WithContext(ctx))
			return err
		})
		if err != nil {
			return nil, 0, err
		}
		names := make([]string, 0, len(labels))
		for _, l := range labels {
			names = append(names, l.Name)
		}
		return names, int(resp.NextPage), nil
	})
}

// branchExists reports whether a branch exists. Errors other than NotFound
// are returned.
func (a *Adapter) branchExists(ctx context.Context, projectID any, branch string) (bool, error) {
	err := a.read(ctx, "get branch", func() error {
		_, _, err := a.client.Branches.GetBranch(projectID, branch, gitlab.WithContext(ctx))
		return err
	})
	if isNotFound(err) {
		return false, nil
	}
	return err == nil, err
}
