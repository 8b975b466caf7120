package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/go-github/v69/github"
	"github.com/sgaunet/git-mcp/pkg/platform"
)

// GitHub affiliation filters for the authenticated user's repositories.
const (
	affiliationOwner = "owner"
	affiliationAll   = "owner,collaborator,organization_member"
)

// CurrentUser returns the owner of the token.
func (a *Adapter) CurrentUser(ctx context.Context) (*platform.User, error) {
	var user *github.User
	err := a.read(ctx, "get current user", func() error {
		var err error
		user, _, err = a.client.Users.Get(ctx, "")
		return err
	})
	if err != nil {
		return nil, err
	}
	return toUser(user), nil
}

// ListProjects lists repositories of the authenticated user. A search term
// switches to the repository search API.
func (a *Adapter) ListProjects(ctx context.Context, filter platform.ProjectFilter) ([]platform.Project, error) {
	if filter.Search != "" {
		return a.searchProjects(ctx, filter)
	}

	opts := &github.RepositoryListByAuthenticatedUserOptions{
		Affiliation: affiliationAll,
		Sort:        "updated",
	}
	if filter.Owned {
		opts.Affiliation = affiliationOwner
	}
	switch filter.Visibility {
	case platform.VisibilityPublic, platform.VisibilityPrivate:
		opts.Visibility = filter.Visibility
	}

	return platform.Paginate(filter.Limit, func(page, perPage int) ([]platform.Project, int, error) {
		opts.Page = page
		opts.PerPage = perPage
		var repos []*github.Repository
		var resp *github.Response
		err := a.read(ctx, "list repositories", func() error {
			var err error
			repos, resp, err = a.client.Repositories.ListByAuthenticatedUser(ctx, opts)
			return err
		})
		if err != nil {
			return nil, 0, err
		}
		out := make([]platform.Project, 0, len(repos))
		for _, r := range repos {
			out = append(out, *toProject(r))
		}
		return out, resp.NextPage, nil
	})
}

func (a *Adapter) searchProjects(ctx context.Context, filter platform.ProjectFilter) ([]platform.Project, error) {
	query := filter.Search
	switch filter.Visibility {
	case platform.VisibilityPublic, platform.VisibilityPrivate:
		query += " is:" + filter.Visibility
	}
	opts := &github.SearchOptions{Sort: "updated"}

	return platform.Paginate(filter.Limit, func(page, perPage int) ([]platform.Project, int, error) {
		opts.Page = page
		opts.PerPage = perPage
		var result *github.RepositoriesSearchResult
		var resp *github.Response
		err := a.read(ctx, "search repositories", func() error {
			var err error
			result, resp, err = a.client.Search.Repositories(ctx, query, opts)
			return err
		})
		if err != nil {
			return nil, 0, err
		}
		out := make([]platform.Project, 0, len(result.Repositories))
		for _, r := range result.Repositories {
			out = append(out, *toProject(r))
		}
		return out, resp.NextPage, nil
	})
}

// GetProject fetches a repository by "owner/repo".
func (a *Adapter) GetProject(ctx context.Context, projectID string) (*platform.Project, error) {
	repo, err := a.getRepo(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return toProject(repo), nil
}

func (a *Adapter) getRepo(ctx context.Context, projectID string) (*github.Repository, error) {
	owner, name, err := splitRepo(projectID)
	if err != nil {
		return nil, err
	}
	var repo *github.Repository
	err = a.read(ctx, "get repository", func() error {
		var err error
		repo, _, err = a.client.Repositories.Get(ctx, owner, name)
		return err
	})
	return repo, err
}

// CreateProject creates a repository for the user, or in the organization
// named by spec.Namespace.
func (a *Adapter) CreateProject(ctx context.Context, spec platform.CreateProjectSpec) (*platform.Project, error) {
	if spec.Name == "" {
		return nil, platform.NewError(platform.InvalidReference, "repository name is required")
	}
	name := spec.Name
	if spec.Path != "" {
		name = spec.Path
	}
	repo := &github.Repository{Name: github.Ptr(name)}
	if spec.Description != "" {
		repo.Description = github.Ptr(spec.Description)
	}
	switch spec.Visibility {
	case platform.VisibilityPrivate:
		repo.Private = github.Ptr(true)
	case platform.VisibilityInternal:
		repo.Visibility = github.Ptr(platform.VisibilityInternal)
	case platform.VisibilityPublic:
		repo.Private = github.Ptr(false)
	}
	if spec.InitReadme {
		repo.AutoInit = github.Ptr(true)
	}

	org := spec.Namespace
	if org != "" {
		user, err := a.CurrentUser(ctx)
		if err != nil {
			return nil, err
		}
		if user.Username == org {
			org = ""
		}
	}

	var created *github.Repository
	err := a.write("create repository", func() error {
		var err error
		created, _, err = a.client.Repositories.Create(ctx, org, repo)
		return err
	})
	if err != nil {
		return nil, err
	}
	a.log.Debug(fmt.Sprintf("Created GitHub repository %s", created.GetFullName()))
	return toProject(created), nil
}

// DeleteProject deletes a repository.
func (a *Adapter) DeleteProject(ctx context.Context, projectID string) error {
	owner, name, err := splitRepo(projectID)
	if err != nil {
		return err
	}
	return a.write("delete repository", func() error {
		_, err := a.client.Repositories.Delete(ctx, owner, name)
		return err
	})
}

// CreateFork forks a repository. GitHub creates forks asynchronously and
// answers 202 Accepted; the repository in that response is returned.
func (a *Adapter) CreateFork(ctx context.Context, projectID string, spec platform.ForkSpec) (*platform.Project, error) {
	owner, name, err := splitRepo(projectID)
	if err != nil {
		return nil, err
	}
	opts := &github.RepositoryCreateForkOptions{Organization: spec.Namespace, Name: spec.Name}

	var fork *github.Repository
	err = a.write("fork repository", func() error {
		var err error
		fork, _, err = a.client.Repositories.CreateFork(ctx, owner, name, opts)
		var accepted *github.AcceptedError
		if errors.As(err, &accepted) {
			fork = &github.Repository{}
			if uerr := json.Unmarshal(accepted.Raw, fork); uerr != nil {
				return fmt.Errorf("failed to decode fork: %w", uerr)
			}
			return nil
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	a.log.Debug(fmt.Sprintf("Forked %s into %s", projectID, fork.GetFullName()))
	return toProject(fork), nil
}

// GetForkInfo returns the repository a fork was created from, or nil.
func (a *Adapter) GetForkInfo(ctx context.Context, projectID string) (*platform.Project, error) {
	repo, err := a.getRepo(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !repo.GetFork() || repo.Parent == nil {
		return nil, nil //nolint:nilnil // not a fork
	}
	return toProject(repo.Parent), nil
}

// ListBranches lists branches of a repository. A search term filters names
// client-side.
func (a *Adapter) ListBranches(ctx context.Context, projectID string, filter platform.BranchFilter) ([]platform.Branch, error) {
	repo, err := a.getRepo(ctx, projectID)
	if err != nil {
		return nil, err
	}
	owner, name := repo.GetOwner().GetLogin(), repo.GetName()
	opts := &github.BranchListOptions{}

	return platform.Paginate(filter.Limit, func(page, perPage int) ([]platform.Branch, int, error) {
		opts.Page = page
		opts.PerPage = perPage
		var branches []*github.Branch
		var resp *github.Response
		err := a.read(ctx, "list branches", func() error {
			var err error
			branches, resp, err = a.client.Repositories.ListBranches(ctx, owner, name, opts)
			return err
		})
		if err != nil {
			return nil, 0, err
		}
		out := make([]platform.Branch, 0, len(branches))
		for _, b := range branches {
			if filter.Search != "" && !containsFold(b.GetName(), filter.Search) {
				continue
			}
			out = append(out, toBranch(b, repo.GetDefaultBranch()))
		}
		return out, resp.NextPage, nil
	})
}

// ListLabels returns every label name of a repository.
func (a *Adapter) ListLabels(ctx context.Context, projectID string) ([]string, error) {
	owner, name, err := splitRepo(projectID)
	if err != nil {
		return nil, err
	}
	opts := &github.ListOptions{}
	return platform.Paginate(platform.MaxPerPage*10, func(page, perPage int) ([]string, int, error) {
		opts.Page = page
		opts.PerPage = perPage
		var labels []*github.Label
		var resp *github.Response
		err := a.read(ctx, "list labels", func() error {
			var err error
			labels, resp, err = a.client.Issues.ListLabels(ctx, owner, name, opts)
			return err
		})
		if err != nil {
			return nil, 0, err
		}
		return labelNames(labels), resp.NextPage, nil
	})
}

// branchExists reports whether a branch exists. Errors other than NotFound
// are returned. GetBranch bypasses the SDK's response checks, so the status
// is classified here.
func (a *Adapter) branchExists(ctx context.Context, owner, repo, branch string) (bool, error) {
	err := a.read(ctx, "get branch", func() error {
		_, resp, err := a.client.Repositories.GetBranch(ctx, owner, repo, branch, maxRedirects)
		return statusError("get branch", resp, err)
	})
	if isNotFound(err) {
		return false, nil
	}
	return err == nil, err
}
