package gitlab_test

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"testing"

	"github.com/sgaunet/git-mcp/pkg/platform"
	"github.com/sgaunet/git-mcp/testing/fixtures"
	"github.com/sgaunet/git-mcp/testing/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProject(t *testing.T) {
	srv := mocks.NewAPIServer(t)
	srv.HandleJSON("GET /api/v4/projects/123", http.StatusOK, fixtures.GitLabProject(123, fixtures.TestProjectPath))
	a, _ := newAdapter(t, srv)

	p, err := a.GetProject(context.Background(), "123")
	require.NoError(t, err)
	assert.Equal(t, "123", p.ID)
	assert.Equal(t, fixtures.TestProjectPath, p.FullPath)
	assert.Equal(t, "acme", p.Namespace)
	assert.Equal(t, platform.VisibilityPrivate, p.Visibility)
	assert.Equal(t, "main", p.DefaultBranch)
	assert.False(t, p.IsFork)
	assert.Nil(t, p.Parent)
}

func TestListProjectsPaginates(t *testing.T) {
	srv := mocks.NewAPIServer(t)
	srv.Handle("GET /api/v4/projects", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			mocks.WriteJSON(w, http.StatusOK, []any{fixtures.GitLabProject(3, "acme/three")})
			return
		}
		w.Header().Set("X-Next-Page", "2")
		mocks.WriteJSON(w, http.StatusOK, []any{
			fixtures.GitLabProject(1, "acme/one"),
			fixtures.GitLabProject(2, "acme/two"),
		})
	})
	a, _ := newAdapter(t, srv)

	projects, err := a.ListProjects(context.Background(), platform.ProjectFilter{})
	require.NoError(t, err)
	require.Len(t, projects, 3)
	assert.Equal(t, "acme/three", projects[2].FullPath)
	assert.Equal(t, 2, srv.Count(http.MethodGet, "/api/v4/projects"))
}

func TestListProjectsStopsAtLimit(t *testing.T) {
	srv := mocks.NewAPIServer(t)
	srv.Handle("GET /api/v4/projects", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("X-Next-Page", "2")
		mocks.WriteJSON(w, http.StatusOK, []any{
			fixtures.GitLabProject(1, "acme/one"),
			fixtures.GitLabProject(2, "acme/two"),
		})
	})
	a, _ := newAdapter(t, srv)

	projects, err := a.ListProjects(context.Background(), platform.ProjectFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, projects, 1)
	assert.Equal(t, 1, srv.Count(http.MethodGet, "/api/v4/projects"))
}

func TestCreateProjectInNamespace(t *testing.T) {
	srv := mocks.NewAPIServer(t)
	srv.HandleJSON("GET /api/v4/namespaces/acme", http.StatusOK, map[string]any{"id": 77, "full_path": "acme"})
	srv.HandleJSON("POST /api/v4/projects", http.StatusCreated, fixtures.GitLabProject(123, fixtures.TestProjectPath))
	a, _ := newAdapter(t, srv)

	p, err := a.CreateProject(context.Background(), platform.CreateProjectSpec{
		Name:       "widgets",
		Namespace:  "acme",
		Visibility: platform.VisibilityPrivate,
	})
	require.NoError(t, err)
	assert.Equal(t, fixtures.TestProjectPath, p.FullPath)

	req, ok := srv.Last(http.MethodPost, "/api/v4/projects")
	require.True(t, ok)
	var body map[string]any
	require.NoError(t, req.DecodeBody(&body))
	assert.Equal(t, "widgets", body["name"])
	assert.EqualValues(t, 77, body["namespace_id"])
	assert.Equal(t, "private", body["visibility"])
}

func TestCreateProjectUnknownNamespace(t *testing.T) {
	srv := mocks.NewAPIServer(t)
	a, _ := newAdapter(t, srv)

	_, err := a.CreateProject(context.Background(), platform.CreateProjectSpec{Name: "widgets", Namespace: "ghost"})
	require.ErrorIs(t, err, platform.ErrInvalidReference)
	assert.Contains(t, err.Error(), "ghost")
	assert.Zero(t, srv.Count(http.MethodPost, "/api/v4/projects"))
}

func TestCreateProjectRequiresName(t *testing.T) {
	srv := mocks.NewAPIServer(t)
	a, _ := newAdapter(t, srv)

	_, err := a.CreateProject(context.Background(), platform.CreateProjectSpec{})
	require.ErrorIs(t, err, platform.ErrInvalidReference)
}

func TestDeleteProject(t *testing.T) {
	srv := mocks.NewAPIServer(t)
	srv.Handle("DELETE /api/v4/projects/123", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})
	a, _ := newAdapter(t, srv)

	require.NoError(t, a.DeleteProject(context.Background(), "123"))
	assert.Equal(t, 1, srv.Count(http.MethodDelete, "/api/v4/projects/123"))
}

func TestCreateFork(t *testing.T) {
	srv := mocks.NewAPIServer(t)
	srv.HandleJSON("POST /api/v4/projects/123/fork", http.StatusCreated,
		fixtures.GitLabFork(456, fixtures.TestForkPath, 123, fixtures.TestProjectPath))
	a, _ := newAdapter(t, srv)

	fork, err := a.CreateFork(context.Background(), "123", platform.ForkSpec{Namespace: fixtures.TestUsername})
	require.NoError(t, err)
	assert.True(t, fork.IsFork)
	require.NotNil(t, fork.Parent)
	assert.Equal(t, "123", fork.Parent.ID)
	assert.Equal(t, fixtures.TestProjectPath, fork.Parent.FullPath)

	req, ok := srv.Last(http.MethodPost, "/api/v4/projects/123/fork")
	require.True(t, ok)
	var body map[string]any
	require.NoError(t, req.DecodeBody(&body))
	assert.Equal(t, fixtures.TestUsername, body["namespace_path"])
}

func TestGetForkInfo(t *testing.T) {
	srv := mocks.NewAPIServer(t)
	srv.HandleJSON("GET /api/v4/projects/456", http.StatusOK,
		fixtures.GitLabFork(456, fixtures.TestForkPath, 123, fixtures.TestProjectPath))
	srv.HandleJSON("GET /api/v4/projects/123", http.StatusOK, fixtures.GitLabProject(123, fixtures.TestProjectPath))
	a, _ := newAdapter(t, srv)

	t.Run("fork returns parent", func(t *testing.T) {
		parent, err := a.GetForkInfo(context.Background(), "456")
		require.NoError(t, err)
		require.NotNil(t, parent)
		assert.Equal(t, fixtures.TestProjectPath, parent.FullPath)
	})

	t.Run("non-fork returns nil", func(t *testing.T) {
		parent, err := a.GetForkInfo(context.Background(), "123")
		require.NoError(t, err)
		assert.Nil(t, parent)
	})
}

func TestListBranches(t *testing.T) {
	srv := mocks.NewAPIServer(t)
	srv.HandleJSON("GET /api/v4/projects/123/repository/branches", http.StatusOK,
		[]any{fixtures.GitLabBranch("main"), fixtures.GitLabBranch("feature-x")})
	a, _ := newAdapter(t, srv)

	branches, err := a.ListBranches(context.Background(), "123", platform.BranchFilter{})
	require.NoError(t, err)
	require.Len(t, branches, 2)
	assert.True(t, branches[0].Default)
	assert.True(t, branches[0].Protected)
	assert.Equal(t, fixtures.TestCommitSHA, branches[1].CommitSHA)
}

func TestListLabels(t *testing.T) {
	srv := mocks.NewAPIServer(t)
	labels := make([]any, 0, 3)
	for i, name := range []string{"bug", "feature", "docs"} {
		labels = append(labels, map[string]any{"id": i + 1, "name": name})
	}
	srv.HandleJSON("GET /api/v4/projects/123/labels", http.StatusOK, labels)
	a, _ := newAdapter(t, srv)

	names, err := a.ListLabels(context.Background(), "123")
	require.NoError(t, err)
	assert.Equal(t, []string{"bug", "feature", "docs"}, names)
}

func TestListProjectsUpstreamFailure(t *testing.T) {
	srv := mocks.NewAPIServer(t)
	srv.HandleJSON("GET /api/v4/projects", http.StatusBadGateway, map[string]string{"message": "bad gateway"})
	a, rec := newAdapter(t, srv)

	_, err := a.ListProjects(context.Background(), platform.ProjectFilter{})
	require.ErrorIs(t, err, platform.ErrUpstream)
	assert.Equal(t, 3, srv.Count(http.MethodGet, "/api/v4/projects"), fmt.Sprintf("requests: %v", srv.Requests()))
	assert.Len(t, rec.delays, 2)
}

func TestListedProjectsResolveByID(t *testing.T) {
	paths := map[string]string{"1": "acme/one", "2": "acme/sub/two"}
	srv := mocks.NewAPIServer(t)
	srv.HandleJSON("GET /api/v4/projects", http.StatusOK, []any{
		fixtures.GitLabProject(1, paths["1"]),
		fixtures.GitLabProject(2, paths["2"]),
	})
	srv.Handle("GET /api/v4/projects/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		n, err := strconv.Atoi(id)
		if err != nil || paths[id] == "" {
			mocks.WriteJSON(w, http.StatusNotFound, map[string]string{"message": "404 Project Not Found"})
			return
		}
		mocks.WriteJSON(w, http.StatusOK, fixtures.GitLabProject(n, paths[id]))
	})
	a, _ := newAdapter(t, srv)

	listed, err := a.ListProjects(context.Background(), platform.ProjectFilter{})
	require.NoError(t, err)
	require.Len(t, listed, 2)
	for _, p := range listed {
		got, err := a.GetProject(context.Background(), p.ID)
		require.NoError(t, err)
		assert.Equal(t, p.ID, got.ID)
		assert.Equal(t, p.FullPath, got.FullPath)
	}
}
