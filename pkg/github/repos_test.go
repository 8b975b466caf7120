package github_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/sgaunet/git-mcp/pkg/platform"
	"github.com/sgaunet/git-mcp/testing/fixtures"
	"github.com/sgaunet/git-mcp/testing/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProject(t *testing.T) {
	srv := mocks.NewAPIServer(t)
	srv.HandleJSON("GET "+api+"/repos/upstream/repo", http.StatusOK, fixtures.GitHubRepo(1, "upstream/repo"))
	a, _ := newAdapter(t, srv)

	p, err := a.GetProject(context.Background(), "upstream/repo")
	require.NoError(t, err)
	assert.Equal(t, "upstream/repo", p.ID)
	assert.Equal(t, "upstream", p.Namespace)
	assert.Equal(t, "repo", p.Name)
	assert.Equal(t, platform.VisibilityPublic, p.Visibility)
	assert.Equal(t, "main", p.DefaultBranch)
	require.NotNil(t, p.CreatedAt)
}

func TestListProjectsFollowsLinkHeader(t *testing.T) {
	srv := mocks.NewAPIServer(t)
	srv.Handle("GET "+api+"/user/repos", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			mocks.WriteJSON(w, http.StatusOK, []any{fixtures.GitHubRepo(3, "testuser/three")})
			return
		}
		w.Header().Set("Link", `<`+srv.URL+api+`/user/repos?page=2>; rel="next", <`+srv.URL+api+`/user/repos?page=2>; rel="last"`)
		mocks.WriteJSON(w, http.StatusOK, []any{
			fixtures.GitHubRepo(1, "testuser/one"),
			fixtures.GitHubRepo(2, "testuser/two"),
		})
	})
	a, _ := newAdapter(t, srv)

	projects, err := a.ListProjects(context.Background(), platform.ProjectFilter{Owned: true})
	require.NoError(t, err)
	require.Len(t, projects, 3)
	assert.Equal(t, "testuser/three", projects[2].ID)

	req, ok := srv.Last(http.MethodGet, api+"/user/repos")
	require.True(t, ok)
	assert.Contains(t, req.RawQuery, "affiliation=owner")
}

func TestListProjectsSearch(t *testing.T) {
	srv := mocks.NewAPIServer(t)
	srv.HandleJSON("GET "+api+"/search/repositories", http.StatusOK, map[string]any{
		"total_count": 1,
		"items":       []any{fixtures.GitHubRepo(1, "upstream/repo")},
	})
	a, _ := newAdapter(t, srv)

	projects, err := a.ListProjects(context.Background(), platform.ProjectFilter{Search: "repo"})
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "upstream/repo", projects[0].FullPath)
}

func TestCreateProjectForUser(t *testing.T) {
	srv := mocks.NewAPIServer(t)
	srv.HandleJSON("POST "+api+"/user/repos", http.StatusCreated, fixtures.GitHubRepo(9, "testuser/widgets"))
	a, _ := newAdapter(t, srv)

	p, err := a.CreateProject(context.Background(), platform.CreateProjectSpec{
		Name:       "widgets",
		Visibility: platform.VisibilityPrivate,
		InitReadme: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "testuser/widgets", p.ID)

	req, ok := srv.Last(http.MethodPost, api+"/user/repos")
	require.True(t, ok)
	var body map[string]any
	require.NoError(t, req.DecodeBody(&body))
	assert.Equal(t, "widgets", body["name"])
	assert.Equal(t, true, body["private"])
	assert.Equal(t, true, body["auto_init"])
}

func TestCreateProjectInOrganization(t *testing.T) {
	srv := mocks.NewAPIServer(t)
	srv.HandleJSON("GET "+api+"/user", http.StatusOK, fixtures.GitHubUser(7, fixtures.TestUsername))
	srv.HandleJSON("POST "+api+"/orgs/acme/repos", http.StatusCreated, fixtures.GitHubRepo(9, "acme/widgets"))
	a, _ := newAdapter(t, srv)

	p, err := a.CreateProject(context.Background(), platform.CreateProjectSpec{Name: "widgets", Namespace: "acme"})
	require.NoError(t, err)
	assert.Equal(t, "acme/widgets", p.ID)
	assert.Equal(t, 1, srv.Count(http.MethodPost, api+"/orgs/acme/repos"))
}

func TestDeleteProject(t *testing.T) {
	srv := mocks.NewAPIServer(t)
	srv.Handle("DELETE "+api+"/repos/testuser/widgets", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	a, _ := newAdapter(t, srv)

	require.NoError(t, a.DeleteProject(context.Background(), "testuser/widgets"))
	assert.Equal(t, 1, srv.Count(http.MethodDelete, api+"/repos/testuser/widgets"))
}

func TestCreateForkAccepted(t *testing.T) {
	srv := mocks.NewAPIServer(t)
	srv.HandleJSON("POST "+api+"/repos/upstream/repo/forks", http.StatusAccepted,
		fixtures.GitHubFork(5, "forkowner/repo", fixtures.GitHubRepo(1, "upstream/repo")))
	a, _ := newAdapter(t, srv)

	fork, err := a.CreateFork(context.Background(), "upstream/repo", platform.ForkSpec{})
	require.NoError(t, err)
	assert.Equal(t, "forkowner/repo", fork.ID)
	assert.True(t, fork.IsFork)
	require.NotNil(t, fork.Parent)
	assert.Equal(t, "upstream/repo", fork.Parent.ID)
}

func TestGetForkInfo(t *testing.T) {
	srv := mocks.NewAPIServer(t)
	srv.HandleJSON("GET "+api+"/repos/forkowner/repo", http.StatusOK,
		fixtures.GitHubFork(5, "forkowner/repo", fixtures.GitHubRepo(1, "upstream/repo")))
	srv.HandleJSON("GET "+api+"/repos/upstream/repo", http.StatusOK, fixtures.GitHubRepo(1, "upstream/repo"))
	a, _ := newAdapter(t, srv)

	parent, err := a.GetForkInfo(context.Background(), "forkowner/repo")
	require.NoError(t, err)
	require.NotNil(t, parent)
	assert.Equal(t, "upstream/repo", parent.ID)

	parent, err = a.GetForkInfo(context.Background(), "upstream/repo")
	require.NoError(t, err)
	assert.Nil(t, parent)
}

func TestListBranches(t *testing.T) {
	srv := mocks.NewAPIServer(t)
	srv.HandleJSON("GET "+api+"/repos/upstream/repo", http.StatusOK, fixtures.GitHubRepo(1, "upstream/repo"))
	srv.HandleJSON("GET "+api+"/repos/upstream/repo/branches", http.StatusOK,
		[]any{fixtures.GitHubBranch("main"), fixtures.GitHubBranch("feature-x")})
	a, _ := newAdapter(t, srv)

	branches, err := a.ListBranches(context.Background(), "upstream/repo", platform.BranchFilter{})
	require.NoError(t, err)
	require.Len(t, branches, 2)
	assert.True(t, branches[0].Default)
	assert.True(t, branches[0].Protected)
	assert.False(t, branches[1].Default)

	branches, err = a.ListBranches(context.Background(), "upstream/repo", platform.BranchFilter{Search: "FEAT"})
	require.NoError(t, err)
	require.Len(t, branches, 1)
	assert.Equal(t, "feature-x", branches[0].Name)
}

func TestListLabels(t *testing.T) {
	srv := mocks.NewAPIServer(t)
	srv.HandleJSON("GET "+api+"/repos/upstream/repo/labels", http.StatusOK,
		[]any{map[string]any{"name": "bug"}, map[string]any{"name": "enhancement"}})
	a, _ := newAdapter(t, srv)

	labels, err := a.ListLabels(context.Background(), "upstream/repo")
	require.NoError(t, err)
	assert.Equal(t, []string{"bug", "enhancement"}, labels)
}

func TestListedProjectsResolveByID(t *testing.T) {
	srv := mocks.NewAPIServer(t)
	srv.HandleJSON("GET "+api+"/user/repos", http.StatusOK, []any{
		fixtures.GitHubRepo(1, "testuser/one"),
		fixtures.GitHubRepo(2, "acme/two"),
	})
	ids := map[string]int{"testuser/one": 1, "acme/two": 2}
	srv.Handle("GET "+api+"/repos/{owner}/{repo}", func(w http.ResponseWriter, r *http.Request) {
		full := r.PathValue("owner") + "/" + r.PathValue("repo")
		id, ok := ids[full]
		if !ok {
			mocks.WriteJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
			return
		}
		mocks.WriteJSON(w, http.StatusOK, fixtures.GitHubRepo(id, full))
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
