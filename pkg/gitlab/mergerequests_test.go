package gitlab_test

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

// forkServer serves an upstream project 123 and its fork 456, both carrying
// main and feature-x branches.
func forkServer(t *testing.T) *mocks.APIServer {
	t.Helper()
	srv := mocks.NewAPIServer(t)
	srv.HandleJSON("GET /api/v4/projects/123", http.StatusOK, fixtures.GitLabProject(123, fixtures.TestProjectPath))
	srv.HandleJSON("GET /api/v4/projects/456", http.StatusOK,
		fixtures.GitLabFork(456, fixtures.TestForkPath, 123, fixtures.TestProjectPath))
	for _, id := range []string{"123", "456"} {
		for _, b := range []string{"main", "feature-x"} {
			srv.HandleJSON("GET /api/v4/projects/"+id+"/repository/branches/"+b, http.StatusOK, fixtures.GitLabBranch(b))
		}
	}
	return srv
}

func TestCreateMergeRequestCrossProject(t *testing.T) {
	srv := forkServer(t)
	srv.HandleJSON("POST /api/v4/projects/456/merge_requests", http.StatusCreated,
		fixtures.GitLabMergeRequest(7, 456, 123, "feature-x", "main"))
	a, _ := newAdapter(t, srv)

	res, err := a.CreateMergeRequest(context.Background(), platform.CreateMergeRequestSpec{
		SourceProjectID: "456",
		SourceBranch:    "feature-x",
		TargetProjectID: "123",
		TargetBranch:    "main",
		Title:           "feat: add widget sizes",
	})
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)

	mr := res.Value
	assert.Equal(t, "7", mr.ID)
	assert.Equal(t, platform.ProjectRef{ID: "456", FullPath: fixtures.TestForkPath}, mr.SourceProject)
	assert.Equal(t, platform.ProjectRef{ID: "123", FullPath: fixtures.TestProjectPath}, mr.TargetProject)
	assert.Equal(t, platform.StateOpen, mr.State)

	assert.Zero(t, srv.Count(http.MethodPost, "/api/v4/projects/123/merge_requests"))
	req, ok := srv.Last(http.MethodPost, "/api/v4/projects/456/merge_requests")
	require.True(t, ok)
	var body map[string]any
	require.NoError(t, req.DecodeBody(&body))
	assert.EqualValues(t, 123, body["target_project_id"])
	assert.Equal(t, "feature-x", body["source_branch"])
	assert.Equal(t, "main", body["target_branch"])
}

func TestCreateMergeRequestSameProject(t *testing.T) {
	srv := forkServer(t)
	srv.HandleJSON("POST /api/v4/projects/123/merge_requests", http.StatusCreated,
		fixtures.GitLabMergeRequest(8, 123, 123, "feature-x", "main"))
	a, _ := newAdapter(t, srv)

	res, err := a.CreateMergeRequest(context.Background(), platform.CreateMergeRequestSpec{
		SourceProjectID: "123",
		SourceBranch:    "feature-x",
		TargetBranch:    "main",
		Title:           "fix: jam",
		Draft:           true,
	})
	require.NoError(t, err)
	assert.Equal(t, res.Value.SourceProject, res.Value.TargetProject)

	req, ok := srv.Last(http.MethodPost, "/api/v4/projects/123/merge_requests")
	require.True(t, ok)
	var body map[string]any
	require.NoError(t, req.DecodeBody(&body))
	assert.NotContains(t, body, "target_project_id")
	assert.Equal(t, "Draft: fix: jam", body["title"])
}

func TestCreateMergeRequestOwnerPrefixSelectsSource(t *testing.T) {
	srv := forkServer(t)
	srv.HandleJSON("POST /api/v4/projects/456/merge_requests", http.StatusCreated,
		fixtures.GitLabMergeRequest(9, 456, 123, "feature-x", "main"))
	a, _ := newAdapter(t, srv)

	res, err := a.CreateMergeRequest(context.Background(), platform.CreateMergeRequestSpec{
		SourceProjectID: "123",
		SourceBranch:    "456:feature-x",
		TargetBranch:    "main",
		Title:           "feat: sizes",
	})
	require.NoError(t, err)
	assert.Equal(t, "456", res.Value.SourceProject.ID)
	assert.Equal(t, "123", res.Value.TargetProject.ID)
	assert.Equal(t, 1, srv.Count(http.MethodPost, "/api/v4/projects/456/merge_requests"))
}

func TestCreateMergeRequestMissingBranch(t *testing.T) {
	srv := forkServer(t)
	a, _ := newAdapter(t, srv)

	_, err := a.CreateMergeRequest(context.Background(), platform.CreateMergeRequestSpec{
		SourceProjectID: "456",
		SourceBranch:    "feature-y",
		TargetProjectID: "123",
		TargetBranch:    "main",
		Title:           "feat: sizes",
	})
	require.ErrorIs(t, err, platform.ErrInvalidReference)
	assert.Contains(t, err.Error(), "feature-y")
	assert.Contains(t, err.Error(), fixtures.TestForkPath)
	assert.Zero(t, srv.Count(http.MethodPost, "/api/v4/projects/456/merge_requests"))
}

func TestCreateMergeRequestMissingTargetProject(t *testing.T) {
	srv := forkServer(t)
	a, _ := newAdapter(t, srv)

	_, err := a.CreateMergeRequest(context.Background(), platform.CreateMergeRequestSpec{
		SourceProjectID: "456",
		SourceBranch:    "feature-x",
		TargetProjectID: "999",
		TargetBranch:    "main",
		Title:           "feat: sizes",
	})
	require.ErrorIs(t, err, platform.ErrInvalidReference)
	assert.Contains(t, err.Error(), "999")
}

func TestCreateMergeRequestUnknownAssigneeWarns(t *testing.T) {
	srv := forkServer(t)
	srv.HandleJSON("GET /api/v4/users", http.StatusOK, []any{})
	srv.HandleJSON("POST /api/v4/projects/123/merge_requests", http.StatusCreated,
		fixtures.GitLabMergeRequest(10, 123, 123, "feature-x", "main"))
	a, _ := newAdapter(t, srv)

	res, err := a.CreateMergeRequest(context.Background(), platform.CreateMergeRequestSpec{
		SourceProjectID:  "123",
		SourceBranch:     "feature-x",
		TargetBranch:     "main",
		Title:            "feat: sizes",
		AssigneeUsername: "ghost",
	})
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "ghost")
	assert.Equal(t, "10", res.Value.ID)
}

func TestCreateMergeRequestValidates(t *testing.T) {
	srv := mocks.NewAPIServer(t)
	a, _ := newAdapter(t, srv)

	_, err := a.CreateMergeRequest(context.Background(), platform.CreateMergeRequestSpec{Title: "x"})
	require.ErrorIs(t, err, platform.ErrInvalidReference)
	assert.Empty(t, srv.Requests())
}

func TestCreateMergeRequestIsNotRetried(t *testing.T) {
	srv := forkServer(t)
	srv.HandleJSON("POST /api/v4/projects/123/merge_requests", http.StatusServiceUnavailable,
		map[string]string{"message": "unavailable"})
	a, rec := newAdapter(t, srv)

	_, err := a.CreateMergeRequest(context.Background(), platform.CreateMergeRequestSpec{
		SourceProjectID: "123",
		SourceBranch:    "feature-x",
		TargetBranch:    "main",
		Title:           "feat: sizes",
	})
	require.ErrorIs(t, err, platform.ErrUpstream)
	assert.Equal(t, 1, srv.Count(http.MethodPost, "/api/v4/projects/123/merge_requests"))
	assert.Empty(t, rec.delays)
}

func TestListMergeRequestsUnknownAssignee(t *testing.T) {
	srv := mocks.NewAPIServer(t)
	srv.HandleJSON("GET /api/v4/users", http.StatusOK, []any{})
	a, _ := newAdapter(t, srv)

	mrs, err := a.ListMergeRequests(context.Background(), "123", platform.MergeRequestFilter{Assignee: "ghost"})
	require.NoError(t, err)
	assert.Empty(t, mrs)
	assert.Zero(t, srv.Count(http.MethodGet, "/api/v4/projects/123/merge_requests"))
}

func TestGetMergeRequestDiff(t *testing.T) {
	srv := mocks.NewAPIServer(t)
	srv.HandleJSON("GET /api/v4/projects/123/merge_requests/7/diffs", http.StatusOK, fixtures.GitLabDiffs())
	a, _ := newAdapter(t, srv)

	t.Run("all files", func(t *testing.T) {
		diff, err := a.GetMergeRequestDiff(context.Background(), "123", "!7", platform.DiffOptions{})
		require.NoError(t, err)
		assert.Equal(t, "7", diff.MergeRequestID)
		assert.Equal(t, 3, diff.FilesChanged)
		assert.Equal(t, 4, diff.Additions)
		assert.Equal(t, 1, diff.Deletions)

		assert.Equal(t, platform.FileModified, diff.Files[0].Status)
		assert.Equal(t, platform.FileAdded, diff.Files[1].Status)
		assert.True(t, diff.Files[2].Binary)
		assert.Empty(t, diff.Files[0].Patch)
	})

	t.Run("max files with patch", func(t *testing.T) {
		diff, err := a.GetMergeRequestDiff(context.Background(), "123", "7",
			platform.DiffOptions{MaxFiles: 1, IncludePatch: true})
		require.NoError(t, err)
		require.Len(t, diff.Files, 1)
		assert.Contains(t, diff.Files[0].Patch, "+new line")
	})
}

func TestGetMergeRequestCommits(t *testing.T) {
	srv := mocks.NewAPIServer(t)
	srv.HandleJSON("GET /api/v4/projects/123/merge_requests/7/commits", http.StatusOK,
		[]any{fixtures.GitLabCommit(fixtures.TestCommitSHA, "feat: add widget sizes")})
	a, _ := newAdapter(t, srv)

	commits, err := a.GetMergeRequestCommits(context.Background(), "123", "7")
	require.NoError(t, err)
	require.Len(t, commits, 1)
	assert.Equal(t, fixtures.TestCommitSHA, commits[0].SHA)
	assert.Equal(t, "Test User", commits[0].Author)
	require.NotNil(t, commits[0].AuthoredAt)
}

func TestApproveAndMerge(t *testing.T) {
	srv := mocks.NewAPIServer(t)
	srv.HandleJSON("POST /api/v4/projects/123/merge_requests/7/approve", http.StatusCreated, map[string]any{"id": 1})
	merged := fixtures.GitLabMergeRequest(7, 123, 123, "feature-x", "main")
	merged["state"] = "merged"
	merged["merge_commit_sha"] = fixtures.TestCommitSHA
	srv.HandleJSON("PUT /api/v4/projects/123/merge_requests/7/merge", http.StatusOK, merged)
	a, _ := newAdapter(t, srv)

	require.NoError(t, a.ApproveMergeRequest(context.Background(), "123", "7"))

	mr, err := a.MergeMergeRequest(context.Background(), "123", "7", platform.MergeOptions{Squash: true})
	require.NoError(t, err)
	assert.Equal(t, platform.StateMerged, mr.State)
	assert.Equal(t, fixtures.TestCommitSHA, mr.MergeCommitSHA)

	req, ok := srv.Last(http.MethodPut, "/api/v4/projects/123/merge_requests/7/merge")
	require.True(t, ok)
	var body map[string]any
	require.NoError(t, req.DecodeBody(&body))
	assert.Equal(t, true, body["squash"])
}
