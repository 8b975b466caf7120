package git_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/sgaunet/git-mcp/pkg/git"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// initTestRepo creates a repository with one commit on main and an origin
// remote.
func initTestRepo(t *testing.T, remoteURL, message string) (string, *gogit.Repository) {
	t.Helper()
	dir := t.TempDir()
	repo, err := gogit.PlainInitWithOptions(dir, &gogit.PlainInitOptions{
		InitOptions: gogit.InitOptions{DefaultBranch: plumbing.NewBranchReferenceName("main")},
	})
	require.NoError(t, err)

	_, err = repo.CreateRemote(&config.RemoteConfig{Name: "origin", URLs: []string{remoteURL}})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# widgets\n"), 0o600))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("README.md")
	require.NoError(t, err)
	_, err = wt.Commit(message, &gogit.CommitOptions{
		Author: &object.Signature{Name: "Test User", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return dir, repo
}

func TestOpenRepositoryFromSubdirectory(t *testing.T) {
	dir, _ := initTestRepo(t, "https://github.com/acme/widgets.git", "init")
	sub := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(sub, 0o750))

	repo, err := git.OpenRepository(sub)
	require.NoError(t, err)
	branch, err := repo.CurrentBranch()
	require.NoError(t, err)
	assert.Equal(t, "main", branch)
}

func TestOpenRepositoryOutsideRepository(t *testing.T) {
	_, err := git.OpenRepository(t.TempDir())
	require.Error(t, err)
}

func TestCurrentBranchAfterCheckout(t *testing.T) {
	dir, raw := initTestRepo(t, "git@gitlab.com:acme/sub/widgets.git", "init")
	wt, err := raw.Worktree()
	require.NoError(t, err)
	require.NoError(t, wt.Checkout(&gogit.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName("feature-x"),
		Create: true,
	}))

	repo, err := git.OpenRepository(dir)
	require.NoError(t, err)
	branch, err := repo.CurrentBranch()
	require.NoError(t, err)
	assert.Equal(t, "feature-x", branch)

	main, err := repo.MainBranch()
	require.NoError(t, err)
	assert.Equal(t, "main", main)
}

func TestCurrentBranchDetachedHead(t *testing.T) {
	dir, raw := initTestRepo(t, "https://github.com/acme/widgets.git", "init")
	head, err := raw.Head()
	require.NoError(t, err)
	wt, err := raw.Worktree()
	require.NoError(t, err)
	require.NoError(t, wt.Checkout(&gogit.CheckoutOptions{Hash: head.Hash()}))

	repo, err := git.OpenRepository(dir)
	require.NoError(t, err)
	_, err = repo.CurrentBranch()
	require.ErrorIs(t, err, git.ErrDetachedHead)
}

func TestMainBranchFollowsOriginHead(t *testing.T) {
	dir, raw := initTestRepo(t, "https://github.com/acme/widgets.git", "init")
	head, err := raw.Head()
	require.NoError(t, err)
	require.NoError(t, raw.Storer.SetReference(plumbing.NewHashReference("refs/remotes/origin/trunk", head.Hash())))
	require.NoError(t, raw.Storer.SetReference(plumbing.NewSymbolicReference(
		plumbing.NewRemoteHEADReferenceName("origin"), "refs/remotes/origin/trunk")))

	repo, err := git.OpenRepository(dir)
	require.NoError(t, err)
	main, err := repo.MainBranch()
	require.NoError(t, err)
	assert.Equal(t, "trunk", main)
}

func TestLatestCommitMessage(t *testing.T) {
	dir, _ := initTestRepo(t, "https://github.com/acme/widgets.git", "feat: add sizes\n\nSizes S, M and L.\n")

	repo, err := git.OpenRepository(dir)
	require.NoError(t, err)
	msg, err := repo.LatestCommitMessage()
	require.NoError(t, err)

	title, body := git.SplitCommitMessage(msg)
	assert.Equal(t, "feat: add sizes", title)
	assert.Equal(t, "Sizes S, M and L.", body)
}

func TestProject(t *testing.T) {
	tests := []struct {
		url  string
		host string
		path string
	}{
		{"https://github.com/acme/widgets.git", "github.com", "acme/widgets"},
		{"git@gitlab.com:acme/sub/widgets.git", "gitlab.com", "acme/sub/widgets"},
		{"ssh://git@gitlab.example.com:2222/acme/widgets.git", "gitlab.example.com", "acme/widgets"},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			dir, _ := initTestRepo(t, tt.url, "init")
			repo, err := git.OpenRepository(dir)
			require.NoError(t, err)

			host, path, err := repo.Project(git.DefaultRemote)
			require.NoError(t, err)
			assert.Equal(t, tt.host, host)
			assert.Equal(t, tt.path, path)
		})
	}
}

func TestProjectUnknownRemote(t *testing.T) {
	dir, _ := initTestRepo(t, "https://github.com/acme/widgets.git", "init")
	repo, err := git.OpenRepository(dir)
	require.NoError(t, err)

	_, _, err = repo.Project("upstream")
	require.Error(t, err)
}

func TestSplitCommitMessage(t *testing.T) {
	title, body := git.SplitCommitMessage("fix: typo")
	assert.Equal(t, "fix: typo", title)
	assert.Empty(t, body)
}
