// Package git reads the local repository the CLI runs in, to default the
// project and branches of merge request commands.
package git

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/sgaunet/git-mcp/internal/security"
	"github.com/sgaunet/git-mcp/internal/urlutil"
)

// DefaultRemote is the remote used when none is given.
const DefaultRemote = "origin"

var (
	errDetachedHead = errors.New("HEAD is not pointing to a branch")
	errNoRemoteURL  = errors.New("remote has no URL")
	errNoMainBranch = errors.New("could not determine main branch")
)

// Exported errors for callers matching with errors.Is.
var (
	ErrDetachedHead = errDetachedHead
	ErrNoRemoteURL  = errNoRemoteURL
	ErrNoMainBranch = errNoMainBranch
)

// Repository is a local git repository.
type Repository struct {
	repo *git.Repository
}

// OpenRepository opens the repository containing path, searching parent
// directories for the .git entry.
func OpenRepository(path string) (*Repository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository: %w", err)
	}
	return &Repository{repo: repo}, nil
}

// CurrentBranch returns the short name of the checked out branch.
func (r *Repository) CurrentBranch() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD reference: %w", err)
	}
	if !head.Name().IsBranch() {
		return "", errDetachedHead
	}
	return head.Name().Short(), nil
}

// MainBranch returns the branch origin/HEAD points to, falling back to a
// local main or master branch. It does not contact the remote.
func (r *Repository) MainBranch() (string, error) {
	ref, err := r.repo.Reference(plumbing.NewRemoteHEADReferenceName(DefaultRemote), false)
	if err == nil && ref.Type() == plumbing.SymbolicReference {
		return strings.TrimPrefix(ref.Target().Short(), DefaultRemote+"/"), nil
	}
	for _, name := range []string{"main", "master"} {
		if r.branchExists(name) {
			return name, nil
		}
	}
	return "", errNoMainBranch
}

func (r *Repository) branchExists(name string) bool {
	_, err := r.repo.Reference(plumbing.NewBranchReferenceName(name), true)
	return err == nil
}

// LatestCommitMessage returns the full message of the HEAD commit.
func (r *Repository) LatestCommitMessage() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD reference: %w", err)
	}
	commit, err := r.repo.CommitObject(head.Hash())
	if err != nil {
		return "", fmt.Errorf("failed to get commit object: %w", err)
	}
	return commit.Message, nil
}

// RemoteURL returns the first URL of a remote.
func (r *Repository) RemoteURL(name string) (string, error) {
	remote, err := r.repo.Remote(name)
	if err != nil {
		return "", fmt.Errorf("failed to get remote %s: %w", name, err)
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("%w: %s", errNoRemoteURL, name)
	}
	return urls[0], nil
}

// Project returns the host and project path a remote points to, for example
// "gitlab.com" and "group/sub/project".
func (r *Repository) Project(remote string) (string, string, error) {
	url, err := r.RemoteURL(remote)
	if err != nil {
		return "", "", err
	}
	host, path, err := urlutil.SplitRemote(url)
	if err != nil {
		return "", "", fmt.Errorf("remote %s: %w", remote, security.SanitizeError(err))
	}
	return host, path, nil
}

// SplitCommitMessage returns the first line of a commit message as title and
// the remaining lines, trimmed, as body.
func SplitCommitMessage(msg string) (string, string) {
	title, body, _ := strings.Cut(strings.TrimSpace(msg), "\n")
	return strings.TrimSpace(title), strings.TrimSpace(body)
}
