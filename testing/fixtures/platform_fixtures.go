// Package fixtures provides common test data for adapters, the service and
// the front-ends.
package fixtures

import (
	"time"

	"github.com/sgaunet/git-mcp/pkg/platform"
)

// Test constants shared by fixtures.
const (
	TestUsername    = "testuser"
	TestProjectPath = "acme/widgets"
	TestProjectID   = "123"
	TestForkPath    = "testuser/widgets"
	TestForkID      = "456"
	TestCommitSHA   = "abc123def456789012345678901234567890abcd"
)

// Created is the creation time used by every fixture.
var Created = time.Date(2025, 1, 11, 10, 30, 0, 0, time.UTC)

// User returns the authenticated test user.
func User() *platform.User {
	return &platform.User{
		ID:       "42",
		Username: TestUsername,
		Name:     "Test User",
		Email:    "test@example.com",
		WebURL:   "https://gitlab.example.com/testuser",
	}
}

// Project returns a normalized project.
func Project() *platform.Project {
	created := Created
	return &platform.Project{
		ID:            TestProjectID,
		Name:          "widgets",
		Path:          "widgets",
		FullPath:      TestProjectPath,
		Namespace:     "acme",
		Visibility:    platform.VisibilityPrivate,
		Description:   "Widget factory",
		DefaultBranch: "main",
		WebURL:        "https://gitlab.example.com/acme/widgets",
		HTTPCloneURL:  "https://gitlab.example.com/acme/widgets.git",
		SSHCloneURL:   "git@gitlab.example.com:acme/widgets.git",
		CreatedAt:     &created,
	}
}

// Fork returns a normalized fork of Project.
func Fork() *platform.Project {
	p := Project()
	p.ID = TestForkID
	p.FullPath = TestForkPath
	p.Namespace = TestUsername
	p.WebURL = "https://gitlab.example.com/testuser/widgets"
	p.IsFork = true
	p.Parent = &platform.ProjectRef{ID: TestProjectID, FullPath: TestProjectPath}
	return p
}

// Issue returns an open normalized issue.
func Issue(id string) *platform.Issue {
	created := Created
	return &platform.Issue{
		ID:        id,
		Project:   platform.ProjectRef{ID: TestProjectID, FullPath: TestProjectPath},
		Title:     "Widgets jam on startup",
		State:     platform.StateOpen,
		Labels:    []string{"bug"},
		Assignees: []string{TestUsername},
		Author:    TestUsername,
		WebURL:    "https://gitlab.example.com/acme/widgets/-/issues/" + id,
		CreatedAt: &created,
		Comments:  []platform.Comment{},
	}
}

// Issues returns a small list of issues.
func Issues() []platform.Issue {
	return []platform.Issue{*Issue("1"), *Issue("2")}
}

// MergeRequest returns an open normalized merge request from the fork into
// the upstream project.
func MergeRequest(id string) *platform.MergeRequest {
	created := Created
	return &platform.MergeRequest{
		ID:            id,
		SourceProject: platform.ProjectRef{ID: TestForkID, FullPath: TestForkPath},
		TargetProject: platform.ProjectRef{ID: TestProjectID, FullPath: TestProjectPath},
		SourceBranch:  "feature-x",
		TargetBranch:  "main",
		Title:         "feat: add widget sizes",
		State:         platform.StateOpen,
		Author:        TestUsername,
		Assignees:     []string{},
		Labels:        []string{"feature"},
		WebURL:        "https://gitlab.example.com/acme/widgets/-/merge_requests/" + id,
		CreatedAt:     &created,
	}
}

// Diff returns a two-file diff.
func Diff() *platform.Diff {
	d := &platform.Diff{MergeRequestID: "7", Files: []platform.FileChange{}}
	d.Add(platform.FileChange{Path: "widget.go", Status: platform.FileModified, Additions: 3, Deletions: 1})
	d.Add(platform.FileChange{Path: "sizes.go", Status: platform.FileAdded, Additions: 10})
	return d
}

// Commits returns the commits of a merge request.
func Commits() []platform.Commit {
	at := Created
	return []platform.Commit{{
		SHA:         TestCommitSHA,
		Message:     "feat: add widget sizes",
		Author:      "Test User",
		AuthoredAt:  &at,
		Committer:   "Test User",
		CommittedAt: &at,
	}}
}

// Branches returns the branches of a project.
func Branches() []platform.Branch {
	return []platform.Branch{
		{Name: "main", CommitSHA: TestCommitSHA, Protected: true, Default: true},
		{Name: "feature-x", CommitSHA: TestCommitSHA},
	}
}
