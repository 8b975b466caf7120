package fixtures

// GitHub REST v3 payloads, shaped like the JSON the API returns.

// GitHubUser returns a user payload.
func GitHubUser(id int, login string) map[string]any {
	return map[string]any{
		"id":       id,
		"login":    login,
		"name":     "Test User",
		"html_url": "https://github.com/" + login,
	}
}

// GitHubRepo returns a repository payload for "owner/name".
func GitHubRepo(id int, fullName string) map[string]any {
	owner := firstSegments(fullName)
	return map[string]any{
		"id":             id,
		"name":           lastSegment(fullName),
		"full_name":      fullName,
		"owner":          map[string]any{"login": owner},
		"private":        false,
		"visibility":     "public",
		"default_branch": "main",
		"html_url":       "https://github.com/" + fullName,
		"clone_url":      "https://github.com/" + fullName + ".git",
		"ssh_url":        "git@github.com:" + fullName + ".git",
		"fork":           false,
		"created_at":     "2025-01-11T10:30:00Z",
	}
}

// GitHubFork returns a repository payload forked from parent.
func GitHubFork(id int, fullName string, parent map[string]any) map[string]any {
	r := GitHubRepo(id, fullName)
	r["fork"] = true
	r["parent"] = parent
	return r
}

// GitHubIssue returns an issue payload.
func GitHubIssue(number int, title string) map[string]any {
	return map[string]any{
		"id":         number * 1000,
		"number":     number,
		"title":      title,
		"body":       "Steps to reproduce",
		"state":      "open",
		"user":       map[string]any{"login": TestUsername},
		"labels":     []any{map[string]any{"name": "bug"}},
		"assignees":  []any{map[string]any{"login": TestUsername}},
		"html_url":   "https://github.com/upstream/repo/issues/" + itoa(number),
		"created_at": "2025-01-11T10:30:00Z",
	}
}

// GitHubPullAsIssue returns an issues endpoint entry that is a pull request.
func GitHubPullAsIssue(number int) map[string]any {
	i := GitHubIssue(number, "feat: a pull request")
	i["pull_request"] = map[string]any{"url": "https://api.github.com/repos/upstream/repo/pulls/" + itoa(number)}
	return i
}

// GitHubComment returns an issue comment payload.
func GitHubComment(id int, body string) map[string]any {
	return map[string]any{
		"id":         id,
		"body":       body,
		"user":       map[string]any{"login": TestUsername},
		"created_at": "2025-01-11T11:00:00Z",
	}
}

// GitHubPull returns a pull request payload from head (repo full name and
// branch) into base.
func GitHubPull(number int, headRepo, headRef, baseRepo, baseRef string) map[string]any {
	return map[string]any{
		"id":         number * 1000,
		"number":     number,
		"state":      "open",
		"title":      "feat: add widget sizes",
		"body":       "",
		"draft":      false,
		"user":       map[string]any{"login": TestUsername},
		"html_url":   "https://github.com/" + baseRepo + "/pull/" + itoa(number),
		"created_at": "2025-01-11T10:30:00Z",
		"head": map[string]any{
			"ref": headRef,
			"sha": TestCommitSHA,
			"repo": map[string]any{
				"name":      lastSegment(headRepo),
				"full_name": headRepo,
				"owner":     map[string]any{"login": firstSegments(headRepo)},
			},
		},
		"base": map[string]any{
			"ref": baseRef,
			"repo": map[string]any{
				"name":      lastSegment(baseRepo),
				"full_name": baseRepo,
				"owner":     map[string]any{"login": firstSegments(baseRepo)},
			},
		},
	}
}

// GitHubBranch returns a branch payload.
func GitHubBranch(name string) map[string]any {
	return map[string]any{
		"name":      name,
		"protected": name == "main",
		"commit":    map[string]any{"sha": TestCommitSHA},
	}
}

// GitHubFiles returns the files of a pull request.
func GitHubFiles() []map[string]any {
	return []map[string]any{
		{"filename": "widget.go", "status": "modified", "additions": 2, "deletions": 1, "changes": 3, "patch": "@@ -1 +1,2 @@\n-old\n+new\n+more"},
		{"filename": "sizes.go", "status": "added", "additions": 2, "deletions": 0, "changes": 2, "patch": "@@ -0,0 +1,2 @@\n+a\n+b"},
		{"filename": "old.go", "status": "removed", "additions": 0, "deletions": 4, "changes": 4, "patch": "@@ -1,4 +0,0 @@"},
		{"filename": "logo.png", "status": "modified", "additions": 0, "deletions": 0, "changes": 0},
	}
}

// GitHubCommit returns a pull request commit payload.
func GitHubCommit(sha, message string) map[string]any {
	return map[string]any{
		"sha":      sha,
		"html_url": "https://github.com/upstream/repo/commit/" + sha,
		"commit": map[string]any{
			"message":   message,
			"author":    map[string]any{"name": "Test User", "date": "2025-01-11T10:30:00Z"},
			"committer": map[string]any{"name": "Test User", "date": "2025-01-11T10:30:00Z"},
		},
	}
}
