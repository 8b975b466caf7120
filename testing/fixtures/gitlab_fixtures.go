package fixtures

// GitLab v4 API payloads, shaped like the JSON the REST API returns.

// GitLabUser returns a user payload.
func GitLabUser(id int, username string) map[string]any {
	return map[string]any{
		"id":       id,
		"username": username,
		"name":     "Test User",
		"email":    username + "@example.com",
		"web_url":  "https://gitlab.example.com/" + username,
	}
}

// GitLabProject returns a project payload.
func GitLabProject(id int, fullPath string) map[string]any {
	return map[string]any{
		"id":                  id,
		"name":                lastSegment(fullPath),
		"path":                lastSegment(fullPath),
		"path_with_namespace": fullPath,
		"visibility":          "private",
		"default_branch":      "main",
		"web_url":             "https://gitlab.example.com/" + fullPath,
		"http_url_to_repo":    "https://gitlab.example.com/" + fullPath + ".git",
		"ssh_url_to_repo":     "git@gitlab.example.com:" + fullPath + ".git",
		"created_at":          "2025-01-11T10:30:00Z",
		"namespace":           map[string]any{"id": id * 10, "full_path": firstSegments(fullPath)},
	}
}

// GitLabFork returns a project payload forked from parent.
func GitLabFork(id int, fullPath string, parentID int, parentPath string) map[string]any {
	p := GitLabProject(id, fullPath)
	p["forked_from_project"] = map[string]any{
		"id":                  parentID,
		"path_with_namespace": parentPath,
	}
	return p
}

// GitLabIssue returns an issue payload.
func GitLabIssue(projectID, iid int, projectPath string) map[string]any {
	return map[string]any{
		"id":          projectID*1000 + iid,
		"iid":         iid,
		"project_id":  projectID,
		"title":       "Widgets jam on startup",
		"description": "Steps to reproduce",
		"state":       "opened",
		"labels":      []string{"bug"},
		"author":      map[string]any{"id": 42, "username": TestUsername},
		"assignees":   []any{map[string]any{"id": 42, "username": TestUsername}},
		"web_url":     "https://gitlab.example.com/" + projectPath + "/-/issues/" + itoa(iid),
		"created_at":  "2025-01-11T10:30:00Z",
		"references":  map[string]any{"full": projectPath + "#" + itoa(iid)},
	}
}

// GitLabNote returns an issue note payload.
func GitLabNote(id int, body string, system bool) map[string]any {
	return map[string]any{
		"id":         id,
		"body":       body,
		"system":     system,
		"author":     map[string]any{"id": 42, "username": TestUsername},
		"created_at": "2025-01-11T11:00:00Z",
	}
}

// GitLabMergeRequest returns a merge request payload.
func GitLabMergeRequest(iid, sourceID, targetID int, source, target string) map[string]any {
	return map[string]any{
		"id":                sourceID*1000 + iid,
		"iid":               iid,
		"source_project_id": sourceID,
		"target_project_id": targetID,
		"source_branch":     source,
		"target_branch":     target,
		"title":             "feat: add widget sizes",
		"state":             "opened",
		"labels":            []string{},
		"author":            map[string]any{"id": 42, "username": TestUsername},
		"web_url":           "https://gitlab.example.com/acme/widgets/-/merge_requests/" + itoa(iid),
		"created_at":        "2025-01-11T10:30:00Z",
	}
}

// GitLabBranch returns a branch payload.
func GitLabBranch(name string) map[string]any {
	return map[string]any{
		"name":      name,
		"protected": name == "main",
		"default":   name == "main",
		"commit":    map[string]any{"id": TestCommitSHA},
	}
}

// GitLabDiffs returns the diffs of a merge request: a modification, an added
// file and a binary file.
func GitLabDiffs() []map[string]any {
	return []map[string]any{
		{
			"old_path": "widget.go",
			"new_path": "widget.go",
			"diff":     "@@ -1,2 +1,3 @@\n-old line\n+new line\n+another line\n context\n",
		},
		{
			"old_path": "sizes.go",
			"new_path": "sizes.go",
			"new_file": true,
			"diff":     "@@ -0,0 +1,2 @@\n+package widgets\n+\n",
		},
		{
			"old_path": "logo.png",
			"new_path": "logo.png",
			"diff":     "Binary files a/logo.png and b/logo.png differ\n",
		},
	}
}

// GitLabCommit returns a commit payload.
func GitLabCommit(sha, title string) map[string]any {
	return map[string]any{
		"id":             sha,
		"short_id":       sha[:8],
		"title":          title,
		"message":        title + "\n",
		"author_name":    "Test User",
		"authored_date":  "2025-01-11T10:30:00Z",
		"committer_name": "Test User",
		"committed_date": "2025-01-11T10:30:00Z",
	}
}
