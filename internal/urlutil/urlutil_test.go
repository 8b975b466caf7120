package urlutil_test

import (
	"testing"

	"github.com/sgaunet/git-mcp/internal/urlutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitRemote(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		wantHost string
		wantPath string
	}{
		{name: "github https", url: "https://github.com/owner/repo", wantHost: "github.com", wantPath: "owner/repo"},
		{name: "github https .git", url: "https://github.com/owner/repo.git", wantHost: "github.com", wantPath: "owner/repo"},
		{name: "github ssh colon", url: "git@github.com:owner/repo.git", wantHost: "github.com", wantPath: "owner/repo"},
		{name: "github ssh protocol", url: "ssh://git@github.com/owner/repo", wantHost: "github.com", wantPath: "owner/repo"},
		{name: "ssh protocol with port", url: "ssh://git@gitlab.example.com:2222/group/project.git", wantHost: "gitlab.example.com", wantPath: "group/project"},
		{name: "gitlab nested groups", url: "https://gitlab.com/group/sub/project", wantHost: "gitlab.com", wantPath: "group/sub/project"},
		{name: "gitlab issue url", url: "https://gitlab.com/group/project/-/issues/42", wantHost: "gitlab.com", wantPath: "group/project/-/issues/42"},
		{name: "uppercase host", url: "https://GitHub.com/Owner/Repo/", wantHost: "github.com", wantPath: "Owner/Repo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, path, err := urlutil.SplitRemote(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.wantHost, host)
			assert.Equal(t, tt.wantPath, path)
		})
	}
}

func TestSplitRemote_Invalid(t *testing.T) {
	for _, raw := range []string{"", "not-a-url", "https://github.com/", "https://github.com"} {
		_, _, err := urlutil.SplitRemote(raw)
		assert.ErrorIs(t, err, urlutil.ErrUnsupportedURL, "url %q", raw)
	}
}

func TestHost(t *testing.T) {
	assert.Equal(t, "gitlab.example.com", urlutil.Host("https://gitlab.example.com/"))
	assert.Equal(t, "github.com", urlutil.Host("github.com"))
	assert.Equal(t, "api.github.com", urlutil.Host("https://API.github.com/api/v3"))
}

func TestExtractPathComponents(t *testing.T) {
	assert.Equal(t, "owner/repo", urlutil.ExtractPathComponents("owner/repo/pull/4", 2))
	assert.Equal(t, "owner/repo", urlutil.ExtractPathComponents("/owner/repo/", 2))
	assert.Equal(t, "", urlutil.ExtractPathComponents("owner", 2))
	assert.Equal(t, "", urlutil.ExtractPathComponents("owner/repo", 0))
}
