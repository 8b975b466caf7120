package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sgaunet/git-mcp/pkg/service"
)

type platformInput struct {
	Platform string `json:"platform" jsonschema:"name of a configured platform"`
}

func (s *Server) registerPlatformTools() {
	addTool(s, &mcp.Tool{
		Name:        "list_platforms",
		Description: "List configured GitLab and GitHub platforms",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(_ context.Context, _ struct{}) (any, error) {
		return map[string][]service.PlatformInfo{"platforms": s.svc.ListPlatforms()}, nil
	})

	addTool(s, &mcp.Tool{
		Name:        "get_platform_config",
		Description: "Show the settings of a platform: type, URL, username and whether a token is available",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(_ context.Context, in platformInput) (any, error) {
		return s.svc.PlatformInfo(in.Platform)
	})

	addTool(s, &mcp.Tool{
		Name:        "test_platform_connection",
		Description: "Check that a platform is reachable with its token",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, in platformInput) (any, error) {
		return s.svc.TestConnection(ctx, in.Platform)
	})

	addTool(s, &mcp.Tool{
		Name:        "get_current_user_info",
		Description: "Show the account owning the token of a platform",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, in platformInput) (any, error) {
		return s.svc.CurrentUser(ctx, in.Platform)
	})
}
