// Package mcpserver exposes the platform service as MCP tools over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sgaunet/bullets"
	"github.com/sgaunet/git-mcp/internal/logger"
	"github.com/sgaunet/git-mcp/internal/security"
	"github.com/sgaunet/git-mcp/pkg/config"
	"github.com/sgaunet/git-mcp/pkg/platform"
	"github.com/sgaunet/git-mcp/pkg/service"
)

const serverName = "git-mcp"

// Server wires the platform service to an MCP server.
type Server struct {
	svc      *service.Service
	log      *bullets.Logger
	mcp      *mcp.Server
	defaults config.Defaults
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger. Logs go to stderr; stdout carries the protocol.
func WithLogger(log *bullets.Logger) Option {
	return func(s *Server) {
		s.log = log
	}
}

// WithDefaults sets the configured defaults. Their page size is the limit of
// list tools called without one.
func WithDefaults(d config.Defaults) Option {
	return func(s *Server) {
		s.defaults = d
	}
}

// New creates the MCP server and registers every tool and resource.
func New(svc *service.Service, version string, opts ...Option) *Server {
	s := &Server{
		svc:      svc,
		log:      logger.NoLogger(),
		defaults: config.Default().Defaults,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.mcp = mcp.NewServer(&mcp.Implementation{Name: serverName, Version: version}, nil)

	s.registerPlatformTools()
	s.registerProjectTools()
	s.registerIssueTools()
	s.registerMergeRequestTools()
	s.registerResources()
	return s
}

// MCP returns the underlying MCP server.
func (s *Server) MCP() *mcp.Server {
	return s.mcp
}

// Run serves requests over stdio until the client disconnects or ctx is done.
func (s *Server) Run(ctx context.Context) error {
	s.log.Info(fmt.Sprintf("%s MCP server running on stdio", serverName))
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

// limit returns n, or the configured page size when n is not set.
func (s *Server) limit(n int) int {
	if n > 0 {
		return n
	}
	if s.defaults.PageSize > 0 {
		return s.defaults.PageSize
	}
	return platform.DefaultLimit
}

// addTool registers a tool whose result is rendered as indented JSON and
// whose errors become error results.
func addTool[In any](s *Server, tool *mcp.Tool, fn func(context.Context, In) (any, error)) {
	mcp.AddTool(s.mcp, tool, func(ctx context.Context, _ *mcp.CallToolRequest, in In) (*mcp.CallToolResult, any, error) {
		s.log.Debug(fmt.Sprintf("Tool %s called", tool.Name))
		out, err := fn(ctx, in)
		if err != nil {
			s.log.Debug(fmt.Sprintf("Tool %s failed: %v", tool.Name, err))
			return errorResult(err), nil, nil
		}
		return jsonResult(out)
	})
}

// jsonResult marshals v as indented JSON and wraps it in a CallToolResult.
func jsonResult(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil, nil
}

// errorResult renders an error as "<Kind>: <message>".
func errorResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: ErrorText(err)}},
		IsError: true,
	}
}

// ErrorText renders an error as "<Kind>: <message>". Errors without a kind
// are reported as UpstreamError.
func ErrorText(err error) string {
	var perr *platform.Error
	if !errors.As(err, &perr) {
		return fmt.Sprintf("%s: %s", platform.UpstreamError, security.SanitizeString(err.Error()))
	}
	msg := perr.Message
	if msg == "" && perr.Err != nil {
		msg = perr.Err.Error()
	}
	if perr.RetryAfter > 0 {
		msg += fmt.Sprintf(" (retry after %s)", perr.RetryAfter)
	}
	return fmt.Sprintf("%s: %s", perr.Kind, security.SanitizeString(msg))
}

func ptr[T any](v T) *T {
	return &v
}
