package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sgaunet/git-mcp/pkg/platform"
	"github.com/sgaunet/git-mcp/pkg/service"
	"github.com/yosida95/uritemplate/v3"
)

const (
	platformsURI    = "config://platforms"
	projectTemplate = "project://{platform}/{+project_id}"
	jsonMIME        = "application/json"
)

var projectURI = uritemplate.MustNew(projectTemplate)

// platformsConfig is the content of config://platforms.
type platformsConfig struct {
	Platforms []service.PlatformInfo `json:"platforms"`
	Defaults  defaultsView           `json:"defaults"`
}

type defaultsView struct {
	Platform     string `json:"platform"`
	OutputFormat string `json:"output_format"`
	PageSize     int    `json:"page_size"`
	Timeout      string `json:"timeout"`
}

func (s *Server) registerResources() {
	s.mcp.AddResource(&mcp.Resource{
		URI:         platformsURI,
		Name:        "platforms",
		Description: "Configured platforms without their tokens, and the default settings",
		MIMEType:    jsonMIME,
	}, s.readPlatforms)

	s.mcp.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: projectTemplate,
		Name:        "project",
		Description: "Details of a project, e.g. project://work/group/app or project://gh/owner/repo",
		MIMEType:    jsonMIME,
	}, s.readProject)
}

func (s *Server) readPlatforms(_ context.Context, _ *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	return jsonResource(platformsURI, platformsConfig{
		Platforms: s.svc.ListPlatforms(),
		Defaults: defaultsView{
			Platform:     s.defaults.Platform,
			OutputFormat: s.defaults.OutputFormat,
			PageSize:     s.defaults.PageSize,
			Timeout:      s.defaults.Timeout.String(),
		},
	})
}

func (s *Server) readProject(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := req.Params.URI
	vars := projectURI.Match(uri)
	name, projectID := vars.Get("platform").String(), vars.Get("project_id").String()
	if name == "" || projectID == "" {
		return nil, mcp.ResourceNotFoundError(uri)
	}

	project, err := s.svc.GetProject(ctx, name, projectID)
	if err != nil {
		if platform.KindOf(err) == platform.NotFound {
			return nil, mcp.ResourceNotFoundError(uri)
		}
		return nil, errors.New(ErrorText(err))
	}
	return jsonResource(uri, project)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: jsonMIME,
			Text:     string(data),
		}},
	}, nil
}
