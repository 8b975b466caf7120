package cli

import (
	"github.com/sgaunet/git-mcp/internal/mcpserver"
	"github.com/spf13/cobra"
)

func (a *app) newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server over stdio",
		Long: `Start a Model Context Protocol server over stdio exposing the project,
issue, merge request and branch tools of every configured platform.

Logs go to stderr; stdout carries the protocol.`,
		Example: `  # Register with an MCP client
  $ git-mcp serve --log-level warn`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			srv := mcpserver.New(a.svc, a.deps.Version,
				mcpserver.WithLogger(a.log),
				mcpserver.WithDefaults(a.store.Defaults()),
			)
			return srv.Run(cmd.Context())
		},
	}
}
