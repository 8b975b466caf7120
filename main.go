// Package main provides the entry point for the git-mcp CLI and MCP server.
package main

import (
	"os"

	"github.com/sgaunet/git-mcp/internal/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(cli.Execute(version))
}
