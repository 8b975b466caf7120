// Package cli implements the git-mcp command line: the MCP server command
// plus direct access to every platform operation.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sgaunet/bullets"
	"github.com/sgaunet/git-mcp/internal/logger"
	"github.com/sgaunet/git-mcp/internal/ui"
	"github.com/sgaunet/git-mcp/pkg/config"
	"github.com/sgaunet/git-mcp/pkg/platform"
	"github.com/sgaunet/git-mcp/pkg/service"
	"github.com/spf13/cobra"
)

var errInvalidOutput = errors.New("invalid output format")

// Deps are the process resources commands use. Zero fields get defaults in
// Execute; tests replace them.
type Deps struct {
	Out       io.Writer
	Err       io.Writer
	Tokens    config.TokenStore
	EnvLookup func(string) (string, bool)
	Factories map[platform.Kind]service.Factory
	Prompter  ui.Prompter
	// WorkDir is the directory searched for a git repository.
	WorkDir string
	Version string
}

type app struct {
	deps Deps

	logLevel  string
	output    string
	configDir string
	platform  string

	log   *bullets.Logger
	store *config.Store
	svc   *service.Service
}

// Execute runs the CLI with the process arguments and returns the exit code.
func Execute(version string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := NewRootCmd(Deps{
		Out:      os.Stdout,
		Err:      os.Stderr,
		Tokens:   config.NewKeyringTokens(),
		Prompter: ui.NewSurveyPrompter(),
		WorkDir:  ".",
		Version:  version,
	})
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", ErrorMessage(err))
		return ExitCode(err)
	}
	return 0
}

// NewRootCmd builds the command tree.
func NewRootCmd(deps Deps) *cobra.Command {
	if deps.Out == nil {
		deps.Out = io.Discard
	}
	if deps.Err == nil {
		deps.Err = io.Discard
	}
	a := &app{deps: deps}

	root := &cobra.Command{
		Use:   "git-mcp",
		Short: "GitLab and GitHub operations for AI assistants and the terminal",
		Long: `git-mcp exposes projects, issues, merge requests and branches of
configured GitLab and GitHub instances through one normalized interface:
as an MCP server over stdio ("git-mcp serve") or directly from the shell.`,
		Version:       deps.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
	}
	root.SetOut(deps.Out)
	root.SetErr(deps.Err)

	flags := root.PersistentFlags()
	flags.StringVarP(&a.logLevel, "log-level", "l", "info", "Set log level (debug, info, warn, error)")
	flags.StringVarP(&a.output, "output", "o", "", "Output format (table, json, yaml), defaults to the configured one")
	flags.StringVar(&a.configDir, "config-dir", "", "Configuration directory (default $"+config.DirEnv+" or ~/.git-mcp)")
	flags.StringVarP(&a.platform, "platform", "p", "", "Platform name, defaults to the configured default")

	root.AddCommand(
		a.newServeCmd(),
		a.newPlatformCmd(),
		a.newAliasCmd(),
		a.newProjectCmd(),
		a.newIssueCmd(),
		a.newMRCmd(),
		a.newBranchCmd(),
	)
	return root
}

func (a *app) setup() error {
	a.log = logger.NewLoggerTo(a.deps.Err, a.logLevel)

	var opts []config.StoreOption
	if a.deps.EnvLookup != nil {
		opts = append(opts, config.WithEnvLookup(a.deps.EnvLookup))
	}
	store, err := config.Open(a.configDir, a.deps.Tokens, opts...)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	a.store = store
	a.log.Debug(fmt.Sprintf("Configuration loaded from %s", store.Path()))

	if a.output == "" {
		a.output = store.Defaults().OutputFormat
	}
	if !validFormat(a.output) {
		return fmt.Errorf("%w %q, use one of %s", errInvalidOutput, a.output, strings.Join(config.OutputFormats, ", "))
	}

	a.svc = service.New(store, a.deps.Factories,
		service.WithLogger(a.log),
		service.WithRetryPolicy(store.Defaults().Retry.Policy()),
	)
	return nil
}

// context bounds a command by the configured timeout.
func (a *app) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout := a.store.Defaults().Timeout; timeout > 0 {
		return context.WithTimeout(ctx, timeout)
	}
	return context.WithCancel(ctx)
}

// platformName returns the --platform flag or the configured default.
func (a *app) platformName() (string, error) {
	name, err := a.store.DefaultPlatform(a.platform)
	if err != nil {
		return "", &platform.Error{Kind: platform.UnknownPlatform, Message: err.Error(), Err: err}
	}
	return name, nil
}

// target resolves a project argument. An alias name selects its platform and
// project unless --platform is set explicitly.
func (a *app) target(project string) (string, string, error) {
	if alias, err := a.store.Alias(project); err == nil {
		name := alias.Platform
		if a.platform != "" {
			name = a.platform
		}
		a.log.Debug(fmt.Sprintf("Alias %s resolves to %s on %s", project, alias.Project, name))
		return name, alias.Project, nil
	}
	name, err := a.platformName()
	if err != nil {
		return "", "", err
	}
	return name, project, nil
}

// pageSize returns n, or the configured page size when n is not set.
func (a *app) pageSize(n int) int {
	if n > 0 {
		return n
	}
	return a.store.Defaults().PageSize
}

// warn logs the warnings of a result.
func (a *app) warn(warnings []string) {
	for _, w := range warnings {
		a.log.Warn(w)
	}
}
