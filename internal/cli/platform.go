package cli

import (
	"fmt"

	"github.com/sgaunet/git-mcp/pkg/config"
	"github.com/sgaunet/git-mcp/pkg/platform"
	"github.com/spf13/cobra"
)

func (a *app) newPlatformCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "platform <command>",
		Short: "Manage configured GitLab and GitHub platforms",
	}
	cmd.AddCommand(
		a.newPlatformAddCmd(),
		a.newPlatformListCmd(),
		a.newPlatformRemoveCmd(),
		a.newPlatformTestCmd(),
		a.newPlatformSetTokenCmd(),
		a.newPlatformSetDefaultCmd(),
	)
	return cmd
}

func (a *app) newPlatformAddCmd() *cobra.Command {
	var p config.PlatformConfig
	var token string
	var makeDefault bool

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Register a platform and store its token in the keyring",
		Example: `  $ git-mcp platform add work --type gitlab --url https://gitlab.example.com --username jdoe
  $ git-mcp platform add gh --type github`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			name := args[0]
			if _, ok := platform.ParseKind(p.Type); !ok {
				return fmt.Errorf("%w: --type must be gitlab or github", config.ErrInvalidConfig)
			}
			if token == "" {
				var err error
				if token, err = a.deps.Prompter.Secret(fmt.Sprintf("Token for %s:", name)); err != nil {
					return err
				}
			}
			if err := a.store.AddPlatform(name, p, token); err != nil {
				return err
			}
			if makeDefault {
				if err := a.store.SetDefaultPlatform(name); err != nil {
					return err
				}
			}
			a.log.Info(fmt.Sprintf("Platform %s added", name))
			return nil
		},
	}
	cmd.Flags().StringVarP(&p.Type, "type", "t", "", "Platform type (gitlab, github)")
	cmd.Flags().StringVar(&p.URL, "url", "", "Instance URL, defaults to gitlab.com or github.com")
	cmd.Flags().StringVarP(&p.Username, "username", "u", "", "Your username, used by --mine filters")
	cmd.Flags().StringVar(&token, "token", "", "Access token, prompted for when omitted")
	cmd.Flags().BoolVar(&makeDefault, "default", false, "Make this the default platform")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func (a *app) newPlatformListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List configured platforms",
		Args:    cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return a.print(a.svc.ListPlatforms())
		},
	}
}

func (a *app) newPlatformRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a platform, its aliases and its stored token",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.store.RemovePlatform(args[0]); err != nil {
				return err
			}
			a.log.Info(fmt.Sprintf("Platform %s removed", args[0]))
			return nil
		},
	}
}

func (a *app) newPlatformTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test [name]",
		Short: "Check that a platform is reachable with its token",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				a.platform = args[0]
			}
			name, err := a.platformName()
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()

			user, err := a.svc.CurrentUser(ctx, name)
			if err != nil {
				return err
			}
			a.log.Info(fmt.Sprintf("Connected to %s as %s", name, user.Username))
			return a.print(user)
		},
	}
}

func (a *app) newPlatformSetTokenCmd() *cobra.Command {
	var token string
	cmd := &cobra.Command{
		Use:   "set-token <name>",
		Short: "Replace the stored token of a platform",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if token == "" {
				var err error
				if token, err = a.deps.Prompter.Secret(fmt.Sprintf("Token for %s:", args[0])); err != nil {
					return err
				}
			}
			if err := a.store.SetToken(args[0], token); err != nil {
				return err
			}
			a.log.Info(fmt.Sprintf("Token of %s updated", args[0]))
			return nil
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "Access token, prompted for when omitted")
	return cmd
}

func (a *app) newPlatformSetDefaultCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-default <name>",
		Short: "Use a platform when --platform is not given",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.store.SetDefaultPlatform(args[0])
		},
	}
}
