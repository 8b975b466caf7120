package cli

import (
	"fmt"

	"github.com/sgaunet/git-mcp/pkg/config"
	"github.com/spf13/cobra"
)

func (a *app) newAliasCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alias <command>",
		Short: "Manage short names for projects",
		Long: `An alias names a project on a platform. Wherever a command takes a
project, an alias name can be given instead.`,
	}
	cmd.AddCommand(a.newAliasAddCmd(), a.newAliasListCmd(), a.newAliasRemoveCmd())
	return cmd
}

func (a *app) newAliasAddCmd() *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:     "add <name> <project>",
		Short:   "Add or replace an alias",
		Example: `  $ git-mcp alias add widgets acme/widgets --platform gh`,
		Args:    cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			name, err := a.platformName()
			if err != nil {
				return err
			}
			if _, err := a.store.Platform(name); err != nil {
				return err
			}
			if err := a.store.AddAlias(config.Alias{
				Name:        args[0],
				Platform:    name,
				Project:     args[1],
				Description: description,
			}); err != nil {
				return err
			}
			a.log.Info(fmt.Sprintf("Alias %s -> %s on %s", args[0], args[1], name))
			return nil
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "Free text description")
	return cmd
}

func (a *app) newAliasListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List aliases",
		Args:    cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			aliases := a.store.Aliases()
			if aliases == nil {
				aliases = []config.Alias{}
			}
			return a.print(aliases)
		},
	}
}

func (a *app) newAliasRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove an alias",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.store.RemoveAlias(args[0])
		},
	}
}
