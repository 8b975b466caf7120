package cli

import (
	"github.com/sgaunet/git-mcp/pkg/platform"
	"github.com/spf13/cobra"
)

func (a *app) newBranchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "branch <command>",
		Short: "Work with branches",
	}
	cmd.AddCommand(a.newBranchListCmd())
	return cmd
}

func (a *app) newBranchListCmd() *cobra.Command {
	var filter platform.BranchFilter
	cmd := &cobra.Command{
		Use:     "list <project>",
		Aliases: []string{"ls"},
		Short:   "List branches of a project",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, project, err := a.target(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()

			filter.Limit = a.pageSize(filter.Limit)
			branches, err := a.svc.ListBranches(ctx, name, project, filter)
			if err != nil {
				return err
			}
			return a.print(branches)
		},
	}
	cmd.Flags().StringVarP(&filter.Search, "search", "s", "", "Filter by branch name")
	cmd.Flags().IntVarP(&filter.Limit, "limit", "L", 0, "Maximum number of results")
	return cmd
}
