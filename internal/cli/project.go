package cli

import (
	"fmt"

	"github.com/sgaunet/git-mcp/pkg/platform"
	"github.com/spf13/cobra"
)

func (a *app) newProjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "project <command>",
		Aliases: []string{"repo"},
		Short:   "Work with projects (repositories)",
	}
	cmd.AddCommand(
		a.newProjectListCmd(),
		a.newProjectGetCmd(),
		a.newProjectCreateCmd(),
		a.newProjectDeleteCmd(),
		a.newProjectForkCmd(),
		a.newProjectForkInfoCmd(),
	)
	return cmd
}

func (a *app) newProjectListCmd() *cobra.Command {
	var filter platform.ProjectFilter
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List projects visible on a platform",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			name, err := a.platformName()
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()

			filter.Limit = a.pageSize(filter.Limit)
			projects, err := a.svc.ListProjects(ctx, name, filter)
			if err != nil {
				return err
			}
			return a.print(projects)
		},
	}
	cmd.Flags().StringVarP(&filter.Search, "search", "s", "", "Filter by name")
	cmd.Flags().BoolVar(&filter.Owned, "owned", false, "Only projects you own")
	cmd.Flags().BoolVar(&filter.Membership, "member", false, "Only projects you are a member of")
	cmd.Flags().StringVar(&filter.Visibility, "visibility", "", "public, internal or private")
	cmd.Flags().IntVarP(&filter.Limit, "limit", "L", 0, "Maximum number of results")
	return cmd
}

func (a *app) newProjectGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <project>",
		Short: "Show a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, project, err := a.target(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()

			p, err := a.svc.GetProject(ctx, name, project)
			if err != nil {
				return err
			}
			return a.print(p)
		},
	}
}

func (a *app) newProjectCreateCmd() *cobra.Command {
	var spec platform.CreateProjectSpec
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := a.platformName()
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()

			spec.Name = args[0]
			p, err := a.svc.CreateProject(ctx, name, spec)
			if err != nil {
				return err
			}
			a.log.Info(fmt.Sprintf("Created %s", p.WebURL))
			return a.print(p)
		},
	}
	cmd.Flags().StringVar(&spec.Path, "path", "", "URL path, defaults to the name")
	cmd.Flags().StringVarP(&spec.Namespace, "namespace", "n", "", "Group or organization, defaults to you")
	cmd.Flags().StringVarP(&spec.Description, "description", "d", "", "Project description")
	cmd.Flags().StringVar(&spec.Visibility, "visibility", platform.VisibilityPrivate, "public, internal or private")
	cmd.Flags().BoolVar(&spec.InitReadme, "readme", false, "Create an initial README commit")
	return cmd
}

func (a *app) newProjectDeleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <project>",
		Short: "Delete a project permanently",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, project, err := a.target(args[0])
			if err != nil {
				return err
			}
			if !yes {
				ok, err := a.deps.Prompter.Confirm(fmt.Sprintf("Delete %s on %s? This cannot be undone.", project, name), false)
				if err != nil {
					return err
				}
				if !ok {
					return errAborted
				}
			}
			ctx, cancel := a.context(cmd)
			defer cancel()

			if err := a.svc.DeleteProject(ctx, name, project); err != nil {
				return err
			}
			a.log.Info(fmt.Sprintf("Deleted %s", project))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func (a *app) newProjectForkCmd() *cobra.Command {
	var spec platform.ForkSpec
	cmd := &cobra.Command{
		Use:   "fork <project>",
		Short: "Fork a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, project, err := a.target(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()

			fork, err := a.svc.CreateFork(ctx, name, project, spec)
			if err != nil {
				return err
			}
			a.log.Info(fmt.Sprintf("Forked %s into %s", project, fork.FullPath))
			return a.print(fork)
		},
	}
	cmd.Flags().StringVarP(&spec.Namespace, "namespace", "n", "", "Group or organization receiving the fork")
	cmd.Flags().StringVar(&spec.Name, "name", "", "Name of the fork")
	return cmd
}

func (a *app) newProjectForkInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fork-info <project>",
		Short: "Show the parent of a fork",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, project, err := a.target(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()

			parent, err := a.svc.GetForkInfo(ctx, name, project)
			if err != nil {
				return err
			}
			if parent == nil {
				a.log.Info(fmt.Sprintf("%s is not a fork", project))
				return nil
			}
			return a.print(parent)
		},
	}
}
