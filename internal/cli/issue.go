package cli

import (
	"fmt"
	"strings"

	"github.com/sgaunet/git-mcp/pkg/platform"
	"github.com/spf13/cobra"
)

func (a *app) newIssueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "issue <command>",
		Short: "Work with issues",
	}
	cmd.AddCommand(
		a.newIssueListCmd(),
		a.newIssueGetCmd(),
		a.newIssueCreateCmd(),
		a.newIssueUpdateCmd(),
		a.newIssueCloseCmd(),
		a.newIssueCommentCmd(),
	)
	return cmd
}

func (a *app) newIssueListCmd() *cobra.Command {
	var filter platform.IssueFilter
	var mine bool
	cmd := &cobra.Command{
		Use:     "list <project>",
		Aliases: []string{"ls"},
		Short:   "List issues of a project",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, project, err := a.target(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()

			filter.Limit = a.pageSize(filter.Limit)
			var issues []platform.Issue
			if mine {
				issues, err = a.svc.ListMyIssues(ctx, name, project, filter)
			} else {
				issues, err = a.svc.ListIssues(ctx, name, project, filter)
			}
			if err != nil {
				return err
			}
			return a.print(issues)
		},
	}
	cmd.Flags().StringVar(&filter.State, "state", platform.StateOpen, "open, closed or all")
	cmd.Flags().StringSliceVar(&filter.Labels, "label", nil, "Only issues with these labels")
	cmd.Flags().StringVar(&filter.Assignee, "assignee", "", "Filter by assignee username")
	cmd.Flags().StringVar(&filter.Author, "author", "", "Filter by author username")
	cmd.Flags().StringVarP(&filter.Search, "search", "s", "", "Search in title and description")
	cmd.Flags().IntVarP(&filter.Limit, "limit", "L", 0, "Maximum number of results")
	cmd.Flags().BoolVar(&mine, "mine", false, "Only issues assigned to you")
	return cmd
}

func (a *app) newIssueGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get {<project> <id> | <url>}",
		Short: "Show an issue with its comments",
		Example: `  $ git-mcp issue get acme/widgets 12
  $ git-mcp issue get https://gitlab.example.com/acme/widgets/-/issues/12`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			var issue *platform.Issue
			if len(args) == 1 {
				if !strings.Contains(args[0], "://") {
					return platform.NewError(platform.InvalidReference, "expected an issue URL or <project> <id>")
				}
				var err error
				if issue, err = a.svc.GetIssueByURL(ctx, args[0]); err != nil {
					return err
				}
				return a.print(issue)
			}

			name, project, err := a.target(args[0])
			if err != nil {
				return err
			}
			if issue, err = a.svc.GetIssue(ctx, name, project, args[1]); err != nil {
				return err
			}
			return a.print(issue)
		},
	}
}

func (a *app) newIssueCreateCmd() *cobra.Command {
	var spec platform.CreateIssueSpec
	cmd := &cobra.Command{
		Use:   "create <project>",
		Short: "Create an issue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, project, err := a.target(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()

			res, err := a.svc.CreateIssue(ctx, name, project, spec)
			if err != nil {
				return err
			}
			a.log.Info(fmt.Sprintf("Created issue #%s: %s", res.Value.ID, res.Value.WebURL))
			return printResult(a, res)
		},
	}
	cmd.Flags().StringVarP(&spec.Title, "title", "t", "", "Issue title")
	cmd.Flags().StringVarP(&spec.Description, "description", "d", "", "Issue description")
	cmd.Flags().StringSliceVar(&spec.Labels, "label", nil, "Labels to apply")
	cmd.Flags().StringSliceVarP(&spec.Assignees, "assignee", "a", nil, "Usernames to assign")
	cmd.Flags().StringVarP(&spec.Milestone, "milestone", "m", "", "Milestone title")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func (a *app) newIssueUpdateCmd() *cobra.Command {
	var title, description, state string
	var labels, assignees []string
	cmd := &cobra.Command{
		Use:   "update <project> <id>",
		Short: "Change fields of an issue; only the given flags are changed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, project, err := a.target(args[0])
			if err != nil {
				return err
			}
			var patch platform.IssuePatch
			flags := cmd.Flags()
			if flags.Changed("title") {
				patch.Title = &title
			}
			if flags.Changed("description") {
				patch.Description = &description
			}
			if flags.Changed("state") {
				patch.State = &state
			}
			if flags.Changed("label") {
				patch.Labels = &labels
			}
			if flags.Changed("assignee") {
				patch.Assignees = &assignees
			}

			ctx, cancel := a.context(cmd)
			defer cancel()

			res, err := a.svc.UpdateIssue(ctx, name, project, args[1], patch)
			if err != nil {
				return err
			}
			return printResult(a, res)
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "New title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description")
	cmd.Flags().StringVar(&state, "state", "", "open or closed")
	cmd.Flags().StringSliceVar(&labels, "label", nil, "Replacement labels")
	cmd.Flags().StringSliceVarP(&assignees, "assignee", "a", nil, "Replacement assignees")
	return cmd
}

func (a *app) newIssueCloseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "close <project> <id>",
		Short: "Close an issue",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, project, err := a.target(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()

			res, err := a.svc.CloseIssue(ctx, name, project, args[1])
			if err != nil {
				return err
			}
			a.log.Info(fmt.Sprintf("Closed issue #%s", res.Value.ID))
			return printResult(a, res)
		},
	}
}

func (a *app) newIssueCommentCmd() *cobra.Command {
	var body string
	cmd := &cobra.Command{
		Use:   "comment <project> <id>",
		Short: "Comment on an issue",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, project, err := a.target(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()

			c, err := a.svc.CreateComment(ctx, name, project, args[1], body)
			if err != nil {
				return err
			}
			return a.print(c)
		},
	}
	cmd.Flags().StringVarP(&body, "body", "b", "", "Comment text")
	_ = cmd.MarkFlagRequired("body")
	return cmd
}
