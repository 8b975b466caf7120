package cli

import (
	"context"
	"fmt"

	"github.com/sgaunet/git-mcp/internal/labels"
	"github.com/sgaunet/git-mcp/pkg/git"
	"github.com/sgaunet/git-mcp/pkg/platform"
	"github.com/spf13/cobra"
)

func (a *app) newMRCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "mr <command>",
		Aliases: []string{"pr"},
		Short:   "Work with merge requests (pull requests on GitHub)",
	}
	cmd.AddCommand(
		a.newMRListCmd(),
		a.newMRGetCmd(),
		a.newMRCreateCmd(),
		a.newMRApproveCmd(),
		a.newMRMergeCmd(),
		a.newMRDiffCmd(),
		a.newMRCommitsCmd(),
	)
	return cmd
}

func (a *app) newMRListCmd() *cobra.Command {
	var filter platform.MergeRequestFilter
	var mine bool
	cmd := &cobra.Command{
		Use:     "list <project>",
		Aliases: []string{"ls"},
		Short:   "List merge requests targeting a project",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, project, err := a.target(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()

			filter.Limit = a.pageSize(filter.Limit)
			var mrs []platform.MergeRequest
			if mine {
				mrs, err = a.svc.ListMyMergeRequests(ctx, name, project, filter)
			} else {
				mrs, err = a.svc.ListMergeRequests(ctx, name, project, filter)
			}
			if err != nil {
				return err
			}
			return a.print(mrs)
		},
	}
	cmd.Flags().StringVar(&filter.State, "state", platform.StateOpen, "open, closed, merged or all")
	cmd.Flags().StringVar(&filter.Author, "author", "", "Filter by author username")
	cmd.Flags().StringVar(&filter.Assignee, "assignee", "", "Filter by assignee username")
	cmd.Flags().StringVar(&filter.SourceBranch, "source", "", "Filter by source branch")
	cmd.Flags().StringVar(&filter.TargetBranch, "target", "", "Filter by target branch")
	cmd.Flags().StringSliceVar(&filter.Labels, "label", nil, "Only merge requests with these labels")
	cmd.Flags().IntVarP(&filter.Limit, "limit", "L", 0, "Maximum number of results")
	cmd.Flags().BoolVar(&mine, "mine", false, "Only merge requests you authored")
	return cmd
}

func (a *app) newMRGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <project> <id>",
		Short: "Show a merge request",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, project, err := a.target(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()

			mr, err := a.svc.GetMergeRequest(ctx, name, project, args[1])
			if err != nil {
				return err
			}
			return a.print(mr)
		},
	}
}

type mrCreateOptions struct {
	project      string
	autoLabels   bool
	selectLabels bool
	spec         platform.CreateMergeRequestSpec
}

func (a *app) newMRCreateCmd() *cobra.Command {
	var opts mrCreateOptions
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Open a merge request, defaulting to the current branch and latest commit",
		Long: `Open a merge request after checking both branches exist.

Inside a git repository the source project comes from the origin remote, the
source branch from the checked out branch, and the title and description from
the latest commit message. Use --target-project to open the merge request from
a fork into its upstream project.`,
		Example: `  # From the current branch into main, labels picked from "feat: ..."
  $ git-mcp mr create --auto-labels

  # From a fork into upstream
  $ git-mcp mr create --project testuser/widgets --source feature-x \
      --target-project acme/widgets --target main --title "feat: sizes"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()
			return a.createMR(ctx, &opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.project, "project", "", "Source project, defaults to the origin remote")
	f.StringVar(&opts.spec.SourceBranch, "source", "", "Source branch, defaults to the current branch")
	f.StringVar(&opts.spec.TargetProjectID, "target-project", "", "Target project, defaults to the source project")
	f.StringVar(&opts.spec.TargetBranch, "target", "", "Target branch, defaults to the main branch")
	f.StringVarP(&opts.spec.Title, "title", "t", "", "Title, defaults to the latest commit subject")
	f.StringVarP(&opts.spec.Description, "description", "d", "", "Description, defaults to the latest commit body")
	f.StringVarP(&opts.spec.AssigneeUsername, "assignee", "a", "", "Username to assign")
	f.StringSliceVar(&opts.spec.Labels, "label", nil, "Labels to apply")
	f.BoolVar(&opts.spec.Draft, "draft", false, "Open as draft")
	f.BoolVar(&opts.spec.RemoveSourceBranch, "remove-source-branch", false, "Delete the source branch once merged")
	f.BoolVar(&opts.autoLabels, "auto-labels", false, "Add project labels matching the conventional-commit type of the title")
	f.BoolVar(&opts.selectLabels, "select-labels", false, "Choose labels interactively")
	return cmd
}

func (a *app) createMR(ctx context.Context, opts *mrCreateOptions) error {
	spec := opts.spec

	var repo *git.Repository
	if opts.project == "" || spec.SourceBranch == "" || spec.Title == "" || spec.TargetBranch == "" {
		var err error
		if repo, err = git.OpenRepository(a.deps.WorkDir); err != nil {
			if opts.project == "" || spec.SourceBranch == "" {
				return fmt.Errorf("--project and --source are required outside a git repository: %w", err)
			}
			a.log.Debug(fmt.Sprintf("No git repository: %v", err))
		}
	}

	name, err := a.sourceProject(repo, opts.project, &spec)
	if err != nil {
		return err
	}
	if spec.SourceBranch == "" {
		if spec.SourceBranch, err = repo.CurrentBranch(); err != nil {
			return err
		}
	}
	if spec.Title == "" && repo != nil {
		msg, err := repo.LatestCommitMessage()
		if err != nil {
			return err
		}
		title, body := git.SplitCommitMessage(msg)
		spec.Title = title
		if spec.Description == "" {
			spec.Description = body
		}
	}
	if spec.TargetBranch == "" {
		if spec.TargetBranch, err = a.defaultTargetBranch(ctx, repo, name, spec.Target()); err != nil {
			return err
		}
	}
	if opts.autoLabels || opts.selectLabels {
		if spec.Labels, err = a.chooseLabels(ctx, name, spec.Target(), spec.Title, spec.Labels, opts.selectLabels); err != nil {
			return err
		}
	}

	if spec.IsCrossProject() {
		a.log.Info(fmt.Sprintf("Opening merge request from %s into %s", spec.SourceProjectID, spec.Target()))
	}
	a.log.Debug(fmt.Sprintf("Creating merge request %s:%s -> %s:%s on %s",
		spec.SourceProjectID, spec.SourceBranch, spec.Target(), spec.TargetBranch, name))
	res, err := a.svc.CreateMergeRequest(ctx, name, spec)
	if err != nil {
		return err
	}
	a.log.Info(fmt.Sprintf("Created merge request !%s: %s", res.Value.ID, res.Value.WebURL))
	return printResult(a, res)
}

// sourceProject fills spec.SourceProjectID from the flag or the origin remote
// and returns the platform name. Without --platform the remote host selects
// the platform.
func (a *app) sourceProject(repo *git.Repository, project string, spec *platform.CreateMergeRequestSpec) (string, error) {
	if project != "" {
		name, id, err := a.target(project)
		spec.SourceProjectID = id
		return name, err
	}
	host, path, err := repo.Project(git.DefaultRemote)
	if err != nil {
		return "", err
	}
	spec.SourceProjectID = path
	if a.platform == "" {
		if name, _, ok := a.svc.PlatformForHost(host); ok {
			return name, nil
		}
	}
	return a.platformName()
}

func (a *app) defaultTargetBranch(ctx context.Context, repo *git.Repository, name, project string) (string, error) {
	if repo != nil {
		if branch, err := repo.MainBranch(); err == nil {
			return branch, nil
		}
	}
	p, err := a.svc.GetProject(ctx, name, project)
	if err != nil {
		return "", err
	}
	if p.DefaultBranch == "" {
		return "", platform.Errorf(platform.InvalidReference, "project %s has no default branch, use --target", project)
	}
	return p.DefaultBranch, nil
}

func (a *app) chooseLabels(ctx context.Context, name, project, title string, explicit []string, interactive bool) ([]string, error) {
	available, err := a.svc.ListLabels(ctx, name, project)
	if err != nil {
		return nil, err
	}
	suggested := labels.Merge(explicit, labels.Suggest(title, available))
	if !interactive {
		if len(suggested) > len(explicit) {
			a.log.Info(fmt.Sprintf("Labels: %v", suggested))
		}
		return suggested, nil
	}
	return a.deps.Prompter.SelectLabels(available, suggested)
}

func (a *app) newMRApproveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "approve <project> <id>",
		Short: "Approve a merge request",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, project, err := a.target(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()

			if err := a.svc.ApproveMergeRequest(ctx, name, project, args[1]); err != nil {
				return err
			}
			a.log.Info(fmt.Sprintf("Approved !%s", args[1]))
			return nil
		},
	}
}

func (a *app) newMRMergeCmd() *cobra.Command {
	var opts platform.MergeOptions
	cmd := &cobra.Command{
		Use:   "merge <project> <id>",
		Short: "Merge a merge request",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, project, err := a.target(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()

			mr, err := a.svc.MergeMergeRequest(ctx, name, project, args[1], opts)
			if err != nil {
				return err
			}
			a.log.Info(fmt.Sprintf("Merged !%s", mr.ID))
			return a.print(mr)
		},
	}
	cmd.Flags().BoolVar(&opts.Squash, "squash", false, "Squash commits")
	cmd.Flags().BoolVar(&opts.RemoveSourceBranch, "remove-source-branch", false, "Delete the source branch")
	cmd.Flags().StringVarP(&opts.CommitMessage, "message", "m", "", "Merge commit message")
	return cmd
}

func (a *app) newMRDiffCmd() *cobra.Command {
	var opts platform.DiffOptions
	cmd := &cobra.Command{
		Use:   "diff <project> <id>",
		Short: "Show the changed files of a merge request",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, project, err := a.target(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()

			diff, err := a.svc.GetMergeRequestDiff(ctx, name, project, args[1], opts)
			if err != nil {
				return err
			}
			return a.print(diff)
		},
	}
	cmd.Flags().BoolVar(&opts.IncludePatch, "patch", false, "Include the unified diff of each file (json and yaml output)")
	cmd.Flags().IntVar(&opts.MaxFiles, "max-files", 0, "Maximum number of files, 0 for all")
	return cmd
}

func (a *app) newMRCommitsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "commits <project> <id>",
		Short: "List the commits of a merge request",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, project, err := a.target(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()

			commits, err := a.svc.GetMergeRequestCommits(ctx, name, project, args[1])
			if err != nil {
				return err
			}
			return a.print(commits)
		},
	}
}
