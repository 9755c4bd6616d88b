package cli

import (
	"fmt"
	"strconv"

	"github.com/alexanderramin/groundwork/internal/cli/formatter"
	"github.com/alexanderramin/groundwork/internal/domain"
	"github.com/spf13/cobra"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "task",
		Aliases: []string{"t"},
		Short:   "Manage project tasks",
	}

	cmd.AddCommand(
		newTaskAddCmd(app),
		newTaskListCmd(app),
		newTaskShowCmd(app),
		newTaskUpdateCmd(app),
		newTaskProgressCmd(app),
		newTaskDeleteCmd(app),
		newTaskTreeCmd(app),
	)

	return cmd
}

// taskFields are the editable task flags shared by add and update.
type taskFields struct {
	title       string
	description string
	phase       string
	status      string
	priority    string
	duration    int
	lag         int
	after       []string
	parent      string
	budget      int64
	cost        int64
	assignee    string
	role        string
	start       string
	end         string
}

func (f *taskFields) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.title, "title", "", "task title")
	fs.StringVar(&f.description, "description", "", "free-text description")
	fs.StringVar(&f.phase, "phase", "", "construction phase label")
	fs.StringVar(&f.priority, "priority", "", "low, medium, high or critical")
	fs.IntVar(&f.duration, "duration", 0, "duration in days")
	fs.IntVar(&f.lag, "lag", 0, "lag days applied after every predecessor")
	fs.StringSliceVar(&f.after, "after", nil, "predecessor task IDs (comma separated)")
	fs.StringVar(&f.parent, "parent", "", "parent task ID")
	fs.Int64Var(&f.budget, "budget", 0, "budget amount")
	fs.StringVar(&f.assignee, "assignee", "", "assignee ID")
	fs.StringVar(&f.role, "role", "", "assignee role")
	fs.StringVar(&f.start, "start", "", "planned start (YYYY-MM-DD)")
	fs.StringVar(&f.end, "end", "", "planned end (YYYY-MM-DD)")
}

func newTaskAddCmd(app *App) *cobra.Command {
	var (
		projectFlag string
		f           taskFields
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a task to a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := requireProject(cmd, app, projectFlag)
			if err != nil {
				return err
			}
			start, err := parseOptionalDate(f.start)
			if err != nil {
				return err
			}
			end, err := parseOptionalDate(f.end)
			if err != nil {
				return err
			}

			t := &domain.Task{
				ProjectID:          projectID,
				Title:              f.title,
				Description:        f.description,
				Phase:              f.phase,
				Priority:           domain.Priority(f.priority),
				DurationDays:       f.duration,
				LagDays:            f.lag,
				PredecessorTaskIDs: f.after,
				BudgetAmount:       f.budget,
				AssigneeRole:       f.role,
				PlannedStart:       start,
				PlannedEnd:         end,
			}
			if f.parent != "" {
				t.ParentID = &f.parent
			}
			if f.assignee != "" {
				t.AssigneeID = &f.assignee
			}

			if err := app.Tasks.CreateTask(cmd.Context(), t); err != nil {
				return err
			}

			crit := ""
			if t.IsCritical {
				crit = " " + formatter.CriticalMarker(true)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Created task %s (%s)%s\n",
				formatter.StyleGreen.Render("✔"), formatter.Bold(t.Title), t.ID, crit)
			return nil
		},
	}

	addProjectFlag(cmd.Flags(), &projectFlag)
	f.register(cmd)

	return cmd
}

func newTaskListCmd(app *App) *cobra.Command {
	var (
		projectFlag string
		status      string
		priority    string
		assignee    string
		parent      string
		roots       bool
		critical    bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List a project's tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := requireProject(cmd, app, projectFlag)
			if err != nil {
				return err
			}

			filter := domain.TaskFilter{ProjectID: projectID, RootsOnly: roots}
			if status != "" {
				st, err := domain.ParseTaskStatus(status)
				if err != nil {
					return err
				}
				filter.Status = &st
			}
			if priority != "" {
				p, err := domain.ParsePriority(priority)
				if err != nil {
					return err
				}
				filter.Priority = &p
			}
			if assignee != "" {
				filter.AssigneeID = &assignee
			}
			if parent != "" {
				filter.ParentID = &parent
			}

			tasks, err := app.Tasks.GetTasks(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if critical {
				kept := tasks[:0]
				for _, t := range tasks {
					if t.IsCritical {
						kept = append(kept, t)
					}
				}
				tasks = kept
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTaskList(tasks))
			return nil
		},
	}

	fs := cmd.Flags()
	addProjectFlag(fs, &projectFlag)
	fs.StringVar(&status, "status", "", "filter by status")
	fs.StringVar(&priority, "priority", "", "filter by priority")
	fs.StringVar(&assignee, "assignee", "", "filter by assignee ID")
	fs.StringVar(&parent, "parent", "", "only children of this task")
	fs.BoolVar(&roots, "roots", false, "only top-level tasks")
	fs.BoolVar(&critical, "critical", false, "only tasks on the critical path")

	return cmd
}

func newTaskShowCmd(app *App) *cobra.Command {
	var projectFlag string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := lookupTask(cmd, app, projectFlag, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTask(t))
			return nil
		},
	}
	addProjectFlag(cmd.Flags(), &projectFlag)
	return cmd
}

func newTaskUpdateCmd(app *App) *cobra.Command {
	var (
		projectFlag string
		f           taskFields
		percent     float64
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change task fields; only flags that are passed are applied",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := taskIDArg(cmd, app, projectFlag, args[0])
			if err != nil {
				return err
			}
			patch, err := f.patch(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("percent") {
				patch.PercentComplete = &percent
			}
			if patch.IsEmpty() {
				return fmt.Errorf("%w: nothing to update", domain.ErrValidation)
			}

			t, err := app.Tasks.UpdateTask(ctx, id, patch)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTask(t))
			return nil
		},
	}

	addProjectFlag(cmd.Flags(), &projectFlag)
	f.register(cmd)
	cmd.Flags().StringVar(&f.status, "status", "", "new status")
	cmd.Flags().Int64Var(&f.cost, "cost", 0, "actual cost to date")
	cmd.Flags().Float64Var(&percent, "percent", 0, "percent complete (0-100)")

	return cmd
}

// patch converts the flags that were set into a TaskPatch.
func (f *taskFields) patch(cmd *cobra.Command) (domain.TaskPatch, error) {
	var p domain.TaskPatch
	fs := cmd.Flags()

	if fs.Changed("title") {
		p.Title = &f.title
	}
	if fs.Changed("description") {
		p.Description = &f.description
	}
	if fs.Changed("phase") {
		p.Phase = &f.phase
	}
	if fs.Changed("status") {
		st, err := domain.ParseTaskStatus(f.status)
		if err != nil {
			return p, err
		}
		p.Status = &st
	}
	if fs.Changed("priority") {
		pr, err := domain.ParsePriority(f.priority)
		if err != nil {
			return p, err
		}
		p.Priority = &pr
	}
	if fs.Changed("duration") {
		p.DurationDays = &f.duration
	}
	if fs.Changed("lag") {
		p.LagDays = &f.lag
	}
	if fs.Changed("after") {
		after := append([]string{}, f.after...)
		p.PredecessorTaskIDs = &after
	}
	if fs.Changed("parent") {
		p.ParentID = &f.parent
	}
	if fs.Changed("budget") {
		p.BudgetAmount = &f.budget
	}
	if fs.Changed("cost") {
		p.ActualCost = &f.cost
	}
	if fs.Changed("assignee") {
		p.AssigneeID = &f.assignee
	}
	if fs.Changed("role") {
		p.AssigneeRole = &f.role
	}
	if changed(fs, "start") {
		start, err := parseOptionalDate(f.start)
		if err != nil {
			return p, err
		}
		p.PlannedStart = start
	}
	if changed(fs, "end") {
		end, err := parseOptionalDate(f.end)
		if err != nil {
			return p, err
		}
		p.PlannedEnd = end
	}
	return p, nil
}

func newTaskProgressCmd(app *App) *cobra.Command {
	var projectFlag string

	cmd := &cobra.Command{
		Use:   "progress <id> <percent>",
		Short: "Set percent complete and roll it up to parents and the project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := taskIDArg(cmd, app, projectFlag, args[0])
			if err != nil {
				return err
			}
			pct, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("%w: percent %q is not a number", domain.ErrValidation, args[1])
			}
			res, err := app.Tasks.UpdateTaskProgress(cmd.Context(), id, pct)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProgressResult(res))
			return nil
		},
	}
	addProjectFlag(cmd.Flags(), &projectFlag)
	return cmd
}

func newTaskDeleteCmd(app *App) *cobra.Command {
	var (
		projectFlag string
		yes         bool
	)

	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Soft-delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := lookupTask(cmd, app, projectFlag, args[0])
			if err != nil {
				return err
			}
			if !yes && app.interactive() {
				confirmed := false
				if err := confirmForm(fmt.Sprintf("Delete %q?", t.Title), &confirmed).Run(); err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Cancelled."))
					return nil
				}
			}
			if err := app.Tasks.DeleteTask(cmd.Context(), t.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Deleted task %s\n",
				formatter.StyleGreen.Render("✔"), formatter.Bold(t.Title))
			return nil
		},
	}

	addProjectFlag(cmd.Flags(), &projectFlag)
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newTaskTreeCmd(app *App) *cobra.Command {
	var projectFlag string

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Show the task hierarchy",
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := requireProject(cmd, app, projectFlag)
			if err != nil {
				return err
			}
			roots, err := app.Tasks.GetTaskHierarchy(cmd.Context(), projectID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTaskTree(roots))
			return nil
		},
	}
	addProjectFlag(cmd.Flags(), &projectFlag)
	return cmd
}

func taskIDArg(cmd *cobra.Command, app *App, projectFlag, input string) (string, error) {
	projectID := ""
	if projectFlag != "" {
		var err error
		if projectID, err = resolveProjectID(cmd.Context(), app, projectFlag); err != nil {
			return "", err
		}
	}
	return resolveTaskID(cmd.Context(), app, projectID, input)
}

func lookupTask(cmd *cobra.Command, app *App, projectFlag, input string) (*domain.Task, error) {
	id, err := taskIDArg(cmd, app, projectFlag, input)
	if err != nil {
		return nil, err
	}
	return app.Tasks.GetTask(cmd.Context(), id)
}
