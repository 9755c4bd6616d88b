package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/alexanderramin/groundwork/internal/cli/formatter"
	"github.com/alexanderramin/groundwork/internal/domain"
	"github.com/spf13/cobra"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"p"},
		Short:   "Manage development projects",
	}

	cmd.AddCommand(
		newProjectAddCmd(app),
		newProjectListCmd(app),
		newProjectShowCmd(app),
		newProjectUpdateCmd(app),
		newProjectFundCmd(app),
	)

	return cmd
}

func newProjectAddCmd(app *App) *cobra.Command {
	var (
		name        string
		projectType string
		start       string
		end         string
		budget      int64
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" && app.interactive() {
				budgetStr := strconv.FormatInt(budget, 10)
				if err := projectForm(&name, &projectType, &start, &end, &budgetStr).Run(); err != nil {
					return err
				}
				if budgetStr != "" {
					v, err := strconv.ParseInt(budgetStr, 10, 64)
					if err != nil {
						return fmt.Errorf("%w: budget %q", domain.ErrValidation, budgetStr)
					}
					budget = v
				}
			}

			startDate, err := parseDate(start)
			if err != nil {
				return err
			}
			endDate, err := parseDate(end)
			if err != nil {
				return err
			}

			p := &domain.Project{
				Name:             name,
				ProjectType:      domain.ProjectType(projectType),
				PlannedStartDate: startDate,
				PlannedEndDate:   endDate,
				TotalBudget:      budget,
			}
			if err := app.Projects.Create(cmd.Context(), p); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Created project %s (%s)\n",
				formatter.StyleGreen.Render("✔"), formatter.Bold(p.Name), p.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "project name")
	cmd.Flags().StringVar(&projectType, "type", "", "project type (NEW_CONSTRUCTION, RENOVATION, COMMERCIAL_BUILDOUT)")
	cmd.Flags().StringVar(&start, "start", "", "planned start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "planned end date (YYYY-MM-DD)")
	cmd.Flags().Int64Var(&budget, "budget", 0, "total budget in whole currency units")

	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := app.Projects.List(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProjectList(projects))
			return nil
		},
	}
}

func newProjectShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a project and its task counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			p, err := app.Projects.GetByID(ctx, id)
			if err != nil {
				return err
			}
			tasks, err := app.Tasks.GetTasks(ctx, domain.TaskFilter{ProjectID: id})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProject(p, tasks, time.Now().UTC()))
			return nil
		},
	}
}

func newProjectUpdateCmd(app *App) *cobra.Command {
	var (
		name   string
		start  string
		end    string
		budget int64
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a project's name, dates or budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			p, err := app.Projects.GetByID(ctx, id)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("name") {
				p.Name = name
			}
			if flags.Changed("start") {
				if p.PlannedStartDate, err = parseDate(start); err != nil {
					return err
				}
			}
			if flags.Changed("end") {
				if p.PlannedEndDate, err = parseDate(end); err != nil {
					return err
				}
			}
			if flags.Changed("budget") {
				p.TotalBudget = budget
			}

			if err := app.Projects.Update(ctx, p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Updated project %s\n",
				formatter.StyleGreen.Render("✔"), formatter.Bold(p.Name))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&start, "start", "", "planned start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "planned end date (YYYY-MM-DD)")
	cmd.Flags().Int64Var(&budget, "budget", 0, "total budget in whole currency units")

	return cmd
}

func newProjectFundCmd(app *App) *cobra.Command {
	var (
		projectType string
		amount      int64
	)

	cmd := &cobra.Command{
		Use:   "fund <id>",
		Short: "Record funding and generate the template task set",
		Long: "Simulates a funded-project event: the template for the project type is\n" +
			"expanded into tasks, the critical path is computed and milestones are\n" +
			"generated. A project can be funded once.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("type") && app.interactive() {
				amountStr := ""
				if cmd.Flags().Changed("amount") {
					amountStr = strconv.FormatInt(amount, 10)
				}
				if err := fundForm(&projectType, &amountStr).Run(); err != nil {
					return err
				}
				amount = 0
				if amountStr != "" {
					if amount, err = strconv.ParseInt(amountStr, 10, 64); err != nil {
						return fmt.Errorf("%w: amount %q", domain.ErrValidation, amountStr)
					}
				}
			}

			res, err := app.Init.InitializeProject(ctx, domain.FundedProjectEvent{
				DevelopmentProjectID: id,
				ProjectType:          domain.ProjectType(projectType),
				FundingAmount:        amount,
			})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatInitResult(res))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectType, "type", "", "project type; unknown or empty types use NEW_CONSTRUCTION")
	cmd.Flags().Int64Var(&amount, "amount", 0, "funding amount; 0 uses the project budget")

	return cmd
}
