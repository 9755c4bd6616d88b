package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/groundwork/internal/cli/formatter"
	"github.com/alexanderramin/groundwork/internal/domain"
	"github.com/alexanderramin/groundwork/internal/template"
	"github.com/spf13/cobra"
)

func newTemplateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Inspect and validate task templates",
	}

	cmd.AddCommand(
		newTemplateListCmd(app),
		newTemplateShowCmd(app),
		newTemplateValidateCmd(),
	)

	return cmd
}

func newTemplateListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the built-in templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTemplateList(app.Templates.List()))
			return nil
		},
	}
}

func newTemplateShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <project-type>",
		Short: "Show the tasks and milestones of one template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := app.Templates.Get(domain.ProjectType(strings.ToUpper(args[0])))
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTemplate(list))
			return nil
		},
	}
}

func newTemplateValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a template JSON file for structural errors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := template.LoadSchema(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			errs := template.ValidateSchema(list)
			if len(errs) == 0 {
				fmt.Fprintf(out, "%s %s is valid (%d tasks, budget %.1f%%)\n",
					formatter.StyleGreen.Render("✔"), args[0], len(list.Tasks), list.BudgetTotal())
				return nil
			}
			for _, e := range errs {
				fmt.Fprintf(out, "%s %s\n", formatter.StyleRed.Render("✖"), e)
			}
			return fmt.Errorf("%w: %s has %d problem(s)", domain.ErrValidation, args[0], len(errs))
		},
	}
}
