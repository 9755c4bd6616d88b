package cli

import (
	"fmt"

	"github.com/alexanderramin/groundwork/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newMilestoneCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "milestone",
		Short: "Project milestones",
	}

	var projectFlag string
	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the milestones generated for a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := requireProject(cmd, app, projectFlag)
			if err != nil {
				return err
			}
			ms, err := app.Init.ListMilestones(cmd.Context(), projectID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatMilestones(ms))
			return nil
		},
	}
	addProjectFlag(list.Flags(), &projectFlag)

	cmd.AddCommand(list)
	return cmd
}
