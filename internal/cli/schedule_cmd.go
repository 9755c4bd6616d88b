package cli

import (
	"fmt"

	"github.com/alexanderramin/groundwork/internal/cli/formatter"
	"github.com/alexanderramin/groundwork/internal/domain"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newScheduleCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "schedule",
		Aliases: []string{"sched"},
		Short:   "Critical path scheduling",
	}
	cmd.AddCommand(newScheduleCPMCmd(app), newScheduleViewCmd(app))
	return cmd
}

func newScheduleCPMCmd(app *App) *cobra.Command {
	var projectFlag string

	cmd := &cobra.Command{
		Use:     "cpm",
		Aliases: []string{"show"},
		Short:   "Recalculate the critical path and print ES/EF/LS/LF and float",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := loadSchedule(cmd, app, projectFlag)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSchedule(data.tasks, data.schedule))
			return nil
		},
	}
	addProjectFlag(cmd.Flags(), &projectFlag)
	return cmd
}

func newScheduleViewCmd(app *App) *cobra.Command {
	var projectFlag string

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Browse the schedule in an interactive table",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return fmt.Errorf("%w: schedule view needs a terminal; use 'schedule cpm'", domain.ErrValidation)
			}
			data, err := loadSchedule(cmd, app, projectFlag)
			if err != nil {
				return err
			}
			model := newScheduleView(data.project.Name, data.tasks, data.schedule)
			_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
	addProjectFlag(cmd.Flags(), &projectFlag)
	return cmd
}
