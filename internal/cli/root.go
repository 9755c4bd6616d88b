package cli

import (
	"net/http"

	"github.com/alexanderramin/groundwork/internal/service"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// App holds the services and wiring the commands run against.
type App struct {
	Projects  service.ProjectService
	Tasks     service.TaskService
	Init      service.InitService
	Templates service.TemplateService

	// HTTP serves the REST API for the serve command.
	HTTP     http.Handler
	HTTPAddr string
	Log      logrus.FieldLogger

	// IsInteractive reports whether stdin is a terminal. Forms and the
	// schedule viewer only run when it returns true.
	IsInteractive func() bool
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) logger() logrus.FieldLogger {
	if a.Log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		return l
	}
	return a.Log
}

// NewRootCmd creates the top-level "groundwork" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "groundwork",
		Short:         "Construction task scheduling: templates, critical path and progress rollup",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newProjectCmd(app),
		newTaskCmd(app),
		newScheduleCmd(app),
		newMilestoneCmd(app),
		newTemplateCmd(app),
		newServeCmd(app),
	)

	return root
}
