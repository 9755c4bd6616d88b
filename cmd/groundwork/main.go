package main

import (
	"fmt"
	"os"

	"github.com/alexanderramin/groundwork/internal/api"
	"github.com/alexanderramin/groundwork/internal/cli"
	"github.com/alexanderramin/groundwork/internal/config"
	"github.com/alexanderramin/groundwork/internal/db"
	"github.com/alexanderramin/groundwork/internal/event"
	"github.com/alexanderramin/groundwork/internal/logging"
	"github.com/alexanderramin/groundwork/internal/repository"
	"github.com/alexanderramin/groundwork/internal/schedule"
	"github.com/alexanderramin/groundwork/internal/service"
	"github.com/alexanderramin/groundwork/internal/template"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		return fmt.Errorf("configuring logging: %w", err)
	}

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	projectRepo := repository.NewSQLiteProjectRepo(database)
	taskRepo := repository.NewSQLiteTaskRepo(database)
	milestoneRepo := repository.NewSQLiteMilestoneRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	bus := event.NewBus()
	if cfg.WebhookEnabled() {
		sink := event.NewWebhookSink(cfg.WebhookURL, cfg.WebhookTimeout, logger)
		bus.Subscribe(sink.Handle)
		defer sink.Close()
	}

	agg, err := schedule.AggregatorByName(cfg.RollupWeighting)
	if err != nil {
		return err
	}

	catalog, err := template.DefaultCatalog()
	if err != nil {
		return fmt.Errorf("loading templates: %w", err)
	}

	observer := service.NewLogUseCaseObserver(logger)
	projects := service.NewProjectService(projectRepo, observer)
	tasks := service.NewTaskService(projectRepo, taskRepo, uow, bus, agg, observer)
	initSvc := service.NewInitService(projectRepo, milestoneRepo, catalog, uow, bus, observer)
	templates := service.NewTemplateService(catalog)

	interactive := func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
	}

	app := &cli.App{
		Projects:      projects,
		Tasks:         tasks,
		Init:          initSvc,
		Templates:     templates,
		HTTP:          api.NewRouter(api.NewHandler(projects, tasks, initSvc, templates, logger)),
		HTTPAddr:      cfg.HTTPAddr,
		Log:           logger,
		IsInteractive: interactive,
	}

	return cli.NewRootCmd(app).Execute()
}
