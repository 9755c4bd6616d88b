package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/alexanderramin/groundwork/internal/db"
	"github.com/alexanderramin/groundwork/internal/domain"
	"github.com/alexanderramin/groundwork/internal/event"
	"github.com/alexanderramin/groundwork/internal/repository"
	"github.com/alexanderramin/groundwork/internal/template"
	"github.com/alexanderramin/groundwork/internal/testutil"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	db         *sql.DB
	projects   repository.ProjectRepo
	tasks      repository.TaskRepo
	milestones repository.MilestoneRepo
	funding    repository.FundingRepo
	uow        db.UnitOfWork
	events     *event.Recorder
}

func setupRepos(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	return &testEnv{
		db:         database,
		projects:   repository.NewSQLiteProjectRepo(database),
		tasks:      repository.NewSQLiteTaskRepo(database),
		milestones: repository.NewSQLiteMilestoneRepo(database),
		funding:    repository.NewSQLiteFundingRepo(database),
		uow:        testutil.NewTestUoW(database),
		events:     &event.Recorder{},
	}
}

func (e *testEnv) taskService() TaskService {
	return NewTaskService(e.projects, e.tasks, e.uow, e.events, nil)
}

func (e *testEnv) initService(t *testing.T) InitService {
	t.Helper()
	catalog, err := template.DefaultCatalog()
	require.NoError(t, err)
	return NewInitService(e.projects, e.milestones, catalog, e.uow, e.events)
}

func (e *testEnv) seedProject(t *testing.T, opts ...testutil.ProjectOption) *domain.Project {
	t.Helper()
	p := testutil.NewTestProject("Harbor Lofts", opts...)
	require.NoError(t, e.projects.Create(context.Background(), p))
	return p
}

// createTask creates a task through the service so critical flags and
// rollup stay consistent.
func (e *testEnv) createTask(t *testing.T, svc TaskService, projectID, title string, opts ...testutil.TaskOption) *domain.Task {
	t.Helper()
	task := testutil.NewTestTask(projectID, title, opts...)
	require.NoError(t, svc.CreateTask(context.Background(), task))
	return task
}
