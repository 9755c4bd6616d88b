package service

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/groundwork/internal/domain"
	"github.com/alexanderramin/groundwork/internal/event"
	"github.com/alexanderramin/groundwork/internal/template"
	"github.com/alexanderramin/groundwork/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findTask(tasks []*domain.Task, title string) *domain.Task {
	for _, t := range tasks {
		if t.Title == title {
			return t
		}
	}
	return nil
}

func TestInitializeProject_NewConstruction(t *testing.T) {
	env := setupRepos(t)
	svc := env.initService(t)
	ctx := context.Background()
	proj := env.seedProject(t, testutil.WithTotalBudget(0))

	res, err := svc.InitializeProject(ctx, domain.FundedProjectEvent{
		DevelopmentProjectID: proj.ID,
		ProjectType:          domain.ProjectNewConstruction,
		FundingAmount:        1_000_000,
	})
	require.NoError(t, err)

	catalog, err := template.DefaultCatalog()
	require.NoError(t, err)
	list := catalog.ForType(domain.ProjectNewConstruction)

	assert.Equal(t, domain.ProjectNewConstruction, res.ProjectType)
	assert.Equal(t, int64(1_000_000), res.Budget)
	assert.Len(t, res.Tasks, len(list.Tasks))
	assert.Len(t, res.Milestones, len(list.Milestones))
	assert.NotEmpty(t, res.CriticalTaskIDs)
	assert.Empty(t, res.Unresolved)

	stored, err := env.tasks.FindMany(ctx, domain.TaskFilter{ProjectID: proj.ID})
	require.NoError(t, err)
	require.Len(t, stored, len(list.Tasks))

	pour := findTask(stored, "Foundation Pour")
	forms := findTask(stored, "Foundation Forms")
	require.NotNil(t, pour)
	require.NotNil(t, forms)
	assert.Equal(t, int64(60_000), pour.BudgetAmount)
	assert.Equal(t, []string{forms.ID}, pour.PredecessorTaskIDs)
	assert.Equal(t, "Foundation", pour.Phase)

	var budget int64
	for _, task := range stored {
		budget += task.BudgetAmount
		assert.Equal(t, domain.TaskNotStarted, task.Status)
		require.NotNil(t, task.PlannedStart, task.Title)
		require.NotNil(t, task.PlannedEnd, task.Title)
		assert.False(t, task.PlannedStart.Before(proj.PlannedStartDate), task.Title)
		assert.True(t, task.PlannedEnd.After(*task.PlannedStart), task.Title)
		for _, predID := range task.PredecessorTaskIDs {
			pred := findByID(stored, predID)
			require.NotNil(t, pred)
			assert.False(t, task.PlannedStart.Before(*pred.PlannedEnd), "%s starts before %s ends", task.Title, pred.Title)
		}
	}
	assert.LessOrEqual(t, budget, int64(1_000_000))

	updated, err := env.projects.GetByID(ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectNewConstruction, updated.ProjectType)

	link, err := env.funding.GetByProject(ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1_000_000), link.FundingAmount)

	milestones, err := svc.ListMilestones(ctx, proj.ID)
	require.NoError(t, err)
	require.Len(t, milestones, len(list.Milestones))
	for i := 1; i < len(milestones); i++ {
		assert.False(t, milestones[i].TargetDate.Before(milestones[i-1].TargetDate))
	}

	types := env.events.Types()
	require.Len(t, types, len(list.Tasks)+1)
	assert.Equal(t, event.ProjectInitialized, types[len(types)-1])
	initialized := env.events.OfType(event.ProjectInitialized)[0]
	assert.Equal(t, len(list.Tasks), initialized.Data.TaskCount)
	assert.Equal(t, len(list.Milestones), initialized.Data.MilestoneCount)
}

func findByID(tasks []*domain.Task, id string) *domain.Task {
	for _, t := range tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func TestInitializeProject_BudgetFallsBackToProjectBudget(t *testing.T) {
	env := setupRepos(t)
	svc := env.initService(t)
	proj := env.seedProject(t, testutil.WithTotalBudget(2_000_000))

	res, err := svc.InitializeProject(context.Background(), domain.FundedProjectEvent{
		DevelopmentProjectID: proj.ID,
		ProjectType:          domain.ProjectNewConstruction,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2_000_000), res.Budget)
	assert.Equal(t, int64(120_000), findTask(res.Tasks, "Foundation Pour").BudgetAmount)
}

func TestInitializeProject_UnknownTypeFallsBack(t *testing.T) {
	env := setupRepos(t)
	svc := env.initService(t)
	proj := env.seedProject(t)

	res, err := svc.InitializeProject(context.Background(), domain.FundedProjectEvent{
		DevelopmentProjectID: proj.ID,
		ProjectType:          "TREEHOUSE",
		FundingAmount:        500_000,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectNewConstruction, res.ProjectType)
	assert.NotNil(t, findTask(res.Tasks, "Foundation Pour"))
}

func TestInitializeProject_EveryProjectType(t *testing.T) {
	for _, pt := range domain.KnownProjectTypes {
		t.Run(string(pt), func(t *testing.T) {
			env := setupRepos(t)
			svc := env.initService(t)
			proj := env.seedProject(t)

			res, err := svc.InitializeProject(context.Background(), domain.FundedProjectEvent{
				DevelopmentProjectID: proj.ID,
				ProjectType:          pt,
				FundingAmount:        750_000,
			})
			require.NoError(t, err)
			assert.Equal(t, pt, res.ProjectType)
			assert.NotEmpty(t, res.Tasks)
			assert.NotEmpty(t, res.CriticalTaskIDs)
			assert.Greater(t, res.ProjectDuration, 0)
		})
	}
}

func TestInitializeProject_OnlyOnce(t *testing.T) {
	env := setupRepos(t)
	svc := env.initService(t)
	ctx := context.Background()
	proj := env.seedProject(t)
	ev := domain.FundedProjectEvent{DevelopmentProjectID: proj.ID, ProjectType: domain.ProjectRenovation, FundingAmount: 100_000}

	first, err := svc.InitializeProject(ctx, ev)
	require.NoError(t, err)

	_, err = svc.InitializeProject(ctx, ev)
	assert.ErrorIs(t, err, domain.ErrAlreadyInitialized)

	stored, err := env.tasks.FindMany(ctx, domain.TaskFilter{ProjectID: proj.ID})
	require.NoError(t, err)
	assert.Len(t, stored, len(first.Tasks), "second attempt adds nothing")
}

func TestInitializeProject_Rejections(t *testing.T) {
	env := setupRepos(t)
	svc := env.initService(t)
	ctx := context.Background()

	_, err := svc.InitializeProject(ctx, domain.FundedProjectEvent{DevelopmentProjectID: "missing", ProjectType: domain.ProjectRenovation})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.InitializeProject(ctx, domain.FundedProjectEvent{ProjectType: domain.ProjectRenovation})
	assert.ErrorIs(t, err, domain.ErrValidation)

	proj := env.seedProject(t)
	_, err = svc.InitializeProject(ctx, domain.FundedProjectEvent{DevelopmentProjectID: proj.ID, FundingAmount: -5})
	assert.ErrorIs(t, err, domain.ErrValidation)

	assert.Empty(t, env.events.Events())
}

func TestInitializeProject_RollbackWhenMilestoneCreateFails(t *testing.T) {
	env := setupRepos(t)
	ctx := context.Background()
	proj := env.seedProject(t)

	catalog, err := template.DefaultCatalog()
	require.NoError(t, err)
	failing := &testutil.FailOnQueryUoW{
		DB:    env.db,
		Match: "INSERT INTO milestones",
		Err:   errors.New("injected milestone failure"),
	}
	svc := NewInitService(env.projects, env.milestones, catalog, failing, env.events)

	_, err = svc.InitializeProject(ctx, domain.FundedProjectEvent{
		DevelopmentProjectID: proj.ID,
		ProjectType:          domain.ProjectNewConstruction,
		FundingAmount:        1_000_000,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "injected milestone failure")

	stored, err := env.tasks.FindMany(ctx, domain.TaskFilter{ProjectID: proj.ID, IncludeDeleted: true})
	require.NoError(t, err)
	assert.Empty(t, stored, "no tasks survive the rollback")

	milestones, err := env.milestones.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	assert.Empty(t, milestones)

	_, err = env.funding.GetByProject(ctx, proj.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "funding link rolled back")

	unchanged, err := env.projects.GetByID(ctx, proj.ID)
	require.NoError(t, err)
	assert.Empty(t, unchanged.ProjectType)

	assert.Empty(t, env.events.Events(), "nothing is published for a rolled back init")

	retry, err := env.initService(t).InitializeProject(ctx, domain.FundedProjectEvent{
		DevelopmentProjectID: proj.ID,
		ProjectType:          domain.ProjectNewConstruction,
		FundingAmount:        1_000_000,
	})
	require.NoError(t, err, "a failed init can be retried")
	assert.NotEmpty(t, retry.Milestones)
}

func TestInitializeProject_RollbackOnNthWrite(t *testing.T) {
	env := setupRepos(t)
	ctx := context.Background()
	proj := env.seedProject(t)

	catalog, err := template.DefaultCatalog()
	require.NoError(t, err)
	failing := &testutil.FailOnNthExecUoW{DB: env.db, FailOn: 5, Err: errors.New("disk full")}
	svc := NewInitService(env.projects, env.milestones, catalog, failing, env.events)

	_, err = svc.InitializeProject(ctx, domain.FundedProjectEvent{DevelopmentProjectID: proj.ID, ProjectType: domain.ProjectRenovation})
	require.Error(t, err)
	assert.Equal(t, int32(5), failing.Calls.Load())

	stored, err := env.tasks.FindMany(ctx, domain.TaskFilter{ProjectID: proj.ID})
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestListMilestones_UnknownProject(t *testing.T) {
	env := setupRepos(t)
	_, err := env.initService(t).ListMilestones(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
