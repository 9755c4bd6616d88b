package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/groundwork/internal/domain"
	"github.com/alexanderramin/groundwork/internal/repository"
	"github.com/alexanderramin/groundwork/internal/service"
	"github.com/alexanderramin/groundwork/internal/template"
	"github.com/alexanderramin/groundwork/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testApp wires a full App backed by an in-memory DB.
func testApp(t *testing.T) *App {
	t.Helper()
	database := testutil.NewTestDB(t)
	projects := repository.NewSQLiteProjectRepo(database)
	tasks := repository.NewSQLiteTaskRepo(database)
	milestones := repository.NewSQLiteMilestoneRepo(database)
	uow := testutil.NewTestUoW(database)
	catalog, err := template.DefaultCatalog()
	require.NoError(t, err)

	return &App{
		Projects:      service.NewProjectService(projects),
		Tasks:         service.NewTaskService(projects, tasks, uow, nil, nil),
		Init:          service.NewInitService(projects, milestones, catalog, uow, nil),
		Templates:     service.NewTemplateService(catalog),
		IsInteractive: func() bool { return false },
	}
}

func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return buf.String(), err
}

func seedProject(t *testing.T, app *App) *domain.Project {
	t.Helper()
	p := testutil.NewTestProject("Cedar Row Townhomes")
	require.NoError(t, app.Projects.Create(context.Background(), p))
	return p
}

func TestProjectAddListShow(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "project", "add",
		"--name", "Mill Street Lofts", "--start", "2026-04-01", "--end", "2026-12-01", "--budget", "2500000")
	require.NoError(t, err)
	assert.Contains(t, out, "Created project")
	assert.Contains(t, out, "Mill Street Lofts")

	projects, err := app.Projects.List(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, int64(2500000), projects[0].TotalBudget)

	out, err = executeCmd(t, app, "project", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Mill Street Lofts")
	assert.Contains(t, out, "$2,500,000")

	out, err = executeCmd(t, app, "project", "show", projects[0].ID[:8])
	require.NoError(t, err)
	assert.Contains(t, out, "Mill Street Lofts")
	assert.Contains(t, out, "2026-12-01")
}

func TestProjectAdd_Rejections(t *testing.T) {
	app := testApp(t)

	tests := []struct {
		name string
		args []string
	}{
		{"bad start", []string{"--name", "X", "--start", "April", "--end", "2026-12-01"}},
		{"end before start", []string{"--name", "X", "--start", "2026-12-01", "--end", "2026-04-01"}},
		{"missing name", []string{"--start", "2026-04-01", "--end", "2026-12-01"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executeCmd(t, app, append([]string{"project", "add"}, tt.args...)...)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestProjectUpdate(t *testing.T) {
	app := testApp(t)
	p := seedProject(t, app)

	_, err := executeCmd(t, app, "project", "update", p.ID, "--name", "Cedar Row Phase II", "--budget", "750000")
	require.NoError(t, err)

	got, err := app.Projects.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cedar Row Phase II", got.Name)
	assert.Equal(t, int64(750000), got.TotalBudget)
	assert.Equal(t, p.PlannedEndDate, got.PlannedEndDate)
}

func TestProjectFund_GeneratesTemplateTasks(t *testing.T) {
	app := testApp(t)
	p := seedProject(t, app)

	out, err := executeCmd(t, app, "project", "fund", p.ID, "--type", "RENOVATION", "--amount", "400000")
	require.NoError(t, err)
	assert.Contains(t, out, "Initialized")
	assert.Contains(t, out, "11 tasks")
	assert.Contains(t, out, "$400,000")

	out, err = executeCmd(t, app, "milestone", "list", "--project", p.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Demolition Complete")

	_, err = executeCmd(t, app, "project", "fund", p.ID, "--type", "RENOVATION")
	assert.ErrorIs(t, err, domain.ErrAlreadyInitialized)
}

func TestTaskLifecycle(t *testing.T) {
	app := testApp(t)
	p := seedProject(t, app)
	ctx := context.Background()

	_, err := executeCmd(t, app, "task", "add", "-p", p.ID, "--title", "Excavation", "--duration", "4", "--budget", "40000")
	require.NoError(t, err)
	tasks, err := app.Tasks.GetTasks(ctx, domain.TaskFilter{ProjectID: p.ID})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	exc := tasks[0]

	out, err := executeCmd(t, app, "task", "add", "-p", p.ID, "--title", "Footings",
		"--duration", "2", "--after", exc.ID, "--priority", "high")
	require.NoError(t, err)
	assert.Contains(t, out, "Footings")

	out, err = executeCmd(t, app, "task", "list", "-p", p.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Excavation")
	assert.Contains(t, out, "Footings")

	out, err = executeCmd(t, app, "task", "list", "-p", p.ID, "--priority", "high")
	require.NoError(t, err)
	assert.NotContains(t, out, "Excavation")
	assert.Contains(t, out, "Footings")

	out, err = executeCmd(t, app, "task", "progress", exc.ID[:8], "50", "-p", p.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "In Progress")
	assert.Contains(t, out, "project  25.0%")

	out, err = executeCmd(t, app, "task", "update", exc.ID, "--title", "Mass Excavation", "--duration", "6")
	require.NoError(t, err)
	assert.Contains(t, out, "Mass Excavation")
	assert.Contains(t, out, "6 days")

	out, err = executeCmd(t, app, "schedule", "cpm", "-p", p.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "8 days")
	assert.Contains(t, out, "2 critical of 2 tasks")

	out, err = executeCmd(t, app, "task", "delete", exc.ID, "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted task")

	_, err = app.Tasks.GetTask(ctx, exc.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTaskUpdate_Rejections(t *testing.T) {
	app := testApp(t)
	p := seedProject(t, app)
	task := testutil.NewTestTask(p.ID, "Framing")
	require.NoError(t, app.Tasks.CreateTask(context.Background(), task))

	_, err := executeCmd(t, app, "task", "update", task.ID)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = executeCmd(t, app, "task", "update", task.ID, "--status", "paused")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = executeCmd(t, app, "task", "update", task.ID, "--after", task.ID)
	assert.ErrorIs(t, err, domain.ErrDependencyCycle)

	_, err = executeCmd(t, app, "task", "progress", task.ID, "120")
	assert.ErrorIs(t, err, domain.ErrPercentOutOfRange)

	_, err = executeCmd(t, app, "task", "progress", task.ID, "half")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTaskTree(t *testing.T) {
	app := testApp(t)
	p := seedProject(t, app)
	ctx := context.Background()

	parent := testutil.NewTestTask(p.ID, "Site Work")
	require.NoError(t, app.Tasks.CreateTask(ctx, parent))
	require.NoError(t, app.Tasks.CreateTask(ctx, testutil.NewTestTask(p.ID, "Clearing", testutil.WithParent(parent.ID))))

	out, err := executeCmd(t, app, "task", "tree", "-p", p.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Site Work")
	assert.Contains(t, out, "└─ Clearing")
}

func TestTaskShow_UnknownID(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "task", "show", "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTaskList_RequiresProject(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "task", "list")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestScheduleView_NeedsTerminal(t *testing.T) {
	app := testApp(t)
	p := seedProject(t, app)
	_, err := executeCmd(t, app, "schedule", "view", "-p", p.ID)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTemplateCommands(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "template", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "NEW_CONSTRUCTION")
	assert.Contains(t, out, "COMMERCIAL_BUILDOUT")

	out, err = executeCmd(t, app, "template", "show", "renovation")
	require.NoError(t, err)
	assert.Contains(t, out, "Condition Assessment")
	assert.Contains(t, out, "Design Approved")

	_, err = executeCmd(t, app, "template", "show", "SKYSCRAPER")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTemplateValidate(t *testing.T) {
	app := testApp(t)
	dir := t.TempDir()

	good := filepath.Join(dir, "good.json")
	require.NoError(t, os.WriteFile(good, []byte(`{
		"project_type": "NEW_CONSTRUCTION",
		"name": "Shed",
		"tasks": [
			{"name": "Slab", "duration_days": 2, "budget_percentage": 40},
			{"name": "Walls", "duration_days": 3, "budget_percentage": 60, "dependencies": ["Slab"]}
		]
	}`), 0o644))
	out, err := executeCmd(t, app, "template", "validate", good)
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{
		"project_type": "NEW_CONSTRUCTION",
		"name": "Loop",
		"tasks": [
			{"name": "A", "duration_days": 1, "budget_percentage": 80, "dependencies": ["B"]},
			{"name": "B", "duration_days": 1, "budget_percentage": 80, "dependencies": ["A"]}
		]
	}`), 0o644))
	out, err = executeCmd(t, app, "template", "validate", bad)
	require.Error(t, err)
	assert.Contains(t, out, "over 100")
	assert.Contains(t, out, "✖")
}

func TestUniquePrefix(t *testing.T) {
	ids := []string{"abc123", "abd456", "xyz789"}

	got, err := uniquePrefix("task", "abc", ids)
	require.NoError(t, err)
	assert.Equal(t, "abc123", got)

	_, err = uniquePrefix("task", "ab", ids)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = uniquePrefix("task", "q", ids)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestServe_RequiresHandler(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
