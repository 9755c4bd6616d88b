package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/groundwork/internal/domain"
	"github.com/alexanderramin/groundwork/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectRepo_CreateAndGetByID(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	proj := testutil.NewTestProject("Maple Street Duplex",
		testutil.WithProjectType(domain.ProjectRenovation),
		testutil.WithTotalBudget(450_000))
	require.NoError(t, repo.Create(ctx, proj))

	fetched, err := repo.GetByID(ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, proj.ID, fetched.ID)
	assert.Equal(t, "Maple Street Duplex", fetched.Name)
	assert.Equal(t, domain.ProjectRenovation, fetched.ProjectType)
	assert.Equal(t, int64(450_000), fetched.TotalBudget)
	assert.True(t, proj.PlannedStartDate.Equal(fetched.PlannedStartDate))
	assert.True(t, proj.PlannedEndDate.Equal(fetched.PlannedEndDate))
	assert.True(t, proj.CreatedAt.Equal(fetched.CreatedAt))
}

func TestProjectRepo_GetByID_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)

	_, err := repo.GetByID(context.Background(), "nonexistent")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestProjectRepo_ListInCreationOrder(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	for _, name := range []string{"A", "B", "C"} {
		require.NoError(t, repo.Create(ctx, testutil.NewTestProject(name)))
	}

	projects, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 3)
	assert.Equal(t, "A", projects[0].Name)
	assert.Equal(t, "C", projects[2].Name)
}

func TestProjectRepo_Update(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	proj := testutil.NewTestProject("Before")
	require.NoError(t, repo.Create(ctx, proj))

	proj.Name = "After"
	proj.ProjectType = domain.ProjectCommercialBuildout
	proj.TotalBudget = 2_000_000
	require.NoError(t, repo.Update(ctx, proj))

	fetched, err := repo.GetByID(ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, "After", fetched.Name)
	assert.Equal(t, domain.ProjectCommercialBuildout, fetched.ProjectType)
	assert.Equal(t, int64(2_000_000), fetched.TotalBudget)

	ghost := testutil.NewTestProject("Ghost")
	assert.True(t, errors.Is(repo.Update(ctx, ghost), domain.ErrNotFound))
}

func TestProjectRepo_SetPercentComplete(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	proj := testutil.NewTestProject("Rollup")
	require.NoError(t, repo.Create(ctx, proj))
	require.NoError(t, repo.SetPercentComplete(ctx, proj.ID, 42.5))

	fetched, err := repo.GetByID(ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, 42.5, fetched.PercentComplete)

	assert.True(t, errors.Is(repo.SetPercentComplete(ctx, "missing", 10), domain.ErrNotFound))
}
