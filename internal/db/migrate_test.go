package db

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	for _, table := range []string{"projects", "tasks", "task_predecessors", "milestones", "milestone_tasks", "project_fundings"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	for _, idx := range []string{
		"idx_tasks_project",
		"idx_tasks_parent",
		"idx_tasks_status",
		"idx_task_predecessors_pred",
		"idx_milestones_project",
	} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestMigrate_ForeignKeysEnforced(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO tasks (id, project_id, title, created_at, updated_at)
		VALUES ('t1', 'missing-project', 'Orphan', '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`)
	assert.Error(t, err, "task insert without project should violate the foreign key")
}

func TestMigrate_PercentCheck(t *testing.T) {
	db := openTestDB(t)
	seedProject(t, db, "p1")

	_, err := db.Exec(`INSERT INTO tasks (id, project_id, title, percent_complete, created_at, updated_at)
		VALUES ('t1', 'p1', 'Too much', 120, '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`)
	assert.Error(t, err)
}

func TestMigrate_UpgradesLegacyTasksTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.db")
	legacy, err := sql.Open("sqlite", path)
	require.NoError(t, err)

	// First-release tasks table: no assignee_role or actual_cost.
	_, err = legacy.Exec(`CREATE TABLE tasks (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL,
		parent_id TEXT,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		phase TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'not_started',
		priority TEXT NOT NULL DEFAULT 'medium',
		planned_start TEXT,
		planned_end TEXT,
		duration_days INTEGER NOT NULL DEFAULT 0,
		lag_days INTEGER NOT NULL DEFAULT 0,
		is_critical INTEGER NOT NULL DEFAULT 0,
		percent_complete REAL NOT NULL DEFAULT 0,
		budget_amount INTEGER NOT NULL DEFAULT 0,
		assignee_id TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		deleted_at TEXT
	)`)
	require.NoError(t, err)
	_, err = legacy.Exec(`INSERT INTO tasks (id, project_id, title, created_at, updated_at)
		VALUES ('t1', 'p1', 'Survey', '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`)
	require.NoError(t, err)
	require.NoError(t, legacy.Close())

	upgraded, err := OpenDB(path)
	require.NoError(t, err)
	defer upgraded.Close()

	var role string
	var cost int64
	err = upgraded.QueryRow(`SELECT assignee_role, actual_cost FROM tasks WHERE id = 't1'`).Scan(&role, &cost)
	require.NoError(t, err)
	assert.Equal(t, "", role)
	assert.Equal(t, int64(0), cost)
}

func seedProject(t *testing.T, db *sql.DB, id string) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO projects (id, name, planned_start_date, planned_end_date, created_at, updated_at)
		VALUES (?, 'Test', '2026-01-01', '2026-06-01', '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`, id)
	require.NoError(t, err)
}
