package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate applies the schema. Every statement is safe to re-run; column
// additions for databases created by older builds fail with "duplicate
// column name" on fresh ones and are skipped.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id                 TEXT PRIMARY KEY,
		name               TEXT NOT NULL,
		project_type       TEXT NOT NULL DEFAULT '',
		planned_start_date TEXT NOT NULL,
		planned_end_date   TEXT NOT NULL,
		total_budget       INTEGER NOT NULL DEFAULT 0,
		percent_complete   REAL NOT NULL DEFAULT 0,
		created_at         TEXT NOT NULL,
		updated_at         TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS tasks (
		id               TEXT PRIMARY KEY,
		project_id       TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		parent_id        TEXT REFERENCES tasks(id) ON DELETE SET NULL,
		title            TEXT NOT NULL,
		description      TEXT NOT NULL DEFAULT '',
		phase            TEXT NOT NULL DEFAULT '',
		status           TEXT NOT NULL DEFAULT 'not_started'
		                 CHECK(status IN ('not_started','in_progress','completed','delayed','cancelled')),
		priority         TEXT NOT NULL DEFAULT 'medium'
		                 CHECK(priority IN ('low','medium','high','critical')),
		planned_start    TEXT,
		planned_end      TEXT,
		duration_days    INTEGER NOT NULL DEFAULT 0 CHECK(duration_days >= 0),
		lag_days         INTEGER NOT NULL DEFAULT 0 CHECK(lag_days >= 0),
		is_critical      INTEGER NOT NULL DEFAULT 0,
		percent_complete REAL NOT NULL DEFAULT 0
		                 CHECK(percent_complete >= 0 AND percent_complete <= 100),
		budget_amount    INTEGER NOT NULL DEFAULT 0,
		actual_cost      INTEGER NOT NULL DEFAULT 0,
		assignee_id      TEXT,
		assignee_role    TEXT NOT NULL DEFAULT '',
		created_at       TEXT NOT NULL,
		updated_at       TEXT NOT NULL,
		deleted_at       TEXT
	)`,

	`CREATE TABLE IF NOT EXISTS task_predecessors (
		task_id        TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		predecessor_id TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		position       INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (task_id, predecessor_id),
		CHECK(task_id != predecessor_id)
	)`,

	`CREATE TABLE IF NOT EXISTS milestones (
		id          TEXT PRIMARY KEY,
		project_id  TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		name        TEXT NOT NULL,
		target_date TEXT NOT NULL,
		created_at  TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS milestone_tasks (
		milestone_id TEXT NOT NULL REFERENCES milestones(id) ON DELETE CASCADE,
		task_id      TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		position     INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (milestone_id, task_id)
	)`,

	`CREATE TABLE IF NOT EXISTS project_fundings (
		project_id     TEXT PRIMARY KEY REFERENCES projects(id) ON DELETE CASCADE,
		project_type   TEXT NOT NULL,
		funding_amount INTEGER NOT NULL DEFAULT 0,
		initialized_at TEXT NOT NULL
	)`,

	// Columns added after the first release.
	`ALTER TABLE tasks ADD COLUMN assignee_role TEXT NOT NULL DEFAULT ''`,
	`ALTER TABLE tasks ADD COLUMN actual_cost INTEGER NOT NULL DEFAULT 0`,

	`CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_parent ON tasks(parent_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(project_id, status)`,
	`CREATE INDEX IF NOT EXISTS idx_task_predecessors_pred ON task_predecessors(predecessor_id)`,
	`CREATE INDEX IF NOT EXISTS idx_milestones_project ON milestones(project_id)`,
}
