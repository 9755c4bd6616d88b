package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/groundwork/internal/db"
	"github.com/alexanderramin/groundwork/internal/domain"
)

// SQLiteTaskRepo implements TaskRepo using a SQLite database. Predecessor
// links live in task_predecessors and keep their insertion order.
type SQLiteTaskRepo struct {
	db db.DBTX
}

func NewSQLiteTaskRepo(conn db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: conn}
}

const taskColumns = `id, project_id, parent_id, title, description, phase, status, priority,
	planned_start, planned_end, duration_days, lag_days, is_critical, percent_complete,
	budget_amount, actual_cost, assignee_id, assignee_role, created_at, updated_at, deleted_at`

func (r *SQLiteTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	query := `INSERT INTO tasks (` + taskColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.ProjectID,
		nullableString(t.ParentID),
		t.Title,
		t.Description,
		t.Phase,
		string(t.Status),
		string(t.Priority),
		nullableTimeToString(t.PlannedStart, dateLayout),
		nullableTimeToString(t.PlannedEnd, dateLayout),
		t.DurationDays,
		t.LagDays,
		boolToInt(t.IsCritical),
		t.PercentComplete,
		t.BudgetAmount,
		t.ActualCost,
		nullableString(t.AssigneeID),
		t.AssigneeRole,
		t.CreatedAt.Format(timestampLayout),
		t.UpdatedAt.Format(timestampLayout),
		nullableTimeToString(t.DeletedAt, timestampLayout),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	if len(t.PredecessorTaskIDs) > 0 {
		if err := r.replacePredecessors(ctx, t.ID, t.PredecessorTaskIDs); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = ? AND deleted_at IS NULL`, id)
	t, err := scanTask(row)
	if err != nil {
		return nil, scanErr(err, "task", id)
	}
	preds, err := r.loadPredecessors(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	t.PredecessorTaskIDs = preds[id]
	return t, nil
}

// Update applies the set fields of patch to one live task.
func (r *SQLiteTaskRepo) Update(ctx context.Context, id string, patch domain.TaskPatch) error {
	sets, args := patchAssignments(patch)
	args = append(args, id)
	res, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET `+strings.Join(sets, ", ")+` WHERE id = ? AND deleted_at IS NULL`, args...)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	if err := requireAffected(res, "task", id); err != nil {
		return err
	}
	if patch.PredecessorTaskIDs != nil {
		return r.replacePredecessors(ctx, id, *patch.PredecessorTaskIDs)
	}
	return nil
}

// BatchUpdate applies the same patch to every listed task in one statement.
// Ids that do not exist are ignored.
func (r *SQLiteTaskRepo) BatchUpdate(ctx context.Context, ids []string, patch domain.TaskPatch) error {
	if len(ids) == 0 {
		return nil
	}
	sets, args := patchAssignments(patch)
	args = append(args, stringArgs(ids)...)
	query := `UPDATE tasks SET ` + strings.Join(sets, ", ") +
		` WHERE deleted_at IS NULL AND id IN (` + placeholders(len(ids)) + `)`
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("batch updating %d tasks: %w", len(ids), err)
	}
	if patch.PredecessorTaskIDs != nil {
		for _, id := range ids {
			if err := r.replacePredecessors(ctx, id, *patch.PredecessorTaskIDs); err != nil {
				return err
			}
		}
	}
	return nil
}

// ClearCritical resets the critical flag on every task of a project.
func (r *SQLiteTaskRepo) ClearCritical(ctx context.Context, projectID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET is_critical = 0 WHERE project_id = ? AND is_critical = 1`, projectID)
	if err != nil {
		return fmt.Errorf("clearing critical flags: %w", err)
	}
	return nil
}

// SoftDelete marks a task deleted and drops it from the predecessor lists
// of the remaining tasks.
func (r *SQLiteTaskRepo) SoftDelete(ctx context.Context, id string, at time.Time) error {
	stamp := at.UTC().Format(timestampLayout)
	res, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET deleted_at = ?, is_critical = 0, updated_at = ? WHERE id = ? AND deleted_at IS NULL`,
		stamp, stamp, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	if err := requireAffected(res, "task", id); err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM task_predecessors WHERE predecessor_id = ?`, id); err != nil {
		return fmt.Errorf("unlinking deleted task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) FindMany(ctx context.Context, f domain.TaskFilter) ([]*domain.Task, error) {
	var where []string
	var args []any

	if f.ProjectID != "" {
		where = append(where, "project_id = ?")
		args = append(args, f.ProjectID)
	}
	if len(f.IDs) > 0 {
		where = append(where, "id IN ("+placeholders(len(f.IDs))+")")
		args = append(args, stringArgs(f.IDs)...)
	}
	if f.Status != nil {
		where = append(where, "status = ?")
		args = append(args, string(*f.Status))
	}
	if f.Priority != nil {
		where = append(where, "priority = ?")
		args = append(args, string(*f.Priority))
	}
	if f.AssigneeID != nil {
		where = append(where, "assignee_id = ?")
		args = append(args, *f.AssigneeID)
	}
	if f.RootsOnly {
		where = append(where, "parent_id IS NULL")
	} else if f.ParentID != nil {
		where = append(where, "parent_id = ?")
		args = append(args, *f.ParentID)
	}
	if !f.IncludeDeleted {
		where = append(where, "deleted_at IS NULL")
	}

	query := `SELECT ` + taskColumns + ` FROM tasks`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at, rowid`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	var ids []string
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning task row: %w", err)
		}
		tasks = append(tasks, t)
		ids = append(ids, t.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	rows.Close()

	preds, err := r.loadPredecessors(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, t := range tasks {
		t.PredecessorTaskIDs = preds[t.ID]
	}
	return tasks, nil
}

func (r *SQLiteTaskRepo) replacePredecessors(ctx context.Context, taskID string, preds []string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM task_predecessors WHERE task_id = ?`, taskID); err != nil {
		return fmt.Errorf("clearing predecessors: %w", err)
	}
	seen := make(map[string]bool, len(preds))
	pos := 0
	for _, pred := range preds {
		if seen[pred] {
			continue
		}
		seen[pred] = true
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO task_predecessors (task_id, predecessor_id, position) VALUES (?, ?, ?)`,
			taskID, pred, pos); err != nil {
			return fmt.Errorf("linking predecessor %s: %w", pred, err)
		}
		pos++
	}
	return nil
}

// loadPredecessors returns the predecessor ids of each given task.
func (r *SQLiteTaskRepo) loadPredecessors(ctx context.Context, taskIDs []string) (map[string][]string, error) {
	out := make(map[string][]string, len(taskIDs))
	if len(taskIDs) == 0 {
		return out, nil
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT task_id, predecessor_id FROM task_predecessors
		WHERE task_id IN (`+placeholders(len(taskIDs))+`)
		ORDER BY task_id, position`, stringArgs(taskIDs)...)
	if err != nil {
		return nil, fmt.Errorf("loading predecessors: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var taskID, predID string
		if err := rows.Scan(&taskID, &predID); err != nil {
			return nil, fmt.Errorf("scanning predecessor: %w", err)
		}
		out[taskID] = append(out[taskID], predID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating predecessors: %w", err)
	}
	return out, nil
}

// patchAssignments turns the set fields of a patch into SET clauses.
// updated_at is always written.
func patchAssignments(p domain.TaskPatch) ([]string, []any) {
	var sets []string
	var args []any
	set := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}

	if p.Title != nil {
		set("title", *p.Title)
	}
	if p.Description != nil {
		set("description", *p.Description)
	}
	if p.Phase != nil {
		set("phase", *p.Phase)
	}
	if p.Status != nil {
		set("status", string(*p.Status))
	}
	if p.Priority != nil {
		set("priority", string(*p.Priority))
	}
	if p.PlannedStart != nil {
		set("planned_start", p.PlannedStart.UTC().Format(dateLayout))
	}
	if p.PlannedEnd != nil {
		set("planned_end", p.PlannedEnd.UTC().Format(dateLayout))
	}
	if p.DurationDays != nil {
		set("duration_days", *p.DurationDays)
	}
	if p.LagDays != nil {
		set("lag_days", *p.LagDays)
	}
	if p.IsCritical != nil {
		set("is_critical", boolToInt(*p.IsCritical))
	}
	if p.PercentComplete != nil {
		set("percent_complete", *p.PercentComplete)
	}
	if p.BudgetAmount != nil {
		set("budget_amount", *p.BudgetAmount)
	}
	if p.ActualCost != nil {
		set("actual_cost", *p.ActualCost)
	}
	if p.AssigneeID != nil {
		set("assignee_id", nullableString(p.AssigneeID))
	}
	if p.AssigneeRole != nil {
		set("assignee_role", *p.AssigneeRole)
	}
	if p.ParentID != nil {
		set("parent_id", nullableString(p.ParentID))
	}
	set("updated_at", nowUTC())
	return sets, args
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var t domain.Task
	var status, priority, createdStr, updatedStr string
	var parentID, assigneeID, plannedStart, plannedEnd, deletedAt sql.NullString
	var isCritical int

	if err := row.Scan(
		&t.ID, &t.ProjectID, &parentID, &t.Title, &t.Description, &t.Phase, &status, &priority,
		&plannedStart, &plannedEnd, &t.DurationDays, &t.LagDays, &isCritical, &t.PercentComplete,
		&t.BudgetAmount, &t.ActualCost, &assigneeID, &t.AssigneeRole, &createdStr, &updatedStr, &deletedAt,
	); err != nil {
		return nil, err
	}

	t.Status = domain.TaskStatus(status)
	t.Priority = domain.Priority(priority)
	t.IsCritical = intToBool(isCritical)
	t.ParentID = stringPtr(parentID)
	t.AssigneeID = stringPtr(assigneeID)
	t.PlannedStart = parseNullableTime(plannedStart, dateLayout)
	t.PlannedEnd = parseNullableTime(plannedEnd, dateLayout)
	t.DeletedAt = parseNullableTime(deletedAt, timestampLayout)

	var err error
	if t.CreatedAt, err = time.Parse(timestampLayout, createdStr); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if t.UpdatedAt, err = time.Parse(timestampLayout, updatedStr); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &t, nil
}
