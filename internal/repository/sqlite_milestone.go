package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/groundwork/internal/db"
	"github.com/alexanderramin/groundwork/internal/domain"
)

// SQLiteMilestoneRepo implements MilestoneRepo using a SQLite database.
type SQLiteMilestoneRepo struct {
	db db.DBTX
}

func NewSQLiteMilestoneRepo(conn db.DBTX) *SQLiteMilestoneRepo {
	return &SQLiteMilestoneRepo{db: conn}
}

func (r *SQLiteMilestoneRepo) Create(ctx context.Context, m *domain.Milestone) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO milestones (id, project_id, name, target_date, created_at) VALUES (?, ?, ?, ?, ?)`,
		m.ID, m.ProjectID, m.Name,
		m.TargetDate.Format(dateLayout),
		m.CreatedAt.Format(timestampLayout),
	)
	if err != nil {
		return fmt.Errorf("inserting milestone %q: %w", m.Name, err)
	}
	for i, taskID := range m.RelatedTaskIDs {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO milestone_tasks (milestone_id, task_id, position) VALUES (?, ?, ?)`,
			m.ID, taskID, i); err != nil {
			return fmt.Errorf("linking milestone %q to task %s: %w", m.Name, taskID, err)
		}
	}
	return nil
}

// ListByProject returns milestones ordered by target date.
func (r *SQLiteMilestoneRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Milestone, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, project_id, name, target_date, created_at FROM milestones
		WHERE project_id = ? ORDER BY target_date, rowid`, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing milestones: %w", err)
	}
	defer rows.Close()

	var milestones []*domain.Milestone
	byID := make(map[string]*domain.Milestone)
	for rows.Next() {
		var m domain.Milestone
		var targetStr, createdStr string
		if err := rows.Scan(&m.ID, &m.ProjectID, &m.Name, &targetStr, &createdStr); err != nil {
			return nil, fmt.Errorf("scanning milestone row: %w", err)
		}
		if m.TargetDate, err = time.Parse(dateLayout, targetStr); err != nil {
			return nil, fmt.Errorf("parsing target_date: %w", err)
		}
		if m.CreatedAt, err = time.Parse(timestampLayout, createdStr); err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		milestones = append(milestones, &m)
		byID[m.ID] = &m
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating milestones: %w", err)
	}
	rows.Close()

	links, err := r.db.QueryContext(ctx,
		`SELECT mt.milestone_id, mt.task_id FROM milestone_tasks mt
		JOIN milestones m ON m.id = mt.milestone_id
		WHERE m.project_id = ? ORDER BY mt.milestone_id, mt.position`, projectID)
	if err != nil {
		return nil, fmt.Errorf("loading milestone tasks: %w", err)
	}
	defer links.Close()
	for links.Next() {
		var milestoneID, taskID string
		if err := links.Scan(&milestoneID, &taskID); err != nil {
			return nil, fmt.Errorf("scanning milestone task: %w", err)
		}
		if m, ok := byID[milestoneID]; ok {
			m.RelatedTaskIDs = append(m.RelatedTaskIDs, taskID)
		}
	}
	if err := links.Err(); err != nil {
		return nil, fmt.Errorf("iterating milestone tasks: %w", err)
	}
	return milestones, nil
}
