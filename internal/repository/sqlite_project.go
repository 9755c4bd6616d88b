package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/groundwork/internal/db"
	"github.com/alexanderramin/groundwork/internal/domain"
)

// SQLiteProjectRepo implements ProjectRepo using a SQLite database.
type SQLiteProjectRepo struct {
	db db.DBTX
}

func NewSQLiteProjectRepo(conn db.DBTX) *SQLiteProjectRepo {
	return &SQLiteProjectRepo{db: conn}
}

const projectColumns = `id, name, project_type, planned_start_date, planned_end_date,
	total_budget, percent_complete, created_at, updated_at`

func (r *SQLiteProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	query := `INSERT INTO projects (` + projectColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.Name,
		string(p.ProjectType),
		p.PlannedStartDate.Format(dateLayout),
		p.PlannedEndDate.Format(dateLayout),
		p.TotalBudget,
		p.PercentComplete,
		p.CreatedAt.Format(timestampLayout),
		p.UpdatedAt.Format(timestampLayout),
	)
	if err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}
	return nil
}

func (r *SQLiteProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	p, err := scanProject(row)
	if err != nil {
		return nil, scanErr(err, "project", id)
	}
	return p, nil
}

func (r *SQLiteProjectRepo) List(ctx context.Context) ([]*domain.Project, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY created_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var projects []*domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning project row: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating projects: %w", err)
	}
	return projects, nil
}

func (r *SQLiteProjectRepo) Update(ctx context.Context, p *domain.Project) error {
	query := `UPDATE projects SET name = ?, project_type = ?, planned_start_date = ?, planned_end_date = ?,
		total_budget = ?, percent_complete = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		p.Name,
		string(p.ProjectType),
		p.PlannedStartDate.Format(dateLayout),
		p.PlannedEndDate.Format(dateLayout),
		p.TotalBudget,
		p.PercentComplete,
		p.UpdatedAt.Format(timestampLayout),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating project: %w", err)
	}
	return requireAffected(res, "project", p.ID)
}

// SetPercentComplete writes the rolled-up progress of a project.
func (r *SQLiteProjectRepo) SetPercentComplete(ctx context.Context, id string, pct float64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE projects SET percent_complete = ?, updated_at = ? WHERE id = ?`,
		pct, nowUTC(), id)
	if err != nil {
		return fmt.Errorf("setting project percent complete: %w", err)
	}
	return requireAffected(res, "project", id)
}

func scanProject(row rowScanner) (*domain.Project, error) {
	var p domain.Project
	var projectType, startStr, endStr, createdStr, updatedStr string

	if err := row.Scan(
		&p.ID, &p.Name, &projectType,
		&startStr, &endStr,
		&p.TotalBudget, &p.PercentComplete,
		&createdStr, &updatedStr,
	); err != nil {
		return nil, err
	}
	p.ProjectType = domain.ProjectType(projectType)

	var err error
	if p.PlannedStartDate, err = time.Parse(dateLayout, startStr); err != nil {
		return nil, fmt.Errorf("parsing planned_start_date: %w", err)
	}
	if p.PlannedEndDate, err = time.Parse(dateLayout, endStr); err != nil {
		return nil, fmt.Errorf("parsing planned_end_date: %w", err)
	}
	if p.CreatedAt, err = time.Parse(timestampLayout, createdStr); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if p.UpdatedAt, err = time.Parse(timestampLayout, updatedStr); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &p, nil
}
