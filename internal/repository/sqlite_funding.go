package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/groundwork/internal/db"
	"github.com/alexanderramin/groundwork/internal/domain"
)

// SQLiteFundingRepo stores the one funding link a project may have.
type SQLiteFundingRepo struct {
	db db.DBTX
}

func NewSQLiteFundingRepo(conn db.DBTX) *SQLiteFundingRepo {
	return &SQLiteFundingRepo{db: conn}
}

// Create records the link, returning domain.ErrAlreadyInitialized when the
// project already has one.
func (r *SQLiteFundingRepo) Create(ctx context.Context, link *domain.FundingLink) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO project_fundings (project_id, project_type, funding_amount, initialized_at) VALUES (?, ?, ?, ?)`,
		link.ProjectID, string(link.ProjectType), link.FundingAmount,
		link.InitializedAt.Format(timestampLayout),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("project %s: %w", link.ProjectID, domain.ErrAlreadyInitialized)
	}
	if err != nil {
		return fmt.Errorf("inserting funding link: %w", err)
	}
	return nil
}

func (r *SQLiteFundingRepo) GetByProject(ctx context.Context, projectID string) (*domain.FundingLink, error) {
	var link domain.FundingLink
	var projectType, initStr string
	err := r.db.QueryRowContext(ctx,
		`SELECT project_id, project_type, funding_amount, initialized_at FROM project_fundings WHERE project_id = ?`,
		projectID).Scan(&link.ProjectID, &projectType, &link.FundingAmount, &initStr)
	if err != nil {
		return nil, scanErr(err, "funding link", projectID)
	}
	link.ProjectType = domain.ProjectType(projectType)
	if link.InitializedAt, err = time.Parse(timestampLayout, initStr); err != nil {
		return nil, fmt.Errorf("parsing initialized_at: %w", err)
	}
	return &link, nil
}
