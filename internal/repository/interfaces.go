package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/groundwork/internal/domain"
)

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	SetPercentComplete(ctx context.Context, id string, pct float64) error
}

// TaskRepo persists tasks and their predecessor links. Soft-deleted tasks
// are invisible to GetByID and FindMany unless the filter asks for them.
type TaskRepo interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	Update(ctx context.Context, id string, patch domain.TaskPatch) error
	FindMany(ctx context.Context, filter domain.TaskFilter) ([]*domain.Task, error)
	BatchUpdate(ctx context.Context, ids []string, patch domain.TaskPatch) error
	ClearCritical(ctx context.Context, projectID string) error
	SoftDelete(ctx context.Context, id string, at time.Time) error
}

type MilestoneRepo interface {
	Create(ctx context.Context, m *domain.Milestone) error
	ListByProject(ctx context.Context, projectID string) ([]*domain.Milestone, error)
}

type FundingRepo interface {
	Create(ctx context.Context, link *domain.FundingLink) error
	GetByProject(ctx context.Context, projectID string) (*domain.FundingLink, error)
}
