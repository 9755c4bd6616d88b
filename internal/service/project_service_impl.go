package service

import (
	"context"
	"fmt"

	"github.com/alexanderramin/groundwork/internal/domain"
	"github.com/alexanderramin/groundwork/internal/repository"
	"github.com/google/uuid"
)

type projectService struct {
	projects repository.ProjectRepo
	observer UseCaseObserver
}

func NewProjectService(projects repository.ProjectRepo, observers ...UseCaseObserver) ProjectService {
	return &projectService{projects: projects, observer: useCaseObserverOrNoop(observers)}
}

func (s *projectService) Create(ctx context.Context, p *domain.Project) (err error) {
	defer observe(ctx, s.observer, "create-project", nowUTC(), map[string]any{"project": p.Name}, &err)

	if p.Name == "" {
		return fmt.Errorf("%w: project name is required", domain.ErrValidation)
	}
	if err = p.ValidateDates(); err != nil {
		return err
	}
	if p.TotalBudget < 0 {
		return fmt.Errorf("%w: total budget must not be negative", domain.ErrValidation)
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := nowUTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	p.PercentComplete = 0
	return s.projects.Create(ctx, p)
}

func (s *projectService) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	return s.projects.GetByID(ctx, id)
}

func (s *projectService) List(ctx context.Context) ([]*domain.Project, error) {
	return s.projects.List(ctx)
}

func (s *projectService) Update(ctx context.Context, p *domain.Project) (err error) {
	defer observe(ctx, s.observer, "update-project", nowUTC(), map[string]any{"project_id": p.ID}, &err)

	if err = p.ValidateDates(); err != nil {
		return err
	}
	var existing *domain.Project
	existing, err = s.projects.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	// Progress is owned by rollup.
	p.PercentComplete = existing.PercentComplete
	p.CreatedAt = existing.CreatedAt
	if p.ProjectType == "" {
		p.ProjectType = existing.ProjectType
	}
	p.UpdatedAt = nowUTC()
	return s.projects.Update(ctx, p)
}
