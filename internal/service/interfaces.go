package service

import (
	"context"

	"github.com/alexanderramin/groundwork/internal/domain"
	"github.com/alexanderramin/groundwork/internal/schedule"
	"github.com/alexanderramin/groundwork/internal/template"
)

type ProjectService interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
}

type TaskService interface {
	CreateTask(ctx context.Context, t *domain.Task) error
	UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error)
	GetTask(ctx context.Context, id string) (*domain.Task, error)
	GetTasks(ctx context.Context, filter domain.TaskFilter) ([]*domain.Task, error)
	CalculateCriticalPath(ctx context.Context, projectID string) (*schedule.Schedule, error)
	UpdateTaskProgress(ctx context.Context, id string, pct float64) (*ProgressResult, error)
	GetTaskHierarchy(ctx context.Context, projectID string) ([]*TaskNode, error)
	DeleteTask(ctx context.Context, id string) error
}

type InitService interface {
	InitializeProject(ctx context.Context, ev domain.FundedProjectEvent) (*InitResult, error)
	ListMilestones(ctx context.Context, projectID string) ([]*domain.Milestone, error)
}

type TemplateService interface {
	List() []*template.TemplateList
	Get(pt domain.ProjectType) (*template.TemplateList, error)
}

// ProgressResult holds the outcome of a progress update after rollup.
type ProgressResult struct {
	Task           *domain.Task
	ProjectPercent float64
	// Parents has the new rolled-up percent of every parent task.
	Parents map[string]float64
}

// TaskNode is one task in the project hierarchy.
type TaskNode struct {
	Task     *domain.Task
	Children []*TaskNode
}

// InitResult holds the outcome of a project initialization.
type InitResult struct {
	Project         *domain.Project
	ProjectType     domain.ProjectType
	Budget          int64
	Tasks           []*domain.Task
	Milestones      []*domain.Milestone
	CriticalTaskIDs []string
	ProjectDuration int
	// Unresolved lists template dependencies that matched no task.
	Unresolved []string
}
