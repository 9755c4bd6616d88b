package testutil

import (
	"time"

	"github.com/alexanderramin/groundwork/internal/domain"
	"github.com/google/uuid"
)

// BaseDate is the planned start of fixture projects.
var BaseDate = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

type ProjectOption func(*domain.Project)

func WithProjectType(pt domain.ProjectType) ProjectOption {
	return func(p *domain.Project) {
		p.ProjectType = pt
	}
}

func WithTotalBudget(b int64) ProjectOption {
	return func(p *domain.Project) {
		p.TotalBudget = b
	}
}

func WithPlannedDates(start, end time.Time) ProjectOption {
	return func(p *domain.Project) {
		p.PlannedStartDate = start
		p.PlannedEndDate = end
	}
}

// NewTestProject returns a 180-day project starting at BaseDate.
func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC().Truncate(time.Second)
	p := &domain.Project{
		ID:               uuid.New().String(),
		Name:             name,
		PlannedStartDate: BaseDate,
		PlannedEndDate:   BaseDate.AddDate(0, 0, 180),
		TotalBudget:      1_000_000,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type TaskOption func(*domain.Task)

func WithDuration(days int) TaskOption {
	return func(t *domain.Task) {
		t.DurationDays = days
	}
}

func WithLag(days int) TaskOption {
	return func(t *domain.Task) {
		t.LagDays = days
	}
}

func WithPredecessors(ids ...string) TaskOption {
	return func(t *domain.Task) {
		t.PredecessorTaskIDs = append([]string(nil), ids...)
	}
}

func WithParent(id string) TaskOption {
	return func(t *domain.Task) {
		t.ParentID = &id
	}
}

func WithPercent(pct float64) TaskOption {
	return func(t *domain.Task) {
		t.PercentComplete = pct
	}
}

func WithStatus(s domain.TaskStatus) TaskOption {
	return func(t *domain.Task) {
		t.Status = s
	}
}

func WithPriority(p domain.Priority) TaskOption {
	return func(t *domain.Task) {
		t.Priority = p
	}
}

func WithBudgetAmount(amount int64) TaskOption {
	return func(t *domain.Task) {
		t.BudgetAmount = amount
	}
}

func WithAssignee(id string) TaskOption {
	return func(t *domain.Task) {
		t.AssigneeID = &id
	}
}

func WithTaskID(id string) TaskOption {
	return func(t *domain.Task) {
		t.ID = id
	}
}

// NewTestTask returns a not-started, medium-priority, one-day task.
func NewTestTask(projectID, title string, opts ...TaskOption) *domain.Task {
	now := time.Now().UTC().Truncate(time.Second)
	t := &domain.Task{
		ID:           uuid.New().String(),
		ProjectID:    projectID,
		Title:        title,
		Status:       domain.TaskNotStarted,
		Priority:     domain.PriorityMedium,
		DurationDays: 1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}
