package domain

import (
	"fmt"
	"time"
)

// Task is a unit of schedulable work inside one project.
type Task struct {
	ID          string
	ProjectID   string
	ParentID    *string
	Title       string
	Description string
	Phase       string
	Status      TaskStatus
	Priority    Priority

	// Schedule
	PlannedStart       *time.Time
	PlannedEnd         *time.Time
	DurationDays       int
	LagDays            int // applied to every predecessor edge of this task
	PredecessorTaskIDs []string
	IsCritical         bool

	// Progress and cost
	PercentComplete float64
	BudgetAmount    int64
	ActualCost      int64

	AssigneeID   *string
	AssigneeRole string

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// IsDeleted reports whether the task has been soft-deleted.
func (t *Task) IsDeleted() bool {
	return t.DeletedAt != nil
}

// EffectiveDuration returns the duration used for scheduling. Unset
// durations count as one day.
func (t *Task) EffectiveDuration() int {
	if t.DurationDays <= 0 {
		return 1
	}
	return t.DurationDays
}

// IsRoot reports whether the task has no parent.
func (t *Task) IsRoot() bool {
	return t.ParentID == nil || *t.ParentID == ""
}

// Validate checks the field-level invariants of a task. Graph invariants
// (predecessors, parent) need the rest of the project and are checked by
// the service.
func (t *Task) Validate() error {
	if t.Title == "" {
		return fmt.Errorf("%w: task title is required", ErrValidation)
	}
	if err := ValidatePercent(t.PercentComplete); err != nil {
		return err
	}
	if t.DurationDays < 0 || t.LagDays < 0 {
		return ErrNegativeDuration
	}
	if t.PlannedStart != nil && t.PlannedEnd != nil && !t.PlannedEnd.After(*t.PlannedStart) {
		return fmt.Errorf("%w: task %q", ErrInvalidDateRange, t.Title)
	}
	if t.Priority != "" && !ValidPriorities[t.Priority] {
		return fmt.Errorf("%w: unknown priority %q", ErrValidation, t.Priority)
	}
	if _, ok := taskTransitions[t.Status]; !ok {
		return fmt.Errorf("%w: unknown task status %q", ErrValidation, t.Status)
	}
	return nil
}

// ValidatePercent checks that pct is within [0, 100].
func ValidatePercent(pct float64) error {
	if pct < 0 || pct > 100 {
		return fmt.Errorf("%w (got %g)", ErrPercentOutOfRange, pct)
	}
	return nil
}
