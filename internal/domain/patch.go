package domain

import "time"

// TaskPatch is a partial update. Nil fields are left untouched. For
// ParentID and AssigneeID a pointer to "" clears the reference.
type TaskPatch struct {
	Title              *string
	Description        *string
	Phase              *string
	Status             *TaskStatus
	Priority           *Priority
	PlannedStart       *time.Time
	PlannedEnd         *time.Time
	DurationDays       *int
	LagDays            *int
	PredecessorTaskIDs *[]string
	IsCritical         *bool
	PercentComplete    *float64
	BudgetAmount       *int64
	ActualCost         *int64
	AssigneeID         *string
	AssigneeRole       *string
	ParentID           *string
}

// AffectsSchedule reports whether the patch changes anything the critical
// path depends on.
func (p TaskPatch) AffectsSchedule() bool {
	return p.DurationDays != nil || p.LagDays != nil || p.PredecessorTaskIDs != nil
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p == (TaskPatch{})
}

// ApplyTo copies every set field onto t. Status is copied verbatim; callers
// that need transition checks go through Task.TransitionTo first.
func (p TaskPatch) ApplyTo(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Phase != nil {
		t.Phase = *p.Phase
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.PlannedStart != nil {
		s := *p.PlannedStart
		t.PlannedStart = &s
	}
	if p.PlannedEnd != nil {
		e := *p.PlannedEnd
		t.PlannedEnd = &e
	}
	if p.DurationDays != nil {
		t.DurationDays = *p.DurationDays
	}
	if p.LagDays != nil {
		t.LagDays = *p.LagDays
	}
	if p.PredecessorTaskIDs != nil {
		t.PredecessorTaskIDs = append([]string(nil), (*p.PredecessorTaskIDs)...)
	}
	if p.IsCritical != nil {
		t.IsCritical = *p.IsCritical
	}
	if p.PercentComplete != nil {
		t.PercentComplete = *p.PercentComplete
	}
	if p.BudgetAmount != nil {
		t.BudgetAmount = *p.BudgetAmount
	}
	if p.ActualCost != nil {
		t.ActualCost = *p.ActualCost
	}
	if p.AssigneeID != nil {
		t.AssigneeID = optionalRef(*p.AssigneeID)
	}
	if p.AssigneeRole != nil {
		t.AssigneeRole = *p.AssigneeRole
	}
	if p.ParentID != nil {
		t.ParentID = optionalRef(*p.ParentID)
	}
}

func optionalRef(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

// TaskFilter selects tasks of one project. Empty fields match everything.
type TaskFilter struct {
	ProjectID      string
	IDs            []string
	Status         *TaskStatus
	Priority       *Priority
	AssigneeID     *string
	ParentID       *string
	RootsOnly      bool
	IncludeDeleted bool
}
