package domain

import "fmt"

type TaskStatus string

const (
	TaskNotStarted TaskStatus = "not_started"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskDelayed    TaskStatus = "delayed"
	TaskCancelled  TaskStatus = "cancelled"
)

// ParseTaskStatus converts a user-supplied string into a TaskStatus.
func ParseTaskStatus(s string) (TaskStatus, error) {
	st := TaskStatus(s)
	if _, ok := taskTransitions[st]; !ok {
		return "", fmt.Errorf("%w: unknown task status %q", ErrValidation, s)
	}
	return st, nil
}

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// ValidPriorities is the canonical set of accepted priority strings.
var ValidPriorities = map[Priority]bool{
	PriorityLow: true, PriorityMedium: true, PriorityHigh: true, PriorityCritical: true,
}

// ParsePriority converts a user-supplied string into a Priority.
func ParsePriority(s string) (Priority, error) {
	p := Priority(s)
	if !ValidPriorities[p] {
		return "", fmt.Errorf("%w: unknown priority %q", ErrValidation, s)
	}
	return p, nil
}

type ProjectType string

const (
	ProjectNewConstruction    ProjectType = "NEW_CONSTRUCTION"
	ProjectRenovation         ProjectType = "RENOVATION"
	ProjectCommercialBuildout ProjectType = "COMMERCIAL_BUILDOUT"
)

// KnownProjectTypes lists the project types that have a dedicated task template.
var KnownProjectTypes = []ProjectType{
	ProjectNewConstruction,
	ProjectRenovation,
	ProjectCommercialBuildout,
}
