package domain

import (
	"fmt"
	"time"
)

// taskTransitions maps each status to the set of statuses it may move to.
// Completed tasks can only be reopened; cancelled is terminal.
var taskTransitions = map[TaskStatus]map[TaskStatus]bool{
	TaskNotStarted: {TaskInProgress: true, TaskDelayed: true, TaskCancelled: true},
	TaskInProgress: {TaskCompleted: true, TaskDelayed: true, TaskCancelled: true},
	TaskDelayed:    {TaskInProgress: true, TaskCompleted: true, TaskCancelled: true},
	TaskCompleted:  {TaskInProgress: true},
	TaskCancelled:  {},
}

// CanTransitionTo reports whether moving from s to next is allowed.
// Staying in the same status is always allowed.
func (s TaskStatus) CanTransitionTo(next TaskStatus) bool {
	if s == next {
		_, known := taskTransitions[s]
		return known
	}
	return taskTransitions[s][next]
}

// IsTerminal reports whether no further transitions are possible.
func (s TaskStatus) IsTerminal() bool {
	return len(taskTransitions[s]) == 0
}

// TransitionTo moves the task to next, rejecting moves outside the table.
func (t *Task) TransitionTo(next TaskStatus, now time.Time) error {
	if _, ok := taskTransitions[next]; !ok {
		return fmt.Errorf("%w: unknown task status %q", ErrValidation, next)
	}
	if !t.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, t.Status, next)
	}
	if t.Status != next {
		t.Status = next
		t.UpdatedAt = now
	}
	return nil
}

// ApplyProgress sets the percent complete and moves the status along with it:
// any progress starts a not-started task, 100% completes it, and dropping
// below 100% reopens a completed task.
func (t *Task) ApplyProgress(pct float64, now time.Time) error {
	if err := ValidatePercent(pct); err != nil {
		return err
	}
	if t.Status == TaskCancelled {
		return fmt.Errorf("%w: task %s is cancelled", ErrInvalidTransition, t.ID)
	}

	switch {
	case pct >= 100:
		if t.Status == TaskNotStarted {
			t.Status = TaskInProgress
		}
		if err := t.TransitionTo(TaskCompleted, now); err != nil {
			return err
		}
	case pct > 0 && t.Status == TaskNotStarted:
		if err := t.TransitionTo(TaskInProgress, now); err != nil {
			return err
		}
	case pct < 100 && t.Status == TaskCompleted:
		if err := t.TransitionTo(TaskInProgress, now); err != nil {
			return err
		}
	}

	t.PercentComplete = pct
	t.UpdatedAt = now
	return nil
}
