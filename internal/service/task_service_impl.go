package service

import (
	"context"
	"fmt"

	"github.com/alexanderramin/groundwork/internal/db"
	"github.com/alexanderramin/groundwork/internal/domain"
	"github.com/alexanderramin/groundwork/internal/event"
	"github.com/alexanderramin/groundwork/internal/repository"
	"github.com/alexanderramin/groundwork/internal/schedule"
	"github.com/google/uuid"
)

type taskService struct {
	projects repository.ProjectRepo
	tasks    repository.TaskRepo
	uow      db.UnitOfWork
	events   event.Publisher
	agg      schedule.Aggregator
	observer UseCaseObserver
}

// NewTaskService wires the task use cases. A nil publisher drops events and
// a nil aggregator rolls up with the plain mean.
func NewTaskService(
	projects repository.ProjectRepo,
	tasks repository.TaskRepo,
	uow db.UnitOfWork,
	events event.Publisher,
	agg schedule.Aggregator,
	observers ...UseCaseObserver,
) TaskService {
	if events == nil {
		events = event.Nop{}
	}
	if agg == nil {
		agg = schedule.MeanAggregator
	}
	return &taskService{
		projects: projects,
		tasks:    tasks,
		uow:      uow,
		events:   events,
		agg:      agg,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *taskService) CreateTask(ctx context.Context, t *domain.Task) (err error) {
	defer observe(ctx, s.observer, "create-task", nowUTC(), map[string]any{
		"project_id": t.ProjectID,
		"title":      t.Title,
	}, &err)

	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.Status == "" {
		t.Status = domain.TaskNotStarted
	}
	if t.Priority == "" {
		t.Priority = domain.PriorityMedium
	}
	if t.ParentID != nil && *t.ParentID == "" {
		t.ParentID = nil
	}
	now := nowUTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	t.DeletedAt = nil
	t.IsCritical = false
	if err = t.Validate(); err != nil {
		return err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txTasks := repository.NewSQLiteTaskRepo(tx)

		if _, err := txProjects.GetByID(ctx, t.ProjectID); err != nil {
			return err
		}
		live, err := txTasks.FindMany(ctx, domain.TaskFilter{ProjectID: t.ProjectID})
		if err != nil {
			return fmt.Errorf("loading tasks: %w", err)
		}
		if t.ParentID != nil {
			if err := checkParent(schedule.NewTaskID, *t.ParentID, live); err != nil {
				return err
			}
		}
		if err := schedule.ValidateDependencies(schedule.NewTaskID, t.PredecessorTaskIDs, schedule.SnapshotOf(live)); err != nil {
			return err
		}

		if err := txTasks.Create(ctx, t); err != nil {
			return fmt.Errorf("creating task: %w", err)
		}
		sched, err := recalcCritical(ctx, txTasks, t.ProjectID)
		if err != nil {
			return err
		}
		t.IsCritical = sched.Timings[t.ID].Critical()
		_, err = persistRollup(ctx, txTasks, txProjects, s.agg, t.ProjectID)
		return err
	})
	if err != nil {
		return err
	}

	s.events.Publish(ctx, event.NewTaskCreated(t.ID, t.ProjectID))
	return nil
}

// UpdateTask applies a partial update. Status changes follow the transition
// table, percent changes follow the progress rules, and changes to
// duration, lag or predecessors recompute the critical path.
func (s *taskService) UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) (updated *domain.Task, err error) {
	defer observe(ctx, s.observer, "update-task", nowUTC(), map[string]any{"task_id": id}, &err)

	// Critical flags are derived.
	patch.IsCritical = nil
	if patch.IsEmpty() {
		return s.tasks.GetByID(ctx, id)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txTasks := repository.NewSQLiteTaskRepo(tx)

		current, err := txTasks.GetByID(ctx, id)
		if err != nil {
			return err
		}

		now := nowUTC()
		next := *current
		if patch.Status != nil {
			if err := next.TransitionTo(*patch.Status, now); err != nil {
				return err
			}
			// Completing a task completes its work.
			if next.Status == domain.TaskCompleted && current.Status != domain.TaskCompleted && patch.PercentComplete == nil {
				full := 100.0
				patch.PercentComplete = &full
			}
		}
		rest := patch
		rest.Status = nil
		rest.PercentComplete = nil
		rest.ApplyTo(&next)
		if patch.PercentComplete != nil {
			if err := next.ApplyProgress(*patch.PercentComplete, now); err != nil {
				return err
			}
			status := next.Status
			patch.Status = &status
		}
		if err := next.Validate(); err != nil {
			return err
		}

		reparent := patch.ParentID != nil && *patch.ParentID != ""
		if reparent || patch.PredecessorTaskIDs != nil {
			live, err := txTasks.FindMany(ctx, domain.TaskFilter{ProjectID: current.ProjectID})
			if err != nil {
				return fmt.Errorf("loading tasks: %w", err)
			}
			if reparent {
				if err := checkParent(id, *patch.ParentID, live); err != nil {
					return err
				}
			}
			if patch.PredecessorTaskIDs != nil {
				if err := schedule.ValidateDependencies(id, *patch.PredecessorTaskIDs, schedule.SnapshotOf(live)); err != nil {
					return err
				}
			}
		}

		if err := txTasks.Update(ctx, id, patch); err != nil {
			return err
		}
		if patch.AffectsSchedule() {
			if _, err := recalcCritical(ctx, txTasks, current.ProjectID); err != nil {
				return err
			}
		}
		if patch.PercentComplete != nil || patch.ParentID != nil {
			if _, err := persistRollup(ctx, txTasks, txProjects, s.agg, current.ProjectID); err != nil {
				return err
			}
		}

		updated, err = txTasks.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.events.Publish(ctx, event.NewTaskUpdated(updated.ID, updated.ProjectID, patch.PercentComplete))
	return updated, nil
}

func (s *taskService) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	return s.tasks.GetByID(ctx, id)
}

func (s *taskService) GetTasks(ctx context.Context, filter domain.TaskFilter) ([]*domain.Task, error) {
	if filter.ProjectID != "" {
		if _, err := s.projects.GetByID(ctx, filter.ProjectID); err != nil {
			return nil, err
		}
	}
	return s.tasks.FindMany(ctx, filter)
}

// CalculateCriticalPath recomputes and persists the critical flags of a
// project.
func (s *taskService) CalculateCriticalPath(ctx context.Context, projectID string) (sched *schedule.Schedule, err error) {
	defer observe(ctx, s.observer, "calculate-critical-path", nowUTC(), map[string]any{"project_id": projectID}, &err)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := repository.NewSQLiteProjectRepo(tx).GetByID(ctx, projectID); err != nil {
			return err
		}
		var err error
		sched, err = recalcCritical(ctx, repository.NewSQLiteTaskRepo(tx), projectID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return sched, nil
}

// UpdateTaskProgress sets a task's percent complete and rolls progress up
// to its ancestors and the project in the same transaction.
func (s *taskService) UpdateTaskProgress(ctx context.Context, id string, pct float64) (result *ProgressResult, err error) {
	defer observe(ctx, s.observer, "update-task-progress", nowUTC(), map[string]any{
		"task_id": id,
		"percent": pct,
	}, &err)

	if err = domain.ValidatePercent(pct); err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txTasks := repository.NewSQLiteTaskRepo(tx)

		task, err := txTasks.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := task.ApplyProgress(pct, nowUTC()); err != nil {
			return err
		}
		status := task.Status
		if err := txTasks.Update(ctx, id, domain.TaskPatch{PercentComplete: &pct, Status: &status}); err != nil {
			return err
		}

		rolled, err := persistRollup(ctx, txTasks, txProjects, s.agg, task.ProjectID)
		if err != nil {
			return err
		}
		parents := make(map[string]float64, len(rolled.Parents))
		for _, pid := range rolled.Parents {
			parents[pid] = rolled.Values[pid]
		}

		task, err = txTasks.GetByID(ctx, id)
		if err != nil {
			return err
		}
		result = &ProgressResult{Task: task, ProjectPercent: rolled.Project, Parents: parents}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.events.Publish(ctx, event.NewTaskUpdated(id, result.Task.ProjectID, &pct))
	return result, nil
}

// GetTaskHierarchy returns the live tasks of a project as a forest. Tasks
// whose parent is missing or deleted are roots.
func (s *taskService) GetTaskHierarchy(ctx context.Context, projectID string) ([]*TaskNode, error) {
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	tasks, err := s.tasks.FindMany(ctx, domain.TaskFilter{ProjectID: projectID})
	if err != nil {
		return nil, err
	}
	return buildHierarchy(tasks), nil
}

// DeleteTask soft-deletes a task, then recomputes the critical path and
// progress without it.
func (s *taskService) DeleteTask(ctx context.Context, id string) (err error) {
	defer observe(ctx, s.observer, "delete-task", nowUTC(), map[string]any{"task_id": id}, &err)

	var projectID string
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txTasks := repository.NewSQLiteTaskRepo(tx)

		task, err := txTasks.GetByID(ctx, id)
		if err != nil {
			return err
		}
		projectID = task.ProjectID
		if err := txTasks.SoftDelete(ctx, id, nowUTC()); err != nil {
			return err
		}
		if _, err := recalcCritical(ctx, txTasks, projectID); err != nil {
			return err
		}
		_, err = persistRollup(ctx, txTasks, txProjects, s.agg, projectID)
		return err
	})
	if err != nil {
		return err
	}

	s.events.Publish(ctx, event.NewTaskDeleted(id, projectID))
	return nil
}

func buildHierarchy(tasks []*domain.Task) []*TaskNode {
	nodes := make(map[string]*TaskNode, len(tasks))
	for _, t := range tasks {
		nodes[t.ID] = &TaskNode{Task: t}
	}
	var roots []*TaskNode
	for _, t := range tasks {
		n := nodes[t.ID]
		if !t.IsRoot() && *t.ParentID != t.ID {
			if parent, ok := nodes[*t.ParentID]; ok {
				parent.Children = append(parent.Children, n)
				continue
			}
		}
		roots = append(roots, n)
	}
	return roots
}
