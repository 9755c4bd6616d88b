package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/groundwork/internal/domain"
	"github.com/alexanderramin/groundwork/internal/repository"
	"github.com/alexanderramin/groundwork/internal/schedule"
)

func nowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// recalcCritical runs the critical path over the live tasks of a project
// and rewrites every is_critical flag.
func recalcCritical(ctx context.Context, tasks repository.TaskRepo, projectID string) (*schedule.Schedule, error) {
	live, err := tasks.FindMany(ctx, domain.TaskFilter{ProjectID: projectID})
	if err != nil {
		return nil, fmt.Errorf("loading tasks: %w", err)
	}
	sched, err := schedule.Calculate(live)
	if err != nil {
		return nil, err
	}
	if err := tasks.ClearCritical(ctx, projectID); err != nil {
		return nil, fmt.Errorf("clearing critical flags: %w", err)
	}
	if ids := sched.CriticalIDs(); len(ids) > 0 {
		critical := true
		if err := tasks.BatchUpdate(ctx, ids, domain.TaskPatch{IsCritical: &critical}); err != nil {
			return nil, fmt.Errorf("flagging critical tasks: %w", err)
		}
	}
	return sched, nil
}

// persistRollup recomputes progress for a project and writes every parent
// task and the project percent. A parent's status follows its rolled-up
// value by the same rules as a direct progress update. Parents sharing a
// value and status are written in one statement.
func persistRollup(ctx context.Context, tasks repository.TaskRepo, projects repository.ProjectRepo, agg schedule.Aggregator, projectID string) (schedule.Result, error) {
	live, err := tasks.FindMany(ctx, domain.TaskFilter{ProjectID: projectID})
	if err != nil {
		return schedule.Result{}, fmt.Errorf("loading tasks: %w", err)
	}
	res := schedule.Rollup(live, agg)

	byID := make(map[string]*domain.Task, len(live))
	for _, t := range live {
		byID[t.ID] = t
	}

	type parentWrite struct {
		pct    float64
		status domain.TaskStatus
	}
	var order []parentWrite
	groups := make(map[parentWrite][]string)
	for _, id := range res.Parents {
		w := parentWrite{pct: res.Values[id]}
		if t, ok := byID[id]; ok {
			w.status = rolledStatus(t, w.pct)
		}
		if _, seen := groups[w]; !seen {
			order = append(order, w)
		}
		groups[w] = append(groups[w], id)
	}
	for _, w := range order {
		patch := domain.TaskPatch{PercentComplete: &w.pct}
		if w.status != "" {
			patch.Status = &w.status
		}
		if err := tasks.BatchUpdate(ctx, groups[w], patch); err != nil {
			return schedule.Result{}, fmt.Errorf("writing parent progress: %w", err)
		}
	}

	if err := projects.SetPercentComplete(ctx, projectID, res.Project); err != nil {
		return schedule.Result{}, fmt.Errorf("writing project progress: %w", err)
	}
	return res, nil
}

// rolledStatus returns the status t would have after its progress moved to
// pct. Cancelled parents keep their status.
func rolledStatus(t *domain.Task, pct float64) domain.TaskStatus {
	next := *t
	if err := next.ApplyProgress(pct, nowUTC()); err != nil {
		return t.Status
	}
	return next.Status
}

// checkParent verifies that parentID names a live task of the same project
// and that making it the parent of taskID does not close a loop.
func checkParent(taskID, parentID string, live []*domain.Task) error {
	parents := make(map[string]string, len(live))
	found := false
	for _, t := range live {
		if t.ParentID != nil {
			parents[t.ID] = *t.ParentID
		} else {
			parents[t.ID] = ""
		}
		if t.ID == parentID {
			found = true
		}
	}
	if !found {
		return fmt.Errorf("%w: %s", domain.ErrParentNotFound, parentID)
	}
	if taskID == "" {
		return nil
	}

	seen := make(map[string]bool)
	for cur := parentID; cur != ""; cur = parents[cur] {
		if cur == taskID {
			return fmt.Errorf("%w: %s", domain.ErrParentCycle, taskID)
		}
		if seen[cur] {
			break
		}
		seen[cur] = true
	}
	return nil
}
