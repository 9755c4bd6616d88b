package template

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/alexanderramin/groundwork/internal/domain"
	"github.com/alexanderramin/groundwork/internal/schedule"
	"github.com/google/uuid"
)

// TaskSink receives generated tasks. repository.TaskRepo satisfies it.
type TaskSink interface {
	Create(ctx context.Context, t *domain.Task) error
	Update(ctx context.Context, id string, patch domain.TaskPatch) error
}

// Expansion is the outcome of expanding one template list.
type Expansion struct {
	// Tasks are in template order.
	Tasks []*domain.Task
	// IDs maps template name to generated task id.
	IDs map[string]string
	// Unresolved lists "task -> dependency" pairs whose name matched no template.
	Unresolved []string
}

// Expand creates one task per template entry, then links predecessors by
// template name. Budget shares are floor(totalBudget * pct / 100). Every
// link is checked against the tasks generated so far before it is written.
func Expand(ctx context.Context, projectID string, list *TemplateList, totalBudget int64, sink TaskSink) (*Expansion, error) {
	now := time.Now().UTC().Truncate(time.Second)
	exp := &Expansion{IDs: make(map[string]string, len(list.Tasks))}
	snap := make(schedule.Snapshot, len(list.Tasks))

	for _, tt := range list.Tasks {
		if _, dup := exp.IDs[tt.Name]; dup {
			return nil, fmt.Errorf("%w: %q", domain.ErrDuplicateTemplate, tt.Name)
		}
		task := &domain.Task{
			ID:           uuid.New().String(),
			ProjectID:    projectID,
			Title:        tt.Name,
			Description:  tt.Description,
			Phase:        tt.Phase,
			Status:       domain.TaskNotStarted,
			Priority:     domain.PriorityMedium,
			DurationDays: tt.DurationDays,
			BudgetAmount: BudgetShare(totalBudget, tt.BudgetPercentage),
			AssigneeRole: tt.AssigneeRole,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := task.Validate(); err != nil {
			return nil, fmt.Errorf("template %q: %w", tt.Name, err)
		}
		if err := sink.Create(ctx, task); err != nil {
			return nil, fmt.Errorf("creating task %q: %w", tt.Name, err)
		}
		exp.Tasks = append(exp.Tasks, task)
		exp.IDs[tt.Name] = task.ID
		snap[task.ID] = nil
	}

	for i, tt := range list.Tasks {
		task := exp.Tasks[i]
		var preds []string
		seen := make(map[string]bool, len(tt.Dependencies))
		for _, dep := range tt.Dependencies {
			id, ok := exp.IDs[dep]
			if !ok {
				exp.Unresolved = append(exp.Unresolved, tt.Name+" -> "+dep)
				continue
			}
			if !seen[id] {
				seen[id] = true
				preds = append(preds, id)
			}
		}
		if len(preds) == 0 {
			continue
		}
		if err := schedule.ValidateDependencies(task.ID, preds, snap); err != nil {
			return nil, fmt.Errorf("linking %q: %w", tt.Name, err)
		}
		if err := sink.Update(ctx, task.ID, domain.TaskPatch{PredecessorTaskIDs: &preds}); err != nil {
			return nil, fmt.Errorf("linking %q: %w", tt.Name, err)
		}
		snap[task.ID] = preds
		task.PredecessorTaskIDs = preds
	}
	return exp, nil
}

// BudgetShare is floor(total * pct / 100). Non-positive inputs give 0.
func BudgetShare(total int64, pct float64) int64 {
	if total <= 0 || pct <= 0 {
		return 0
	}
	return int64(math.Floor(float64(total)*pct/100 + budgetEpsilon))
}
