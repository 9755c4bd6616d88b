package template

import (
	"fmt"

	"github.com/alexanderramin/groundwork/internal/domain"
	"github.com/alexanderramin/groundwork/internal/schedule"
)

// budgetEpsilon absorbs float error when summing percentages.
const budgetEpsilon = 1e-6

// ValidateSchema checks a template list for structural errors. It returns
// every problem found; an empty slice means the list is usable. Dependency
// names that match no template are allowed and dropped at expansion.
func ValidateSchema(list *TemplateList) []error {
	var errs []error

	if list.ProjectType == "" {
		errs = append(errs, fmt.Errorf("%w: project_type is required", domain.ErrValidation))
	}
	if len(list.Tasks) == 0 {
		errs = append(errs, fmt.Errorf("%w: at least one task is required", domain.ErrValidation))
	}

	names := make(map[string]bool, len(list.Tasks))
	for i, t := range list.Tasks {
		if t.Name == "" {
			errs = append(errs, fmt.Errorf("%w: task[%d]: name is required", domain.ErrValidation, i))
			continue
		}
		if names[t.Name] {
			errs = append(errs, fmt.Errorf("%w: task[%d] %q", domain.ErrDuplicateTemplate, i, t.Name))
		}
		names[t.Name] = true

		if t.DurationDays <= 0 {
			errs = append(errs, fmt.Errorf("%w: task %q: duration_days must be positive", domain.ErrValidation, t.Name))
		}
		if t.BudgetPercentage < 0 {
			errs = append(errs, fmt.Errorf("%w: task %q: budget_percentage must not be negative", domain.ErrValidation, t.Name))
		}
		for _, dep := range t.Dependencies {
			if dep == t.Name {
				errs = append(errs, fmt.Errorf("%w: task %q depends on itself", domain.ErrDependencyCycle, t.Name))
			}
		}
	}

	if total := list.BudgetTotal(); total > 100+budgetEpsilon {
		errs = append(errs, fmt.Errorf("%w: budget percentages sum to %.2f, over 100", domain.ErrValidation, total))
	}

	errs = append(errs, detectCycles(list)...)

	for i, m := range list.Milestones {
		if m.Name == "" {
			errs = append(errs, fmt.Errorf("%w: milestone[%d]: name is required", domain.ErrValidation, i))
		}
	}
	return errs
}

// detectCycles runs the dependency validator over template names, adding
// each entry's resolvable dependencies in list order.
func detectCycles(list *TemplateList) []error {
	snap := schedule.Snapshot{}
	for _, t := range list.Tasks {
		if t.Name != "" {
			snap[t.Name] = nil
		}
	}
	var errs []error
	for _, t := range list.Tasks {
		if t.Name == "" {
			continue
		}
		deps := resolvable(t, snap)
		if err := schedule.ValidateDependencies(t.Name, deps, snap); err != nil {
			errs = append(errs, fmt.Errorf("task %q: %w", t.Name, err))
			continue
		}
		snap[t.Name] = deps
	}
	return errs
}

func resolvable(t TaskTemplate, snap schedule.Snapshot) []string {
	var deps []string
	for _, d := range t.Dependencies {
		if _, ok := snap[d]; ok && d != t.Name {
			deps = append(deps, d)
		}
	}
	return deps
}
