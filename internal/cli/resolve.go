package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/groundwork/internal/domain"
)

// resolveProjectID accepts a full project UUID or a unique prefix of one.
func resolveProjectID(ctx context.Context, app *App, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("%w: project id is required", domain.ErrValidation)
	}
	if p, err := app.Projects.GetByID(ctx, input); err == nil {
		return p.ID, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return "", err
	}

	projects, err := app.Projects.List(ctx)
	if err != nil {
		return "", err
	}
	ids := make([]string, 0, len(projects))
	for _, p := range projects {
		ids = append(ids, p.ID)
	}
	return uniquePrefix("project", input, ids)
}

// resolveTaskID accepts a full task UUID or, with a project for context,
// a unique prefix of one.
func resolveTaskID(ctx context.Context, app *App, projectID, input string) (string, error) {
	input = strings.TrimSpace(input)
	if t, err := app.Tasks.GetTask(ctx, input); err == nil {
		return t.ID, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return "", err
	}
	if projectID == "" {
		return "", fmt.Errorf("%w: task %q (pass --project to match by prefix)", domain.ErrNotFound, input)
	}

	tasks, err := app.Tasks.GetTasks(ctx, domain.TaskFilter{ProjectID: projectID})
	if err != nil {
		return "", err
	}
	ids := make([]string, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID)
	}
	return uniquePrefix("task", input, ids)
}

func uniquePrefix(kind, prefix string, ids []string) (string, error) {
	var matches []string
	for _, id := range ids {
		if strings.HasPrefix(id, prefix) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s %q", domain.ErrNotFound, kind, prefix)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w: %s prefix %q is ambiguous (%d matches)", domain.ErrValidation, kind, prefix, len(matches))
	}
}
