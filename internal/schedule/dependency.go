package schedule

import (
	"fmt"

	"github.com/alexanderramin/groundwork/internal/domain"
)

// NewTaskID stands in for a task that has not been persisted yet.
const NewTaskID = ""

// Snapshot maps every live task id of a project to its predecessor ids.
type Snapshot map[string][]string

// SnapshotOf builds a Snapshot from a task set, skipping deleted tasks.
func SnapshotOf(tasks []*domain.Task) Snapshot {
	snap := make(Snapshot, len(tasks))
	for _, t := range tasks {
		if t.IsDeleted() {
			continue
		}
		snap[t.ID] = append([]string(nil), t.PredecessorTaskIDs...)
	}
	return snap
}

// ValidateDependencies checks that giving taskID the proposed predecessors
// keeps the graph acyclic. Every proposed id must be in snapshot. The
// snapshot is not modified.
func ValidateDependencies(taskID string, proposed []string, snapshot map[string][]string) error {
	isNew := taskID == NewTaskID
	for _, pred := range proposed {
		if !isNew && pred == taskID {
			return fmt.Errorf("%w: task %s lists itself as predecessor", domain.ErrDependencyCycle, taskID)
		}
		if _, ok := snapshot[pred]; !ok {
			return fmt.Errorf("%w: %s", domain.ErrMissingPredecessor, pred)
		}
	}

	const (
		unvisited = iota
		visiting
		visited
	)
	marks := make(map[string]int, len(snapshot))

	edges := func(id string) []string {
		if !isNew && id == taskID {
			return proposed
		}
		return snapshot[id]
	}

	var visit func(id string) error
	visit = func(id string) error {
		if !isNew && id == taskID {
			return fmt.Errorf("%w: %s depends on itself through %s", domain.ErrDependencyCycle, taskID, id)
		}
		switch marks[id] {
		case visiting:
			return fmt.Errorf("%w: loop through %s", domain.ErrDependencyCycle, id)
		case visited:
			return nil
		}
		marks[id] = visiting
		for _, next := range edges(id) {
			if _, known := snapshot[next]; !known && next != taskID {
				continue
			}
			if err := visit(next); err != nil {
				return err
			}
		}
		marks[id] = visited
		return nil
	}

	for _, pred := range proposed {
		if err := visit(pred); err != nil {
			return err
		}
	}
	return nil
}
