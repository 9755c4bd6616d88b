package schedule

import (
	"fmt"

	"github.com/alexanderramin/groundwork/internal/domain"
)

// Timing holds the CPM values of one task, in days from project start.
type Timing struct {
	ES, EF int
	LS, LF int
	Float  int
}

// Critical reports whether the task has no slack.
func (t Timing) Critical() bool {
	return t.Float == 0
}

// Schedule is the result of one critical path calculation.
type Schedule struct {
	Timings         map[string]Timing
	Order           []string // predecessors before successors
	ProjectDuration int
}

// CriticalIDs returns the zero-float tasks in topological order.
func (s *Schedule) CriticalIDs() []string {
	var ids []string
	for _, id := range s.Order {
		if s.Timings[id].Critical() {
			ids = append(ids, id)
		}
	}
	return ids
}

// Calculate runs the critical path method over the live tasks of one
// project. Predecessors outside the set are ignored; a loop among the
// tasks returns domain.ErrDependencyCycle.
func Calculate(tasks []*domain.Task) (*Schedule, error) {
	byID := make(map[string]*domain.Task, len(tasks))
	var live []*domain.Task
	for _, t := range tasks {
		if t.IsDeleted() {
			continue
		}
		byID[t.ID] = t
		live = append(live, t)
	}

	order, err := topoOrder(live, byID)
	if err != nil {
		return nil, err
	}

	sched := &Schedule{Timings: make(map[string]Timing, len(order)), Order: order}
	successors := make(map[string][]string, len(order))

	for _, id := range order {
		t := byID[id]
		es := 0
		for _, pred := range livePredecessors(t, byID) {
			successors[pred] = append(successors[pred], id)
			if start := sched.Timings[pred].EF + t.LagDays; start > es {
				es = start
			}
		}
		ef := es + t.EffectiveDuration()
		sched.Timings[id] = Timing{ES: es, EF: ef}
		if ef > sched.ProjectDuration {
			sched.ProjectDuration = ef
		}
	}

	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		tm := sched.Timings[id]
		lf := sched.ProjectDuration
		for j, succ := range successors[id] {
			s := sched.Timings[succ]
			if bound := s.LS - byID[succ].LagDays; j == 0 || bound < lf {
				lf = bound
			}
		}
		tm.LF = lf
		tm.LS = lf - byID[id].EffectiveDuration()
		tm.Float = max(0, tm.LS-tm.ES)
		sched.Timings[id] = tm
	}
	return sched, nil
}

// topoOrder is a depth-first post-order over predecessor links, so every
// task appears after all of its predecessors. Input order breaks ties.
func topoOrder(tasks []*domain.Task, byID map[string]*domain.Task) ([]string, error) {
	const (
		unvisited = iota
		visiting
		done
	)
	marks := make(map[string]int, len(tasks))
	order := make([]string, 0, len(tasks))

	var visit func(t *domain.Task) error
	visit = func(t *domain.Task) error {
		switch marks[t.ID] {
		case visiting:
			return fmt.Errorf("%w: loop through task %q", domain.ErrDependencyCycle, t.Title)
		case done:
			return nil
		}
		marks[t.ID] = visiting
		for _, pred := range livePredecessors(t, byID) {
			if err := visit(byID[pred]); err != nil {
				return err
			}
		}
		marks[t.ID] = done
		order = append(order, t.ID)
		return nil
	}

	for _, t := range tasks {
		if err := visit(t); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// livePredecessors drops ids that are not part of the task set and
// repeated ids.
func livePredecessors(t *domain.Task, byID map[string]*domain.Task) []string {
	preds := make([]string, 0, len(t.PredecessorTaskIDs))
	seen := make(map[string]bool, len(t.PredecessorTaskIDs))
	for _, id := range t.PredecessorTaskIDs {
		if _, ok := byID[id]; !ok || seen[id] {
			continue
		}
		seen[id] = true
		preds = append(preds, id)
	}
	return preds
}
