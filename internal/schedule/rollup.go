package schedule

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/groundwork/internal/domain"
)

// Aggregator decides how much each child counts towards its parent.
type Aggregator interface {
	Name() string
	Weight(t *domain.Task) float64
}

type meanAggregator struct{}

func (meanAggregator) Name() string                { return "mean" }
func (meanAggregator) Weight(*domain.Task) float64 { return 1 }

type budgetWeighted struct{}

func (budgetWeighted) Name() string { return "budget" }
func (budgetWeighted) Weight(t *domain.Task) float64 {
	return float64(max(t.BudgetAmount, 0))
}

type durationWeighted struct{}

func (durationWeighted) Name() string { return "duration" }
func (durationWeighted) Weight(t *domain.Task) float64 {
	return float64(t.EffectiveDuration())
}

var (
	// MeanAggregator gives every child the same weight.
	MeanAggregator Aggregator = meanAggregator{}
	// BudgetWeighted weights children by budget amount.
	BudgetWeighted Aggregator = budgetWeighted{}
	// DurationWeighted weights children by scheduled duration.
	DurationWeighted Aggregator = durationWeighted{}
)

// AggregatorByName resolves a configured weighting. Empty means mean.
func AggregatorByName(name string) (Aggregator, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "mean":
		return MeanAggregator, nil
	case "budget":
		return BudgetWeighted, nil
	case "duration":
		return DurationWeighted, nil
	}
	return nil, fmt.Errorf("%w: unknown rollup weighting %q", domain.ErrValidation, name)
}

// Result holds rolled-up progress.
type Result struct {
	// Values has the rolled-up percent of every task reachable from a root.
	Values map[string]float64
	// Parents lists the tasks with at least one child, in post-order.
	Parents []string
	// Project is the aggregate over root tasks; 0 without tasks.
	Project float64
}

type rollupNode struct {
	task     *domain.Task
	children []int
}

// Rollup aggregates percent complete bottom-up through the parent/child
// tree. A leaf keeps its own value; a parent takes the aggregate of its
// immediate children; the project takes the aggregate of the roots. Tasks
// whose parent is missing or deleted are roots. Deleted tasks are skipped.
func Rollup(tasks []*domain.Task, agg Aggregator) Result {
	if agg == nil {
		agg = MeanAggregator
	}

	nodes := make([]rollupNode, 0, len(tasks))
	index := make(map[string]int, len(tasks))
	for _, t := range tasks {
		if t.IsDeleted() {
			continue
		}
		index[t.ID] = len(nodes)
		nodes = append(nodes, rollupNode{task: t})
	}

	var roots []int
	for i := range nodes {
		t := nodes[i].task
		if parent, ok := parentIndex(t, index); ok && parent != i {
			nodes[parent].children = append(nodes[parent].children, i)
			continue
		}
		roots = append(roots, i)
	}

	res := Result{Values: make(map[string]float64, len(nodes))}
	values := make([]float64, len(nodes))

	type frame struct {
		node     int
		expanded bool
	}
	for _, root := range roots {
		stack := []frame{{node: root}}
		for len(stack) > 0 {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			n := &nodes[top.node]

			if len(n.children) == 0 {
				values[top.node] = n.task.PercentComplete
				res.Values[n.task.ID] = values[top.node]
				continue
			}
			if !top.expanded {
				stack = append(stack, frame{node: top.node, expanded: true})
				for _, c := range n.children {
					stack = append(stack, frame{node: c})
				}
				continue
			}
			values[top.node] = aggregate(agg, nodes, n.children, values)
			res.Values[n.task.ID] = values[top.node]
			res.Parents = append(res.Parents, n.task.ID)
		}
	}

	if len(roots) > 0 {
		res.Project = aggregate(agg, nodes, roots, values)
	}
	return res
}

func parentIndex(t *domain.Task, index map[string]int) (int, bool) {
	if t.IsRoot() {
		return 0, false
	}
	i, ok := index[*t.ParentID]
	return i, ok
}

// aggregate is the weighted mean of the given nodes' values. When every
// weight is zero it falls back to the plain mean.
func aggregate(agg Aggregator, nodes []rollupNode, members []int, values []float64) float64 {
	var sum, weights, plain float64
	for _, m := range members {
		w := agg.Weight(nodes[m].task)
		sum += w * values[m]
		weights += w
		plain += values[m]
	}
	if weights == 0 {
		return clampPercent(plain / float64(len(members)))
	}
	return clampPercent(sum / weights)
}

func clampPercent(v float64) float64 {
	return min(max(v, 0), 100)
}
