package template

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/alexanderramin/groundwork/internal/domain"
)

// TaskTemplate is the blueprint of one generated task. Dependencies refer
// to other template names in the same list.
type TaskTemplate struct {
	Name             string   `json:"name"`
	Description      string   `json:"description,omitempty"`
	Phase            string   `json:"phase,omitempty"`
	DurationDays     int      `json:"duration_days"`
	Dependencies     []string `json:"dependencies,omitempty"`
	BudgetPercentage float64  `json:"budget_percentage"`
	AssigneeRole     string   `json:"assignee_role,omitempty"`
}

// MilestonePlan names a milestone and the template tasks it tracks.
type MilestonePlan struct {
	Name  string   `json:"name"`
	Tasks []string `json:"tasks"`
}

// TemplateList is the ordered task blueprint for one project type.
type TemplateList struct {
	ProjectType domain.ProjectType `json:"project_type"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Tasks       []TaskTemplate     `json:"tasks"`
	Milestones  []MilestonePlan    `json:"milestones,omitempty"`
}

// BudgetTotal sums the budget percentages of every task.
func (l *TemplateList) BudgetTotal() float64 {
	var total float64
	for _, t := range l.Tasks {
		total += t.BudgetPercentage
	}
	return total
}

// TotalDuration sums task durations, ignoring overlap.
func (l *TemplateList) TotalDuration() int {
	var total int
	for _, t := range l.Tasks {
		total += t.DurationDays
	}
	return total
}

// ParseList decodes one template list from JSON.
func ParseList(data []byte) (*TemplateList, error) {
	var list TemplateList
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parsing template: %w", err)
	}
	return &list, nil
}

// LoadSchema reads and parses a template JSON file from disk.
func LoadSchema(path string) (*TemplateList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseList(data)
}
