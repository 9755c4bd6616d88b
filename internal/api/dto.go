package api

import (
	"fmt"
	"time"

	"github.com/alexanderramin/groundwork/internal/domain"
	"github.com/alexanderramin/groundwork/internal/schedule"
	"github.com/alexanderramin/groundwork/internal/service"
	"github.com/alexanderramin/groundwork/internal/template"
)

const dateLayout = "2006-01-02"

type projectRequest struct {
	Name             string `json:"name"`
	PlannedStartDate string `json:"plannedStartDate"`
	PlannedEndDate   string `json:"plannedEndDate"`
	TotalBudget      int64  `json:"totalBudget"`
}

type projectResponse struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	ProjectType      string  `json:"projectType,omitempty"`
	PlannedStartDate string  `json:"plannedStartDate"`
	PlannedEndDate   string  `json:"plannedEndDate"`
	TotalBudget      int64   `json:"totalBudget"`
	PercentComplete  float64 `json:"percentComplete"`
	CreatedAt        string  `json:"createdAt"`
	UpdatedAt        string  `json:"updatedAt"`
}

type fundRequest struct {
	ProjectType   domain.ProjectType `json:"projectType"`
	FundingAmount int64              `json:"fundingAmount"`
}

type taskRequest struct {
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Phase              string   `json:"phase"`
	Status             string   `json:"status"`
	Priority           string   `json:"priority"`
	PlannedStart       string   `json:"plannedStart"`
	PlannedEnd         string   `json:"plannedEnd"`
	DurationDays       int      `json:"durationDays"`
	LagDays            int      `json:"lagDays"`
	PercentComplete    float64  `json:"percentComplete"`
	BudgetAmount       int64    `json:"budgetAmount"`
	ActualCost         int64    `json:"actualCost"`
	AssigneeID         string   `json:"assigneeId"`
	AssigneeRole       string   `json:"assigneeRole"`
	ParentID           string   `json:"parentId"`
	PredecessorTaskIDs []string `json:"predecessorTaskIds"`
}

// taskPatchRequest mirrors domain.TaskPatch; absent fields stay untouched.
type taskPatchRequest struct {
	Title              *string   `json:"title"`
	Description        *string   `json:"description"`
	Phase              *string   `json:"phase"`
	Status             *string   `json:"status"`
	Priority           *string   `json:"priority"`
	PlannedStart       *string   `json:"plannedStart"`
	PlannedEnd         *string   `json:"plannedEnd"`
	DurationDays       *int      `json:"durationDays"`
	LagDays            *int      `json:"lagDays"`
	PercentComplete    *float64  `json:"percentComplete"`
	BudgetAmount       *int64    `json:"budgetAmount"`
	ActualCost         *int64    `json:"actualCost"`
	AssigneeID         *string   `json:"assigneeId"`
	AssigneeRole       *string   `json:"assigneeRole"`
	ParentID           *string   `json:"parentId"`
	PredecessorTaskIDs *[]string `json:"predecessorTaskIds"`
}

type progressRequest struct {
	PercentComplete *float64 `json:"percentComplete"`
}

type taskResponse struct {
	ID                 string   `json:"id"`
	ProjectID          string   `json:"projectId"`
	ParentID           string   `json:"parentId,omitempty"`
	Title              string   `json:"title"`
	Description        string   `json:"description,omitempty"`
	Phase              string   `json:"phase,omitempty"`
	Status             string   `json:"status"`
	Priority           string   `json:"priority"`
	PlannedStart       string   `json:"plannedStart,omitempty"`
	PlannedEnd         string   `json:"plannedEnd,omitempty"`
	DurationDays       int      `json:"durationDays"`
	LagDays            int      `json:"lagDays"`
	PredecessorTaskIDs []string `json:"predecessorTaskIds"`
	IsCritical         bool     `json:"isCritical"`
	PercentComplete    float64  `json:"percentComplete"`
	BudgetAmount       int64    `json:"budgetAmount"`
	ActualCost         int64    `json:"actualCost"`
	AssigneeID         string   `json:"assigneeId,omitempty"`
	AssigneeRole       string   `json:"assigneeRole,omitempty"`
	CreatedAt          string   `json:"createdAt"`
	UpdatedAt          string   `json:"updatedAt"`
}

type taskNodeResponse struct {
	taskResponse
	Children []taskNodeResponse `json:"children"`
}

type progressResponse struct {
	Task           taskResponse       `json:"task"`
	ProjectPercent float64            `json:"projectPercent"`
	Parents        map[string]float64 `json:"parents"`
}

type timingResponse struct {
	TaskID     string `json:"taskId"`
	ES         int    `json:"earlyStart"`
	EF         int    `json:"earlyFinish"`
	LS         int    `json:"lateStart"`
	LF         int    `json:"lateFinish"`
	Float      int    `json:"float"`
	IsCritical bool   `json:"isCritical"`
}

type scheduleResponse struct {
	ProjectDuration int              `json:"projectDuration"`
	CriticalTaskIDs []string         `json:"criticalTaskIds"`
	Tasks           []timingResponse `json:"tasks"`
}

type milestoneResponse struct {
	ID             string   `json:"id"`
	ProjectID      string   `json:"projectId"`
	Name           string   `json:"name"`
	TargetDate     string   `json:"targetDate"`
	RelatedTaskIDs []string `json:"relatedTaskIds"`
}

type initResponse struct {
	ProjectID       string              `json:"projectId"`
	ProjectType     string              `json:"projectType"`
	Budget          int64               `json:"budget"`
	TaskCount       int                 `json:"taskCount"`
	ProjectDuration int                 `json:"projectDuration"`
	CriticalTaskIDs []string            `json:"criticalTaskIds"`
	Milestones      []milestoneResponse `json:"milestones"`
	Unresolved      []string            `json:"unresolvedDependencies,omitempty"`
}

type templateSummary struct {
	ProjectType   string  `json:"projectType"`
	Name          string  `json:"name"`
	TaskCount     int     `json:"taskCount"`
	BudgetPercent float64 `json:"budgetPercent"`
}

func parseDate(field, s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be YYYY-MM-DD", domain.ErrValidation, field)
	}
	return t, nil
}

func parseOptionalDate(field, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := parseDate(field, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (r projectRequest) toDomain() (*domain.Project, error) {
	start, err := parseDate("plannedStartDate", r.PlannedStartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate("plannedEndDate", r.PlannedEndDate)
	if err != nil {
		return nil, err
	}
	return &domain.Project{
		Name:             r.Name,
		PlannedStartDate: start,
		PlannedEndDate:   end,
		TotalBudget:      r.TotalBudget,
	}, nil
}

func (r taskRequest) toDomain(projectID string) (*domain.Task, error) {
	t := &domain.Task{
		ProjectID:          projectID,
		Title:              r.Title,
		Description:        r.Description,
		Phase:              r.Phase,
		DurationDays:       r.DurationDays,
		LagDays:            r.LagDays,
		PercentComplete:    r.PercentComplete,
		BudgetAmount:       r.BudgetAmount,
		ActualCost:         r.ActualCost,
		AssigneeRole:       r.AssigneeRole,
		PredecessorTaskIDs: r.PredecessorTaskIDs,
	}
	if r.Status != "" {
		st, err := domain.ParseTaskStatus(r.Status)
		if err != nil {
			return nil, err
		}
		t.Status = st
	}
	if r.Priority != "" {
		p, err := domain.ParsePriority(r.Priority)
		if err != nil {
			return nil, err
		}
		t.Priority = p
	}
	var err error
	if t.PlannedStart, err = parseOptionalDate("plannedStart", r.PlannedStart); err != nil {
		return nil, err
	}
	if t.PlannedEnd, err = parseOptionalDate("plannedEnd", r.PlannedEnd); err != nil {
		return nil, err
	}
	if r.AssigneeID != "" {
		id := r.AssigneeID
		t.AssigneeID = &id
	}
	if r.ParentID != "" {
		id := r.ParentID
		t.ParentID = &id
	}
	return t, nil
}

func (r taskPatchRequest) toDomain() (domain.TaskPatch, error) {
	p := domain.TaskPatch{
		Title:              r.Title,
		Description:        r.Description,
		Phase:              r.Phase,
		DurationDays:       r.DurationDays,
		LagDays:            r.LagDays,
		PercentComplete:    r.PercentComplete,
		BudgetAmount:       r.BudgetAmount,
		ActualCost:         r.ActualCost,
		AssigneeID:         r.AssigneeID,
		AssigneeRole:       r.AssigneeRole,
		ParentID:           r.ParentID,
		PredecessorTaskIDs: r.PredecessorTaskIDs,
	}
	if r.Status != nil {
		st, err := domain.ParseTaskStatus(*r.Status)
		if err != nil {
			return p, err
		}
		p.Status = &st
	}
	if r.Priority != nil {
		pr, err := domain.ParsePriority(*r.Priority)
		if err != nil {
			return p, err
		}
		p.Priority = &pr
	}
	if r.PlannedStart != nil {
		t, err := parseDate("plannedStart", *r.PlannedStart)
		if err != nil {
			return p, err
		}
		p.PlannedStart = &t
	}
	if r.PlannedEnd != nil {
		t, err := parseDate("plannedEnd", *r.PlannedEnd)
		if err != nil {
			return p, err
		}
		p.PlannedEnd = &t
	}
	return p, nil
}

func toProjectResponse(p *domain.Project) projectResponse {
	return projectResponse{
		ID:               p.ID,
		Name:             p.Name,
		ProjectType:      string(p.ProjectType),
		PlannedStartDate: p.PlannedStartDate.Format(dateLayout),
		PlannedEndDate:   p.PlannedEndDate.Format(dateLayout),
		TotalBudget:      p.TotalBudget,
		PercentComplete:  p.PercentComplete,
		CreatedAt:        p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        p.UpdatedAt.Format(time.RFC3339),
	}
}

func toTaskResponse(t *domain.Task) taskResponse {
	preds := t.PredecessorTaskIDs
	if preds == nil {
		preds = []string{}
	}
	return taskResponse{
		ID:                 t.ID,
		ProjectID:          t.ProjectID,
		ParentID:           deref(t.ParentID),
		Title:              t.Title,
		Description:        t.Description,
		Phase:              t.Phase,
		Status:             string(t.Status),
		Priority:           string(t.Priority),
		PlannedStart:       formatDate(t.PlannedStart),
		PlannedEnd:         formatDate(t.PlannedEnd),
		DurationDays:       t.DurationDays,
		LagDays:            t.LagDays,
		PredecessorTaskIDs: preds,
		IsCritical:         t.IsCritical,
		PercentComplete:    t.PercentComplete,
		BudgetAmount:       t.BudgetAmount,
		ActualCost:         t.ActualCost,
		AssigneeID:         deref(t.AssigneeID),
		AssigneeRole:       t.AssigneeRole,
		CreatedAt:          t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          t.UpdatedAt.Format(time.RFC3339),
	}
}

func toTaskResponses(tasks []*domain.Task) []taskResponse {
	out := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskResponse(t))
	}
	return out
}

// toNodeResponses converts a forest without recursion so deep chains do not
// grow the goroutine stack.
func toNodeResponses(roots []*service.TaskNode) []taskNodeResponse {
	out := make([]taskNodeResponse, len(roots))
	type item struct {
		src *service.TaskNode
		dst *taskNodeResponse
	}
	stack := make([]item, 0, len(roots))
	for i, r := range roots {
		stack = append(stack, item{src: r, dst: &out[i]})
	}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		it.dst.taskResponse = toTaskResponse(it.src.Task)
		it.dst.Children = make([]taskNodeResponse, len(it.src.Children))
		for i, c := range it.src.Children {
			stack = append(stack, item{src: c, dst: &it.dst.Children[i]})
		}
	}
	return out
}

func toScheduleResponse(s *schedule.Schedule) scheduleResponse {
	resp := scheduleResponse{
		ProjectDuration: s.ProjectDuration,
		CriticalTaskIDs: s.CriticalIDs(),
		Tasks:           make([]timingResponse, 0, len(s.Order)),
	}
	if resp.CriticalTaskIDs == nil {
		resp.CriticalTaskIDs = []string{}
	}
	for _, id := range s.Order {
		tm := s.Timings[id]
		resp.Tasks = append(resp.Tasks, timingResponse{
			TaskID: id, ES: tm.ES, EF: tm.EF, LS: tm.LS, LF: tm.LF, Float: tm.Float,
			IsCritical: tm.Critical(),
		})
	}
	return resp
}

func toMilestoneResponses(ms []*domain.Milestone) []milestoneResponse {
	out := make([]milestoneResponse, 0, len(ms))
	for _, m := range ms {
		related := m.RelatedTaskIDs
		if related == nil {
			related = []string{}
		}
		out = append(out, milestoneResponse{
			ID:             m.ID,
			ProjectID:      m.ProjectID,
			Name:           m.Name,
			TargetDate:     m.TargetDate.Format(dateLayout),
			RelatedTaskIDs: related,
		})
	}
	return out
}

func toInitResponse(r *service.InitResult) initResponse {
	critical := r.CriticalTaskIDs
	if critical == nil {
		critical = []string{}
	}
	return initResponse{
		ProjectID:       r.Project.ID,
		ProjectType:     string(r.ProjectType),
		Budget:          r.Budget,
		TaskCount:       len(r.Tasks),
		ProjectDuration: r.ProjectDuration,
		CriticalTaskIDs: critical,
		Milestones:      toMilestoneResponses(r.Milestones),
		Unresolved:      r.Unresolved,
	}
}

func toTemplateSummary(l *template.TemplateList) templateSummary {
	return templateSummary{
		ProjectType:   string(l.ProjectType),
		Name:          l.Name,
		TaskCount:     len(l.Tasks),
		BudgetPercent: l.BudgetTotal(),
	}
}
