package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/groundwork/internal/domain"
	"github.com/alexanderramin/groundwork/internal/service"
)

// FormatTaskList renders tasks as a table. Critical tasks carry a marker
// in the first column.
func FormatTaskList(tasks []*domain.Task) string {
	if len(tasks) == 0 {
		return Dim("No tasks match.") + "\n"
	}
	headers := []string{"", "ID", "TITLE", "STATUS", "PRIORITY", "DUR", "BUDGET", "DONE"}
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{
			CriticalMarker(t.IsCritical),
			TruncID(t.ID),
			t.Title,
			StatusPill(t.Status),
			PriorityBadge(t.Priority),
			fmt.Sprintf("%dd", t.DurationDays),
			Money(t.BudgetAmount),
			fmt.Sprintf("%.0f%%", t.PercentComplete),
		})
	}
	return RenderTableAligned(headers, rows, []bool{5: true, 6: true, 7: true})
}

// FormatTask renders every field of one task.
func FormatTask(t *domain.Task) string {
	var b strings.Builder
	field := func(label, value string) {
		b.WriteString(fmt.Sprintf("%s %s\n", Dim(fmt.Sprintf("%-13s", label)), value))
	}

	title := Bold(t.Title)
	if t.IsCritical {
		title += " " + StyleRedBold.Render("◆ critical")
	}
	b.WriteString(title + "\n\n")
	field("ID", t.ID)
	if !t.IsRoot() {
		field("Parent", *t.ParentID)
	}
	if t.Phase != "" {
		field("Phase", t.Phase)
	}
	field("Status", StatusPill(t.Status))
	field("Priority", PriorityBadge(t.Priority))
	field("Progress", RenderProgress(t.PercentComplete, 20))
	field("Duration", Days(t.DurationDays))
	if t.LagDays > 0 {
		field("Lag", Days(t.LagDays))
	}
	field("Planned", ShortDate(t.PlannedStart)+" → "+ShortDate(t.PlannedEnd))
	field("Budget", Money(t.BudgetAmount))
	if t.ActualCost > 0 {
		field("Actual cost", Money(t.ActualCost))
	}
	if len(t.PredecessorTaskIDs) > 0 {
		ids := make([]string, len(t.PredecessorTaskIDs))
		for i, id := range t.PredecessorTaskIDs {
			ids[i] = TruncID(id)
		}
		field("After", strings.Join(ids, ", "))
	}
	if t.AssigneeID != nil {
		field("Assignee", *t.AssigneeID)
	}
	if t.AssigneeRole != "" {
		field("Role", t.AssigneeRole)
	}
	if t.Description != "" {
		b.WriteString("\n" + t.Description + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatProgressResult reports a progress update and the rollup it caused.
func FormatProgressResult(res *service.ProgressResult) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s %s %s\n", StyleGreen.Render("✔"), Bold(res.Task.Title),
		RenderProgress(res.Task.PercentComplete, 20)))
	b.WriteString(fmt.Sprintf("  status   %s\n", StatusPill(res.Task.Status)))
	for id, pct := range res.Parents {
		b.WriteString(fmt.Sprintf("  parent   %s %.1f%%\n", TruncID(id), pct))
	}
	b.WriteString(fmt.Sprintf("  project  %.1f%%\n", res.ProjectPercent))
	return b.String()
}

// FormatTaskTree renders the project hierarchy.
func FormatTaskTree(roots []*service.TaskNode) string {
	if len(roots) == 0 {
		return Dim("No tasks yet.") + "\n"
	}
	var items []TreeItem

	type frame struct {
		node   *service.TaskNode
		guides []bool
		last   bool
	}
	stack := make([]frame, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, frame{node: roots[i], last: i == len(roots)-1})
	}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		t := f.node.Task
		items = append(items, TreeItem{
			Title:    t.Title,
			Guides:   f.guides,
			IsLast:   f.last,
			Status:   t.Status,
			Critical: t.IsCritical,
			Detail:   fmt.Sprintf("%.0f%%", t.PercentComplete),
		})

		childGuides := append(append([]bool(nil), f.guides...), !f.last)
		kids := f.node.Children
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: kids[i], guides: childGuides, last: i == len(kids)-1})
		}
	}
	return RenderTree(items)
}
