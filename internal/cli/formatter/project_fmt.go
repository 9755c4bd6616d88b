package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/groundwork/internal/domain"
	"github.com/alexanderramin/groundwork/internal/service"
)

// FormatProjectList renders projects inside a bordered box.
func FormatProjectList(projects []*domain.Project) string {
	if len(projects) == 0 {
		return Dim("No projects yet. Create one with: groundwork project add") + "\n"
	}
	headers := []string{"ID", "NAME", "TYPE", "START", "END", "BUDGET", "PROGRESS"}
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{
			TruncID(p.ID),
			Bold(p.Name),
			typeLabel(p.ProjectType),
			p.PlannedStartDate.Format("2006-01-02"),
			p.PlannedEndDate.Format("2006-01-02"),
			Money(p.TotalBudget),
			RenderProgress(p.PercentComplete, 10),
		})
	}
	return RenderBox("Projects", RenderTableAligned(headers, rows, []bool{5: true}))
}

// FormatProject renders a project card with its task counts.
func FormatProject(p *domain.Project, tasks []*domain.Task, now time.Time) string {
	var b strings.Builder
	b.WriteString(Bold(p.Name) + "  " + TruncID(p.ID) + "\n\n")

	field := func(label, value string) {
		b.WriteString(fmt.Sprintf("%s %s\n", Dim(fmt.Sprintf("%-10s", label)), value))
	}
	field("Type", typeLabel(p.ProjectType))
	field("Start", p.PlannedStartDate.Format("2006-01-02"))
	field("End", fmt.Sprintf("%s %s", p.PlannedEndDate.Format("2006-01-02"),
		Dim("("+RelativeDateFrom(p.PlannedEndDate, now)+")")))
	field("Length", Days(p.PlannedDays()))
	field("Budget", Money(p.TotalBudget))
	field("Progress", RenderProgress(p.PercentComplete, 20))

	if len(tasks) > 0 {
		counts := map[domain.TaskStatus]int{}
		critical := 0
		for _, t := range tasks {
			counts[t.Status]++
			if t.IsCritical {
				critical++
			}
		}
		b.WriteString("\n" + Header("Tasks") + "\n")
		for _, st := range []domain.TaskStatus{
			domain.TaskNotStarted, domain.TaskInProgress, domain.TaskDelayed,
			domain.TaskCompleted, domain.TaskCancelled,
		} {
			if counts[st] > 0 {
				b.WriteString(fmt.Sprintf("  %-16s %d\n", StatusPill(st), counts[st]))
			}
		}
		b.WriteString(fmt.Sprintf("  %s %d on the critical path\n", CriticalMarker(true), critical))
	}
	return RenderBox("Project", strings.TrimRight(b.String(), "\n"))
}

// FormatInitResult summarizes a project initialization.
func FormatInitResult(res *service.InitResult) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s %s as %s\n", StyleGreen.Render("✔ Initialized"),
		Bold(res.Project.Name), typeLabel(res.ProjectType)))
	b.WriteString(fmt.Sprintf("  %d tasks, %d milestones, budget %s\n",
		len(res.Tasks), len(res.Milestones), Money(res.Budget)))
	b.WriteString(fmt.Sprintf("  critical path: %d tasks over %s\n",
		len(res.CriticalTaskIDs), Days(res.ProjectDuration)))
	for _, u := range res.Unresolved {
		b.WriteString(StyleYellow.Render("  ! unresolved dependency: "+u) + "\n")
	}
	return b.String()
}

func typeLabel(pt domain.ProjectType) string {
	if pt == "" {
		return Dim("--")
	}
	return StylePurple.Render(string(pt))
}
