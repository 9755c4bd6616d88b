package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/groundwork/internal/template"
)

// FormatTemplateList renders one summary row per template list.
func FormatTemplateList(lists []*template.TemplateList) string {
	headers := []string{"TYPE", "NAME", "TASKS", "MILESTONES", "BUDGET %"}
	rows := make([][]string, 0, len(lists))
	for _, l := range lists {
		rows = append(rows, []string{
			StylePurple.Render(string(l.ProjectType)),
			l.Name,
			fmt.Sprintf("%d", len(l.Tasks)),
			fmt.Sprintf("%d", len(l.Milestones)),
			fmt.Sprintf("%.1f", l.BudgetTotal()),
		})
	}
	return RenderBox("Templates", RenderTableAligned(headers, rows, []bool{2: true, 3: true, 4: true}))
}

// FormatTemplate renders every task template of one list, then its
// milestones.
func FormatTemplate(l *template.TemplateList) string {
	var b strings.Builder
	b.WriteString(Bold(l.Name) + "  " + StylePurple.Render(string(l.ProjectType)) + "\n")
	if l.Description != "" {
		b.WriteString(Dim(l.Description) + "\n")
	}
	b.WriteString("\n")

	headers := []string{"#", "TASK", "PHASE", "DAYS", "BUDGET %", "AFTER"}
	rows := make([][]string, 0, len(l.Tasks))
	for i, t := range l.Tasks {
		after := Dim("--")
		if len(t.Dependencies) > 0 {
			after = strings.Join(t.Dependencies, ", ")
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			t.Name,
			t.Phase,
			fmt.Sprintf("%d", t.DurationDays),
			fmt.Sprintf("%.1f", t.BudgetPercentage),
			after,
		})
	}
	b.WriteString(RenderTableAligned(headers, rows, []bool{0: true, 3: true, 4: true}))

	if len(l.Milestones) > 0 {
		b.WriteString("\n" + Header("Milestones") + "\n")
		for _, m := range l.Milestones {
			b.WriteString(fmt.Sprintf("  %s %s\n", Bold(m.Name), Dim(strings.Join(m.Tasks, ", "))))
		}
	}
	return b.String()
}
