package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/groundwork/internal/domain"
	"github.com/alexanderramin/groundwork/internal/schedule"
	"github.com/alexanderramin/groundwork/internal/service"
	"github.com/alexanderramin/groundwork/internal/template"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderProgress(t *testing.T) {
	tests := []struct {
		name string
		pct  float64
		want string
	}{
		{"zero", 0, "  0%"},
		{"half", 50, " 50%"},
		{"full", 100, "100%"},
		{"over clamps", 140, "100%"},
		{"negative clamps", -5, "  0%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderProgress(tt.pct, 10)
			assert.True(t, strings.HasSuffix(got, tt.want), got)
			assert.Equal(t, 10+2+1+4, lipgloss.Width(got))
		})
	}
}

func TestRenderCompactBar(t *testing.T) {
	bar := RenderCompactBar(50, 1)
	assert.Equal(t, 2, lipgloss.Width(bar))
	assert.NotContains(t, bar, "%")
	assert.Contains(t, RenderCompactBar(100, 4), strings.Repeat(filledBlock, 4))
	assert.Contains(t, RenderCompactBar(0, 4), strings.Repeat(emptyBlock, 4))
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "$0", Money(0))
	assert.Equal(t, "$999", Money(999))
	assert.Equal(t, "$1,000", Money(1000))
	assert.Equal(t, "$1,234,567", Money(1234567))
	assert.Equal(t, "-$60,000", Money(-60000))
}

func TestRelativeDateFrom(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "Today", RelativeDateFrom(now, now))
	assert.Equal(t, "Tomorrow", RelativeDateFrom(now.AddDate(0, 0, 1), now))
	assert.Equal(t, "In 5d", RelativeDateFrom(now.AddDate(0, 0, 5), now))
	assert.Equal(t, "In 3w", RelativeDateFrom(now.AddDate(0, 0, 21), now))
	assert.Equal(t, "In 3mo", RelativeDateFrom(now.AddDate(0, 0, 90), now))
	assert.Equal(t, "3d ago", RelativeDateFrom(now.AddDate(0, 0, -3), now))
}

func TestRenderTableAligned(t *testing.T) {
	out := RenderTableAligned(
		[]string{"NAME", "DAYS"},
		[][]string{{"Excavation", "3"}, {"Framing", "12"}},
		[]bool{false, true},
	)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)

	width := lipgloss.Width(lines[0])
	for _, l := range lines {
		assert.Equal(t, width, lipgloss.Width(l), "line %q", l)
	}
	assert.True(t, strings.HasSuffix(lines[2], "   3"))
	assert.True(t, strings.HasSuffix(lines[3], "  12"))
}

func TestRenderTable_NoHeaders(t *testing.T) {
	assert.Empty(t, RenderTable(nil, [][]string{{"x"}}))
}

func TestFormatTaskTree_Connectors(t *testing.T) {
	task := func(title string) *domain.Task {
		return &domain.Task{Title: title, Status: domain.TaskNotStarted}
	}
	roots := []*service.TaskNode{
		{Task: task("Site Work"), Children: []*service.TaskNode{
			{Task: task("Clearing"), Children: []*service.TaskNode{{Task: task("Stumps")}}},
			{Task: task("Grading")},
		}},
		{Task: task("Framing")},
	}

	lines := strings.Split(strings.TrimRight(FormatTaskTree(roots), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], "Site Work"))
	assert.True(t, strings.HasPrefix(lines[1], "├─ Clearing"))
	assert.True(t, strings.HasPrefix(lines[2], "│  └─ Stumps"))
	assert.True(t, strings.HasPrefix(lines[3], "└─ Grading"))
	assert.True(t, strings.HasPrefix(lines[4], "Framing"))
	for _, l := range lines {
		assert.Contains(t, l, "[ 0% ]")
	}
}

func TestFormatTaskTree_Empty(t *testing.T) {
	assert.Contains(t, FormatTaskTree(nil), "No tasks")
}

func TestFormatSchedule(t *testing.T) {
	tasks := []*domain.Task{
		{ID: "a", Title: "Pour footings", DurationDays: 3},
		{ID: "b", Title: "Cure", DurationDays: 1},
	}
	s, err := schedule.Calculate(tasks)
	require.NoError(t, err)

	out := FormatSchedule(tasks, s)
	assert.Contains(t, out, "Pour footings")
	assert.Contains(t, out, "Cure")
	assert.Contains(t, out, "Project duration:")
	assert.Contains(t, out, "3 days")
	assert.Len(t, ScheduleRows(tasks, s), 2)
}

func TestFormatTaskList(t *testing.T) {
	out := FormatTaskList([]*domain.Task{{
		ID: "0123456789", Title: "Rough plumbing", Status: domain.TaskInProgress,
		Priority: domain.PriorityHigh, DurationDays: 4, BudgetAmount: 25000, PercentComplete: 40,
		IsCritical: true,
	}})
	assert.Contains(t, out, "01234567")
	assert.NotContains(t, out, "0123456789")
	assert.Contains(t, out, "Rough plumbing")
	assert.Contains(t, out, "In Progress")
	assert.Contains(t, out, "$25,000")
	assert.Contains(t, out, "40%")
	assert.Contains(t, out, "◆")

	assert.Contains(t, FormatTaskList(nil), "No tasks")
}

func TestFormatTemplate(t *testing.T) {
	l := &template.TemplateList{
		ProjectType: domain.ProjectRenovation,
		Name:        "Renovation",
		Tasks: []template.TaskTemplate{
			{Name: "Demolition", DurationDays: 5, BudgetPercentage: 10},
			{Name: "Rebuild", DurationDays: 20, BudgetPercentage: 90, Dependencies: []string{"Demolition"}},
		},
		Milestones: []template.MilestonePlan{{Name: "Gutted", Tasks: []string{"Demolition"}}},
	}
	out := FormatTemplate(l)
	assert.Contains(t, out, "RENOVATION")
	assert.Contains(t, out, "Rebuild")
	assert.Contains(t, out, "Gutted")

	list := FormatTemplateList([]*template.TemplateList{l})
	assert.Contains(t, list, "100.0")
}
