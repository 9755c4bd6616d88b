package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/groundwork/internal/domain"
	"github.com/alexanderramin/groundwork/internal/schedule"
)

// ScheduleRows returns one table row per scheduled task in topological
// order: marker, title, ES, EF, LS, LF, float.
func ScheduleRows(tasks []*domain.Task, s *schedule.Schedule) [][]string {
	titles := make(map[string]string, len(tasks))
	for _, t := range tasks {
		titles[t.ID] = t.Title
	}
	rows := make([][]string, 0, len(s.Order))
	for _, id := range s.Order {
		tm := s.Timings[id]
		title, ok := titles[id]
		if !ok {
			title = id
		}
		float := strconv.Itoa(tm.Float)
		if tm.Critical() {
			float = StyleRedBold.Render(float)
		}
		rows = append(rows, []string{
			CriticalMarker(tm.Critical()),
			title,
			strconv.Itoa(tm.ES),
			strconv.Itoa(tm.EF),
			strconv.Itoa(tm.LS),
			strconv.Itoa(tm.LF),
			float,
		})
	}
	return rows
}

// ScheduleHeaders matches the columns of ScheduleRows.
var ScheduleHeaders = []string{"", "TASK", "ES", "EF", "LS", "LF", "FLOAT"}

// FormatSchedule renders the critical path calculation.
func FormatSchedule(tasks []*domain.Task, s *schedule.Schedule) string {
	if len(s.Order) == 0 {
		return Dim("Nothing to schedule.") + "\n"
	}
	var b strings.Builder
	b.WriteString(RenderTableAligned(ScheduleHeaders, ScheduleRows(tasks, s),
		[]bool{2: true, 3: true, 4: true, 5: true, 6: true}))
	b.WriteString(fmt.Sprintf("\n%s %s, %d critical of %d tasks\n",
		Bold("Project duration:"), Days(s.ProjectDuration), len(s.CriticalIDs()), len(s.Order)))
	return b.String()
}

// FormatMilestones renders milestones with their tracked task counts.
func FormatMilestones(ms []*domain.Milestone) string {
	if len(ms) == 0 {
		return Dim("No milestones.") + "\n"
	}
	headers := []string{"MILESTONE", "TARGET", "TASKS"}
	rows := make([][]string, 0, len(ms))
	for _, m := range ms {
		rows = append(rows, []string{
			Bold(m.Name),
			m.TargetDate.Format("2006-01-02"),
			strconv.Itoa(len(m.RelatedTaskIDs)),
		})
	}
	return RenderTableAligned(headers, rows, []bool{2: true})
}
