package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/groundwork/internal/cli/formatter"
	"github.com/alexanderramin/groundwork/internal/domain"
	"github.com/alexanderramin/groundwork/internal/schedule"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

type scheduleData struct {
	project  *domain.Project
	tasks    []*domain.Task
	schedule *schedule.Schedule
}

// loadSchedule recalculates the critical path, then reads the tasks back
// so their critical flags match the new schedule.
func loadSchedule(cmd *cobra.Command, app *App, projectFlag string) (*scheduleData, error) {
	ctx := cmd.Context()
	projectID, err := requireProject(cmd, app, projectFlag)
	if err != nil {
		return nil, err
	}
	return fetchSchedule(ctx, app, projectID)
}

func fetchSchedule(ctx context.Context, app *App, projectID string) (*scheduleData, error) {
	p, err := app.Projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	s, err := app.Tasks.CalculateCriticalPath(ctx, projectID)
	if err != nil {
		return nil, err
	}
	tasks, err := app.Tasks.GetTasks(ctx, domain.TaskFilter{ProjectID: projectID})
	if err != nil {
		return nil, err
	}
	return &scheduleData{project: p, tasks: tasks, schedule: s}, nil
}

type scheduleKeys struct {
	CriticalOnly key.Binding
	Quit         key.Binding
}

func defaultScheduleKeys() scheduleKeys {
	return scheduleKeys{
		CriticalOnly: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "critical only")),
		Quit:         key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

type scheduleRow struct {
	id       string
	title    string
	timing   schedule.Timing
	duration int
}

// scheduleView is a read-only table of CPM timings. Rows follow the
// topological order of the schedule.
type scheduleView struct {
	projectName  string
	rows         []scheduleRow
	duration     int
	criticalOnly bool
	keys         scheduleKeys
	table        table.Model
}

func newScheduleView(projectName string, tasks []*domain.Task, s *schedule.Schedule) *scheduleView {
	byID := make(map[string]*domain.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}
	rows := make([]scheduleRow, 0, len(s.Order))
	for _, id := range s.Order {
		r := scheduleRow{id: id, title: id, timing: s.Timings[id]}
		if t, ok := byID[id]; ok {
			r.title = t.Title
			r.duration = t.EffectiveDuration()
		}
		rows = append(rows, r)
	}

	tbl := table.New(
		table.WithColumns([]table.Column{
			{Title: "", Width: 1},
			{Title: "Task", Width: 32},
			{Title: "Dur", Width: 4},
			{Title: "ES", Width: 4},
			{Title: "EF", Width: 4},
			{Title: "LS", Width: 4},
			{Title: "LF", Width: 4},
			{Title: "Float", Width: 5},
		}),
		table.WithFocused(true),
		table.WithHeight(min(len(rows), 20)+1),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(formatter.ColorHeader).Bold(true).
		BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).BorderForeground(formatter.ColorDim)
	styles.Selected = styles.Selected.Foreground(formatter.ColorFg).Background(lipgloss.Color("#504945"))
	tbl.SetStyles(styles)

	v := &scheduleView{
		projectName: projectName,
		rows:        rows,
		duration:    s.ProjectDuration,
		keys:        defaultScheduleKeys(),
		table:       tbl,
	}
	v.refreshRows()
	return v
}

func (v *scheduleView) refreshRows() {
	rows := make([]table.Row, 0, len(v.rows))
	for _, r := range v.rows {
		if v.criticalOnly && !r.timing.Critical() {
			continue
		}
		marker := ""
		if r.timing.Critical() {
			marker = "◆"
		}
		rows = append(rows, table.Row{
			marker,
			r.title,
			strconv.Itoa(r.duration),
			strconv.Itoa(r.timing.ES),
			strconv.Itoa(r.timing.EF),
			strconv.Itoa(r.timing.LS),
			strconv.Itoa(r.timing.LF),
			strconv.Itoa(r.timing.Float),
		})
	}
	v.table.SetRows(rows)
	v.table.SetCursor(0)
}

func (v *scheduleView) Init() tea.Cmd { return nil }

func (v *scheduleView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.table.SetHeight(max(3, msg.Height-6))
		return v, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		case key.Matches(msg, v.keys.CriticalOnly):
			v.criticalOnly = !v.criticalOnly
			v.refreshRows()
			return v, nil
		}
	}
	var cmd tea.Cmd
	v.table, cmd = v.table.Update(msg)
	return v, cmd
}

func (v *scheduleView) View() string {
	var b strings.Builder
	b.WriteString(formatter.StyleHeader.Render(v.projectName) + "  " +
		formatter.Dim(fmt.Sprintf("duration %s", formatter.Days(v.duration))))
	if v.criticalOnly {
		b.WriteString("  " + formatter.StyleRedBold.Render("critical only"))
	}
	b.WriteString("\n\n")
	b.WriteString(v.table.View())
	b.WriteString("\n")
	if sel := v.table.SelectedRow(); sel != nil {
		b.WriteString(fmt.Sprintf("%s  float %s\n", formatter.Bold(sel[1]), sel[7]))
	}
	b.WriteString(formatter.Dim(fmt.Sprintf("↑/↓ move • %s %s • %s %s",
		v.keys.CriticalOnly.Help().Key, v.keys.CriticalOnly.Help().Desc,
		v.keys.Quit.Help().Key, v.keys.Quit.Help().Desc)))
	return b.String()
}
