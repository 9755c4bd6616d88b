package cli

import (
	"testing"

	"github.com/alexanderramin/groundwork/internal/domain"
	"github.com/alexanderramin/groundwork/internal/schedule"
	"github.com/alexanderramin/groundwork/internal/teatest"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Pour (3d) then Strip (1d) is the critical chain; Cure (1d) floats three days.
func newTestScheduleView(t *testing.T) *scheduleView {
	t.Helper()
	tasks := []*domain.Task{
		{ID: "pour", Title: "Pour slab", DurationDays: 3},
		{ID: "cure", Title: "Cure samples", DurationDays: 1},
		{ID: "strip", Title: "Strip forms", DurationDays: 1, PredecessorTaskIDs: []string{"pour"}},
	}
	s, err := schedule.Calculate(tasks)
	require.NoError(t, err)
	return newScheduleView("Harbor Lofts", tasks, s)
}

func TestScheduleView_RendersTimings(t *testing.T) {
	d := teatest.New(t, newTestScheduleView(t), teatest.WithSize(100, 30))

	view := d.View()
	assert.Contains(t, view, "Harbor Lofts")
	assert.Contains(t, view, "duration 4 days")
	assert.Contains(t, view, "Pour slab")
	assert.Contains(t, view, "Cure samples")
	assert.Contains(t, view, "Strip forms")
}

func TestScheduleView_CriticalFilter(t *testing.T) {
	v := newTestScheduleView(t)
	d := teatest.New(t, v)

	require.Len(t, v.table.Rows(), 3)

	d.PressKey('c')
	assert.True(t, v.criticalOnly)
	rows := v.table.Rows()
	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.Equal(t, "◆", r[0])
		assert.Equal(t, "0", r[7])
	}
	assert.Contains(t, d.View(), "critical only")

	d.PressKey('c')
	assert.Len(t, v.table.Rows(), 3)
}

func TestScheduleView_CursorMoves(t *testing.T) {
	v := newTestScheduleView(t)
	d := teatest.New(t, v)

	first := v.table.SelectedRow()[1]
	d.Press(tea.KeyDown)
	assert.NotEqual(t, first, v.table.SelectedRow()[1])
	assert.Equal(t, 1, v.table.Cursor())
}

func TestScheduleView_Quit(t *testing.T) {
	d := teatest.New(t, newTestScheduleView(t))
	d.PressKey('q')
	assert.True(t, d.Quitting)
}
