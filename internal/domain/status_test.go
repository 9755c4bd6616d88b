package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitionTable(t *testing.T) {
	cases := []struct {
		from, to TaskStatus
		allowed  bool
	}{
		{TaskNotStarted, TaskInProgress, true},
		{TaskNotStarted, TaskCompleted, false},
		{TaskNotStarted, TaskCancelled, true},
		{TaskInProgress, TaskCompleted, true},
		{TaskInProgress, TaskNotStarted, false},
		{TaskDelayed, TaskInProgress, true},
		{TaskDelayed, TaskCompleted, true},
		{TaskCompleted, TaskNotStarted, false},
		{TaskCompleted, TaskInProgress, true},
		{TaskCancelled, TaskInProgress, false},
		{TaskCancelled, TaskCancelled, true},
		{TaskInProgress, TaskInProgress, true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestTransitionTo_RejectsCompletedToNotStarted(t *testing.T) {
	task := &Task{ID: "t1", Status: TaskCompleted}
	err := task.TransitionTo(TaskNotStarted, testNow)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidTransition))
	assert.Equal(t, TaskCompleted, task.Status, "status must not change")
}

func TestTransitionTo_UnknownStatus(t *testing.T) {
	task := &Task{ID: "t1", Status: TaskNotStarted}
	err := task.TransitionTo("on_hold", testNow)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, TaskCancelled.IsTerminal())
	assert.False(t, TaskCompleted.IsTerminal())
	assert.False(t, TaskNotStarted.IsTerminal())
}

func TestApplyProgress_StartsTask(t *testing.T) {
	task := &Task{ID: "t1", Status: TaskNotStarted}
	require.NoError(t, task.ApplyProgress(25, testNow))
	assert.Equal(t, TaskInProgress, task.Status)
	assert.Equal(t, 25.0, task.PercentComplete)
	assert.Equal(t, testNow, task.UpdatedAt)
}

func TestApplyProgress_CompletesFromNotStarted(t *testing.T) {
	task := &Task{ID: "t1", Status: TaskNotStarted}
	require.NoError(t, task.ApplyProgress(100, testNow))
	assert.Equal(t, TaskCompleted, task.Status)
}

func TestApplyProgress_ReopensCompleted(t *testing.T) {
	task := &Task{ID: "t1", Status: TaskCompleted, PercentComplete: 100}
	require.NoError(t, task.ApplyProgress(80, testNow))
	assert.Equal(t, TaskInProgress, task.Status)
	assert.Equal(t, 80.0, task.PercentComplete)
}

func TestApplyProgress_DelayedStaysDelayed(t *testing.T) {
	task := &Task{ID: "t1", Status: TaskDelayed}
	require.NoError(t, task.ApplyProgress(40, testNow))
	assert.Equal(t, TaskDelayed, task.Status)
}

func TestApplyProgress_RejectsCancelled(t *testing.T) {
	task := &Task{ID: "t1", Status: TaskCancelled}
	err := task.ApplyProgress(10, testNow)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidTransition))
	assert.Equal(t, 0.0, task.PercentComplete)
}

func TestApplyProgress_RejectsOutOfRange(t *testing.T) {
	task := &Task{ID: "t1", Status: TaskInProgress, PercentComplete: 30}
	err := task.ApplyProgress(101, testNow)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPercentOutOfRange))
	assert.Equal(t, 30.0, task.PercentComplete)
}
