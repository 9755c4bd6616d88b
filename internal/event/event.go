package event

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	TaskCreated        = "task.created"
	TaskUpdated        = "task.updated"
	TaskDeleted        = "task.deleted"
	ProjectInitialized = "project.initialized"
)

// Payload carries the fields of every event type; unused ones are omitted
// from JSON.
type Payload struct {
	TaskID          string   `json:"taskId,omitempty"`
	ProjectID       string   `json:"projectId"`
	PercentComplete *float64 `json:"percentComplete,omitempty"`
	TaskCount       int      `json:"taskCount,omitempty"`
	MilestoneCount  int      `json:"milestoneCount,omitempty"`
}

// Event is a notification about a committed mutation.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`
	Data       Payload   `json:"data"`
}

func newEvent(typ string, data Payload) Event {
	return Event{ID: uuid.New().String(), Type: typ, OccurredAt: time.Now().UTC(), Data: data}
}

func NewTaskCreated(taskID, projectID string) Event {
	return newEvent(TaskCreated, Payload{TaskID: taskID, ProjectID: projectID})
}

// NewTaskUpdated builds a task.updated event. pct is set for progress
// updates only.
func NewTaskUpdated(taskID, projectID string, pct *float64) Event {
	return newEvent(TaskUpdated, Payload{TaskID: taskID, ProjectID: projectID, PercentComplete: pct})
}

func NewTaskDeleted(taskID, projectID string) Event {
	return newEvent(TaskDeleted, Payload{TaskID: taskID, ProjectID: projectID})
}

func NewProjectInitialized(projectID string, taskCount, milestoneCount int) Event {
	return newEvent(ProjectInitialized, Payload{ProjectID: projectID, TaskCount: taskCount, MilestoneCount: milestoneCount})
}

// Publisher delivers events to interested parties. Delivery failures stay
// inside the publisher.
type Publisher interface {
	Publish(ctx context.Context, e Event)
}

// Handler consumes events from a Bus.
type Handler func(ctx context.Context, e Event)

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) {}
