package domain

import "time"

// Milestone is a named checkpoint bound to a subset of a project's tasks.
type Milestone struct {
	ID             string
	ProjectID      string
	Name           string
	TargetDate     time.Time
	RelatedTaskIDs []string
	CreatedAt      time.Time
}

// FundingLink records which funding event initialized a project.
type FundingLink struct {
	ProjectID     string
	ProjectType   ProjectType
	FundingAmount int64
	InitializedAt time.Time
}

// FundedProjectEvent is the trigger that starts template expansion.
type FundedProjectEvent struct {
	DevelopmentProjectID string      `json:"developmentProjectId"`
	ProjectType          ProjectType `json:"projectType"`
	FundingAmount        int64       `json:"fundingAmount"`
}
