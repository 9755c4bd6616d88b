package domain

import (
	"fmt"
	"time"
)

// Project is the funded development project a task set belongs to.
type Project struct {
	ID               string
	Name             string
	ProjectType      ProjectType
	PlannedStartDate time.Time
	PlannedEndDate   time.Time
	TotalBudget      int64
	PercentComplete  float64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ValidateDates checks that the planned end falls after the planned start.
func (p *Project) ValidateDates() error {
	if !p.PlannedEndDate.After(p.PlannedStartDate) {
		return fmt.Errorf("%w: project %q", ErrInvalidDateRange, p.Name)
	}
	return nil
}

// PlannedDays returns the whole number of days between planned start and end.
func (p *Project) PlannedDays() int {
	return int(p.PlannedEndDate.Sub(p.PlannedStartDate).Hours() / 24)
}

// DisplayID returns the first 8 characters of the ID for compact output.
func (p *Project) DisplayID() string {
	if len(p.ID) >= 8 {
		return p.ID[:8]
	}
	return p.ID
}
