package template

import (
	"time"

	"github.com/alexanderramin/groundwork/internal/domain"
	"github.com/google/uuid"
)

// GenerateMilestones builds one milestone per plan entry. The i-th of N
// milestones targets plannedStart + floor((i+1)/N * plannedDays); related
// tasks are matched by title, and a milestone with no matches is still made.
func GenerateMilestones(plan []MilestonePlan, project *domain.Project, tasks []*domain.Task, now time.Time) []*domain.Milestone {
	byTitle := make(map[string][]string, len(tasks))
	for _, t := range tasks {
		if t.IsDeleted() {
			continue
		}
		byTitle[t.Title] = append(byTitle[t.Title], t.ID)
	}

	days := project.PlannedDays()
	n := len(plan)
	milestones := make([]*domain.Milestone, 0, n)
	for i, mp := range plan {
		target := project.PlannedStartDate
		if days > 0 {
			target = target.AddDate(0, 0, (i+1)*days/n)
		}

		related := []string{}
		seen := map[string]bool{}
		for _, name := range mp.Tasks {
			for _, id := range byTitle[name] {
				if !seen[id] {
					seen[id] = true
					related = append(related, id)
				}
			}
		}

		milestones = append(milestones, &domain.Milestone{
			ID:             uuid.New().String(),
			ProjectID:      project.ID,
			Name:           mp.Name,
			TargetDate:     target,
			RelatedTaskIDs: related,
			CreatedAt:      now,
		})
	}
	return milestones
}
