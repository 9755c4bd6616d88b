package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/groundwork/internal/db"
	"github.com/alexanderramin/groundwork/internal/domain"
	"github.com/alexanderramin/groundwork/internal/event"
	"github.com/alexanderramin/groundwork/internal/repository"
	"github.com/alexanderramin/groundwork/internal/template"
)

type initService struct {
	projects   repository.ProjectRepo
	milestones repository.MilestoneRepo
	catalog    *template.Catalog
	uow        db.UnitOfWork
	events     event.Publisher
	observer   UseCaseObserver
}

func NewInitService(
	projects repository.ProjectRepo,
	milestones repository.MilestoneRepo,
	catalog *template.Catalog,
	uow db.UnitOfWork,
	events event.Publisher,
	observers ...UseCaseObserver,
) InitService {
	if events == nil {
		events = event.Nop{}
	}
	return &initService{
		projects:   projects,
		milestones: milestones,
		catalog:    catalog,
		uow:        uow,
		events:     events,
		observer:   useCaseObserverOrNoop(observers),
	}
}

// InitializeProject expands the template list for the funded project type
// into tasks, seeds the schedule from the critical path, and binds the
// milestones. Everything is written in one transaction; a project can be
// initialized once.
func (s *initService) InitializeProject(ctx context.Context, ev domain.FundedProjectEvent) (result *InitResult, err error) {
	fields := map[string]any{
		"project_id":   ev.DevelopmentProjectID,
		"project_type": string(ev.ProjectType),
	}
	defer observe(ctx, s.observer, "initialize-project", nowUTC(), fields, &err)

	if ev.DevelopmentProjectID == "" {
		return nil, fmt.Errorf("%w: development project id is required", domain.ErrValidation)
	}
	if ev.FundingAmount < 0 {
		return nil, fmt.Errorf("%w: funding amount must not be negative", domain.ErrValidation)
	}

	list := s.catalog.ForType(ev.ProjectType)
	fields["template"] = string(list.ProjectType)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txTasks := repository.NewSQLiteTaskRepo(tx)
		txMilestones := repository.NewSQLiteMilestoneRepo(tx)
		txFunding := repository.NewSQLiteFundingRepo(tx)

		project, err := txProjects.GetByID(ctx, ev.DevelopmentProjectID)
		if err != nil {
			return err
		}
		if _, err := txFunding.GetByProject(ctx, project.ID); err == nil {
			return fmt.Errorf("%w: %s", domain.ErrAlreadyInitialized, project.ID)
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		now := nowUTC()
		budget := ev.FundingAmount
		if budget <= 0 {
			budget = project.TotalBudget
		}
		if err := txFunding.Create(ctx, &domain.FundingLink{
			ProjectID:     project.ID,
			ProjectType:   list.ProjectType,
			FundingAmount: ev.FundingAmount,
			InitializedAt: now,
		}); err != nil {
			return err
		}
		project.ProjectType = list.ProjectType
		project.UpdatedAt = now
		if err := txProjects.Update(ctx, project); err != nil {
			return fmt.Errorf("setting project type: %w", err)
		}

		exp, err := template.Expand(ctx, project.ID, list, budget, txTasks)
		if err != nil {
			return err
		}

		sched, err := recalcCritical(ctx, txTasks, project.ID)
		if err != nil {
			return err
		}
		for _, t := range exp.Tasks {
			timing := sched.Timings[t.ID]
			start := project.PlannedStartDate.AddDate(0, 0, timing.ES)
			end := project.PlannedStartDate.AddDate(0, 0, timing.EF)
			if err := txTasks.Update(ctx, t.ID, domain.TaskPatch{PlannedStart: &start, PlannedEnd: &end}); err != nil {
				return fmt.Errorf("seeding dates of %q: %w", t.Title, err)
			}
			t.PlannedStart = &start
			t.PlannedEnd = &end
			t.IsCritical = timing.Critical()
		}

		milestones := template.GenerateMilestones(list.Milestones, project, exp.Tasks, now)
		for _, m := range milestones {
			if err := txMilestones.Create(ctx, m); err != nil {
				return fmt.Errorf("creating milestone %q: %w", m.Name, err)
			}
		}

		result = &InitResult{
			Project:         project,
			ProjectType:     list.ProjectType,
			Budget:          budget,
			Tasks:           exp.Tasks,
			Milestones:      milestones,
			CriticalTaskIDs: sched.CriticalIDs(),
			ProjectDuration: sched.ProjectDuration,
			Unresolved:      exp.Unresolved,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["task_count"] = len(result.Tasks)
	fields["milestone_count"] = len(result.Milestones)

	for _, t := range result.Tasks {
		s.events.Publish(ctx, event.NewTaskCreated(t.ID, t.ProjectID))
	}
	s.events.Publish(ctx, event.NewProjectInitialized(result.Project.ID, len(result.Tasks), len(result.Milestones)))
	return result, nil
}

func (s *initService) ListMilestones(ctx context.Context, projectID string) ([]*domain.Milestone, error) {
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	return s.milestones.ListByProject(ctx, projectID)
}
