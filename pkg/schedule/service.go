package schedule

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/valoriza/valoriza/internal/event_bus"
	"github.com/valoriza/valoriza/pkg/project"
)

type Service interface {
	ListSchedules(ctx context.Context, projectId int) ([]Schedule, error)
	// SetBaseline marks the schedule as the project's only baseline.
	SetBaseline(ctx context.Context, projectId int, scheduleId int) (Schedule, error)
}

type ServiceImpl struct {
	repo     Repository
	projects project.Repository
	eventBus *event_bus.EventBus
}

func NewService(repo Repository, projects project.Repository, eventBus *event_bus.EventBus) Service {
	return &ServiceImpl{repo: repo, projects: projects, eventBus: eventBus}
}

func (s *ServiceImpl) ListSchedules(ctx context.Context, projectId int) ([]Schedule, error) {
	if _, err := s.projects.GetProject(ctx, projectId); err != nil {
		return nil, err
	}
	schedules, err := s.repo.ListSchedules(ctx, projectId)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules of project %d: %w", projectId, err)
	}
	return schedules, nil
}

func (s *ServiceImpl) SetBaseline(ctx context.Context, projectId int, scheduleId int) (Schedule, error) {
	if _, err := s.projects.GetProject(ctx, projectId); err != nil {
		return Schedule{}, err
	}

	var baseline Schedule
	err := s.repo.WithTransaction(ctx, func(repo Repository) error {
		if _, err := repo.GetSchedule(ctx, projectId, scheduleId); err != nil {
			return err
		}
		if err := repo.clearBaseline(ctx, projectId); err != nil {
			return fmt.Errorf("failed to clear baseline of project %d: %w", projectId, err)
		}
		if err := repo.markBaseline(ctx, projectId, scheduleId); err != nil {
			return err
		}
		var err error
		baseline, err = repo.GetSchedule(ctx, projectId, scheduleId)
		return err
	})
	if err != nil {
		return Schedule{}, err
	}

	// Published after commit; a failed subscriber only leaves a stale cache entry until its TTL expires.
	err = s.eventBus.Publish(event_bus.NewEvent(
		ctx,
		event_bus.ScheduleBaselineChanged,
		event_bus.ScheduleBaselineChangedPayload{ProjectId: projectId, ScheduleId: scheduleId},
	))
	if err != nil {
		log.Errorf("failed to publish baseline change of project %d: %v", projectId, err)
	}
	return baseline, nil
}
