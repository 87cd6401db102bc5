package s_curve

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/valoriza/valoriza/pkg/project"
	"github.com/valoriza/valoriza/pkg/schedule"
	"github.com/valoriza/valoriza/pkg/valorization"
)

type Service interface {
	GetCurve(ctx context.Context, projectId int) (Curve, error)
}

type ProjectReader interface {
	GetProject(ctx context.Context, id int) (project.Project, error)
}

type ScheduleReader interface {
	GetBaseline(ctx context.Context, projectId int) (schedule.Schedule, error)
	GetLatest(ctx context.Context, projectId int) (schedule.Schedule, error)
	ListEligibleTasks(ctx context.Context, scheduleId int) ([]schedule.Task, error)
}

type ValorizationReader interface {
	ListRecognized(ctx context.Context, projectId int) ([]valorization.Valorization, error)
}

type ServiceImpl struct {
	projects      ProjectReader
	schedules     ScheduleReader
	valorizations ValorizationReader
}

func NewService(projects ProjectReader, schedules ScheduleReader, valorizations ValorizationReader) Service {
	return &ServiceImpl{projects: projects, schedules: schedules, valorizations: valorizations}
}

func (s *ServiceImpl) GetCurve(ctx context.Context, projectId int) (Curve, error) {
	p, err := s.projects.GetProject(ctx, projectId)
	if err != nil {
		return Curve{}, fmt.Errorf("failed to get project %d: %w", projectId, err)
	}
	bac, err := p.BAC()
	if err != nil {
		return Curve{}, fmt.Errorf("project %d: %w", projectId, err)
	}

	selected, err := SelectSchedule(ctx, s.schedules, projectId)
	if err != nil {
		return Curve{}, err
	}

	snapshot := Snapshot{Project: p, BAC: bac, Schedule: selected}
	if selected != nil {
		snapshot.Tasks, err = s.schedules.ListEligibleTasks(ctx, selected.Id)
		if err != nil {
			return Curve{}, fmt.Errorf("failed to list tasks of schedule %d: %w", selected.Id, err)
		}
	}
	snapshot.Valorizations, err = s.valorizations.ListRecognized(ctx, projectId)
	if err != nil {
		return Curve{}, fmt.Errorf("failed to list valorizations of project %d: %w", projectId, err)
	}

	return ComputeCurve(snapshot), nil
}

// SelectSchedule returns the project's baseline, falling back to its latest schedule.
// It returns nil without error when the project has no schedule at all.
func SelectSchedule(ctx context.Context, schedules ScheduleReader, projectId int) (*schedule.Schedule, error) {
	baseline, err := schedules.GetBaseline(ctx, projectId)
	if err == nil {
		return &baseline, nil
	}
	if !errors.Is(err, schedule.ErrScheduleNotFound) {
		return nil, fmt.Errorf("failed to get baseline of project %d: %w", projectId, err)
	}

	latest, err := schedules.GetLatest(ctx, projectId)
	if err != nil {
		if errors.Is(err, schedule.ErrScheduleNotFound) {
			log.Debugf("project %d has no schedule, computing an earned value only curve", projectId)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest schedule of project %d: %w", projectId, err)
	}
	log.Warnf("project %d has no baseline, using schedule %d", projectId, latest.Id)
	return &latest, nil
}
