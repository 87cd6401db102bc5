package valorization

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/valoriza/valoriza/internal/event_bus"
	"github.com/valoriza/valoriza/pkg/project"
)

type Service interface {
	List(ctx context.Context, projectId int) ([]Valorization, error)
	// Create registers a new valorization in draft state.
	Create(ctx context.Context, v Valorization) (Valorization, error)
	ChangeState(ctx context.Context, id int, next ApprovalState) (Valorization, error)
}

type ServiceImpl struct {
	repo     Repository
	projects project.Repository
	eventBus *event_bus.EventBus
}

func NewService(repo Repository, projects project.Repository, eventBus *event_bus.EventBus) Service {
	return &ServiceImpl{repo: repo, projects: projects, eventBus: eventBus}
}

func (s *ServiceImpl) List(ctx context.Context, projectId int) ([]Valorization, error) {
	if _, err := s.projects.GetProject(ctx, projectId); err != nil {
		return nil, err
	}
	valorizations, err := s.repo.ListByProject(ctx, projectId)
	if err != nil {
		return nil, fmt.Errorf("failed to list valorizations of project %d: %w", projectId, err)
	}
	return valorizations, nil
}

func (s *ServiceImpl) Create(ctx context.Context, v Valorization) (Valorization, error) {
	if err := v.validate(); err != nil {
		return Valorization{}, err
	}
	if _, err := s.projects.GetProject(ctx, v.ProjectId); err != nil {
		return Valorization{}, err
	}
	v.State = StateDraft
	created, err := s.repo.CreateValorization(ctx, v)
	if err != nil {
		return Valorization{}, err
	}
	s.publish(ctx, created)
	return created, nil
}

func (s *ServiceImpl) ChangeState(ctx context.Context, id int, next ApprovalState) (Valorization, error) {
	current, err := s.repo.GetValorization(ctx, id)
	if err != nil {
		return Valorization{}, err
	}
	if !current.State.CanMoveTo(next) {
		return Valorization{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.State, next)
	}
	updated, err := s.repo.UpdateState(ctx, id, current.State, next)
	if err != nil {
		return Valorization{}, err
	}
	log.Infof("valorization %d of project %d moved from %s to %s", id, updated.ProjectId, current.State, next)
	s.publish(ctx, updated)
	return updated, nil
}

// publish runs after the write is stored; subscriber failures are logged and never undo it.
func (s *ServiceImpl) publish(ctx context.Context, v Valorization) {
	err := s.eventBus.Publish(event_bus.NewEvent(
		ctx,
		event_bus.ValorizationChanged,
		event_bus.ValorizationChangedPayload{
			ValorizationId: v.Id,
			ProjectId:      v.ProjectId,
			State:          string(v.State),
		},
	))
	if err != nil {
		log.Errorf("failed to publish change of valorization %d: %v", v.Id, err)
	}
}
