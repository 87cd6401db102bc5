package valorization

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valoriza/valoriza/internal/event_bus"
	"github.com/valoriza/valoriza/pkg/project"
)

var ctx = context.Background()

type serviceFixture struct {
	service   Service
	repo      *RepositoryStub
	published *[]event_bus.ValorizationChangedPayload
}

func setupService(t *testing.T) serviceFixture {
	repo := NewRepositoryStub()
	projects := project.NewRepositoryStub()
	_, err := projects.CreateProject(ctx, project.Project{Id: 1, Code: "P-001", Name: "Bridge"})
	require.NoError(t, err)
	bus := event_bus.NewEventBus()
	var published []event_bus.ValorizationChangedPayload
	event_bus.SubscribeTyped(bus, event_bus.ValorizationChanged, func(e event_bus.EventT[event_bus.ValorizationChangedPayload]) error {
		published = append(published, e.Data)
		return nil
	})
	return serviceFixture{service: NewService(repo, projects, bus), repo: repo, published: &published}
}

func periodEnd(day int) time.Time {
	return time.Date(2025, 1, day, 0, 0, 0, 0, time.UTC)
}

func TestServiceImpl_Create(t *testing.T) {
	t.Run("should store a draft valorization and publish it", func(t *testing.T) {
		// given
		f := setupService(t)

		// when
		created, err := f.service.Create(ctx, Valorization{
			ProjectId: 1,
			PeriodEnd: periodEnd(12),
			Amount:    decimal.RequireFromString("1500.50"),
			State:     StatePaid,
		})

		// then
		require.NoError(t, err)
		assert.NotZero(t, created.Id)
		assert.Equal(t, StateDraft, created.State)
		assert.Equal(t, []event_bus.ValorizationChangedPayload{{ValorizationId: created.Id, ProjectId: 1, State: "draft"}}, *f.published)
	})

	t.Run("should reject a negative amount", func(t *testing.T) {
		f := setupService(t)

		_, err := f.service.Create(ctx, Valorization{ProjectId: 1, PeriodEnd: periodEnd(12), Amount: decimal.NewFromInt(-1)})

		assert.ErrorIs(t, err, ErrNegativeAmount)
		assert.Empty(t, *f.published)
	})

	t.Run("should reject a period starting after it ends", func(t *testing.T) {
		f := setupService(t)
		start := periodEnd(20)

		_, err := f.service.Create(ctx, Valorization{ProjectId: 1, PeriodStart: &start, PeriodEnd: periodEnd(12), Amount: decimal.NewFromInt(10)})

		assert.ErrorIs(t, err, ErrInvalidPeriod)
	})

	t.Run("should fail for an unknown project", func(t *testing.T) {
		f := setupService(t)

		_, err := f.service.Create(ctx, Valorization{ProjectId: 9, PeriodEnd: periodEnd(12), Amount: decimal.NewFromInt(10)})

		assert.ErrorIs(t, err, project.ErrProjectNotFound)
	})
}

func TestServiceImpl_ChangeState(t *testing.T) {
	t.Run("should walk the approval workflow", func(t *testing.T) {
		// given
		f := setupService(t)
		v, err := f.service.Create(ctx, Valorization{ProjectId: 1, PeriodEnd: periodEnd(12), Amount: decimal.NewFromInt(300)})
		require.NoError(t, err)

		// when
		for _, next := range []ApprovalState{StateSubmitted, StateClientApproved, StateInvoiced, StatePaid} {
			v, err = f.service.ChangeState(ctx, v.Id, next)
			require.NoError(t, err)
		}

		// then
		assert.Equal(t, StatePaid, v.State)
		recognized, err := f.repo.ListRecognized(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, recognized, 1)
		assert.Len(t, *f.published, 5)
		assert.Equal(t, "paid", (*f.published)[4].State)
	})

	t.Run("should refuse skipping states", func(t *testing.T) {
		// given
		f := setupService(t)
		v, err := f.service.Create(ctx, Valorization{ProjectId: 1, PeriodEnd: periodEnd(12), Amount: decimal.NewFromInt(300)})
		require.NoError(t, err)

		// when
		_, err = f.service.ChangeState(ctx, v.Id, StatePaid)

		// then
		assert.ErrorIs(t, err, ErrInvalidTransition)
		stored, err := f.repo.GetValorization(ctx, v.Id)
		require.NoError(t, err)
		assert.Equal(t, StateDraft, stored.State)
	})

	t.Run("should fail for an unknown valorization", func(t *testing.T) {
		f := setupService(t)

		_, err := f.service.ChangeState(ctx, 404, StateSubmitted)

		assert.ErrorIs(t, err, ErrValorizationNotFound)
	})
}
