package schedule

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/valoriza/valoriza/internal/test_utils"
	"github.com/valoriza/valoriza/pkg/project"
)

var pgContainer *postgres.PostgresContainer
var openDb func() *pgxpool.Pool

func TestMain(m *testing.M) {
	pgContainer, openDb = test_utils.TestWithDB()
	code := m.Run()
	if err := testcontainers.TerminateContainer(pgContainer); err != nil {
		log.Errorf("failed to terminate container: %s", err)
	}
	os.Exit(code)
}

func setupTestRepository(t *testing.T) (context.Context, Repository, int) {
	ctx := context.Background()
	db := openDb()
	t.Cleanup(func() {
		db.Close()
		err := pgContainer.Restore(ctx)
		require.NoError(t, err)
	})
	p, err := project.NewRepository(db).CreateProject(ctx, project.Project{
		Code:      "P-001",
		Name:      "Bridge",
		StartDate: time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return ctx, NewRepo(db), p.Id
}

func date(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

func TestRepositoryImpl_SetBaseline(t *testing.T) {
	t.Run("should keep a single baseline per project", func(t *testing.T) {
		// given
		ctx, repo, projectId := setupTestRepository(t)
		first, err := repo.CreateSchedule(ctx, Schedule{ProjectId: projectId, Name: "v1", IsBaseline: true})
		require.NoError(t, err)
		second, err := repo.CreateSchedule(ctx, Schedule{ProjectId: projectId, Name: "v2"})
		require.NoError(t, err)

		// when
		err = repo.WithTransaction(ctx, func(tx Repository) error {
			if err := tx.clearBaseline(ctx, projectId); err != nil {
				return err
			}
			return tx.markBaseline(ctx, projectId, second.Id)
		})

		// then
		require.NoError(t, err)
		baseline, err := repo.GetBaseline(ctx, projectId)
		require.NoError(t, err)
		assert.Equal(t, second.Id, baseline.Id)
		previous, err := repo.GetSchedule(ctx, projectId, first.Id)
		require.NoError(t, err)
		assert.False(t, previous.IsBaseline)
	})

	t.Run("should roll back when the schedule does not exist", func(t *testing.T) {
		// given
		ctx, repo, projectId := setupTestRepository(t)
		first, err := repo.CreateSchedule(ctx, Schedule{ProjectId: projectId, Name: "v1", IsBaseline: true})
		require.NoError(t, err)

		// when
		err = repo.WithTransaction(ctx, func(tx Repository) error {
			if err := tx.clearBaseline(ctx, projectId); err != nil {
				return err
			}
			return tx.markBaseline(ctx, projectId, first.Id+100)
		})

		// then
		assert.ErrorIs(t, err, ErrScheduleNotFound)
		baseline, err := repo.GetBaseline(ctx, projectId)
		require.NoError(t, err)
		assert.Equal(t, first.Id, baseline.Id)
	})
}

func TestRepositoryImpl_GetLatest(t *testing.T) {
	t.Run("should return the most recent schedule", func(t *testing.T) {
		ctx, repo, projectId := setupTestRepository(t)
		_, err := repo.CreateSchedule(ctx, Schedule{ProjectId: projectId, Name: "v1"})
		require.NoError(t, err)
		second, err := repo.CreateSchedule(ctx, Schedule{ProjectId: projectId, Name: "v2"})
		require.NoError(t, err)

		latest, err := repo.GetLatest(ctx, projectId)

		require.NoError(t, err)
		assert.Equal(t, second.Id, latest.Id)
	})

	t.Run("should return not found without schedules", func(t *testing.T) {
		ctx, repo, projectId := setupTestRepository(t)

		_, err := repo.GetLatest(ctx, projectId)

		assert.ErrorIs(t, err, ErrScheduleNotFound)
	})
}

func TestRepositoryImpl_ListEligibleTasks(t *testing.T) {
	t.Run("should only return tasks with dates and a resource", func(t *testing.T) {
		// given
		ctx, repo, projectId := setupTestRepository(t)
		s, err := repo.CreateSchedule(ctx, Schedule{ProjectId: projectId, Name: "v1"})
		require.NoError(t, err)
		crew, err := repo.CreateResource(ctx, Resource{Name: "Crew A", Type: CrewResource, HourlyCost: decimal.RequireFromString("85.50")})
		require.NoError(t, err)
		_, err = repo.CreateTask(ctx, Task{
			ScheduleId:         s.Id,
			Name:               "Foundations",
			StartDate:          date(2025, 1, 6),
			EndDate:            date(2025, 1, 17),
			EstimatedHours:     decimal.NewFromInt(80),
			EstimatedHeadcount: 4,
			Resource:           &crew,
		})
		require.NoError(t, err)
		_, err = repo.CreateTask(ctx, Task{ScheduleId: s.Id, Name: "Undated", Resource: &crew, EstimatedHeadcount: 1})
		require.NoError(t, err)
		_, err = repo.CreateTask(ctx, Task{ScheduleId: s.Id, Name: "Unassigned", StartDate: date(2025, 1, 6), EndDate: date(2025, 1, 7), EstimatedHeadcount: 1})
		require.NoError(t, err)

		// when
		tasks, err := repo.ListEligibleTasks(ctx, s.Id)

		// then
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, "Foundations", tasks[0].Name)
		assert.True(t, tasks[0].IsEligible())
		assert.Equal(t, CrewResource, tasks[0].Resource.Type)
		assert.True(t, decimal.RequireFromString("6840").Equal(tasks[0].PlannedCost()))
	})
}
