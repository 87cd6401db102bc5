package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

var ErrScheduleNotFound = errors.New("schedule not found")

type Repository interface {
	WithTransaction(ctx context.Context, fn func(repo Repository) error) error
	GetSchedule(ctx context.Context, projectId int, id int) (Schedule, error)
	// GetBaseline returns the project's baseline schedule or ErrScheduleNotFound.
	GetBaseline(ctx context.Context, projectId int) (Schedule, error)
	// GetLatest returns the most recently created schedule of the project or ErrScheduleNotFound.
	GetLatest(ctx context.Context, projectId int) (Schedule, error)
	ListSchedules(ctx context.Context, projectId int) ([]Schedule, error)
	// ListEligibleTasks returns the schedule's tasks having both dates and a resource.
	ListEligibleTasks(ctx context.Context, scheduleId int) ([]Task, error)
	CreateSchedule(ctx context.Context, s Schedule) (Schedule, error)
	CreateResource(ctx context.Context, r Resource) (Resource, error)
	CreateTask(ctx context.Context, t Task) (Task, error)
	clearBaseline(ctx context.Context, projectId int) error
	markBaseline(ctx context.Context, projectId int, scheduleId int) error
}

type repositoryImpl struct {
	db *pgxpool.Pool
	tx pgx.Tx
}

func NewRepo(db *pgxpool.Pool) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) getQueryer() interface {
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) pgx.Row
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func (r *repositoryImpl) WithTransaction(ctx context.Context, fn func(repo Repository) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		// no-op once committed
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			log.Errorf("rollback error: %v", rbErr)
		}
	}()

	if err := fn(&repositoryImpl{db: r.db, tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

const scheduleColumns = `id, project_id, name, is_baseline, created_at`

func (r *repositoryImpl) GetSchedule(ctx context.Context, projectId int, id int) (Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedule WHERE project_id = $1 AND id = $2`
	return r.scanOne(r.getQueryer().QueryRow(ctx, query, projectId, id))
}

func (r *repositoryImpl) GetBaseline(ctx context.Context, projectId int) (Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedule WHERE project_id = $1 AND is_baseline`
	return r.scanOne(r.getQueryer().QueryRow(ctx, query, projectId))
}

func (r *repositoryImpl) GetLatest(ctx context.Context, projectId int) (Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedule WHERE project_id = $1
			  ORDER BY created_at DESC, id DESC LIMIT 1`
	return r.scanOne(r.getQueryer().QueryRow(ctx, query, projectId))
}

func (r *repositoryImpl) scanOne(row pgx.Row) (Schedule, error) {
	var s Schedule
	err := row.Scan(&s.Id, &s.ProjectId, &s.Name, &s.IsBaseline, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Schedule{}, ErrScheduleNotFound
		}
		return Schedule{}, fmt.Errorf("could not get schedule: %w", err)
	}
	return s, nil
}

func (r *repositoryImpl) ListSchedules(ctx context.Context, projectId int) ([]Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedule WHERE project_id = $1 ORDER BY created_at, id`
	rows, err := r.getQueryer().Query(ctx, query, projectId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schedules []Schedule
	for rows.Next() {
		var s Schedule
		if err := rows.Scan(&s.Id, &s.ProjectId, &s.Name, &s.IsBaseline, &s.CreatedAt); err != nil {
			return nil, err
		}
		schedules = append(schedules, s)
	}
	return schedules, rows.Err()
}

func (r *repositoryImpl) ListEligibleTasks(ctx context.Context, scheduleId int) ([]Task, error) {
	query := `SELECT
				t.id,
				t.schedule_id,
				t.name,
				t.start_date,
				t.end_date,
				t.estimated_hours::text,
				t.estimated_headcount,
				res.id,
				res.name,
				res.type,
				res.hourly_cost::text
			  FROM task t
			  JOIN resource res ON res.id = t.resource_id
			  WHERE t.schedule_id = $1 AND t.start_date IS NOT NULL AND t.end_date IS NOT NULL
			  ORDER BY t.start_date, t.id`
	rows, err := r.getQueryer().Query(ctx, query, scheduleId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		var task Task
		var start, end time.Time
		var hours, hourlyCost, resourceType string
		var resource Resource
		if err := rows.Scan(
			&task.Id,
			&task.ScheduleId,
			&task.Name,
			&start,
			&end,
			&hours,
			&task.EstimatedHeadcount,
			&resource.Id,
			&resource.Name,
			&resourceType,
			&hourlyCost,
		); err != nil {
			return nil, err
		}
		if task.EstimatedHours, err = decimal.NewFromString(hours); err != nil {
			return nil, fmt.Errorf("could not parse estimated hours of task %d: %w", task.Id, err)
		}
		if resource.HourlyCost, err = decimal.NewFromString(hourlyCost); err != nil {
			return nil, fmt.Errorf("could not parse hourly cost of resource %d: %w", resource.Id, err)
		}
		resource.Type = ResourceType(resourceType)
		task.StartDate = &start
		task.EndDate = &end
		task.Resource = &resource
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func (r *repositoryImpl) CreateSchedule(ctx context.Context, s Schedule) (Schedule, error) {
	query := `INSERT INTO schedule (project_id, name, is_baseline) VALUES ($1, $2, $3) RETURNING id, created_at`
	err := r.getQueryer().QueryRow(ctx, query, s.ProjectId, s.Name, s.IsBaseline).Scan(&s.Id, &s.CreatedAt)
	if err != nil {
		return Schedule{}, fmt.Errorf("could not create schedule: %w", err)
	}
	return s, nil
}

func (r *repositoryImpl) CreateResource(ctx context.Context, res Resource) (Resource, error) {
	query := `INSERT INTO resource (name, type, hourly_cost) VALUES ($1, $2, $3::numeric) RETURNING id`
	err := r.getQueryer().QueryRow(ctx, query, res.Name, string(res.Type), res.HourlyCost.String()).Scan(&res.Id)
	if err != nil {
		return Resource{}, fmt.Errorf("could not create resource: %w", err)
	}
	return res, nil
}

func (r *repositoryImpl) CreateTask(ctx context.Context, t Task) (Task, error) {
	query := `INSERT INTO task (schedule_id, name, start_date, end_date, estimated_hours, estimated_headcount, resource_id)
			  VALUES ($1, $2, $3, $4, $5::numeric, $6, $7) RETURNING id`
	var resourceId *int
	if t.Resource != nil {
		resourceId = &t.Resource.Id
	}
	err := r.getQueryer().QueryRow(ctx, query,
		t.ScheduleId,
		t.Name,
		t.StartDate,
		t.EndDate,
		t.EstimatedHours.String(),
		t.EstimatedHeadcount,
		resourceId,
	).Scan(&t.Id)
	if err != nil {
		return Task{}, fmt.Errorf("could not create task: %w", err)
	}
	return t, nil
}

func (r *repositoryImpl) clearBaseline(ctx context.Context, projectId int) error {
	query := `UPDATE schedule SET is_baseline = FALSE WHERE project_id = $1 AND is_baseline`
	_, err := r.getQueryer().Exec(ctx, query, projectId)
	return err
}

func (r *repositoryImpl) markBaseline(ctx context.Context, projectId int, scheduleId int) error {
	query := `UPDATE schedule SET is_baseline = TRUE WHERE project_id = $1 AND id = $2`
	result, err := r.getQueryer().Exec(ctx, query, projectId, scheduleId)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrScheduleNotFound
	}
	return nil
}
