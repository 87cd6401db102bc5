package valorization

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	ListByProject(ctx context.Context, projectId int) ([]Valorization, error)
	// ListRecognized returns the project's valorizations in client_approved, invoiced or paid state.
	ListRecognized(ctx context.Context, projectId int) ([]Valorization, error)
	GetValorization(ctx context.Context, id int) (Valorization, error)
	CreateValorization(ctx context.Context, v Valorization) (Valorization, error)
	// UpdateState moves a valorization to next only if it is still in state current.
	UpdateState(ctx context.Context, id int, current ApprovalState, next ApprovalState) (Valorization, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const valorizationColumns = `id, project_id, period_start, period_end, amount::text, state, created_at`

func (r *RepositoryImpl) ListByProject(ctx context.Context, projectId int) ([]Valorization, error) {
	query := `SELECT ` + valorizationColumns + ` FROM valorization
			  WHERE project_id = $1 ORDER BY period_end, id`
	rows, err := r.db.Query(ctx, query, projectId)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func (r *RepositoryImpl) ListRecognized(ctx context.Context, projectId int) ([]Valorization, error) {
	states := make([]string, 0, 3)
	for _, s := range RecognizedStates() {
		states = append(states, string(s))
	}
	query := `SELECT ` + valorizationColumns + ` FROM valorization
			  WHERE project_id = $1 AND state = ANY($2) ORDER BY period_end, id`
	rows, err := r.db.Query(ctx, query, projectId, states)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func (r *RepositoryImpl) GetValorization(ctx context.Context, id int) (Valorization, error) {
	query := `SELECT ` + valorizationColumns + ` FROM valorization WHERE id = $1`
	v, err := scan(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Valorization{}, ErrValorizationNotFound
		}
		return Valorization{}, fmt.Errorf("could not get valorization %d: %w", id, err)
	}
	return v, nil
}

func (r *RepositoryImpl) CreateValorization(ctx context.Context, v Valorization) (Valorization, error) {
	query := `INSERT INTO valorization (project_id, period_start, period_end, amount, state)
			  VALUES ($1, $2, $3, $4::numeric, $5)
			  RETURNING ` + valorizationColumns
	created, err := scan(r.db.QueryRow(ctx, query,
		v.ProjectId,
		v.PeriodStart,
		v.PeriodEnd,
		v.Amount.String(),
		string(v.State),
	))
	if err != nil {
		log.Errorf("failed to create valorization for project %d: %v", v.ProjectId, err)
		return Valorization{}, fmt.Errorf("could not create valorization: %w", err)
	}
	return created, nil
}

func (r *RepositoryImpl) UpdateState(ctx context.Context, id int, current ApprovalState, next ApprovalState) (Valorization, error) {
	query := `UPDATE valorization SET state = $3 WHERE id = $1 AND state = $2
			  RETURNING ` + valorizationColumns
	v, err := scan(r.db.QueryRow(ctx, query, id, string(current), string(next)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Either missing or changed concurrently.
			return Valorization{}, ErrValorizationNotFound
		}
		return Valorization{}, fmt.Errorf("could not update valorization %d: %w", id, err)
	}
	return v, nil
}

func collect(rows pgx.Rows) ([]Valorization, error) {
	defer rows.Close()
	var result []Valorization
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	return result, rows.Err()
}

func scan(row pgx.Row) (Valorization, error) {
	var v Valorization
	var amount, state string
	err := row.Scan(&v.Id, &v.ProjectId, &v.PeriodStart, &v.PeriodEnd, &amount, &state, &v.CreatedAt)
	if err != nil {
		return Valorization{}, err
	}
	v.State = ApprovalState(state)
	v.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return Valorization{}, fmt.Errorf("could not parse amount of valorization %d: %w", v.Id, err)
	}
	return v, nil
}
