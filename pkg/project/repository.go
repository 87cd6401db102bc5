package project

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	GetProject(ctx context.Context, id int) (Project, error)
	CreateProject(ctx context.Context, p Project) (Project, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) GetProject(ctx context.Context, id int) (Project, error) {
	query := `SELECT id, code, name, start_date, end_date, contract_amount::text
			  FROM project WHERE id = $1`
	var p Project
	var contractAmount *string
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.Id,
		&p.Code,
		&p.Name,
		&p.StartDate,
		&p.EndDate,
		&contractAmount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Project{}, ErrProjectNotFound
		}
		log.Errorf("failed to get project %d: %v", id, err)
		return Project{}, fmt.Errorf("could not get project: %w", err)
	}
	if contractAmount != nil {
		amount, err := decimal.NewFromString(*contractAmount)
		if err != nil {
			return Project{}, fmt.Errorf("could not parse contract amount: %w", err)
		}
		p.ContractAmount = &amount
	}
	return p, nil
}

func (r *RepositoryImpl) CreateProject(ctx context.Context, p Project) (Project, error) {
	query := `INSERT INTO project (code, name, start_date, end_date, contract_amount)
			  VALUES ($1, $2, $3, $4, $5::numeric) RETURNING id`
	var contractAmount *string
	if p.ContractAmount != nil {
		s := p.ContractAmount.String()
		contractAmount = &s
	}
	err := r.db.QueryRow(ctx, query, p.Code, p.Name, dateOnly(p.StartDate), nullableDate(p.EndDate), contractAmount).Scan(&p.Id)
	if err != nil {
		log.Errorf("failed to create project: %v", err)
		return Project{}, fmt.Errorf("could not create project: %w", err)
	}
	return p, nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func nullableDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := dateOnly(*t)
	return &d
}
