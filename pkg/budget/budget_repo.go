package budget

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var ErrBudgetNotFound = errors.New("budget period not found")

type BudgetRepo interface {
	// Store stores a new BudgetPeriod and returns its id.
	Store(ctx context.Context, period BudgetPeriod) (int, error)
	FindById(ctx context.Context, organizationId int, id int) (BudgetPeriod, error)
	// FindActive returns the budget period containing "at" for the organization.
	// When overlapping periods exist the one with the latest start wins.
	// Returns ErrBudgetNotFound when no period is active.
	FindActive(ctx context.Context, organizationId int, at time.Time) (BudgetPeriod, error)
	FindAllByOrganization(ctx context.Context, organizationId int) ([]BudgetPeriod, error)
}

type BudgetRepoImpl struct {
	db *pgxpool.Pool
}

func NewBudgetRepo(db *pgxpool.Pool) *BudgetRepoImpl {
	return &BudgetRepoImpl{db: db}
}

func (r *BudgetRepoImpl) Store(ctx context.Context, period BudgetPeriod) (int, error) {
	query := `INSERT INTO budget_period (organization_id, total_person_days, period_start, period_end)
			  VALUES ($1, $2, $3, $4) RETURNING id`

	var id int
	err := r.db.QueryRow(ctx, query,
		period.OrganizationId,
		period.TotalPersonDays,
		period.PeriodStart,
		period.PeriodEnd,
	).Scan(&id)
	if err != nil {
		err = fmt.Errorf("could not store budget period: %w", err)
		log.Error(err)
		return 0, err
	}
	return id, nil
}

func (r *BudgetRepoImpl) FindById(ctx context.Context, organizationId int, id int) (BudgetPeriod, error) {
	query := `SELECT id, organization_id, total_person_days, period_start, period_end
			  FROM budget_period WHERE id = $1 AND organization_id = $2`
	return r.scanOne(r.db.QueryRow(ctx, query, id, organizationId))
}

func (r *BudgetRepoImpl) FindActive(ctx context.Context, organizationId int, at time.Time) (BudgetPeriod, error) {
	query := `SELECT id, organization_id, total_person_days, period_start, period_end
			  FROM budget_period
			  WHERE organization_id = $1 AND period_start <= $2 AND period_end >= $2
			  ORDER BY period_start DESC
			  LIMIT 1`
	return r.scanOne(r.db.QueryRow(ctx, query, organizationId, at))
}

func (r *BudgetRepoImpl) FindAllByOrganization(ctx context.Context, organizationId int) ([]BudgetPeriod, error) {
	query := `SELECT id, organization_id, total_person_days, period_start, period_end
			  FROM budget_period
			  WHERE organization_id = $1
			  ORDER BY period_start DESC`
	rows, err := r.db.Query(ctx, query, organizationId)
	if err != nil {
		err = fmt.Errorf("could not query budget periods: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var periods []BudgetPeriod
	for rows.Next() {
		var period BudgetPeriod
		if err := rows.Scan(
			&period.Id,
			&period.OrganizationId,
			&period.TotalPersonDays,
			&period.PeriodStart,
			&period.PeriodEnd,
		); err != nil {
			err = fmt.Errorf("could not scan budget period: %w", err)
			log.Error(err)
			return nil, err
		}
		periods = append(periods, period)
	}
	if err := rows.Err(); err != nil {
		err = fmt.Errorf("error iterating over budget periods: %w", err)
		log.Error(err)
		return nil, err
	}
	return periods, nil
}

func (r *BudgetRepoImpl) scanOne(row pgx.Row) (BudgetPeriod, error) {
	var period BudgetPeriod
	err := row.Scan(
		&period.Id,
		&period.OrganizationId,
		&period.TotalPersonDays,
		&period.PeriodStart,
		&period.PeriodEnd,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return BudgetPeriod{}, ErrBudgetNotFound
	}
	if err != nil {
		err = fmt.Errorf("could not scan budget period: %w", err)
		log.Error(err)
		return BudgetPeriod{}, err
	}
	return period, nil
}
