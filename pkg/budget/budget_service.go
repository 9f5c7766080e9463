package budget

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aiburn/aiburn/internal/utils"
	"github.com/aiburn/aiburn/pkg/user"
	log "github.com/sirupsen/logrus"
)

var (
	ErrForbidden     = errors.New("operation requires admin role")
	ErrInvalidPeriod = errors.New("invalid budget period")
)

type BudgetService interface {
	// Create stores a new budget period for the caller's organization.
	// Admin only.
	Create(ctx context.Context, totalPersonDays float64, periodStart, periodEnd time.Time) (BudgetPeriod, error)
	// GetActive returns the budget period containing the current instant,
	// or (nil, nil) when none is active.
	GetActive(ctx context.Context) (*BudgetPeriod, error)
	History(ctx context.Context) ([]BudgetPeriod, error)
}

type BudgetServiceImpl struct {
	repo  BudgetRepo
	clock utils.Clock
}

func NewBudgetService(repo BudgetRepo, clock utils.Clock) *BudgetServiceImpl {
	return &BudgetServiceImpl{repo: repo, clock: clock}
}

func (s *BudgetServiceImpl) Create(ctx context.Context, totalPersonDays float64, periodStart, periodEnd time.Time) (BudgetPeriod, error) {
	u, err := user.CurrentUser(ctx)
	if err != nil {
		return BudgetPeriod{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if !u.IsAdmin() {
		return BudgetPeriod{}, ErrForbidden
	}
	if totalPersonDays <= 0 {
		return BudgetPeriod{}, fmt.Errorf("%w: totalPersonDays must be positive", ErrInvalidPeriod)
	}
	if periodEnd.Before(periodStart) {
		return BudgetPeriod{}, fmt.Errorf("%w: periodEnd before periodStart", ErrInvalidPeriod)
	}

	period := BudgetPeriod{
		OrganizationId:  u.OrganizationId,
		TotalPersonDays: totalPersonDays,
		PeriodStart:     periodStart.UTC(),
		PeriodEnd:       periodEnd.UTC(),
	}
	id, err := s.repo.Store(ctx, period)
	if err != nil {
		return BudgetPeriod{}, err
	}
	period.Id = id
	log.Infof("created budget period %d for organization %d (%.1f person-days)", id, u.OrganizationId, totalPersonDays)
	return period, nil
}

func (s *BudgetServiceImpl) GetActive(ctx context.Context) (*BudgetPeriod, error) {
	organizationId, err := user.CurrentOrganizationId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	period, err := s.repo.FindActive(ctx, organizationId, s.clock.Now())
	if errors.Is(err, ErrBudgetNotFound) {
		// A missing active budget is a valid state, not an error.
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &period, nil
}

func (s *BudgetServiceImpl) History(ctx context.Context) ([]BudgetPeriod, error) {
	organizationId, err := user.CurrentOrganizationId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.FindAllByOrganization(ctx, organizationId)
}
