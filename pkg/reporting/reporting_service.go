package reporting

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/aiburn/aiburn/internal/utils"
	"github.com/aiburn/aiburn/pkg/budget"
	"github.com/aiburn/aiburn/pkg/initiative"
	"github.com/aiburn/aiburn/pkg/timeentry"
	"github.com/aiburn/aiburn/pkg/user"
	log "github.com/sirupsen/logrus"
)

const (
	// weeksForBurnRate caps the averaging window so a long-idle period does
	// not dilute the recent burn rate.
	weeksForBurnRate = 4
	// staleWeeksThreshold is how long an initiative may go without entries
	// before it is flagged.
	staleWeeksThreshold    = 2
	budgetWarningThreshold = 0.8
)

// Reader ports. The repos in pkg/budget, pkg/initiative and pkg/timeentry
// satisfy these; tests substitute in-memory stubs.
type BudgetReader interface {
	FindActive(ctx context.Context, organizationId int, at time.Time) (budget.BudgetPeriod, error)
}

type InitiativeReader interface {
	FindAllByOrganization(ctx context.Context, organizationId int) ([]initiative.Initiative, error)
	FindPendingByOrganization(ctx context.Context, organizationId int) ([]initiative.Initiative, error)
}

type LedgerReader interface {
	FindAllByInitiative(ctx context.Context, initiativeId int) ([]timeentry.TimeEntry, error)
	FindAllByOrganizationAndPeriod(ctx context.Context, organizationId int, from, to time.Time) ([]timeentry.TimeEntry, error)
	SumByInitiativeAndPeriod(ctx context.Context, initiativeId int, from, to time.Time) (float64, error)
	SumByOrganizationAndPeriod(ctx context.Context, organizationId int, from, to time.Time) (float64, error)
}

type Overview struct {
	BudgetSummary    *BudgetSummary
	BurnByInitiative []InitiativeBurn
	WeeklyTrend      []WeeklyTrendPoint
	Signals          []Signal
	Initiatives      []initiative.Initiative
}

type ReportingService interface {
	// GetBudgetSummary returns nil without error when no budget is active.
	GetBudgetSummary(ctx context.Context) (*BudgetSummary, error)
	GetBurnByInitiative(ctx context.Context, from, to time.Time) ([]InitiativeBurn, error)
	GetWeeklyTrend(ctx context.Context, from, to time.Time) ([]WeeklyTrendPoint, error)
	GetSignals(ctx context.Context) ([]Signal, error)
	// GetOverview assembles the whole reporting payload. The burn/trend
	// period defaults to the active budget's interval, or the current
	// calendar month when no budget is active.
	GetOverview(ctx context.Context) (Overview, error)
}

type ReportingServiceImpl struct {
	budgets     BudgetReader
	initiatives InitiativeReader
	ledger      LedgerReader
	clock       utils.Clock
}

func NewReportingService(budgets BudgetReader, initiatives InitiativeReader, ledger LedgerReader, clock utils.Clock) *ReportingServiceImpl {
	return &ReportingServiceImpl{budgets: budgets, initiatives: initiatives, ledger: ledger, clock: clock}
}

func (s *ReportingServiceImpl) GetBudgetSummary(ctx context.Context) (*BudgetSummary, error) {
	organizationId, err := user.CurrentOrganizationId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}

	now := s.clock.Now().UTC()
	period, err := s.budgets.FindActive(ctx, organizationId, now)
	if errors.Is(err, budget.ErrBudgetNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	consumed, err := s.ledger.SumByOrganizationAndPeriod(ctx, organizationId, period.PeriodStart, period.PeriodEnd)
	if err != nil {
		return nil, err
	}

	remaining := period.TotalPersonDays - consumed
	burnRate := calculateBurnRate(period, consumed, now)
	forecast := calculateForecastDate(period, remaining, burnRate, now)

	return &BudgetSummary{
		TotalPersonDays:        period.TotalPersonDays,
		ConsumedPersonDays:     consumed,
		RemainingPersonDays:    remaining,
		BurnRate:               burnRate,
		ForecastExhaustionDate: forecast,
	}, nil
}

func (s *ReportingServiceImpl) GetBurnByInitiative(ctx context.Context, from, to time.Time) ([]InitiativeBurn, error) {
	organizationId, err := user.CurrentOrganizationId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}

	initiatives, err := s.initiatives.FindAllByOrganization(ctx, organizationId)
	if err != nil {
		return nil, err
	}

	burns := make([]InitiativeBurn, 0, len(initiatives))
	for _, i := range initiatives {
		consumed, err := s.ledger.SumByInitiativeAndPeriod(ctx, i.Id, from, to)
		if err != nil {
			return nil, err
		}
		// zero-consumption rows are kept so dashboards can still list
		// inactive initiatives
		burns = append(burns, InitiativeBurn{
			InitiativeId:       i.Id,
			InitiativeName:     i.Name,
			PersonDaysConsumed: consumed,
			IsDefaultBucket:    i.IsDefaultBucket,
		})
	}

	sort.SliceStable(burns, func(a, b int) bool {
		if burns[a].PersonDaysConsumed != burns[b].PersonDaysConsumed {
			return burns[a].PersonDaysConsumed > burns[b].PersonDaysConsumed
		}
		return burns[a].InitiativeId < burns[b].InitiativeId
	})
	return burns, nil
}

func (s *ReportingServiceImpl) GetWeeklyTrend(ctx context.Context, from, to time.Time) ([]WeeklyTrendPoint, error) {
	organizationId, err := user.CurrentOrganizationId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}

	initiatives, err := s.initiatives.FindAllByOrganization(ctx, organizationId)
	if err != nil {
		return nil, err
	}
	defaultBucketIds := map[int]bool{}
	for _, i := range initiatives {
		if i.IsDefaultBucket {
			defaultBucketIds[i.Id] = true
		}
	}

	entries, err := s.ledger.FindAllByOrganizationAndPeriod(ctx, organizationId, from, to)
	if err != nil {
		return nil, err
	}

	byWeek := map[time.Time]*WeeklyTrendPoint{}
	for _, entry := range entries {
		point, ok := byWeek[entry.WeekOf]
		if !ok {
			point = &WeeklyTrendPoint{WeekOf: entry.WeekOf}
			byWeek[entry.WeekOf] = point
		}
		if defaultBucketIds[entry.InitiativeId] {
			point.ExplorationPersonDays += entry.PersonDays
		} else {
			point.StructuredPersonDays += entry.PersonDays
		}
		point.TotalPersonDays += entry.PersonDays
	}

	points := make([]WeeklyTrendPoint, 0, len(byWeek))
	for _, point := range byWeek {
		points = append(points, *point)
	}
	sort.Slice(points, func(a, b int) bool { return points[a].WeekOf.Before(points[b].WeekOf) })
	return points, nil
}

func (s *ReportingServiceImpl) GetSignals(ctx context.Context) ([]Signal, error) {
	organizationId, err := user.CurrentOrganizationId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}

	signals := []Signal{}

	pending, err := s.initiatives.FindPendingByOrganization(ctx, organizationId)
	if err != nil {
		return nil, err
	}
	for _, proposal := range pending {
		signals = append(signals, Signal{
			Type:         SignalPendingProposal,
			InitiativeId: proposal.Id,
			Message:      fmt.Sprintf("%q is awaiting approval", proposal.Name),
		})
	}

	now := s.clock.Now().UTC()
	period, err := s.budgets.FindActive(ctx, organizationId, now)
	if errors.Is(err, budget.ErrBudgetNotFound) {
		// Budget warning and staleness are only meaningful inside an active
		// period.
		return signals, nil
	}
	if err != nil {
		return nil, err
	}

	consumed, err := s.ledger.SumByOrganizationAndPeriod(ctx, organizationId, period.PeriodStart, period.PeriodEnd)
	if err != nil {
		return nil, err
	}
	if period.TotalPersonDays > 0 {
		utilization := consumed / period.TotalPersonDays
		if utilization >= budgetWarningThreshold {
			signals = append(signals, Signal{
				Type:    SignalBudgetWarning,
				Message: fmt.Sprintf("Budget is %d%% consumed", int(math.Round(utilization*100))),
			})
		}
	}

	stale, err := s.findStaleInitiatives(ctx, organizationId, now)
	if err != nil {
		return nil, err
	}
	signals = append(signals, stale...)

	return signals, nil
}

func (s *ReportingServiceImpl) GetOverview(ctx context.Context) (Overview, error) {
	organizationId, err := user.CurrentOrganizationId(ctx)
	if err != nil {
		return Overview{}, fmt.Errorf("failed to get current user: %w", err)
	}

	now := s.clock.Now().UTC()
	from := utils.StartOfMonth(now)
	to := utils.EndOfMonth(now)
	period, err := s.budgets.FindActive(ctx, organizationId, now)
	if err == nil {
		from = period.PeriodStart
		to = period.PeriodEnd
	} else if !errors.Is(err, budget.ErrBudgetNotFound) {
		return Overview{}, err
	}

	summary, err := s.GetBudgetSummary(ctx)
	if err != nil {
		return Overview{}, err
	}
	burns, err := s.GetBurnByInitiative(ctx, from, to)
	if err != nil {
		return Overview{}, err
	}
	trend, err := s.GetWeeklyTrend(ctx, from, to)
	if err != nil {
		return Overview{}, err
	}
	signals, err := s.GetSignals(ctx)
	if err != nil {
		return Overview{}, err
	}
	initiatives, err := s.initiatives.FindAllByOrganization(ctx, organizationId)
	if err != nil {
		return Overview{}, err
	}

	log.Debugf("reporting overview for organization %d: %d initiatives, %d signals", organizationId, len(initiatives), len(signals))

	return Overview{
		BudgetSummary:    summary,
		BurnByInitiative: burns,
		WeeklyTrend:      trend,
		Signals:          signals,
		Initiatives:      initiatives,
	}, nil
}

func (s *ReportingServiceImpl) findStaleInitiatives(ctx context.Context, organizationId int, now time.Time) ([]Signal, error) {
	initiatives, err := s.initiatives.FindAllByOrganization(ctx, organizationId)
	if err != nil {
		return nil, err
	}

	cutoff := now.AddDate(0, 0, -7*staleWeeksThreshold)
	var signals []Signal
	for _, i := range initiatives {
		if i.IsDefaultBucket || i.Terminal() {
			continue
		}
		entries, err := s.ledger.FindAllByInitiative(ctx, i.Id)
		if err != nil {
			return nil, err
		}
		if len(entries) == 0 {
			// never started is a different condition than stale
			continue
		}
		recent := false
		for _, entry := range entries {
			if !entry.WeekOf.Before(cutoff) {
				recent = true
				break
			}
		}
		if !recent {
			signals = append(signals, Signal{
				Type:         SignalStaleInitiative,
				InitiativeId: i.Id,
				Message:      fmt.Sprintf("%q has had no activity for %d+ weeks", i.Name, staleWeeksThreshold),
			})
		}
	}
	return signals, nil
}

// calculateBurnRate averages consumption per week since the period started,
// clamping the denominator to [1, weeksForBurnRate].
func calculateBurnRate(period budget.BudgetPeriod, consumed float64, now time.Time) float64 {
	weeksSinceStart := int(math.Floor(now.Sub(period.PeriodStart).Hours() / (7 * 24)))
	if weeksSinceStart < 1 {
		weeksSinceStart = 1
	}
	if weeksSinceStart > weeksForBurnRate {
		weeksSinceStart = weeksForBurnRate
	}
	return consumed / float64(weeksSinceStart)
}

// calculateForecastDate projects when the budget runs out at the current
// burn rate. Only exhaustion within the period is reported; running out
// after the period ends is not a signal.
func calculateForecastDate(period budget.BudgetPeriod, remaining float64, burnRate float64, now time.Time) *time.Time {
	if burnRate <= 0 || remaining <= 0 {
		return nil
	}
	weeksRemaining := remaining / burnRate
	// Compare in weeks before building the date; a huge weeksRemaining
	// (barely-touched budget at a trickle burn rate) would overflow
	// time.Duration.
	weeksUntilPeriodEnd := period.PeriodEnd.Sub(now).Hours() / (7 * 24)
	if weeksRemaining > weeksUntilPeriodEnd {
		return nil
	}
	exhaustion := now.Add(time.Duration(weeksRemaining * 7 * 24 * float64(time.Hour)))
	return &exhaustion
}
