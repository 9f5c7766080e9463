package budget

import (
	"context"
	"time"
)

type StubBudgetRepo struct {
	nextId int
	data   map[int]BudgetPeriod
}

func NewStubBudgetRepo() *StubBudgetRepo {
	return &StubBudgetRepo{data: map[int]BudgetPeriod{}}
}

func (s *StubBudgetRepo) Store(ctx context.Context, period BudgetPeriod) (int, error) {
	s.nextId++
	period.Id = s.nextId
	s.data[period.Id] = period
	return period.Id, nil
}

func (s *StubBudgetRepo) FindById(ctx context.Context, organizationId int, id int) (BudgetPeriod, error) {
	period, ok := s.data[id]
	if !ok || period.OrganizationId != organizationId {
		return BudgetPeriod{}, ErrBudgetNotFound
	}
	return period, nil
}

func (s *StubBudgetRepo) FindActive(ctx context.Context, organizationId int, at time.Time) (BudgetPeriod, error) {
	found := BudgetPeriod{}
	ok := false
	for _, period := range s.data {
		if period.OrganizationId != organizationId || !period.Contains(at) {
			continue
		}
		if !ok || period.PeriodStart.After(found.PeriodStart) {
			found = period
			ok = true
		}
	}
	if !ok {
		return BudgetPeriod{}, ErrBudgetNotFound
	}
	return found, nil
}

func (s *StubBudgetRepo) FindAllByOrganization(ctx context.Context, organizationId int) ([]BudgetPeriod, error) {
	var periods []BudgetPeriod
	for _, period := range s.data {
		if period.OrganizationId == organizationId {
			periods = append(periods, period)
		}
	}
	for i := 0; i < len(periods); i++ {
		for j := i + 1; j < len(periods); j++ {
			if periods[j].PeriodStart.After(periods[i].PeriodStart) {
				periods[i], periods[j] = periods[j], periods[i]
			}
		}
	}
	return periods, nil
}

func (s *StubBudgetRepo) Cleanup() {
	s.data = map[int]BudgetPeriod{}
}
