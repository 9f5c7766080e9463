package budget

import "time"

// BudgetPeriod is an organization's allocation of person-days for a fixed
// interval. At most one period contains any given instant; this is enforced
// by query, not by a database constraint, so callers must tolerate zero
// active periods.
type BudgetPeriod struct {
	Id              int
	OrganizationId  int
	TotalPersonDays float64
	PeriodStart     time.Time
	PeriodEnd       time.Time
}

// Contains reports whether t falls within the period. Both ends are
// inclusive.
func (b BudgetPeriod) Contains(t time.Time) bool {
	return !t.Before(b.PeriodStart) && !t.After(b.PeriodEnd)
}
