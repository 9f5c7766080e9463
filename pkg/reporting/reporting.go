package reporting

import "time"

// BudgetSummary is the derived view of the active budget period. Remaining
// person-days are deliberately not clamped at zero so overruns stay visible.
type BudgetSummary struct {
	TotalPersonDays        float64
	ConsumedPersonDays     float64
	RemainingPersonDays    float64
	BurnRate               float64
	ForecastExhaustionDate *time.Time
}

type InitiativeBurn struct {
	InitiativeId       int
	InitiativeName     string
	PersonDaysConsumed float64
	IsDefaultBucket    bool
}

// WeeklyTrendPoint splits one week's total into time logged against the
// default bucket (exploration) versus everything else (structured). Weeks
// without entries produce no point.
type WeeklyTrendPoint struct {
	WeekOf                time.Time
	ExplorationPersonDays float64
	StructuredPersonDays  float64
	TotalPersonDays       float64
}

type SignalType string

const (
	SignalPendingProposal SignalType = "pending_proposal"
	SignalBudgetWarning   SignalType = "budget_warning"
	SignalStaleInitiative SignalType = "stale_initiative"
)

// Signal is an attention-worthy condition. InitiativeId is zero for signals
// not tied to a single initiative (the budget warning).
type Signal struct {
	Type         SignalType
	InitiativeId int
	Message      string
}
