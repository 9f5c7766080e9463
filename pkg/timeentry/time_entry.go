package timeentry

import "time"

// MaxPersonDays is the single authoritative per-entry ceiling, enforced at
// the logging gateway for every transport (HTTP and Slack alike).
const MaxPersonDays = 5.0

// TimeEntry is one user's logged effort on one initiative for one week.
// At most one entry exists per (user, initiative, week); repeated
// submissions merge additively into PersonDays.
type TimeEntry struct {
	Id           int
	UserId       string
	InitiativeId int
	PersonDays   float64
	// WeekOf is always the Monday 00:00:00 UTC of the entry's week.
	WeekOf time.Time
	Note   string
}

// EnrichedTimeEntry is a TimeEntry joined with its initiative's name, the
// shape the coaching collaborator consumes.
type EnrichedTimeEntry struct {
	TimeEntry
	InitiativeName string
}
