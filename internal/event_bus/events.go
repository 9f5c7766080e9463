package event_bus

import "time"

const (
	TimeLoggedEvent         EventType = "finance.time_logged"
	InitiativeApprovedEvent EventType = "finance.initiative_approved"
)

type TimeLogged struct {
	UserId         string
	InitiativeId   int
	InitiativeName string
	PersonDays     float64
	WeekOf         time.Time
}

type InitiativeApproved struct {
	InitiativeId   int
	InitiativeName string
	ApprovedById   string
}
