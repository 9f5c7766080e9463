package timeentry

import (
	"context"
	"sort"
	"time"
)

type entryKey struct {
	userId       string
	initiativeId int
	weekOf       time.Time
}

// StubTimeEntryRepo keeps entries in memory, preserving the additive upsert
// uniqueness invariant. Organization scoping follows an injected
// initiative→organization mapping since the real schema resolves it by join.
type StubTimeEntryRepo struct {
	nextId            int
	data              map[entryKey]TimeEntry
	orgByInitiativeId map[int]int
}

func NewStubTimeEntryRepo() *StubTimeEntryRepo {
	return &StubTimeEntryRepo{
		data:              map[entryKey]TimeEntry{},
		orgByInitiativeId: map[int]int{},
	}
}

// MapInitiative registers which organization an initiative belongs to.
func (s *StubTimeEntryRepo) MapInitiative(initiativeId int, organizationId int) {
	s.orgByInitiativeId[initiativeId] = organizationId
}

func (s *StubTimeEntryRepo) UpsertAdditive(ctx context.Context, entry TimeEntry) (TimeEntry, error) {
	key := entryKey{entry.UserId, entry.InitiativeId, entry.WeekOf}
	if existing, ok := s.data[key]; ok {
		existing.PersonDays += entry.PersonDays
		if entry.Note != "" {
			existing.Note = entry.Note
		}
		s.data[key] = existing
		return existing, nil
	}
	s.nextId++
	entry.Id = s.nextId
	s.data[key] = entry
	return entry, nil
}

func (s *StubTimeEntryRepo) FindAllByInitiative(ctx context.Context, initiativeId int) ([]TimeEntry, error) {
	var entries []TimeEntry
	for _, entry := range s.data {
		if entry.InitiativeId == initiativeId {
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].WeekOf.After(entries[j].WeekOf) })
	return entries, nil
}

func (s *StubTimeEntryRepo) FindAllByOrganizationAndPeriod(ctx context.Context, organizationId int, from, to time.Time) ([]TimeEntry, error) {
	var entries []TimeEntry
	for _, entry := range s.data {
		if s.orgByInitiativeId[entry.InitiativeId] != organizationId {
			continue
		}
		if entry.WeekOf.Before(from) || entry.WeekOf.After(to) {
			continue
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].WeekOf.Before(entries[j].WeekOf) })
	return entries, nil
}

func (s *StubTimeEntryRepo) SumByInitiativeAndPeriod(ctx context.Context, initiativeId int, from, to time.Time) (float64, error) {
	total := 0.0
	for _, entry := range s.data {
		if entry.InitiativeId != initiativeId {
			continue
		}
		if entry.WeekOf.Before(from) || entry.WeekOf.After(to) {
			continue
		}
		total += entry.PersonDays
	}
	return total, nil
}

func (s *StubTimeEntryRepo) SumByOrganizationAndPeriod(ctx context.Context, organizationId int, from, to time.Time) (float64, error) {
	total := 0.0
	for _, entry := range s.data {
		if s.orgByInitiativeId[entry.InitiativeId] != organizationId {
			continue
		}
		if entry.WeekOf.Before(from) || entry.WeekOf.After(to) {
			continue
		}
		total += entry.PersonDays
	}
	return total, nil
}

func (s *StubTimeEntryRepo) FindRecentByUser(ctx context.Context, userId string, cutoff time.Time) ([]TimeEntry, error) {
	var entries []TimeEntry
	for _, entry := range s.data {
		if entry.UserId == userId && !entry.WeekOf.Before(cutoff) {
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].WeekOf.After(entries[j].WeekOf) })
	return entries, nil
}

func (s *StubTimeEntryRepo) Cleanup() {
	s.data = map[entryKey]TimeEntry{}
	s.orgByInitiativeId = map[int]int{}
}
