package timeentry

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/aiburn/aiburn/internal/event_bus"
	"github.com/aiburn/aiburn/internal/utils"
	"github.com/aiburn/aiburn/pkg/initiative"
	"github.com/aiburn/aiburn/pkg/user"
	log "github.com/sirupsen/logrus"
)

var ErrInvalidPersonDays = fmt.Errorf("personDays must be a finite number in (0, %g]", MaxPersonDays)

type TimeEntryService interface {
	// LogTime records personDays against an initiative for the week
	// containing weekOf. Submitting twice for the same week adds up.
	LogTime(ctx context.Context, initiativeId int, personDays float64, weekOf time.Time, note string) (TimeEntry, error)
	// RecentForUser returns the caller's entries of the last weeksBack
	// weeks joined with initiative names, newest first.
	RecentForUser(ctx context.Context, weeksBack int) ([]EnrichedTimeEntry, error)
}

type TimeEntryServiceImpl struct {
	repo        TimeEntryRepo
	initiatives initiative.InitiativeService
	bus         *event_bus.EventBus
	clock       utils.Clock
}

func NewTimeEntryService(
	repo TimeEntryRepo,
	initiatives initiative.InitiativeService,
	bus *event_bus.EventBus,
	clock utils.Clock,
) *TimeEntryServiceImpl {
	return &TimeEntryServiceImpl{repo: repo, initiatives: initiatives, bus: bus, clock: clock}
}

func (s *TimeEntryServiceImpl) LogTime(ctx context.Context, initiativeId int, personDays float64, weekOf time.Time, note string) (TimeEntry, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return TimeEntry{}, fmt.Errorf("failed to get current user: %w", err)
	}

	if math.IsNaN(personDays) || math.IsInf(personDays, 0) || personDays <= 0 || personDays > MaxPersonDays {
		return TimeEntry{}, ErrInvalidPersonDays
	}

	// Scopes the write to the caller's organization and gives the event its
	// initiative name.
	target, err := s.initiatives.Get(ctx, initiativeId)
	if err != nil {
		return TimeEntry{}, err
	}

	entry := TimeEntry{
		UserId:       userId,
		InitiativeId: target.Id,
		PersonDays:   personDays,
		WeekOf:       utils.StartOfWeek(weekOf),
		Note:         note,
	}
	merged, err := s.repo.UpsertAdditive(ctx, entry)
	if err != nil {
		return TimeEntry{}, err
	}
	log.Debugf("logged %.2f person-days on initiative %d for week %s (total now %.2f)",
		personDays, target.Id, merged.WeekOf.Format("2006-01-02"), merged.PersonDays)

	if pubErr := s.bus.Publish(event_bus.NewEvent(ctx, event_bus.TimeLoggedEvent, event_bus.TimeLogged{
		UserId:         userId,
		InitiativeId:   target.Id,
		InitiativeName: target.Name,
		PersonDays:     personDays,
		WeekOf:         merged.WeekOf,
	})); pubErr != nil {
		log.Warnf("failed to publish time logged event: %v", pubErr)
	}

	return merged, nil
}

func (s *TimeEntryServiceImpl) RecentForUser(ctx context.Context, weeksBack int) ([]EnrichedTimeEntry, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	if weeksBack <= 0 {
		weeksBack = 4
	}

	cutoff := s.clock.Now().UTC().AddDate(0, 0, -7*weeksBack)
	entries, err := s.repo.FindRecentByUser(ctx, userId, cutoff)
	if err != nil {
		return nil, err
	}

	initiatives, err := s.initiatives.List(ctx)
	if err != nil {
		return nil, err
	}
	namesById := make(map[int]string, len(initiatives))
	for _, i := range initiatives {
		namesById[i.Id] = i.Name
	}

	enriched := make([]EnrichedTimeEntry, 0, len(entries))
	for _, entry := range entries {
		name, ok := namesById[entry.InitiativeId]
		if !ok {
			name = "Unknown"
		}
		enriched = append(enriched, EnrichedTimeEntry{TimeEntry: entry, InitiativeName: name})
	}
	return enriched, nil
}

// ResolveByName finds an organization's initiative by case-insensitive name.
// Used by transports that carry names instead of ids (Slack).
func ResolveByName(initiatives []initiative.Initiative, name string) (initiative.Initiative, bool) {
	for _, i := range initiatives {
		if strings.EqualFold(i.Name, name) {
			return i, true
		}
	}
	return initiative.Initiative{}, false
}
