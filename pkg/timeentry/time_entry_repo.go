package timeentry

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

type TimeEntryRepo interface {
	// UpsertAdditive inserts the entry or, when a row for the same
	// (user, initiative, week) already exists, adds the submitted
	// person-days to it. The merge is a single conditional write so
	// concurrent submissions cannot lose an increment.
	UpsertAdditive(ctx context.Context, entry TimeEntry) (TimeEntry, error)
	FindAllByInitiative(ctx context.Context, initiativeId int) ([]TimeEntry, error)
	FindAllByOrganizationAndPeriod(ctx context.Context, organizationId int, from, to time.Time) ([]TimeEntry, error)
	SumByInitiativeAndPeriod(ctx context.Context, initiativeId int, from, to time.Time) (float64, error)
	SumByOrganizationAndPeriod(ctx context.Context, organizationId int, from, to time.Time) (float64, error)
	// FindRecentByUser returns the user's entries with week_of at or after
	// the cutoff, newest week first.
	FindRecentByUser(ctx context.Context, userId string, cutoff time.Time) ([]TimeEntry, error)
}

type TimeEntryRepoImpl struct {
	db *pgxpool.Pool
}

func NewTimeEntryRepo(db *pgxpool.Pool) *TimeEntryRepoImpl {
	return &TimeEntryRepoImpl{db: db}
}

func (r *TimeEntryRepoImpl) UpsertAdditive(ctx context.Context, entry TimeEntry) (TimeEntry, error) {
	query := `INSERT INTO time_entry (user_id, initiative_id, person_days, week_of, note)
			  VALUES ($1, $2, $3, $4, NULLIF($5, ''))
			  ON CONFLICT (user_id, initiative_id, week_of)
			  DO UPDATE SET person_days = time_entry.person_days + EXCLUDED.person_days,
			                note = COALESCE(EXCLUDED.note, time_entry.note)
			  RETURNING id, person_days, COALESCE(note, '')`

	err := r.db.QueryRow(ctx, query,
		entry.UserId,
		entry.InitiativeId,
		entry.PersonDays,
		entry.WeekOf,
		entry.Note,
	).Scan(&entry.Id, &entry.PersonDays, &entry.Note)
	if err != nil {
		err = fmt.Errorf("could not upsert time entry: %w", err)
		log.Error(err)
		return TimeEntry{}, err
	}
	return entry, nil
}

func (r *TimeEntryRepoImpl) FindAllByInitiative(ctx context.Context, initiativeId int) ([]TimeEntry, error) {
	query := `SELECT id, user_id, initiative_id, person_days, week_of, COALESCE(note, '')
			  FROM time_entry
			  WHERE initiative_id = $1
			  ORDER BY week_of DESC`
	return r.queryMany(ctx, query, initiativeId)
}

func (r *TimeEntryRepoImpl) FindAllByOrganizationAndPeriod(ctx context.Context, organizationId int, from, to time.Time) ([]TimeEntry, error) {
	query := `SELECT te.id, te.user_id, te.initiative_id, te.person_days, te.week_of, COALESCE(te.note, '')
			  FROM time_entry te
			  JOIN initiative i ON te.initiative_id = i.id
			  WHERE i.organization_id = $1 AND te.week_of >= $2 AND te.week_of <= $3
			  ORDER BY te.week_of`
	return r.queryMany(ctx, query, organizationId, from, to)
}

func (r *TimeEntryRepoImpl) SumByInitiativeAndPeriod(ctx context.Context, initiativeId int, from, to time.Time) (float64, error) {
	query := `SELECT COALESCE(SUM(person_days), 0)
			  FROM time_entry
			  WHERE initiative_id = $1 AND week_of >= $2 AND week_of <= $3`
	var total float64
	if err := r.db.QueryRow(ctx, query, initiativeId, from, to).Scan(&total); err != nil {
		err = fmt.Errorf("could not sum time entries for initiative: %w", err)
		log.Error(err)
		return 0, err
	}
	return total, nil
}

func (r *TimeEntryRepoImpl) SumByOrganizationAndPeriod(ctx context.Context, organizationId int, from, to time.Time) (float64, error) {
	query := `SELECT COALESCE(SUM(te.person_days), 0)
			  FROM time_entry te
			  JOIN initiative i ON te.initiative_id = i.id
			  WHERE i.organization_id = $1 AND te.week_of >= $2 AND te.week_of <= $3`
	var total float64
	if err := r.db.QueryRow(ctx, query, organizationId, from, to).Scan(&total); err != nil {
		err = fmt.Errorf("could not sum time entries for organization: %w", err)
		log.Error(err)
		return 0, err
	}
	return total, nil
}

func (r *TimeEntryRepoImpl) FindRecentByUser(ctx context.Context, userId string, cutoff time.Time) ([]TimeEntry, error) {
	query := `SELECT id, user_id, initiative_id, person_days, week_of, COALESCE(note, '')
			  FROM time_entry
			  WHERE user_id = $1 AND week_of >= $2
			  ORDER BY week_of DESC`
	return r.queryMany(ctx, query, userId, cutoff)
}

func (r *TimeEntryRepoImpl) queryMany(ctx context.Context, query string, args ...any) ([]TimeEntry, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		err = fmt.Errorf("could not query time entries: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var entries []TimeEntry
	for rows.Next() {
		var entry TimeEntry
		if err := rows.Scan(
			&entry.Id,
			&entry.UserId,
			&entry.InitiativeId,
			&entry.PersonDays,
			&entry.WeekOf,
			&entry.Note,
		); err != nil {
			err = fmt.Errorf("could not scan time entry: %w", err)
			log.Error(err)
			return nil, err
		}
		entry.WeekOf = entry.WeekOf.UTC()
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		err = fmt.Errorf("error iterating over time entries: %w", err)
		log.Error(err)
		return nil, err
	}
	return entries, nil
}
