package initiative

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var ErrInitiativeNotFound = errors.New("initiative not found")

type InitiativeRepo interface {
	Store(ctx context.Context, initiative Initiative) (int, error)
	FindByIdAndOrganization(ctx context.Context, organizationId int, id int) (Initiative, error)
	FindAllByOrganization(ctx context.Context, organizationId int) ([]Initiative, error)
	FindDefaultByOrganization(ctx context.Context, organizationId int) (Initiative, error)
	FindPendingByOrganization(ctx context.Context, organizationId int) ([]Initiative, error)
	// Approve moves a proposed initiative to approved. Returns false when
	// the initiative does not exist or is not in proposed status.
	Approve(ctx context.Context, organizationId int, id int, approvedById string) (bool, error)
	// Reject moves a proposed initiative to stopped. Returns false when the
	// initiative does not exist or is not in proposed status.
	Reject(ctx context.Context, organizationId int, id int) (bool, error)
	// Pause moves an initiative to paused from any status. The default
	// bucket is never paused; Pause returns false for it.
	Pause(ctx context.Context, organizationId int, id int) (bool, error)
}

type InitiativeRepoImpl struct {
	db *pgxpool.Pool
}

func NewInitiativeRepo(db *pgxpool.Pool) *InitiativeRepoImpl {
	return &InitiativeRepoImpl{db: db}
}

const initiativeColumns = `id, organization_id, name, COALESCE(description, ''), status, is_default_bucket,
	COALESCE(proposed_by_id, ''), COALESCE(approved_by_id, '')`

func (r *InitiativeRepoImpl) Store(ctx context.Context, initiative Initiative) (int, error) {
	query := `INSERT INTO initiative (organization_id, name, description, status, is_default_bucket, proposed_by_id)
			  VALUES ($1, $2, NULLIF($3, ''), $4, $5, NULLIF($6, ''))
			  RETURNING id`

	var id int
	err := r.db.QueryRow(ctx, query,
		initiative.OrganizationId,
		initiative.Name,
		initiative.Description,
		initiative.Status,
		initiative.IsDefaultBucket,
		initiative.ProposedById,
	).Scan(&id)
	if err != nil {
		err = fmt.Errorf("could not store initiative: %w", err)
		log.Error(err)
		return 0, err
	}
	return id, nil
}

func (r *InitiativeRepoImpl) FindByIdAndOrganization(ctx context.Context, organizationId int, id int) (Initiative, error) {
	query := fmt.Sprintf(`SELECT %s FROM initiative WHERE id = $1 AND organization_id = $2`, initiativeColumns)
	return r.scanOne(r.db.QueryRow(ctx, query, id, organizationId))
}

func (r *InitiativeRepoImpl) FindAllByOrganization(ctx context.Context, organizationId int) ([]Initiative, error) {
	query := fmt.Sprintf(`SELECT %s FROM initiative WHERE organization_id = $1 ORDER BY id`, initiativeColumns)
	return r.queryMany(ctx, query, organizationId)
}

func (r *InitiativeRepoImpl) FindDefaultByOrganization(ctx context.Context, organizationId int) (Initiative, error) {
	query := fmt.Sprintf(`SELECT %s FROM initiative WHERE organization_id = $1 AND is_default_bucket`, initiativeColumns)
	return r.scanOne(r.db.QueryRow(ctx, query, organizationId))
}

func (r *InitiativeRepoImpl) FindPendingByOrganization(ctx context.Context, organizationId int) ([]Initiative, error) {
	query := fmt.Sprintf(`SELECT %s FROM initiative WHERE organization_id = $1 AND status = 'proposed' ORDER BY id`, initiativeColumns)
	return r.queryMany(ctx, query, organizationId)
}

func (r *InitiativeRepoImpl) Approve(ctx context.Context, organizationId int, id int, approvedById string) (bool, error) {
	query := `UPDATE initiative SET status = 'approved', approved_by_id = $1
			  WHERE id = $2 AND organization_id = $3 AND status = 'proposed'`
	tag, err := r.db.Exec(ctx, query, approvedById, id, organizationId)
	if err != nil {
		err = fmt.Errorf("could not approve initiative: %w", err)
		log.Error(err)
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *InitiativeRepoImpl) Reject(ctx context.Context, organizationId int, id int) (bool, error) {
	query := `UPDATE initiative SET status = 'stopped'
			  WHERE id = $1 AND organization_id = $2 AND status = 'proposed'`
	tag, err := r.db.Exec(ctx, query, id, organizationId)
	if err != nil {
		err = fmt.Errorf("could not reject initiative: %w", err)
		log.Error(err)
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *InitiativeRepoImpl) Pause(ctx context.Context, organizationId int, id int) (bool, error) {
	query := `UPDATE initiative SET status = 'paused'
			  WHERE id = $1 AND organization_id = $2 AND NOT is_default_bucket`
	tag, err := r.db.Exec(ctx, query, id, organizationId)
	if err != nil {
		err = fmt.Errorf("could not pause initiative: %w", err)
		log.Error(err)
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *InitiativeRepoImpl) queryMany(ctx context.Context, query string, args ...any) ([]Initiative, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		err = fmt.Errorf("could not query initiatives: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var initiatives []Initiative
	for rows.Next() {
		var initiative Initiative
		if err := rows.Scan(
			&initiative.Id,
			&initiative.OrganizationId,
			&initiative.Name,
			&initiative.Description,
			&initiative.Status,
			&initiative.IsDefaultBucket,
			&initiative.ProposedById,
			&initiative.ApprovedById,
		); err != nil {
			err = fmt.Errorf("could not scan initiative: %w", err)
			log.Error(err)
			return nil, err
		}
		initiatives = append(initiatives, initiative)
	}
	if err := rows.Err(); err != nil {
		err = fmt.Errorf("error iterating over initiatives: %w", err)
		log.Error(err)
		return nil, err
	}
	return initiatives, nil
}

func (r *InitiativeRepoImpl) scanOne(row pgx.Row) (Initiative, error) {
	var initiative Initiative
	err := row.Scan(
		&initiative.Id,
		&initiative.OrganizationId,
		&initiative.Name,
		&initiative.Description,
		&initiative.Status,
		&initiative.IsDefaultBucket,
		&initiative.ProposedById,
		&initiative.ApprovedById,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Initiative{}, ErrInitiativeNotFound
	}
	if err != nil {
		err = fmt.Errorf("could not scan initiative: %w", err)
		log.Error(err)
		return Initiative{}, err
	}
	return initiative, nil
}
