package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var ErrUserNotFound = errors.New("user not found")

type Repo interface {
	FindById(ctx context.Context, id string) (User, error)
	FindBySlackId(ctx context.Context, slackUserId string, slackTeamId string) (User, error)
}

type RepoImpl struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *RepoImpl {
	return &RepoImpl{db: db}
}

const userColumns = `id, display_name, organization_id, role, COALESCE(slack_user_id, ''), COALESCE(slack_team_id, '')`

func (r *RepoImpl) FindById(ctx context.Context, id string) (User, error) {
	query := fmt.Sprintf(`SELECT %s FROM app_user WHERE id = $1`, userColumns)
	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

func (r *RepoImpl) FindBySlackId(ctx context.Context, slackUserId string, slackTeamId string) (User, error) {
	query := fmt.Sprintf(`SELECT %s FROM app_user WHERE slack_user_id = $1 AND slack_team_id = $2`, userColumns)
	return r.scanOne(r.db.QueryRow(ctx, query, slackUserId, slackTeamId))
}

func (r *RepoImpl) scanOne(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.Id, &u.DisplayName, &u.OrganizationId, &u.Role, &u.SlackUserId, &u.SlackTeamId)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		err = fmt.Errorf("could not scan user: %w", err)
		log.Error(err)
		return User{}, err
	}
	return u, nil
}
