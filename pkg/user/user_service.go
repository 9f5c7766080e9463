package user

import "context"

type Service interface {
	GetUserById(ctx context.Context, id string) (User, error)
	GetUserBySlackId(ctx context.Context, slackUserId string, slackTeamId string) (User, error)
}

type ServiceImpl struct {
	repo Repo
}

func NewService(repo Repo) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) GetUserById(ctx context.Context, id string) (User, error) {
	return s.repo.FindById(ctx, id)
}

func (s *ServiceImpl) GetUserBySlackId(ctx context.Context, slackUserId string, slackTeamId string) (User, error) {
	return s.repo.FindBySlackId(ctx, slackUserId, slackTeamId)
}
