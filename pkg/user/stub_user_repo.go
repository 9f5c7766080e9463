package user

import "context"

type StubRepo struct {
	data map[string]User
}

func NewStubRepo() *StubRepo {
	return &StubRepo{data: map[string]User{}}
}

func (s *StubRepo) Add(u User) {
	s.data[u.Id] = u
}

func (s *StubRepo) FindById(ctx context.Context, id string) (User, error) {
	u, ok := s.data[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return u, nil
}

func (s *StubRepo) FindBySlackId(ctx context.Context, slackUserId string, slackTeamId string) (User, error) {
	for _, u := range s.data {
		if u.SlackUserId == slackUserId && u.SlackTeamId == slackTeamId {
			return u, nil
		}
	}
	return User{}, ErrUserNotFound
}

func (s *StubRepo) Cleanup() {
	s.data = map[string]User{}
}
