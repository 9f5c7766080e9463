package initiative

import (
	"context"
	"sort"
)

type StubInitiativeRepo struct {
	nextId int
	data   map[int]Initiative
}

func NewStubInitiativeRepo() *StubInitiativeRepo {
	return &StubInitiativeRepo{data: map[int]Initiative{}}
}

func (s *StubInitiativeRepo) Store(ctx context.Context, initiative Initiative) (int, error) {
	s.nextId++
	initiative.Id = s.nextId
	s.data[initiative.Id] = initiative
	return initiative.Id, nil
}

func (s *StubInitiativeRepo) FindByIdAndOrganization(ctx context.Context, organizationId int, id int) (Initiative, error) {
	initiative, ok := s.data[id]
	if !ok || initiative.OrganizationId != organizationId {
		return Initiative{}, ErrInitiativeNotFound
	}
	return initiative, nil
}

func (s *StubInitiativeRepo) FindAllByOrganization(ctx context.Context, organizationId int) ([]Initiative, error) {
	var initiatives []Initiative
	for _, initiative := range s.data {
		if initiative.OrganizationId == organizationId {
			initiatives = append(initiatives, initiative)
		}
	}
	sort.Slice(initiatives, func(i, j int) bool { return initiatives[i].Id < initiatives[j].Id })
	return initiatives, nil
}

func (s *StubInitiativeRepo) FindDefaultByOrganization(ctx context.Context, organizationId int) (Initiative, error) {
	for _, initiative := range s.data {
		if initiative.OrganizationId == organizationId && initiative.IsDefaultBucket {
			return initiative, nil
		}
	}
	return Initiative{}, ErrInitiativeNotFound
}

func (s *StubInitiativeRepo) FindPendingByOrganization(ctx context.Context, organizationId int) ([]Initiative, error) {
	all, _ := s.FindAllByOrganization(ctx, organizationId)
	var pending []Initiative
	for _, initiative := range all {
		if initiative.Status == StatusProposed {
			pending = append(pending, initiative)
		}
	}
	return pending, nil
}

func (s *StubInitiativeRepo) Approve(ctx context.Context, organizationId int, id int, approvedById string) (bool, error) {
	initiative, ok := s.data[id]
	if !ok || initiative.OrganizationId != organizationId || initiative.Status != StatusProposed {
		return false, nil
	}
	initiative.Status = StatusApproved
	initiative.ApprovedById = approvedById
	s.data[id] = initiative
	return true, nil
}

func (s *StubInitiativeRepo) Reject(ctx context.Context, organizationId int, id int) (bool, error) {
	initiative, ok := s.data[id]
	if !ok || initiative.OrganizationId != organizationId || initiative.Status != StatusProposed {
		return false, nil
	}
	initiative.Status = StatusStopped
	s.data[id] = initiative
	return true, nil
}

func (s *StubInitiativeRepo) Pause(ctx context.Context, organizationId int, id int) (bool, error) {
	initiative, ok := s.data[id]
	if !ok || initiative.OrganizationId != organizationId || initiative.IsDefaultBucket {
		return false, nil
	}
	initiative.Status = StatusPaused
	s.data[id] = initiative
	return true, nil
}

func (s *StubInitiativeRepo) Cleanup() {
	s.data = map[int]Initiative{}
}
