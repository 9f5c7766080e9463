package initiative

import (
	"context"
	"errors"
	"fmt"

	"github.com/aiburn/aiburn/internal/event_bus"
	"github.com/aiburn/aiburn/pkg/user"
	log "github.com/sirupsen/logrus"
)

const (
	defaultBucketName        = "AI Experimentation"
	defaultBucketDescription = "Open exploration bucket for AI tools, workflows, and ideas"
)

var (
	// ErrNotEligible marks an illegal state transition, e.g. approving an
	// initiative that is not proposed, or pausing the default bucket.
	ErrNotEligible = errors.New("initiative is not eligible for this transition")
	ErrForbidden   = errors.New("operation requires admin role")
	ErrInvalidName = errors.New("initiative name must not be empty")
)

type InitiativeService interface {
	// EnsureDefaultBucket creates the organization's default exploration
	// bucket if it does not exist yet. Idempotent.
	EnsureDefaultBucket(ctx context.Context) (Initiative, error)
	Propose(ctx context.Context, name string, description string) (Initiative, error)
	Approve(ctx context.Context, id int) (Initiative, error)
	Reject(ctx context.Context, id int) (Initiative, error)
	Pause(ctx context.Context, id int) (Initiative, error)
	List(ctx context.Context) ([]Initiative, error)
	ListPending(ctx context.Context) ([]Initiative, error)
	Get(ctx context.Context, id int) (Initiative, error)
}

type InitiativeServiceImpl struct {
	repo InitiativeRepo
	bus  *event_bus.EventBus
}

func NewInitiativeService(repo InitiativeRepo, bus *event_bus.EventBus) *InitiativeServiceImpl {
	return &InitiativeServiceImpl{repo: repo, bus: bus}
}

func (s *InitiativeServiceImpl) EnsureDefaultBucket(ctx context.Context) (Initiative, error) {
	organizationId, err := user.CurrentOrganizationId(ctx)
	if err != nil {
		return Initiative{}, fmt.Errorf("failed to get current user: %w", err)
	}

	existing, err := s.repo.FindDefaultByOrganization(ctx, organizationId)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrInitiativeNotFound) {
		return Initiative{}, err
	}

	bucket := Initiative{
		OrganizationId:  organizationId,
		Name:            defaultBucketName,
		Description:     defaultBucketDescription,
		Status:          StatusExploration,
		IsDefaultBucket: true,
	}
	id, err := s.repo.Store(ctx, bucket)
	if err != nil {
		return Initiative{}, err
	}
	bucket.Id = id
	log.Infof("created default bucket %d for organization %d", id, organizationId)
	return bucket, nil
}

func (s *InitiativeServiceImpl) Propose(ctx context.Context, name string, description string) (Initiative, error) {
	u, err := user.CurrentUser(ctx)
	if err != nil {
		return Initiative{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if name == "" {
		return Initiative{}, ErrInvalidName
	}

	initiative := Initiative{
		OrganizationId: u.OrganizationId,
		Name:           name,
		Description:    description,
		Status:         StatusProposed,
		ProposedById:   u.Id,
	}
	id, err := s.repo.Store(ctx, initiative)
	if err != nil {
		return Initiative{}, err
	}
	initiative.Id = id
	return initiative, nil
}

func (s *InitiativeServiceImpl) Approve(ctx context.Context, id int) (Initiative, error) {
	u, err := user.CurrentUser(ctx)
	if err != nil {
		return Initiative{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if !u.IsAdmin() {
		return Initiative{}, ErrForbidden
	}

	// Existence check first so a missing initiative is a 404, not a 409.
	if _, err := s.repo.FindByIdAndOrganization(ctx, u.OrganizationId, id); err != nil {
		return Initiative{}, err
	}

	ok, err := s.repo.Approve(ctx, u.OrganizationId, id, u.Id)
	if err != nil {
		return Initiative{}, err
	}
	if !ok {
		return Initiative{}, ErrNotEligible
	}

	approved, err := s.repo.FindByIdAndOrganization(ctx, u.OrganizationId, id)
	if err != nil {
		return Initiative{}, err
	}

	if pubErr := s.bus.Publish(event_bus.NewEvent(ctx, event_bus.InitiativeApprovedEvent, event_bus.InitiativeApproved{
		InitiativeId:   approved.Id,
		InitiativeName: approved.Name,
		ApprovedById:   u.Id,
	})); pubErr != nil {
		log.Warnf("failed to publish initiative approved event: %v", pubErr)
	}

	return approved, nil
}

func (s *InitiativeServiceImpl) Reject(ctx context.Context, id int) (Initiative, error) {
	u, err := user.CurrentUser(ctx)
	if err != nil {
		return Initiative{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if !u.IsAdmin() {
		return Initiative{}, ErrForbidden
	}

	if _, err := s.repo.FindByIdAndOrganization(ctx, u.OrganizationId, id); err != nil {
		return Initiative{}, err
	}

	ok, err := s.repo.Reject(ctx, u.OrganizationId, id)
	if err != nil {
		return Initiative{}, err
	}
	if !ok {
		return Initiative{}, ErrNotEligible
	}
	return s.repo.FindByIdAndOrganization(ctx, u.OrganizationId, id)
}

func (s *InitiativeServiceImpl) Pause(ctx context.Context, id int) (Initiative, error) {
	u, err := user.CurrentUser(ctx)
	if err != nil {
		return Initiative{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if !u.IsAdmin() {
		return Initiative{}, ErrForbidden
	}

	if _, err := s.repo.FindByIdAndOrganization(ctx, u.OrganizationId, id); err != nil {
		return Initiative{}, err
	}

	ok, err := s.repo.Pause(ctx, u.OrganizationId, id)
	if err != nil {
		return Initiative{}, err
	}
	if !ok {
		// The only initiative Pause refuses is the default bucket.
		return Initiative{}, ErrNotEligible
	}
	return s.repo.FindByIdAndOrganization(ctx, u.OrganizationId, id)
}

func (s *InitiativeServiceImpl) List(ctx context.Context) ([]Initiative, error) {
	organizationId, err := user.CurrentOrganizationId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.FindAllByOrganization(ctx, organizationId)
}

func (s *InitiativeServiceImpl) ListPending(ctx context.Context) ([]Initiative, error) {
	organizationId, err := user.CurrentOrganizationId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.FindPendingByOrganization(ctx, organizationId)
}

func (s *InitiativeServiceImpl) Get(ctx context.Context, id int) (Initiative, error) {
	organizationId, err := user.CurrentOrganizationId(ctx)
	if err != nil {
		return Initiative{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.FindByIdAndOrganization(ctx, organizationId, id)
}
