package initiative

import (
	"context"
	"testing"

	"github.com/aiburn/aiburn/internal/event_bus"
	"github.com/aiburn/aiburn/pkg/user"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var repoStub = NewStubInitiativeRepo()
var bus = event_bus.NewEventBus()

var adminId = uuid.NewString()
var memberId = uuid.NewString()

func setup(t *testing.T) (InitiativeService, context.Context, context.Context, func()) {
	service := NewInitiativeService(repoStub, bus)
	adminCtx := user.WithUser(context.Background(), user.User{
		Id:             adminId,
		DisplayName:    "Admin User",
		OrganizationId: 1,
		Role:           user.RoleAdmin,
	})
	memberCtx := user.WithUser(context.Background(), user.User{
		Id:             memberId,
		DisplayName:    "Member User",
		OrganizationId: 1,
		Role:           user.RoleMember,
	})
	return service, adminCtx, memberCtx, func() {
		t.Log("Teardown after test")
		repoStub.Cleanup()
	}
}

func TestInitiativeServiceImpl_EnsureDefaultBucket(t *testing.T) {
	t.Run("creates the bucket on first call", func(t *testing.T) {
		service, _, memberCtx, teardown := setup(t)
		defer teardown()

		bucket, err := service.EnsureDefaultBucket(memberCtx)

		require.NoError(t, err)
		assert.Equal(t, "AI Experimentation", bucket.Name)
		assert.Equal(t, StatusExploration, bucket.Status)
		assert.True(t, bucket.IsDefaultBucket)
	})

	t.Run("is idempotent", func(t *testing.T) {
		service, _, memberCtx, teardown := setup(t)
		defer teardown()

		first, err := service.EnsureDefaultBucket(memberCtx)
		require.NoError(t, err)
		second, err := service.EnsureDefaultBucket(memberCtx)
		require.NoError(t, err)

		assert.Equal(t, first.Id, second.Id)

		all, err := service.List(memberCtx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})
}

func TestInitiativeServiceImpl_Propose(t *testing.T) {
	t.Run("creates a proposed initiative with the proposer recorded", func(t *testing.T) {
		service, _, memberCtx, teardown := setup(t)
		defer teardown()

		created, err := service.Propose(memberCtx, "Prompt library", "Shared prompt collection")

		require.NoError(t, err)
		assert.Equal(t, StatusProposed, created.Status)
		assert.Equal(t, memberId, created.ProposedById)
		assert.False(t, created.IsDefaultBucket)
	})

	t.Run("rejects empty names", func(t *testing.T) {
		service, _, memberCtx, teardown := setup(t)
		defer teardown()

		_, err := service.Propose(memberCtx, "", "")

		assert.ErrorIs(t, err, ErrInvalidName)
	})
}

func TestInitiativeServiceImpl_Approve(t *testing.T) {
	t.Run("moves a proposed initiative to approved and records the approver", func(t *testing.T) {
		service, adminCtx, memberCtx, teardown := setup(t)
		defer teardown()

		proposed, err := service.Propose(memberCtx, "Prompt library", "")
		require.NoError(t, err)

		approved, err := service.Approve(adminCtx, proposed.Id)

		require.NoError(t, err)
		assert.Equal(t, StatusApproved, approved.Status)
		assert.Equal(t, adminId, approved.ApprovedById)
	})

	t.Run("publishes an approval event", func(t *testing.T) {
		service, adminCtx, memberCtx, teardown := setup(t)
		defer teardown()

		var received []event_bus.InitiativeApproved
		unsubscribe := event_bus.SubscribeTyped(bus, event_bus.InitiativeApprovedEvent,
			func(e event_bus.EventT[event_bus.InitiativeApproved]) error {
				received = append(received, e.Data)
				return nil
			})
		defer unsubscribe()

		proposed, err := service.Propose(memberCtx, "Prompt library", "")
		require.NoError(t, err)
		_, err = service.Approve(adminCtx, proposed.Id)
		require.NoError(t, err)

		require.Len(t, received, 1)
		assert.Equal(t, proposed.Id, received[0].InitiativeId)
		assert.Equal(t, "Prompt library", received[0].InitiativeName)
	})

	t.Run("is not eligible from approved status", func(t *testing.T) {
		service, adminCtx, memberCtx, teardown := setup(t)
		defer teardown()

		proposed, err := service.Propose(memberCtx, "Prompt library", "")
		require.NoError(t, err)
		_, err = service.Approve(adminCtx, proposed.Id)
		require.NoError(t, err)

		_, err = service.Approve(adminCtx, proposed.Id)

		assert.ErrorIs(t, err, ErrNotEligible)
	})

	t.Run("requires admin role", func(t *testing.T) {
		service, _, memberCtx, teardown := setup(t)
		defer teardown()

		proposed, err := service.Propose(memberCtx, "Prompt library", "")
		require.NoError(t, err)

		_, err = service.Approve(memberCtx, proposed.Id)

		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("returns not found for unknown initiative", func(t *testing.T) {
		service, adminCtx, _, teardown := setup(t)
		defer teardown()

		_, err := service.Approve(adminCtx, 12345)

		assert.ErrorIs(t, err, ErrInitiativeNotFound)
	})
}

func TestInitiativeServiceImpl_Reject(t *testing.T) {
	t.Run("moves a proposed initiative to stopped", func(t *testing.T) {
		service, adminCtx, memberCtx, teardown := setup(t)
		defer teardown()

		proposed, err := service.Propose(memberCtx, "Prompt library", "")
		require.NoError(t, err)

		rejected, err := service.Reject(adminCtx, proposed.Id)

		require.NoError(t, err)
		assert.Equal(t, StatusStopped, rejected.Status)
	})

	t.Run("is not eligible from stopped status", func(t *testing.T) {
		service, adminCtx, memberCtx, teardown := setup(t)
		defer teardown()

		proposed, err := service.Propose(memberCtx, "Prompt library", "")
		require.NoError(t, err)
		_, err = service.Reject(adminCtx, proposed.Id)
		require.NoError(t, err)

		_, err = service.Reject(adminCtx, proposed.Id)

		assert.ErrorIs(t, err, ErrNotEligible)
	})
}

func TestInitiativeServiceImpl_Pause(t *testing.T) {
	t.Run("pauses an approved initiative", func(t *testing.T) {
		service, adminCtx, memberCtx, teardown := setup(t)
		defer teardown()

		proposed, err := service.Propose(memberCtx, "Prompt library", "")
		require.NoError(t, err)
		_, err = service.Approve(adminCtx, proposed.Id)
		require.NoError(t, err)

		paused, err := service.Pause(adminCtx, proposed.Id)

		require.NoError(t, err)
		assert.Equal(t, StatusPaused, paused.Status)
	})

	t.Run("never pauses the default bucket", func(t *testing.T) {
		service, adminCtx, memberCtx, teardown := setup(t)
		defer teardown()

		bucket, err := service.EnsureDefaultBucket(memberCtx)
		require.NoError(t, err)

		_, err = service.Pause(adminCtx, bucket.Id)

		assert.ErrorIs(t, err, ErrNotEligible)
	})
}

func TestDisplayStatus(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusExploration, "active"},
		{StatusApproved, "active"},
		{StatusProposed, "pending"},
		{StatusStopped, "rejected"},
		{StatusPaused, "paused"},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayStatus(tt.status))
		})
	}
}
