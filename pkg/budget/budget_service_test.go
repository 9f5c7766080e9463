package budget

import (
	"context"
	"testing"
	"time"

	"github.com/aiburn/aiburn/internal/utils"
	"github.com/aiburn/aiburn/pkg/user"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var repoStub = NewStubBudgetRepo()
var clock = &utils.MockClock{FixedNow: time.Date(2025, time.February, 10, 9, 0, 0, 0, time.UTC)}

func setup(t *testing.T, role user.Role) (BudgetService, context.Context, func()) {
	service := NewBudgetService(repoStub, clock)
	ctx := user.WithUser(context.Background(), user.User{
		Id:             uuid.NewString(),
		DisplayName:    "Test User",
		OrganizationId: 1,
		Role:           role,
	})
	return service, ctx, func() {
		t.Log("Teardown after test")
		repoStub.Cleanup()
	}
}

func TestBudgetServiceImpl_Create(t *testing.T) {
	t.Run("stores a valid period for an admin", func(t *testing.T) {
		service, ctx, teardown := setup(t, user.RoleAdmin)
		defer teardown()

		// when
		created, err := service.Create(ctx, 100,
			time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		)

		// then
		require.NoError(t, err)
		assert.NotZero(t, created.Id)
		assert.Equal(t, 1, created.OrganizationId)
		assert.Equal(t, 100.0, created.TotalPersonDays)
	})

	t.Run("rejects non-admin callers", func(t *testing.T) {
		service, ctx, teardown := setup(t, user.RoleMember)
		defer teardown()

		_, err := service.Create(ctx, 100,
			time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		)

		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("rejects non-positive totals", func(t *testing.T) {
		service, ctx, teardown := setup(t, user.RoleAdmin)
		defer teardown()

		_, err := service.Create(ctx, 0,
			time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		)

		assert.ErrorIs(t, err, ErrInvalidPeriod)
	})

	t.Run("rejects end before start", func(t *testing.T) {
		service, ctx, teardown := setup(t, user.RoleAdmin)
		defer teardown()

		_, err := service.Create(ctx, 100,
			time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		)

		assert.ErrorIs(t, err, ErrInvalidPeriod)
	})
}

func TestBudgetServiceImpl_GetActive(t *testing.T) {
	t.Run("returns nil without error when no period is active", func(t *testing.T) {
		service, ctx, teardown := setup(t, user.RoleMember)
		defer teardown()

		period, err := service.GetActive(ctx)

		require.NoError(t, err)
		assert.Nil(t, period)
	})

	t.Run("returns the period containing now", func(t *testing.T) {
		service, ctx, teardown := setup(t, user.RoleMember)
		defer teardown()

		_, err := repoStub.Store(context.Background(), BudgetPeriod{
			OrganizationId:  1,
			TotalPersonDays: 50,
			PeriodStart:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			PeriodEnd:       time.Date(2025, 3, 31, 23, 59, 59, 0, time.UTC),
		})
		require.NoError(t, err)

		period, err := service.GetActive(ctx)

		require.NoError(t, err)
		require.NotNil(t, period)
		assert.Equal(t, 50.0, period.TotalPersonDays)
	})

	t.Run("ignores periods of other organizations", func(t *testing.T) {
		service, ctx, teardown := setup(t, user.RoleMember)
		defer teardown()

		_, err := repoStub.Store(context.Background(), BudgetPeriod{
			OrganizationId:  2,
			TotalPersonDays: 50,
			PeriodStart:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			PeriodEnd:       time.Date(2025, 3, 31, 23, 59, 59, 0, time.UTC),
		})
		require.NoError(t, err)

		period, err := service.GetActive(ctx)

		require.NoError(t, err)
		assert.Nil(t, period)
	})
}
