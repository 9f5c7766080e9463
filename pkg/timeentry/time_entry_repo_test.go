package timeentry

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/aiburn/aiburn/internal/test_utils"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

var pgContainer *postgres.PostgresContainer
var openDb func() *pgxpool.Pool

func TestMain(m *testing.M) {
	pgContainer, openDb = test_utils.TestWithDB()
	defer func() {
		if err := testcontainers.TerminateContainer(pgContainer); err != nil {
			log.Errorf("failed to terminate container: %s", err)
		}
	}()
	code := m.Run()
	os.Exit(code)
}

func setupTestRepository(t *testing.T) (context.Context, *TimeEntryRepoImpl, *pgxpool.Pool) {
	ctx := context.Background()
	db := openDb()
	repository := NewTimeEntryRepo(db)
	t.Cleanup(func() {
		db.Close()
		err := pgContainer.Restore(ctx)
		require.NoError(t, err)
	})
	return ctx, repository, db
}

func seedInitiative(t *testing.T, db *pgxpool.Pool, organizationId int, name string) int {
	t.Helper()
	var id int
	err := db.QueryRow(context.Background(),
		`INSERT INTO initiative (organization_id, name, status) VALUES ($1, $2, 'approved') RETURNING id`,
		organizationId, name).Scan(&id)
	require.NoError(t, err)
	return id
}

func TestTimeEntryRepoImpl_UpsertAdditive(t *testing.T) {
	week := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

	t.Run("should create a new entry", func(t *testing.T) {
		// given
		ctx, repo, db := setupTestRepository(t)
		orgId := test_utils.SeedOrganization(t, db, "Acme")
		userId := test_utils.SeedUser(t, db, orgId, "Test User")
		initiativeId := seedInitiative(t, db, orgId, "Agent evals")

		// when
		created, err := repo.UpsertAdditive(ctx, TimeEntry{
			UserId:       userId,
			InitiativeId: initiativeId,
			PersonDays:   1.5,
			WeekOf:       week,
			Note:         "prompt experiments",
		})

		// then
		require.NoError(t, err)
		require.NotEmpty(t, created.Id)
		assert.Equal(t, 1.5, created.PersonDays)
		assert.Equal(t, "prompt experiments", created.Note)
	})

	t.Run("should add person-days into the existing row on conflict", func(t *testing.T) {
		// given
		ctx, repo, db := setupTestRepository(t)
		orgId := test_utils.SeedOrganization(t, db, "Acme")
		userId := test_utils.SeedUser(t, db, orgId, "Test User")
		initiativeId := seedInitiative(t, db, orgId, "Agent evals")

		first, err := repo.UpsertAdditive(ctx, TimeEntry{
			UserId: userId, InitiativeId: initiativeId, PersonDays: 1, WeekOf: week,
		})
		require.NoError(t, err)

		// when
		merged, err := repo.UpsertAdditive(ctx, TimeEntry{
			UserId: userId, InitiativeId: initiativeId, PersonDays: 0.5, WeekOf: week,
		})

		// then
		require.NoError(t, err)
		assert.Equal(t, first.Id, merged.Id)
		assert.Equal(t, 1.5, merged.PersonDays)

		entries, err := repo.FindAllByInitiative(ctx, initiativeId)
		require.NoError(t, err)
		require.Len(t, entries, 1)
	})

	t.Run("should keep the previous note when the merge carries none", func(t *testing.T) {
		// given
		ctx, repo, db := setupTestRepository(t)
		orgId := test_utils.SeedOrganization(t, db, "Acme")
		userId := test_utils.SeedUser(t, db, orgId, "Test User")
		initiativeId := seedInitiative(t, db, orgId, "Agent evals")

		_, err := repo.UpsertAdditive(ctx, TimeEntry{
			UserId: userId, InitiativeId: initiativeId, PersonDays: 1, WeekOf: week, Note: "original",
		})
		require.NoError(t, err)

		// when
		merged, err := repo.UpsertAdditive(ctx, TimeEntry{
			UserId: userId, InitiativeId: initiativeId, PersonDays: 1, WeekOf: week,
		})

		// then
		require.NoError(t, err)
		assert.Equal(t, "original", merged.Note)
	})

	t.Run("should keep entries of different users separate", func(t *testing.T) {
		// given
		ctx, repo, db := setupTestRepository(t)
		orgId := test_utils.SeedOrganization(t, db, "Acme")
		firstUser := test_utils.SeedUser(t, db, orgId, "First")
		secondUser := test_utils.SeedUser(t, db, orgId, "Second")
		initiativeId := seedInitiative(t, db, orgId, "Agent evals")

		// when
		_, err := repo.UpsertAdditive(ctx, TimeEntry{UserId: firstUser, InitiativeId: initiativeId, PersonDays: 1, WeekOf: week})
		require.NoError(t, err)
		_, err = repo.UpsertAdditive(ctx, TimeEntry{UserId: secondUser, InitiativeId: initiativeId, PersonDays: 2, WeekOf: week})
		require.NoError(t, err)

		// then
		entries, err := repo.FindAllByInitiative(ctx, initiativeId)
		require.NoError(t, err)
		require.Len(t, entries, 2)
	})
}

func TestTimeEntryRepoImpl_Sums(t *testing.T) {
	t.Run("should sum entries per organization through the initiative join", func(t *testing.T) {
		// given
		ctx, repo, db := setupTestRepository(t)
		orgId := test_utils.SeedOrganization(t, db, "Acme")
		otherOrgId := test_utils.SeedOrganization(t, db, "Globex")
		userId := test_utils.SeedUser(t, db, orgId, "Test User")
		otherUserId := test_utils.SeedUser(t, db, otherOrgId, "Other User")
		initiativeId := seedInitiative(t, db, orgId, "Agent evals")
		otherInitiativeId := seedInitiative(t, db, otherOrgId, "Unrelated")

		week := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
		_, err := repo.UpsertAdditive(ctx, TimeEntry{UserId: userId, InitiativeId: initiativeId, PersonDays: 2, WeekOf: week})
		require.NoError(t, err)
		_, err = repo.UpsertAdditive(ctx, TimeEntry{UserId: otherUserId, InitiativeId: otherInitiativeId, PersonDays: 7, WeekOf: week})
		require.NoError(t, err)

		// when
		total, err := repo.SumByOrganizationAndPeriod(ctx, orgId,
			time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC))

		// then
		require.NoError(t, err)
		assert.Equal(t, 2.0, total)
	})

	t.Run("should return zero for a period without entries", func(t *testing.T) {
		// given
		ctx, repo, db := setupTestRepository(t)
		orgId := test_utils.SeedOrganization(t, db, "Acme")
		initiativeId := seedInitiative(t, db, orgId, "Agent evals")

		// when
		total, err := repo.SumByInitiativeAndPeriod(ctx, initiativeId,
			time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC))

		// then
		require.NoError(t, err)
		assert.Equal(t, 0.0, total)
	})
}

func TestTimeEntryRepoImpl_FindRecentByUser(t *testing.T) {
	t.Run("should return entries at or after the cutoff, newest first", func(t *testing.T) {
		// given
		ctx, repo, db := setupTestRepository(t)
		orgId := test_utils.SeedOrganization(t, db, "Acme")
		userId := test_utils.SeedUser(t, db, orgId, "Test User")
		initiativeId := seedInitiative(t, db, orgId, "Agent evals")

		oldWeek := time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC)
		recentWeek := time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)
		newestWeek := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
		for _, weekOf := range []time.Time{oldWeek, recentWeek, newestWeek} {
			_, err := repo.UpsertAdditive(ctx, TimeEntry{UserId: userId, InitiativeId: initiativeId, PersonDays: 1, WeekOf: weekOf})
			require.NoError(t, err)
		}

		// when
		entries, err := repo.FindRecentByUser(ctx, userId, time.Date(2025, time.February, 12, 0, 0, 0, 0, time.UTC))

		// then
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, newestWeek, entries[0].WeekOf)
		assert.Equal(t, recentWeek, entries[1].WeekOf)
	})
}
