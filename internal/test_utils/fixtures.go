package test_utils

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SeedOrganization inserts an organization row and returns its id.
func SeedOrganization(t *testing.T, db *pgxpool.Pool, name string) int {
	t.Helper()

	var id int
	err := db.QueryRow(context.Background(),
		`INSERT INTO organization (name) VALUES ($1) RETURNING id`, name).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to seed organization: %v", err)
	}
	return id
}

// SeedUser inserts a member of the given organization and returns its id.
func SeedUser(t *testing.T, db *pgxpool.Pool, organizationId int, displayName string) string {
	t.Helper()

	id := uuid.NewString()
	_, err := db.Exec(context.Background(),
		`INSERT INTO app_user (id, organization_id, display_name, role) VALUES ($1, $2, $3, 'member')`,
		id, organizationId, displayName)
	if err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}
	return id
}
