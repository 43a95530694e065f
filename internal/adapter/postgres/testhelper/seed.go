package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/recordsunit/records-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedUser creates a user with the given role.
// Returns a filled domain.User.
func SeedUser(t *testing.T, pool *pgxpool.Pool, role domain.Role) domain.User {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	user := domain.User{
		ID:           uuid.New(),
		Username:     "testuser-" + suffix,
		Email:        "testuser-" + suffix + "@example.com",
		PasswordHash: "$2a$10$" + suffix,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO users (id, username, email, password_hash, role, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		user.ID, user.Username, user.Email, user.PasswordHash, string(user.Role), user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedUser insert: %v", err)
	}

	return user
}

// SeedRecord creates an available record owned by creator.
// Returns a filled domain.Record.
func SeedRecord(t *testing.T, pool *pgxpool.Pool, creator uuid.UUID) domain.Record {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	rec := domain.Record{
		ID:         uuid.New(),
		Title:      "Test Record " + suffix,
		FileNumber: "FN-" + suffix,
		Status:     domain.RecordStatusAvailable,
		CreatedBy:  creator,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO records (id, title, file_number, status, created_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.ID, rec.Title, rec.FileNumber, string(rec.Status), rec.CreatedBy, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedRecord insert: %v", err)
	}

	return rec
}

// SeedRequest creates a request in the given state for record/requester.
// Returns a filled domain.Request.
func SeedRequest(t *testing.T, pool *pgxpool.Pool, recordID, requesterID uuid.UUID, status domain.RequestStatus) domain.Request {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	req := domain.Request{
		ID:          uuid.New(),
		RecordID:    recordID,
		RequesterID: requesterID,
		Status:      status,
		RequestedAt: now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO requests (id, record_id, requester_id, status, requested_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		req.ID, req.RecordID, req.RequesterID, string(req.Status), req.RequestedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedRequest insert: %v", err)
	}

	return req
}
