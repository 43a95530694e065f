package record_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/recordsunit/records-backend/internal/adapter/postgres/record"
	"github.com/recordsunit/records-backend/internal/adapter/postgres/testhelper"
	"github.com/recordsunit/records-backend/internal/domain"
)

func newRepo(t *testing.T) (*record.Repo, *pgxpool.Pool) {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	return record.New(pool), pool
}

func TestRepo_SetStatusIf_Flips(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	user := testhelper.SeedUser(t, pool, domain.RoleAdmin)
	rec := testhelper.SeedRecord(t, pool, user.ID)

	err := repo.SetStatusIf(ctx, rec.ID, domain.RecordStatusAvailable, domain.RecordStatusCheckedOut)
	if err != nil {
		t.Fatalf("SetStatusIf: unexpected error: %v", err)
	}

	got, err := repo.GetByID(ctx, rec.ID)
	if err != nil {
		t.Fatalf("GetByID: unexpected error: %v", err)
	}
	if got.Status != domain.RecordStatusCheckedOut {
		t.Errorf("status: got %s, want checked_out", got.Status)
	}
}

func TestRepo_SetStatusIf_WrongSourceState(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	user := testhelper.SeedUser(t, pool, domain.RoleAdmin)
	rec := testhelper.SeedRecord(t, pool, user.ID)

	err := repo.SetStatusIf(ctx, rec.ID, domain.RecordStatusCheckedOut, domain.RecordStatusAvailable)
	if !errors.Is(err, domain.ErrRecordUnavailable) {
		t.Fatalf("expected ErrRecordUnavailable, got %v", err)
	}

	got, err := repo.GetByID(ctx, rec.ID)
	if err != nil {
		t.Fatalf("GetByID: unexpected error: %v", err)
	}
	if got.Status != domain.RecordStatusAvailable {
		t.Errorf("row must be untouched, got status %s", got.Status)
	}
}

func TestRepo_SetStatusIf_ConcurrentFlips_OneWins(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	user := testhelper.SeedUser(t, pool, domain.RoleAdmin)
	rec := testhelper.SeedRecord(t, pool, user.ID)

	const attempts = 8
	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- repo.SetStatusIf(ctx, rec.ID, domain.RecordStatusAvailable, domain.RecordStatusCheckedOut)
		}()
	}
	wg.Wait()
	close(results)

	wins := 0
	for err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, domain.ErrRecordUnavailable):
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Errorf("expected exactly one winning flip, got %d", wins)
	}
}

func TestRepo_Delete_MissingRow(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	user := testhelper.SeedUser(t, pool, domain.RoleAdmin)
	rec := testhelper.SeedRecord(t, pool, user.ID)

	if err := repo.Delete(ctx, rec.ID); err != nil {
		t.Fatalf("Delete: unexpected error: %v", err)
	}
	if err := repo.Delete(ctx, rec.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
