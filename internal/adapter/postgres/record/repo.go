// Package record implements the Record repository using PostgreSQL.
// Custody state is never set directly here by callers: the lifecycle
// service flips it through SetStatusIf inside its transactions.
package record

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/recordsunit/records-backend/internal/adapter/postgres"
	"github.com/recordsunit/records-backend/internal/domain"
)

// Repo provides record persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new record repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const recordColumns = `id, title, description, file_number, category, location, status, created_by, created_at, updated_at`

func scanRecord(row pgx.Row) (*domain.Record, error) {
	var rec domain.Record
	var status string
	err := row.Scan(&rec.ID, &rec.Title, &rec.Description, &rec.FileNumber, &rec.Category,
		&rec.Location, &status, &rec.CreatedBy, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	rec.Status = domain.RecordStatus(status)
	return &rec, nil
}

// Create inserts a new record and returns the persisted domain.Record.
// Returns domain.ErrAlreadyExists if the file number is taken.
func (r *Repo) Create(ctx context.Context, rec *domain.Record) (*domain.Record, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, `
		INSERT INTO records (id, title, description, file_number, category, location, status, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		RETURNING `+recordColumns,
		rec.ID, rec.Title, rec.Description, rec.FileNumber, rec.Category, rec.Location,
		rec.Status.String(), rec.CreatedBy, rec.CreatedAt,
	)

	created, err := scanRecord(row)
	if err != nil {
		return nil, postgres.MapError(err, "record", rec.ID)
	}
	return created, nil
}

// GetByID returns a record by primary key.
// Returns domain.ErrNotFound if the record does not exist.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Record, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, `SELECT `+recordColumns+` FROM records WHERE id = $1`, id)

	rec, err := scanRecord(row)
	if err != nil {
		return nil, postgres.MapError(err, "record", id)
	}
	return rec, nil
}

// List returns all records ordered by creation time, newest first.
func (r *Repo) List(ctx context.Context, limit, offset int) ([]*domain.Record, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx,
		`SELECT `+recordColumns+` FROM records ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var records []*domain.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate record rows: %w", err)
	}

	return records, nil
}

// Update patches the descriptive fields of a record. Custody state is
// excluded on purpose; use SetStatusIf.
func (r *Repo) Update(ctx context.Context, rec *domain.Record) (*domain.Record, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, `
		UPDATE records
		SET title = $2, description = $3, file_number = $4, category = $5, location = $6, updated_at = $7
		WHERE id = $1
		RETURNING `+recordColumns,
		rec.ID, rec.Title, rec.Description, rec.FileNumber, rec.Category, rec.Location, time.Now().UTC(),
	)

	updated, err := scanRecord(row)
	if err != nil {
		return nil, postgres.MapError(err, "record", rec.ID)
	}
	return updated, nil
}

// Delete removes a record.
// Returns domain.ErrNotFound if the record does not exist.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, `DELETE FROM records WHERE id = $1`, id)
	if err != nil {
		return postgres.MapError(err, "record", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("record %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// SetStatusIf flips the custody flag from exactly `from` to `to`.
// Returns domain.ErrRecordUnavailable if the record is not in `from`
// (lost race or state drift), domain.ErrNotFound if it does not exist.
// This is the only write path for the status column.
func (r *Repo) SetStatusIf(ctx context.Context, id uuid.UUID, from, to domain.RecordStatus) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, `
		UPDATE records SET status = $3, updated_at = now()
		WHERE id = $1 AND status = $2`,
		id, from.String(), to.String(),
	)
	if err != nil {
		return postgres.MapError(err, "record", id)
	}

	if tag.RowsAffected() == 0 {
		// Distinguish a missing record from a custody conflict.
		var exists bool
		if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM records WHERE id = $1)`, id).Scan(&exists); err != nil {
			return postgres.MapError(err, "record", id)
		}
		if !exists {
			return fmt.Errorf("record %s: %w", id, domain.ErrNotFound)
		}
		return fmt.Errorf("record %s: %w", id, domain.ErrRecordUnavailable)
	}

	return nil
}
