// Package request implements the Request repository using PostgreSQL.
//
// State changes go through TransitionIf, a conditional update that only
// succeeds when the row is still in the expected source state. Concurrent
// deciders therefore cannot both win: the second update matches zero rows.
package request

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/recordsunit/records-backend/internal/adapter/postgres"
	"github.com/recordsunit/records-backend/internal/domain"
)

// Repo provides request persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new request repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const requestColumns = `id, record_id, requester_id, status, reason, requested_at, due_at, returned_at, decided_by`

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func scanRequest(row pgx.Row) (*domain.Request, error) {
	var req domain.Request
	var status string
	err := row.Scan(&req.ID, &req.RecordID, &req.RequesterID, &status, &req.Reason,
		&req.RequestedAt, &req.DueAt, &req.ReturnedAt, &req.DecidedBy)
	if err != nil {
		return nil, err
	}
	req.Status = domain.RequestStatus(status)
	return &req, nil
}

// Create inserts a new request and returns the persisted domain.Request.
func (r *Repo) Create(ctx context.Context, req *domain.Request) (*domain.Request, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, `
		INSERT INTO requests (id, record_id, requester_id, status, reason, requested_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+requestColumns,
		req.ID, req.RecordID, req.RequesterID, req.Status.String(), req.Reason, req.RequestedAt,
	)

	created, err := scanRequest(row)
	if err != nil {
		return nil, postgres.MapError(err, "request", req.ID)
	}
	return created, nil
}

// GetByID returns a request by primary key.
// Returns domain.ErrNotFound if the request does not exist.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Request, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, `SELECT `+requestColumns+` FROM requests WHERE id = $1`, id)

	req, err := scanRequest(row)
	if err != nil {
		return nil, postgres.MapError(err, "request", id)
	}
	return req, nil
}

// TransitionIf atomically moves a request from `from` to `to`, applying the
// patch in the same statement. The update matches only rows still in `from`,
// so a concurrent transition on the same request makes this one fail with
// domain.ErrInvalidTransition instead of silently overwriting.
// Returns domain.ErrNotFound if the request does not exist at all.
func (r *Repo) TransitionIf(ctx context.Context, id uuid.UUID, from, to domain.RequestStatus, patch domain.RequestPatch) (*domain.Request, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, `
		UPDATE requests
		SET status      = $3,
		    due_at      = COALESCE($4, due_at),
		    returned_at = COALESCE($5, returned_at),
		    decided_by  = COALESCE($6, decided_by)
		WHERE id = $1 AND status = $2
		RETURNING `+requestColumns,
		id, from.String(), to.String(), patch.DueAt, patch.ReturnedAt, patch.DecidedBy,
	)

	req, err := scanRequest(row)
	if err == nil {
		return req, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, postgres.MapError(err, "request", id)
	}

	// Zero rows: the request is gone or not in the expected state.
	var exists bool
	if serr := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM requests WHERE id = $1)`, id).Scan(&exists); serr != nil {
		return nil, postgres.MapError(serr, "request", id)
	}
	if !exists {
		return nil, fmt.Errorf("request %s: %w", id, domain.ErrNotFound)
	}
	return nil, fmt.Errorf("request %s: %s to %s: %w", id, from, to, domain.ErrInvalidTransition)
}

// List returns requests matching the filter, newest first.
func (r *Repo) List(ctx context.Context, filter domain.RequestFilter) ([]*domain.Request, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	builder := psql.Select("id", "record_id", "requester_id", "status", "reason",
		"requested_at", "due_at", "returned_at", "decided_by").
		From("requests").
		OrderBy("requested_at DESC")

	if filter.RecordID != nil {
		builder = builder.Where(sq.Eq{"record_id": *filter.RecordID})
	}
	if filter.RequesterID != nil {
		builder = builder.Where(sq.Eq{"requester_id": *filter.RequesterID})
	}
	if filter.Status != nil {
		builder = builder.Where(sq.Eq{"status": filter.Status.String()})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	sqlStr, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list requests query: %w", err)
	}

	rows, err := q.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	defer rows.Close()

	return collectRequests(rows)
}

// ListApprovedDueBetween returns approved requests whose due date falls
// strictly inside (from, to). Used by the reminder sweep's due-soon pass.
func (r *Repo) ListApprovedDueBetween(ctx context.Context, from, to time.Time) ([]*domain.Request, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, `
		SELECT `+requestColumns+` FROM requests
		WHERE status = 'approved' AND due_at > $1 AND due_at < $2
		ORDER BY due_at`,
		from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("list due requests: %w", err)
	}
	defer rows.Close()

	return collectRequests(rows)
}

// ListApprovedOverdue returns approved requests whose due date is strictly
// before now. Used by the reminder sweep's overdue pass.
func (r *Repo) ListApprovedOverdue(ctx context.Context, now time.Time) ([]*domain.Request, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, `
		SELECT `+requestColumns+` FROM requests
		WHERE status = 'approved' AND due_at < $1
		ORDER BY due_at`,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("list overdue requests: %w", err)
	}
	defer rows.Close()

	return collectRequests(rows)
}

// ActiveForRecord returns the approved request currently holding custody of
// the record, or domain.ErrNotFound if none.
func (r *Repo) ActiveForRecord(ctx context.Context, recordID uuid.UUID) (*domain.Request, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, `
		SELECT `+requestColumns+` FROM requests
		WHERE record_id = $1 AND status = 'approved'`,
		recordID,
	)

	req, err := scanRequest(row)
	if err != nil {
		return nil, postgres.MapError(err, "request", recordID)
	}
	return req, nil
}

func collectRequests(rows pgx.Rows) ([]*domain.Request, error) {
	var requests []*domain.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan request row: %w", err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate request rows: %w", err)
	}
	return requests, nil
}
