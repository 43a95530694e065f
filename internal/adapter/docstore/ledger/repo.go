// Package ledger records which reminder was already sent for which
// request on which day, so repeated sweeps within a day stay silent.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/recordsunit/records-backend/internal/domain"
)

// DayFormat keys ledger rows to a calendar day in UTC.
const DayFormat = "2006-01-02"

type Repo struct {
	db *sql.DB
}

func New(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// MarkOnce claims the (request, kind, day) slot. It returns true when
// this call was the first to claim it; false means a reminder for the
// slot was already recorded and the caller must not send again.
func (r *Repo) MarkOnce(ctx context.Context, requestID uuid.UUID, kind domain.NotificationKind, day time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO reminder_ledger (request_id, kind, day, sent_at) VALUES (?, ?, ?, ?)`,
		requestID, string(kind), day.UTC().Format(DayFormat), time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("claim ledger slot: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected == 1, nil
}

// Release frees a previously claimed slot so a later sweep may retry it.
// Used when the reminder could not be delivered after the claim.
func (r *Repo) Release(ctx context.Context, requestID uuid.UUID, kind domain.NotificationKind, day time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM reminder_ledger WHERE request_id = ? AND kind = ? AND day = ?`,
		requestID, string(kind), day.UTC().Format(DayFormat))
	if err != nil {
		return fmt.Errorf("release ledger slot: %w", err)
	}
	return nil
}

// PruneBefore drops ledger rows older than the cutoff and reports how
// many were removed.
func (r *Repo) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM reminder_ledger WHERE sent_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("prune ledger: %w", err)
	}
	return res.RowsAffected()
}
