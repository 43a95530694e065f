package notification

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/recordsunit/records-backend/internal/domain"
)

// Repo persists notifications in the docstore. Writes happen on the
// dispatch path and must succeed before any best-effort channel is tried.
type Repo struct {
	db *sql.DB
}

func New(db *sql.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Create(ctx context.Context, n *domain.Notification) error {
	query := `INSERT INTO notifications (id, recipient_id, kind, message, request_id, read, created_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?)`

	requestID := uuid.NullUUID{}
	if n.RequestID != nil {
		requestID = uuid.NullUUID{UUID: *n.RequestID, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, query,
		n.ID, n.RecipientID, string(n.Kind), n.Message, requestID, n.Read, n.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// ListByRecipient returns the recipient's notifications, newest first.
func (r *Repo) ListByRecipient(ctx context.Context, recipientID uuid.UUID, limit, offset int) ([]*domain.Notification, error) {
	query := `SELECT id, recipient_id, kind, message, request_id, read, created_at
	          FROM notifications
	          WHERE recipient_id = ?
	          ORDER BY created_at DESC
	          LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, query, recipientID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("select notifications: %w", err)
	}
	defer rows.Close()

	var result []*domain.Notification
	for rows.Next() {
		var (
			n         domain.Notification
			kind      string
			requestID uuid.NullUUID
			createdAt time.Time
		)
		if err := rows.Scan(&n.ID, &n.RecipientID, &kind, &n.Message, &requestID, &n.Read, &createdAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		n.Kind = domain.NotificationKind(kind)
		n.CreatedAt = createdAt.UTC()
		if requestID.Valid {
			id := requestID.UUID
			n.RequestID = &id
		}
		result = append(result, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// MarkRead flags a single notification as read. The recipient id is part
// of the predicate so a user cannot touch someone else's notifications.
func (r *Repo) MarkRead(ctx context.Context, id, recipientID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET read = 1 WHERE id = ? AND recipient_id = ?`, id, recipientID)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MarkAllRead flags every unread notification of the recipient as read
// and reports how many were affected.
func (r *Repo) MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET read = 1 WHERE recipient_id = ? AND read = 0`, recipientID)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	return res.RowsAffected()
}

func (r *Repo) CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE recipient_id = ? AND read = 0`, recipientID).
		Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}
