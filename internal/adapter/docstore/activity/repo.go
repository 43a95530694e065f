package activity

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/recordsunit/records-backend/internal/domain"
)

// Repo is the append-only activity trail. Entries are never updated or
// deleted through this type.
type Repo struct {
	db *sql.DB
}

func New(db *sql.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Append(ctx context.Context, e *domain.ActivityEntry) error {
	details := e.Details
	if details == nil {
		details = map[string]any{}
	}
	raw, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("marshal activity details: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO activity_entries (id, actor_id, action, details, origin_ip, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.ActorID, e.Action, string(raw), e.OriginIP, e.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert activity entry: %w", err)
	}
	return nil
}

// ListRecent returns entries newest first. When actorID is non-nil the
// trail is filtered to that actor.
func (r *Repo) ListRecent(ctx context.Context, actorID *uuid.UUID, limit, offset int) ([]*domain.ActivityEntry, error) {
	query := `SELECT id, actor_id, action, details, origin_ip, created_at
	          FROM activity_entries`
	args := []any{}
	if actorID != nil {
		query += ` WHERE actor_id = ?`
		args = append(args, *actorID)
	}
	query += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select activity entries: %w", err)
	}
	defer rows.Close()

	var result []*domain.ActivityEntry
	for rows.Next() {
		var (
			e         domain.ActivityEntry
			raw       string
			createdAt time.Time
		)
		if err := rows.Scan(&e.ID, &e.ActorID, &e.Action, &raw, &e.OriginIP, &createdAt); err != nil {
			return nil, fmt.Errorf("scan activity entry: %w", err)
		}
		if err := json.Unmarshal([]byte(raw), &e.Details); err != nil {
			return nil, fmt.Errorf("unmarshal activity details: %w", err)
		}
		e.CreatedAt = createdAt.UTC()
		result = append(result, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
