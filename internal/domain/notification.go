package domain

import (
	"time"

	"github.com/google/uuid"
)

// Notification is a delivered lifecycle event, persisted before any
// best-effort channel (realtime, email) sees it.
type Notification struct {
	ID          uuid.UUID
	RecipientID uuid.UUID
	Kind        NotificationKind
	Message     string
	Read        bool
	RequestID   *uuid.UUID
	CreatedAt   time.Time
}
