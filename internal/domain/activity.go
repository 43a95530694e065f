package domain

import (
	"time"

	"github.com/google/uuid"
)

// ActivityEntry is one line of the append-only audit trail. Entries are
// write-once: no update or delete is ever issued against them.
type ActivityEntry struct {
	ID        uuid.UUID
	ActorID   uuid.UUID
	Action    string
	Details   map[string]any
	OriginIP  string
	CreatedAt time.Time
}
