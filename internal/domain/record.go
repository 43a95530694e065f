package domain

import (
	"time"

	"github.com/google/uuid"
)

// Record is a physical item under custody of the records unit.
// Status is derived state: it is checked_out iff exactly one approved,
// not-yet-returned Request references the record. Only the request
// lifecycle service may flip it.
type Record struct {
	ID          uuid.UUID
	Title       string
	Description *string
	FileNumber  string
	Category    *string
	Location    *string
	Status      RecordStatus
	CreatedBy   uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Available reports whether the record can currently be requested for
// check-out.
func (r *Record) Available() bool {
	return r.Status == RecordStatusAvailable
}
