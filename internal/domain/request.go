package domain

import (
	"time"

	"github.com/google/uuid"
)

// Request is one custody transaction attempt against a Record.
//
// State transitions are monotonic: pending → approved|rejected,
// approved → returned. DueAt is stamped when the request is approved,
// ReturnedAt when the record comes back. A request never revisits a
// prior state.
type Request struct {
	ID          uuid.UUID
	RecordID    uuid.UUID
	RequesterID uuid.UUID
	Status      RequestStatus
	Reason      *string
	RequestedAt time.Time
	DueAt       *time.Time
	ReturnedAt  *time.Time
	DecidedBy   *uuid.UUID
}

// Active reports whether the request currently holds custody of its record.
func (r *Request) Active() bool {
	return r.Status == RequestStatusApproved
}

// Overdue reports whether an active request has passed its due date.
func (r *Request) Overdue(now time.Time) bool {
	return r.Active() && r.DueAt != nil && r.DueAt.Before(now)
}

// RequestPatch carries the fields stamped alongside a state transition.
// Nil fields are left untouched.
type RequestPatch struct {
	DueAt      *time.Time
	ReturnedAt *time.Time
	DecidedBy  *uuid.UUID
}

// RequestFilter narrows List queries on the request repository.
// Nil fields are not applied.
type RequestFilter struct {
	RecordID    *uuid.UUID
	RequesterID *uuid.UUID
	Status      *RequestStatus
	Limit       int
	Offset      int
}
