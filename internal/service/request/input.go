package request

import (
	"strings"

	"github.com/google/uuid"

	"github.com/recordsunit/records-backend/internal/domain"
)

const maxReasonLen = 2000

// CreateRequestInput holds parameters for creating a custody request.
type CreateRequestInput struct {
	RecordID uuid.UUID
	Reason   *string
}

// Validate validates the create input.
func (i CreateRequestInput) Validate() error {
	var errs []domain.FieldError

	if i.RecordID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "record_id", Message: "required"})
	}
	if i.Reason != nil && len(*i.Reason) > maxReasonLen {
		errs = append(errs, domain.FieldError{Field: "reason", Message: "too long"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// DecideRequestInput holds parameters for approving or rejecting a request.
type DecideRequestInput struct {
	RequestID uuid.UUID
	Decision  domain.RequestStatus
	Reason    *string
}

// Validate validates the decide input.
func (i DecideRequestInput) Validate() error {
	var errs []domain.FieldError

	if i.RequestID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "request_id", Message: "required"})
	}
	if i.Decision != domain.RequestStatusApproved && i.Decision != domain.RequestStatusRejected {
		errs = append(errs, domain.FieldError{Field: "decision", Message: "must be approved or rejected"})
	}
	if i.Reason != nil && len(*i.Reason) > maxReasonLen {
		errs = append(errs, domain.FieldError{Field: "reason", Message: "too long"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// trimOrNil trims whitespace. Returns nil if result is empty.
func trimOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
