package record

import (
	"strings"

	"github.com/recordsunit/records-backend/internal/domain"
)

const (
	maxTitleLen      = 255
	maxFileNumberLen = 64
)

// CreateRecordInput holds parameters for creating a record.
type CreateRecordInput struct {
	Title       string
	Description *string
	FileNumber  string
	Category    *string
	Location    *string
}

// Validate validates the create input.
func (i CreateRecordInput) Validate() error {
	var errs []domain.FieldError

	if i.Title == "" {
		errs = append(errs, domain.FieldError{Field: "title", Message: "required"})
	} else if len(i.Title) > maxTitleLen {
		errs = append(errs, domain.FieldError{Field: "title", Message: "too long"})
	}

	if i.FileNumber == "" {
		errs = append(errs, domain.FieldError{Field: "file_number", Message: "required"})
	} else if len(i.FileNumber) > maxFileNumberLen {
		errs = append(errs, domain.FieldError{Field: "file_number", Message: "too long"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// UpdateRecordInput holds the descriptive fields an update may touch.
// Custody state is deliberately absent.
type UpdateRecordInput struct {
	Title       string
	Description *string
	FileNumber  string
	Category    *string
	Location    *string
}

// Validate validates the update input.
func (i UpdateRecordInput) Validate() error {
	return CreateRecordInput{
		Title:      i.Title,
		FileNumber: i.FileNumber,
	}.Validate()
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
