package record

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/recordsunit/records-backend/internal/domain"
	"github.com/recordsunit/records-backend/pkg/ctxutil"
)

// Create adds a new record to the catalog in the available state.
func (s *Service) Create(ctx context.Context, input CreateRecordInput) (*domain.Record, error) {
	actorID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	input.Title = strings.TrimSpace(input.Title)
	input.FileNumber = strings.TrimSpace(input.FileNumber)
	input.Description = trimOrNil(input.Description)
	input.Category = trimOrNil(input.Category)
	input.Location = trimOrNil(input.Location)

	if err := input.Validate(); err != nil {
		return nil, err
	}

	created, err := s.records.Create(ctx, &domain.Record{
		ID:          uuid.New(),
		Title:       input.Title,
		Description: input.Description,
		FileNumber:  input.FileNumber,
		Category:    input.Category,
		Location:    input.Location,
		Status:      domain.RecordStatusAvailable,
		CreatedBy:   actorID,
	})
	if err != nil {
		return nil, fmt.Errorf("record.Create: %w", err)
	}

	s.audit.Record(ctx, domain.ActionCreateRecord, map[string]any{
		"record_id":   created.ID.String(),
		"file_number": created.FileNumber,
	})

	s.log.InfoContext(ctx, "record created",
		slog.String("record_id", created.ID.String()),
		slog.String("file_number", created.FileNumber))

	return created, nil
}

// Get returns a single record by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Record, error) {
	record, err := s.records.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("record.Get: %w", err)
	}
	return record, nil
}

// List returns a page of records.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*domain.Record, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}

	records, err := s.records.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("record.List: %w", err)
	}
	return records, nil
}

// Update patches the descriptive fields of a record. The custody flag
// cannot be changed through this operation.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateRecordInput) (*domain.Record, error) {
	if _, ok := ctxutil.UserIDFromCtx(ctx); !ok {
		return nil, domain.ErrUnauthorized
	}

	input.Title = strings.TrimSpace(input.Title)
	input.FileNumber = strings.TrimSpace(input.FileNumber)
	input.Description = trimOrNil(input.Description)
	input.Category = trimOrNil(input.Category)
	input.Location = trimOrNil(input.Location)

	if err := input.Validate(); err != nil {
		return nil, err
	}

	current, err := s.records.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("record.Update get: %w", err)
	}

	current.Title = input.Title
	current.Description = input.Description
	current.FileNumber = input.FileNumber
	current.Category = input.Category
	current.Location = input.Location

	updated, err := s.records.Update(ctx, current)
	if err != nil {
		return nil, fmt.Errorf("record.Update: %w", err)
	}

	s.audit.Record(ctx, domain.ActionUpdateRecord, map[string]any{
		"record_id": updated.ID.String(),
	})

	return updated, nil
}

// Delete removes a record from the catalog. A record that is currently
// checked out cannot be removed.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := ctxutil.UserIDFromCtx(ctx); !ok {
		return domain.ErrUnauthorized
	}

	record, err := s.records.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("record.Delete get: %w", err)
	}
	if !record.Available() {
		return fmt.Errorf("record %s is checked out: %w", id, domain.ErrRecordUnavailable)
	}

	if err := s.records.Delete(ctx, id); err != nil {
		return fmt.Errorf("record.Delete: %w", err)
	}

	s.audit.Record(ctx, domain.ActionDeleteRecord, map[string]any{
		"record_id":   record.ID.String(),
		"file_number": record.FileNumber,
	})

	s.log.InfoContext(ctx, "record deleted",
		slog.String("record_id", record.ID.String()))

	return nil
}
