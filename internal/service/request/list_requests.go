package request

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/recordsunit/records-backend/internal/domain"
)

// List returns requests matching the filter, newest first.
func (s *Service) List(ctx context.Context, filter domain.RequestFilter) ([]*domain.Request, error) {
	if filter.Limit <= 0 {
		filter.Limit = DefaultLimit
	}
	if filter.Limit > MaxLimit {
		filter.Limit = MaxLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	requests, err := s.requests.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("request.List: %w", err)
	}
	return requests, nil
}

// Get returns a single request by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Request, error) {
	req, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("request.Get: %w", err)
	}
	return req, nil
}
