// Package record manages the descriptive side of records: creating,
// editing and removing catalog entries. Custody state is off limits here;
// only the request lifecycle service flips it.
package record

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/recordsunit/records-backend/internal/domain"
)

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// recordRepo defines the record repository interface needed by the service.
type recordRepo interface {
	Create(ctx context.Context, rec *domain.Record) (*domain.Record, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Record, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Record, error)
	Update(ctx context.Context, rec *domain.Record) (*domain.Record, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// auditRecorder appends activity entries.
type auditRecorder interface {
	Record(ctx context.Context, action string, details map[string]any)
}

// Service provides record catalog operations.
type Service struct {
	log     *slog.Logger
	records recordRepo
	audit   auditRecorder
}

// NewService creates a new record service.
func NewService(logger *slog.Logger, records recordRepo, audit auditRecorder) *Service {
	return &Service{
		log:     logger.With("service", "record"),
		records: records,
		audit:   audit,
	}
}
