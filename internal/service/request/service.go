// Package request implements the custody lifecycle: creating requests,
// deciding them, and taking records back. Every custody mutation of a
// record happens inside this package, nowhere else.
package request

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/recordsunit/records-backend/internal/domain"
	"github.com/recordsunit/records-backend/internal/notify"
)

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// requestRepo defines the request repository interface needed by the service.
type requestRepo interface {
	Create(ctx context.Context, req *domain.Request) (*domain.Request, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Request, error)
	TransitionIf(ctx context.Context, id uuid.UUID, from, to domain.RequestStatus, patch domain.RequestPatch) (*domain.Request, error)
	List(ctx context.Context, filter domain.RequestFilter) ([]*domain.Request, error)
	ActiveForRecord(ctx context.Context, recordID uuid.UUID) (*domain.Request, error)
}

// recordRepo defines the record repository interface needed by the service.
type recordRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Record, error)
	SetStatusIf(ctx context.Context, id uuid.UUID, from, to domain.RecordStatus) error
}

// userRepo defines the user repository interface needed by the service.
type userRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// approverResolver supplies the users who receive pending-decision events.
type approverResolver interface {
	Approvers(ctx context.Context) ([]*domain.User, error)
}

// txManager defines the transaction manager interface needed by the service.
type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// dispatcher delivers lifecycle notifications.
type dispatcher interface {
	Dispatch(ctx context.Context, n notify.Notice) (*domain.Notification, error)
}

// auditRecorder appends activity entries.
type auditRecorder interface {
	Record(ctx context.Context, action string, details map[string]any)
}

// Service is the request lifecycle engine.
type Service struct {
	log        *slog.Logger
	requests   requestRepo
	records    recordRepo
	users      userRepo
	approvers  approverResolver
	tx         txManager
	dispatcher dispatcher
	audit      auditRecorder
	loanPeriod time.Duration
	now        func() time.Time
}

// NewService creates a new request lifecycle service.
func NewService(
	logger *slog.Logger,
	requests requestRepo,
	records recordRepo,
	users userRepo,
	approvers approverResolver,
	tx txManager,
	dispatcher dispatcher,
	audit auditRecorder,
	loanPeriod time.Duration,
) *Service {
	return &Service{
		log:        logger.With("service", "request"),
		requests:   requests,
		records:    records,
		users:      users,
		approvers:  approvers,
		tx:         tx,
		dispatcher: dispatcher,
		audit:      audit,
		loanPeriod: loanPeriod,
		now:        time.Now,
	}
}
