// Package sweeper scans approved requests for due-soon and overdue
// checkouts and dispatches the matching reminders, at most once per
// request, kind and calendar day.
package sweeper

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/recordsunit/records-backend/internal/config"
	"github.com/recordsunit/records-backend/internal/domain"
	"github.com/recordsunit/records-backend/internal/notify"
)

// requestRepo defines the request queries needed by the sweeper.
type requestRepo interface {
	ListApprovedDueBetween(ctx context.Context, from, to time.Time) ([]*domain.Request, error)
	ListApprovedOverdue(ctx context.Context, now time.Time) ([]*domain.Request, error)
}

// recordRepo supplies record titles for reminder messages.
type recordRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Record, error)
}

// userRepo supplies the reminder recipients.
type userRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// ledgerRepo is the durable once-per-day dedup ledger.
type ledgerRepo interface {
	MarkOnce(ctx context.Context, requestID uuid.UUID, kind domain.NotificationKind, day time.Time) (bool, error)
	Release(ctx context.Context, requestID uuid.UUID, kind domain.NotificationKind, day time.Time) error
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// dispatcher delivers the reminder notifications.
type dispatcher interface {
	Dispatch(ctx context.Context, n notify.Notice) (*domain.Notification, error)
}

// auditRecorder appends activity entries.
type auditRecorder interface {
	Record(ctx context.Context, action string, details map[string]any)
}

// Service is the reminder sweeper.
type Service struct {
	log      *slog.Logger
	requests requestRepo
	records  recordRepo
	users    userRepo
	ledger   ledgerRepo
	dispatch dispatcher
	audit    auditRecorder
	cfg      config.SweeperConfig

	// cache fronts the durable ledger so a re-run within the same day
	// usually skips without touching sqlite.
	cache *expirable.LRU[string, struct{}]

	// running prevents overlapping sweeps.
	running atomic.Bool

	now func() time.Time
}

// NewService creates a new sweeper.
func NewService(
	logger *slog.Logger,
	requests requestRepo,
	records recordRepo,
	users userRepo,
	ledger ledgerRepo,
	dispatch dispatcher,
	audit auditRecorder,
	cfg config.SweeperConfig,
) *Service {
	return &Service{
		log:      logger.With("service", "sweeper"),
		requests: requests,
		records:  records,
		users:    users,
		ledger:   ledger,
		dispatch: dispatch,
		audit:    audit,
		cfg:      cfg,
		cache:    expirable.NewLRU[string, struct{}](cfg.CacheSize, nil, cfg.CacheTTL),
		now:      time.Now,
	}
}
