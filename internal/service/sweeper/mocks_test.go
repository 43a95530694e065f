package sweeper

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/recordsunit/records-backend/internal/domain"
	"github.com/recordsunit/records-backend/internal/notify"
)

type requestRepoMock struct {
	ListApprovedDueBetweenFunc func(ctx context.Context, from, to time.Time) ([]*domain.Request, error)
	ListApprovedOverdueFunc    func(ctx context.Context, now time.Time) ([]*domain.Request, error)
}

func (m *requestRepoMock) ListApprovedDueBetween(ctx context.Context, from, to time.Time) ([]*domain.Request, error) {
	return m.ListApprovedDueBetweenFunc(ctx, from, to)
}

func (m *requestRepoMock) ListApprovedOverdue(ctx context.Context, now time.Time) ([]*domain.Request, error) {
	return m.ListApprovedOverdueFunc(ctx, now)
}

type recordRepoMock struct {
	GetByIDFunc func(ctx context.Context, id uuid.UUID) (*domain.Record, error)
}

func (m *recordRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Record, error) {
	return m.GetByIDFunc(ctx, id)
}

type userRepoMock struct {
	GetByIDFunc func(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

func (m *userRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return m.GetByIDFunc(ctx, id)
}

type ledgerSlot struct {
	RequestID uuid.UUID
	Kind      domain.NotificationKind
	Day       string
}

// ledgerRepoMock mimics the sqlite ledger: the first claim of a slot
// wins, repeats report false, a release frees the slot again.
type ledgerRepoMock struct {
	MarkOnceFunc    func(ctx context.Context, requestID uuid.UUID, kind domain.NotificationKind, day time.Time) (bool, error)
	ReleaseFunc     func(ctx context.Context, requestID uuid.UUID, kind domain.NotificationKind, day time.Time) error
	PruneBeforeFunc func(ctx context.Context, cutoff time.Time) (int64, error)

	mu       sync.Mutex
	claimed  map[ledgerSlot]bool
	releases []ledgerSlot
	prunes   []time.Time
}

func (m *ledgerRepoMock) MarkOnce(ctx context.Context, requestID uuid.UUID, kind domain.NotificationKind, day time.Time) (bool, error) {
	if m.MarkOnceFunc != nil {
		return m.MarkOnceFunc(ctx, requestID, kind, day)
	}
	slot := ledgerSlot{RequestID: requestID, Kind: kind, Day: day.UTC().Format("2006-01-02")}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.claimed == nil {
		m.claimed = make(map[ledgerSlot]bool)
	}
	if m.claimed[slot] {
		return false, nil
	}
	m.claimed[slot] = true
	return true, nil
}

func (m *ledgerRepoMock) Release(ctx context.Context, requestID uuid.UUID, kind domain.NotificationKind, day time.Time) error {
	slot := ledgerSlot{RequestID: requestID, Kind: kind, Day: day.UTC().Format("2006-01-02")}
	m.mu.Lock()
	m.releases = append(m.releases, slot)
	delete(m.claimed, slot)
	m.mu.Unlock()
	if m.ReleaseFunc != nil {
		return m.ReleaseFunc(ctx, requestID, kind, day)
	}
	return nil
}

func (m *ledgerRepoMock) ReleaseCalls() []ledgerSlot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ledgerSlot(nil), m.releases...)
}

func (m *ledgerRepoMock) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	m.prunes = append(m.prunes, cutoff)
	m.mu.Unlock()
	if m.PruneBeforeFunc != nil {
		return m.PruneBeforeFunc(ctx, cutoff)
	}
	return 0, nil
}

func (m *ledgerRepoMock) PruneCalls() []time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Time(nil), m.prunes...)
}

type dispatcherMock struct {
	DispatchFunc func(ctx context.Context, n notify.Notice) (*domain.Notification, error)

	mu      sync.Mutex
	notices []notify.Notice
}

func (m *dispatcherMock) Dispatch(ctx context.Context, n notify.Notice) (*domain.Notification, error) {
	m.mu.Lock()
	m.notices = append(m.notices, n)
	m.mu.Unlock()
	if m.DispatchFunc != nil {
		return m.DispatchFunc(ctx, n)
	}
	return &domain.Notification{ID: uuid.New(), Kind: n.Kind, RecipientID: n.Recipient.ID}, nil
}

func (m *dispatcherMock) Notices() []notify.Notice {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]notify.Notice(nil), m.notices...)
}

type auditRecorderMock struct {
	mu      sync.Mutex
	actions []string
}

func (m *auditRecorderMock) Record(ctx context.Context, action string, details map[string]any) {
	m.mu.Lock()
	m.actions = append(m.actions, action)
	m.mu.Unlock()
}

func (m *auditRecorderMock) Actions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.actions...)
}
