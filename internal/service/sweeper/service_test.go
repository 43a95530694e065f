package sweeper

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recordsunit/records-backend/internal/config"
	"github.com/recordsunit/records-backend/internal/domain"
	"github.com/recordsunit/records-backend/internal/notify"
)

var testNow = time.Date(2026, time.August, 31, 9, 0, 0, 0, time.UTC)

var testSweeperCfg = config.SweeperConfig{
	Enabled:         true,
	RunAt:           "09:00",
	LoanPeriod:      336 * time.Hour,
	LedgerRetention: 720 * time.Hour,
	CacheSize:       64,
	CacheTTL:        48 * time.Hour,
}

type testMocks struct {
	requests *requestRepoMock
	records  *recordRepoMock
	users    *userRepoMock
	ledger   *ledgerRepoMock
	dispatch *dispatcherMock
	audit    *auditRecorderMock
}

func defaultMocks() *testMocks {
	requester := &domain.User{
		ID:       uuid.New(),
		Username: "asmith",
		Email:    "asmith@example.org",
		Role:     domain.RoleStaff,
	}
	record := &domain.Record{
		ID:     uuid.New(),
		Title:  "Quarterly ledger 2025",
		Status: domain.RecordStatusCheckedOut,
	}
	return &testMocks{
		requests: &requestRepoMock{
			ListApprovedDueBetweenFunc: func(ctx context.Context, from, to time.Time) ([]*domain.Request, error) {
				return nil, nil
			},
			ListApprovedOverdueFunc: func(ctx context.Context, now time.Time) ([]*domain.Request, error) {
				return nil, nil
			},
		},
		records: &recordRepoMock{
			GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Record, error) {
				rec := *record
				rec.ID = id
				return &rec, nil
			},
		},
		users: &userRepoMock{
			GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
				u := *requester
				u.ID = id
				return &u, nil
			},
		},
		ledger:   &ledgerRepoMock{},
		dispatch: &dispatcherMock{},
		audit:    &auditRecorderMock{},
	}
}

func newTestService(m *testMocks) *Service {
	s := NewService(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		m.requests, m.records, m.users, m.ledger, m.dispatch, m.audit,
		testSweeperCfg,
	)
	s.now = func() time.Time { return testNow }
	return s
}

func approvedRequest(due time.Time) *domain.Request {
	return &domain.Request{
		ID:          uuid.New(),
		RecordID:    uuid.New(),
		RequesterID: uuid.New(),
		Status:      domain.RequestStatusApproved,
		DueAt:       &due,
	}
}

func TestRunOnce_NothingToRemind(t *testing.T) {
	m := defaultMocks()
	s := newTestService(m)

	require.NoError(t, s.RunOnce(context.Background()))

	assert.Empty(t, m.dispatch.Notices())
	assert.Empty(t, m.audit.Actions())

	prunes := m.ledger.PruneCalls()
	require.Len(t, prunes, 1)
	assert.Equal(t, testNow.Add(-testSweeperCfg.LedgerRetention), prunes[0])
}

func TestRunOnce_DueReminder(t *testing.T) {
	m := defaultMocks()
	due := testNow.Add(36 * time.Hour)
	req := approvedRequest(due)
	m.requests.ListApprovedDueBetweenFunc = func(ctx context.Context, from, to time.Time) ([]*domain.Request, error) {
		assert.Equal(t, testNow.Add(24*time.Hour), from)
		assert.Equal(t, testNow.Add(48*time.Hour), to)
		return []*domain.Request{req}, nil
	}
	s := newTestService(m)

	require.NoError(t, s.RunOnce(context.Background()))

	notices := m.dispatch.Notices()
	require.Len(t, notices, 1)
	assert.Equal(t, domain.NotificationRecordDue, notices[0].Kind)
	assert.Equal(t, req.RequesterID, notices[0].Recipient.ID)
	assert.Equal(t, "Quarterly ledger 2025", notices[0].RecordTitle)
	require.NotNil(t, notices[0].RequestID)
	assert.Equal(t, req.ID, *notices[0].RequestID)
	require.NotNil(t, notices[0].DueAt)
	assert.True(t, notices[0].DueAt.Equal(due))

	assert.Equal(t, []string{domain.ActionSweepReminder}, m.audit.Actions())
}

func TestRunOnce_OverdueReminder(t *testing.T) {
	m := defaultMocks()
	due := testNow.Add(-72 * time.Hour)
	req := approvedRequest(due)
	m.requests.ListApprovedOverdueFunc = func(ctx context.Context, now time.Time) ([]*domain.Request, error) {
		return []*domain.Request{req}, nil
	}
	s := newTestService(m)

	require.NoError(t, s.RunOnce(context.Background()))

	notices := m.dispatch.Notices()
	require.Len(t, notices, 1)
	assert.Equal(t, domain.NotificationRecordOverdue, notices[0].Kind)
	assert.Equal(t, req.RequesterID, notices[0].Recipient.ID)
}

func TestRunOnce_SecondRunSameDayDeduplicates(t *testing.T) {
	m := defaultMocks()
	req := approvedRequest(testNow.Add(30 * time.Hour))
	m.requests.ListApprovedDueBetweenFunc = func(ctx context.Context, from, to time.Time) ([]*domain.Request, error) {
		return []*domain.Request{req}, nil
	}
	s := newTestService(m)

	require.NoError(t, s.RunOnce(context.Background()))
	require.NoError(t, s.RunOnce(context.Background()))

	assert.Len(t, m.dispatch.Notices(), 1)
	assert.Len(t, m.audit.Actions(), 1)
}

func TestRunOnce_LedgerDedupsAcrossRestart(t *testing.T) {
	// A shared ledger stands in for the durable sqlite file surviving a
	// process restart; each service instance starts with a cold cache.
	m := defaultMocks()
	req := approvedRequest(testNow.Add(30 * time.Hour))
	m.requests.ListApprovedDueBetweenFunc = func(ctx context.Context, from, to time.Time) ([]*domain.Request, error) {
		return []*domain.Request{req}, nil
	}

	require.NoError(t, newTestService(m).RunOnce(context.Background()))
	require.NoError(t, newTestService(m).RunOnce(context.Background()))

	assert.Len(t, m.dispatch.Notices(), 1)
}

func TestRunOnce_NextDayFiresAgain(t *testing.T) {
	m := defaultMocks()
	req := approvedRequest(testNow.Add(30 * time.Hour))
	m.requests.ListApprovedDueBetweenFunc = func(ctx context.Context, from, to time.Time) ([]*domain.Request, error) {
		return []*domain.Request{req}, nil
	}
	s := newTestService(m)

	require.NoError(t, s.RunOnce(context.Background()))
	s.now = func() time.Time { return testNow.AddDate(0, 0, 1) }
	require.NoError(t, s.RunOnce(context.Background()))

	assert.Len(t, m.dispatch.Notices(), 2)
}

func TestRunOnce_DueAndOverdueAreSeparateSlots(t *testing.T) {
	m := defaultMocks()
	req := approvedRequest(testNow.Add(-time.Hour))
	m.requests.ListApprovedDueBetweenFunc = func(ctx context.Context, from, to time.Time) ([]*domain.Request, error) {
		return []*domain.Request{req}, nil
	}
	m.requests.ListApprovedOverdueFunc = func(ctx context.Context, now time.Time) ([]*domain.Request, error) {
		return []*domain.Request{req}, nil
	}
	s := newTestService(m)

	require.NoError(t, s.RunOnce(context.Background()))

	notices := m.dispatch.Notices()
	require.Len(t, notices, 2)
	assert.Equal(t, domain.NotificationRecordDue, notices[0].Kind)
	assert.Equal(t, domain.NotificationRecordOverdue, notices[1].Kind)
}

func TestRunOnce_DispatchFailureDoesNotAbortSweep(t *testing.T) {
	m := defaultMocks()
	first := approvedRequest(testNow.Add(30 * time.Hour))
	second := approvedRequest(testNow.Add(30 * time.Hour))
	m.requests.ListApprovedDueBetweenFunc = func(ctx context.Context, from, to time.Time) ([]*domain.Request, error) {
		return []*domain.Request{first, second}, nil
	}
	m.dispatch.DispatchFunc = func(ctx context.Context, n notify.Notice) (*domain.Notification, error) {
		if n.RequestID != nil && *n.RequestID == first.ID {
			return nil, errors.New("smtp down")
		}
		return &domain.Notification{ID: uuid.New()}, nil
	}
	s := newTestService(m)

	require.NoError(t, s.RunOnce(context.Background()))

	// Both were attempted, only the second one is audited as sent.
	assert.Len(t, m.dispatch.Notices(), 2)
	assert.Equal(t, []string{domain.ActionSweepReminder}, m.audit.Actions())

	// The failed send gave its slot back.
	releases := m.ledger.ReleaseCalls()
	require.Len(t, releases, 1)
	assert.Equal(t, first.ID, releases[0].RequestID)
}

func TestRunOnce_DispatchFailureRetriedSameDay(t *testing.T) {
	m := defaultMocks()
	req := approvedRequest(testNow.Add(30 * time.Hour))
	m.requests.ListApprovedDueBetweenFunc = func(ctx context.Context, from, to time.Time) ([]*domain.Request, error) {
		return []*domain.Request{req}, nil
	}
	m.dispatch.DispatchFunc = func(ctx context.Context, n notify.Notice) (*domain.Notification, error) {
		return nil, errors.New("smtp down")
	}
	s := newTestService(m)

	require.NoError(t, s.RunOnce(context.Background()))
	assert.Empty(t, m.audit.Actions())

	// SMTP is back; the same-day re-run must deliver the reminder
	// instead of treating the failed slot as already sent.
	m.dispatch.DispatchFunc = nil
	require.NoError(t, s.RunOnce(context.Background()))

	assert.Len(t, m.dispatch.Notices(), 2)
	assert.Equal(t, []string{domain.ActionSweepReminder}, m.audit.Actions())

	// A third run is deduplicated as usual.
	require.NoError(t, s.RunOnce(context.Background()))
	assert.Len(t, m.dispatch.Notices(), 2)
}

func TestRunOnce_ListFailure(t *testing.T) {
	m := defaultMocks()
	m.requests.ListApprovedDueBetweenFunc = func(ctx context.Context, from, to time.Time) ([]*domain.Request, error) {
		return nil, errors.New("connection refused")
	}
	s := newTestService(m)

	err := s.RunOnce(context.Background())
	require.Error(t, err)
	assert.Empty(t, m.dispatch.Notices())
	assert.False(t, s.running.Load())
}

func TestRunOnce_OverlapGuard(t *testing.T) {
	m := defaultMocks()
	entered := make(chan struct{})
	release := make(chan struct{})
	m.requests.ListApprovedDueBetweenFunc = func(ctx context.Context, from, to time.Time) ([]*domain.Request, error) {
		close(entered)
		<-release
		return nil, nil
	}
	s := newTestService(m)

	done := make(chan error, 1)
	go func() { done <- s.RunOnce(context.Background()) }()

	<-entered
	assert.ErrorIs(t, s.RunOnce(context.Background()), ErrSweepInProgress)
	close(release)
	require.NoError(t, <-done)
}

func TestNextRunAfter(t *testing.T) {
	now := time.Date(2026, time.August, 31, 8, 30, 0, 0, time.UTC)

	next := nextRunAfter(now, 9, 0)
	assert.Equal(t, time.Date(2026, time.August, 31, 9, 0, 0, 0, time.UTC), next)

	// At or past today's slot the schedule rolls to tomorrow.
	next = nextRunAfter(time.Date(2026, time.August, 31, 9, 0, 0, 0, time.UTC), 9, 0)
	assert.Equal(t, time.Date(2026, time.September, 1, 9, 0, 0, 0, time.UTC), next)
}
