package sweeper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/recordsunit/records-backend/internal/adapter/docstore/ledger"
	"github.com/recordsunit/records-backend/internal/domain"
	"github.com/recordsunit/records-backend/internal/metrics"
	"github.com/recordsunit/records-backend/internal/notify"
)

// ErrSweepInProgress is returned when RunOnce is called while a previous
// sweep is still running.
var ErrSweepInProgress = errors.New("sweep already in progress")

const (
	// dueWindowStart and dueWindowEnd bound the "due soon" pass:
	// approved requests whose due date falls within (now+24h, now+48h).
	dueWindowStart = 24 * time.Hour
	dueWindowEnd   = 48 * time.Hour
)

// RunOnce executes a single reminder sweep: one due-soon pass, one
// overdue pass, then a ledger prune. Each (request, kind, day) slot
// fires at most once; the durable ledger enforces this across process
// restarts and the in-memory cache fronts it for cheap re-runs.
func (s *Service) RunOnce(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		s.log.Warn("sweep skipped, previous run still in progress")
		return ErrSweepInProgress
	}
	defer s.running.Store(false)

	start := s.now()
	now := start.UTC()

	due, err := s.requests.ListApprovedDueBetween(ctx, now.Add(dueWindowStart), now.Add(dueWindowEnd))
	if err != nil {
		metrics.SweepRuns.WithLabelValues("error").Inc()
		return fmt.Errorf("list due requests: %w", err)
	}
	overdue, err := s.requests.ListApprovedOverdue(ctx, now)
	if err != nil {
		metrics.SweepRuns.WithLabelValues("error").Inc()
		return fmt.Errorf("list overdue requests: %w", err)
	}

	sent := 0
	for _, req := range due {
		n, err := s.remind(ctx, req, domain.NotificationRecordDue, now)
		if err != nil {
			s.log.Error("due reminder failed", "request_id", req.ID, "error", err)
			continue
		}
		sent += n
	}
	for _, req := range overdue {
		n, err := s.remind(ctx, req, domain.NotificationRecordOverdue, now)
		if err != nil {
			s.log.Error("overdue reminder failed", "request_id", req.ID, "error", err)
			continue
		}
		sent += n
	}

	if pruned, err := s.ledger.PruneBefore(ctx, now.Add(-s.cfg.LedgerRetention)); err != nil {
		s.log.Error("ledger prune failed", "error", err)
	} else if pruned > 0 {
		s.log.Debug("ledger pruned", "rows", pruned)
	}

	metrics.SweepRuns.WithLabelValues("ok").Inc()
	metrics.SweepDuration.Observe(time.Since(start).Seconds())
	s.log.Info("sweep complete",
		"due", len(due), "overdue", len(overdue), "sent", sent,
		"took", time.Since(start).String())
	return nil
}

// remind sends one reminder for the request if its slot for today is
// still free. Returns 1 when a reminder went out, 0 when deduplicated.
// A claimed slot whose reminder never went out is released, so the next
// run of the day retries it.
func (s *Service) remind(ctx context.Context, req *domain.Request, kind domain.NotificationKind, now time.Time) (int, error) {
	key := slotKey(req.ID.String(), kind, now)
	if _, ok := s.cache.Get(key); ok {
		metrics.RemindersDeduped.WithLabelValues(string(kind)).Inc()
		return 0, nil
	}

	claimed, err := s.ledger.MarkOnce(ctx, req.ID, kind, now)
	if err != nil {
		return 0, fmt.Errorf("claim reminder slot: %w", err)
	}
	if !claimed {
		s.cache.Add(key, struct{}{})
		metrics.RemindersDeduped.WithLabelValues(string(kind)).Inc()
		return 0, nil
	}

	requester, err := s.users.GetByID(ctx, req.RequesterID)
	if err != nil {
		s.releaseSlot(ctx, req.ID, kind, now)
		return 0, fmt.Errorf("get requester: %w", err)
	}
	record, err := s.records.GetByID(ctx, req.RecordID)
	if err != nil {
		s.releaseSlot(ctx, req.ID, kind, now)
		return 0, fmt.Errorf("get record: %w", err)
	}

	requestID := req.ID
	if _, err := s.dispatch.Dispatch(ctx, notify.Notice{
		Kind:        kind,
		Recipient:   *requester,
		RequestID:   &requestID,
		RecordTitle: record.Title,
		DueAt:       req.DueAt,
	}); err != nil {
		s.releaseSlot(ctx, req.ID, kind, now)
		return 0, fmt.Errorf("dispatch reminder: %w", err)
	}

	s.cache.Add(key, struct{}{})
	metrics.RemindersSent.WithLabelValues(string(kind)).Inc()
	s.audit.Record(ctx, domain.ActionSweepReminder, map[string]any{
		"request_id": req.ID.String(),
		"record_id":  req.RecordID.String(),
		"kind":       string(kind),
	})
	return 1, nil
}

// releaseSlot gives a claimed slot back after a send failure. If the
// release itself fails the slot stays burned for the day; that is only
// logged, the sweep error already carries the root cause.
func (s *Service) releaseSlot(ctx context.Context, requestID uuid.UUID, kind domain.NotificationKind, day time.Time) {
	if err := s.ledger.Release(ctx, requestID, kind, day); err != nil {
		s.log.Error("ledger release failed",
			"request_id", requestID, "kind", string(kind), "error", err)
	}
}

func slotKey(requestID string, kind domain.NotificationKind, day time.Time) string {
	return requestID + "|" + string(kind) + "|" + day.UTC().Format(ledger.DayFormat)
}
