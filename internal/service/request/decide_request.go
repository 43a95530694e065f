package request

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/recordsunit/records-backend/internal/domain"
	"github.com/recordsunit/records-backend/internal/metrics"
	"github.com/recordsunit/records-backend/internal/notify"
	"github.com/recordsunit/records-backend/pkg/ctxutil"
)

// DecideRequest approves or rejects a pending request.
//
// Approval stamps the due date and flips the record to checked_out in the
// same transaction as the state change, so the record is never observably
// available while its request is approved. A concurrent decision on the
// same request (or on another request for the same record) makes the
// loser fail with domain.ErrInvalidTransition or domain.ErrRecordUnavailable.
func (s *Service) DecideRequest(ctx context.Context, input DecideRequestInput) (*domain.Request, error) {
	reviewerID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	input.Reason = trimOrNil(input.Reason)

	if err := input.Validate(); err != nil {
		return nil, err
	}

	var decided *domain.Request

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		patch := domain.RequestPatch{DecidedBy: &reviewerID}
		if input.Decision == domain.RequestStatusApproved {
			due := s.now().UTC().Add(s.loanPeriod)
			patch.DueAt = &due
		}

		req, err := s.requests.TransitionIf(txCtx, input.RequestID,
			domain.RequestStatusPending, input.Decision, patch)
		if err != nil {
			return err
		}

		if input.Decision == domain.RequestStatusApproved {
			if err := s.records.SetStatusIf(txCtx, req.RecordID,
				domain.RecordStatusAvailable, domain.RecordStatusCheckedOut); err != nil {
				return fmt.Errorf("flip record custody: %w", err)
			}
		}

		decided = req
		return nil
	})
	if err != nil {
		metrics.RequestTransitions.WithLabelValues(input.Decision.String(), "error").Inc()
		return nil, fmt.Errorf("request.DecideRequest: %w", err)
	}
	metrics.RequestTransitions.WithLabelValues(input.Decision.String(), "ok").Inc()

	kind := domain.NotificationRequestApproved
	if input.Decision == domain.RequestStatusRejected {
		kind = domain.NotificationRequestRejected
	}
	s.notifyRequester(ctx, decided, kind, input.Reason)

	s.audit.Record(ctx, domain.ActionUpdateRequest, map[string]any{
		"request_id": decided.ID.String(),
		"record_id":  decided.RecordID.String(),
		"status":     decided.Status.String(),
	})

	s.log.InfoContext(ctx, "request decided",
		slog.String("request_id", decided.ID.String()),
		slog.String("status", decided.Status.String()),
		slog.String("reviewer_id", reviewerID.String()))

	return decided, nil
}

// notifyRequester dispatches a lifecycle event to the request's owner.
// Best effort.
func (s *Service) notifyRequester(ctx context.Context, req *domain.Request, kind domain.NotificationKind, reason *string) {
	requester, err := s.users.GetByID(ctx, req.RequesterID)
	if err != nil {
		s.log.ErrorContext(ctx, "failed to load requester for notification",
			"request_id", req.ID, "error", err)
		return
	}

	title := ""
	if record, err := s.records.GetByID(ctx, req.RecordID); err == nil {
		title = record.Title
	} else {
		s.log.ErrorContext(ctx, "failed to load record for notification",
			"request_id", req.ID, "error", err)
	}

	notice := notify.Notice{
		Kind:        kind,
		Recipient:   *requester,
		RequestID:   &req.ID,
		RecordTitle: title,
		DueAt:       req.DueAt,
	}
	if reason != nil {
		notice.Reason = *reason
	}

	if _, err := s.dispatcher.Dispatch(ctx, notice); err != nil {
		s.log.ErrorContext(ctx, "failed to dispatch lifecycle notification",
			"request_id", req.ID, "kind", kind, "error", err)
	}
}
