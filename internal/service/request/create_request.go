package request

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/recordsunit/records-backend/internal/domain"
	"github.com/recordsunit/records-backend/internal/metrics"
	"github.com/recordsunit/records-backend/internal/notify"
	"github.com/recordsunit/records-backend/pkg/ctxutil"
)

// CreateRequest opens a pending custody request for a record.
// Fails with domain.ErrNotFound if the record does not exist and with
// domain.ErrRecordUnavailable if it is already checked out.
func (s *Service) CreateRequest(ctx context.Context, input CreateRequestInput) (*domain.Request, error) {
	requesterID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	input.Reason = trimOrNil(input.Reason)

	if err := input.Validate(); err != nil {
		return nil, err
	}

	record, err := s.records.GetByID(ctx, input.RecordID)
	if err != nil {
		return nil, fmt.Errorf("request.CreateRequest get record: %w", err)
	}
	if !record.Available() {
		s.logHolder(ctx, record.ID)
		return nil, fmt.Errorf("record %s: %w", record.ID, domain.ErrRecordUnavailable)
	}

	created, err := s.requests.Create(ctx, &domain.Request{
		ID:          uuid.New(),
		RecordID:    record.ID,
		RequesterID: requesterID,
		Status:      domain.RequestStatusPending,
		Reason:      input.Reason,
		RequestedAt: s.now().UTC(),
	})
	if err != nil {
		metrics.RequestTransitions.WithLabelValues(domain.RequestStatusPending.String(), "error").Inc()
		return nil, fmt.Errorf("request.CreateRequest create: %w", err)
	}
	metrics.RequestTransitions.WithLabelValues(domain.RequestStatusPending.String(), "ok").Inc()

	s.notifyCreated(ctx, created, record)
	s.audit.Record(ctx, domain.ActionCreateRequest, map[string]any{
		"request_id": created.ID.String(),
		"record_id":  record.ID.String(),
	})

	s.log.InfoContext(ctx, "request created",
		slog.String("request_id", created.ID.String()),
		slog.String("record_id", record.ID.String()))

	return created, nil
}

// logHolder notes which approved request holds the record a new request
// bounced off. A checked-out record with no approved request means the
// custody invariant broke somewhere and is worth a warning.
func (s *Service) logHolder(ctx context.Context, recordID uuid.UUID) {
	holder, err := s.requests.ActiveForRecord(ctx, recordID)
	switch {
	case err == nil:
		s.log.InfoContext(ctx, "record already on loan",
			slog.String("record_id", recordID.String()),
			slog.String("holder_request_id", holder.ID.String()))
	case errors.Is(err, domain.ErrNotFound):
		s.log.WarnContext(ctx, "record checked out but no approved request holds it",
			slog.String("record_id", recordID.String()))
	default:
		s.log.ErrorContext(ctx, "failed to look up holding request",
			slog.String("record_id", recordID.String()), "error", err)
	}
}

// notifyCreated tells every approver a decision is waiting and mails the
// requester a submission confirmation. Best effort.
func (s *Service) notifyCreated(ctx context.Context, req *domain.Request, record *domain.Record) {
	requester, err := s.users.GetByID(ctx, req.RequesterID)
	if err != nil {
		s.log.ErrorContext(ctx, "failed to load requester for notification",
			"request_id", req.ID, "error", err)
		return
	}

	approvers, err := s.approvers.Approvers(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "failed to resolve approvers",
			"request_id", req.ID, "error", err)
		return
	}

	for i, approver := range approvers {
		notice := notify.Notice{
			Kind:          domain.NotificationRequestCreated,
			Recipient:     *approver,
			RequestID:     &req.ID,
			RequesterName: requester.Username,
			RecordTitle:   record.Title,
		}
		// One confirmation email to the requester, not one per approver.
		if i == 0 {
			notice.EmailRecipient = requester
		}
		if _, err := s.dispatcher.Dispatch(ctx, notice); err != nil {
			s.log.ErrorContext(ctx, "failed to dispatch request_created",
				"request_id", req.ID, "approver_id", approver.ID, "error", err)
		}
	}
}
