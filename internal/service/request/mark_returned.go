package request

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/recordsunit/records-backend/internal/domain"
	"github.com/recordsunit/records-backend/internal/metrics"
	"github.com/recordsunit/records-backend/pkg/ctxutil"
)

// MarkReturned closes out an approved request: the request becomes
// returned, the return timestamp is stamped, and the record goes back to
// available in the same transaction.
func (s *Service) MarkReturned(ctx context.Context, requestID uuid.UUID) (*domain.Request, error) {
	if _, ok := ctxutil.UserIDFromCtx(ctx); !ok {
		return nil, domain.ErrUnauthorized
	}

	var returned *domain.Request

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		returnedAt := s.now().UTC()

		req, err := s.requests.TransitionIf(txCtx, requestID,
			domain.RequestStatusApproved, domain.RequestStatusReturned,
			domain.RequestPatch{ReturnedAt: &returnedAt})
		if err != nil {
			return err
		}

		if err := s.records.SetStatusIf(txCtx, req.RecordID,
			domain.RecordStatusCheckedOut, domain.RecordStatusAvailable); err != nil {
			return fmt.Errorf("release record custody: %w", err)
		}

		returned = req
		return nil
	})
	if err != nil {
		metrics.RequestTransitions.WithLabelValues(domain.RequestStatusReturned.String(), "error").Inc()
		return nil, fmt.Errorf("request.MarkReturned: %w", err)
	}
	metrics.RequestTransitions.WithLabelValues(domain.RequestStatusReturned.String(), "ok").Inc()

	s.notifyRequester(ctx, returned, domain.NotificationRecordReturned, nil)

	s.audit.Record(ctx, domain.ActionMarkReturned, map[string]any{
		"request_id": returned.ID.String(),
		"record_id":  returned.RecordID.String(),
	})

	s.log.InfoContext(ctx, "request marked returned",
		slog.String("request_id", returned.ID.String()),
		slog.String("record_id", returned.RecordID.String()))

	return returned, nil
}
