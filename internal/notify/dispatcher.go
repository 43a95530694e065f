// Package notify turns lifecycle events into stored notifications and
// fans them out to the best-effort channels: the realtime bus and email.
// The store write is the source of truth; a notification that could not
// be stored is not delivered anywhere.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/recordsunit/records-backend/internal/domain"
	"github.com/recordsunit/records-backend/internal/metrics"
	"github.com/recordsunit/records-backend/internal/realtime"
)

// Notice describes one event to deliver.
type Notice struct {
	Kind      domain.NotificationKind
	Recipient domain.User
	RequestID *uuid.UUID

	// EmailRecipient, when set, receives the email instead of Recipient.
	// request_created stores the notification for an approver but mails
	// the submission confirmation to the requester.
	EmailRecipient *domain.User

	// RequesterName is set for request_created, where the message names
	// who asked, not who receives.
	RequesterName string
	RecordTitle   string
	Reason        string
	DueAt         *time.Time
}

type notificationStore interface {
	Create(ctx context.Context, n *domain.Notification) error
}

type bus interface {
	Publish(userID uuid.UUID, event realtime.Event)
}

type mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// Dispatcher delivers notices. Store failures abort the dispatch and are
// returned; realtime and email failures are logged and swallowed.
type Dispatcher struct {
	store  notificationStore
	bus    bus
	mailer mailer
	log    *slog.Logger
	now    func() time.Time
}

func NewDispatcher(log *slog.Logger, store notificationStore, bus bus, mailer mailer) *Dispatcher {
	return &Dispatcher{
		store:  store,
		bus:    bus,
		mailer: mailer,
		log:    log.With("component", "dispatcher"),
		now:    time.Now,
	}
}

func (d *Dispatcher) Dispatch(ctx context.Context, n Notice) (*domain.Notification, error) {
	kind := string(n.Kind)

	notification := &domain.Notification{
		ID:          uuid.New(),
		RecipientID: n.Recipient.ID,
		Kind:        n.Kind,
		Message:     buildMessage(n),
		RequestID:   n.RequestID,
		CreatedAt:   d.now().UTC(),
	}

	if err := d.store.Create(ctx, notification); err != nil {
		metrics.NotificationsDispatched.WithLabelValues(kind, "store", "error").Inc()
		return nil, fmt.Errorf("store notification: %w", err)
	}
	metrics.NotificationsDispatched.WithLabelValues(kind, "store", "ok").Inc()

	d.bus.Publish(n.Recipient.ID, realtime.Event{
		Kind:           notification.Kind,
		NotificationID: notification.ID,
		RequestID:      notification.RequestID,
		Message:        notification.Message,
		CreatedAt:      notification.CreatedAt,
	})
	metrics.NotificationsDispatched.WithLabelValues(kind, "realtime", "ok").Inc()

	d.sendEmail(ctx, n)

	return notification, nil
}

func (d *Dispatcher) sendEmail(ctx context.Context, n Notice) {
	kind := string(n.Kind)

	target := n.Recipient
	if n.EmailRecipient != nil {
		target = *n.EmailRecipient
	}
	if d.mailer == nil || target.Email == "" {
		return
	}

	subject, body, ok, err := renderEmail(n.Kind, templateData{
		Username:    target.Username,
		RecordTitle: n.RecordTitle,
		Reason:      n.Reason,
		DueDate:     formatDueDate(n.DueAt),
	})
	if err != nil {
		metrics.NotificationsDispatched.WithLabelValues(kind, "email", "error").Inc()
		d.log.Error("failed to render notification email",
			"kind", kind, "recipient", target.ID, "error", err)
		return
	}
	if !ok {
		return
	}

	if err := d.mailer.Send(ctx, target.Email, subject, body); err != nil {
		metrics.NotificationsDispatched.WithLabelValues(kind, "email", "error").Inc()
		d.log.Error("failed to send notification email",
			"kind", kind, "recipient", target.ID, "error", err)
		return
	}
	metrics.NotificationsDispatched.WithLabelValues(kind, "email", "ok").Inc()
}
