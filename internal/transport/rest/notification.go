package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/recordsunit/records-backend/internal/domain"
	"github.com/recordsunit/records-backend/pkg/ctxutil"
)

// notificationStore defines the minimal interface needed by
// NotificationHandler.
type notificationStore interface {
	ListByRecipient(ctx context.Context, recipientID uuid.UUID, limit, offset int) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, id, recipientID uuid.UUID) error
	MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error)
	CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error)
}

// NotificationHandler serves per-user notification endpoints.
type NotificationHandler struct {
	store notificationStore
	log   *slog.Logger
}

// NewNotificationHandler creates a NotificationHandler.
func NewNotificationHandler(store notificationStore, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{store: store, log: logger.With("handler", "notification")}
}

type notificationResponse struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	RequestID *string   `json:"requestId,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

const defaultNotificationLimit = 50

// List handles GET /api/v1/notifications. Always scoped to the caller.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := ctxutil.UserIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit := queryInt(r, "limit", defaultNotificationLimit)
	offset := queryInt(r, "offset", 0)

	items, err := h.store.ListByRecipient(r.Context(), userID, limit, offset)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	unread, err := h.store.CountUnread(r.Context(), userID)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	out := make([]notificationResponse, 0, len(items))
	for _, n := range items {
		out = append(out, toNotificationResponse(n))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"notifications": out,
		"unread":        unread,
	})
}

// MarkRead handles POST /api/v1/notifications/{id}/read.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := ctxutil.UserIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid notification id")
		return
	}

	if err := h.store.MarkRead(r.Context(), id, userID); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// MarkAllRead handles POST /api/v1/notifications/read-all.
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := ctxutil.UserIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	updated, err := h.store.MarkAllRead(r.Context(), userID)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"updated": updated})
}

func toNotificationResponse(n *domain.Notification) notificationResponse {
	resp := notificationResponse{
		ID:        n.ID.String(),
		Kind:      string(n.Kind),
		Message:   n.Message,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
	if n.RequestID != nil {
		s := n.RequestID.String()
		resp.RequestID = &s
	}
	return resp
}
