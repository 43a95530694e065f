package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/recordsunit/records-backend/internal/domain"
)

// activityStore defines the minimal interface needed by ActivityHandler.
type activityStore interface {
	ListRecent(ctx context.Context, actorID *uuid.UUID, limit, offset int) ([]*domain.ActivityEntry, error)
}

// ActivityHandler serves the audit trail. Admin only; the router guards
// the route.
type ActivityHandler struct {
	store activityStore
	log   *slog.Logger
}

// NewActivityHandler creates an ActivityHandler.
func NewActivityHandler(store activityStore, logger *slog.Logger) *ActivityHandler {
	return &ActivityHandler{store: store, log: logger.With("handler", "activity")}
}

type activityResponse struct {
	ID        string         `json:"id"`
	ActorID   string         `json:"actorId"`
	Action    string         `json:"action"`
	Details   map[string]any `json:"details"`
	OriginIP  string         `json:"originIp,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

const defaultActivityLimit = 100

// List handles GET /api/v1/activity with optional actorId, limit and
// offset query parameters.
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	var actorID *uuid.UUID
	if raw := r.URL.Query().Get("actorId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid actor id")
			return
		}
		actorID = &id
	}

	limit := queryInt(r, "limit", defaultActivityLimit)
	offset := queryInt(r, "offset", 0)

	entries, err := h.store.ListRecent(r.Context(), actorID, limit, offset)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	out := make([]activityResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, activityResponse{
			ID:        e.ID.String(),
			ActorID:   e.ActorID.String(),
			Action:    e.Action,
			Details:   e.Details,
			OriginIP:  e.OriginIP,
			CreatedAt: e.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"activity": out})
}
