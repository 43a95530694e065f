package rest

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/recordsunit/records-backend/internal/realtime"
	"github.com/recordsunit/records-backend/pkg/ctxutil"
)

// eventSource is the per-user subscription surface of the realtime hub.
type eventSource interface {
	Subscribe(userID uuid.UUID) (<-chan realtime.Event, func())
}

// EventsHandler streams per-user notification events over SSE.
type EventsHandler struct {
	hub eventSource
	log *slog.Logger

	// heartbeat keeps idle connections alive through proxies.
	heartbeat time.Duration
}

// NewEventsHandler creates an EventsHandler.
func NewEventsHandler(hub eventSource, logger *slog.Logger) *EventsHandler {
	return &EventsHandler{
		hub:       hub,
		log:       logger.With("handler", "events"),
		heartbeat: 30 * time.Second,
	}
}

// Stream handles GET /api/v1/events. The connection stays open until
// the client goes away; each hub event becomes one SSE message.
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	userID, ok := ctxutil.UserIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	events, cancel := h.hub.Subscribe(userID)
	defer cancel()

	header := w.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			fmt.Fprint(w, ": ping\n\n") //nolint:errcheck
			flusher.Flush()
		case event, open := <-events:
			if !open {
				return
			}
			data, err := json.Marshal(event)
			if err != nil {
				h.log.Error("event marshal failed", "error", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Kind, data) //nolint:errcheck
			flusher.Flush()
		}
	}
}
