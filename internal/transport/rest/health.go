package rest

import (
	"context"
	"net/http"
	"time"
)

// pinger is the minimal interface for backing store health checks.
type pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves health check endpoints over both backing stores.
type HealthHandler struct {
	db       pinger
	docstore pinger
	version  string
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(db, docstore pinger, version string) *HealthHandler {
	return &HealthHandler{db: db, docstore: docstore, version: version}
}

// HealthResponse is the JSON response for /health and /health/ready.
type HealthResponse struct {
	Status     string                `json:"status"`
	Version    string                `json:"version,omitempty"`
	Components map[string]CompStatus `json:"components,omitempty"`
	Timestamp  time.Time             `json:"timestamp"`
}

// CompStatus is the status of an individual component.
type CompStatus struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
}

// Live is the liveness probe. Always returns 200.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
	})
}

// Ready is the readiness probe: 200 when both stores answer, 503 otherwise.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:    "down",
			Timestamp: time.Now(),
		})
		return
	}
	if err := h.docstore.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:    "down",
			Timestamp: time.Now(),
		})
		return
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
	})
}

// Health is the full health check with per-component latency and version.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	components := make(map[string]CompStatus)
	overallStatus := "ok"

	for name, p := range map[string]pinger{
		"database": h.db,
		"docstore": h.docstore,
	} {
		start := time.Now()
		if err := p.Ping(ctx); err != nil {
			components[name] = CompStatus{Status: "down"}
			overallStatus = "down"
			continue
		}
		components[name] = CompStatus{
			Status:  "ok",
			Latency: time.Since(start).String(),
		}
	}

	status := http.StatusOK
	if overallStatus != "ok" {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, HealthResponse{
		Status:     overallStatus,
		Version:    h.version,
		Components: components,
		Timestamp:  time.Now(),
	})
}
