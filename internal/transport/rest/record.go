package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/recordsunit/records-backend/internal/domain"
	"github.com/recordsunit/records-backend/internal/service/record"
)

// recordService defines the minimal interface needed by RecordHandler.
type recordService interface {
	Create(ctx context.Context, input record.CreateRecordInput) (*domain.Record, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Record, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Record, error)
	Update(ctx context.Context, id uuid.UUID, input record.UpdateRecordInput) (*domain.Record, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// RecordHandler serves record catalog REST endpoints.
type RecordHandler struct {
	svc recordService
	log *slog.Logger
}

// NewRecordHandler creates a RecordHandler.
func NewRecordHandler(svc recordService, logger *slog.Logger) *RecordHandler {
	return &RecordHandler{svc: svc, log: logger.With("handler", "record")}
}

type recordPayload struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	FileNumber  string  `json:"fileNumber"`
	Category    *string `json:"category"`
	Location    *string `json:"location"`
}

type recordResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	FileNumber  string    `json:"fileNumber"`
	Category    *string   `json:"category,omitempty"`
	Location    *string   `json:"location,omitempty"`
	Status      string    `json:"status"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Create handles POST /api/v1/records.
func (h *RecordHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req recordPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := h.svc.Create(r.Context(), record.CreateRecordInput{
		Title:       req.Title,
		Description: req.Description,
		FileNumber:  req.FileNumber,
		Category:    req.Category,
		Location:    req.Location,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toRecordResponse(rec))
}

// Get handles GET /api/v1/records/{id}.
func (h *RecordHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid record id")
		return
	}

	rec, err := h.svc.Get(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toRecordResponse(rec))
}

// List handles GET /api/v1/records.
func (h *RecordHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 0)
	offset := queryInt(r, "offset", 0)

	recs, err := h.svc.List(r.Context(), limit, offset)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	out := make([]recordResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toRecordResponse(rec))
	}
	writeJSON(w, http.StatusOK, map[string]any{"records": out})
}

// Update handles PUT /api/v1/records/{id}.
func (h *RecordHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid record id")
		return
	}

	var req recordPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := h.svc.Update(r.Context(), id, record.UpdateRecordInput{
		Title:       req.Title,
		Description: req.Description,
		FileNumber:  req.FileNumber,
		Category:    req.Category,
		Location:    req.Location,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toRecordResponse(rec))
}

// Delete handles DELETE /api/v1/records/{id}.
func (h *RecordHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid record id")
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func toRecordResponse(rec *domain.Record) recordResponse {
	return recordResponse{
		ID:          rec.ID.String(),
		Title:       rec.Title,
		Description: rec.Description,
		FileNumber:  rec.FileNumber,
		Category:    rec.Category,
		Location:    rec.Location,
		Status:      rec.Status.String(),
		CreatedBy:   rec.CreatedBy.String(),
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}
}
