package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/recordsunit/records-backend/internal/domain"
	"github.com/recordsunit/records-backend/internal/service/request"
	"github.com/recordsunit/records-backend/pkg/ctxutil"
)

// requestService defines the minimal interface needed by RequestHandler.
type requestService interface {
	CreateRequest(ctx context.Context, input request.CreateRequestInput) (*domain.Request, error)
	DecideRequest(ctx context.Context, input request.DecideRequestInput) (*domain.Request, error)
	MarkReturned(ctx context.Context, requestID uuid.UUID) (*domain.Request, error)
	List(ctx context.Context, filter domain.RequestFilter) ([]*domain.Request, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Request, error)
}

// RequestHandler serves custody request REST endpoints.
type RequestHandler struct {
	svc requestService
	log *slog.Logger
}

// NewRequestHandler creates a RequestHandler.
func NewRequestHandler(svc requestService, logger *slog.Logger) *RequestHandler {
	return &RequestHandler{svc: svc, log: logger.With("handler", "request")}
}

type createRequestBody struct {
	RecordID string  `json:"recordId"`
	Reason   *string `json:"reason"`
}

type decideRequestBody struct {
	Decision string  `json:"decision"`
	Reason   *string `json:"reason"`
}

type requestResponse struct {
	ID          string     `json:"id"`
	RecordID    string     `json:"recordId"`
	RequesterID string     `json:"requesterId"`
	Status      string     `json:"status"`
	Reason      *string    `json:"reason,omitempty"`
	RequestedAt time.Time  `json:"requestedAt"`
	DueAt       *time.Time `json:"dueAt,omitempty"`
	ReturnedAt  *time.Time `json:"returnedAt,omitempty"`
	DecidedBy   *string    `json:"decidedBy,omitempty"`
}

// Create handles POST /api/v1/requests.
func (h *RequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	recordID, err := uuid.Parse(req.RecordID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid record id")
		return
	}

	created, err := h.svc.CreateRequest(r.Context(), request.CreateRequestInput{
		RecordID: recordID,
		Reason:   req.Reason,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toRequestResponse(created))
}

// Decide handles POST /api/v1/requests/{id}/decide.
func (h *RequestHandler) Decide(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	var req decideRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	decided, err := h.svc.DecideRequest(r.Context(), request.DecideRequestInput{
		RequestID: id,
		Decision:  domain.RequestStatus(req.Decision),
		Reason:    req.Reason,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toRequestResponse(decided))
}

// Return handles POST /api/v1/requests/{id}/return.
func (h *RequestHandler) Return(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	returned, err := h.svc.MarkReturned(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toRequestResponse(returned))
}

// Get handles GET /api/v1/requests/{id}.
func (h *RequestHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	req, err := h.svc.Get(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toRequestResponse(req))
}

// List handles GET /api/v1/requests with optional status, recordId,
// limit and offset query parameters.
func (h *RequestHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := listFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.list(w, r, filter)
}

// Mine handles GET /api/v1/requests/my: the caller's own requests.
func (h *RequestHandler) Mine(w http.ResponseWriter, r *http.Request) {
	filter, err := listFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	userID, ok := ctxutil.UserIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	filter.RequesterID = &userID

	h.list(w, r, filter)
}

func (h *RequestHandler) list(w http.ResponseWriter, r *http.Request, filter domain.RequestFilter) {
	reqs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	out := make([]requestResponse, 0, len(reqs))
	for _, req := range reqs {
		out = append(out, toRequestResponse(req))
	}
	writeJSON(w, http.StatusOK, map[string]any{"requests": out})
}

func listFilter(r *http.Request) (domain.RequestFilter, error) {
	filter := domain.RequestFilter{
		Limit:  queryInt(r, "limit", 0),
		Offset: queryInt(r, "offset", 0),
	}

	if raw := r.URL.Query().Get("status"); raw != "" {
		status := domain.RequestStatus(raw)
		if !status.IsValid() {
			return filter, errInvalidStatus
		}
		filter.Status = &status
	}
	if raw := r.URL.Query().Get("recordId"); raw != "" {
		recordID, err := uuid.Parse(raw)
		if err != nil {
			return filter, errInvalidRecordID
		}
		filter.RecordID = &recordID
	}

	return filter, nil
}

var (
	errInvalidStatus   = errors.New("invalid status filter")
	errInvalidRecordID = errors.New("invalid record id filter")
)

func toRequestResponse(req *domain.Request) requestResponse {
	resp := requestResponse{
		ID:          req.ID.String(),
		RecordID:    req.RecordID.String(),
		RequesterID: req.RequesterID.String(),
		Status:      req.Status.String(),
		Reason:      req.Reason,
		RequestedAt: req.RequestedAt,
		DueAt:       req.DueAt,
		ReturnedAt:  req.ReturnedAt,
	}
	if req.DecidedBy != nil {
		s := req.DecidedBy.String()
		resp.DecidedBy = &s
	}
	return resp
}
