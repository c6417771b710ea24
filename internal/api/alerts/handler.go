// Package alerts exposes the pre-arrival alert endpoints for both roles:
// the medic's transmit history and updates, and the hospital's live queue.
package alerts

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/csjayzz/medlink-er-coordination/internal/api/middleware"
	"github.com/csjayzz/medlink-er-coordination/internal/models"
	"github.com/csjayzz/medlink-er-coordination/internal/triage"
)

// Response helpers
type errorResponse struct {
	Error errorBody `json:"error"`
}
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
type dataResponse struct {
	Data any `json:"data"`
}

const (
	errCodeBadRequest       = "BAD_REQUEST"
	errCodeValidationFailed = "VALIDATION_FAILED"
	errCodeNotFound         = "NOT_FOUND"
	errCodeForbidden        = "FORBIDDEN"
	errCodeInternalError    = "INTERNAL_ERROR"
)

func jsonError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(errorResponse{Error: errorBody{Code: code, Message: message}}); err != nil {
		log.Printf("json encode error: %v", err)
	}
}

func jsonOK(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dataResponse{Data: data}); err != nil {
		log.Printf("json encode error: %v", err)
	}
}

func jsonCreated(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(dataResponse{Data: data}); err != nil {
		log.Printf("json encode error: %v", err)
	}
}

// Handler handles alert endpoints.
type Handler struct {
	board             *triage.Board
	streamMaxDuration time.Duration
	heartbeatInterval time.Duration
}

func NewHandler(board *triage.Board, streamMax time.Duration) *Handler {
	return &Handler{
		board:             board,
		streamMaxDuration: streamMax,
		heartbeatInterval: 15 * time.Second,
	}
}

// CreateRequest is a manually transmitted alert.
type CreateRequest struct {
	PatientName string          `json:"patientName"`
	PatientAge  string          `json:"patientAge"`
	Severity    string          `json:"severity"`
	Type        string          `json:"type"`
	ETA         int             `json:"eta"`
	Vitals      []models.Vitals `json:"vitals"`
	Treatments  []string        `json:"treatments"`
	Notes       string          `json:"notes"`
	ImageURL    string          `json:"imageUrl"`
}

// UpdateRequest is a partial alert update: absent fields stay untouched.
type UpdateRequest struct {
	PatientName *string         `json:"patientName"`
	PatientAge  *string         `json:"patientAge"`
	Severity    *string         `json:"severity"`
	Type        *string         `json:"type"`
	ETA         *int            `json:"eta"`
	Vitals      []models.Vitals `json:"vitals"`
	Treatments  []string        `json:"treatments"`
	Notes       *string         `json:"notes"`
	ImageURL    *string         `json:"imageUrl"`
}

// StatusRequest sets an alert's lifecycle status.
type StatusRequest struct {
	Status string `json:"status"`
}

// List handles GET /api/v1/alerts - the calling medic's transmit history,
// newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	medic, ok := middleware.GetMedic(r.Context())
	if !ok {
		jsonError(w, http.StatusForbidden, errCodeForbidden, "medic session required")
		return
	}
	jsonOK(w, h.board.ForMedic(medic.ID))
}

// Create handles POST /api/v1/alerts - manual transmission of a completed
// form. Missing required fields get the standard defaults rather than a
// rejection; in the field a partial alert beats no alert.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	medic, ok := middleware.GetMedic(r.Context())
	if !ok {
		jsonError(w, http.StatusForbidden, errCodeForbidden, "medic session required")
		return
	}

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, errCodeBadRequest, "invalid request body")
		return
	}

	if err := ValidateETA(req.ETA); err != nil {
		jsonError(w, http.StatusBadRequest, errCodeValidationFailed, err.Error())
		return
	}

	alert := models.NewAlert(uuid.New().String(), medic.ID, medic.Unit)
	alert.PatientName = req.PatientName
	alert.PatientAge = req.PatientAge
	alert.ETA = req.ETA
	alert.Vitals = req.Vitals
	alert.Treatments = req.Treatments
	alert.Notes = req.Notes
	alert.ImageURL = req.ImageURL

	if req.Severity != "" {
		sev, err := ValidateSeverity(req.Severity)
		if err != nil {
			jsonError(w, http.StatusBadRequest, errCodeValidationFailed, err.Error())
			return
		}
		alert.Severity = sev
	}
	if req.Type != "" {
		typ, err := ValidateEmergencyType(req.Type)
		if err != nil {
			jsonError(w, http.StatusBadRequest, errCodeValidationFailed, err.Error())
			return
		}
		alert.Type = typ
	}

	if alert.PatientName == "" {
		alert.PatientName = "Unknown"
	}
	if alert.PatientAge == "" {
		alert.PatientAge = "Unknown"
	}
	if alert.Severity == "" {
		alert.Severity = models.SeverityStable
	}
	if alert.Type == "" {
		alert.Type = models.EmergencyOther
	}
	if alert.Vitals == nil {
		alert.Vitals = []models.Vitals{}
	}
	if alert.Treatments == nil {
		alert.Treatments = []string{}
	}

	h.board.Add(*alert)
	jsonCreated(w, alert)
}

// Get handles GET /api/v1/alerts/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	alert, ok := h.board.Get(id)
	if !ok {
		jsonError(w, http.StatusNotFound, errCodeNotFound, "alert not found")
		return
	}

	if medic, isMedic := middleware.GetMedic(r.Context()); isMedic && alert.MedicID != medic.ID {
		jsonError(w, http.StatusForbidden, errCodeForbidden, "not your alert")
		return
	}

	jsonOK(w, alert)
}

// Update handles PATCH /api/v1/alerts/{id} - a medic amending an alert
// already on the board.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	medic, ok := middleware.GetMedic(r.Context())
	if !ok {
		jsonError(w, http.StatusForbidden, errCodeForbidden, "medic session required")
		return
	}

	id := chi.URLParam(r, "id")
	existing, found := h.board.Get(id)
	if !found {
		jsonError(w, http.StatusNotFound, errCodeNotFound, "alert not found")
		return
	}
	if existing.MedicID != medic.ID {
		jsonError(w, http.StatusForbidden, errCodeForbidden, "not your alert")
		return
	}

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, errCodeBadRequest, "invalid request body")
		return
	}

	patch := triage.Patch{
		PatientName: req.PatientName,
		PatientAge:  req.PatientAge,
		ETA:         req.ETA,
		Vitals:      req.Vitals,
		Treatments:  req.Treatments,
		Notes:       req.Notes,
		ImageURL:    req.ImageURL,
	}
	if req.Severity != nil {
		sev, err := ValidateSeverity(*req.Severity)
		if err != nil {
			jsonError(w, http.StatusBadRequest, errCodeValidationFailed, err.Error())
			return
		}
		patch.Severity = &sev
	}
	if req.Type != nil {
		typ, err := ValidateEmergencyType(*req.Type)
		if err != nil {
			jsonError(w, http.StatusBadRequest, errCodeValidationFailed, err.Error())
			return
		}
		patch.Type = &typ
	}
	if req.ETA != nil {
		if err := ValidateETA(*req.ETA); err != nil {
			jsonError(w, http.StatusBadRequest, errCodeValidationFailed, err.Error())
			return
		}
	}

	if !h.board.Update(id, patch) {
		jsonError(w, http.StatusNotFound, errCodeNotFound, "alert not found")
		return
	}

	updated, _ := h.board.Get(id)
	jsonOK(w, updated)
}

// Queue handles GET /api/v1/alerts/queue - the hospital's incoming queue,
// critical first, optionally filtered by a free-text search.
func (h *Handler) Queue(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	jsonOK(w, h.board.Incoming(search))
}

// Board handles GET /api/v1/alerts/board - every alert regardless of
// status, newest first.
func (h *Handler) Board(w http.ResponseWriter, r *http.Request) {
	jsonOK(w, h.board.Snapshot())
}

// SetStatus handles PUT /api/v1/alerts/{id}/status. Transitions run one
// way only; a disallowed transition leaves the alert as it was.
func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req StatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, errCodeBadRequest, "invalid request body")
		return
	}

	status, err := ValidateStatus(req.Status)
	if err != nil {
		jsonError(w, http.StatusBadRequest, errCodeValidationFailed, err.Error())
		return
	}

	found, applied := h.board.SetStatus(id, status)
	if !found {
		jsonError(w, http.StatusNotFound, errCodeNotFound, "alert not found")
		return
	}
	if !applied {
		log.Printf("status transition rejected for alert %s: -> %s", id, status)
	}

	alert, _ := h.board.Get(id)
	jsonOK(w, alert)
}

// Stream handles GET /api/v1/alerts/stream - SSE push of queue changes.
// Sends a full snapshot on connect and after every board change, with
// heartbeats in between.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "streaming not supported")
		return
	}

	ctx := r.Context()
	search := r.URL.Query().Get("search")

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	sse := NewSSEWriter(w, flusher)

	changes, cancel := h.board.Subscribe()
	defer cancel()

	sendQueue := func() error {
		data, err := json.Marshal(h.board.Incoming(search))
		if err != nil {
			return err
		}
		return sse.SendEvent("queue", string(data))
	}

	if err := sendQueue(); err != nil {
		return
	}

	deadline := time.Now().Add(h.streamMaxDuration)
	heartbeat := time.NewTicker(h.heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-changes:
			if time.Now().After(deadline) {
				sse.SendEvent("close", `{"reason":"timeout"}`)
				return
			}
			if err := sendQueue(); err != nil {
				return
			}

		case <-heartbeat.C:
			if time.Now().After(deadline) {
				sse.SendEvent("close", `{"reason":"timeout"}`)
				return
			}
			if err := sse.SendEvent("heartbeat", `{"timestamp":"`+time.Now().Format(time.RFC3339)+`"}`); err != nil {
				return
			}
		}
	}
}
