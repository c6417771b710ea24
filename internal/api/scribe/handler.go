// Package scribe exposes the draft form endpoints and the voice session
// WebSocket for the medic role.
package scribe

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/csjayzz/medlink-er-coordination/internal/api/middleware"
	"github.com/csjayzz/medlink-er-coordination/internal/models"
	scribesvc "github.com/csjayzz/medlink-er-coordination/internal/scribe"
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
	errCodeBadRequest    = "BAD_REQUEST"
	errCodeForbidden     = "FORBIDDEN"
	errCodeInternalError = "INTERNAL_ERROR"
	errCodeUnavailable   = "SERVICE_UNAVAILABLE"
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

// Handler handles draft form endpoints.
type Handler struct {
	service *scribesvc.Service
	board   *triage.Board
}

func NewHandler(service *scribesvc.Service, board *triage.Board) *Handler {
	return &Handler{service: service, board: board}
}

func callingMedic(w http.ResponseWriter, r *http.Request) (models.MedicIdentity, bool) {
	medic, ok := middleware.GetMedic(r.Context())
	if !ok {
		jsonError(w, http.StatusForbidden, errCodeForbidden, "medic session required")
	}
	return medic, ok
}

// Draft handles GET /api/v1/scribe/draft - the calling medic's current
// form state.
func (h *Handler) Draft(w http.ResponseWriter, r *http.Request) {
	medic, ok := callingMedic(w, r)
	if !ok {
		return
	}
	jsonOK(w, h.service.Draft(medic.ID))
}

// Observe handles POST /api/v1/scribe/observe - a manual field edit merged
// into the draft with the same rules as extracted speech.
func (h *Handler) Observe(w http.ResponseWriter, r *http.Request) {
	medic, ok := callingMedic(w, r)
	if !ok {
		return
	}

	var obs scribesvc.Observation
	if err := json.NewDecoder(r.Body).Decode(&obs); err != nil {
		jsonError(w, http.StatusBadRequest, errCodeBadRequest, "invalid request body")
		return
	}

	jsonOK(w, h.service.Observe(medic.ID, obs))
}

// Reset handles DELETE /api/v1/scribe/draft - discard the draft and return
// the form defaults.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	medic, ok := callingMedic(w, r)
	if !ok {
		return
	}
	jsonOK(w, h.service.Reset(medic.ID))
}

// Commit handles POST /api/v1/scribe/commit - finalize the draft, place
// the alert on the board, and reset the form.
func (h *Handler) Commit(w http.ResponseWriter, r *http.Request) {
	medic, ok := callingMedic(w, r)
	if !ok {
		return
	}

	alert := h.service.Commit(medic)
	h.board.Add(alert)
	jsonCreated(w, alert)
}
