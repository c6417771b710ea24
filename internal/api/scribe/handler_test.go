package scribe

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/csjayzz/medlink-er-coordination/internal/api/middleware"
	"github.com/csjayzz/medlink-er-coordination/internal/models"
	scribesvc "github.com/csjayzz/medlink-er-coordination/internal/scribe"
	"github.com/csjayzz/medlink-er-coordination/internal/storage"
	"github.com/csjayzz/medlink-er-coordination/internal/triage"
)

var testMedic = models.MedicIdentity{
	ID:   "MED-9921",
	Name: "Sarah Jenkins",
	Unit: "Medic 42",
}

func newTestHandler() (*Handler, *triage.Board) {
	board := triage.NewBoard(storage.NewAdapter(storage.NewMemoryKV()))
	service := scribesvc.NewService(nil, "")
	return NewHandler(service, board), board
}

func asMedic(r *http.Request) *http.Request {
	ctx := middleware.WithCaller(r.Context(), models.RoleMedic, &testMedic)
	return r.WithContext(ctx)
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	var resp struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if err := json.Unmarshal(resp.Data, v); err != nil {
		t.Fatalf("decode data: %v", err)
	}
}

func TestDraftReturnsDefaults(t *testing.T) {
	handler, _ := newTestHandler()

	req := asMedic(httptest.NewRequest("GET", "/api/v1/scribe/draft", nil))
	w := httptest.NewRecorder()
	handler.Draft(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var draft scribesvc.Draft
	decodeData(t, w, &draft)

	if draft.ETA != 8 || draft.Severity != models.SeverityStable {
		t.Errorf("defaults = %+v", draft)
	}
}

func TestObserveMergesIntoDraft(t *testing.T) {
	handler, _ := newTestHandler()

	body := `{"patientName":"John Doe","heartRate":118}`
	req := asMedic(httptest.NewRequest("POST", "/api/v1/scribe/observe", strings.NewReader(body)))
	w := httptest.NewRecorder()
	handler.Observe(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var draft scribesvc.Draft
	decodeData(t, w, &draft)

	if draft.PatientName != "John Doe" {
		t.Errorf("name = %q", draft.PatientName)
	}
	if len(draft.Vitals) == 0 || draft.Vitals[len(draft.Vitals)-1].HeartRate != 118 {
		t.Errorf("vitals = %+v", draft.Vitals)
	}
}

func TestCommitPlacesAlertAndResets(t *testing.T) {
	handler, board := newTestHandler()

	observe := asMedic(httptest.NewRequest("POST", "/api/v1/scribe/observe", strings.NewReader(`{"patientName":"Jane Roe","severity":"Critical"}`)))
	handler.Observe(httptest.NewRecorder(), observe)

	req := asMedic(httptest.NewRequest("POST", "/api/v1/scribe/commit", nil))
	w := httptest.NewRecorder()
	handler.Commit(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d", w.Code)
	}

	var alert models.Alert
	decodeData(t, w, &alert)

	if alert.PatientName != "Jane Roe" || alert.Severity != models.SeverityCritical {
		t.Errorf("alert = %+v", alert)
	}
	if alert.MedicID != "MED-9921" {
		t.Errorf("medic id = %q", alert.MedicID)
	}
	if _, err := time.Parse(time.RFC3339, alert.Timestamp); err != nil {
		t.Errorf("timestamp %q: %v", alert.Timestamp, err)
	}

	if got := len(board.Snapshot()); got != 1 {
		t.Errorf("board has %d alerts", got)
	}

	// Draft reset to defaults
	draftReq := asMedic(httptest.NewRequest("GET", "/api/v1/scribe/draft", nil))
	dw := httptest.NewRecorder()
	handler.Draft(dw, draftReq)

	var draft scribesvc.Draft
	decodeData(t, dw, &draft)
	if draft.PatientName != "" {
		t.Errorf("draft not reset: %+v", draft)
	}
}

func TestResetDiscardsDraft(t *testing.T) {
	handler, _ := newTestHandler()

	observe := asMedic(httptest.NewRequest("POST", "/api/v1/scribe/observe", strings.NewReader(`{"patientName":"John Doe"}`)))
	handler.Observe(httptest.NewRecorder(), observe)

	req := asMedic(httptest.NewRequest("DELETE", "/api/v1/scribe/draft", nil))
	w := httptest.NewRecorder()
	handler.Reset(w, req)

	var draft scribesvc.Draft
	decodeData(t, w, &draft)
	if draft.PatientName != "" {
		t.Errorf("draft not reset: %+v", draft)
	}
}

func TestEndpointsRequireMedic(t *testing.T) {
	handler, _ := newTestHandler()

	req := httptest.NewRequest("GET", "/api/v1/scribe/draft", nil)
	req = req.WithContext(middleware.WithCaller(req.Context(), models.RoleHospital, nil))
	w := httptest.NewRecorder()
	handler.Draft(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}
