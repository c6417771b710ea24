package alerts

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/csjayzz/medlink-er-coordination/internal/api/middleware"
	"github.com/csjayzz/medlink-er-coordination/internal/models"
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
	return NewHandler(board, 30*time.Minute), board
}

func asMedic(r *http.Request) *http.Request {
	ctx := middleware.WithCaller(r.Context(), models.RoleMedic, &testMedic)
	return r.WithContext(ctx)
}

func asHospital(r *http.Request) *http.Request {
	ctx := middleware.WithCaller(r.Context(), models.RoleHospital, nil)
	return r.WithContext(ctx)
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func seedAlert(board *triage.Board, id, medicID string, severity models.Severity) models.Alert {
	a := models.NewAlert(id, medicID, "Medic 42")
	a.PatientName = "John Doe"
	a.PatientAge = "58"
	a.Severity = severity
	a.ETA = 7
	board.Add(*a)
	return *a
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

func TestCreate(t *testing.T) {
	handler, board := newTestHandler()

	body := `{"patientName":"Maria Garcia","patientAge":"67","severity":"Critical","type":"Stroke","eta":5,"treatments":["Oxygen"]}`
	req := asMedic(httptest.NewRequest("POST", "/api/v1/alerts", strings.NewReader(body)))
	w := httptest.NewRecorder()
	handler.Create(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var alert models.Alert
	decodeData(t, w, &alert)

	if alert.ID == "" {
		t.Error("missing id")
	}
	if alert.MedicID != "MED-9921" || alert.AmbulanceUnit != "Medic 42" {
		t.Errorf("provenance = %q / %q", alert.MedicID, alert.AmbulanceUnit)
	}
	if alert.Status != models.StatusIncoming {
		t.Errorf("status = %q", alert.Status)
	}
	if alert.Severity != models.SeverityCritical {
		t.Errorf("severity = %q", alert.Severity)
	}
	if _, err := time.Parse(time.RFC3339, alert.Timestamp); err != nil {
		t.Errorf("timestamp %q not RFC3339: %v", alert.Timestamp, err)
	}

	if got := len(board.Snapshot()); got != 1 {
		t.Errorf("board has %d alerts", got)
	}
}

func TestCreateDefaultsMissingFields(t *testing.T) {
	handler, _ := newTestHandler()

	req := asMedic(httptest.NewRequest("POST", "/api/v1/alerts", strings.NewReader(`{"eta":3}`)))
	w := httptest.NewRecorder()
	handler.Create(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d", w.Code)
	}

	var alert models.Alert
	decodeData(t, w, &alert)

	if alert.PatientName != "Unknown" || alert.PatientAge != "Unknown" {
		t.Errorf("defaults = %q / %q", alert.PatientName, alert.PatientAge)
	}
	if alert.Severity != models.SeverityStable {
		t.Errorf("severity = %q, want default Stable", alert.Severity)
	}
	if alert.Type != models.EmergencyOther {
		t.Errorf("type = %q, want default Other", alert.Type)
	}
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad severity", `{"severity":"catastrophic"}`},
		{"bad type", `{"type":"burns"}`},
		{"negative eta", `{"eta":-2}`},
		{"malformed json", `{"eta":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, _ := newTestHandler()
			req := asMedic(httptest.NewRequest("POST", "/api/v1/alerts", strings.NewReader(tt.body)))
			w := httptest.NewRecorder()
			handler.Create(w, req)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}

func TestListEmptyHistoryIsArray(t *testing.T) {
	handler, _ := newTestHandler()

	req := asMedic(httptest.NewRequest("GET", "/api/v1/alerts", nil))
	w := httptest.NewRecorder()
	handler.List(w, req)

	if got := strings.TrimSpace(w.Body.String()); got != `{"data":[]}` {
		t.Errorf("body = %s, want empty array", got)
	}
}

func TestListScopedToCallingMedic(t *testing.T) {
	handler, board := newTestHandler()
	seedAlert(board, "a1", "MED-9921", models.SeverityStable)
	seedAlert(board, "a2", "MED-8842", models.SeverityCritical)
	seedAlert(board, "a3", "MED-9921", models.SeveritySerious)

	req := asMedic(httptest.NewRequest("GET", "/api/v1/alerts", nil))
	w := httptest.NewRecorder()
	handler.List(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var alerts []models.Alert
	decodeData(t, w, &alerts)

	if len(alerts) != 2 {
		t.Fatalf("got %d alerts, want 2", len(alerts))
	}
	// Newest first
	if alerts[0].ID != "a3" || alerts[1].ID != "a1" {
		t.Errorf("order = %s, %s", alerts[0].ID, alerts[1].ID)
	}
}

func TestUpdateOwnAlert(t *testing.T) {
	handler, board := newTestHandler()
	seedAlert(board, "a1", "MED-9921", models.SeverityStable)

	body := `{"severity":"Critical","notes":"patient deteriorating"}`
	req := asMedic(withURLParam(httptest.NewRequest("PATCH", "/api/v1/alerts/a1", strings.NewReader(body)), "id", "a1"))
	w := httptest.NewRecorder()
	handler.Update(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var alert models.Alert
	decodeData(t, w, &alert)

	if alert.Severity != models.SeverityCritical {
		t.Errorf("severity = %q", alert.Severity)
	}
	if alert.Notes != "patient deteriorating" {
		t.Errorf("notes = %q", alert.Notes)
	}
	// Untouched fields survive
	if alert.PatientName != "John Doe" {
		t.Errorf("patientName = %q", alert.PatientName)
	}
}

func TestUpdateForeignAlertForbidden(t *testing.T) {
	handler, board := newTestHandler()
	seedAlert(board, "a1", "MED-8842", models.SeverityStable)

	req := asMedic(withURLParam(httptest.NewRequest("PATCH", "/api/v1/alerts/a1", strings.NewReader(`{}`)), "id", "a1"))
	w := httptest.NewRecorder()
	handler.Update(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}

func TestUpdateUnknownAlertNotFound(t *testing.T) {
	handler, _ := newTestHandler()

	req := asMedic(withURLParam(httptest.NewRequest("PATCH", "/api/v1/alerts/nope", strings.NewReader(`{}`)), "id", "nope"))
	w := httptest.NewRecorder()
	handler.Update(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestQueueSortsAndFilters(t *testing.T) {
	handler, board := newTestHandler()
	seedAlert(board, "stable", "MED-1", models.SeverityStable)
	seedAlert(board, "critical", "MED-2", models.SeverityCritical)
	seedAlert(board, "serious", "MED-3", models.SeveritySerious)
	board.SetStatus("stable", models.StatusArrived)

	req := asHospital(httptest.NewRequest("GET", "/api/v1/alerts/queue", nil))
	w := httptest.NewRecorder()
	handler.Queue(w, req)

	var alerts []models.Alert
	decodeData(t, w, &alerts)

	if len(alerts) != 2 {
		t.Fatalf("got %d alerts, want 2 incoming", len(alerts))
	}
	if alerts[0].ID != "critical" || alerts[1].ID != "serious" {
		t.Errorf("order = %s, %s", alerts[0].ID, alerts[1].ID)
	}
}

func TestQueueSearch(t *testing.T) {
	handler, board := newTestHandler()
	a := models.NewAlert("a1", "MED-1", "Rescue 7")
	a.PatientName = "Robert Jenkinson"
	board.Add(*a)
	b := models.NewAlert("a2", "MED-2", "Medic 12")
	b.PatientName = "Maria Garcia"
	board.Add(*b)

	req := asHospital(httptest.NewRequest("GET", "/api/v1/alerts/queue?search=jenkin", nil))
	w := httptest.NewRecorder()
	handler.Queue(w, req)

	var alerts []models.Alert
	decodeData(t, w, &alerts)

	if len(alerts) != 1 || alerts[0].ID != "a1" {
		t.Errorf("search results = %+v", alerts)
	}
}

func TestSetStatus(t *testing.T) {
	handler, board := newTestHandler()
	seedAlert(board, "a1", "MED-1", models.SeverityCritical)

	body := `{"status":"Arrived"}`
	req := asHospital(withURLParam(httptest.NewRequest("PUT", "/api/v1/alerts/a1/status", strings.NewReader(body)), "id", "a1"))
	w := httptest.NewRecorder()
	handler.SetStatus(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var alert models.Alert
	decodeData(t, w, &alert)
	if alert.Status != models.StatusArrived {
		t.Errorf("alert status = %q", alert.Status)
	}
}

func TestSetStatusBackwardTransitionIgnored(t *testing.T) {
	handler, board := newTestHandler()
	seedAlert(board, "a1", "MED-1", models.SeverityCritical)
	board.SetStatus("a1", models.StatusHandedOver)

	body := `{"status":"Incoming"}`
	req := asHospital(withURLParam(httptest.NewRequest("PUT", "/api/v1/alerts/a1/status", strings.NewReader(body)), "id", "a1"))
	w := httptest.NewRecorder()
	handler.SetStatus(w, req)

	// The alert exists, so the boundary answers 200 with the unchanged alert.
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var alert models.Alert
	decodeData(t, w, &alert)
	if alert.Status != models.StatusHandedOver {
		t.Errorf("alert status = %q, want unchanged Handed Over", alert.Status)
	}
}

func TestSetStatusUnknownAlert(t *testing.T) {
	handler, _ := newTestHandler()

	body := `{"status":"Arrived"}`
	req := asHospital(withURLParam(httptest.NewRequest("PUT", "/api/v1/alerts/nope/status", strings.NewReader(body)), "id", "nope"))
	w := httptest.NewRecorder()
	handler.SetStatus(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestSetStatusInvalidValue(t *testing.T) {
	handler, board := newTestHandler()
	seedAlert(board, "a1", "MED-1", models.SeverityCritical)

	body := `{"status":"Departed"}`
	req := asHospital(withURLParam(httptest.NewRequest("PUT", "/api/v1/alerts/a1/status", strings.NewReader(body)), "id", "a1"))
	w := httptest.NewRecorder()
	handler.SetStatus(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestGetScopesMedicToOwnAlerts(t *testing.T) {
	handler, board := newTestHandler()
	seedAlert(board, "mine", "MED-9921", models.SeverityStable)
	seedAlert(board, "theirs", "MED-8842", models.SeverityStable)

	req := asMedic(withURLParam(httptest.NewRequest("GET", "/api/v1/alerts/mine", nil), "id", "mine"))
	w := httptest.NewRecorder()
	handler.Get(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("own alert status = %d", w.Code)
	}

	req = asMedic(withURLParam(httptest.NewRequest("GET", "/api/v1/alerts/theirs", nil), "id", "theirs"))
	w = httptest.NewRecorder()
	handler.Get(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("foreign alert status = %d, want 403", w.Code)
	}

	// Hospital sees everything
	req = asHospital(withURLParam(httptest.NewRequest("GET", "/api/v1/alerts/theirs", nil), "id", "theirs"))
	w = httptest.NewRecorder()
	handler.Get(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("hospital status = %d", w.Code)
	}
}

func TestStreamSendsSnapshotAndUpdates(t *testing.T) {
	handler, board := newTestHandler()
	seedAlert(board, "a1", "MED-1", models.SeverityCritical)

	ctx, cancel := context.WithCancel(context.Background())
	req := asHospital(httptest.NewRequest("GET", "/api/v1/alerts/stream", nil).WithContext(ctx))
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		handler.Stream(w, req)
		close(done)
	}()

	// Give the stream a moment to send the initial snapshot, then push a
	// change and disconnect.
	time.Sleep(50 * time.Millisecond)
	seedAlert(board, "a2", "MED-2", models.SeveritySerious)
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not stop on disconnect")
	}

	body := w.Body.String()
	if !strings.Contains(body, "event: queue") {
		t.Errorf("missing queue event in stream:\n%s", body)
	}
	if !strings.Contains(body, `"a1"`) {
		t.Errorf("initial snapshot missing a1:\n%s", body)
	}
	if !strings.Contains(body, `"a2"`) {
		t.Errorf("update missing a2:\n%s", body)
	}
	if got := w.Header().Get("Content-Type"); got != "text/event-stream" {
		t.Errorf("content type = %q", got)
	}
}
