package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/csjayzz/medlink-er-coordination/internal/models"
	"github.com/csjayzz/medlink-er-coordination/internal/session"
	"github.com/csjayzz/medlink-er-coordination/internal/storage"
)

func newTestHandler(t *testing.T) (*Handler, *session.Manager) {
	t.Helper()
	sessions := session.NewManager(storage.NewAdapter(storage.NewMemoryKV()))
	jwtService := NewJWTService([]byte("test-secret"), time.Hour)
	return NewHandler(jwtService, NewDirectory(), sessions), sessions
}

func doLogin(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/v1/auth/login", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Login(w, req)
	return w
}

func TestLoginMedicDemoAccount(t *testing.T) {
	h, _ := newTestHandler(t)

	w := doLogin(t, h, `{"email":"medic1@medlink.demo","password":"anything","role":"MEDIC"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data LoginResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if resp.Data.AccessToken == "" {
		t.Error("missing access token")
	}
	if resp.Data.TokenType != "Bearer" {
		t.Errorf("token type = %q", resp.Data.TokenType)
	}
	if resp.Data.Session == nil || resp.Data.Session.MedicID != "MED-9921" {
		t.Errorf("session = %+v", resp.Data.Session)
	}
	if resp.Data.Session.MedicName != "Sarah Jenkins" {
		t.Errorf("medic name = %q", resp.Data.Session.MedicName)
	}
}

func TestLoginMedicUnknownEmailSynthesizes(t *testing.T) {
	h, _ := newTestHandler(t)

	w := doLogin(t, h, `{"email":"new.guy@example.com","password":"pw","role":"MEDIC"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp struct {
		Data LoginResponse `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)

	if resp.Data.Session.MedicName != "New Guy" {
		t.Errorf("medic name = %q", resp.Data.Session.MedicName)
	}
	if !strings.HasPrefix(resp.Data.Session.MedicID, "MED-") {
		t.Errorf("medic id = %q", resp.Data.Session.MedicID)
	}
}

func TestLoginHospitalIgnoresIdentity(t *testing.T) {
	h, _ := newTestHandler(t)

	w := doLogin(t, h, `{"email":"charge.nurse@hospital.demo","password":"pw","role":"HOSPITAL"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp struct {
		Data LoginResponse `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)

	if resp.Data.Session.Role != models.RoleHospital {
		t.Errorf("role = %q", resp.Data.Session.Role)
	}
	if resp.Data.Session.MedicID != "" {
		t.Errorf("medic id = %q, want empty for hospital", resp.Data.Session.MedicID)
	}
}

func TestLoginRejectsBadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty body", `{}`},
		{"missing email", `{"password":"pw","role":"MEDIC"}`},
		{"blank email", `{"email":"   ","password":"pw","role":"MEDIC"}`},
		{"missing password", `{"email":"a@b.c","role":"MEDIC"}`},
		{"bad role", `{"email":"a@b.c","password":"pw","role":"ADMIN"}`},
		{"malformed json", `{"email":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestHandler(t)
			w := doLogin(t, h, tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}

func TestLoginPersistsSession(t *testing.T) {
	h, sessions := newTestHandler(t)

	doLogin(t, h, `{"email":"medic2@medlink.demo","password":"pw","role":"MEDIC"}`)

	sess := sessions.Current()
	if sess == nil || sess.MedicID != "MED-8842" {
		t.Errorf("current session = %+v", sess)
	}
}

func TestLogoutClearsSession(t *testing.T) {
	h, sessions := newTestHandler(t)
	doLogin(t, h, `{"email":"medic1@medlink.demo","password":"pw","role":"MEDIC"}`)

	req := httptest.NewRequest("POST", "/api/v1/auth/logout", nil)
	w := httptest.NewRecorder()
	h.Logout(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d", w.Code)
	}
	if sessions.Current() != nil {
		t.Error("session not cleared")
	}
}

func TestProfile(t *testing.T) {
	h, _ := newTestHandler(t)

	// No session yet
	req := httptest.NewRequest("GET", "/api/v1/auth/profile", nil)
	w := httptest.NewRecorder()
	h.Profile(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 without session", w.Code)
	}

	doLogin(t, h, `{"email":"medic1@medlink.demo","password":"pw","role":"MEDIC"}`)

	w = httptest.NewRecorder()
	h.Profile(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp struct {
		Data models.MedicProfile `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.Name != "Sarah Jenkins" {
		t.Errorf("profile name = %q", resp.Data.Name)
	}
}
