package auth

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/csjayzz/medlink-er-coordination/internal/models"
	"github.com/csjayzz/medlink-er-coordination/internal/session"
)

// Handler handles authentication endpoints.
type Handler struct {
	jwtService *JWTService
	directory  *Directory
	sessions   *session.Manager
}

// NewHandler creates a new auth handler.
func NewHandler(jwt *JWTService, dir *Directory, sessions *session.Manager) *Handler {
	return &Handler{
		jwtService: jwt,
		directory:  dir,
		sessions:   sessions,
	}
}

// Response helpers (local to avoid import cycle with api package)

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

func jsonNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error codes
const (
	errCodeBadRequest    = "BAD_REQUEST"
	errCodeUnauthorized  = "UNAUTHORIZED"
	errCodeInternalError = "INTERNAL_ERROR"
)

// LoginRequest is the request body for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// LoginResponse is returned on successful login.
type LoginResponse struct {
	AccessToken string          `json:"access_token"`
	ExpiresIn   int             `json:"expires_in"`
	TokenType   string          `json:"token_type"`
	Session     *models.Session `json:"session"`
}

// Login handles POST /api/v1/auth/login. Any non-empty email and password
// pass the demo gate; the role picks which workspace the token opens.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, errCodeBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.Email) == "" {
		jsonError(w, http.StatusBadRequest, errCodeBadRequest, "email is required")
		return
	}
	if strings.TrimSpace(req.Password) == "" {
		jsonError(w, http.StatusBadRequest, errCodeBadRequest, "password is required")
		return
	}

	role, ok := models.ParseRole(req.Role)
	if !ok {
		jsonError(w, http.StatusBadRequest, errCodeBadRequest, "role must be MEDIC or HOSPITAL")
		return
	}

	var identity *models.MedicIdentity
	if role == models.RoleMedic {
		m := h.directory.Resolve(req.Email)
		identity = &m
	}

	sess := h.sessions.Login(role, identity)

	token, err := h.jwtService.GenerateToken(sess)
	if err != nil {
		log.Printf("token generation failed: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "failed to issue token")
		return
	}

	jsonOK(w, LoginResponse{
		AccessToken: token,
		ExpiresIn:   h.jwtService.TTLSeconds(),
		TokenType:   "Bearer",
		Session:     sess,
	})
}

// Logout handles POST /api/v1/auth/logout. Clears the persisted session;
// the token simply expires.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Logout()
	jsonNoContent(w)
}

// Profile handles GET /api/v1/auth/profile. Returns the medic profile for
// the active session.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.sessions.Profile()
	if !ok {
		jsonError(w, http.StatusUnauthorized, errCodeUnauthorized, "no active medic session")
		return
	}
	jsonOK(w, profile)
}
