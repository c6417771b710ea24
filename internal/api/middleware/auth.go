package middleware

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/csjayzz/medlink-er-coordination/internal/api/auth"
	"github.com/csjayzz/medlink-er-coordination/internal/models"
)

// Context keys for storing caller information.
type contextKey string

const (
	roleKey   contextKey = "role"
	medicKey  contextKey = "medic"
	claimsKey contextKey = "claims"
)

// jsonUnauthorized writes an unauthorized error response.
func jsonUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{
			"code":    "UNAUTHORIZED",
			"message": "invalid or expired token",
		},
	})
}

// jsonForbidden writes a forbidden error response.
func jsonForbidden(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{
			"code":    "FORBIDDEN",
			"message": "access denied",
		},
	})
}

// bearerToken extracts the token from an Authorization header, falling
// back to the token query parameter for EventSource and WebSocket
// clients that cannot set headers.
func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
		return ""
	}
	return r.URL.Query().Get("token")
}

// JWTAuth returns middleware that validates JWT tokens.
func JWTAuth(jwtService *auth.JWTService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := bearerToken(r)
			if tokenString == "" {
				jsonUnauthorized(w)
				return
			}

			claims, err := jwtService.ValidateToken(tokenString)
			if err != nil {
				log.Printf("JWT auth failed for %s: %v", r.RemoteAddr, err)
				jsonUnauthorized(w)
				return
			}

			ctx := r.Context()
			ctx = context.WithValue(ctx, roleKey, claims.Role)
			ctx = context.WithValue(ctx, claimsKey, claims)
			if claims.Role == models.RoleMedic {
				ctx = context.WithValue(ctx, medicKey, models.MedicIdentity{
					ID:            claims.MedicID,
					Name:          claims.MedicName,
					Unit:          claims.Unit,
					Certification: claims.Certification,
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole returns middleware that restricts a route to one role.
func RequireRole(role models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if GetRole(r.Context()) != role {
				jsonForbidden(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithCaller returns a context carrying the given role and, for medics,
// the medic identity. Handlers read callers only through this shape.
func WithCaller(ctx context.Context, role models.Role, medic *models.MedicIdentity) context.Context {
	ctx = context.WithValue(ctx, roleKey, role)
	if medic != nil {
		ctx = context.WithValue(ctx, medicKey, *medic)
	}
	return ctx
}

// GetRole returns the caller role from context.
func GetRole(ctx context.Context) models.Role {
	if v := ctx.Value(roleKey); v != nil {
		if r, ok := v.(models.Role); ok {
			return r
		}
	}
	return ""
}

// GetMedic returns the calling medic's identity from context.
func GetMedic(ctx context.Context) (models.MedicIdentity, bool) {
	if v := ctx.Value(medicKey); v != nil {
		if m, ok := v.(models.MedicIdentity); ok {
			return m, true
		}
	}
	return models.MedicIdentity{}, false
}

// GetClaims returns the JWT claims from context.
func GetClaims(ctx context.Context) *auth.Claims {
	if v := ctx.Value(claimsKey); v != nil {
		if c, ok := v.(*auth.Claims); ok {
			return c
		}
	}
	return nil
}
