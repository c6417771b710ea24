// Package auth provides login, the demo medic directory, and JWT issuance.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/csjayzz/medlink-er-coordination/internal/models"
)

// Claims represents the JWT claims for access tokens.
type Claims struct {
	jwt.RegisteredClaims
	Role          models.Role `json:"role"`
	MedicID       string      `json:"mid,omitempty"`
	MedicName     string      `json:"mname,omitempty"`
	Unit          string      `json:"unit,omitempty"`
	Certification string      `json:"cert,omitempty"`
}

// Session rebuilds the session view carried by the token.
func (c *Claims) Session() *models.Session {
	return &models.Session{
		Role:          c.Role,
		MedicID:       c.MedicID,
		MedicName:     c.MedicName,
		Unit:          c.Unit,
		Certification: c.Certification,
	}
}

// JWTService handles JWT token generation and validation.
type JWTService struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

// NewJWTService creates a new JWT service.
func NewJWTService(secret []byte, ttl time.Duration) *JWTService {
	return &JWTService{
		secret: secret,
		ttl:    ttl,
		issuer: "medlink",
	}
}

// GenerateToken creates a new JWT access token for the given session.
func (s *JWTService) GenerateToken(sess *models.Session) (string, error) {
	now := time.Now()
	expiresAt := now.Add(s.ttl)

	subject := string(sess.Role)
	if sess.MedicID != "" {
		subject = sess.MedicID
	}

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Role:          sess.Role,
		MedicID:       sess.MedicID,
		MedicName:     sess.MedicName,
		Unit:          sess.Unit,
		Certification: sess.Certification,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken validates a JWT token and returns the claims.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	if claims.Issuer != s.issuer {
		return nil, fmt.Errorf("invalid issuer")
	}

	return claims, nil
}

// TTL returns the token time-to-live duration.
func (s *JWTService) TTL() time.Duration {
	return s.ttl
}

// TTLSeconds returns the token TTL in seconds.
func (s *JWTService) TTLSeconds() int {
	return int(s.ttl.Seconds())
}
