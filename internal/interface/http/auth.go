package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/skillsprint/skillsprint-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// TOKEN AUTHORITY
// ══════════════════════════════════════════════════════════════════════════════

// tokenAuthority issues and verifies HS256 access tokens. The learner ID
// travels in the standard "sub" claim.
type tokenAuthority struct {
	secret []byte
	ttl    time.Duration
}

func newTokenAuthority(secret []byte, ttl time.Duration) *tokenAuthority {
	return &tokenAuthority{secret: secret, ttl: ttl}
}

// Issue creates a signed access token for the given learner.
func (a *tokenAuthority) Issue(learnerID shared.LearnerID) (string, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   learnerID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses a signed token and returns the learner ID it carries.
func (a *tokenAuthority) Verify(tokenString string) (shared.LearnerID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", fmt.Errorf("token has no subject")
	}

	id := shared.LearnerID(claims.Subject)
	if !id.IsValid() {
		return "", fmt.Errorf("token subject is not a learner ID")
	}
	return id, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// AUTH MIDDLEWARE
// ══════════════════════════════════════════════════════════════════════════════

// authenticated wraps a handler with bearer token verification. The learner
// ID from the token is stored in the request context.
func (s *Server) authenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.auth == nil {
			writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Authentication is not configured")
			return
		}

		tokenString := bearerToken(r)
		if tokenString == "" {
			w.Header().Set("WWW-Authenticate", `Bearer realm="skillsprint"`)
			writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Missing bearer token")
			return
		}

		learnerID, err := s.auth.Verify(tokenString)
		if err != nil {
			w.Header().Set("WWW-Authenticate", `Bearer realm="skillsprint", error="invalid_token"`)
			writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), contextKeyLearnerID, learnerID)
		next(w, r.WithContext(ctx))
	}
}

// learnerIDFromContext extracts the authenticated learner ID.
func learnerIDFromContext(ctx context.Context) shared.LearnerID {
	if id, ok := ctx.Value(contextKeyLearnerID).(shared.LearnerID); ok {
		return id
	}
	return ""
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
