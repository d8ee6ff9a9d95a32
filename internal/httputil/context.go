package httputil

import (
	"context"
	"net/http"

	"cabinet/internal/domain/models"
)

type contextKey string

const claimsKey contextKey = "claims"

// WithClaims attaches verified token claims to the request
func WithClaims(r *http.Request, claims *models.Claims) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), claimsKey, claims))
}

// GetClaims returns the verified claims, or nil on unauthenticated routes
func GetClaims(r *http.Request) *models.Claims {
	claims, _ := r.Context().Value(claimsKey).(*models.Claims)
	return claims
}

// GetUserID returns the authenticated user's ID, or "" when there is none
func GetUserID(r *http.Request) string {
	if claims := GetClaims(r); claims != nil {
		return claims.GetUserID()
	}
	return ""
}
