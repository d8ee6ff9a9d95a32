package auth

import "cabinet/internal/domain/models"

// TokenVerifier defines the interface for bearer token verification.
// Middleware depends only on this, so the signing scheme is chosen at startup.
type TokenVerifier interface {
	// VerifyToken validates a token string and returns the parsed claims.
	// Invalid, expired or badly signed tokens return an error matching domain.ErrUnauthorized.
	VerifyToken(tokenString string) (*models.Claims, error)

	// Close releases any resources held by the verifier (e.g., HTTP connections for JWKS).
	Close() error
}

// TokenIssuer signs tokens for users that authenticated with this service.
type TokenIssuer interface {
	IssueToken(userID, email string) (string, error)
}
