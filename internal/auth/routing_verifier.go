package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"

	"cabinet/internal/domain/models"
)

// RoutingVerifier accepts both the tokens this service signs and tokens from an
// external identity provider. The unverified alg header picks the verifier; the
// chosen verifier then checks the signature with its own allowed algorithms.
type RoutingVerifier struct {
	local    TokenVerifier // HS256, signed by TokenIssuer
	external TokenVerifier // asymmetric, JWKS
}

func NewRoutingVerifier(local, external TokenVerifier) *RoutingVerifier {
	return &RoutingVerifier{local: local, external: external}
}

func (v *RoutingVerifier) VerifyToken(tokenString string) (*models.Claims, error) {
	token, _, err := jwt.NewParser().ParseUnverified(tokenString, &models.Claims{})
	if err != nil || token.Method.Alg() == jwt.SigningMethodHS256.Alg() {
		return v.local.VerifyToken(tokenString)
	}
	return v.external.VerifyToken(tokenString)
}

func (v *RoutingVerifier) Close() error {
	return errors.Join(v.local.Close(), v.external.Close())
}
