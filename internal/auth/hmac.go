package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"cabinet/internal/domain"
	"cabinet/internal/domain/models"
)

// Issuer is the iss claim of tokens signed by this service.
const Issuer = "cabinet"

// HMACTokenService signs and verifies HS256 tokens with a shared secret.
type HMACTokenService struct {
	secret []byte
	expiry time.Duration
	logger *slog.Logger
	now    func() time.Time
}

// NewHMACTokenService creates a token service. The secret must not be empty.
func NewHMACTokenService(secret string, expiry time.Duration, logger *slog.Logger) (*HMACTokenService, error) {
	if secret == "" {
		return nil, errors.New("JWT secret cannot be empty")
	}
	if expiry <= 0 {
		return nil, fmt.Errorf("JWT expiry must be positive, got %s", expiry)
	}
	return &HMACTokenService{
		secret: []byte(secret),
		expiry: expiry,
		logger: logger,
		now:    time.Now,
	}, nil
}

// IssueToken signs a token for the user valid for the configured expiry
func (s *HMACTokenService) IssueToken(userID, email string) (string, error) {
	now := s.now()
	claims := models.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
		Email: email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken validates signature, expiry and subject
func (s *HMACTokenService) VerifyToken(tokenString string) (*models.Claims, error) {
	claims := &models.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, &domain.UnauthorizedError{Message: "Token has expired."}
		}
		s.logger.Debug("token parse failed", "error", err)
		return nil, &domain.UnauthorizedError{Message: "Invalid token."}
	}

	if !token.Valid || claims.Subject == "" {
		return nil, &domain.UnauthorizedError{Message: "Invalid token."}
	}
	return claims, nil
}

func (s *HMACTokenService) Close() error {
	return nil
}
