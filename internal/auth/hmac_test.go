package auth

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cabinet/internal/domain"
	"cabinet/internal/domain/models"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewHMACTokenService_RequiresSecretAndExpiry(t *testing.T) {
	_, err := NewHMACTokenService("", time.Hour, discardLogger())
	assert.Error(t, err)

	_, err = NewHMACTokenService("s3cret", 0, discardLogger())
	assert.Error(t, err)
}

func TestHMACTokenService_IssueAndVerify(t *testing.T) {
	svc, err := NewHMACTokenService("s3cret", time.Hour, discardLogger())
	require.NoError(t, err)

	token, err := svc.IssueToken("user-1", "a@example.com")
	require.NoError(t, err)

	claims, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.GetUserID())
	assert.Equal(t, "a@example.com", claims.Email)
	assert.Equal(t, Issuer, claims.Issuer)
}

func TestHMACTokenService_Expired(t *testing.T) {
	svc, err := NewHMACTokenService("s3cret", time.Hour, discardLogger())
	require.NoError(t, err)

	issuedAt := time.Now()
	svc.now = func() time.Time { return issuedAt }
	token, err := svc.IssueToken("user-1", "a@example.com")
	require.NoError(t, err)

	svc.now = func() time.Time { return issuedAt.Add(2 * time.Hour) }
	_, err = svc.VerifyToken(token)
	require.Error(t, err)

	var unauthorized *domain.UnauthorizedError
	require.True(t, errors.As(err, &unauthorized))
	assert.Equal(t, "Token has expired.", unauthorized.Message)
}

func TestHMACTokenService_Rejects(t *testing.T) {
	svc, err := NewHMACTokenService("s3cret", time.Hour, discardLogger())
	require.NoError(t, err)
	other, err := NewHMACTokenService("different", time.Hour, discardLogger())
	require.NoError(t, err)

	foreign, err := other.IssueToken("user-1", "")
	require.NoError(t, err)

	sign := func(method jwt.SigningMethod, key interface{}, claims models.Claims) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}
	valid := jwt.RegisteredClaims{
		Subject:   "user-1",
		Issuer:    Issuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	noSubject := valid
	noSubject.Subject = ""
	wrongIssuer := valid
	wrongIssuer.Issuer = "someone-else"
	noExpiry := valid
	noExpiry.ExpiresAt = nil

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not.a.jwt"},
		{"other secret", foreign},
		{"missing subject", sign(jwt.SigningMethodHS256, []byte("s3cret"), models.Claims{RegisteredClaims: noSubject})},
		{"wrong issuer", sign(jwt.SigningMethodHS256, []byte("s3cret"), models.Claims{RegisteredClaims: wrongIssuer})},
		{"no expiry", sign(jwt.SigningMethodHS256, []byte("s3cret"), models.Claims{RegisteredClaims: noExpiry})},
		{"unexpected algorithm", sign(jwt.SigningMethodHS512, []byte("s3cret"), models.Claims{RegisteredClaims: valid})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.VerifyToken(tt.token)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrUnauthorized)
			assert.Equal(t, "Invalid token.", err.Error())
		})
	}
}
