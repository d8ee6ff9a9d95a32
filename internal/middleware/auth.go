package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"cabinet/internal/auth"
	"cabinet/internal/domain"
	"cabinet/internal/httputil"
)

// AuthMiddleware requires a valid bearer token on every request except public paths.
// Public entries ending in "/" match as prefixes; others match exactly.
func AuthMiddleware(verifier auth.TokenVerifier, logger *slog.Logger, public ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions || isPublic(r.URL.Path, public) {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := bearerToken(r)
			if !ok {
				httputil.RespondError(w, http.StatusUnauthorized, "Access Denied. No token provided.")
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				message := "Invalid token."
				var unauthorized *domain.UnauthorizedError
				if errors.As(err, &unauthorized) {
					message = unauthorized.Message
				}
				logger.Debug("bearer token rejected", "path", r.URL.Path, "error", err)
				httputil.RespondError(w, http.StatusUnauthorized, message)
				return
			}

			next.ServeHTTP(w, httputil.WithClaims(r, claims))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func isPublic(path string, public []string) bool {
	for _, p := range public {
		if strings.HasSuffix(p, "/") && strings.HasPrefix(path, p) {
			return true
		}
		if path == p {
			return true
		}
	}
	return false
}
