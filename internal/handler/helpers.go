package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"cabinet/internal/domain"
	"cabinet/internal/httputil"
)

// handleError converts domain errors to HTTP responses.
// Unclassified errors are logged and reported with an opaque message.
func handleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	kind := domain.KindOf(err)
	status := kind.StatusCode()

	if kind == domain.KindStoreFailure {
		logger.Error("request failed", "error", err)
		httputil.RespondError(w, status, "internal server error")
		return
	}

	var conflictErr *domain.ConflictError
	if errors.As(err, &conflictErr) {
		problem := httputil.NewProblem(status, conflictErr.Message).
			WithResource(conflictErr.ResourceType, conflictErr.ResourceID)
		httputil.WriteProblem(w, problem)
		return
	}

	httputil.RespondError(w, status, err.Error())
}

// requireUserID returns the authenticated user, writing a 401 when there is none
func requireUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := httputil.GetUserID(r)
	if userID == "" {
		httputil.RespondError(w, http.StatusUnauthorized, "Access Denied. No token provided.")
		return "", false
	}
	return userID, true
}
