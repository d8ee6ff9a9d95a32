package handler

import (
	"net/http"
	"time"

	"cabinet/internal/httputil"
)

// HealthCheck is a simple health check endpoint
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondSuccess(w, http.StatusOK, httputil.Envelope{
		"status": "ok",
		"time":   time.Now().UTC(),
	})
}
