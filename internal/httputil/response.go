package httputil

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"cabinet/internal/domain"
)

// Envelope is a successful response body. RespondSuccess adds "success": true.
type Envelope map[string]any

// RespondSuccess writes body with "success": true
func RespondSuccess(w http.ResponseWriter, status int, body Envelope) {
	if body == nil {
		body = Envelope{}
	}
	body["success"] = true
	writeJSON(w, status, "application/json", body)
}

// Problem is an RFC 7807 problem document extended with the fields every
// failed operation carries: success=false, the error kind and a message.
type Problem struct {
	Type    string      `json:"type"`
	Title   string      `json:"title"`
	Status  int         `json:"status"`
	Detail  string      `json:"detail,omitempty"`
	Success bool        `json:"success"`
	Kind    domain.Kind `json:"kind"`
	Message string      `json:"message"`

	// Set on conflicts: the existing resource that caused them
	ResourceType string `json:"resourceType,omitempty"`
	ResourceID   string `json:"resourceId,omitempty"`
}

// NewProblem builds the problem document for a status code
func NewProblem(status int, message string) *Problem {
	kind := kindFromStatus(status)
	return &Problem{
		Type:    "urn:cabinet:problem:" + string(kind),
		Title:   http.StatusText(status),
		Status:  status,
		Detail:  message,
		Kind:    kind,
		Message: message,
	}
}

// WithResource names the conflicting resource
func (p *Problem) WithResource(resourceType, resourceID string) *Problem {
	p.ResourceType = resourceType
	p.ResourceID = resourceID
	return p
}

// WriteProblem writes p as application/problem+json
func WriteProblem(w http.ResponseWriter, p *Problem) {
	writeJSON(w, p.Status, "application/problem+json", p)
}

// RespondError writes a problem document for status with message as detail
func RespondError(w http.ResponseWriter, status int, message string) {
	WriteProblem(w, NewProblem(status, message))
}

// writeJSON marshals before touching the header so a failed encode never leaves a partial body
func writeJSON(w http.ResponseWriter, status int, contentType string, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		slog.Error("encode response", "error", err)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("internal server error"))
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}

func kindFromStatus(status int) domain.Kind {
	switch status {
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge:
		return domain.KindValidation
	case http.StatusUnauthorized:
		return domain.KindUnauthorized
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		return domain.KindNotFound
	case http.StatusConflict:
		return domain.KindConflict
	default:
		return domain.KindStoreFailure
	}
}
