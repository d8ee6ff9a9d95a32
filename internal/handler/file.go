package handler

import (
	"log/slog"
	"net/http"

	ftsvc "cabinet/internal/domain/services/filetree"
	"cabinet/internal/httputil"
)

// FileHandler handles file HTTP requests
type FileHandler struct {
	treeService ftsvc.TreeService
	logger      *slog.Logger
}

// NewFileHandler creates a new file handler
func NewFileHandler(treeService ftsvc.TreeService, logger *slog.Logger) *FileHandler {
	return &FileHandler{
		treeService: treeService,
		logger:      logger,
	}
}

// CreateFile creates a file inside a folder
// POST /api/files
func (h *FileHandler) CreateFile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req ftsvc.CreateFileRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	file, err := h.treeService.CreateFile(r.Context(), userID, &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusCreated, httputil.Envelope{"data": file})
}

// ListFiles lists every file the user owns
// GET /api/files
func (h *FileHandler) ListFiles(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	files, err := h.treeService.ListFiles(r.Context(), userID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, httputil.Envelope{
		"files":   files,
		"message": "Files fetched.",
	})
}

// GetFile returns one file with its content
// GET /api/files/{id}
func (h *FileHandler) GetFile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	file, err := h.treeService.GetFile(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, httputil.Envelope{
		"message": "File Found",
		"file":    file,
	})
}
