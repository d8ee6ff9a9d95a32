package handler

import (
	"log/slog"
	"net/http"

	ftsvc "cabinet/internal/domain/services/filetree"
	"cabinet/internal/httputil"
)

// FolderHandler handles folder HTTP requests
type FolderHandler struct {
	treeService   ftsvc.TreeService
	searchService ftsvc.SearchService
	logger        *slog.Logger
}

// NewFolderHandler creates a new folder handler
func NewFolderHandler(treeService ftsvc.TreeService, searchService ftsvc.SearchService, logger *slog.Logger) *FolderHandler {
	return &FolderHandler{
		treeService:   treeService,
		searchService: searchService,
		logger:        logger,
	}
}

// CreateFolder creates a new folder
// POST /api/folders
// Returns 201 if created, 409 if the name is taken under the parent
func (h *FolderHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req ftsvc.CreateFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	folder, err := h.treeService.CreateFolder(r.Context(), userID, &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusCreated, httputil.Envelope{"data": folder})
}

// ListFolders lists every folder the user owns
// GET /api/folders
func (h *FolderHandler) ListFolders(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	folders, err := h.treeService.ListFolders(r.Context(), userID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, httputil.Envelope{
		"folders": folders,
		"message": "Folders fetched.",
	})
}

// GetRootFolder looks up the user's root folder without creating it
// GET /api/folders/root
func (h *FolderHandler) GetRootFolder(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	result, err := h.treeService.GetRootFolder(r.Context(), userID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	body := httputil.Envelope{"rootExists": result.Existed}
	if result.Folder != nil {
		body["rootFolder"] = result.Folder
	}
	httputil.RespondSuccess(w, http.StatusOK, body)
}

// CreateRootFolder returns the root folder, creating it if needed
// POST /api/folders/root
// Returns 200 with rootExists=true, or 201 with rootExists=false when created
func (h *FolderHandler) CreateRootFolder(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	result, err := h.treeService.GetOrCreateRootFolder(r.Context(), userID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	status := http.StatusCreated
	if result.Existed {
		status = http.StatusOK
	}
	httputil.RespondSuccess(w, status, httputil.Envelope{
		"rootExists": result.Existed,
		"rootFolder": result.Folder,
	})
}

// GetFolder returns a folder with its files and direct subfolders
// GET /api/folders/{id}
func (h *FolderHandler) GetFolder(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	folder, err := h.treeService.GetFolderWithChildren(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, httputil.Envelope{"folder": folder})
}

// Search finds folders and files by name below a folder
// GET /api/folders/{id}/search?q=text
func (h *FolderHandler) Search(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	results, err := h.searchService.Search(r.Context(), userID, r.PathValue("id"), r.URL.Query().Get("q"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, httputil.Envelope{"results": results})
}
