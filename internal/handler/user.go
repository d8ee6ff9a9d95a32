package handler

import (
	"log/slog"
	"net/http"

	"cabinet/internal/domain/services"
	"cabinet/internal/httputil"
)

// UserHandler handles account HTTP requests
type UserHandler struct {
	accounts services.AccountService
	logger   *slog.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(accounts services.AccountService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		accounts: accounts,
		logger:   logger,
	}
}

// SignUp registers a user and bootstraps their root folder
// POST /api/auth/sign-up
func (h *UserHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req services.SignUpRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.accounts.SignUp(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusCreated, httputil.Envelope{
		"message": "User created successfully",
		"user":    user.Public(),
	})
}

// SignIn exchanges credentials for a bearer token
// POST /api/auth/sign-in
func (h *UserHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req services.SignInRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	token, err := h.accounts.SignIn(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, httputil.Envelope{
		"token":   token,
		"message": "Sign In Successful",
	})
}

// GoogleSignIn exchanges a Google authorization code for a bearer token
// POST /api/auth/google
func (h *UserHandler) GoogleSignIn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.accounts.SignInWithGoogle(r.Context(), req.Code)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	httputil.RespondSuccess(w, status, httputil.Envelope{
		"token": result.Token,
		"user":  result.User.Public(),
	})
}

// Me returns the authenticated user
// GET /api/users/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	user, err := h.accounts.Me(r.Context(), userID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, httputil.Envelope{
		"message": "Authentication Successful.",
		"user":    user.Public(),
	})
}
