package services

import (
	"context"

	"cabinet/internal/domain/models/filetree"
)

// ResourceAuthorizer checks if a user can access resources.
// Current implementation: single-owner (user owns the folder or file).
// A denied check returns domain.ErrNotFound so other users' resources stay invisible.
type ResourceAuthorizer interface {
	// CanAccessFolder returns the folder when the user owns it
	CanAccessFolder(ctx context.Context, userID, folderID string) (*filetree.Folder, error)

	// CanAccessFile returns the file when the user owns it
	CanAccessFile(ctx context.Context, userID, fileID string) (*filetree.File, error)
}

// AccountService handles sign-up, sign-in and identity provider logins
type AccountService interface {
	SignUp(ctx context.Context, req *SignUpRequest) (*filetree.User, error)

	// SignIn checks the credentials and returns a signed bearer token
	SignIn(ctx context.Context, req *SignInRequest) (string, error)

	// SignInWithGoogle exchanges an authorization code, creating the account on first login
	SignInWithGoogle(ctx context.Context, code string) (*GoogleSignInResult, error)

	// Me returns the authenticated user's profile
	Me(ctx context.Context, userID string) (*filetree.User, error)
}

type SignUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type GoogleSignInResult struct {
	Token   string
	User    *filetree.User
	Created bool
}
