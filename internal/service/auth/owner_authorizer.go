package auth

import (
	"context"
	"errors"
	"fmt"

	"cabinet/internal/domain"
	"cabinet/internal/domain/models/filetree"
	ftrepo "cabinet/internal/domain/repositories/filetree"
)

// OwnerBasedAuthorizer implements ResourceAuthorizer using ownership checks.
// A user can access a folder or file only if they created it.
// Someone else's resource is reported exactly like a missing one.
type OwnerBasedAuthorizer struct {
	folderRepo ftrepo.FolderRepository
	fileRepo   ftrepo.FileRepository
}

// NewOwnerBasedAuthorizer creates a new ownership-based authorizer
func NewOwnerBasedAuthorizer(
	folderRepo ftrepo.FolderRepository,
	fileRepo ftrepo.FileRepository,
) *OwnerBasedAuthorizer {
	return &OwnerBasedAuthorizer{
		folderRepo: folderRepo,
		fileRepo:   fileRepo,
	}
}

// CanAccessFolder checks if user owns the folder
func (a *OwnerBasedAuthorizer) CanAccessFolder(ctx context.Context, userID, folderID string) (*filetree.Folder, error) {
	folder, err := a.folderRepo.GetByID(ctx, folderID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &domain.NotFoundError{Message: "Folder not found"}
		}
		return nil, fmt.Errorf("get folder for auth: %w", err)
	}

	if folder.UserID != userID {
		return nil, &domain.NotFoundError{Message: "Folder not found"}
	}
	return folder, nil
}

// CanAccessFile checks if user owns the file
func (a *OwnerBasedAuthorizer) CanAccessFile(ctx context.Context, userID, fileID string) (*filetree.File, error) {
	file, err := a.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &domain.NotFoundError{Message: "File not found"}
		}
		return nil, fmt.Errorf("get file for auth: %w", err)
	}

	if file.UserID != userID {
		return nil, &domain.NotFoundError{Message: "File not found"}
	}
	return file, nil
}
