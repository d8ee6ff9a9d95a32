package filetree

import (
	"context"

	"cabinet/internal/domain/models/filetree"
)

// FileRepository defines data access operations for files
type FileRepository interface {
	// Create inserts a file and fills in its ID and CreatedAt.
	// A duplicate file name in the same folder returns *domain.ConflictError.
	Create(ctx context.Context, file *filetree.File) error

	GetByID(ctx context.Context, id string) (*filetree.File, error)

	GetByParentAndName(ctx context.Context, userID, parentID, fileName string) (*filetree.File, error)

	// ListByFolder lists the files directly inside a folder
	ListByFolder(ctx context.Context, userID, folderID string) ([]filetree.File, error)

	ListByUser(ctx context.Context, userID string) ([]filetree.File, error)
}
