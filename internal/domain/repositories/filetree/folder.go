package filetree

import (
	"context"

	"cabinet/internal/domain/models/filetree"
)

// FolderRepository defines data access operations for folders.
// Lookups that find nothing return domain.ErrNotFound.
type FolderRepository interface {
	// Create inserts a folder and fills in its ID and CreatedAt.
	// Duplicate sibling names and a second root for the same user return *domain.ConflictError.
	Create(ctx context.Context, folder *filetree.Folder) error

	// GetByID retrieves a folder by ID regardless of owner
	GetByID(ctx context.Context, id string) (*filetree.Folder, error)

	// GetByParentAndName finds a sibling with the given name under parentID
	GetByParentAndName(ctx context.Context, userID, parentID, name string) (*filetree.Folder, error)

	// GetRoot retrieves the user's root folder
	GetRoot(ctx context.Context, userID string) (*filetree.Folder, error)

	// ListChildren lists immediate child folders of a folder
	ListChildren(ctx context.Context, userID, folderID string) ([]filetree.Folder, error)

	// ListByUser retrieves all folders owned by a user (flat list)
	ListByUser(ctx context.Context, userID string) ([]filetree.Folder, error)
}
