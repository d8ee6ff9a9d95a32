package filetree

import (
	"context"

	"cabinet/internal/domain/models/filetree"
)

// TreeService creates and reads folders and files. Entities are immutable once created.
type TreeService interface {
	// CreateFolder creates a folder under ParentFolderID, or the user's root folder when it is nil
	CreateFolder(ctx context.Context, userID string, req *CreateFolderRequest) (*filetree.Folder, error)

	// CreateFile creates a file; ParentFolderID is required
	CreateFile(ctx context.Context, userID string, req *CreateFileRequest) (*filetree.File, error)

	// GetOrCreateRootFolder returns the user's root folder, creating it on first use
	GetOrCreateRootFolder(ctx context.Context, userID string) (*filetree.RootFolderResult, error)

	// GetRootFolder looks the root folder up without creating it
	GetRootFolder(ctx context.Context, userID string) (*filetree.RootFolderResult, error)

	// GetFolderWithChildren returns a folder with its direct files and shallow subfolders
	GetFolderWithChildren(ctx context.Context, userID, folderID string) (*filetree.FolderWithChildren, error)

	ListFolders(ctx context.Context, userID string) ([]filetree.Folder, error)
	ListFiles(ctx context.Context, userID string) ([]filetree.File, error)
	GetFile(ctx context.Context, userID, fileID string) (*filetree.File, error)
}

// CreateFolderRequest represents a folder creation request
type CreateFolderRequest struct {
	Name           string  `json:"name"`
	ParentFolderID *string `json:"parentFolderId"` // null creates the root folder
}

// CreateFileRequest represents a file creation request
type CreateFileRequest struct {
	FileName       string `json:"fileName"`
	Content        string `json:"content"`
	ParentFolderID string `json:"parentFolderId"`
}
