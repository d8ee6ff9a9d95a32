package filetree

import (
	"context"

	"cabinet/internal/domain/models/filetree"
)

// AncestryResolver answers whether a folder lies on another folder's parent chain
type AncestryResolver interface {
	// IsAncestor walks up from candidateParentID and reports whether it reaches referenceFolderID.
	// A nil candidate or a missing folder ends the walk with false.
	IsAncestor(ctx context.Context, referenceFolderID string, candidateParentID *string) (bool, error)
}

// PathBuilder renders slash-joined paths from a reference ancestor down to a target
type PathBuilder interface {
	BuildFolderPath(ctx context.Context, folderID, referenceAncestorID string) (string, error)
	BuildFilePath(ctx context.Context, fileID, referenceAncestorID string) (string, error)
}

// SearchService finds folders and files by name inside a scope folder's subtree
type SearchService interface {
	Search(ctx context.Context, userID, scopeFolderID, query string) (*filetree.SearchResults, error)
}
