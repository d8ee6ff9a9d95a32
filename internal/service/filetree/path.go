package filetree

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"cabinet/internal/domain"
	ftrepo "cabinet/internal/domain/repositories/filetree"
	ftsvc "cabinet/internal/domain/services/filetree"
)

type pathBuilder struct {
	folderRepo ftrepo.FolderRepository
	fileRepo   ftrepo.FileRepository
	maxDepth   int
}

// NewPathBuilder creates a path builder
func NewPathBuilder(folderRepo ftrepo.FolderRepository, fileRepo ftrepo.FileRepository, maxDepth int) ftsvc.PathBuilder {
	return &pathBuilder{
		folderRepo: folderRepo,
		fileRepo:   fileRepo,
		maxDepth:   maxDepth,
	}
}

// BuildFolderPath returns "<reference>/.../<folder>".
// If the chain hits a root or a missing folder before the reference, the path holds
// only the names walked so far (still prefixed with the reference name when it exists).
func (b *pathBuilder) BuildFolderPath(ctx context.Context, folderID, referenceAncestorID string) (string, error) {
	return b.build(ctx, nil, &folderID, referenceAncestorID)
}

// BuildFilePath returns "<reference>/.../<folder>/<file>"
func (b *pathBuilder) BuildFilePath(ctx context.Context, fileID, referenceAncestorID string) (string, error) {
	file, err := b.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", &domain.NotFoundError{Message: "File not found"}
		}
		return "", fmt.Errorf("build file path: %w", err)
	}

	return b.build(ctx, []string{file.FileName}, &file.ParentFolderID, referenceAncestorID)
}

// build collects names bottom-up starting with leaf, then reverses them
func (b *pathBuilder) build(ctx context.Context, leaf []string, start *string, referenceAncestorID string) (string, error) {
	names := leaf
	guard := newWalkGuard(b.maxDepth)

	for current := start; current != nil && *current != referenceAncestorID; {
		if err := guard.visit(*current); err != nil {
			return "", err
		}

		folder, err := b.folderRepo.GetByID(ctx, *current)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				break
			}
			return "", fmt.Errorf("build path: %w", err)
		}
		names = append(names, folder.Name)
		current = folder.ParentFolderID
	}

	reference, err := b.folderRepo.GetByID(ctx, referenceAncestorID)
	switch {
	case err == nil:
		names = append(names, reference.Name)
	case !errors.Is(err, domain.ErrNotFound):
		return "", fmt.Errorf("build path: %w", err)
	}

	slices.Reverse(names)
	return strings.Join(names, "/"), nil
}
