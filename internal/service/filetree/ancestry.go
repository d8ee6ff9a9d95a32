package filetree

import (
	"context"
	"errors"
	"fmt"

	"cabinet/internal/domain"
	ftrepo "cabinet/internal/domain/repositories/filetree"
	ftsvc "cabinet/internal/domain/services/filetree"
)

type ancestryResolver struct {
	folderRepo ftrepo.FolderRepository
	maxDepth   int
}

// NewAncestryResolver creates an ancestry resolver that gives up after maxDepth hops
func NewAncestryResolver(folderRepo ftrepo.FolderRepository, maxDepth int) ftsvc.AncestryResolver {
	return &ancestryResolver{
		folderRepo: folderRepo,
		maxDepth:   maxDepth,
	}
}

// IsAncestor walks up one folder per step. It costs one repository lookup per hop
// and keeps nothing between calls.
func (r *ancestryResolver) IsAncestor(ctx context.Context, referenceFolderID string, candidateParentID *string) (bool, error) {
	guard := newWalkGuard(r.maxDepth)
	current := candidateParentID

	for current != nil {
		if *current == referenceFolderID {
			return true, nil
		}
		if err := guard.visit(*current); err != nil {
			return false, err
		}

		folder, err := r.folderRepo.GetByID(ctx, *current)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return false, nil
			}
			return false, fmt.Errorf("resolve ancestry: %w", err)
		}
		current = folder.ParentFolderID
	}

	return false, nil
}

// walkGuard stops upward walks on cyclic or absurdly deep parent chains
type walkGuard struct {
	seen     map[string]struct{}
	maxDepth int
}

func newWalkGuard(maxDepth int) *walkGuard {
	return &walkGuard{seen: make(map[string]struct{}), maxDepth: maxDepth}
}

func (g *walkGuard) visit(folderID string) error {
	if _, ok := g.seen[folderID]; ok {
		return fmt.Errorf("folder %s appears twice in its own parent chain: %w", folderID, domain.ErrInconsistent)
	}
	if len(g.seen) >= g.maxDepth {
		return fmt.Errorf("parent chain deeper than %d folders: %w", g.maxDepth, domain.ErrInconsistent)
	}
	g.seen[folderID] = struct{}{}
	return nil
}
