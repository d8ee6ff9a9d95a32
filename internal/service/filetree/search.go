package filetree

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"cabinet/internal/domain"
	"cabinet/internal/domain/models/filetree"
	ftrepo "cabinet/internal/domain/repositories/filetree"
	"cabinet/internal/domain/services"
	ftsvc "cabinet/internal/domain/services/filetree"
)

type searchService struct {
	folderRepo ftrepo.FolderRepository
	fileRepo   ftrepo.FileRepository
	ancestry   ftsvc.AncestryResolver
	paths      ftsvc.PathBuilder
	authorizer services.ResourceAuthorizer
	logger     *slog.Logger
}

// NewSearchService creates a new search service
func NewSearchService(
	folderRepo ftrepo.FolderRepository,
	fileRepo ftrepo.FileRepository,
	ancestry ftsvc.AncestryResolver,
	paths ftsvc.PathBuilder,
	authorizer services.ResourceAuthorizer,
	logger *slog.Logger,
) ftsvc.SearchService {
	return &searchService{
		folderRepo: folderRepo,
		fileRepo:   fileRepo,
		ancestry:   ancestry,
		paths:      paths,
		authorizer: authorizer,
		logger:     logger,
	}
}

// Search matches names case-insensitively across all of the user's folders and files,
// then keeps candidates whose parent chain passes through the scope folder.
// The scope folder itself only qualifies through its own parent chain.
func (s *searchService) Search(ctx context.Context, userID, scopeFolderID, query string) (*filetree.SearchResults, error) {
	if err := validateID("scopeFolderId", scopeFolderID); err != nil {
		return nil, validationError(err)
	}
	query = strings.TrimSpace(query)
	if err := validateQuery(query); err != nil {
		return nil, validationError(err)
	}
	if _, err := s.authorizer.CanAccessFolder(ctx, userID, scopeFolderID); err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)
	results := &filetree.SearchResults{
		FolderResults: []filetree.FolderHit{},
		FileResults:   []filetree.FileHit{},
	}

	folders, err := s.folderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list folders for search: %w", err)
	}
	for _, folder := range folders {
		if !strings.Contains(strings.ToLower(folder.Name), needle) {
			continue
		}
		inScope, err := s.ancestry.IsAncestor(ctx, scopeFolderID, folder.ParentFolderID)
		if err != nil {
			return nil, err
		}
		if !inScope {
			continue
		}
		path, err := s.paths.BuildFolderPath(ctx, folder.ID, scopeFolderID)
		if err != nil {
			return nil, err
		}
		results.FolderResults = append(results.FolderResults, filetree.FolderHit{Folder: folder, Path: path})
	}

	files, err := s.fileRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list files for search: %w", err)
	}
	for _, file := range files {
		if !strings.Contains(strings.ToLower(file.FileName), needle) {
			continue
		}
		parentID := file.ParentFolderID
		inScope, err := s.ancestry.IsAncestor(ctx, scopeFolderID, &parentID)
		if err != nil {
			return nil, err
		}
		if !inScope {
			continue
		}
		path, err := s.paths.BuildFilePath(ctx, file.ID, scopeFolderID)
		if err != nil {
			return nil, err
		}
		results.FileResults = append(results.FileResults, filetree.FileHit{File: file, Path: path})
	}

	s.logger.Debug("search completed",
		"user_id", userID,
		"scope_folder_id", scopeFolderID,
		"query", query,
		"folders", len(results.FolderResults),
		"files", len(results.FileResults),
	)

	if results.IsEmpty() {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("No results for %s", query)}
	}
	return results, nil
}
