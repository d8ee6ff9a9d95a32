package filetree

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"cabinet/internal/domain"
	"cabinet/internal/domain/models/filetree"
	ftrepo "cabinet/internal/domain/repositories/filetree"
	"cabinet/internal/domain/services"
	ftsvc "cabinet/internal/domain/services/filetree"
)

type treeService struct {
	userRepo   ftrepo.UserRepository
	folderRepo ftrepo.FolderRepository
	fileRepo   ftrepo.FileRepository
	authorizer services.ResourceAuthorizer
	logger     *slog.Logger
}

// NewTreeService creates a new tree service
func NewTreeService(
	userRepo ftrepo.UserRepository,
	folderRepo ftrepo.FolderRepository,
	fileRepo ftrepo.FileRepository,
	authorizer services.ResourceAuthorizer,
	logger *slog.Logger,
) ftsvc.TreeService {
	return &treeService{
		userRepo:   userRepo,
		folderRepo: folderRepo,
		fileRepo:   fileRepo,
		authorizer: authorizer,
		logger:     logger,
	}
}

// CreateFolder creates a new folder.
// The sibling lookup is an early exit; the repository's unique constraints decide races.
func (s *treeService) CreateFolder(ctx context.Context, userID string, req *ftsvc.CreateFolderRequest) (*filetree.Folder, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.ParentFolderID != nil && *req.ParentFolderID == "" {
		req.ParentFolderID = nil
	}
	if err := validateCreateFolder(req); err != nil {
		return nil, validationError(err)
	}

	if req.ParentFolderID == nil {
		if err := s.ensureNoRoot(ctx, userID); err != nil {
			return nil, err
		}
	} else {
		if err := s.checkParent(ctx, userID, *req.ParentFolderID); err != nil {
			return nil, err
		}

		existing, err := s.folderRepo.GetByParentAndName(ctx, userID, *req.ParentFolderID, req.Name)
		if err == nil {
			return nil, &domain.ConflictError{
				Message:      "Parent folder has already a folder with this name.",
				ResourceType: "folder",
				ResourceID:   existing.ID,
			}
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("check for duplicate folder name: %w", err)
		}
	}

	folder := &filetree.Folder{
		UserID:         userID,
		ParentFolderID: req.ParentFolderID,
		Name:           req.Name,
	}
	if err := s.folderRepo.Create(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder created",
		"id", folder.ID,
		"name", folder.Name,
		"user_id", userID,
		"parent_folder_id", folder.ParentFolderID,
	)

	return folder, nil
}

// ensureNoRoot rejects a second root folder for the user
func (s *treeService) ensureNoRoot(ctx context.Context, userID string) error {
	root, err := s.folderRepo.GetRoot(ctx, userID)
	if err == nil {
		return &domain.ConflictError{
			Message:      "root folder already exists",
			ResourceType: "root_folder",
			ResourceID:   root.ID,
		}
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("check for root folder: %w", err)
	}
	return nil
}

func (s *treeService) checkParent(ctx context.Context, userID, parentID string) error {
	if _, err := s.authorizer.CanAccessFolder(ctx, userID, parentID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &domain.NotFoundError{Message: "Parent folder not found or not accessible"}
		}
		return err
	}
	return nil
}

// CreateFile creates a new file inside an existing folder
func (s *treeService) CreateFile(ctx context.Context, userID string, req *ftsvc.CreateFileRequest) (*filetree.File, error) {
	req.FileName = strings.TrimSpace(req.FileName)
	if err := validateCreateFile(req); err != nil {
		return nil, validationError(err)
	}

	if err := s.checkParent(ctx, userID, req.ParentFolderID); err != nil {
		return nil, err
	}

	existing, err := s.fileRepo.GetByParentAndName(ctx, userID, req.ParentFolderID, req.FileName)
	if err == nil {
		return nil, &domain.ConflictError{
			Message:      "Parent folder has already a file with this name.",
			ResourceType: "file",
			ResourceID:   existing.ID,
		}
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("check for duplicate file name: %w", err)
	}

	file := &filetree.File{
		UserID:         userID,
		ParentFolderID: req.ParentFolderID,
		FileName:       req.FileName,
		Content:        req.Content,
	}
	if err := s.fileRepo.Create(ctx, file); err != nil {
		return nil, err
	}

	s.logger.Info("file created",
		"id", file.ID,
		"file_name", file.FileName,
		"user_id", userID,
		"parent_folder_id", file.ParentFolderID,
		"size", len(file.Content),
	)

	return file, nil
}

// GetOrCreateRootFolder is safe to call concurrently: losing the insert race
// re-reads the winner's root and reports it as pre-existing.
func (s *treeService) GetOrCreateRootFolder(ctx context.Context, userID string) (*filetree.RootFolderResult, error) {
	existing, err := s.GetRootFolder(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing.Existed {
		return existing, nil
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &domain.NotFoundError{Message: "User not found"}
		}
		return nil, fmt.Errorf("get user for root folder: %w", err)
	}

	root := &filetree.Folder{
		UserID: userID,
		Name:   filetree.RootFolderName(user.Name),
	}
	if err := s.folderRepo.Create(ctx, root); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			s.logger.Debug("root folder created concurrently, re-reading", "user_id", userID)
			again, err := s.folderRepo.GetRoot(ctx, userID)
			if err != nil {
				return nil, fmt.Errorf("re-read root folder: %w", err)
			}
			return &filetree.RootFolderResult{Folder: again, Existed: true}, nil
		}
		return nil, err
	}

	s.logger.Info("root folder created", "id", root.ID, "name", root.Name, "user_id", userID)
	return &filetree.RootFolderResult{Folder: root, Existed: false}, nil
}

// GetRootFolder never creates anything; a user without a root gets Existed=false and no folder.
func (s *treeService) GetRootFolder(ctx context.Context, userID string) (*filetree.RootFolderResult, error) {
	root, err := s.folderRepo.GetRoot(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &filetree.RootFolderResult{}, nil
		}
		return nil, fmt.Errorf("get root folder: %w", err)
	}
	return &filetree.RootFolderResult{Folder: root, Existed: true}, nil
}

// GetFolderWithChildren returns the folder with its files and shallow subfolders
func (s *treeService) GetFolderWithChildren(ctx context.Context, userID, folderID string) (*filetree.FolderWithChildren, error) {
	if err := validateID("id", folderID); err != nil {
		return nil, validationError(err)
	}

	folder, err := s.authorizer.CanAccessFolder(ctx, userID, folderID)
	if err != nil {
		return nil, err
	}

	files, err := s.fileRepo.ListByFolder(ctx, userID, folderID)
	if err != nil {
		return nil, fmt.Errorf("list folder files: %w", err)
	}

	subFolders, err := s.folderRepo.ListChildren(ctx, userID, folderID)
	if err != nil {
		return nil, fmt.Errorf("list subfolders: %w", err)
	}

	return &filetree.FolderWithChildren{
		Folder:     *folder,
		Files:      files,
		SubFolders: subFolders,
	}, nil
}

func (s *treeService) ListFolders(ctx context.Context, userID string) ([]filetree.Folder, error) {
	folders, err := s.folderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	return folders, nil
}

func (s *treeService) ListFiles(ctx context.Context, userID string) ([]filetree.File, error) {
	files, err := s.fileRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	return files, nil
}

// GetFile returns a file owned by the user
func (s *treeService) GetFile(ctx context.Context, userID, fileID string) (*filetree.File, error) {
	if err := validateID("id", fileID); err != nil {
		return nil, validationError(err)
	}
	return s.authorizer.CanAccessFile(ctx, userID, fileID)
}
