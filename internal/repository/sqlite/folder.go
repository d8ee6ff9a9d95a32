package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"cabinet/internal/domain"
	"cabinet/internal/domain/models/filetree"
	ftrepo "cabinet/internal/domain/repositories/filetree"
)

type folderRepository struct {
	db     *sqlx.DB
	tables *TableNames
}

func NewFolderRepository(db *sqlx.DB, tables *TableNames) ftrepo.FolderRepository {
	return &folderRepository{db: db, tables: tables}
}

const folderColumns = "id, user_id, parent_folder_id, name, created_at"

func (r *folderRepository) Create(ctx context.Context, folder *filetree.Folder) error {
	folder.ID = uuid.NewString()
	folder.CreatedAt = time.Now().UTC()

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?)`, r.tables.Folders, folderColumns)
	_, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		folder.ID, folder.UserID, folder.ParentFolderID, folder.Name, folder.CreatedAt)
	if err != nil {
		// (NULL, name) never collides in SQLite, so a unique failure on a root can only be the one-root index
		if isUniqueError(err) && folder.ParentFolderID == nil {
			return &domain.ConflictError{Message: "root folder already exists", ResourceType: "root_folder"}
		}
		if isUniqueError(err) {
			return &domain.ConflictError{Message: "Parent folder has already a folder with this name.", ResourceType: "folder"}
		}
		if isForeignKeyError(err) {
			return &domain.NotFoundError{Message: "Parent folder not found or not accessible"}
		}
		return fmt.Errorf("create folder: %w", err)
	}
	return nil
}

func (r *folderRepository) GetByID(ctx context.Context, id string) (*filetree.Folder, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = ?`, folderColumns, r.tables.Folders)
	return r.get(ctx, query, id)
}

func (r *folderRepository) GetByParentAndName(ctx context.Context, userID, parentID, name string) (*filetree.Folder, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE user_id = ? AND parent_folder_id = ? AND name = ?`,
		folderColumns, r.tables.Folders)
	return r.get(ctx, query, userID, parentID, name)
}

func (r *folderRepository) GetRoot(ctx context.Context, userID string) (*filetree.Folder, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE user_id = ? AND parent_folder_id IS NULL`,
		folderColumns, r.tables.Folders)
	return r.get(ctx, query, userID)
}

func (r *folderRepository) ListChildren(ctx context.Context, userID, folderID string) ([]filetree.Folder, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE user_id = ? AND parent_folder_id = ? ORDER BY name`,
		folderColumns, r.tables.Folders)
	return r.list(ctx, query, userID, folderID)
}

func (r *folderRepository) ListByUser(ctx context.Context, userID string) ([]filetree.Folder, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE user_id = ? ORDER BY created_at, name`,
		folderColumns, r.tables.Folders)
	return r.list(ctx, query, userID)
}

func (r *folderRepository) get(ctx context.Context, query string, args ...any) (*filetree.Folder, error) {
	folder := &filetree.Folder{}
	err := sqlx.GetContext(ctx, getExecutor(ctx, r.db), folder, query, args...)
	if isNoRows(err) {
		return nil, fmt.Errorf("folder: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get folder: %w", err)
	}
	return folder, nil
}

func (r *folderRepository) list(ctx context.Context, query string, args ...any) ([]filetree.Folder, error) {
	folders := []filetree.Folder{}
	if err := sqlx.SelectContext(ctx, getExecutor(ctx, r.db), &folders, query, args...); err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	return folders, nil
}
