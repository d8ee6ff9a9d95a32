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

type fileRepository struct {
	db     *sqlx.DB
	tables *TableNames
}

func NewFileRepository(db *sqlx.DB, tables *TableNames) ftrepo.FileRepository {
	return &fileRepository{db: db, tables: tables}
}

const fileColumns = "id, user_id, parent_folder_id, file_name, content, created_at"

func (r *fileRepository) Create(ctx context.Context, file *filetree.File) error {
	file.ID = uuid.NewString()
	file.CreatedAt = time.Now().UTC()

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?)`, r.tables.Files, fileColumns)
	_, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		file.ID, file.UserID, file.ParentFolderID, file.FileName, file.Content, file.CreatedAt)
	if err != nil {
		if isUniqueError(err) {
			return &domain.ConflictError{Message: "Parent folder has already a file with this name.", ResourceType: "file"}
		}
		if isForeignKeyError(err) {
			return &domain.NotFoundError{Message: "Parent folder not found or not accessible"}
		}
		return fmt.Errorf("create file: %w", err)
	}
	return nil
}

func (r *fileRepository) GetByID(ctx context.Context, id string) (*filetree.File, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = ?`, fileColumns, r.tables.Files)
	file := &filetree.File{}
	err := sqlx.GetContext(ctx, getExecutor(ctx, r.db), file, query, id)
	if isNoRows(err) {
		return nil, fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}
	return file, nil
}

func (r *fileRepository) GetByParentAndName(ctx context.Context, userID, parentID, fileName string) (*filetree.File, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE user_id = ? AND parent_folder_id = ? AND file_name = ?`,
		fileColumns, r.tables.Files)
	file := &filetree.File{}
	err := sqlx.GetContext(ctx, getExecutor(ctx, r.db), file, query, userID, parentID, fileName)
	if isNoRows(err) {
		return nil, fmt.Errorf("file %q: %w", fileName, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}
	return file, nil
}

func (r *fileRepository) ListByFolder(ctx context.Context, userID, folderID string) ([]filetree.File, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE user_id = ? AND parent_folder_id = ? ORDER BY file_name`,
		fileColumns, r.tables.Files)
	return r.list(ctx, query, userID, folderID)
}

func (r *fileRepository) ListByUser(ctx context.Context, userID string) ([]filetree.File, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE user_id = ? ORDER BY created_at, file_name`,
		fileColumns, r.tables.Files)
	return r.list(ctx, query, userID)
}

func (r *fileRepository) list(ctx context.Context, query string, args ...any) ([]filetree.File, error) {
	files := []filetree.File{}
	if err := sqlx.SelectContext(ctx, getExecutor(ctx, r.db), &files, query, args...); err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	return files, nil
}
