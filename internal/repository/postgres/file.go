package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"cabinet/internal/domain"
	"cabinet/internal/domain/models/filetree"
	ftrepo "cabinet/internal/domain/repositories/filetree"
)

// PostgresFileRepository implements the FileRepository interface
type PostgresFileRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewFileRepository creates a new file repository
func NewFileRepository(config *RepositoryConfig) ftrepo.FileRepository {
	return &PostgresFileRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const fileColumns = "id, user_id, parent_folder_id, file_name, content, created_at"

// Create creates a new file
func (r *PostgresFileRepository) Create(ctx context.Context, file *filetree.File) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, parent_folder_id, file_name, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, r.tables.Files)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		file.UserID,
		file.ParentFolderID,
		file.FileName,
		file.Content,
	).Scan(&file.ID, &file.CreatedAt)

	if err != nil {
		if isPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      "Parent folder has already a file with this name.",
				ResourceType: "file",
			}
		}
		if isPgForeignKeyError(err) {
			return &domain.NotFoundError{Message: "Parent folder not found or not accessible"}
		}
		return fmt.Errorf("create file: %w", err)
	}

	return nil
}

// GetByID retrieves a file by ID
func (r *PostgresFileRepository) GetByID(ctx context.Context, id string) (*filetree.File, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, fileColumns, r.tables.Files)

	executor := GetExecutor(ctx, r.pool)
	file, err := scanFile(executor.QueryRow(ctx, query, id))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get file: %w", err)
	}
	return file, nil
}

// GetByParentAndName finds a file by name inside a folder
func (r *PostgresFileRepository) GetByParentAndName(ctx context.Context, userID, parentID, fileName string) (*filetree.File, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE user_id = $1 AND parent_folder_id = $2 AND file_name = $3
	`, fileColumns, r.tables.Files)

	executor := GetExecutor(ctx, r.pool)
	file, err := scanFile(executor.QueryRow(ctx, query, userID, parentID, fileName))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("file %q: %w", fileName, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get file: %w", err)
	}
	return file, nil
}

// ListByFolder lists files directly inside a folder
func (r *PostgresFileRepository) ListByFolder(ctx context.Context, userID, folderID string) ([]filetree.File, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE user_id = $1 AND parent_folder_id = $2
		ORDER BY file_name
	`, fileColumns, r.tables.Files)
	return r.list(ctx, query, userID, folderID)
}

// ListByUser lists every file owned by a user
func (r *PostgresFileRepository) ListByUser(ctx context.Context, userID string) ([]filetree.File, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE user_id = $1
		ORDER BY created_at, file_name
	`, fileColumns, r.tables.Files)
	return r.list(ctx, query, userID)
}

func (r *PostgresFileRepository) list(ctx context.Context, query string, args ...any) ([]filetree.File, error) {
	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()

	files := []filetree.File{}
	for rows.Next() {
		file, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, *file)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate files: %w", err)
	}

	return files, nil
}

func scanFile(row pgx.Row) (*filetree.File, error) {
	var file filetree.File
	err := row.Scan(
		&file.ID,
		&file.UserID,
		&file.ParentFolderID,
		&file.FileName,
		&file.Content,
		&file.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &file, nil
}
