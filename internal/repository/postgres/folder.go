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

// PostgresFolderRepository implements the FolderRepository interface
type PostgresFolderRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(config *RepositoryConfig) ftrepo.FolderRepository {
	return &PostgresFolderRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const folderColumns = "id, user_id, parent_folder_id, name, created_at"

// Create creates a new folder. The unique indexes are the authoritative guard
// against duplicate siblings and a second root.
func (r *PostgresFolderRepository) Create(ctx context.Context, folder *filetree.Folder) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, parent_folder_id, name)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		folder.UserID,
		folder.ParentFolderID,
		folder.Name,
	).Scan(&folder.ID, &folder.CreatedAt)

	if err != nil {
		if isPgDuplicateError(err) {
			if violatedConstraint(err, r.tables.Prefix) == constraintFoldersRoot {
				return &domain.ConflictError{
					Message:      "root folder already exists",
					ResourceType: "root_folder",
				}
			}
			return &domain.ConflictError{
				Message:      "Parent folder has already a folder with this name.",
				ResourceType: "folder",
			}
		}
		if isPgForeignKeyError(err) {
			return &domain.NotFoundError{Message: "Parent folder not found or not accessible"}
		}
		return fmt.Errorf("create folder: %w", err)
	}

	return nil
}

// GetByID retrieves a folder by ID
func (r *PostgresFolderRepository) GetByID(ctx context.Context, id string) (*filetree.Folder, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, folderColumns, r.tables.Folders)
	return r.getOne(ctx, query, id)
}

// GetByParentAndName finds a sibling folder by name
func (r *PostgresFolderRepository) GetByParentAndName(ctx context.Context, userID, parentID, name string) (*filetree.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE user_id = $1 AND parent_folder_id = $2 AND name = $3
	`, folderColumns, r.tables.Folders)
	return r.getOne(ctx, query, userID, parentID, name)
}

// GetRoot retrieves the user's root folder
func (r *PostgresFolderRepository) GetRoot(ctx context.Context, userID string) (*filetree.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE user_id = $1 AND parent_folder_id IS NULL
	`, folderColumns, r.tables.Folders)
	return r.getOne(ctx, query, userID)
}

// ListChildren lists immediate child folders
func (r *PostgresFolderRepository) ListChildren(ctx context.Context, userID, folderID string) ([]filetree.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE user_id = $1 AND parent_folder_id = $2
		ORDER BY name
	`, folderColumns, r.tables.Folders)
	return r.list(ctx, query, userID, folderID)
}

// ListByUser retrieves all folders owned by a user (flat list)
func (r *PostgresFolderRepository) ListByUser(ctx context.Context, userID string) ([]filetree.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE user_id = $1
		ORDER BY created_at, name
	`, folderColumns, r.tables.Folders)
	return r.list(ctx, query, userID)
}

func (r *PostgresFolderRepository) getOne(ctx context.Context, query string, args ...any) (*filetree.Folder, error) {
	executor := GetExecutor(ctx, r.pool)
	folder, err := scanFolder(executor.QueryRow(ctx, query, args...))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("folder: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get folder: %w", err)
	}
	return folder, nil
}

func (r *PostgresFolderRepository) list(ctx context.Context, query string, args ...any) ([]filetree.Folder, error) {
	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	defer rows.Close()

	folders := []filetree.Folder{}
	for rows.Next() {
		folder, err := scanFolder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, *folder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}

	return folders, nil
}

func scanFolder(row pgx.Row) (*filetree.Folder, error) {
	var folder filetree.Folder
	err := row.Scan(
		&folder.ID,
		&folder.UserID,
		&folder.ParentFolderID,
		&folder.Name,
		&folder.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &folder, nil
}
