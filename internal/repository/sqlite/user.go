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

type userRepository struct {
	db     *sqlx.DB
	tables *TableNames
}

func NewUserRepository(db *sqlx.DB, tables *TableNames) ftrepo.UserRepository {
	return &userRepository{db: db, tables: tables}
}

func (r *userRepository) Create(ctx context.Context, user *filetree.User) error {
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now().UTC()

	query := fmt.Sprintf(`INSERT INTO %s (id, name, email, password_hash, created_at) VALUES (?, ?, ?, ?, ?)`, r.tables.Users)
	_, err := getExecutor(ctx, r.db).ExecContext(ctx, query, user.ID, user.Name, user.Email, user.PasswordHash, user.CreatedAt)
	if err != nil {
		if isUniqueError(err) {
			return &domain.ConflictError{Message: "Email already exists", ResourceType: "user"}
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*filetree.User, error) {
	query := fmt.Sprintf(`SELECT id, name, email, password_hash, created_at FROM %s WHERE id = ?`, r.tables.Users)
	return r.get(ctx, query, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*filetree.User, error) {
	query := fmt.Sprintf(`SELECT id, name, email, password_hash, created_at FROM %s WHERE lower(email) = lower(?)`, r.tables.Users)
	return r.get(ctx, query, email)
}

func (r *userRepository) get(ctx context.Context, query, arg string) (*filetree.User, error) {
	user := &filetree.User{}
	err := sqlx.GetContext(ctx, getExecutor(ctx, r.db), user, query, arg)
	if isNoRows(err) {
		return nil, fmt.Errorf("user %s: %w", arg, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}
