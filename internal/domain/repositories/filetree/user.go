package filetree

import (
	"context"

	"cabinet/internal/domain/models/filetree"
)

// UserRepository defines data access operations for accounts
type UserRepository interface {
	// Create inserts a user. A taken email returns *domain.ConflictError.
	Create(ctx context.Context, user *filetree.User) error

	GetByID(ctx context.Context, id string) (*filetree.User, error)

	// GetByEmail matches the email case-insensitively
	GetByEmail(ctx context.Context, email string) (*filetree.User, error)
}
