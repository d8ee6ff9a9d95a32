package postgres

import (
	ftrepo "cabinet/internal/domain/repositories/filetree"
)

// NewStore wires the Postgres repositories over one pool. Close closes the pool.
func NewStore(config *RepositoryConfig) *ftrepo.Store {
	return &ftrepo.Store{
		Users:   NewUserRepository(config),
		Folders: NewFolderRepository(config),
		Files:   NewFileRepository(config),
		Tx:      NewTransactionManager(config),
		Close: func() error {
			config.Pool.Close()
			return nil
		},
	}
}
