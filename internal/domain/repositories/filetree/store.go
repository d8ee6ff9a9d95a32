package filetree

import "cabinet/internal/domain/repositories"

// Store bundles the repositories of one backend so the server can pick a driver at startup.
type Store struct {
	Users   UserRepository
	Folders FolderRepository
	Files   FileRepository
	Tx      repositories.TransactionManager

	// Close releases the backend's connections. Nil for stores that hold none.
	Close func() error
}
