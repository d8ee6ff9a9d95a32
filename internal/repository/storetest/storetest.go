// Package storetest holds behaviour checks shared by every Store implementation.
package storetest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cabinet/internal/domain"
	"cabinet/internal/domain/models/filetree"
	ftrepo "cabinet/internal/domain/repositories/filetree"
)

// Run exercises store against the repository contract. newStore must return an empty store.
func Run(t *testing.T, newStore func(t *testing.T) *ftrepo.Store) {
	t.Run("Users", func(t *testing.T) { testUsers(t, newStore(t)) })
	t.Run("Folders", func(t *testing.T) { testFolders(t, newStore(t)) })
	t.Run("Files", func(t *testing.T) { testFiles(t, newStore(t)) })
	t.Run("Transactions", func(t *testing.T) { testTransactions(t, newStore(t)) })
}

func createUser(t *testing.T, store *ftrepo.Store, name string) *filetree.User {
	t.Helper()
	user := &filetree.User{Name: name, Email: name + "@example.com"}
	require.NoError(t, store.Users.Create(context.Background(), user))
	return user
}

func createFolder(t *testing.T, store *ftrepo.Store, userID string, parentID *string, name string) *filetree.Folder {
	t.Helper()
	folder := &filetree.Folder{UserID: userID, ParentFolderID: parentID, Name: name}
	require.NoError(t, store.Folders.Create(context.Background(), folder))
	return folder
}

func testUsers(t *testing.T, store *ftrepo.Store) {
	ctx := context.Background()
	hash := "$argon2id$v=19$m=1,t=1,p=1$c2FsdA$a2V5"
	user := &filetree.User{Name: "Alice", Email: "Alice@Example.com", PasswordHash: &hash}
	require.NoError(t, store.Users.Create(ctx, user))
	assert.NotEmpty(t, user.ID)
	assert.False(t, user.CreatedAt.IsZero())

	got, err := store.Users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)
	require.NotNil(t, got.PasswordHash)
	assert.Equal(t, hash, *got.PasswordHash)

	byEmail, err := store.Users.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	err = store.Users.Create(ctx, &filetree.User{Name: "Other", Email: "ALICE@example.com"})
	var conflict *domain.ConflictError
	require.True(t, errors.As(err, &conflict), "want conflict, got %v", err)
	assert.Equal(t, "user", conflict.ResourceType)

	noPassword := &filetree.User{Name: "Grace", Email: "grace@example.com"}
	require.NoError(t, store.Users.Create(ctx, noPassword))
	got, err = store.Users.GetByID(ctx, noPassword.ID)
	require.NoError(t, err)
	assert.False(t, got.HasPassword())

	_, err = store.Users.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func testFolders(t *testing.T, store *ftrepo.Store) {
	ctx := context.Background()
	alice := createUser(t, store, "alice")
	bob := createUser(t, store, "bob")

	root := createFolder(t, store, alice.ID, nil, "alice@root")
	assert.NotEmpty(t, root.ID)
	assert.True(t, root.IsRoot())

	// one root per user
	err := store.Folders.Create(ctx, &filetree.Folder{UserID: alice.ID, Name: "second@root"})
	var conflict *domain.ConflictError
	require.True(t, errors.As(err, &conflict), "want conflict, got %v", err)
	assert.Equal(t, "root_folder", conflict.ResourceType)

	// other users get their own root
	bobRoot := createFolder(t, store, bob.ID, nil, "bob@root")

	work := createFolder(t, store, alice.ID, &root.ID, "Work")
	createFolder(t, store, alice.ID, &root.ID, "Personal")
	nested := createFolder(t, store, alice.ID, &work.ID, "Work")

	err = store.Folders.Create(ctx, &filetree.Folder{UserID: alice.ID, ParentFolderID: &root.ID, Name: "Work"})
	require.True(t, errors.As(err, &conflict), "want conflict, got %v", err)
	assert.Equal(t, "folder", conflict.ResourceType)

	got, err := store.Folders.GetByID(ctx, nested.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ParentFolderID)
	assert.Equal(t, work.ID, *got.ParentFolderID)

	gotRoot, err := store.Folders.GetRoot(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, root.ID, gotRoot.ID)

	sibling, err := store.Folders.GetByParentAndName(ctx, alice.ID, root.ID, "Work")
	require.NoError(t, err)
	assert.Equal(t, work.ID, sibling.ID)

	_, err = store.Folders.GetByParentAndName(ctx, bob.ID, root.ID, "Work")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	children, err := store.Folders.ListChildren(ctx, alice.ID, root.ID)
	require.NoError(t, err)
	assert.Len(t, children, 2)

	all, err := store.Folders.ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	bobs, err := store.Folders.ListByUser(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, bobs, 1)
	assert.Equal(t, bobRoot.ID, bobs[0].ID)

	_, err = store.Folders.GetByID(ctx, "00000000-0000-4000-8000-000000000000")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	empty, err := store.Folders.ListChildren(ctx, alice.ID, nested.ID)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func testFiles(t *testing.T, store *ftrepo.Store) {
	ctx := context.Background()
	alice := createUser(t, store, "alice")
	root := createFolder(t, store, alice.ID, nil, "alice@root")
	work := createFolder(t, store, alice.ID, &root.ID, "Work")

	file := &filetree.File{UserID: alice.ID, ParentFolderID: work.ID, FileName: "report.txt", Content: "hello"}
	require.NoError(t, store.Files.Create(ctx, file))
	assert.NotEmpty(t, file.ID)
	assert.False(t, file.CreatedAt.IsZero())

	emptyFile := &filetree.File{UserID: alice.ID, ParentFolderID: root.ID, FileName: "report.txt"}
	require.NoError(t, store.Files.Create(ctx, emptyFile))

	err := store.Files.Create(ctx, &filetree.File{UserID: alice.ID, ParentFolderID: work.ID, FileName: "report.txt"})
	var conflict *domain.ConflictError
	require.True(t, errors.As(err, &conflict), "want conflict, got %v", err)
	assert.Equal(t, "file", conflict.ResourceType)

	got, err := store.Files.GetByID(ctx, file.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Content)
	assert.Equal(t, work.ID, got.ParentFolderID)

	got, err = store.Files.GetByID(ctx, emptyFile.ID)
	require.NoError(t, err)
	assert.Equal(t, "", got.Content)

	byName, err := store.Files.GetByParentAndName(ctx, alice.ID, work.ID, "report.txt")
	require.NoError(t, err)
	assert.Equal(t, file.ID, byName.ID)

	inWork, err := store.Files.ListByFolder(ctx, alice.ID, work.ID)
	require.NoError(t, err)
	assert.Len(t, inWork, 1)

	all, err := store.Files.ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = store.Files.GetByID(ctx, "00000000-0000-4000-8000-000000000000")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func testTransactions(t *testing.T, store *ftrepo.Store) {
	ctx := context.Background()
	boom := errors.New("boom")

	var rolledBack string
	err := store.Tx.ExecTx(ctx, func(ctx context.Context) error {
		user := &filetree.User{Name: "ghost", Email: "ghost@example.com"}
		if err := store.Users.Create(ctx, user); err != nil {
			return err
		}
		rolledBack = user.ID
		if err := store.Folders.Create(ctx, &filetree.Folder{UserID: user.ID, Name: "ghost@root"}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = store.Users.GetByEmail(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	if rolledBack != "" {
		_, err = store.Folders.GetRoot(ctx, rolledBack)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	}

	var committed *filetree.User
	err = store.Tx.ExecTx(ctx, func(ctx context.Context) error {
		committed = &filetree.User{Name: "kept", Email: "kept@example.com"}
		if err := store.Users.Create(ctx, committed); err != nil {
			return err
		}
		return store.Folders.Create(ctx, &filetree.Folder{UserID: committed.ID, Name: "kept@root"})
	})
	require.NoError(t, err)

	root, err := store.Folders.GetRoot(ctx, committed.ID)
	require.NoError(t, err)
	assert.Equal(t, "kept@root", root.Name)
}
