package filetree

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cabinet/internal/config"
	"cabinet/internal/domain"
	"cabinet/internal/domain/models/filetree"
	ftrepo "cabinet/internal/domain/repositories/filetree"
	ftsvc "cabinet/internal/domain/services/filetree"
	"cabinet/internal/repository/memory"
	authsvc "cabinet/internal/service/auth"
)

// fixture wires the services over a fresh memory store
type fixture struct {
	store    *ftrepo.Store
	tree     ftsvc.TreeService
	search   ftsvc.SearchService
	ancestry ftsvc.AncestryResolver
	paths    ftsvc.PathBuilder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore()
	authorizer := authsvc.NewOwnerBasedAuthorizer(store.Folders, store.Files)
	ancestry := NewAncestryResolver(store.Folders, config.MaxTreeDepth)
	paths := NewPathBuilder(store.Folders, store.Files, config.MaxTreeDepth)
	return &fixture{
		store:    store,
		tree:     NewTreeService(store.Users, store.Folders, store.Files, authorizer, logger),
		search:   NewSearchService(store.Folders, store.Files, ancestry, paths, authorizer, logger),
		ancestry: ancestry,
		paths:    paths,
	}
}

// newUser creates a user without a root folder
func (f *fixture) newUser(t *testing.T, name string) *filetree.User {
	t.Helper()
	user := &filetree.User{Name: name, Email: name + "@example.com"}
	require.NoError(t, f.store.Users.Create(context.Background(), user))
	return user
}

// newUserWithRoot creates a user and bootstraps their root folder
func (f *fixture) newUserWithRoot(t *testing.T, name string) (*filetree.User, *filetree.Folder) {
	t.Helper()
	user := f.newUser(t, name)
	res, err := f.tree.GetOrCreateRootFolder(context.Background(), user.ID)
	require.NoError(t, err)
	return user, res.Folder
}

func (f *fixture) mkdir(t *testing.T, userID, parentID, name string) *filetree.Folder {
	t.Helper()
	folder, err := f.tree.CreateFolder(context.Background(), userID, &ftsvc.CreateFolderRequest{
		Name:           name,
		ParentFolderID: &parentID,
	})
	require.NoError(t, err)
	return folder
}

func (f *fixture) touch(t *testing.T, userID, parentID, name, content string) *filetree.File {
	t.Helper()
	file, err := f.tree.CreateFile(context.Background(), userID, &ftsvc.CreateFileRequest{
		FileName:       name,
		Content:        content,
		ParentFolderID: parentID,
	})
	require.NoError(t, err)
	return file
}

func TestCreateFolder_SiblingNamesAreUnique(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user, root := f.newUserWithRoot(t, "alice")

	work := f.mkdir(t, user.ID, root.ID, "Work")
	f.mkdir(t, user.ID, root.ID, "Personal")

	_, err := f.tree.CreateFolder(ctx, user.ID, &ftsvc.CreateFolderRequest{Name: "Work", ParentFolderID: &root.ID})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConflict)

	var conflict *domain.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "folder", conflict.ResourceType)
	assert.Equal(t, work.ID, conflict.ResourceID)
	assert.Equal(t, "Parent folder has already a folder with this name.", conflict.Message)

	// Same name under a different parent is fine
	f.mkdir(t, user.ID, work.ID, "Work")

	children, err := f.store.Folders.ListChildren(ctx, user.ID, root.ID)
	require.NoError(t, err)
	names := map[string]int{}
	for _, c := range children {
		names[c.Name]++
	}
	for name, n := range names {
		assert.Equalf(t, 1, n, "sibling name %q appears %d times", name, n)
	}
}

func TestCreateFolder_TrimsName(t *testing.T) {
	f := newFixture(t)
	user, root := f.newUserWithRoot(t, "alice")

	folder := f.mkdir(t, user.ID, root.ID, "  Taxes  ")
	assert.Equal(t, "Taxes", folder.Name)
	require.NotNil(t, folder.ParentFolderID)
	assert.Equal(t, root.ID, *folder.ParentFolderID)
	assert.Equal(t, user.ID, folder.UserID)
	assert.NotEmpty(t, folder.ID)
}

func TestCreateFolder_Validation(t *testing.T) {
	f := newFixture(t)
	user, root := f.newUserWithRoot(t, "alice")
	badParent := "not-a-uuid"
	long := make([]byte, config.MaxFolderNameLength+1)
	for i := range long {
		long[i] = 'a'
	}

	tests := []struct {
		name string
		req  ftsvc.CreateFolderRequest
	}{
		{"blank name", ftsvc.CreateFolderRequest{Name: "   ", ParentFolderID: &root.ID}},
		{"slash in name", ftsvc.CreateFolderRequest{Name: "a/b", ParentFolderID: &root.ID}},
		{"name too long", ftsvc.CreateFolderRequest{Name: string(long), ParentFolderID: &root.ID}},
		{"malformed parent id", ftsvc.CreateFolderRequest{Name: "ok", ParentFolderID: &badParent}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := f.tree.CreateFolder(context.Background(), user.ID, &req)
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Equal(t, domain.KindValidation, domain.KindOf(err))
		})
	}
}

func TestCreateNames_LengthCountsRunes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user, root := f.newUserWithRoot(t, "alice")

	// 255 two-byte runes: within the limit although 510 bytes long
	longest := strings.Repeat("é", config.MaxFolderNameLength)
	folder := f.mkdir(t, user.ID, root.ID, longest)
	assert.Equal(t, longest, folder.Name)
	f.touch(t, user.ID, folder.ID, strings.Repeat("ü", config.MaxFileNameLength), "")

	_, err := f.tree.CreateFolder(ctx, user.ID, &ftsvc.CreateFolderRequest{
		Name:           longest + "é",
		ParentFolderID: &root.ID,
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.tree.CreateFile(ctx, user.ID, &ftsvc.CreateFileRequest{
		FileName:       strings.Repeat("ü", config.MaxFileNameLength+1),
		ParentFolderID: root.ID,
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateFolder_ParentMustBeOwned(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, _ := f.newUserWithRoot(t, "alice")
	_, bobRoot := f.newUserWithRoot(t, "bob")

	_, err := f.tree.CreateFolder(ctx, alice.ID, &ftsvc.CreateFolderRequest{Name: "sneaky", ParentFolderID: &bobRoot.ID})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, "Parent folder not found or not accessible", err.Error())

	missing := "7f6c1c3e-0000-4000-8000-000000000000"
	_, err = f.tree.CreateFolder(ctx, alice.ID, &ftsvc.CreateFolderRequest{Name: "orphan", ParentFolderID: &missing})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateFolder_NilParentCreatesRootOnlyOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.newUser(t, "alice")

	root, err := f.tree.CreateFolder(ctx, user.ID, &ftsvc.CreateFolderRequest{Name: "alice@root"})
	require.NoError(t, err)
	assert.True(t, root.IsRoot())

	empty := ""
	_, err = f.tree.CreateFolder(ctx, user.ID, &ftsvc.CreateFolderRequest{Name: "another", ParentFolderID: &empty})
	require.Error(t, err)

	var conflict *domain.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "root_folder", conflict.ResourceType)
	assert.Equal(t, root.ID, conflict.ResourceID)
}

func TestGetOrCreateRootFolder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.newUser(t, "Alice")

	before, err := f.tree.GetRootFolder(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, before.Existed)
	assert.Nil(t, before.Folder)

	first, err := f.tree.GetOrCreateRootFolder(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, first.Existed)
	require.NotNil(t, first.Folder)
	assert.Equal(t, "alice@root", first.Folder.Name)
	assert.Nil(t, first.Folder.ParentFolderID)

	second, err := f.tree.GetOrCreateRootFolder(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, second.Existed)
	assert.Equal(t, first.Folder.ID, second.Folder.ID)

	after, err := f.tree.GetRootFolder(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, after.Existed)
	assert.Equal(t, first.Folder.ID, after.Folder.ID)
}

func TestGetOrCreateRootFolder_Concurrent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.newUser(t, "alice")

	const workers = 16
	ids := make([]string, workers)
	created := make([]bool, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := f.tree.GetOrCreateRootFolder(ctx, user.ID)
			if err != nil {
				t.Errorf("worker %d: %v", i, err)
				return
			}
			ids[i] = res.Folder.ID
			created[i] = !res.Existed
		}(i)
	}
	wg.Wait()

	creators := 0
	for i := range ids {
		assert.Equal(t, ids[0], ids[i])
		if created[i] {
			creators++
		}
	}
	assert.Equal(t, 1, creators)

	folders, err := f.store.Folders.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, folders, 1)
}

// staleRootRepo misses the root on its first lookup, as a caller would that
// checked just before another request inserted it.
type staleRootRepo struct {
	ftrepo.FolderRepository
	missed bool
}

func (r *staleRootRepo) GetRoot(ctx context.Context, userID string) (*filetree.Folder, error) {
	if !r.missed {
		r.missed = true
		return nil, &domain.NotFoundError{Message: "Folder not found"}
	}
	return r.FolderRepository.GetRoot(ctx, userID)
}

func TestGetOrCreateRootFolder_LosesInsertRace(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.newUser(t, "alice")

	winner := &filetree.Folder{UserID: user.ID, Name: filetree.RootFolderName(user.Name)}
	require.NoError(t, f.store.Folders.Create(ctx, winner))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	folders := &staleRootRepo{FolderRepository: f.store.Folders}
	authorizer := authsvc.NewOwnerBasedAuthorizer(folders, f.store.Files)
	tree := NewTreeService(f.store.Users, folders, f.store.Files, authorizer, logger)

	res, err := tree.GetOrCreateRootFolder(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, folders.missed)
	assert.True(t, res.Existed)
	assert.Equal(t, winner.ID, res.Folder.ID)

	all, err := f.store.Folders.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestGetOrCreateRootFolder_UnknownUser(t *testing.T) {
	f := newFixture(t)
	_, err := f.tree.GetOrCreateRootFolder(context.Background(), "9b2d7c51-0000-4000-8000-000000000000")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateFile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user, root := f.newUserWithRoot(t, "alice")

	file := f.touch(t, user.ID, root.ID, " todo.txt ", "")
	assert.Equal(t, "todo.txt", file.FileName)
	assert.Equal(t, "", file.Content)
	assert.Equal(t, root.ID, file.ParentFolderID)

	_, err := f.tree.CreateFile(ctx, user.ID, &ftsvc.CreateFileRequest{FileName: "todo.txt", ParentFolderID: root.ID})
	var conflict *domain.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "file", conflict.ResourceType)
	assert.Equal(t, file.ID, conflict.ResourceID)

	// A folder and a file may share a name
	f.mkdir(t, user.ID, root.ID, "todo.txt")

	_, err = f.tree.CreateFile(ctx, user.ID, &ftsvc.CreateFileRequest{FileName: "x.txt"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.tree.CreateFile(ctx, user.ID, &ftsvc.CreateFileRequest{FileName: "dir/x.txt", ParentFolderID: root.ID})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateFile_ParentMustBeOwned(t *testing.T) {
	f := newFixture(t)
	alice, _ := f.newUserWithRoot(t, "alice")
	_, bobRoot := f.newUserWithRoot(t, "bob")

	_, err := f.tree.CreateFile(context.Background(), alice.ID, &ftsvc.CreateFileRequest{
		FileName:       "planted.txt",
		ParentFolderID: bobRoot.ID,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetFolderWithChildren(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user, root := f.newUserWithRoot(t, "alice")
	work := f.mkdir(t, user.ID, root.ID, "Work")
	f.mkdir(t, user.ID, work.ID, "2024")
	f.mkdir(t, user.ID, root.ID, "Personal")
	f.touch(t, user.ID, root.ID, "readme.txt", "hi")

	got, err := f.tree.GetFolderWithChildren(ctx, user.ID, root.ID)
	require.NoError(t, err)
	assert.Equal(t, root.ID, got.ID)
	require.Len(t, got.Files, 1)
	assert.Equal(t, "readme.txt", got.Files[0].FileName)

	var names []string
	for _, sub := range got.SubFolders {
		names = append(names, sub.Name)
	}
	assert.ElementsMatch(t, []string{"Work", "Personal"}, names)

	empty, err := f.tree.GetFolderWithChildren(ctx, user.ID, work.ID)
	require.NoError(t, err)
	assert.Empty(t, empty.Files)
	assert.Len(t, empty.SubFolders, 1)

	_, err = f.tree.GetFolderWithChildren(ctx, user.ID, "nope")
	assert.ErrorIs(t, err, domain.ErrValidation)

	bob, _ := f.newUserWithRoot(t, "bob")
	_, err = f.tree.GetFolderWithChildren(ctx, bob.ID, root.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListFoldersAndFiles_AreOwnerScoped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, aliceRoot := f.newUserWithRoot(t, "alice")
	bob, bobRoot := f.newUserWithRoot(t, "bob")
	f.mkdir(t, alice.ID, aliceRoot.ID, "a1")
	f.touch(t, alice.ID, aliceRoot.ID, "a.txt", "")
	f.touch(t, bob.ID, bobRoot.ID, "b.txt", "")

	folders, err := f.tree.ListFolders(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, folders, 2)
	for _, folder := range folders {
		assert.Equal(t, alice.ID, folder.UserID)
	}

	files, err := f.tree.ListFiles(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "b.txt", files[0].FileName)
}

func TestGetFile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, root := f.newUserWithRoot(t, "alice")
	bob, _ := f.newUserWithRoot(t, "bob")
	file := f.touch(t, alice.ID, root.ID, "secret.txt", "content")

	got, err := f.tree.GetFile(ctx, alice.ID, file.ID)
	require.NoError(t, err)
	assert.Equal(t, "content", got.Content)

	_, err = f.tree.GetFile(ctx, bob.ID, file.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.tree.GetFile(ctx, alice.ID, "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}
