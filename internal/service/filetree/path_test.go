package filetree

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cabinet/internal/config"
	"cabinet/internal/domain"
	"cabinet/internal/domain/models/filetree"
	ftrepo "cabinet/internal/domain/repositories/filetree"
)

type stubFileRepo struct {
	ftrepo.FileRepository
	files map[string]filetree.File
}

func (r *stubFileRepo) GetByID(ctx context.Context, id string) (*filetree.File, error) {
	f, ok := r.files[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: "File not found"}
	}
	return &f, nil
}

func TestBuildFilePath(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user, root := f.newUserWithRoot(t, "r")
	docs := f.mkdir(t, user.ID, root.ID, "docs")
	notes := f.mkdir(t, user.ID, docs.ID, "notes")
	todo := f.touch(t, user.ID, notes.ID, "todo.txt", "")

	path, err := f.paths.BuildFilePath(ctx, todo.ID, docs.ID)
	require.NoError(t, err)
	assert.Equal(t, "docs/notes/todo.txt", path)

	path, err = f.paths.BuildFilePath(ctx, todo.ID, notes.ID)
	require.NoError(t, err)
	assert.Equal(t, "notes/todo.txt", path)

	path, err = f.paths.BuildFilePath(ctx, todo.ID, root.ID)
	require.NoError(t, err)
	assert.Equal(t, "r@root/docs/notes/todo.txt", path)

	_, err = f.paths.BuildFilePath(ctx, "b3c1e5a0-0000-4000-8000-000000000000", docs.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBuildFolderPath(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user, root := f.newUserWithRoot(t, "r")
	docs := f.mkdir(t, user.ID, root.ID, "docs")
	notes := f.mkdir(t, user.ID, docs.ID, "notes")

	path, err := f.paths.BuildFolderPath(ctx, notes.ID, docs.ID)
	require.NoError(t, err)
	assert.Equal(t, "docs/notes", path)

	// The reference folder on its own renders as just its name
	path, err = f.paths.BuildFolderPath(ctx, docs.ID, docs.ID)
	require.NoError(t, err)
	assert.Equal(t, "docs", path)
}

// A broken parent chain yields a shortened path instead of an error.
func TestBuildPath_TruncatesOnBrokenChain(t *testing.T) {
	folders := &stubFolderRepo{folders: map[string]filetree.Folder{
		"ref": {ID: "ref", Name: "docs"},
		"B":   {ID: "B", Name: "notes", ParentFolderID: ptr("deleted")},
	}}
	files := &stubFileRepo{files: map[string]filetree.File{
		"F": {ID: "F", FileName: "todo.txt", ParentFolderID: "B"},
	}}
	builder := NewPathBuilder(folders, files, config.MaxTreeDepth)

	path, err := builder.BuildFilePath(context.Background(), "F", "ref")
	require.NoError(t, err)
	assert.Equal(t, "docs/notes/todo.txt", path)

	// Without a readable reference folder, only the walked names remain
	path, err = builder.BuildFilePath(context.Background(), "F", "gone")
	require.NoError(t, err)
	assert.Equal(t, "notes/todo.txt", path)
}

// Walking past the root without meeting the reference keeps every name walked.
func TestBuildPath_ReferenceNotOnChain(t *testing.T) {
	folders := chain()
	folders.folders["other"] = filetree.Folder{ID: "other", Name: "elsewhere", ParentFolderID: ptr("root")}
	builder := NewPathBuilder(folders, &stubFileRepo{}, config.MaxTreeDepth)

	path, err := builder.BuildFolderPath(context.Background(), "B", "other")
	require.NoError(t, err)
	assert.Equal(t, "elsewhere/u@root/docs/notes", path)
}

func TestBuildPath_CycleIsInconsistent(t *testing.T) {
	folders := &stubFolderRepo{folders: map[string]filetree.Folder{
		"X": {ID: "X", Name: "x", ParentFolderID: ptr("Y")},
		"Y": {ID: "Y", Name: "y", ParentFolderID: ptr("X")},
	}}
	builder := NewPathBuilder(folders, &stubFileRepo{}, config.MaxTreeDepth)

	_, err := builder.BuildFolderPath(context.Background(), "X", "ref")
	assert.ErrorIs(t, err, domain.ErrInconsistent)
}
