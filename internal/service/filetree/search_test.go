package filetree

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cabinet/internal/domain"
	ftsvc "cabinet/internal/domain/services/filetree"
)

func TestSearch_ReportUnderWork(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user, root := f.newUserWithRoot(t, "U")

	work := f.mkdir(t, user.ID, root.ID, "Work")
	y2024 := f.mkdir(t, user.ID, work.ID, "2024")
	report := f.touch(t, user.ID, y2024.ID, "report.txt", "numbers")

	results, err := f.search.Search(ctx, user.ID, root.ID, "report")
	require.NoError(t, err)
	assert.Empty(t, results.FolderResults)
	require.Len(t, results.FileResults, 1)

	hit := results.FileResults[0]
	assert.Equal(t, report.ID, hit.ID)
	// Paths start at the scope folder, here the root named after the user
	assert.Equal(t, "u@root/Work/2024/report.txt", hit.Path)
	assert.True(t, strings.HasSuffix(hit.Path, "Work/2024/report.txt"))

	_, err = f.tree.CreateFolder(ctx, user.ID, &ftsvc.CreateFolderRequest{Name: "Work", ParentFolderID: &root.ID})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 409, domain.KindOf(err).StatusCode())
}

func TestSearch_StaysInsideScope(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user, root := f.newUserWithRoot(t, "alice")

	finance := f.mkdir(t, user.ID, root.ID, "Finance")
	inside := f.mkdir(t, user.ID, finance.ID, "receipts")
	archive := f.mkdir(t, user.ID, root.ID, "Archive")
	f.mkdir(t, user.ID, archive.ID, "receipts")
	f.touch(t, user.ID, archive.ID, "receipts-2019.pdf", "")

	results, err := f.search.Search(ctx, user.ID, finance.ID, "receipts")
	require.NoError(t, err)
	require.Len(t, results.FolderResults, 1)
	assert.Equal(t, inside.ID, results.FolderResults[0].ID)
	assert.Equal(t, "Finance/receipts", results.FolderResults[0].Path)
	assert.Empty(t, results.FileResults)

	// Widening the scope picks up both
	results, err = f.search.Search(ctx, user.ID, root.ID, "receipts")
	require.NoError(t, err)
	assert.Len(t, results.FolderResults, 2)
	assert.Len(t, results.FileResults, 1)
}

func TestSearch_CaseInsensitiveSubstring(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user, root := f.newUserWithRoot(t, "alice")
	f.touch(t, user.ID, root.ID, "Quarterly-REPORT.md", "")
	f.mkdir(t, user.ID, root.ID, "Reports")

	results, err := f.search.Search(ctx, user.ID, root.ID, "RePoRt")
	require.NoError(t, err)
	assert.Len(t, results.FileResults, 1)
	assert.Len(t, results.FolderResults, 1)
}

func TestSearch_IgnoresSurroundingWhitespace(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user, root := f.newUserWithRoot(t, "alice")
	f.touch(t, user.ID, root.ID, "report.txt", "")

	results, err := f.search.Search(ctx, user.ID, root.ID, "  report\t")
	require.NoError(t, err)
	require.Len(t, results.FileResults, 1)
	assert.Equal(t, "report.txt", results.FileResults[0].FileName)

	_, err = f.search.Search(ctx, user.ID, root.ID, " zzz ")
	assert.Equal(t, "No results for zzz", err.Error())
}

func TestSearch_ScopeFolderItselfIsNotAResult(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user, root := f.newUserWithRoot(t, "alice")
	work := f.mkdir(t, user.ID, root.ID, "Work")

	_, err := f.search.Search(ctx, user.ID, work.ID, "work")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, "No results for work", err.Error())
}

func TestSearch_NoResults(t *testing.T) {
	f := newFixture(t)
	user, root := f.newUserWithRoot(t, "alice")
	f.touch(t, user.ID, root.ID, "a.txt", "")

	_, err := f.search.Search(context.Background(), user.ID, root.ID, "zzz")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSearch_OtherUsersDataIsInvisible(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, aliceRoot := f.newUserWithRoot(t, "alice")
	bob, bobRoot := f.newUserWithRoot(t, "bob")
	f.touch(t, bob.ID, bobRoot.ID, "plan.txt", "")

	_, err := f.search.Search(ctx, alice.ID, aliceRoot.ID, "plan")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Bob's folder as scope looks missing to alice
	_, err = f.search.Search(ctx, alice.ID, bobRoot.ID, "plan")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, "Folder not found", err.Error())
}

func TestSearch_Validation(t *testing.T) {
	f := newFixture(t)
	user, root := f.newUserWithRoot(t, "alice")

	tests := []struct {
		name  string
		scope string
		query string
	}{
		{"empty query", root.ID, ""},
		{"blank query", root.ID, "   "},
		{"query too long", root.ID, strings.Repeat("q", 256)},
		{"malformed scope", "root", "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.search.Search(context.Background(), user.ID, tt.scope, tt.query)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}
