package filetree

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

// stubFolderRepo serves GetByID from a fixed map; other methods are not used by the walkers.
type stubFolderRepo struct {
	ftrepo.FolderRepository
	folders map[string]filetree.Folder
	failOn  string
	lookups int
}

func (r *stubFolderRepo) GetByID(ctx context.Context, id string) (*filetree.Folder, error) {
	r.lookups++
	if id == r.failOn {
		return nil, errors.New("connection reset")
	}
	f, ok := r.folders[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: "Folder not found"}
	}
	return &f, nil
}

func ptr(s string) *string { return &s }

// chain builds root→A→B→C with ids equal to the names
func chain() *stubFolderRepo {
	return &stubFolderRepo{folders: map[string]filetree.Folder{
		"root": {ID: "root", Name: "u@root"},
		"A":    {ID: "A", Name: "docs", ParentFolderID: ptr("root")},
		"B":    {ID: "B", Name: "notes", ParentFolderID: ptr("A")},
		"C":    {ID: "C", Name: "drafts", ParentFolderID: ptr("B")},
	}}
}

func TestIsAncestor(t *testing.T) {
	tests := []struct {
		name      string
		reference string
		candidate *string
		want      bool
	}{
		{"direct parent", "A", ptr("A"), true},
		{"chain passes through reference", "A", ptr("B"), true},
		{"root is everyone's ancestor", "root", ptr("C"), true},
		{"descendant is not an ancestor", "C", ptr("root"), false},
		{"sibling branch", "B", ptr("A"), false},
		{"nil candidate", "A", nil, false},
		{"missing candidate", "A", ptr("ghost"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := NewAncestryResolver(chain(), 100)
			got, err := resolver.IsAncestor(context.Background(), tt.reference, tt.candidate)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsAncestor_StopsWithoutLookupWhenCandidateIsReference(t *testing.T) {
	repo := chain()
	resolver := NewAncestryResolver(repo, 100)

	ok, err := resolver.IsAncestor(context.Background(), "B", ptr("B"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Zero(t, repo.lookups)
}

func TestIsAncestor_CycleIsInconsistent(t *testing.T) {
	repo := &stubFolderRepo{folders: map[string]filetree.Folder{
		"X": {ID: "X", Name: "x", ParentFolderID: ptr("Y")},
		"Y": {ID: "Y", Name: "y", ParentFolderID: ptr("X")},
	}}
	resolver := NewAncestryResolver(repo, 100)

	_, err := resolver.IsAncestor(context.Background(), "Z", ptr("X"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInconsistent)
	assert.Equal(t, domain.KindStoreFailure, domain.KindOf(err))
}

func TestIsAncestor_DepthGuard(t *testing.T) {
	repo := chain()
	resolver := NewAncestryResolver(repo, 2)

	_, err := resolver.IsAncestor(context.Background(), "nowhere", ptr("C"))
	assert.ErrorIs(t, err, domain.ErrInconsistent)
}

func TestIsAncestor_StoreFailurePropagates(t *testing.T) {
	repo := chain()
	repo.failOn = "A"
	resolver := NewAncestryResolver(repo, 100)

	_, err := resolver.IsAncestor(context.Background(), "root", ptr("C"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.Equal(t, domain.KindStoreFailure, domain.KindOf(err))
}
