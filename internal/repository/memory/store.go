package memory

import (
	"context"
	"maps"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"cabinet/internal/domain"
	"cabinet/internal/domain/models/filetree"
	"cabinet/internal/domain/repositories"
	ftrepo "cabinet/internal/domain/repositories/filetree"
)

// state is the shared in-memory backing for all repositories of one store.
// Uniqueness rules mirror the SQL schema and are checked under the same lock as the insert.
type state struct {
	mu sync.RWMutex

	users   map[string]filetree.User
	folders map[string]filetree.Folder
	files   map[string]filetree.File

	// insertion order, so listings are stable
	userOrder   []string
	folderOrder []string
	fileOrder   []string

	now func() time.Time
}

func newState() *state {
	return &state{
		users:   make(map[string]filetree.User),
		folders: make(map[string]filetree.Folder),
		files:   make(map[string]filetree.File),
		now:     time.Now,
	}
}

// NewStore creates an empty in-memory store. It is safe for concurrent use
// and is intended for tests and single-process demos.
func NewStore() *ftrepo.Store {
	s := newState()
	return &ftrepo.Store{
		Users:   &UserRepository{s: s},
		Folders: &FolderRepository{s: s},
		Files:   &FileRepository{s: s},
		Tx:      &TransactionManager{s: s},
	}
}

type snapshot struct {
	users       map[string]filetree.User
	folders     map[string]filetree.Folder
	files       map[string]filetree.File
	userOrder   []string
	folderOrder []string
	fileOrder   []string
}

func (s *state) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot{
		users:       maps.Clone(s.users),
		folders:     maps.Clone(s.folders),
		files:       maps.Clone(s.files),
		userOrder:   append([]string(nil), s.userOrder...),
		folderOrder: append([]string(nil), s.folderOrder...),
		fileOrder:   append([]string(nil), s.fileOrder...),
	}
}

func (s *state) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users, s.folders, s.files = snap.users, snap.folders, snap.files
	s.userOrder, s.folderOrder, s.fileOrder = snap.userOrder, snap.folderOrder, snap.fileOrder
}

// TransactionManager gives ExecTx all-or-nothing semantics by restoring a snapshot on error.
// Writes from other goroutines made while fn runs are lost on rollback.
type TransactionManager struct {
	s *state
}

func (tm *TransactionManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	snap := tm.s.snapshot()
	if err := fn(ctx); err != nil {
		tm.s.restore(snap)
		return err
	}
	return nil
}

type UserRepository struct {
	s *state
}

func (r *UserRepository) Create(ctx context.Context, user *filetree.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return &domain.ConflictError{
				Message:      "Email already exists",
				ResourceType: "user",
				ResourceID:   u.ID,
			}
		}
	}

	user.ID = uuid.NewString()
	user.CreatedAt = r.s.now()
	r.s.users[user.ID] = *user
	r.s.userOrder = append(r.s.userOrder, user.ID)
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*filetree.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: "user not found"}
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*filetree.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, id := range r.s.userOrder {
		if u := r.s.users[id]; strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, &domain.NotFoundError{Message: "user not found"}
}

type FolderRepository struct {
	s *state
}

func (r *FolderRepository) Create(ctx context.Context, folder *filetree.Folder) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, f := range r.s.folders {
		if folder.ParentFolderID == nil {
			if f.ParentFolderID == nil && f.UserID == folder.UserID {
				return &domain.ConflictError{
					Message:      "root folder already exists",
					ResourceType: "root_folder",
					ResourceID:   f.ID,
				}
			}
			continue
		}
		if f.ParentFolderID != nil && *f.ParentFolderID == *folder.ParentFolderID && f.Name == folder.Name {
			return &domain.ConflictError{
				Message:      "Parent folder has already a folder with this name.",
				ResourceType: "folder",
				ResourceID:   f.ID,
			}
		}
	}

	folder.ID = uuid.NewString()
	folder.CreatedAt = r.s.now()
	r.s.folders[folder.ID] = *folder
	r.s.folderOrder = append(r.s.folderOrder, folder.ID)
	return nil
}

func (r *FolderRepository) GetByID(ctx context.Context, id string) (*filetree.Folder, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	f, ok := r.s.folders[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: "Folder not found"}
	}
	return &f, nil
}

func (r *FolderRepository) GetByParentAndName(ctx context.Context, userID, parentID, name string) (*filetree.Folder, error) {
	return r.first(ctx, func(f *filetree.Folder) bool {
		return f.UserID == userID && f.ParentFolderID != nil && *f.ParentFolderID == parentID && f.Name == name
	})
}

func (r *FolderRepository) GetRoot(ctx context.Context, userID string) (*filetree.Folder, error) {
	return r.first(ctx, func(f *filetree.Folder) bool {
		return f.UserID == userID && f.ParentFolderID == nil
	})
}

func (r *FolderRepository) ListChildren(ctx context.Context, userID, folderID string) ([]filetree.Folder, error) {
	return r.filter(ctx, func(f *filetree.Folder) bool {
		return f.UserID == userID && f.ParentFolderID != nil && *f.ParentFolderID == folderID
	})
}

func (r *FolderRepository) ListByUser(ctx context.Context, userID string) ([]filetree.Folder, error) {
	return r.filter(ctx, func(f *filetree.Folder) bool { return f.UserID == userID })
}

func (r *FolderRepository) first(ctx context.Context, match func(*filetree.Folder) bool) (*filetree.Folder, error) {
	found, err := r.filter(ctx, match)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, &domain.NotFoundError{Message: "Folder not found"}
	}
	return &found[0], nil
}

func (r *FolderRepository) filter(ctx context.Context, match func(*filetree.Folder) bool) ([]filetree.Folder, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []filetree.Folder{}
	for _, id := range r.s.folderOrder {
		if f := r.s.folders[id]; match(&f) {
			out = append(out, f)
		}
	}
	return out, nil
}

type FileRepository struct {
	s *state
}

func (r *FileRepository) Create(ctx context.Context, file *filetree.File) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, f := range r.s.files {
		if f.ParentFolderID == file.ParentFolderID && f.FileName == file.FileName {
			return &domain.ConflictError{
				Message:      "Parent folder has already a file with this name.",
				ResourceType: "file",
				ResourceID:   f.ID,
			}
		}
	}

	file.ID = uuid.NewString()
	file.CreatedAt = r.s.now()
	r.s.files[file.ID] = *file
	r.s.fileOrder = append(r.s.fileOrder, file.ID)
	return nil
}

func (r *FileRepository) GetByID(ctx context.Context, id string) (*filetree.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	f, ok := r.s.files[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: "File not found"}
	}
	return &f, nil
}

func (r *FileRepository) GetByParentAndName(ctx context.Context, userID, parentID, fileName string) (*filetree.File, error) {
	found, err := r.filter(ctx, func(f *filetree.File) bool {
		return f.UserID == userID && f.ParentFolderID == parentID && f.FileName == fileName
	})
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, &domain.NotFoundError{Message: "File not found"}
	}
	return &found[0], nil
}

func (r *FileRepository) ListByFolder(ctx context.Context, userID, folderID string) ([]filetree.File, error) {
	return r.filter(ctx, func(f *filetree.File) bool {
		return f.UserID == userID && f.ParentFolderID == folderID
	})
}

func (r *FileRepository) ListByUser(ctx context.Context, userID string) ([]filetree.File, error) {
	return r.filter(ctx, func(f *filetree.File) bool { return f.UserID == userID })
}

func (r *FileRepository) filter(ctx context.Context, match func(*filetree.File) bool) ([]filetree.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []filetree.File{}
	for _, id := range r.s.fileOrder {
		if f := r.s.files[id]; match(&f) {
			out = append(out, f)
		}
	}
	return out, nil
}
