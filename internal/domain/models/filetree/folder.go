package filetree

import (
	"strings"
	"time"
)

// RootSuffix is appended to the lowercased owner name to build a root folder name.
const RootSuffix = "@root"

type Folder struct {
	ID             string    `json:"id" db:"id"`
	UserID         string    `json:"userId" db:"user_id"`
	ParentFolderID *string   `json:"parentFolderId" db:"parent_folder_id"` // NULL = root folder
	Name           string    `json:"name" db:"name"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
}

// IsRoot reports whether the folder is its owner's root folder.
func (f *Folder) IsRoot() bool {
	return f.ParentFolderID == nil
}

// RootFolderName returns the name given to a user's root folder.
func RootFolderName(userName string) string {
	return strings.ToLower(userName) + RootSuffix
}

// FolderWithChildren is a folder with its direct children.
// Child folders are shallow: their own children are not expanded.
type FolderWithChildren struct {
	Folder
	Files      []File   `json:"files"`
	SubFolders []Folder `json:"subFolders"`
}

// RootFolderResult is returned by root folder lookups.
// Existed is false when the folder was created by the call (or is absent for read-only lookups).
type RootFolderResult struct {
	Folder  *Folder
	Existed bool
}
