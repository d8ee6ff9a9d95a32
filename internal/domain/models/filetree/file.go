package filetree

import "time"

// File always lives inside a folder; there are no root-level files.
type File struct {
	ID             string    `json:"id" db:"id"`
	UserID         string    `json:"userId" db:"user_id"`
	ParentFolderID string    `json:"parentFolderId" db:"parent_folder_id"`
	FileName       string    `json:"fileName" db:"file_name"`
	Content        string    `json:"content" db:"content"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
}
