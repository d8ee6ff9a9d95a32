package filetree

// FolderHit is a folder search result qualified with its path below the scope folder.
type FolderHit struct {
	Folder
	Path string `json:"path"`
}

// FileHit is a file search result qualified with its path below the scope folder.
type FileHit struct {
	File
	Path string `json:"path"`
}

// SearchResults holds the matches of one scoped search
type SearchResults struct {
	FolderResults []FolderHit `json:"folderResults"`
	FileResults   []FileHit   `json:"fileResults"`
}

// IsEmpty reports whether neither folders nor files matched.
func (r *SearchResults) IsEmpty() bool {
	return len(r.FolderResults) == 0 && len(r.FileResults) == 0
}
