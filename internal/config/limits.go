package config

const (
	// MaxFolderNameLength is the maximum length for folder names.
	MaxFolderNameLength = 255

	// MaxFileNameLength is the maximum length for file names.
	MaxFileNameLength = 255

	// MaxUserNameLength bounds display names; the root folder name is derived from it.
	MaxUserNameLength = 100

	// MinPasswordLength is the shortest accepted password at sign-up.
	MinPasswordLength = 8

	// MaxSearchQueryLength is the maximum length of a search query.
	MaxSearchQueryLength = 255

	// MaxTreeDepth bounds every upward walk. A parent chain longer than this
	// is treated as corrupted data (most likely a cycle).
	MaxTreeDepth = 1000
)
