package filetree

import (
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"cabinet/internal/config"
	"cabinet/internal/domain"
	ftsvc "cabinet/internal/domain/services/filetree"
)

var noSlashes = regexp.MustCompile(`^[^/]+$`)

// validationError turns an ozzo validation failure into a domain error
func validationError(err error) error {
	return &domain.ValidationError{Message: err.Error()}
}

func validateCreateFolder(req *ftsvc.CreateFolderRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.Required,
			validation.RuneLength(1, config.MaxFolderNameLength),
			validation.Match(noSlashes).Error("folder name cannot contain slashes"),
		),
		validation.Field(&req.ParentFolderID, is.UUID),
	)
}

func validateCreateFile(req *ftsvc.CreateFileRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.FileName,
			validation.Required,
			validation.RuneLength(1, config.MaxFileNameLength),
			validation.Match(noSlashes).Error("file name cannot contain slashes"),
		),
		validation.Field(&req.ParentFolderID, validation.Required, is.UUID),
	)
}

// validateID rejects ids that cannot name any stored row
func validateID(name, id string) error {
	return validation.Errors{
		name: validation.Validate(id, validation.Required, is.UUID),
	}.Filter()
}

func validateQuery(query string) error {
	return validation.Errors{
		"q": validation.Validate(strings.TrimSpace(query),
			validation.Required,
			validation.RuneLength(1, config.MaxSearchQueryLength),
		),
	}.Filter()
}
