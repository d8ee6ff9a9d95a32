package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"cabinet/internal/auth"
	"cabinet/internal/config"
	"cabinet/internal/domain"
	"cabinet/internal/domain/models/filetree"
	"cabinet/internal/domain/repositories"
	ftrepo "cabinet/internal/domain/repositories/filetree"
	"cabinet/internal/domain/services"
)

var errInvalidCredentials = &domain.UnauthorizedError{Message: "Invalid credentials"}

type accountService struct {
	userRepo   ftrepo.UserRepository
	folderRepo ftrepo.FolderRepository
	txManager  repositories.TransactionManager
	hasher     *auth.PasswordHasher
	issuer     auth.TokenIssuer
	google     auth.IdentityProvider // nil when Google sign-in is not configured
	logger     *slog.Logger
}

// NewAccountService creates the account service
func NewAccountService(
	userRepo ftrepo.UserRepository,
	folderRepo ftrepo.FolderRepository,
	txManager repositories.TransactionManager,
	hasher *auth.PasswordHasher,
	issuer auth.TokenIssuer,
	google auth.IdentityProvider,
	logger *slog.Logger,
) services.AccountService {
	return &accountService{
		userRepo:   userRepo,
		folderRepo: folderRepo,
		txManager:  txManager,
		hasher:     hasher,
		issuer:     issuer,
		google:     google,
		logger:     logger,
	}
}

// SignUp creates the account and its root folder in one transaction
func (s *accountService) SignUp(ctx context.Context, req *services.SignUpRequest) (*filetree.User, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)

	err := validation.ValidateStruct(req,
		validation.Field(&req.Name, validation.Required, validation.RuneLength(1, config.MaxUserNameLength)),
		validation.Field(&req.Email, validation.Required, is.EmailFormat),
		validation.Field(&req.Password, validation.Required, validation.RuneLength(config.MinPasswordLength, 0)),
	)
	if err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &filetree.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: &hash,
	}
	if err := s.createWithRoot(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user signed up", "id", user.ID, "email", user.Email)
	return user, nil
}

func (s *accountService) createWithRoot(ctx context.Context, user *filetree.User) error {
	return s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if err := s.userRepo.Create(ctx, user); err != nil {
			return err
		}
		root := &filetree.Folder{
			UserID: user.ID,
			Name:   filetree.RootFolderName(user.Name),
		}
		if err := s.folderRepo.Create(ctx, root); err != nil {
			return fmt.Errorf("create root folder: %w", err)
		}
		return nil
	})
}

// SignIn never tells apart an unknown email from a wrong password
func (s *accountService) SignIn(ctx context.Context, req *services.SignInRequest) (string, error) {
	err := validation.ValidateStruct(req,
		validation.Field(&req.Email, validation.Required),
		validation.Field(&req.Password, validation.Required),
	)
	if err != nil {
		return "", &domain.ValidationError{Message: err.Error()}
	}

	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", errInvalidCredentials
		}
		return "", fmt.Errorf("get user for sign-in: %w", err)
	}

	if !user.HasPassword() {
		return "", errInvalidCredentials
	}
	ok, err := s.hasher.Verify(req.Password, *user.PasswordHash)
	if err != nil {
		s.logger.Error("stored password hash unreadable", "user_id", user.ID, "error", err)
		return "", errInvalidCredentials
	}
	if !ok {
		return "", errInvalidCredentials
	}

	token, err := s.issuer.IssueToken(user.ID, user.Email)
	if err != nil {
		return "", err
	}

	s.logger.Info("user signed in", "id", user.ID)
	return token, nil
}

// SignInWithGoogle matches Google accounts to users by email
func (s *accountService) SignInWithGoogle(ctx context.Context, code string) (*services.GoogleSignInResult, error) {
	if s.google == nil {
		return nil, &domain.ValidationError{Message: "Google sign-in is not configured"}
	}
	if strings.TrimSpace(code) == "" {
		return nil, &domain.ValidationError{Message: "code: cannot be blank."}
	}

	profile, err := s.google.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}

	result := &services.GoogleSignInResult{}
	user, err := s.userRepo.GetByEmail(ctx, profile.Email)
	switch {
	case err == nil:
		result.User = user
	case errors.Is(err, domain.ErrNotFound):
		name := profile.Name
		if name == "" {
			name, _, _ = strings.Cut(profile.Email, "@")
		}
		user = &filetree.User{Name: name, Email: profile.Email}
		if err := s.createWithRoot(ctx, user); err != nil {
			return nil, err
		}
		result.User = user
		result.Created = true
		s.logger.Info("user signed up with google", "id", user.ID, "email", user.Email)
	default:
		return nil, fmt.Errorf("get user for google sign-in: %w", err)
	}

	result.Token, err = s.issuer.IssueToken(result.User.ID, result.User.Email)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *accountService) Me(ctx context.Context, userID string) (*filetree.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &domain.NotFoundError{Message: "User not found"}
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}
