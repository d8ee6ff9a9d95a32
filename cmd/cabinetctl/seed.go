package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"

	"github.com/spf13/cobra"

	"cabinet/internal/auth"
	"cabinet/internal/domain"
	"cabinet/internal/domain/models/filetree"
	ftrepo "cabinet/internal/domain/repositories/filetree"
	"cabinet/internal/domain/services"
	ftsvc "cabinet/internal/domain/services/filetree"
	"cabinet/internal/server"
	authsvc "cabinet/internal/service/auth"
	ftservice "cabinet/internal/service/filetree"
)

// seedFile is one file of the demo tree, addressed by its slash-separated path below the root
type seedFile struct {
	path    string
	content string
}

func getSeedFiles() []seedFile {
	return []seedFile{
		{path: "readme.txt", content: "Welcome to your cabinet."},
		{path: "Work/notes.md", content: "# Notes\n\n- quarterly planning\n- hiring"},
		{path: "Work/2024/report.txt", content: "Annual report draft."},
		{path: "Work/2024/budget.csv", content: "item,amount\nrent,1200\n"},
		{path: "Personal/recipes/pancakes.txt", content: "flour, milk, eggs"},
		{path: "Personal/travel/packing-list.txt", content: ""},
	}
}

func seedCmd() *cobra.Command {
	var (
		name     string
		email    string
		password string
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create a demo user with a small folder tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, cleanup, err := loadConfig()
			if err != nil {
				return err
			}
			defer cleanup()

			if err := refuseInProd(cfg, "seed"); err != nil {
				return err
			}

			ctx := cmd.Context()
			store, err := server.OpenStore(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			issuer, _, err := server.NewAuthenticator(ctx, cfg, logger)
			if err != nil {
				return err
			}

			user, err := ensureUser(ctx, store, issuer, logger, &services.SignUpRequest{
				Name:     name,
				Email:    email,
				Password: password,
			})
			if err != nil {
				return err
			}

			created, err := seedTree(ctx, store, logger, user.ID, getSeedFiles())
			if err != nil {
				return err
			}

			fmt.Printf("Seeded %s (%s): %d new items\n", user.Email, user.ID, created)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "Demo", "demo user name")
	cmd.Flags().StringVar(&email, "email", "demo@cabinet.local", "demo user email")
	cmd.Flags().StringVar(&password, "password", "cabinet-demo", "demo user password")
	return cmd
}

// ensureUser signs the demo user up, or returns the existing account with that email.
func ensureUser(ctx context.Context, store *ftrepo.Store, issuer auth.TokenIssuer, logger *slog.Logger, req *services.SignUpRequest) (*filetree.User, error) {
	accounts := authsvc.NewAccountService(store.Users, store.Folders, store.Tx,
		auth.NewPasswordHasher(auth.DefaultArgon2Params), issuer, nil, logger)

	user, err := accounts.SignUp(ctx, req)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrConflict) {
		return nil, fmt.Errorf("creating demo user: %w", err)
	}
	logger.Info("demo user already exists", "email", req.Email)
	return store.Users.GetByEmail(ctx, req.Email)
}

// seedTree creates the folders and files named by files below the user's root.
// Items that already exist are reused, so seeding twice is harmless.
func seedTree(ctx context.Context, store *ftrepo.Store, logger *slog.Logger, userID string, files []seedFile) (int, error) {
	authorizer := authsvc.NewOwnerBasedAuthorizer(store.Folders, store.Files)
	tree := ftservice.NewTreeService(store.Users, store.Folders, store.Files, authorizer, logger)

	root, err := tree.GetOrCreateRootFolder(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("loading root folder: %w", err)
	}

	created := 0
	folders := map[string]string{".": root.Folder.ID}

	var ensureFolder func(dir string) (string, error)
	ensureFolder = func(dir string) (string, error) {
		if id, ok := folders[dir]; ok {
			return id, nil
		}
		parentID, err := ensureFolder(path.Dir(dir))
		if err != nil {
			return "", err
		}
		name := path.Base(dir)
		folder, err := tree.CreateFolder(ctx, userID, &ftsvc.CreateFolderRequest{Name: name, ParentFolderID: &parentID})
		switch {
		case err == nil:
			created++
		case errors.Is(err, domain.ErrConflict):
			folder, err = store.Folders.GetByParentAndName(ctx, userID, parentID, name)
			if err != nil {
				return "", err
			}
		default:
			return "", fmt.Errorf("creating folder %s: %w", dir, err)
		}
		folders[dir] = folder.ID
		return folder.ID, nil
	}

	for _, f := range files {
		parentID, err := ensureFolder(path.Dir(f.path))
		if err != nil {
			return created, err
		}
		_, err = tree.CreateFile(ctx, userID, &ftsvc.CreateFileRequest{
			FileName:       path.Base(f.path),
			Content:        f.content,
			ParentFolderID: parentID,
		})
		switch {
		case err == nil:
			created++
			logger.Info("seeded file", "path", f.path)
		case errors.Is(err, domain.ErrConflict):
			logger.Debug("file already seeded", "path", f.path)
		default:
			return created, fmt.Errorf("creating file %s: %w", f.path, err)
		}
	}
	return created, nil
}
