package server

import (
	"log/slog"
	"net/http"

	"github.com/rs/cors"

	"cabinet/internal/auth"
	"cabinet/internal/config"
	ftrepo "cabinet/internal/domain/repositories/filetree"
	"cabinet/internal/handler"
	"cabinet/internal/middleware"
	authsvc "cabinet/internal/service/auth"
	ftservice "cabinet/internal/service/filetree"
)

// publicPaths bypass bearer token checks. The trailing slash marks a prefix.
var publicPaths = []string{"/health", "/api/auth/"}

// Deps is everything the HTTP surface needs from the outside world.
type Deps struct {
	Store    *ftrepo.Store
	Verifier auth.TokenVerifier
	Issuer   auth.TokenIssuer
	Google   auth.IdentityProvider // optional
	Hasher   *auth.PasswordHasher
	Config   *config.Config
	Logger   *slog.Logger
}

// NewHandler wires services, handlers and middleware into one http.Handler.
func NewHandler(deps Deps) http.Handler {
	logger := deps.Logger
	store := deps.Store

	hasher := deps.Hasher
	if hasher == nil {
		hasher = auth.NewPasswordHasher(auth.DefaultArgon2Params)
	}

	authorizer := authsvc.NewOwnerBasedAuthorizer(store.Folders, store.Files)
	accounts := authsvc.NewAccountService(store.Users, store.Folders, store.Tx, hasher, deps.Issuer, deps.Google, logger)

	treeService := ftservice.NewTreeService(store.Users, store.Folders, store.Files, authorizer, logger)
	ancestry := ftservice.NewAncestryResolver(store.Folders, config.MaxTreeDepth)
	paths := ftservice.NewPathBuilder(store.Folders, store.Files, config.MaxTreeDepth)
	searchService := ftservice.NewSearchService(store.Folders, store.Files, ancestry, paths, authorizer, logger)

	userHandler := handler.NewUserHandler(accounts, logger)
	folderHandler := handler.NewFolderHandler(treeService, searchService, logger)
	fileHandler := handler.NewFileHandler(treeService, logger)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.HealthCheck)

	// Account routes
	mux.HandleFunc("POST /api/auth/sign-up", userHandler.SignUp)
	mux.HandleFunc("POST /api/auth/sign-in", userHandler.SignIn)
	mux.HandleFunc("POST /api/auth/google", userHandler.GoogleSignIn)
	mux.HandleFunc("GET /api/users/me", userHandler.Me)

	// Folder routes ("root" is matched before {id})
	mux.HandleFunc("POST /api/folders", folderHandler.CreateFolder)
	mux.HandleFunc("GET /api/folders", folderHandler.ListFolders)
	mux.HandleFunc("GET /api/folders/root", folderHandler.GetRootFolder)
	mux.HandleFunc("POST /api/folders/root", folderHandler.CreateRootFolder)
	mux.HandleFunc("GET /api/folders/{id}", folderHandler.GetFolder)
	mux.HandleFunc("GET /api/folders/{id}/search", folderHandler.Search)

	// File routes
	mux.HandleFunc("POST /api/files", fileHandler.CreateFile)
	mux.HandleFunc("GET /api/files", fileHandler.ListFiles)
	mux.HandleFunc("GET /api/files/{id}", fileHandler.GetFile)

	// Order: CORS → RequestLogging → Recovery → Auth → Routes
	var h http.Handler = mux
	h = middleware.AuthMiddleware(deps.Verifier, logger, publicPaths...)(h)
	h = middleware.Recovery(logger)(h)
	h = middleware.RequestLogging(logger)(h)

	// CORS must run before auth so OPTIONS pre-flight requests get through
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   deps.Config.CORSOriginList(),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	return corsHandler.Handler(h)
}
