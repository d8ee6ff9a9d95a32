package server

import (
	"context"
	"fmt"
	"log/slog"

	"cabinet/internal/auth"
	"cabinet/internal/config"
	ftrepo "cabinet/internal/domain/repositories/filetree"
	"cabinet/internal/repository/memory"
	"cabinet/internal/repository/postgres"
	"cabinet/internal/repository/sqlite"
)

// OpenStore opens the store selected by cfg.StoreDriver and brings its schema up to date.
func OpenStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*ftrepo.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		return openPostgres(ctx, cfg, logger)
	case config.DriverSQLite:
		return sqlite.NewStore(ctx, cfg.SQLitePath, cfg.TablePrefix, logger)
	case config.DriverMemory:
		logger.Warn("using in-memory store; data is lost on restart")
		return memory.NewStore(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func openPostgres(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*ftrepo.Store, error) {
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	tables := postgres.NewTableNames(cfg.TablePrefix)
	migrator, db, err := postgres.NewMigrator(pool, tables)
	if err != nil {
		pool.Close()
		return nil, err
	}
	defer db.Close()

	results, err := migrator.Up(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate postgres: %w", err)
	}
	for _, res := range results {
		logger.Info("migration applied", "version", res.Source.Version, "duration", res.Duration)
	}

	logger.Info("database connected",
		"driver", cfg.StoreDriver,
		"max_conns", pool.Config().MaxConns,
		"table_prefix", cfg.TablePrefix,
	)

	return postgres.NewStore(&postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}), nil
}

// NewAuthenticator returns the token issuer and the verifier used by the auth middleware.
// Tokens are always issued with the shared secret. A configured JWKS URL additionally
// accepts tokens signed by the external identity provider.
func NewAuthenticator(ctx context.Context, cfg *config.Config, logger *slog.Logger) (auth.TokenIssuer, auth.TokenVerifier, error) {
	issuer, err := auth.NewHMACTokenService(cfg.JWTSecret, cfg.JWTExpiry, logger)
	if err != nil {
		return nil, nil, err
	}
	if cfg.JWKSURL == "" {
		return issuer, issuer, nil
	}

	verifier, err := auth.NewJWKSVerifier(ctx, cfg.JWKSURL, logger)
	if err != nil {
		return nil, nil, err
	}
	return issuer, auth.NewRoutingVerifier(issuer, verifier), nil
}

// NewIdentityProvider returns the Google provider, or nil when it is not configured.
func NewIdentityProvider(cfg *config.Config) auth.IdentityProvider {
	google := auth.GoogleConfig{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
	}
	if !google.Enabled() {
		return nil
	}
	return auth.NewGoogleOAuth(google)
}
