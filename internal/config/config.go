package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Store drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

type Config struct {
	Port        string
	Environment string
	CORSOrigins string
	// Storage
	StoreDriver string
	DatabaseURL string
	SQLitePath  string
	TablePrefix string
	// Authentication
	JWTSecret string
	JWTExpiry time.Duration
	JWKSURL   string // When set, RS256/ES256 bearer tokens are also accepted from this JWKS
	// Google sign-in (optional)
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	// Logging
	LogDir      string // Empty disables the log file
	LogMaxFiles int
	SentryDSN   string
	// Debug flags
	Debug bool
}

// FileOverride is the optional YAML config file. Pointer fields distinguish unset from zero values.
// Environment variables take precedence over the file.
type FileOverride struct {
	Port              *string `yaml:"port,omitempty"`
	Environment       *string `yaml:"environment,omitempty"`
	CORSOrigins       *string `yaml:"cors_origins,omitempty"`
	StoreDriver       *string `yaml:"store_driver,omitempty"`
	DatabaseURL       *string `yaml:"database_url,omitempty"`
	SQLitePath        *string `yaml:"sqlite_path,omitempty"`
	TablePrefix       *string `yaml:"table_prefix,omitempty"`
	JWTExpiry         *string `yaml:"jwt_expiry,omitempty"`
	JWKSURL           *string `yaml:"jwks_url,omitempty"`
	GoogleClientID    *string `yaml:"google_client_id,omitempty"`
	GoogleRedirectURL *string `yaml:"google_redirect_url,omitempty"`
	LogDir            *string `yaml:"log_dir,omitempty"`
	LogMaxFiles       *int    `yaml:"log_max_files,omitempty"`
	Debug             *bool   `yaml:"debug,omitempty"`
}

var tablePrefixPattern = regexp.MustCompile(`^[a-z0-9_]*$`)

// Load reads configuration from defaults, then CONFIG_FILE (YAML), then the environment.
// A .env file in the working directory is loaded into the environment first.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	cfg := &Config{
		Port:        "8080",
		Environment: "dev",
		CORSOrigins: "http://localhost:3000",
		StoreDriver: DriverPostgres,
		SQLitePath:  "./data/cabinet.db",
		JWTExpiry:   time.Hour,
		LogMaxFiles: 10,
	}

	var debugOverride *bool
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		override, err := readFileOverride(path)
		if err != nil {
			return nil, err
		}
		if err := override.apply(cfg); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
		debugOverride = override.Debug
	}

	cfg.Port = envString("PORT", cfg.Port)
	cfg.Environment = envString("ENVIRONMENT", cfg.Environment)
	cfg.CORSOrigins = envString("CORS_ORIGINS", cfg.CORSOrigins)
	cfg.StoreDriver = envString("STORE_DRIVER", cfg.StoreDriver)
	cfg.DatabaseURL = envString("DATABASE_URL", cfg.DatabaseURL)
	cfg.SQLitePath = envString("SQLITE_PATH", cfg.SQLitePath)
	cfg.TablePrefix = envString("TABLE_PREFIX", cfg.TablePrefix)
	cfg.JWTSecret = envString("JWT_SECRET", cfg.JWTSecret)
	cfg.JWTExpiry = envDuration("JWT_EXPIRY", cfg.JWTExpiry)
	cfg.JWKSURL = envString("JWKS_URL", cfg.JWKSURL)
	cfg.GoogleClientID = envString("GOOGLE_CLIENT_ID", cfg.GoogleClientID)
	cfg.GoogleClientSecret = envString("GOOGLE_CLIENT_SECRET", cfg.GoogleClientSecret)
	cfg.GoogleRedirectURL = envString("GOOGLE_REDIRECT_URL", cfg.GoogleRedirectURL)
	cfg.LogDir = envString("LOG_DIR", cfg.LogDir)
	cfg.LogMaxFiles = envInt("LOG_MAX_FILES", cfg.LogMaxFiles)
	cfg.SentryDSN = envString("SENTRY_DSN", cfg.SentryDSN)

	if cfg.TablePrefix == "" {
		cfg.TablePrefix = getTablePrefix(cfg.Environment)
	}
	// Debug defaults to true in dev/test, false in production
	debugDefault := cfg.Environment != "prod"
	if debugOverride != nil {
		debugDefault = *debugOverride
	}
	cfg.Debug = envBool("DEBUG", debugDefault)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that would otherwise fail later at startup
func (c *Config) Validate() error {
	var errs []error

	switch c.StoreDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres store"))
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("SQLITE_PATH is required for the sqlite store"))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q (want postgres, sqlite or memory)", c.StoreDriver))
	}

	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.JWTExpiry <= 0 {
		errs = append(errs, fmt.Errorf("JWT_EXPIRY must be positive, got %s", c.JWTExpiry))
	}
	// The prefix is interpolated into SQL
	if !tablePrefixPattern.MatchString(c.TablePrefix) {
		errs = append(errs, fmt.Errorf("TABLE_PREFIX %q may only contain lowercase letters, digits and underscores", c.TablePrefix))
	}
	if c.LogMaxFiles < 1 {
		errs = append(errs, fmt.Errorf("LOG_MAX_FILES must be at least 1, got %d", c.LogMaxFiles))
	}

	return errors.Join(errs...)
}

// CORSOriginList splits CORSOrigins on commas
func (c *Config) CORSOriginList() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "dev"
}

func readFileOverride(path string) (*FileOverride, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	var override FileOverride
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return &override, nil
}

func (o *FileOverride) apply(cfg *Config) error {
	setString(&cfg.Port, o.Port)
	setString(&cfg.Environment, o.Environment)
	setString(&cfg.CORSOrigins, o.CORSOrigins)
	setString(&cfg.StoreDriver, o.StoreDriver)
	setString(&cfg.DatabaseURL, o.DatabaseURL)
	setString(&cfg.SQLitePath, o.SQLitePath)
	setString(&cfg.TablePrefix, o.TablePrefix)
	setString(&cfg.JWKSURL, o.JWKSURL)
	setString(&cfg.GoogleClientID, o.GoogleClientID)
	setString(&cfg.GoogleRedirectURL, o.GoogleRedirectURL)
	setString(&cfg.LogDir, o.LogDir)
	if o.LogMaxFiles != nil {
		cfg.LogMaxFiles = *o.LogMaxFiles
	}
	if o.JWTExpiry != nil {
		d, err := time.ParseDuration(*o.JWTExpiry)
		if err != nil {
			return fmt.Errorf("jwt_expiry: %w", err)
		}
		cfg.JWTExpiry = d
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func envString(key, def string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return def
}

func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}
