package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"CONFIG_FILE", "PORT", "ENVIRONMENT", "CORS_ORIGINS", "STORE_DRIVER", "DATABASE_URL",
	"SQLITE_PATH", "TABLE_PREFIX", "JWT_SECRET", "JWT_EXPIRY", "JWKS_URL",
	"GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_SECRET", "GOOGLE_REDIRECT_URL",
	"LOG_DIR", "LOG_MAX_FILES", "SENTRY_DSN", "DEBUG",
}

// clearEnv blanks every config key for the duration of the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "dev", cfg.Environment)
	assert.Equal(t, "dev_", cfg.TablePrefix)
	assert.Equal(t, time.Hour, cfg.JWTExpiry)
	assert.True(t, cfg.Debug)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOriginList())
}

func TestLoad_EnvironmentDerivesPrefixAndDebug(t *testing.T) {
	tests := []struct {
		env    string
		prefix string
		debug  bool
	}{
		{"dev", "dev_", true},
		{"test", "test_", true},
		{"prod", "prod_", false},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("STORE_DRIVER", "memory")
			t.Setenv("JWT_SECRET", "s3cret")
			t.Setenv("ENVIRONMENT", tt.env)

			cfg, err := Load()
			require.NoError(t, err)
			assert.Equal(t, tt.prefix, cfg.TablePrefix)
			assert.Equal(t, tt.debug, cfg.Debug)
		})
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "cabinet.yaml")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join([]string{
		"port: \"9000\"",
		"environment: prod",
		"store_driver: sqlite",
		"sqlite_path: /var/lib/cabinet/db.sqlite",
		"jwt_expiry: 30m",
		"cors_origins: https://a.example, https://b.example",
		"debug: true",
		"log_max_files: 3",
	}, "\n")), 0o644))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PORT", "9100")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9100", cfg.Port, "env wins over file")
	assert.Equal(t, "prod", cfg.Environment)
	assert.Equal(t, DriverSQLite, cfg.StoreDriver)
	assert.Equal(t, "/var/lib/cabinet/db.sqlite", cfg.SQLitePath)
	assert.Equal(t, 30*time.Minute, cfg.JWTExpiry)
	assert.Equal(t, 3, cfg.LogMaxFiles)
	assert.True(t, cfg.Debug, "file overrides the prod debug default")
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOriginList())
}

func TestLoad_BadConfigFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("jwt_expiry: forever\n"), 0o644))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("JWT_SECRET", "s3cret")

	_, err := Load()
	assert.ErrorContains(t, err, "jwt_expiry")

	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err = Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			StoreDriver: DriverPostgres,
			DatabaseURL: "postgres://localhost/cabinet",
			JWTSecret:   "s3cret",
			JWTExpiry:   time.Hour,
			TablePrefix: "dev_",
			LogMaxFiles: 1,
		}
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"postgres without url", func(c *Config) { c.DatabaseURL = "" }, "DATABASE_URL"},
		{"sqlite without path", func(c *Config) { c.StoreDriver = DriverSQLite; c.SQLitePath = "" }, "SQLITE_PATH"},
		{"unknown driver", func(c *Config) { c.StoreDriver = "mongo" }, "STORE_DRIVER"},
		{"missing secret", func(c *Config) { c.JWTSecret = "" }, "JWT_SECRET"},
		{"negative expiry", func(c *Config) { c.JWTExpiry = -time.Second }, "JWT_EXPIRY"},
		{"unsafe prefix", func(c *Config) { c.TablePrefix = "dev; DROP TABLE x;" }, "TABLE_PREFIX"},
		{"no log files", func(c *Config) { c.LogMaxFiles = 0 }, "LOG_MAX_FILES"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := &Config{StoreDriver: DriverMemory, LogMaxFiles: 1}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.Contains(t, err.Error(), "JWT_EXPIRY")
}
