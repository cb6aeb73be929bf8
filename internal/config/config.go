// Package config loads server settings from YAML with WELLCHECK_*
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/soaringjerry/wellcheck/internal/utils"
)

const (
	DriverMemory  = "memory"
	DriverSQLite3 = "sqlite3"
	DriverSQLite  = "sqlite"
)

// StorageConfig selects and locates the session store.
type StorageConfig struct {
	// Driver is memory, sqlite3 (cgo) or sqlite (pure Go).
	Driver string `yaml:"driver"`
	// Path is the SQLite database file.
	Path string `yaml:"path"`
	// SnapshotPath persists the memory store; also the legacy import source for migrate.
	SnapshotPath string `yaml:"snapshot_path"`
	// MigrationsDir overrides the embedded SQL migrations.
	MigrationsDir string `yaml:"migrations_dir"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

type Config struct {
	Addr            string        `yaml:"addr"`
	LogLevel        string        `yaml:"log_level"`
	StaticDir       string        `yaml:"static_dir"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	Storage         StorageConfig `yaml:"storage"`
	Auth            AuthConfig    `yaml:"auth"`
}

func DefaultConfig() *Config {
	return &Config{
		Addr:            ":8080",
		LogLevel:        "info",
		ShutdownTimeout: 10 * time.Second,
		Storage: StorageConfig{
			Driver: DriverMemory,
			Path:   "data/wellcheck.db",
		},
		Auth: AuthConfig{
			TokenTTL: 30 * 24 * time.Hour,
		},
	}
}

// LoadConfig reads path over the defaults. A missing file is not an error;
// an empty path skips the file. Environment overrides apply last.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config file: %w", err)
		default:
			// yaml.v3 only overwrites keys present in the document
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Addr = utils.SafeEnv("WELLCHECK_ADDR", c.Addr)
	c.LogLevel = utils.SafeEnv("WELLCHECK_LOG_LEVEL", c.LogLevel)
	c.StaticDir = utils.SafeEnv("WELLCHECK_STATIC_DIR", c.StaticDir)
	c.Storage.Driver = utils.SafeEnv("WELLCHECK_STORAGE_DRIVER", c.Storage.Driver)
	c.Storage.Path = utils.SafeEnv("WELLCHECK_SQLITE_PATH", c.Storage.Path)
	c.Storage.SnapshotPath = utils.SafeEnv("WELLCHECK_SNAPSHOT_PATH", c.Storage.SnapshotPath)
	c.Storage.MigrationsDir = utils.SafeEnv("WELLCHECK_MIGRATIONS_DIR", c.Storage.MigrationsDir)
	c.Auth.JWTSecret = utils.SafeEnv("WELLCHECK_JWT_SECRET", c.Auth.JWTSecret)

	for key, dst := range map[string]*time.Duration{
		"WELLCHECK_TOKEN_TTL":        &c.Auth.TokenTTL,
		"WELLCHECK_SHUTDOWN_TIMEOUT": &c.ShutdownTimeout,
	} {
		if v := utils.SafeEnv(key, ""); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("invalid %s %q: %w", key, v, err)
			}
			*dst = d
		}
	}
	return nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return errors.New("addr cannot be empty")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q, must be one of: debug, info, warn, error", c.LogLevel)
	}
	switch c.Storage.Driver {
	case DriverMemory:
	case DriverSQLite3, DriverSQLite:
		if strings.TrimSpace(c.Storage.Path) == "" {
			return fmt.Errorf("storage.path cannot be empty for driver %s", c.Storage.Driver)
		}
	default:
		return fmt.Errorf("invalid storage.driver %q, must be one of: memory, sqlite3, sqlite", c.Storage.Driver)
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be > 0, got %v", c.Auth.TokenTTL)
	}
	if c.ShutdownTimeout < 0 {
		return fmt.Errorf("shutdown_timeout must be >= 0, got %v", c.ShutdownTimeout)
	}
	return nil
}
