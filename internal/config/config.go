package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultSessionSecret is only acceptable in development.
const DefaultSessionSecret = "reelwork-dev-secret-change-me"

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	BackendMemory = "memory"
	BackendSQL    = "sql"
)

type Config struct {
	Env        string        `yaml:"env"`
	Addr       string        `yaml:"addr"`
	APITimeout time.Duration `yaml:"timeout"`
	LogLevel   string        `yaml:"log_level"`
	// Seed loads the demo users, jobs and profile at startup. Existing records are kept.
	Seed    bool          `yaml:"seed"`
	Storage StorageConfig `yaml:"storage"`
	Session SessionConfig `yaml:"session"`
}

type StorageConfig struct {
	Backend        string `yaml:"backend"`
	Driver         string `yaml:"driver"`
	DSN            string `yaml:"dsn"`
	MigrateOnStart bool   `yaml:"migrate_on_start"`
}

type SessionConfig struct {
	Secret          string        `yaml:"secret"`
	CookieName      string        `yaml:"cookie_name"`
	TTL             time.Duration `yaml:"ttl"`
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
	Store           string        `yaml:"store"`
}

// LoadConfig builds the configuration from .env files, REELWORK_* variables and,
// when path is set, a YAML file whose values win over both.
func LoadConfig(path string) (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, err
	}

	cfg := &Config{
		Env:        getEnv("REELWORK_ENV", EnvDevelopment),
		Addr:       getEnv("REELWORK_ADDR", ":8080"),
		APITimeout: getDuration("REELWORK_TIMEOUT", 15*time.Second),
		LogLevel:   getEnv("REELWORK_LOG_LEVEL", "info"),
		Seed:       getBool("REELWORK_SEED", true),
		Storage: StorageConfig{
			Backend:        getEnv("REELWORK_STORAGE_BACKEND", BackendMemory),
			Driver:         getEnv("REELWORK_DB_DRIVER", "sqlite"),
			DSN:            getEnv("REELWORK_DB_DSN", "reelwork.db"),
			MigrateOnStart: getBool("REELWORK_MIGRATE_ON_START", true),
		},
		Session: SessionConfig{
			Secret:          getEnv("REELWORK_SESSION_SECRET", DefaultSessionSecret),
			CookieName:      getEnv("REELWORK_SESSION_COOKIE", "reelwork_session"),
			TTL:             getDuration("REELWORK_SESSION_TTL", 24*time.Hour),
			CleanupInterval: getDuration("REELWORK_SESSION_CLEANUP", 24*time.Hour),
			Store:           getEnv("REELWORK_SESSION_STORE", BackendMemory),
		},
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Validate rejects configurations that cannot run, and an insecure session secret
// outside development.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr must not be empty")
	}
	if c.APITimeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}

	if !c.IsDevelopment() {
		if c.Session.Secret == "" || c.Session.Secret == DefaultSessionSecret {
			return fmt.Errorf("session secret must be set outside development (env %q)", c.Env)
		}
		if len(c.Session.Secret) < 32 {
			return fmt.Errorf("session secret must be at least 32 bytes outside development")
		}
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session ttl must be positive")
	}

	switch c.Storage.Backend {
	case BackendMemory:
	case BackendSQL:
		if c.Storage.Driver != "sqlite" && c.Storage.Driver != "postgres" {
			return fmt.Errorf("unsupported storage driver %q", c.Storage.Driver)
		}
		if c.Storage.DSN == "" {
			return fmt.Errorf("storage dsn must be set for the sql backend")
		}
	default:
		return fmt.Errorf("unsupported storage backend %q", c.Storage.Backend)
	}

	switch c.Session.Store {
	case BackendMemory:
	case BackendSQL:
		if c.Storage.Backend != BackendSQL {
			return fmt.Errorf("sql session store requires the sql storage backend")
		}
	default:
		return fmt.Errorf("unsupported session store %q", c.Session.Store)
	}

	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

func (c *Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}

func getBool(key string, def bool) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return def
	}
	return v
}

func getDuration(key string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}
