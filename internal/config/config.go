package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/llehouerou/setlist/internal/icons"
)

// State backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Environment overrides, applied after the config files.
const (
	EnvRedisURL     = "SETLIST_REDIS_URL"
	EnvStateBackend = "SETLIST_STATE_BACKEND"
)

const defaultPreviewLimit = 10

type Config struct {
	LibrarySources []string `koanf:"library_sources"` // paths to scan for music library
	LogLevel       string   `koanf:"log_level"`       // "debug", "info", "warn", "error" (default: "info")
	PreviewLimit   int      `koanf:"preview_limit"`   // upcoming songs shown by status (default: 10)
	Icons          string   `koanf:"icons"`           // "nerd", "unicode", or "none" (default: "none")

	State StateConfig `koanf:"state"`
}

// StateConfig selects where the library is persisted.
type StateConfig struct {
	Backend  string `koanf:"backend"`   // "sqlite" or "redis" (default: "sqlite")
	Path     string `koanf:"path"`      // sqlite file, empty means the XDG data dir
	RedisURL string `koanf:"redis_url"` // e.g., "redis://localhost:6379/0"
	RedisKey string `koanf:"redis_key"` // key holding the state blob
}

// Load reads .env, then the config files, then environment overrides.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return LoadFrom(getConfigPaths()...)
}

// LoadFrom reads the given config files in order (last wins). Missing files
// are skipped.
func LoadFrom(paths ...string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("load %s: %w", path, err)
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	if v := os.Getenv(EnvRedisURL); v != "" {
		cfg.State.RedisURL = v
	}
	if v := os.Getenv(EnvStateBackend); v != "" {
		cfg.State.Backend = v
	}

	// Expand ~ in library_sources
	for i, src := range cfg.LibrarySources {
		cfg.LibrarySources[i] = expandPath(src)
	}
	cfg.State.Path = expandPath(cfg.State.Path)
	cfg.State.Backend = strings.ToLower(strings.TrimSpace(cfg.State.Backend))
	if cfg.State.Backend == "" {
		cfg.State.Backend = BackendSQLite
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports settings that cannot work.
func (c *Config) Validate() error {
	switch c.State.Backend {
	case BackendSQLite:
	case BackendRedis:
		if c.State.RedisURL == "" {
			return fmt.Errorf("state backend %q needs redis_url or %s", BackendRedis, EnvRedisURL)
		}
	default:
		return fmt.Errorf("unknown state backend %q", c.State.Backend)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	if !icons.Valid(c.Icons) {
		return fmt.Errorf("unknown icon style %q", c.Icons)
	}
	return nil
}

// Level returns the configured log level.
func (c *Config) Level() slog.Level {
	l, _ := parseLevel(c.LogLevel)
	return l
}

// GetPreviewLimit returns the number of upcoming songs to show, with the
// default applied.
func (c *Config) GetPreviewLimit() int {
	if c.PreviewLimit <= 0 {
		return defaultPreviewLimit
	}
	return c.PreviewLimit
}

func parseLevel(s string) (slog.Level, error) {
	if s == "" {
		return slog.LevelInfo, nil
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log_level %q", s)
	}
	return l, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/setlist/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "setlist", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
