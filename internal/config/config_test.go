//nolint:goconst // test cases intentionally repeat strings for readability
package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("Could not get home dir: %v", err)
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "tilde expands to home",
			input:    "~/music",
			expected: filepath.Join(home, "music"),
		},
		{
			name:     "tilde with nested path",
			input:    "~/music/library/albums",
			expected: filepath.Join(home, "music", "library", "albums"),
		},
		{
			name:     "absolute path unchanged",
			input:    "/usr/local/music",
			expected: "/usr/local/music",
		},
		{
			name:     "relative path unchanged",
			input:    "music/albums",
			expected: "music/albums",
		},
		{
			name:     "empty string unchanged",
			input:    "",
			expected: "",
		},
		{
			name:     "tilde only",
			input:    "~",
			expected: home,
		},
		{
			name:     "tilde with slash",
			input:    "~/",
			expected: filepath.Join(home, ""),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := expandPath(tt.input)
			if result != tt.expected {
				t.Errorf("expandPath(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestGetConfigPaths(t *testing.T) {
	paths := getConfigPaths()

	// Should have at least one path
	if len(paths) == 0 {
		t.Error("getConfigPaths() returned empty slice")
	}

	// Last path should be local config.toml
	lastPath := paths[len(paths)-1]
	if lastPath != "config.toml" {
		t.Errorf("last config path = %q, want %q", lastPath, "config.toml")
	}

	// If we have home dir, first path should be ~/.config/setlist/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		expectedFirst := filepath.Join(home, ".config", "setlist", "config.toml")
		if paths[0] != expectedFirst {
			t.Errorf("first config path = %q, want %q", paths[0], expectedFirst)
		}
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFrom_Defaults(t *testing.T) {
	t.Setenv(EnvRedisURL, "")
	t.Setenv(EnvStateBackend, "")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.State.Backend != BackendSQLite {
		t.Errorf("State.Backend = %q, want %q", cfg.State.Backend, BackendSQLite)
	}
	if cfg.Level() != slog.LevelInfo {
		t.Errorf("Level() = %v, want %v", cfg.Level(), slog.LevelInfo)
	}
	if got := cfg.GetPreviewLimit(); got != defaultPreviewLimit {
		t.Errorf("GetPreviewLimit() = %d, want %d", got, defaultPreviewLimit)
	}
}

func TestLoadFrom_File(t *testing.T) {
	t.Setenv(EnvRedisURL, "")
	t.Setenv(EnvStateBackend, "")
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("Could not get home dir: %v", err)
	}

	path := writeConfig(t, `
library_sources = ["~/music", "/srv/music"]
log_level = "debug"
preview_limit = 5

[state]
backend = "SQLite"
path = "~/state/setlist.db"
`)

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	wantSources := []string{filepath.Join(home, "music"), "/srv/music"}
	if len(cfg.LibrarySources) != len(wantSources) {
		t.Fatalf("LibrarySources = %v, want %v", cfg.LibrarySources, wantSources)
	}
	for i := range wantSources {
		if cfg.LibrarySources[i] != wantSources[i] {
			t.Errorf("LibrarySources[%d] = %q, want %q", i, cfg.LibrarySources[i], wantSources[i])
		}
	}
	if cfg.Level() != slog.LevelDebug {
		t.Errorf("Level() = %v, want %v", cfg.Level(), slog.LevelDebug)
	}
	if cfg.GetPreviewLimit() != 5 {
		t.Errorf("GetPreviewLimit() = %d, want 5", cfg.GetPreviewLimit())
	}
	if cfg.State.Backend != BackendSQLite {
		t.Errorf("State.Backend = %q, want %q", cfg.State.Backend, BackendSQLite)
	}
	if want := filepath.Join(home, "state", "setlist.db"); cfg.State.Path != want {
		t.Errorf("State.Path = %q, want %q", cfg.State.Path, want)
	}
}

func TestLoadFrom_LastWins(t *testing.T) {
	t.Setenv(EnvRedisURL, "")
	t.Setenv(EnvStateBackend, "")

	first := writeConfig(t, "log_level = \"warn\"\npreview_limit = 3\n")
	second := writeConfig(t, "log_level = \"error\"\n")

	cfg, err := LoadFrom(first, second)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Level() != slog.LevelError {
		t.Errorf("Level() = %v, want %v", cfg.Level(), slog.LevelError)
	}
	if cfg.PreviewLimit != 3 {
		t.Errorf("PreviewLimit = %d, want 3", cfg.PreviewLimit)
	}
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	t.Setenv(EnvRedisURL, "redis://example:6379/1")
	t.Setenv(EnvStateBackend, "redis")

	path := writeConfig(t, `
[state]
backend = "sqlite"
redis_url = "redis://file:6379/0"
redis_key = "mine"
`)

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.State.Backend != BackendRedis {
		t.Errorf("State.Backend = %q, want %q", cfg.State.Backend, BackendRedis)
	}
	if cfg.State.RedisURL != "redis://example:6379/1" {
		t.Errorf("State.RedisURL = %q, want env value", cfg.State.RedisURL)
	}
	if cfg.State.RedisKey != "mine" {
		t.Errorf("State.RedisKey = %q, want %q", cfg.State.RedisKey, "mine")
	}
}

func TestLoadFrom_Invalid(t *testing.T) {
	t.Setenv(EnvRedisURL, "")
	t.Setenv(EnvStateBackend, "")

	tests := []struct {
		name    string
		content string
	}{
		{name: "unknown backend", content: "[state]\nbackend = \"mongo\"\n"},
		{name: "redis without url", content: "[state]\nbackend = \"redis\"\n"},
		{name: "bad log level", content: "log_level = \"loud\"\n"},
		{name: "unknown icons", content: "icons = \"emoji\"\n"},
		{name: "bad toml", content: "log_level = \n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadFrom(writeConfig(t, tt.content)); err == nil {
				t.Error("LoadFrom() expected error")
			}
		})
	}
}

func TestGetPreviewLimit(t *testing.T) {
	tests := []struct {
		limit int
		want  int
	}{
		{0, defaultPreviewLimit},
		{-4, defaultPreviewLimit},
		{1, 1},
		{25, 25},
	}
	for _, tt := range tests {
		c := Config{PreviewLimit: tt.limit}
		if got := c.GetPreviewLimit(); got != tt.want {
			t.Errorf("GetPreviewLimit() with %d = %d, want %d", tt.limit, got, tt.want)
		}
	}
}
