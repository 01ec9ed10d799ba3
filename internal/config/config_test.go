package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/diogo/promptdeck/internal/models"
)

// setupTestHome points HOME at a temp dir so tests never touch the real config
func setupTestHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.BaseURL != models.DefaultBaseURL {
		t.Errorf("Expected default base URL %s, got %s", models.DefaultBaseURL, cfg.BaseURL)
	}
	if cfg.ConversationPath != "/api/conversation" {
		t.Errorf("Expected conversation path /api/conversation, got %s", cfg.ConversationPath)
	}
	if cfg.MusicPath != "/api/music" {
		t.Errorf("Expected music path /api/music, got %s", cfg.MusicPath)
	}
	if cfg.Verbose {
		t.Error("Expected Verbose to be false")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestConfig_Timeout(t *testing.T) {
	cfg := Config{TimeoutSeconds: 30}
	if cfg.Timeout() != 30*time.Second {
		t.Errorf("Timeout() = %v", cfg.Timeout())
	}

	cfg.TimeoutSeconds = 0
	if cfg.Timeout() != 0 {
		t.Errorf("Timeout() = %v, want 0", cfg.Timeout())
	}
}

func TestConfig_EndpointFor(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MusicPath = "/api/v2/music"

	if got := cfg.EndpointFor(models.ToolMusic); got != "/api/v2/music" {
		t.Errorf("EndpointFor(music) = %s", got)
	}
	if got := cfg.EndpointFor(models.ToolConversation); got != "/api/conversation" {
		t.Errorf("EndpointFor(conversation) = %s", got)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"https base", func(c *Config) { c.BaseURL = "https://genius.example.com" }, false},
		{"relative base", func(c *Config) { c.BaseURL = "genius.example.com" }, true},
		{"ftp base", func(c *Config) { c.BaseURL = "ftp://genius.example.com" }, true},
		{"path without slash", func(c *Config) { c.MusicPath = "api/music" }, true},
		{"negative timeout", func(c *Config) { c.TimeoutSeconds = -1 }, true},
		{"negative rate", func(c *Config) { c.RateLimitPerMinute = -5 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetConfigPath(t *testing.T) {
	home := setupTestHome(t)

	path, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() returned error: %v", err)
	}
	want := filepath.Join(home, ".promptdeck", "config.json")
	if path != want {
		t.Errorf("GetConfigPath() = %s, want %s", path, want)
	}
}

func TestLoadConfig_FileNotExists(t *testing.T) {
	setupTestHome(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}
	if cfg.BaseURL != models.DefaultBaseURL {
		t.Errorf("Expected defaults, got base URL %s", cfg.BaseURL)
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	setupTestHome(t)

	cfg := DefaultConfig()
	cfg.BaseURL = "https://genius.example.com"
	cfg.RateLimitPerMinute = 10
	cfg.Markdown.Style = "light"

	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig() returned error: %v", err)
	}

	path, _ := GetConfigPath()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("config file mode = %v, want 0600", info.Mode().Perm())
	}

	loaded, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}
	if loaded.BaseURL != cfg.BaseURL {
		t.Errorf("BaseURL = %s, want %s", loaded.BaseURL, cfg.BaseURL)
	}
	if loaded.RateLimitPerMinute != 10 {
		t.Errorf("RateLimitPerMinute = %d, want 10", loaded.RateLimitPerMinute)
	}
	if loaded.Markdown.Style != "light" {
		t.Errorf("Markdown.Style = %s, want light", loaded.Markdown.Style)
	}
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	setupTestHome(t)

	dir, err := EnsureConfigDir()
	if err != nil {
		t.Fatalf("EnsureConfigDir() returned error: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig()
	if err == nil {
		t.Fatal("Expected parse error")
	}
	if cfg.BaseURL != models.DefaultBaseURL {
		t.Error("Expected defaults on parse error")
	}
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	setupTestHome(t)

	dir, _ := EnsureConfigDir()
	data, _ := json.Marshal(map[string]any{"verbose": true})
	if err := os.WriteFile(filepath.Join(dir, "config.json"), data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}
	if !cfg.Verbose {
		t.Error("Expected verbose from file")
	}
	if cfg.MusicPath != models.PathMusic {
		t.Errorf("Expected default music path, got %s", cfg.MusicPath)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	setupTestHome(t)

	cfg := DefaultConfig()
	cfg.BaseURL = "https://file.example.com"
	cfg.TimeoutSeconds = 60
	if err := SaveConfig(cfg); err != nil {
		t.Fatal(err)
	}

	t.Setenv("PROMPTDECK_BASE_URL", "https://env.example.com")
	t.Setenv("PROMPTDECK_RATE_LIMIT", "5")
	t.Setenv("PROMPTDECK_VERBOSE", "true")

	loaded, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}
	if loaded.BaseURL != "https://env.example.com" {
		t.Errorf("BaseURL = %s, want env override", loaded.BaseURL)
	}
	if loaded.RateLimitPerMinute != 5 {
		t.Errorf("RateLimitPerMinute = %d, want 5", loaded.RateLimitPerMinute)
	}
	if !loaded.Verbose {
		t.Error("Expected verbose from env")
	}
	if loaded.TimeoutSeconds != 60 {
		t.Errorf("TimeoutSeconds = %d, want value from file", loaded.TimeoutSeconds)
	}
}

func TestApplyEnv_InvalidValue(t *testing.T) {
	t.Setenv("PROMPTDECK_TIMEOUT", "soon")

	cfg := DefaultConfig()
	if err := ApplyEnv(&cfg); err == nil {
		t.Error("Expected error for non-numeric timeout")
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("PROMPTDECK_MUSIC_PATH=/api/v2/music\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PROMPTDECK_MUSIC_PATH", "")
	os.Unsetenv("PROMPTDECK_MUSIC_PATH")

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv() returned error: %v", err)
	}
	if got := os.Getenv("PROMPTDECK_MUSIC_PATH"); got != "/api/v2/music" {
		t.Errorf("PROMPTDECK_MUSIC_PATH = %q", got)
	}
}

func TestLoadDotEnv_Missing(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "nope.env")); err != nil {
		t.Errorf("missing .env should be ignored, got %v", err)
	}
}

func TestSetValue(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		check   func(Config) bool
		wantErr bool
	}{
		{"base url trims slash", "base_url", "https://x.dev/", func(c Config) bool { return c.BaseURL == "https://x.dev" }, false},
		{"timeout", "timeout_seconds", "45", func(c Config) bool { return c.TimeoutSeconds == 45 }, false},
		{"bool", "copy_to_clipboard", "true", func(c Config) bool { return c.CopyToClipboard }, false},
		{"markdown style", "markdown.style", "light", func(c Config) bool { return c.Markdown.Style == "light" }, false},
		{"bad int", "timeout_seconds", "abc", nil, true},
		{"bad bool", "verbose", "maybe", nil, true},
		{"invalid result", "base_url", "not a url", nil, true},
		{"unknown key", "model", "pro", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			before := cfg
			err := SetValue(&cfg, tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SetValue() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if cfg != before {
					t.Error("config should be unchanged on error")
				}
				return
			}
			if !tt.check(cfg) {
				t.Errorf("value not applied: %+v", cfg)
			}
		})
	}
}

func TestSetValue_UnknownKeyIsSentinel(t *testing.T) {
	cfg := DefaultConfig()
	err := SetValue(&cfg, "nope", "1")
	if !errors.Is(err, ErrUnknownKey) {
		t.Errorf("Expected ErrUnknownKey, got %v", err)
	}
}

func TestKeys(t *testing.T) {
	keys := Keys()
	if len(keys) == 0 {
		t.Fatal("Keys() returned empty list")
	}
	for i := 1; i < len(keys); i++ {
		if keys[i-1] > keys[i] {
			t.Errorf("keys not sorted: %s > %s", keys[i-1], keys[i])
		}
	}
}

func TestGetDownloadDir(t *testing.T) {
	home := setupTestHome(t)

	dir, err := GetDownloadDir(Config{})
	if err != nil {
		t.Fatalf("GetDownloadDir() returned error: %v", err)
	}
	if dir != filepath.Join(home, ".promptdeck", "music") {
		t.Errorf("GetDownloadDir() = %s", dir)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("download dir not created: %v", err)
	}
}
