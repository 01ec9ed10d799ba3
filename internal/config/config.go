// Package config handles configuration loading and persistence for promptdeck.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/diogo/promptdeck/internal/models"
)

// EnvPrefix is prepended to every environment override
const EnvPrefix = "PROMPTDECK_"

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	Style            string `json:"style"`             // glamour style name or path to JSON theme
	EnableEmoji      bool   `json:"enable_emoji"`      // Convert :emoji: to unicode
	PreserveNewLines bool   `json:"preserve_newlines"` // Preserve original line breaks
	TableWrap        bool   `json:"table_wrap"`        // Enable word wrap in table cells
}

// Config represents the user configuration
type Config struct {
	// BaseURL is the root of the dashboard backend serving the /api routes.
	BaseURL          string `json:"base_url" env:"BASE_URL"`
	ConversationPath string `json:"conversation_path" env:"CONVERSATION_PATH"`
	MusicPath        string `json:"music_path" env:"MUSIC_PATH"`
	// TimeoutSeconds bounds one submission, including reading the response.
	TimeoutSeconds int `json:"timeout_seconds" env:"TIMEOUT"`
	// RateLimitPerMinute caps outgoing submissions. Zero disables the limiter.
	RateLimitPerMinute int            `json:"rate_limit_per_minute" env:"RATE_LIMIT"`
	Verbose            bool           `json:"verbose" env:"VERBOSE"`
	CopyToClipboard    bool           `json:"copy_to_clipboard" env:"COPY_TO_CLIPBOARD"`
	TUITheme           string         `json:"tui_theme,omitempty" env:"THEME"`
	DownloadDir        string         `json:"download_dir,omitempty" env:"DOWNLOAD_DIR"`
	Markdown           MarkdownConfig `json:"markdown,omitempty"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	homeDir, _ := os.UserHomeDir()
	return Config{
		BaseURL:            models.DefaultBaseURL,
		ConversationPath:   models.PathConversation,
		MusicPath:          models.PathMusic,
		TimeoutSeconds:     120,
		RateLimitPerMinute: 0,
		Verbose:            false,
		CopyToClipboard:    false,
		TUITheme:           "tokyonight",
		DownloadDir:        filepath.Join(homeDir, ".promptdeck", "music"),
		Markdown:           DefaultMarkdownConfig(),
	}
}

// Timeout returns the per-request timeout as a duration
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// EndpointFor returns the backend path serving the given tool
func (c Config) EndpointFor(id models.ToolID) string {
	switch id {
	case models.ToolMusic:
		return c.MusicPath
	default:
		return c.ConversationPath
	}
}

// Validate checks the values a user can break by hand-editing the file
func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid base_url %q: must be an absolute http(s) URL", c.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid base_url %q: unsupported scheme %s", c.BaseURL, u.Scheme)
	}
	for _, p := range []string{c.ConversationPath, c.MusicPath} {
		if !strings.HasPrefix(p, "/") {
			return fmt.Errorf("invalid endpoint path %q: must start with /", p)
		}
	}
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout_seconds cannot be negative")
	}
	if c.RateLimitPerMinute < 0 {
		return fmt.Errorf("rate_limit_per_minute cannot be negative")
	}
	return nil
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".promptdeck"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// GetDownloadDir returns the download directory from config, creating it if necessary
func GetDownloadDir(cfg Config) (string, error) {
	dir := cfg.DownloadDir
	if dir == "" {
		configDir, err := GetConfigDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(configDir, "music")
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create download directory: %w", err)
	}

	return dir, nil
}

// LoadDotEnv loads a .env file from the working directory when present
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// ApplyEnv overrides cfg with PROMPTDECK_* environment variables
func ApplyEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}
	return nil
}

// LoadConfig loads the configuration from disk and applies environment overrides
func LoadConfig() (Config, error) {
	cfg, err := LoadConfigFile()
	if err != nil {
		return cfg, err
	}

	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// LoadConfigFile loads the configuration from disk only
func LoadConfigFile() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ErrUnknownKey is returned by SetValue for keys it does not manage
var ErrUnknownKey = errors.New("unknown config key")

var setters = map[string]func(*Config, string) error{
	"base_url": func(c *Config, v string) error {
		c.BaseURL = strings.TrimRight(v, "/")
		return nil
	},
	"conversation_path": func(c *Config, v string) error {
		c.ConversationPath = v
		return nil
	},
	"music_path": func(c *Config, v string) error {
		c.MusicPath = v
		return nil
	},
	"timeout_seconds": func(c *Config, v string) error {
		return setInt(&c.TimeoutSeconds, v)
	},
	"rate_limit_per_minute": func(c *Config, v string) error {
		return setInt(&c.RateLimitPerMinute, v)
	},
	"verbose": func(c *Config, v string) error {
		return setBool(&c.Verbose, v)
	},
	"copy_to_clipboard": func(c *Config, v string) error {
		return setBool(&c.CopyToClipboard, v)
	},
	"tui_theme": func(c *Config, v string) error {
		c.TUITheme = v
		return nil
	},
	"download_dir": func(c *Config, v string) error {
		c.DownloadDir = v
		return nil
	},
	"markdown.style": func(c *Config, v string) error {
		c.Markdown.Style = v
		return nil
	},
	"markdown.enable_emoji": func(c *Config, v string) error {
		return setBool(&c.Markdown.EnableEmoji, v)
	},
	"markdown.preserve_newlines": func(c *Config, v string) error {
		return setBool(&c.Markdown.PreserveNewLines, v)
	},
	"markdown.table_wrap": func(c *Config, v string) error {
		return setBool(&c.Markdown.TableWrap, v)
	},
}

// Keys returns the settable config keys, sorted
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SetValue parses value into the field named by key and validates the result
func SetValue(cfg *Config, key, value string) error {
	set, ok := setters[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}

	next := *cfg
	if err := set(&next, value); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	if err := next.Validate(); err != nil {
		return err
	}

	*cfg = next
	return nil
}

func setInt(dst *int, v string) error {
	n, err := strconv.Atoi(v)
	if err != nil {
		return err
	}
	*dst = n
	return nil
}

func setBool(dst *bool, v string) error {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return err
	}
	*dst = b
	return nil
}
