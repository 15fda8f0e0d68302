// Package config loads and persists the ember configuration.
//
// Settings live in a single JSON file under the XDG config dir. The session
// credential is deliberately env-first: EMBER_SESSION_KEY (optionally via a
// .env file) overrides anything on disk, so scripts never need to write the
// secret into the config file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/emberlab/ember/internal/xdg"
)

// ErrNoSessionKey indicates no session credential was found in the
// environment or the config file.
var ErrNoSessionKey = errors.New("no session key configured")

// Defaults applied when the config file is absent or a field is empty.
const (
	DefaultBaseURL        = "https://demo.fuclaude.com"
	DefaultPlatform       = "web_claude_ai"
	DefaultAcceptLanguage = "en-US,en;q=0.9"
	DefaultTimeoutSeconds = 60
)

// Config holds the ember settings.
type Config struct {
	// BaseURL is the chat provider deployment to talk to.
	BaseURL string `json:"base_url,omitempty"`

	// SessionKey is the sessionKey cookie value. Usually supplied via
	// EMBER_SESSION_KEY rather than stored here.
	SessionKey string `json:"session_key,omitempty"`

	// Platform is the anthropic-client-platform header value.
	Platform string `json:"platform,omitempty"`

	// AcceptLanguage is the accept-language header value.
	AcceptLanguage string `json:"accept_language,omitempty"`

	// TimeoutSeconds is the per-request timeout.
	TimeoutSeconds int `json:"timeout_seconds,omitempty"`
}

// Store abstracts config persistence so commands can be tested with fakes.
type Store interface {
	Load() (*Config, error)
	Save(cfg *Config) error
	Path() string
}

// NewStore creates a Store backed by the filesystem.
func NewStore() Store {
	return &fileStore{}
}

// fileStore implements Store using {configDir}/config.json.
type fileStore struct{}

func (f *fileStore) Path() string {
	return filepath.Join(xdg.ConfigDir(), "config.json")
}

func (f *fileStore) Load() (*Config, error) {
	data, err := os.ReadFile(f.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading ember config: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing ember config: %w", err)
	}
	return &cfg, nil
}

func (f *fileStore) Save(cfg *Config) error {
	path := f.Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling ember config: %w", err)
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

// Resolve loads the config from the store, applies defaults, and overlays
// environment overrides (EMBER_BASE_URL, EMBER_SESSION_KEY).
func Resolve(store Store, getenv func(string) string) (*Config, error) {
	cfg, err := store.Load()
	if err != nil {
		return nil, err
	}

	if v := getenv("EMBER_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := getenv("EMBER_SESSION_KEY"); v != "" {
		cfg.SessionKey = v
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Platform == "" {
		cfg.Platform = DefaultPlatform
	}
	if cfg.AcceptLanguage == "" {
		cfg.AcceptLanguage = DefaultAcceptLanguage
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = DefaultTimeoutSeconds
	}

	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", cfg.BaseURL, err)
	}

	return cfg, nil
}

// RequireSessionKey returns ErrNoSessionKey when the resolved config carries
// no credential. Remote commands call this before any bootstrap attempt.
func (c *Config) RequireSessionKey() error {
	if c.SessionKey == "" {
		return ErrNoSessionKey
	}
	return nil
}
