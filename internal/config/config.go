package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Config is the persistent application configuration
type Config struct {
	// Server holds backend connection settings
	Server ServerConfig `json:"server"`

	// UI Preferences
	UI UIConfig `json:"ui"`

	// Refresh controls background synchronization
	Refresh RefreshConfig `json:"refresh"`
}

// ServerConfig holds backend connection settings
type ServerConfig struct {
	URL            string `json:"url"`
	Token          string `json:"token,omitempty"`
	PageSize       int    `json:"page_size"`
	RequestTimeout string `json:"request_timeout"` // Go duration string, e.g. "15s"
}

// UIConfig holds UI preferences
type UIConfig struct {
	Theme       string `json:"theme"`
	DensityMode string `json:"density_mode"` // "comfortable" or "compact"
	ShowStats   bool   `json:"show_stats"`
}

// RefreshConfig holds background refresh settings
type RefreshConfig struct {
	Interval string `json:"interval"` // Go duration string, e.g. "2m"
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			URL:            "http://localhost:8000",
			PageSize:       100,
			RequestTimeout: "15s",
		},
		UI: UIConfig{
			Theme:       "dark",
			DensityMode: "comfortable",
			ShowStats:   true,
		},
		Refresh: RefreshConfig{
			Interval: "2m",
		},
	}
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".newsboard", "config.json")
}

// CachePath returns the path to the local sqlite snapshot cache
func CachePath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".newsboard", "cache.db")
}

// Load reads config from disk, or returns defaults
func Load() (*Config, error) {
	path := ConfigPath()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			cfg.AutoPopulateFromEnv()
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), nil
	}

	cfg.AutoPopulateFromEnv()
	return &cfg, nil
}

// Save writes config to disk
func (c *Config) Save() error {
	path := ConfigPath()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600) // Restrictive permissions for the token
}

// AutoPopulateFromEnv fills in connection settings from environment variables
func (c *Config) AutoPopulateFromEnv() {
	if url := os.Getenv("NEWSBOARD_URL"); url != "" {
		c.Server.URL = url
	}
	if token := os.Getenv("NEWSBOARD_TOKEN"); token != "" {
		c.Server.Token = token
	}
}

// RequestTimeout parses the configured request timeout, falling back to 15s.
func (c *Config) RequestTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.RequestTimeout)
	if err != nil || d <= 0 {
		return 15 * time.Second
	}
	return d
}

// RefreshInterval parses the configured refresh interval, falling back to 2m.
func (c *Config) RefreshInterval() time.Duration {
	d, err := time.ParseDuration(c.Refresh.Interval)
	if err != nil || d <= 0 {
		return 2 * time.Minute
	}
	return d
}
