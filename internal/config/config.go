// Package config loads the YAML configuration file, creating a default
// one on first run.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// BasicAuth holds optional HTTP basic auth credentials for the backend.
type BasicAuth struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// Config is the top-level application configuration.
type Config struct {
	// ServerURL is the base URL of the productivity backend.
	ServerURL string `yaml:"server_url"`

	// RequestTimeoutSeconds bounds every API call.
	RequestTimeoutSeconds int `yaml:"request_timeout_seconds"`

	// LogFile receives structured logs; the terminal is owned by the UI.
	// Empty means no log file.
	LogFile string `yaml:"log_file"`

	// CacheEnabled toggles the local sqlite schedule cache.
	CacheEnabled bool `yaml:"cache_enabled"`

	// BasicAuth, if non-nil, is sent with every request.
	BasicAuth *BasicAuth `yaml:"basic_auth,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ServerURL:             "http://127.0.0.1:5000",
		RequestTimeoutSeconds: 10,
		CacheEnabled:          true,
	}
}

// Normalize fills zero values so partially-filled configs behave.
func (c *Config) Normalize() {
	if c.ServerURL == "" {
		c.ServerURL = "http://127.0.0.1:5000"
	}
	if c.RequestTimeoutSeconds <= 0 {
		c.RequestTimeoutSeconds = 10
	}
	if c.BasicAuth != nil && (c.BasicAuth.Username == "" || c.BasicAuth.Password == "") {
		c.BasicAuth = nil
	}
}

// RequestTimeout returns the timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// DefaultPath returns the per-user config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "orgcal", "config.yaml"), nil
}

// Load reads the config at path. A missing file is created with defaults
// and 0600 permissions.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := Default()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()
	return &cfg, nil
}

// Save writes cfg to path atomically with 0600 permissions.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}
	cfg.Normalize()

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".orgcal-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
