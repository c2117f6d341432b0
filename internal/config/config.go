// Package config resolves settings from the config file, the environment
// and root flags, in that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// AppName is the configuration directory name.
	AppName = "items"

	// FileName is the config file inside Dir.
	FileName = "config.yaml"

	DefaultBaseURL  = "http://localhost:8000/api"
	DefaultResource = "items"
	DefaultTheme    = "classic"
	DefaultTimeout  = 10 * time.Second
)

// Config holds every setting the program reads.
type Config struct {
	// Dir is the configuration directory; credentials live here too.
	Dir string `yaml:"-"`

	BaseURL       string        `yaml:"base_url"`
	Resource      string        `yaml:"resource"`
	TrailingSlash bool          `yaml:"trailing_slash"`
	Timeout       time.Duration `yaml:"timeout"`
	Theme         string        `yaml:"theme"`
	LogFile       string        `yaml:"log_file"`
	LogLevel      string        `yaml:"log_level"`
}

// Default returns the built-in settings rooted at dir.
func Default(dir string) *Config {
	return &Config{
		Dir:           dir,
		BaseURL:       DefaultBaseURL,
		Resource:      DefaultResource,
		TrailingSlash: true,
		Timeout:       DefaultTimeout,
		Theme:         DefaultTheme,
		LogLevel:      "info",
	}
}

// DefaultDir returns $XDG_CONFIG_HOME/items or $HOME/.config/items.
func DefaultDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// Path returns the config file path.
func (c *Config) Path() string { return filepath.Join(c.Dir, FileName) }

// Load reads the config file at path (or the default location when path
// is empty) and applies environment overrides. A missing file is fine.
func Load(path string) (*Config, error) {
	dir := DefaultDir()
	if path != "" {
		dir = filepath.Dir(path)
	} else {
		path = filepath.Join(dir, FileName)
	}
	c := Default(dir)

	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	c.applyEnv()
	return c, nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv("ITEMS_BASE_URL")); v != "" {
		c.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("ITEMS_THEME")); v != "" {
		c.Theme = v
	}
	if v := strings.TrimSpace(os.Getenv("ITEMS_LOG_FILE")); v != "" {
		c.LogFile = v
	}
}

// Validate checks the settings needed to reach the API.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("base_url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("base_url %q: want http(s)://host[/path]", c.BaseURL)
	}
	if strings.Trim(c.Resource, "/") == "" {
		return fmt.Errorf("resource: empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout: must be positive, got %s", c.Timeout)
	}
	return nil
}

// Save writes the config file, creating Dir with 0700.
func (c *Config) Save() error {
	if err := os.MkdirAll(c.Dir, 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("yaml marshal: %w", err)
	}
	if err := os.WriteFile(c.Path(), b, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
