// Package config loads and saves the mangadesk settings file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/kerbaras/mangadesk/pkg/logging"
	"github.com/kerbaras/mangadesk/pkg/server"
	"gopkg.in/yaml.v3"
)

// Config is persisted as YAML in the user's config directory.
type Config struct {
	Server  ServerConfig   `yaml:"server"`
	Retry   RetryConfig    `yaml:"retry"`
	Catalog CatalogConfig  `yaml:"catalog"`
	Log     logging.Config `yaml:"log"`
	Data    DataConfig     `yaml:"data"`

	path string
}

type ServerConfig struct {
	URL       string        `yaml:"url"`
	Username  string        `yaml:"username,omitempty"`
	Password  string        `yaml:"password,omitempty"`
	UserAgent string        `yaml:"user_agent"`
	Timeout   time.Duration `yaml:"timeout"`
}

type RetryConfig struct {
	Count       int           `yaml:"count"`
	WaitTime    time.Duration `yaml:"wait_time"`
	MaxWaitTime time.Duration `yaml:"max_wait_time"`
}

type CatalogConfig struct {
	// Languages filters the sources shown in the sources menu.
	Languages []string `yaml:"languages"`
}

type DataConfig struct {
	// Path is the DuckDB file holding saved screen state.
	Path string `yaml:"path"`
	// ExportDir receives exported EPUB files.
	ExportDir string `yaml:"export_dir"`
}

func DefaultConfig() *Config {
	opts := server.DefaultOptions()
	return &Config{
		Server: ServerConfig{
			URL:       opts.BaseURL,
			UserAgent: opts.UserAgent,
			Timeout:   opts.Timeout,
		},
		Retry: RetryConfig{
			Count:       opts.RetryCount,
			WaitTime:    opts.RetryWaitTime,
			MaxWaitTime: opts.RetryMaxWaitTime,
		},
		Catalog: CatalogConfig{Languages: []string{"en"}},
		Log:     logging.DefaultConfig(),
		Data:    DataConfig{Path: defaultDataPath(), ExportDir: defaultExportDir()},
	}
}

// DefaultPath returns ~/.config/mangadesk/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("error getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", "mangadesk", "config.yaml"), nil
}

func defaultDataPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "mangadesk.db"
	}
	return filepath.Join(home, ".local", "share", "mangadesk", "state.db")
}

func defaultExportDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "exports"
	}
	return filepath.Join(home, "Downloads", "mangadesk")
}

// Load reads the config at path, or DefaultPath when path is empty. A missing
// file is created with default values.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg := DefaultConfig()
		cfg.path = path
		if err := cfg.Save(); err != nil {
			return cfg, err
		}
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error opening configuration: %w", err)
	}
	defer file.Close()

	cfg := DefaultConfig()
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		return nil, fmt.Errorf("error parsing configuration: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	cfg.path = path
	return cfg, nil
}

func (c *Config) validate() error {
	u, err := url.Parse(c.Server.URL)
	if err != nil {
		return fmt.Errorf("server.url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("server.url %q: must be an absolute http(s) URL", c.Server.URL)
	}
	if c.Server.Timeout <= 0 {
		c.Server.Timeout = server.DefaultOptions().Timeout
	}
	if c.Retry.Count < 0 {
		return fmt.Errorf("retry.count must not be negative, got %d", c.Retry.Count)
	}
	if c.Retry.MaxWaitTime < c.Retry.WaitTime {
		c.Retry.MaxWaitTime = c.Retry.WaitTime
	}
	if c.Log.Level == "" {
		c.Log.Level = logging.DefaultConfig().Level
	}
	if c.Log.Format == "" {
		c.Log.Format = logging.DefaultConfig().Format
	}
	if err := c.Log.Validate(); err != nil {
		return err
	}
	if c.Data.Path == "" {
		c.Data.Path = defaultDataPath()
	}
	if c.Data.ExportDir == "" {
		c.Data.ExportDir = defaultExportDir()
	}
	return nil
}

// Path is the file the config was loaded from and is saved to.
func (c *Config) Path() string {
	return c.path
}

func (c *Config) Save() error {
	if c.path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		c.path = p
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("error serializing configuration: %w", err)
	}

	if err := os.WriteFile(c.path, data, 0o600); err != nil {
		return fmt.Errorf("error saving configuration: %w", err)
	}
	return nil
}

// ServerOptions converts the server and retry sections into client options.
func (c *Config) ServerOptions() server.Options {
	return server.Options{
		BaseURL:          c.Server.URL,
		Username:         c.Server.Username,
		Password:         c.Server.Password,
		UserAgent:        c.Server.UserAgent,
		Timeout:          c.Server.Timeout,
		RetryCount:       c.Retry.Count,
		RetryWaitTime:    c.Retry.WaitTime,
		RetryMaxWaitTime: c.Retry.MaxWaitTime,
	}
}

// Store exposes the catalog languages of a Config and saves it on change.
type Store struct {
	mu  sync.Mutex
	cfg *Config
}

func NewStore(cfg *Config) *Store {
	return &Store{cfg: cfg}
}

func (s *Store) Languages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.cfg.Catalog.Languages)
}

func (s *Store) SetLanguages(langs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.Catalog.Languages = slices.Clone(langs)
	return s.cfg.Save()
}
