// Package config loads the console configuration from a YAML file,
// falling back to defaults for anything the file leaves out.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/salesops/internal/constants"
)

// Environment overrides
const (
	EnvAPIURL = "SALESOPS_API_URL"
	EnvDebug  = "SALESOPS_DEBUG"
)

// KeyringStore as the store value means the PostgreSQL connection string
// lives in the OS keyring rather than in the file
const KeyringStore = "keyring"

// Retry configures the backoff applied to every backend call
type Retry struct {
	MaxAttempts  int           `yaml:"max_attempts"`
	InitialDelay time.Duration `yaml:"initial_delay"`
}

// Config is the on-disk configuration
type Config struct {
	APIURL         string        `yaml:"api_url"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	RateLimit      float64       `yaml:"rate_limit"`
	Burst          int           `yaml:"burst"`
	Debounce       time.Duration `yaml:"debounce"`
	Retry          Retry         `yaml:"retry"`
	// Store is a SQLite path, a PostgreSQL connection string or
	// KeyringStore
	Store string `yaml:"store"`
	Debug bool   `yaml:"debug"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		RequestTimeout: constants.DefaultRequestTimeout,
		RateLimit:      constants.DefaultRateLimit,
		Burst:          constants.DefaultBurst,
		Debounce:       constants.DefaultDebounce,
		Retry: Retry{
			MaxAttempts:  constants.DefaultMaxAttempts,
			InitialDelay: constants.DefaultInitialDelay,
		},
		Store: filepath.Join(constants.DefaultConfigDir, constants.DefaultStoreFile),
	}
}

// DefaultPath returns ~/.config/salesops/config.yaml
func DefaultPath() string {
	return filepath.Join(constants.DefaultConfigDir, constants.DefaultConfigFile)
}

// Load reads the file at path. A missing file is not an error: the
// defaults are returned so a fresh install can still run 'init'.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(ExpandPath(path))
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	cfg.fillDefaults()
	return cfg, nil
}

// Save writes cfg to path, creating the directory if needed
func Save(path string, cfg Config) error {
	path = ExpandPath(path)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate checks the fields a backend session depends on
func (c Config) Validate() error {
	if strings.TrimSpace(c.APIURL) == "" {
		return fmt.Errorf("api_url is not set (edit the config file or export %s)", EnvAPIURL)
	}
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api_url %q is not an absolute URL", c.APIURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api_url must use http or https, got %q", u.Scheme)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate_limit must not be negative")
	}
	return nil
}

// Dir returns the directory holding the config file and logs
func (c Config) Dir(path string) string {
	return filepath.Dir(ExpandPath(path))
}

// StorePath returns the store location with ~ expanded. PostgreSQL
// connection strings are returned untouched.
func (c Config) StorePath() string {
	if IsPostgres(c.Store) || c.Store == KeyringStore {
		return c.Store
	}
	return ExpandPath(c.Store)
}

// IsPostgres reports whether s is a PostgreSQL connection string
func IsPostgres(s string) bool {
	return strings.HasPrefix(s, "postgres://") || strings.HasPrefix(s, "postgresql://")
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvAPIURL); v != "" {
		c.APIURL = v
	}
	if v := os.Getenv(EnvDebug); v != "" {
		if debug, err := strconv.ParseBool(v); err == nil {
			c.Debug = debug
		}
	}
}

func (c *Config) fillDefaults() {
	def := Default()
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = def.RequestTimeout
	}
	if c.Burst <= 0 {
		c.Burst = def.Burst
	}
	if c.Debounce <= 0 {
		c.Debounce = def.Debounce
	}
	if c.Retry.MaxAttempts < 1 {
		c.Retry.MaxAttempts = def.Retry.MaxAttempts
	}
	if c.Retry.InitialDelay <= 0 {
		c.Retry.InitialDelay = def.Retry.InitialDelay
	}
	if c.Store == "" {
		c.Store = def.Store
	}
	if !strings.HasSuffix(c.APIURL, "/") && c.APIURL != "" {
		c.APIURL += "/"
	}
}

// ExpandPath replaces a leading ~ with the user's home directory
func ExpandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
