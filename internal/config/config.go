// Package config loads and persists catalogview configuration.
//
// Configuration lives in ~/.catalogview/config.yaml (CATALOGVIEW_HOME overrides the
// directory). Values are layered: defaults, then the config file, then an optional
// overlay file, then CATALOGVIEW_* environment variables. CLI flags are applied last
// by the cli package.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Defaults.
const (
	DefaultAPIURL            = "http://localhost:4000"
	DefaultTimeoutSeconds    = 30
	DefaultCacheTTLSeconds   = 300
	DefaultCacheMaxSizeMB    = 50
	DefaultStaleAfterSeconds = 300
	DefaultIndentWidth       = 2
	DefaultOutputFormat      = "table"

	configFileName = "config.yaml"
	outputTypeFile = "file"
)

// Environment variable names.
const (
	EnvHome       = "CATALOGVIEW_HOME"
	EnvAPIURL     = "CATALOGVIEW_API_URL"
	EnvToken      = "CATALOGVIEW_TOKEN"
	EnvLogLevel   = "CATALOGVIEW_LOG_LEVEL"
	EnvLogFormat  = "CATALOGVIEW_LOG_FORMAT"
	EnvCacheOn    = "CATALOGVIEW_CACHE_ENABLED"
	EnvCacheTTL   = "CATALOGVIEW_CACHE_TTL_SECONDS"
	EnvCacheDir   = "CATALOGVIEW_CACHE_DIR"
	EnvIndentWide = "CATALOGVIEW_INDENT_WIDTH"
)

// ErrUnknownKey is returned by Get/Set for keys that do not exist.
var ErrUnknownKey = errors.New("unknown configuration key")

// Config is the root configuration document.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Cache   CacheConfig   `yaml:"cache"`
	Logging LoggingConfig `yaml:"logging"`
	Tree    TreeConfig    `yaml:"tree"`
	Output  OutputConfig  `yaml:"output"`
}

// APIConfig configures the catalog HTTP API.
type APIConfig struct {
	BaseURL          string `yaml:"base_url"`
	TimeoutSeconds   int    `yaml:"timeout_seconds"`
	SkipVersionCheck bool   `yaml:"skip_version_check"`
}

// CacheConfig configures the on-disk response cache and the in-memory query cache.
type CacheConfig struct {
	Enabled           bool   `yaml:"enabled"`
	TTLSeconds        int    `yaml:"ttl_seconds"`
	Directory         string `yaml:"directory,omitempty"`
	MaxSizeMB         int    `yaml:"max_size_mb"`
	StaleAfterSeconds int    `yaml:"stale_after_seconds"`
}

// LoggingConfig configures zerolog output.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file,omitempty"`
}

// TreeConfig configures the product tree.
type TreeConfig struct {
	IndentWidth int `yaml:"indent_width"`
}

// OutputConfig configures non-interactive output.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
	// MarkdownStyle is a glamour style name or JSON style path; empty means auto.
	MarkdownStyle string `yaml:"markdown_style,omitempty"`
}

// New returns a Config populated with defaults.
func New() *Config {
	logFile := ""
	if dir, err := GetConfigDir(); err == nil {
		logFile = filepath.Join(dir, "logs", "catalogview.log")
	}

	return &Config{
		API: APIConfig{
			BaseURL:        DefaultAPIURL,
			TimeoutSeconds: DefaultTimeoutSeconds,
		},
		Cache: CacheConfig{
			Enabled:           true,
			TTLSeconds:        DefaultCacheTTLSeconds,
			MaxSizeMB:         DefaultCacheMaxSizeMB,
			StaleAfterSeconds: DefaultStaleAfterSeconds,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			File:   logFile,
		},
		Tree:   TreeConfig{IndentWidth: DefaultIndentWidth},
		Output: OutputConfig{DefaultFormat: DefaultOutputFormat},
	}
}

// Load reads the config file (when present) on top of defaults and applies
// environment overrides.
func Load() (*Config, error) {
	cfg, err := LoadFile()
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// LoadFile reads the config file on top of defaults without environment
// overrides. Commands that write the file back start from this.
func LoadFile() (*Config, error) {
	cfg := New()

	path, err := ConfigFilePath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if unmarshalErr := yaml.Unmarshal(data, cfg); unmarshalErr != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, unmarshalErr)
		}
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to the config file.
func (c *Config) Save() error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}
	path, err := ConfigFilePath()
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if writeErr := os.WriteFile(path, data, 0o600); writeErr != nil {
		return fmt.Errorf("writing config file %s: %w", path, writeErr)
	}
	return nil
}

// ApplyEnv overrides fields from CATALOGVIEW_* environment variables.
// Unparsable numeric or boolean values are ignored.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvAPIURL); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv(EnvCacheOn); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Cache.Enabled = b
		}
	}
	if v := os.Getenv(EnvCacheTTL); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.Cache.TTLSeconds = n
		}
	}
	if v := os.Getenv(EnvCacheDir); v != "" {
		c.Cache.Directory = v
	}
	if v := os.Getenv(EnvIndentWide); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.Tree.IndentWidth = n
		}
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.API.BaseURL) == "" {
		errs = append(errs, errors.New("api.base_url must not be empty"))
	}
	if c.API.TimeoutSeconds <= 0 {
		errs = append(errs, fmt.Errorf("api.timeout_seconds must be > 0, got %d", c.API.TimeoutSeconds))
	}
	if c.Cache.TTLSeconds < 0 {
		errs = append(errs, fmt.Errorf("cache.ttl_seconds must be >= 0, got %d", c.Cache.TTLSeconds))
	}
	if c.Cache.StaleAfterSeconds < 0 {
		errs = append(errs, fmt.Errorf("cache.stale_after_seconds must be >= 0, got %d", c.Cache.StaleAfterSeconds))
	}
	if c.Tree.IndentWidth < 0 {
		errs = append(errs, fmt.Errorf("tree.indent_width must be >= 0, got %d", c.Tree.IndentWidth))
	}
	switch c.Output.DefaultFormat {
	case "table", "json":
	default:
		errs = append(errs, fmt.Errorf("output.default_format must be table or json, got %q", c.Output.DefaultFormat))
	}
	return errors.Join(errs...)
}

// CacheDirectory returns the configured cache directory or the default under the config dir.
func (c *Config) CacheDirectory() (string, error) {
	if c.Cache.Directory != "" {
		return c.Cache.Directory, nil
	}
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cache"), nil
}

// Get returns the string form of a dotted key such as "api.base_url".
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "api.base_url":
		return c.API.BaseURL, nil
	case "api.timeout_seconds":
		return strconv.Itoa(c.API.TimeoutSeconds), nil
	case "api.skip_version_check":
		return strconv.FormatBool(c.API.SkipVersionCheck), nil
	case "cache.enabled":
		return strconv.FormatBool(c.Cache.Enabled), nil
	case "cache.ttl_seconds":
		return strconv.Itoa(c.Cache.TTLSeconds), nil
	case "cache.directory":
		return c.Cache.Directory, nil
	case "cache.max_size_mb":
		return strconv.Itoa(c.Cache.MaxSizeMB), nil
	case "cache.stale_after_seconds":
		return strconv.Itoa(c.Cache.StaleAfterSeconds), nil
	case "logging.level":
		return c.Logging.Level, nil
	case "logging.format":
		return c.Logging.Format, nil
	case "logging.file":
		return c.Logging.File, nil
	case "tree.indent_width":
		return strconv.Itoa(c.Tree.IndentWidth), nil
	case "output.default_format":
		return c.Output.DefaultFormat, nil
	case "output.markdown_style":
		return c.Output.MarkdownStyle, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
}

// Set assigns a dotted key from its string form.
//
//nolint:gocognit,cyclop // Flat key switch.
func (c *Config) Set(key, value string) error {
	var err error
	switch key {
	case "api.base_url":
		c.API.BaseURL = value
	case "api.timeout_seconds":
		c.API.TimeoutSeconds, err = strconv.Atoi(value)
	case "api.skip_version_check":
		c.API.SkipVersionCheck, err = strconv.ParseBool(value)
	case "cache.enabled":
		c.Cache.Enabled, err = strconv.ParseBool(value)
	case "cache.ttl_seconds":
		c.Cache.TTLSeconds, err = strconv.Atoi(value)
	case "cache.directory":
		c.Cache.Directory = value
	case "cache.max_size_mb":
		c.Cache.MaxSizeMB, err = strconv.Atoi(value)
	case "cache.stale_after_seconds":
		c.Cache.StaleAfterSeconds, err = strconv.Atoi(value)
	case "logging.level":
		c.Logging.Level = value
	case "logging.format":
		c.Logging.Format = value
	case "logging.file":
		c.Logging.File = value
	case "tree.indent_width":
		c.Tree.IndentWidth, err = strconv.Atoi(value)
	case "output.default_format":
		c.Output.DefaultFormat = value
	case "output.markdown_style":
		c.Output.MarkdownStyle = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	if err != nil {
		return fmt.Errorf("invalid value %q for %s: %w", value, key, err)
	}
	return nil
}

// Keys lists every settable key in display order.
func Keys() []string {
	return []string{
		"api.base_url", "api.timeout_seconds", "api.skip_version_check",
		"cache.enabled", "cache.ttl_seconds", "cache.directory", "cache.max_size_mb",
		"cache.stale_after_seconds",
		"logging.level", "logging.format", "logging.file",
		"tree.indent_width",
		"output.default_format", "output.markdown_style",
	}
}

// ConfigFilePath returns the path of config.yaml.
func ConfigFilePath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}
