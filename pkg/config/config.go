// Package config handles loading, validation and persistence of the platform
// configuration. Platform definitions live in a YAML file; tokens live in the
// OS keyring or in environment variables and are never written to disk.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sgaunet/git-mcp/pkg/platform"
	"gopkg.in/yaml.v3"
)

const (
	// FileName is the name of the configuration file inside the config directory.
	FileName = "config.yaml"
	// DirEnv overrides the configuration directory.
	DirEnv = "GIT_MCP_CONFIG_DIR"

	defaultDirName      = ".git-mcp"
	defaultOutputFormat = "table"
	defaultPageSize     = 20
	defaultTimeout      = 30 * time.Second
	maxPageSize         = 100

	dirPerm  = 0o700
	filePerm = 0o600
)

var (
	errPlatformNotFound = errors.New("platform not configured")
	errPlatformExists   = errors.New("platform already configured")
	errAliasNotFound    = errors.New("alias not found")
	errInvalidConfig    = errors.New("invalid configuration")
	errTokenNotFound    = errors.New("no token configured")
)

// Exported errors for callers matching with errors.Is.
var (
	ErrPlatformNotFound = errPlatformNotFound
	ErrPlatformExists   = errPlatformExists
	ErrAliasNotFound    = errAliasNotFound
	ErrInvalidConfig    = errInvalidConfig
	ErrTokenNotFound    = errTokenNotFound
)

// OutputFormats lists the accepted values of defaults.output_format.
var OutputFormats = []string{"table", "json", "yaml"}

// Config represents the complete configuration file.
type Config struct {
	Platforms map[string]PlatformConfig `yaml:"platforms"`
	Defaults  Defaults                  `yaml:"defaults"`
	Aliases   []Alias                   `yaml:"aliases,omitempty"`
}

// PlatformConfig describes one configured platform instance.
type PlatformConfig struct {
	Type     string `yaml:"type"`
	URL      string `yaml:"url"`
	Username string `yaml:"username,omitempty"`
}

// Defaults holds settings applied when a command does not override them.
type Defaults struct {
	Platform     string        `yaml:"platform,omitempty"`
	OutputFormat string        `yaml:"output_format"`
	PageSize     int           `yaml:"page_size"`
	Timeout      time.Duration `yaml:"timeout"`
	Retry        RetryConfig   `yaml:"retry"`
}

// RetryConfig tunes the backoff of read operations.
type RetryConfig struct {
	Attempts  int           `yaml:"attempts"`
	BaseDelay time.Duration `yaml:"base_delay"`
	Factor    float64       `yaml:"factor"`
	MaxDelay  time.Duration `yaml:"max_delay"`
}

// Policy converts the settings into a retry policy.
func (r RetryConfig) Policy() platform.RetryPolicy {
	return platform.RetryPolicy{Attempts: r.Attempts, BaseDelay: r.BaseDelay, Factor: r.Factor, MaxDelay: r.MaxDelay}
}

// Alias is a short name for a project on a platform.
type Alias struct {
	Name        string `json:"name" yaml:"name"`
	Platform    string `json:"platform" yaml:"platform"`
	Project     string `json:"project" yaml:"project"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Default returns an empty configuration with default settings.
func Default() *Config {
	return &Config{
		Platforms: map[string]PlatformConfig{},
		Defaults: Defaults{
			OutputFormat: defaultOutputFormat,
			PageSize:     defaultPageSize,
			Timeout:      defaultTimeout,
			Retry: RetryConfig{
				Attempts:  platform.DefaultRetryAttempts,
				BaseDelay: platform.DefaultRetryBase,
				Factor:    platform.DefaultRetryFactor,
				MaxDelay:  platform.DefaultRetryMaxDelay,
			},
		},
	}
}

// DefaultURL returns the public instance URL of a platform kind.
func DefaultURL(kind platform.Kind) string {
	if kind == platform.KindGitHub {
		return "https://github.com"
	}
	return "https://gitlab.com"
}

// Dir returns the configuration directory: $GIT_MCP_CONFIG_DIR or ~/.git-mcp.
func Dir() (string, error) {
	if dir := os.Getenv(DirEnv); dir != "" {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, defaultDirName), nil
}

// Load reads the configuration file at path. A missing file yields the
// default configuration.
func Load(path string) (*Config, error) {
	// #nosec G304 - reading the user's own config file is intentional
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if cfg.Platforms == nil {
		cfg.Platforms = map[string]PlatformConfig{}
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to path, creating the directory if needed.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, filePerm); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c *Config) applyDefaults() {
	def := Default().Defaults
	if c.Defaults.OutputFormat == "" {
		c.Defaults.OutputFormat = def.OutputFormat
	}
	if c.Defaults.PageSize == 0 {
		c.Defaults.PageSize = def.PageSize
	}
	if c.Defaults.Timeout == 0 {
		c.Defaults.Timeout = def.Timeout
	}
	if c.Defaults.Retry.Attempts == 0 {
		c.Defaults.Retry.Attempts = def.Retry.Attempts
	}
	if c.Defaults.Retry.BaseDelay == 0 {
		c.Defaults.Retry.BaseDelay = def.Retry.BaseDelay
	}
	if c.Defaults.Retry.Factor == 0 {
		c.Defaults.Retry.Factor = def.Retry.Factor
	}
	if c.Defaults.Retry.MaxDelay == 0 {
		c.Defaults.Retry.MaxDelay = def.Retry.MaxDelay
	}
}

// Validate checks platform definitions, defaults and aliases.
func (c *Config) Validate() error {
	for name, p := range c.Platforms {
		if err := validatePlatform(name, p); err != nil {
			return err
		}
	}

	d := c.Defaults
	if d.Platform != "" {
		if _, ok := c.Platforms[d.Platform]; !ok {
			return fmt.Errorf("%w: default platform %q is not configured", errInvalidConfig, d.Platform)
		}
	}
	if !validOutputFormat(d.OutputFormat) {
		return fmt.Errorf("%w: output_format must be one of %s", errInvalidConfig, strings.Join(OutputFormats, ", "))
	}
	if d.PageSize < 1 || d.PageSize > maxPageSize {
		return fmt.Errorf("%w: page_size must be between 1 and %d", errInvalidConfig, maxPageSize)
	}
	if d.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive", errInvalidConfig)
	}
	if d.Retry.Attempts < 1 || d.Retry.Factor < 1 || d.Retry.BaseDelay < 0 || d.Retry.MaxDelay < d.Retry.BaseDelay {
		return fmt.Errorf("%w: retry needs attempts >= 1, factor >= 1, base_delay >= 0, max_delay >= base_delay", errInvalidConfig)
	}

	seen := make(map[string]bool, len(c.Aliases))
	for _, a := range c.Aliases {
		if a.Name == "" || a.Project == "" {
			return fmt.Errorf("%w: alias needs a name and a project", errInvalidConfig)
		}
		if seen[a.Name] {
			return fmt.Errorf("%w: duplicate alias %q", errInvalidConfig, a.Name)
		}
		seen[a.Name] = true
		if _, ok := c.Platforms[a.Platform]; !ok {
			return fmt.Errorf("%w: alias %q uses unknown platform %q", errInvalidConfig, a.Name, a.Platform)
		}
	}
	return nil
}

func validatePlatform(name string, p PlatformConfig) error {
	if name == "" || strings.ContainsAny(name, " \t/:") {
		return fmt.Errorf("%w: invalid platform name %q", errInvalidConfig, name)
	}
	if _, ok := platform.ParseKind(p.Type); !ok {
		return fmt.Errorf("%w: platform %q has unsupported type %q", errInvalidConfig, name, p.Type)
	}
	u, err := url.Parse(p.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: platform %q has invalid url %q", errInvalidConfig, name, p.URL)
	}
	return nil
}

func validOutputFormat(f string) bool {
	for _, v := range OutputFormats {
		if f == v {
			return true
		}
	}
	return false
}
