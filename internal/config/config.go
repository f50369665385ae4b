// Package config handles user configuration for the CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/whiskeyjimb/sitetools/internal/meta"
	"gopkg.in/yaml.v3"
)

// Config holds user configuration loaded from ~/.sitetools/config.yaml.
type Config struct {
	// Output is the default output format (table, json, yaml).
	Output string `yaml:"output"`

	// LogLevel is the minimum log level (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`

	// LogFormat selects the log handler (text, json).
	LogFormat string `yaml:"log_format"`

	// Quiet suppresses all output except exit code.
	Quiet bool `yaml:"quiet"`

	// Platform overrides the detected host, e.g. "windows/x86_64/64".
	Platform string `yaml:"platform"`

	// Tools lists the tools applied by "configure" when none are given.
	Tools []string `yaml:"tools,omitempty"`

	// Variables holds build variable values.
	// Example: {"veclibdir": "/opt/vectorclass"}
	Variables map[string]string `yaml:"variables,omitempty"`

	// BrookRoot is the Brook+ SDK root placed in the environment as
	// BROOKROOT. Empty means use the process variable.
	BrookRoot string `yaml:"brook_root"`

	// Strict turns tool failures into errors.
	Strict bool `yaml:"strict"`

	// RequireAsmDir only links asmlib when asmlibdir exists.
	RequireAsmDir bool `yaml:"require_asm_dir"`

	// ProbeCache enables the on-disk probe result cache.
	ProbeCache bool `yaml:"probe_cache"`

	// Aliases maps short names to full command strings.
	// Example: {"cfg": "configure --check vectorclass"}
	Aliases map[string]string `yaml:"aliases,omitempty"`
}

var (
	outputFormats = []string{"table", "json", "yaml"}
	logLevels     = []string{"debug", "info", "warn", "error"}
	logFormats    = []string{"text", "json"}
)

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Output:     "table",
		LogLevel:   "warn",
		LogFormat:  "text",
		Tools:      []string{"agner"},
		ProbeCache: true,
	}
}

// Load reads configuration from the given path.
// Returns DefaultConfig if the file doesn't exist.
// Returns an error only if the file exists but is malformed.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes the configuration to path, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks enumerated fields.
func (c *Config) Validate() error {
	if !lo.Contains(outputFormats, c.Output) {
		return fmt.Errorf("invalid output %q (valid: %s)", c.Output, strings.Join(outputFormats, ", "))
	}
	if !lo.Contains(logLevels, c.LogLevel) {
		return fmt.Errorf("invalid log_level %q (valid: %s)", c.LogLevel, strings.Join(logLevels, ", "))
	}
	if !lo.Contains(logFormats, c.LogFormat) {
		return fmt.Errorf("invalid log_format %q (valid: %s)", c.LogFormat, strings.Join(logFormats, ", "))
	}
	for name := range c.Aliases {
		if strings.ContainsAny(name, " \t") {
			return fmt.Errorf("invalid alias name %q", name)
		}
	}
	return nil
}

// DefaultConfigPath returns the default config file path.
// ~/.sitetools/config.yaml
func DefaultConfigPath() string {
	if v := os.Getenv(envPrefix() + "CONFIG"); v != "" {
		return v
	}
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// DefaultConfigDir returns the default config directory.
// ~/.sitetools/
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "."+meta.AppName)
	}
	return filepath.Join(home, "."+meta.AppName)
}

func envPrefix() string {
	return strings.ToUpper(meta.AppName) + "_"
}

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Environment variables (higher priority than config file):
//   - SITETOOLS_OUTPUT: default output format
//   - SITETOOLS_LOG_LEVEL: log level
//   - SITETOOLS_TOOLS: comma-separated tool list
//   - SITETOOLS_STRICT: strict mode (true/false)
func (c *Config) ApplyEnvOverrides() {
	prefix := envPrefix()
	if v := os.Getenv(prefix + "OUTPUT"); v != "" {
		c.Output = v
	}
	if v := os.Getenv(prefix + "LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(prefix + "TOOLS"); v != "" {
		c.Tools = lo.Compact(lo.Map(strings.Split(v, ","), func(s string, _ int) string {
			return strings.TrimSpace(s)
		}))
	}
	if v := os.Getenv(prefix + "STRICT"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Strict = b
		}
	}
}
