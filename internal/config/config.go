// Package config provides configuration management for netplan-parser.
//
// Config file locations (priority order):
//  1. $NETPLAN_PARSER_CONFIG
//  2. ./netplan-parser.yaml
//  3. $XDG_CONFIG_HOME/netplan-parser/config.yaml
//  4. ~/.config/netplan-parser/config.yaml
//  5. /etc/netplan-parser/config.yaml
//
// Command-line flags override whatever the file sets.
package config

import (
	"fmt"
	"os"
	"time"

	"netplan-parser/internal/loader"

	"gopkg.in/yaml.v3"
)

// Defaults
const (
	DefaultServerAddr   = ":8080"
	DefaultDatabasePath = "./netplan-parser.db"
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "console"
	DefaultDebounce     = 500 * time.Millisecond
)

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		// No config found - return defaults
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if len(c.Netplan.Dirs) == 0 {
		c.Netplan.Dirs = append([]string(nil), loader.DefaultDirs...)
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}
	if c.Database.Path == "" {
		c.Database.Path = DefaultDatabasePath
	}
	if c.Watch.Debounce == 0 {
		c.Watch.Debounce = Duration(DefaultDebounce)
	}
}

// IsStrict reports whether unknown interface names are fatal
func (c *Config) IsStrict() bool {
	return c.Netplan.Strict == nil || *c.Netplan.Strict
}

// SetStrict overrides strict mode
func (c *Config) SetStrict(strict bool) {
	c.Netplan.Strict = &strict
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	return fmt.Sprintf("Dirs: %v, Exclude: %v, Strict: %t, Format: %q",
		c.Netplan.Dirs, c.Netplan.Exclude, c.IsStrict(), c.Output.Format)
}
