package config

import (
	"time"
)

// Config is the root configuration structure
type Config struct {
	Version  int            `yaml:"version"`
	Netplan  NetplanConfig  `yaml:"netplan"`
	Output   OutputConfig   `yaml:"output"`
	Log      LogConfig      `yaml:"log"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Watch    WatchConfig    `yaml:"watch"`
}

// NetplanConfig controls where documents are read from
type NetplanConfig struct {
	Dirs    []string `yaml:"dirs,omitempty"`    // scanned in order, later wins per filename
	Exclude []string `yaml:"exclude,omitempty"` // bare filenames
	Strict  *bool    `yaml:"strict,omitempty"`  // nil = strict
}

// OutputConfig controls result rendering
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // empty = per-command default
}

// LogConfig controls the logger
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console or json
}

// ServerConfig controls the HTTP API
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// DatabaseConfig controls the snapshot store
type DatabaseConfig struct {
	Path     string `yaml:"path"`
	Schedule string `yaml:"schedule,omitempty"` // cron spec for snapshots while serving
}

// WatchConfig controls the document watcher
type WatchConfig struct {
	Debounce Duration `yaml:"debounce"`
}

// Duration wraps time.Duration for YAML marshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the time.Duration value
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
