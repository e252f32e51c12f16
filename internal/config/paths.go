package config

import (
	"os"
	"path/filepath"
)

const (
	// EnvConfigPath names an explicit config file
	EnvConfigPath = "NETPLAN_PARSER_CONFIG"
	// ConfigFileName is looked up in the working directory
	ConfigFileName = "netplan-parser.yaml"
	// ConfigDirName is the directory under the XDG and system config roots
	ConfigDirName = "netplan-parser"
)

// SearchPaths lists the places a config file is looked for, highest
// priority first. An explicit $NETPLAN_PARSER_CONFIG is not included.
func SearchPaths() []string {
	paths := []string{ConfigFileName}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, ConfigDirName, "config.yaml"))
	}
	if home := os.Getenv("HOME"); home != "" {
		paths = append(paths, filepath.Join(home, ".config", ConfigDirName, "config.yaml"))
	}
	return append(paths, filepath.Join("/etc", ConfigDirName, "config.yaml"))
}

// FindConfigPath returns the config file to load, or "" when there is
// none. $NETPLAN_PARSER_CONFIG is returned even if the file is missing so
// loading it reports the mistake.
func FindConfigPath() string {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return path
	}

	for _, path := range SearchPaths() {
		if !isFile(path) {
			continue
		}
		if abs, err := filepath.Abs(path); err == nil {
			return abs
		}
		return path
	}
	return ""
}

// DefaultConfigPath is where config --write stores a new file: the
// per-user location, or the working directory without a home.
func DefaultConfigPath() string {
	paths := SearchPaths()
	if len(paths) > 2 {
		return paths[1]
	}
	return ConfigFileName
}

// EnsureConfigDir creates the directory holding configPath
func EnsureConfigDir(configPath string) error {
	return os.MkdirAll(filepath.Dir(configPath), 0755)
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
