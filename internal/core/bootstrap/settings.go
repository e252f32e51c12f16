// Package bootstrap turns the configuration file and command-line
// overrides into effective settings and carries out the commands built
// on them.
//
// Every setting remembers where its value came from (default, config
// file or flag) so the config command can explain the result.
package bootstrap

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"netplan-parser/internal/codec"
	"netplan-parser/internal/config"
	"netplan-parser/internal/service"
)

// Origin tells where a setting came from.
type Origin string

const (
	OriginDefault Origin = "default"
	OriginConfig  Origin = "config"
	OriginFlag    Origin = "flag"
)

// Overrides are the values given on the command line. Zero values mean
// "not given".
type Overrides struct {
	Dirs     []string
	Exclude  []string
	Files    []string
	Format   string
	Lenient  bool
	Addr     string
	DBPath   string
	Schedule string
	Debounce time.Duration
}

// Settings are the effective values a command runs with.
type Settings struct {
	Source     service.Source
	Strict     bool
	Format     string
	Addr       string
	DBPath     string
	Schedule   string
	Debounce   time.Duration
	ConfigPath string

	origins map[string]Origin
}

// Resolve merges cfg (which may be nil) with the overrides. Flags win
// over the file, the file wins over defaults.
func Resolve(cfg *config.Config, cfgPath string, o Overrides) *Settings {
	fromFile := cfg != nil
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	def := config.DefaultConfig()

	s := &Settings{ConfigPath: cfgPath, origins: make(map[string]Origin)}

	s.Source.Dirs = pickList(s, "dirs", o.Dirs, cfg.Netplan.Dirs, def.Netplan.Dirs, fromFile)
	s.Source.Exclude = pickList(s, "exclude", o.Exclude, cfg.Netplan.Exclude, def.Netplan.Exclude, fromFile)
	s.Source.Files = pickList(s, "files", o.Files, nil, nil, false)

	s.Strict = cfg.IsStrict()
	s.origins["strict"] = originOf(fromFile && cfg.Netplan.Strict != nil)
	if o.Lenient {
		s.Strict = false
		s.origins["strict"] = OriginFlag
	}

	s.Format = pickString(s, "format", o.Format, cfg.Output.Format, def.Output.Format, fromFile)
	s.Addr = pickString(s, "addr", o.Addr, cfg.Server.Addr, def.Server.Addr, fromFile)
	s.DBPath = pickString(s, "db", o.DBPath, cfg.Database.Path, def.Database.Path, fromFile)
	s.Schedule = pickString(s, "schedule", o.Schedule, cfg.Database.Schedule, def.Database.Schedule, fromFile)

	s.Debounce = cfg.Watch.Debounce.Duration()
	s.origins["debounce"] = originOf(fromFile && s.Debounce != def.Watch.Debounce.Duration())
	if o.Debounce > 0 {
		s.Debounce = o.Debounce
		s.origins["debounce"] = OriginFlag
	}

	return s
}

func originOf(fromConfig bool) Origin {
	if fromConfig {
		return OriginConfig
	}
	return OriginDefault
}

func pickString(s *Settings, key, flag, file, def string, fromFile bool) string {
	switch {
	case flag != "":
		s.origins[key] = OriginFlag
		return flag
	case fromFile && file != def:
		s.origins[key] = OriginConfig
		return file
	default:
		s.origins[key] = OriginDefault
		return file
	}
}

func pickList(s *Settings, key string, flag, file, def []string, fromFile bool) []string {
	switch {
	case len(flag) > 0:
		s.origins[key] = OriginFlag
		return flag
	case fromFile && !equalLists(file, def):
		s.origins[key] = OriginConfig
		return file
	default:
		s.origins[key] = OriginDefault
		return file
	}
}

func equalLists(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Origin returns where the named setting came from.
func (s *Settings) Origin(key string) Origin {
	if o, ok := s.origins[key]; ok {
		return o
	}
	return OriginDefault
}

// FormatFor returns the output format of a query. Without an explicit
// format, show prints YAML and the relationship queries print names.
func (s *Settings) FormatFor(kind service.QueryKind) string {
	if s.Format != "" {
		return s.Format
	}
	if kind == service.QueryShow {
		return codec.FormatYAML
	}
	return codec.FormatNames
}

// Parser creates a parser over the configured documents.
func (s *Settings) Parser() *service.Parser {
	return service.NewParser(s.Source)
}

// Describe writes the effective settings and their origins.
func (s *Settings) Describe(w io.Writer) error {
	path := s.ConfigPath
	if path == "" {
		path = "(none)"
	}

	rows := map[string]string{
		"dirs":     strings.Join(s.Source.Dirs, ","),
		"exclude":  strings.Join(s.Source.Exclude, ","),
		"files":    strings.Join(s.Source.Files, ","),
		"strict":   fmt.Sprint(s.Strict),
		"format":   s.Format,
		"addr":     s.Addr,
		"db":       s.DBPath,
		"schedule": s.Schedule,
		"debounce": s.Debounce.String(),
	}
	keys := make([]string, 0, len(rows))
	for k := range rows {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if _, err := fmt.Fprintf(w, "config: %s\n", path); err != nil {
		return err
	}
	for _, k := range keys {
		if _, err := fmt.Fprintf(w, "%s: %s (%s)\n", k, rows[k], s.Origin(k)); err != nil {
			return err
		}
	}
	return nil
}
