package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"netplan-parser/internal/config"
	"netplan-parser/internal/core/bootstrap"
	"netplan-parser/internal/errs"
	"netplan-parser/internal/logging"

	"github.com/paularlott/cli"
	"github.com/paularlott/cli/env"
)

var (
	version = "dev"
	commit  = "none"
)

// Global flag values
var (
	format     string
	dirs       string
	exclude    string
	files      string
	lenient    bool
	configPath string
	features   bool
)

// Loaded in PreRun, used by every command
var (
	cfg      *config.Config
	settings *bootstrap.Settings
)

func main() {
	// Load .env file if it exists
	env.Load()

	logging.Configure(config.DefaultLogLevel, config.DefaultLogFormat)

	rootCmd := &cli.Command{
		Name:        "netplan-parser",
		Version:     version + " (" + commit + ")",
		Usage:       "Query netplan network configuration",
		Description: "Reads netplan YAML documents, merges them like netplan does and answers which interfaces belong together",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "format",
				Aliases:  []string{"f"},
				Usage:    "Output format (yaml, json, names, brief, netplan)",
				EnvVars:  []string{"NETPLAN_PARSER_FORMAT"},
				Global:   true,
				AssignTo: &format,
			},
			&cli.StringFlag{
				Name:     "dir",
				Aliases:  []string{"d"},
				Usage:    "Comma-separated netplan directories, lowest priority first",
				EnvVars:  []string{"NETPLAN_PARSER_DIRS"},
				Global:   true,
				AssignTo: &dirs,
			},
			&cli.StringFlag{
				Name:     "exclude",
				Aliases:  []string{"x"},
				Usage:    "Comma-separated file names to skip",
				Global:   true,
				AssignTo: &exclude,
			},
			&cli.StringFlag{
				Name:     "file",
				Usage:    "Comma-separated documents to read instead of scanning directories",
				Global:   true,
				AssignTo: &files,
			},
			&cli.BoolFlag{
				Name:     "lenient",
				Usage:    "Ignore interface names no document declares",
				Global:   true,
				AssignTo: &lenient,
			},
			&cli.StringFlag{
				Name:     "config",
				Usage:    "Configuration file",
				EnvVars:  []string{config.EnvConfigPath},
				Global:   true,
				AssignTo: &configPath,
			},
			&cli.StringFlag{
				Name:         "log-level",
				Usage:        "Log level (debug, info, warn, error)",
				DefaultValue: config.DefaultLogLevel,
				EnvVars:      []string{"NETPLAN_PARSER_LOG_LEVEL"},
				Global:       true,
			},
			&cli.StringFlag{
				Name:         "log-format",
				Usage:        "Log format (console, json)",
				DefaultValue: config.DefaultLogFormat,
				EnvVars:      []string{"NETPLAN_PARSER_LOG_FORMAT"},
				Global:       true,
			},
			&cli.BoolFlag{
				Name:     "features",
				Usage:    "Print the supported features and exit",
				AssignTo: &features,
			},
		},
		PreRun: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if err := loadSettings(); err != nil {
				return ctx, err
			}

			// Flags left at their defaults fall back to the config file
			level, logFormat := cmd.GetString("log-level"), cmd.GetString("log-format")
			if level == config.DefaultLogLevel {
				level = cfg.Log.Level
			}
			if logFormat == config.DefaultLogFormat {
				logFormat = cfg.Log.Format
			}
			if err := logging.Configure(level, logFormat); err != nil {
				return ctx, errs.New(errs.KindInvalid, err)
			}
			return ctx, nil
		},
		Run: func(ctx context.Context, cmd *cli.Command) error {
			if features {
				os.Stdout.WriteString("Features: netplan-parser=" + version + "\n")
				return nil
			}
			return errs.Invalid("no command given (use show, related, physical, export, watch, serve or config)")
		},
		Commands: []*cli.Command{
			queryCommand("show", "Show interface configuration", "Print the configuration of the named interfaces, or of every interface when none are named"),
			queryCommand("related", "Show related interfaces", "Print the named interfaces together with every interface they are linked to, are members of or have as members"),
			queryCommand("physical", "Show physical devices", "Print the ethernet, wifi and modem devices among the related interfaces"),
			exportCommand(),
			watchCommand(),
			serveCommand(),
			configCommand(),
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.Execute(ctx); err != nil {
		logging.Error("Command failed", "error", err)
		stop()
		os.Exit(1)
	}
}

// loadSettings reads the configuration file and applies the global flags
func loadSettings() error {
	var (
		path string
		err  error
	)
	if configPath != "" {
		cfg, path, err = config.LoadFromPath(configPath)
	} else {
		cfg, path, err = config.Load()
	}
	if err != nil {
		return err
	}
	if path != "" {
		logging.Debug("Configuration loaded", "path", path, "summary", cfg.Summary())
	}

	settings = bootstrap.Resolve(cfg, path, bootstrap.Overrides{
		Dirs:    splitList(dirs),
		Exclude: splitList(exclude),
		Files:   splitList(files),
		Format:  format,
		Lenient: lenient,
	})
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
