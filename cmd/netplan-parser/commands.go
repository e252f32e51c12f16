package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"netplan-parser/internal/config"
	"netplan-parser/internal/core/bootstrap"
	"netplan-parser/internal/errs"
	"netplan-parser/internal/service"

	"github.com/paularlott/cli"
)

func queryCommand(name, usage, description string) *cli.Command {
	kind := service.QueryKind(name)
	return &cli.Command{
		Name:        name,
		Usage:       usage,
		Description: description,
		MaxArgs:     cli.UnlimitedArgs,
		Run: func(ctx context.Context, cmd *cli.Command) error {
			return bootstrap.Query(ctx, settings, kind, cmd.GetArgs(), os.Stdout)
		},
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:        "export",
		Usage:       "Write a snapshot to SQLite",
		Description: "Store the merged interfaces and their relations in a SQLite database, replacing the previous snapshot",
		MaxArgs:     cli.UnlimitedArgs,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "db",
				Usage: "Database file (default from config, " + config.DefaultDatabasePath + ")",
			},
			&cli.BoolFlag{
				Name:  "related",
				Usage: "Include everything related to the named interfaces",
			},
		},
		Run: func(ctx context.Context, cmd *cli.Command) error {
			if db := cmd.GetString("db"); db != "" {
				settings.DBPath = db
			}

			info, err := bootstrap.Export(ctx, settings, cmd.GetArgs(), cmd.GetBool("related"))
			if err != nil {
				return err
			}
			fmt.Printf("Exported %d interfaces and %d relations to %s\n", info.Interfaces, info.Relations, settings.DBPath)
			return nil
		},
	}
}

func watchCommand() *cli.Command {
	sub := func(kind service.QueryKind, usage string) *cli.Command {
		return &cli.Command{
			Name:    string(kind),
			Usage:   usage,
			MaxArgs: cli.UnlimitedArgs,
			Flags:   []cli.Flag{debounceFlag()},
			Run: func(ctx context.Context, cmd *cli.Command) error {
				if err := applyDebounce(cmd); err != nil {
					return err
				}
				return bootstrap.Watch(ctx, settings, kind, cmd.GetArgs(), os.Stdout)
			},
		}
	}

	return &cli.Command{
		Name:        "watch",
		Usage:       "Re-run a query whenever the documents change",
		Description: "Print a query result and print it again after every change to the netplan documents",
		Commands: []*cli.Command{
			sub(service.QueryShow, "Watch interface configuration"),
			sub(service.QueryRelated, "Watch related interfaces"),
			sub(service.QueryPhysical, "Watch physical devices"),
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:        "serve",
		Usage:       "Serve the read-only HTTP API",
		Description: "Answer queries over HTTP and reload the configuration when the documents change",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "addr",
				Usage:   "Listen address (default from config, " + config.DefaultServerAddr + ")",
				EnvVars: []string{"NETPLAN_PARSER_ADDR"},
			},
			&cli.StringFlag{
				Name:  "snapshot-schedule",
				Usage: "Cron schedule for SQLite snapshots while serving, e.g. \"@every 1h\" (default from config, off)",
			},
			&cli.StringFlag{
				Name:  "db",
				Usage: "SQLite database for scheduled snapshots (default from config, " + config.DefaultDatabasePath + ")",
			},
			debounceFlag(),
		},
		Run: func(ctx context.Context, cmd *cli.Command) error {
			if addr := cmd.GetString("addr"); addr != "" {
				settings.Addr = addr
			}
			if schedule := cmd.GetString("snapshot-schedule"); schedule != "" {
				settings.Schedule = schedule
			}
			if db := cmd.GetString("db"); db != "" {
				settings.DBPath = db
			}
			if err := applyDebounce(cmd); err != nil {
				return err
			}
			return bootstrap.Serve(ctx, settings)
		},
	}
}

func configCommand() *cli.Command {
	return &cli.Command{
		Name:        "config",
		Usage:       "Show the effective settings",
		Description: "Print every setting with where its value came from; --write stores the loaded configuration",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "write",
				Usage: "Write the configuration file (to --config or the user config path)",
			},
		},
		Run: func(ctx context.Context, cmd *cli.Command) error {
			if !cmd.GetBool("write") {
				return settings.Describe(os.Stdout)
			}

			path := configPath
			if path == "" {
				path = config.DefaultConfigPath()
			}
			if err := cfg.Save(path); err != nil {
				return err
			}
			fmt.Printf("Configuration written to %s\n", path)
			return nil
		},
	}
}

func debounceFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "debounce",
		Usage: "How long changes must settle before reloading, e.g. 500ms",
	}
}

func applyDebounce(cmd *cli.Command) error {
	s := cmd.GetString("debounce")
	if s == "" {
		return nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return errs.Invalid("invalid debounce %q", s)
	}
	settings.Debounce = d
	return nil
}
