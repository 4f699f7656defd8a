package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"

	"github.com/rpggio/closing-timeline/internal/config"
	"github.com/urfave/cli/v3"
)

// Populated at build time via -ldflags.
var version = "dev"

func build() string {
	if version != "dev" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if mv := info.Main.Version; mv != "" && mv != "(devel)" {
			return mv
		}
	}
	return version
}

// appState carries global flag values and what the Before hook builds from
// them to every command.
type appState struct {
	configPath string
	logLevel   string
	dbPath     string

	cfg      config.Config
	logger   *slog.Logger
	closeLog func()
}

func newApp() (*cli.Command, *appState) {
	st := &appState{}

	app := &cli.Command{
		Name:      "closing-timeline",
		Usage:     "Compute real-estate contingency deadlines",
		UsageText: "closing-timeline [global options] [command [command options]]",
		Description: `closing-timeline schedules purchase agreement contingencies from a mutual
acceptance date and a closing date, skipping weekends and federal holidays.

Run with no command to serve the MCP tools over stdio.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to YAML config file",
				Sources:     cli.EnvVars("TIMELINE_CONFIG_PATH"),
				Destination: &st.configPath,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error)",
				Sources:     cli.EnvVars("TIMELINE_LOG_LEVEL"),
				Destination: &st.logLevel,
			},
			&cli.StringFlag{
				Name:        "db",
				Usage:       "path to the SQLite database",
				Sources:     cli.EnvVars("TIMELINE_DB_PATH"),
				Destination: &st.dbPath,
			},
		},
		Before: st.before,
		After:  st.after,
		Action: st.runServe,
		Commands: []*cli.Command{
			st.serveCmd(),
			st.timelineCmd(),
			st.holidaysCmd(),
			st.checkCmd(),
		},
	}
	return app, st
}

func main() {
	app, _ := newApp()
	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func (st *appState) before(ctx context.Context, c *cli.Command) (context.Context, error) {
	cfg, err := config.Load(st.configPath)
	if err != nil {
		return ctx, fmt.Errorf("load config: %w", err)
	}
	if st.logLevel != "" {
		cfg.Log.Level = st.logLevel
	}
	if st.dbPath != "" {
		cfg.DB.Path = st.dbPath
	}
	if err := cfg.Validate(); err != nil {
		return ctx, fmt.Errorf("load config: %w", err)
	}
	st.cfg = cfg

	logger, closeLog, err := newLogger(cfg.Log)
	if err != nil {
		return ctx, fmt.Errorf("setup logger: %w", err)
	}
	st.logger = logger
	st.closeLog = closeLog
	return ctx, nil
}

func (st *appState) after(_ context.Context, _ *cli.Command) error {
	if st.closeLog != nil {
		st.closeLog()
	}
	return nil
}
