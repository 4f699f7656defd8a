package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/closing-timeline/internal/config"
	"github.com/rpggio/closing-timeline/internal/domain/activity"
	"github.com/rpggio/closing-timeline/internal/domain/instance"
	"github.com/rpggio/closing-timeline/internal/mcp"
	"github.com/rpggio/closing-timeline/internal/sqlite"
	"github.com/urfave/cli/v3"
)

type services struct {
	db        *sqlite.DB
	timelines *instance.Service
	activity  *activity.Service
}

// openServices opens and migrates the database and wires the domain
// services on top of it.
func openServices(cfg config.Config, logger *slog.Logger) (*services, error) {
	if err := ensureDBDir(cfg.DB.Path); err != nil {
		return nil, fmt.Errorf("prepare database path: %w", err)
	}
	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	instanceRepo := sqlite.NewInstanceRepository(db)
	activityRepo := sqlite.NewActivityRepository(db)

	return &services{
		db: db,
		timelines: instance.NewService(instanceRepo, activityRepo, instance.Settings{
			ClosingOffsetDays: cfg.Timeline.ClosingOffsetDays,
		}, logger),
		activity: activity.NewService(activityRepo, logger),
	}, nil
}

func (s *services) Close() error {
	return s.db.Close()
}

func (st *appState) serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the MCP tools over stdio (default)",
		Description: `Runs the MCP server on stdin/stdout. Logs go to stderr, or to log.path
when configured, so stdout carries only JSON-RPC.`,
		Action: st.runServe,
	}
}

func (st *appState) runServe(ctx context.Context, _ *cli.Command) error {
	svc, err := openServices(st.cfg, st.logger)
	if err != nil {
		return err
	}
	defer svc.Close()

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Timelines: svc.timelines,
			Activity:  svc.activity,
		},
		Logger:  st.logger,
		Version: build(),
	})
	return runStdioMode(ctx, st.logger, mcpServer)
}

func runStdioMode(ctx context.Context, logger *slog.Logger, mcpServer *sdkmcp.Server) error {
	logger.Info("starting stdio transport")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	go func() {
		select {
		case <-stop:
			logger.Info("shutting down")
			cancel()
		case <-ctx.Done():
		}
	}()

	// Run blocks until stdin closes or ctx is canceled.
	if err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		return fmt.Errorf("stdio server: %w", err)
	}
	return nil
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" || strings.HasPrefix(path, "file:") {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
