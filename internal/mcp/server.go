package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/closing-timeline/internal/domain/activity"
	"github.com/rpggio/closing-timeline/internal/domain/contingency"
	"github.com/rpggio/closing-timeline/internal/domain/instance"
	"github.com/rpggio/closing-timeline/internal/schedule"
)

// TimelineService defines saved timeline operations needed by MCP.
type TimelineService interface {
	Create(ctx context.Context, req instance.CreateRequest) (*instance.Instance, error)
	Get(ctx context.Context, id string) (*instance.Instance, error)
	List(ctx context.Context, archived bool) ([]instance.Summary, error)
	Save(ctx context.Context, req instance.SaveRequest) (*instance.Instance, error)
	Delete(ctx context.Context, id string) error
	ToggleArchive(ctx context.Context, id string) (*instance.Instance, error)
	AddContingency(ctx context.Context, id string, c contingency.Contingency) (*instance.Instance, contingency.Contingency, error)
	UpdateContingency(ctx context.Context, id string, c contingency.Contingency) (*instance.Instance, error)
	RemoveContingency(ctx context.Context, id, contingencyID string) (*instance.Instance, error)
	SetStatus(ctx context.Context, id, contingencyID string, status contingency.Status) (*instance.Instance, error)
	Reorder(ctx context.Context, id string, from, to int) (*instance.Instance, error)
	Timeline(ctx context.Context, id string) (*instance.Instance, []schedule.TimelineItem, error)
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Timelines TimelineService
	Activity  ActivityService
}

// Config contains server configuration.
type Config struct {
	Services Services
	Logger   *slog.Logger
	Version  string
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	version := cfg.Version
	if version == "" {
		version = "dev"
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "closing-timeline",
		Version: version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       logger,
	})

	registerDocResources(server)

	server.AddReceivingMiddleware(recoveryMiddleware(logger))
	server.AddReceivingMiddleware(trafficLoggingMiddleware(logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(logger, "outbound"))

	registerTools(server, &toolset{
		timelines: cfg.Services.Timelines,
		activity:  cfg.Services.Activity,
		assembler: schedule.NewAssembler(logger),
		logger:    logger,
	})

	return server
}
