package mcp

import (
	"context"
	"fmt"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ppiankov/truelinks/internal/config"
)

// Config holds MCP server configuration.
type Config struct {
	ConfigPath string
	Version    string
	Logger     *slog.Logger
}

// Server exposes link evaluation as MCP tools. Display settings are
// reloaded from the config file while the server runs.
type Server struct {
	mcpServer *mcpsdk.Server
	settings  *config.Watcher
	logger    *slog.Logger
}

// New creates an MCP server with loaded settings and registered tools.
func New(cfg Config) (*Server, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	initial, err := config.LoadConfig(cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	version := cfg.Version
	if version == "" {
		version = "dev"
	}

	s := &Server{
		settings: config.NewWatcher(cfg.ConfigPath, initial, logger),
		logger:   logger,
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    "truelinks",
			Version: version,
		},
		nil,
	)

	s.registerTools()
	return s, nil
}

// Run starts the settings watcher and serves MCP on stdio. Blocks until ctx
// is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		if err := s.settings.Run(ctx); err != nil {
			s.logger.Warn("config_watcher_stopped", "err", err)
		}
	}()

	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

// registerTools adds all truelinks tools to the MCP server.
func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "truelinks_evaluate",
		Description: "Score a link for phishing and abuse risk. Returns Safe/Moderate/Risky, a 0-100 score, and ranked reasons.",
	}, s.handleEvaluate)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "truelinks_signals",
		Description: "List every risk signal the evaluator can report, with its severity.",
	}, s.handleSignals)
}
