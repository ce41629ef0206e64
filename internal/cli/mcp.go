package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	tlmcp "github.com/ppiankov/truelinks/internal/mcp"
)

func init() {
	rootCmd.AddCommand(mcpCmd)
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP tool server for agent integration",
	Long: "Runs truelinks as an MCP (Model Context Protocol) server over stdio.\n" +
		"Exposes tools: truelinks_evaluate, truelinks_signals.\n" +
		"Display settings are reloaded when the config file changes.",
	RunE: runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	srv, err := tlmcp.New(tlmcp.Config{
		ConfigPath: configPath,
		Version:    version,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger.Info("mcp_server_started", "transport", "stdio")
	err = srv.Run(ctx)
	logger.Info("mcp_server_stopped")
	return err
}
