package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mj1618/backtick/internal/platform"
	"github.com/mj1618/backtick/internal/server"
	"github.com/mj1618/backtick/internal/version"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start an MCP server exposing window switching tools",
	Long: `Start a Model Context Protocol (MCP) server that exposes the helper's
window switching as tools: status, windows, activate, switch and list.
The helper must be running ("backtick start").

Supported transports:
  stdio             Standard I/O (default)
  streamable-http   Streamable HTTP transport (for remote agents)

Examples:
  backtick serve
  backtick serve --transport streamable-http --port 8080
  backtick serve --cache-ttl 0`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("transport", "stdio", "Transport: stdio, streamable-http")
	serveCmd.Flags().Int("port", 8080, "HTTP port for streamable-http transport")
	serveCmd.Flags().Int("cache-ttl", 500, "Window list cache TTL in milliseconds (0 to disable)")
}

func runServe(cmd *cobra.Command, args []string) error {
	transport, _ := cmd.Flags().GetString("transport")
	port, _ := cmd.Flags().GetInt("port")
	cacheTTLMs, _ := cmd.Flags().GetInt("cache-ttl")

	// The list tool needs the window server; the others only need the helper.
	provider, err := platform.NewProvider()
	if err != nil {
		logger.Warn("window server unavailable, list tool disabled", zap.Error(err))
		provider = nil
	}

	srv := server.New(newClient(), provider, server.Config{
		Version:   version.Version,
		Transport: transport,
		Port:      port,
		CacheTTL:  time.Duration(cacheTTLMs) * time.Millisecond,
		Windows:   cfg.GetWindowsRequest(),
	})
	if err := srv.Serve(); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}
