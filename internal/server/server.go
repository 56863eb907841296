// Package server exposes the helper's window switching as Model Context
// Protocol tools.
package server

import (
	"fmt"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/mj1618/backtick/internal/client"
	"github.com/mj1618/backtick/internal/model"
	"github.com/mj1618/backtick/internal/platform"
)

// Config holds MCP server configuration.
type Config struct {
	Version   string
	Transport string
	Port      int
	CacheTTL  time.Duration
	Windows   model.GetWindowsRequest
}

// Server wraps the MCP server with the helper client, the platform
// provider and the listing cache.
type Server struct {
	cfg        Config
	client     *client.Client
	provider   *platform.Provider
	providerMu sync.Mutex
	cache      *WindowCache
	mcp        *mcpserver.MCPServer
}

// New creates an MCP server. provider may be nil on platforms without a
// window server; the list tool then reports an error.
func New(c *client.Client, provider *platform.Provider, cfg Config) *Server {
	s := &Server{
		cfg:      cfg,
		client:   c,
		provider: provider,
		cache:    NewWindowCache(cfg.CacheTTL),
	}
	s.mcp = mcpserver.NewMCPServer("backtick", cfg.Version)
	s.registerTools()
	return s
}

// Serve starts the MCP server with the configured transport.
func (s *Server) Serve() error {
	switch s.cfg.Transport {
	case "stdio", "":
		return mcpserver.ServeStdio(s.mcp)
	case "streamable-http":
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		return httpServer.Start(fmt.Sprintf(":%d", s.cfg.Port))
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", s.cfg.Transport)
	}
}

func (s *Server) registerTools() {
	s.mcp.AddTool(
		mcp.NewTool("status",
			mcp.WithDescription("Report whether the helper is running and has accessibility permission"),
		),
		s.handleStatus,
	)

	s.mcp.AddTool(
		mcp.NewTool("windows",
			mcp.WithDescription("List editor windows in most-recently-used order. The first entry is the window used most recently."),
			mcp.WithString("new-window-position", mcp.Description("Where windows not seen before are placed: top or bottom")),
			mcp.WithString("activation-mode", mcp.Description("automatic promotes the focused window on every listing; manual only on activate")),
		),
		s.handleWindows,
	)

	s.mcp.AddTool(
		mcp.NewTool("activate",
			mcp.WithDescription("Bring an editor window to the front by its window ID"),
			mcp.WithNumber("id", mcp.Description("Window ID from the windows tool"), mcp.Required()),
		),
		s.handleActivate,
	)

	s.mcp.AddTool(
		mcp.NewTool("switch",
			mcp.WithDescription("Switch to the next, previous or most recent other editor window"),
			mcp.WithString("direction", mcp.Description("forward, backward, or instant (default: instant)")),
		),
		s.handleSwitch,
	)

	s.mcp.AddTool(
		mcp.NewTool("list",
			mcp.WithDescription("List on-screen windows from the window server, front to back"),
			mcp.WithString("app", mcp.Description("Filter by application name")),
			mcp.WithNumber("pid", mcp.Description("Filter by process ID")),
			mcp.WithBoolean("all-layers", mcp.Description("Include menu bar, dock and other non-document layers")),
		),
		s.handleList,
	)
}
