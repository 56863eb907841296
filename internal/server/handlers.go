package server

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"gopkg.in/yaml.v3"

	"github.com/mj1618/backtick/internal/model"
	"github.com/mj1618/backtick/internal/platform"
)

// toText serializes v to YAML for an MCP response.
func toText(v interface{}) string {
	b, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

type statusResult struct {
	Running bool          `yaml:"running"`
	Socket  string        `yaml:"socket"`
	Status  *model.Status `yaml:"status,omitempty"`
	Error   string        `yaml:"error,omitempty"`
}

func (s *Server) handleStatus(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result := statusResult{Socket: s.client.SocketPath()}
	status, err := s.client.GetStatus(ctx)
	if err != nil {
		result.Error = err.Error()
		return mcp.NewToolResultText(toText(result)), nil
	}
	result.Running = true
	result.Status = &status
	return mcp.NewToolResultText(toText(result)), nil
}

// windowsRequest applies tool arguments over the configured defaults.
func (s *Server) windowsRequest(params map[string]interface{}) (model.GetWindowsRequest, error) {
	req := s.cfg.Windows
	if req.NewWindowPosition == "" || req.ActivationMode == "" {
		req = model.DefaultGetWindowsRequest()
	}
	if v := stringParam(params, "new-window-position", ""); v != "" {
		pos, err := model.ParsePosition(v)
		if err != nil {
			return req, err
		}
		req.NewWindowPosition = pos
	}
	if v := stringParam(params, "activation-mode", ""); v != "" {
		mode, err := model.ParseActivationMode(v)
		if err != nil {
			return req, err
		}
		req.ActivationMode = mode
	}
	return req, nil
}

func (s *Server) handleWindows(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req, err := s.windowsRequest(request.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	windows, err := s.client.GetWindows(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(toText(windows)), nil
}

func (s *Server) handleActivate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := intParam(request.GetArguments(), "id", 0)
	if id <= 0 {
		return mcp.NewToolResultError("id must be a positive window ID"), nil
	}
	if err := s.client.ActivateWindow(ctx, id); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.cache.InvalidateAll()
	return mcp.NewToolResultText(toText(map[string]interface{}{"ok": true, "id": id})), nil
}

func (s *Server) handleSwitch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	d, err := model.ParseDirection(stringParam(params, "direction", string(model.DirectionInstant)))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	req, err := s.windowsRequest(params)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.client.Switch(ctx, req, d)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.cache.InvalidateAll()
	return mcp.NewToolResultText(toText(result)), nil
}

func (s *Server) handleList(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()

	s.providerMu.Lock()
	defer s.providerMu.Unlock()

	if s.provider == nil || s.provider.Reader == nil {
		return mcp.NewToolResultError("reader not available on this platform"), nil
	}

	windows, err := s.cache.ListWindows(s.provider.Reader, platform.ListOptions{
		PID:          intParam(params, "pid", 0),
		App:          stringParam(params, "app", ""),
		OnScreenOnly: true,
		AllLayers:    boolParam(params, "all-layers", false),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if windows == nil {
		windows = []model.Window{}
	}
	return mcp.NewToolResultText(toText(windows)), nil
}
