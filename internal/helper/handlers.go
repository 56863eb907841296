package helper

import (
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/mj1618/backtick/internal/model"
	"github.com/mj1618/backtick/internal/platform"
	"github.com/mj1618/backtick/internal/protocol"
)

// Handle answers one raw request. shutdown is true when the caller should
// stop serving after delivering the reply.
func (s *Server) Handle(raw string) (req protocol.Request, reply string, shutdown bool) {
	req, err := protocol.ParseRequest(raw)
	if err != nil {
		return req, protocol.Error("Unknown command"), false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch req.Command {
	case protocol.CmdGetStatus:
		return req, s.handleGetStatus(), false
	case protocol.CmdRequestPermission:
		return req, s.handleRequestPermission(), false
	case protocol.CmdGetWindows:
		return req, s.handleGetWindows(req.Payload), false
	case protocol.CmdActivateWindow:
		return req, s.handleActivateWindow(req.Payload), false
	case protocol.CmdShutdown:
		return req, protocol.OK(""), true
	default:
		return req, protocol.Error("Unknown command"), false
	}
}

func (s *Server) handleGetStatus() string {
	status := model.Status{
		PID:     os.Getpid(),
		Version: s.cfg.Version,
	}
	if s.provider != nil && s.provider.Permissions != nil {
		status.HasAccessibilityPermission = s.provider.Permissions.IsTrusted()
	}
	data, err := json.Marshal(status)
	if err != nil {
		return protocol.Error("Failed to encode status response")
	}
	return protocol.OK(string(data))
}

func (s *Server) handleRequestPermission() string {
	if s.provider != nil && s.provider.Permissions != nil {
		trusted := s.provider.Permissions.RequestTrust()
		s.logger.Info("accessibility permission requested", zap.Bool("trusted", trusted))
	}
	return protocol.OK("")
}

func (s *Server) handleGetWindows(payload string) string {
	req := model.DefaultGetWindowsRequest()
	if payload != "" {
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			return protocol.Error(fmt.Sprintf("Failed to get windows: %v", err))
		}
	}

	current, err := s.editorWindows()
	if err != nil {
		s.logger.Warn("list editor windows failed", zap.Error(err))
		return protocol.Error(fmt.Sprintf("Failed to get windows: %v", err))
	}

	ordered := s.order.Sync(current, req)
	s.logger.Debug("window order synced", zap.Ints("order", s.order.IDs()))
	data, err := json.Marshal(ordered)
	if err != nil {
		return protocol.Error(fmt.Sprintf("Failed to get windows: %v", err))
	}
	return protocol.OK(string(data))
}

func (s *Server) handleActivateWindow(payload string) string {
	var req struct {
		ID *int `json:"id"`
	}
	if err := json.Unmarshal([]byte(payload), &req); err != nil || req.ID == nil {
		return protocol.Error("Failed to parse activate window request")
	}
	id := *req.ID

	if s.provider == nil || s.provider.WindowManager == nil {
		return protocol.Error("Failed to activate window")
	}
	if err := s.provider.WindowManager.ActivateWindow(id); err != nil {
		s.logger.Warn("activate window failed", zap.Int("id", id), zap.Error(err))
		return protocol.Error("Failed to activate window")
	}

	s.order.Promote(id)
	s.logger.Debug("window promoted", zap.Int("id", id), zap.Int("tracked", s.order.Len()))
	return protocol.OK("")
}

// editorWindows lists on-screen editor windows front to back. The caller
// must hold s.mu.
func (s *Server) editorWindows() ([]model.WindowInfo, error) {
	if s.provider == nil || s.provider.Reader == nil {
		return nil, platform.ErrUnsupported
	}
	windows, err := s.provider.Reader.ListWindows(platform.ListOptions{
		OnScreenOnly: true,
		AllLayers:    true,
	})
	if err != nil {
		return nil, err
	}

	var front model.App
	if s.provider.WindowManager != nil {
		if app, err := s.provider.WindowManager.FrontmostApp(); err == nil {
			front = app
		} else {
			s.logger.Debug("frontmost app unavailable", zap.Error(err))
		}
	}
	return s.cfg.Editor.EditorWindows(windows, front), nil
}
